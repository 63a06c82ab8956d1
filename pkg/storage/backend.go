package storage

import (
	"fmt"
	"strings"
)

// Collection is the key of one stored document
type Collection string

const (
	CollectionNurses          Collection = "nurses"
	CollectionFormulas        Collection = "formula_schedules"
	CollectionSettings        Collection = "settings"
	CollectionMonthlySchedule Collection = "monthly_schedule"
)

// Collections lists every document the store manages
var Collections = []Collection{
	CollectionNurses,
	CollectionFormulas,
	CollectionSettings,
	CollectionMonthlySchedule,
}

// Backend stores whole documents by key. Implementations only move bytes;
// defaults and merge rules live in DocumentStore.
type Backend interface {
	// Name identifies the backend in logs and health output
	Name() string

	// EnsureRoot creates the storage root if needed. It is idempotent.
	EnsureRoot() error

	// Read returns the stored bytes, or an error wrapping ErrNoDocument
	Read(key string) ([]byte, error)

	// Write replaces the document. Readers never observe a partial write.
	Write(key string, data []byte) error

	// Keys lists the stored document keys
	Keys() ([]string, error)

	Close() error
}

// validateKey rejects keys that cannot be mapped safely onto a file name
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty document key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid document key %q", key)
	}
	return nil
}
