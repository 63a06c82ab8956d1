package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError via errors.Is
	ErrNotFound = errors.New("not found")

	// ErrNoDocument is returned by backends when a key has never been written
	ErrNoDocument = errors.New("document does not exist")
)

// NotFoundScope says which level of a lookup came up empty
type NotFoundScope string

const (
	// ScopeDocument means the whole document is absent or empty
	ScopeDocument NotFoundScope = "document"
	// ScopeEntry means the document exists but the requested entry does not
	ScopeEntry NotFoundScope = "entry"
)

// NotFoundError reports a missing document or a missing entry inside one
type NotFoundError struct {
	Collection Collection
	Scope      NotFoundScope
	Key        string
}

func (e *NotFoundError) Error() string {
	if e.Scope == ScopeEntry {
		return fmt.Sprintf("%s: entry %s not found", e.Collection, e.Key)
	}
	return fmt.Sprintf("%s: document not found", e.Collection)
}

// Is lets callers test with errors.Is(err, ErrNotFound)
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError wraps a failure to read, decode, encode or write a document
type IOError struct {
	Op  string
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func documentNotFound(c Collection) error {
	return &NotFoundError{Collection: c, Scope: ScopeDocument}
}

func entryNotFound(c Collection, key string) error {
	return &NotFoundError{Collection: c, Scope: ScopeEntry, Key: key}
}
