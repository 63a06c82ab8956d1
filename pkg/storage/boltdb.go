package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// DefaultBoltFile is the database file name inside the data directory
	DefaultBoltFile = "nurseduty.db"
)

var (
	// Bucket names
	bucketDocuments = []byte("documents")
)

// BoltBackend stores every document as one key in a BoltDB bucket
type BoltBackend struct {
	db   *bolt.DB
	path string
}

// NewBoltBackend opens (or creates) the database at path
func NewBoltBackend(path string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b := &BoltBackend{db: db, path: path}
	if err := b.EnsureRoot(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *BoltBackend) Name() string { return "bolt" }

// Path returns the database file
func (b *BoltBackend) Path() string { return b.path }

// EnsureRoot creates the documents bucket
func (b *BoltBackend) EnsureRoot() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDocuments); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketDocuments, err)
		}
		return nil
	})
}

func (b *BoltBackend) Read(key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDocuments)
		v := bucket.Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%s: %w", key, ErrNoDocument)
		}
		// v is only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (b *BoltBackend) Write(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).Put([]byte(key), data)
	})
}

func (b *BoltBackend) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Close closes the database
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
