package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultDataDir is the data directory used when none is configured
	DefaultDataDir = "data"

	documentExt = ".json"
)

// FileBackend stores each document as <dir>/<key>.json
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir. The directory is
// created lazily, on EnsureRoot or the first write.
func NewFileBackend(dir string) *FileBackend {
	if dir == "" {
		dir = DefaultDataDir
	}
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Name() string { return "file" }

// Dir returns the data directory
func (b *FileBackend) Dir() string { return b.dir }

// Path returns the file that holds key
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+documentExt)
}

// EnsureRoot creates the data directory if it does not exist
func (b *FileBackend) EnsureRoot() error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (b *FileBackend) Read(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNoDocument)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write streams to a temp file in the same directory and renames it over
// the document, so a crash mid-write leaves the previous version intact.
func (b *FileBackend) Write(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := b.EnsureRoot(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.Path(key)); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// Keys lists the documents in the data directory
func (b *FileBackend) Keys() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, documentExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, documentExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }
