package storage

import (
	"encoding/json"
	"fmt"
)

// CopyResult summarizes a CopyDocuments run
type CopyResult struct {
	Copied  []string
	Skipped map[string]string
}

// CopyDocuments copies every document from src to dst, byte for byte.
// Documents that are not valid JSON are skipped and reported. With dryRun
// nothing is written to dst.
func CopyDocuments(src, dst Backend, dryRun bool) (*CopyResult, error) {
	keys, err := src.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", src.Name(), err)
	}

	if !dryRun {
		if err := dst.EnsureRoot(); err != nil {
			return nil, fmt.Errorf("failed to prepare %s backend: %w", dst.Name(), err)
		}
	}

	result := &CopyResult{Skipped: make(map[string]string)}
	for _, key := range keys {
		data, err := src.Read(key)
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(data) {
			result.Skipped[key] = "invalid JSON"
			continue
		}
		if !dryRun {
			if err := dst.Write(key, data); err != nil {
				return result, fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
		result.Copied = append(result.Copied, key)
	}
	return result, nil
}
