package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store writes record batches as indented JSON array files. The destination
// is overwritten on every run; output goes through a temp file plus rename
// so readers never observe a half-written file.
type Store struct{}

func New() *Store {
	return &Store{}
}

func (s *Store) Write(path string, records any) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return os.Rename(tmpFile, path)
}
