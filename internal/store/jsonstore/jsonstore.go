package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed file storage. Single file per value, human-readable.
// No locking; one process owns the file.

// Read decodes the file at path into v. A missing file is reported as an
// error satisfying errors.Is(err, os.ErrNotExist).
func Read(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

// Write encodes v as indented JSON, creating the parent directory (0700)
// when needed.
func Write(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Remove deletes the file; a missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
