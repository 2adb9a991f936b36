// Package fileutil holds file modes and directory helpers for generated output.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for snapshot files containing
// potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated declaration and
// manifest files intended to be read by package tooling.
const ReadableByAll os.FileMode = 0o644

// DirMode is the permission mode for created output directories.
const DirMode os.FileMode = 0o755

// ClearRegularFiles removes every regular file directly inside dir, keeping
// subdirectories and any file whose name is in keep. A missing dir is not
// an error. It returns the names of the removed files.
func ClearRegularFiles(dir string, keep ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fileutil: read %s: %w", dir, err)
	}
	var removed []string
	for _, e := range entries {
		if !e.Type().IsRegular() || contains(keep, e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("fileutil: remove %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
