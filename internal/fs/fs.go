// Package fs holds the small file helpers shared by the stores.
package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TempSuffix marks a file being written by WriteFileAtomic.
const TempSuffix = ".tmp"

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic writes data next to path and renames it into place, creating
// the parent directory if needed. Readers see either the old or the new file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmpPath := path + TempSuffix
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// ListStaleTemp returns leftover temp files in dir, as absolute paths.
// A missing directory has none.
func ListStaleTemp(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	stale := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), TempSuffix) {
			continue
		}
		stale = append(stale, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(stale)
	return stale, nil
}
