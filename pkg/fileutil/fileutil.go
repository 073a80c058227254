// Package fileutil provides file lookup and stream helpers for bitmap files.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindFileCaseInsensitive searches for a file with the given name in the specified directory.
// The search is case-insensitive, which is useful for files copied from Windows media.
//
// Example:
//
//	path, err := FindFileCaseInsensitive("/path/to/dir", "Image.BMP")
//	// Will find "image.bmp", "IMAGE.BMP", "Image.bmp", etc.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}

// Resolve returns path itself when it exists, otherwise the entry in the same
// directory whose name matches case-insensitively.
func Resolve(path string) (string, error) {
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
}

// IsZstd reports whether path names a zstd-compressed stream.
func IsZstd(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}
