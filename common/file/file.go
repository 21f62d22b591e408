package file

import (
	"errors"
	"os"
	"path/filepath"
)

// Write writes data to path, creating any missing parent directories
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o640)
}

// Exists returns whether or not a file or path exists
func Exists(name string) bool {
	_, err := os.Stat(name)
	return !errors.Is(err, os.ErrNotExist)
}
