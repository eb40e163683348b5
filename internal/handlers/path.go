// sijil-crm/internal/handlers/path.go
package handlers

import (
	"errors"
	"os"
)

// uploadsBaseDir returns the directory where uploaded sheets are parked while
// they are parsed. Defaults to ./uploads when UPLOADS_DIR is not set.
func uploadsBaseDir() string {
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		return v
	}
	return "./uploads"
}

// ensureDir guarantees the directory exists. Returns an error if the path
// exists and is a regular file.
func ensureDir(path string) error {
	if path == "" {
		return errors.New("empty dir path")
	}
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.New("path exists and is not a directory")
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(path, 0o755)
}
