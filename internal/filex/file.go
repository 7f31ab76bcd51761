// Package filex contains small filesystem helpers shared by the fallback
// store and the config loader.
package filex

import (
	"fmt"
	"os"
)

// EnsureDir creates dir (and any missing parents) if it does not exist yet.
// It is a no-op when the directory is already there.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists, regardless of type.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
