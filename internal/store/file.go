package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"anonboard/internal/common"
	"anonboard/internal/filex"
)

// fileNames maps collection keys to the on-disk layout inherited from the
// original deployment. Unknown keys fall back to "<key>.json".
var fileNames = map[string]string{
	common.CollectionUsers:    "users.json",
	common.CollectionMessages: "global_chat.json",
	common.CollectionSettings: "admin_settings.json",
}

// File is the fallback store: one JSON document per collection inside a
// single directory. The directory is created lazily on first use. A mutex
// serializes all access so concurrent writers in one process cannot tear a
// file; cross-process races remain possible and are an accepted limitation.
type File struct {
	root string
	mu   sync.Mutex
}

func NewFile(root string) *File {
	return &File{root: root}
}

// Root returns the storage directory.
func (f *File) Root() string { return f.root }

func (f *File) path(key string) string {
	name, ok := fileNames[key]
	if !ok {
		name = key + ".json"
	}
	return filepath.Join(f.root, name)
}

// Get reads the document stored under key. A missing file yields
// common.ErrorNotFound.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := filex.EnsureDir(f.root); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put writes the document under key, replacing any previous content. The
// write goes through a temp file and rename so readers never observe a
// half-written document.
func (f *File) Put(ctx context.Context, key string, doc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := filex.EnsureDir(f.root); err != nil {
		return err
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.root, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the document under key. Deleting a missing document is not
// an error.
func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
