package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"callops-platform/internal/callops"
)

// FileStore keeps the snapshot in a single JSON file. This is the default
// backend for local use. Writes go through a temp file plus rename so a crash
// mid-write never leaves a truncated snapshot behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (callops.State, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return callops.State{}, false, nil
	}
	if err != nil {
		return callops.State{}, false, fmt.Errorf("snapshot read %s: %w", f.path, err)
	}
	st, err := decode(data)
	if err != nil {
		return callops.State{}, false, err
	}
	return st, true, nil
}

func (f *FileStore) Save(_ context.Context, st callops.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot mkdir %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("snapshot rename %s: %w", f.path, err)
	}
	return nil
}
