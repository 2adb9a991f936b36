package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/o2t/internal/fileutil"
)

// FileStore keeps the snapshot as a file on disk.
type FileStore struct {
	// Path is the snapshot file.
	Path string
}

// NewFileStore returns a store for raw_data.json inside dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Path: filepath.Join(dir, DefaultFileName)}
}

var _ Store = (*FileStore)(nil)

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(BackendFile, "load", err)
	}
	return data, nil
}

// Save implements Store. The file is written next to its final location
// and renamed into place.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, fileutil.DirMode); err != nil {
		return storeErr(BackendFile, "save", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return storeErr(BackendFile, "save", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storeErr(BackendFile, "save", err)
	}
	if err := tmp.Chmod(fileutil.OwnerReadWrite); err != nil {
		_ = tmp.Close()
		return storeErr(BackendFile, "save", err)
	}
	if err := tmp.Close(); err != nil {
		return storeErr(BackendFile, "save", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return storeErr(BackendFile, "save", err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }
