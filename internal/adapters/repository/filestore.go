package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/logger"
)

// FileStore keeps the log as one JSON array on disk. Appends rewrite the
// whole file through a temp file and rename, so readers see either the old
// or the new array, never a partial write.
type FileStore struct {
	path string
	mu   sync.Mutex
	cfg  settings
}

// NewFileStore creates a store at path. The file is created on first append.
func NewFileStore(path string, opts ...Option) *FileStore {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{path: path, cfg: cfg}
}

// Path returns the data file location.
func (f *FileStore) Path() string { return f.path }

// LoadAll implements Store.
func (f *FileStore) LoadAll(ctx context.Context) ([]model.Sighting, error) {
	return f.read(ctx)
}

// Append implements Store.
func (f *FileStore) Append(ctx context.Context, s model.Sighting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, s)

	data, err := f.encode(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	if err := f.replace(data); err != nil {
		f.cfg.log.Error(ctx, "append failed, previous log kept", logger.String("path", f.path), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close implements Store.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) read(ctx context.Context) ([]model.Sighting, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Sighting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCorrupt, f.path, err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		f.cfg.log.Error(ctx, "record file is not a JSON array", logger.String("path", f.path))
		return nil, fmt.Errorf("%w: %s is not a JSON array", ErrCorrupt, f.path)
	}
	var entries []model.Sighting
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		f.cfg.log.Error(ctx, "record file does not decode", logger.String("path", f.path), logger.Error(err))
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, f.path, err)
	}
	if entries == nil {
		entries = []model.Sighting{}
	}
	return entries, nil
}

func (f *FileStore) encode(entries []model.Sighting) ([]byte, error) {
	if f.cfg.indent == "" {
		return json.Marshal(entries)
	}
	return json.MarshalIndent(entries, "", f.cfg.indent)
}

func (f *FileStore) replace(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, fs.FileMode(f.cfg.fileMode)); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return err
	}
	return nil
}
