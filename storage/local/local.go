// Package local implements shard storage on the local filesystem.
// Files are written under a temporary directory and moved into the
// output directory on publish, so readers never observe partial shards.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPending = errors.New("local: file already pending")
	ErrNotPending     = errors.New("local: file not pending")
)

// Storage writes files under dir with pending/publish semantics.
type Storage struct {
	dir    string
	tmpDir string

	mu      sync.Mutex
	pending map[string]string
}

// NewStorage returns storage rooted at dir. The directory and its
// temporary subdirectory are created if absent.
func NewStorage(dir, tmpDir string) (*Storage, error) {
	tmp := filepath.Join(dir, tmpDir)
	if err := os.MkdirAll(tmp, 0o750); err != nil {
		return nil, fmt.Errorf("local: failed to create %s: %w", tmp, err)
	}
	return &Storage{
		dir:     dir,
		tmpDir:  tmp,
		pending: make(map[string]string),
	}, nil
}

// Create opens a pending file for the given final name. The pending file
// gets a unique temporary name so concurrent runs over the same output
// directory cannot clobber each other.
func (s *Storage) Create(_ context.Context, name string) (io.WriteCloser, error) {
	name = filepath.Base(name)
	tmpName := name + "." + uuid.NewString()

	s.mu.Lock()
	if _, ok := s.pending[name]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPending, name)
	}
	s.pending[name] = tmpName
	s.mu.Unlock()

	file, err := os.OpenFile(filepath.Join(s.tmpDir, tmpName), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		s.mu.Lock()
		delete(s.pending, name)
		s.mu.Unlock()
		return nil, fmt.Errorf("local: failed to create file %s: %w", name, err)
	}
	return file, nil
}

// Publish moves a pending file to its final name in the output
// directory. The rename is atomic on a single filesystem.
func (s *Storage) Publish(_ context.Context, name string) error {
	name = filepath.Base(name)

	s.mu.Lock()
	tmpName, ok := s.pending[name]
	if ok {
		delete(s.pending, name)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPending, name)
	}
	if err := os.Rename(filepath.Join(s.tmpDir, tmpName), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("local: failed to publish %s: %w", name, err)
	}
	return nil
}

// List returns the names of published files.
func (s *Storage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// Open opens a published file for reading.
func (s *Storage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("local: failed to open file %s: %w", name, err)
	}
	return file, nil
}
