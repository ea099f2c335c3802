package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source provides read access to a tree of files.
type Source interface {
	// Root returns the root directory of the source.
	Root() string
	// Open opens the file at path relative to Root.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Close releases resources held by the source.
	Close() error
}

// LocalSource is a Source backed by a local directory.
type LocalSource struct {
	root string
}

// NewLocalSource creates a Source for the directory at root.
func NewLocalSource(root string) (*LocalSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &FileAccessError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FileAccessError{Path: root, Err: fmt.Errorf("not a directory")}
	}

	return &LocalSource{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *LocalSource) Root() string { return s.root }

// Open opens path relative to the root.
func (s *LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, path))
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return f, nil
}

// Close is a no-op for local directories.
func (s *LocalSource) Close() error { return nil }
