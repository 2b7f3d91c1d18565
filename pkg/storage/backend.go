package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"time"
)

// FileInfo represents metadata about a filesystem object
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
	Mode    fs.FileMode
}

// Entry represents a single directory entry
type Entry struct {
	Name  string
	IsDir bool
}

// Backend defines the interface for filesystem access
// Implementations include the local filesystem; network backends can be
// added without touching the diff engine.
type Backend interface {
	// Stat returns metadata for a file or directory
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// List returns the immediate entries of a directory in listing order
	List(ctx context.Context, path string) ([]Entry, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}

// IsNotFound reports whether err indicates a missing path.
// Backends wrap underlying errors with %w so fs.ErrNotExist survives.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
