package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

type FileStorage interface {
	// Upload stores the content under path and returns the cleaned relative path.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op for paths that do not exist.
	Delete(ctx context.Context, path string) error

	// Move renames a stored file, replacing anything already at to.
	Move(ctx context.Context, from, to string) error

	// URL returns the public address of a stored path.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
