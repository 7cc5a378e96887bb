package storage

import (
	"context"
	"errors"
	"io"
)

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// ErrFileNotFound is returned by Download when nothing is stored at the path.
var ErrFileNotFound = errors.New("file not found")
