package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/storage"
)

// FileMedium keeps each key as a JSON file under a storage directory.
type FileMedium struct {
	files storage.FileStorage
}

func NewFileMedium(files storage.FileStorage) *FileMedium {
	return &FileMedium{files: files}
}

func (m *FileMedium) path(key string) string {
	return key + ".json"
}

func (m *FileMedium) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := m.files.Download(ctx, m.path(key))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	defer rc.Close()

	value, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (m *FileMedium) Put(ctx context.Context, key string, value []byte) error {
	if _, err := m.files.Upload(ctx, bytes.NewReader(value), m.path(key), "application/json"); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (m *FileMedium) Close() error {
	return nil
}
