package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("a,b\n1,2\n"), "uploads/2025/file.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "uploads/2025/file.csv", path)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))
}

func TestLocalStorage_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("first"), "snap.json", "application/json")
	require.NoError(t, err)
	_, err = s.Upload(ctx, strings.NewReader("second"), "snap.json", "application/json")
	require.NoError(t, err)

	rc, err := s.Download(ctx, "snap.json")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(body))
}

func TestLocalStorage_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "nope.csv")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, "nope.csv")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("x"), "../../escape.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", path)

	_, err = s.Upload(ctx, strings.NewReader("x"), "", "text/plain")
	assert.Error(t, err)
}
