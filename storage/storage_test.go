package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("3f2b8c1e-0000-4000-8000-000000000001")

	assert.Equal(t, "profile-images/3f/3f2b8c1e-0000-4000-8000-000000000001.png",
		generateStoragePath(id, "My Photo.PNG"))
	assert.Equal(t, "profile-images/3f/3f2b8c1e-0000-4000-8000-000000000001.jpg",
		generateStoragePath(id, "../../etc/passwd.jpg"))
}

func TestContentType(t *testing.T) {
	ct, err := ContentType("avatar.JPEG")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	_, err = ContentType("resume.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestLocalStorageLifecycle(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Upload(ctx, uuid.New(), "avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	rc, err := store.Download(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Download(ctx, path)
	assert.Error(t, err)

	// deleting twice is not an error
	assert.NoError(t, store.Delete(ctx, path))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "../outside.png")
	assert.ErrorContains(t, err, "invalid storage path")
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(StorageConfig{Type: "ftp"})
	assert.ErrorContains(t, err, "unknown storage type")
}
