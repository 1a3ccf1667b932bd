package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage stores member profile images
type Storage interface {
	// Upload stores an image and returns its storage path
	Upload(ctx context.Context, imageID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves an image by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an image by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

var ErrUnsupportedImageType = errors.New("unsupported image type")

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// NewStorage creates a storage backend from configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 bucket is required for s3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ContentType returns the image MIME type for filename
func ContentType(filename string) (string, error) {
	ct, ok := imageContentTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, filepath.Ext(filename))
	}
	return ct, nil
}

// generateStoragePath builds profile-images/<2 char shard>/<id><ext>.
// The client file name is not kept, only its lower-cased extension.
func generateStoragePath(imageID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	id := imageID.String()
	return fmt.Sprintf("profile-images/%s/%s%s", id[:2], id, ext)
}
