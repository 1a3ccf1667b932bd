package config

import (
	"testing"
	"time"

	"membership-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_CONNECT_TIMEOUT",
		"REQUEST_TIMEOUT", "STORAGE_TYPE", "STORAGE_LOCAL_PATH", "AWS_S3_BUCKET",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "MAX_IMAGE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, defaultDatabaseURL, cfg.Database.URL)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, storage.StorageTypeLocal, cfg.Storage.Type)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxImageSize)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "member-images")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "member-images", cfg.Storage.S3Bucket)
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("REQUEST_TIMEOUT", "-1s")
	t.Setenv("STORAGE_TYPE", "s3")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	assert.ErrorContains(t, err, "AWS_S3_BUCKET")
}

func TestLoadRejectsOversizedMaxConns(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_CONNS", "4294967306")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}
