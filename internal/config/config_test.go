package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	// Optional backends stay off until configured.
	assert.Empty(t, cfg.RedisHost)
	assert.Empty(t, cfg.S3BucketName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("S3_BUCKET_NAME", "tgnd-media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "tgnd-media", cfg.S3BucketName)
}

func TestGetEnvIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RedisDB)
}
