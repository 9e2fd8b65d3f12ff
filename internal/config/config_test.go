package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "PORT", "DB_CONNECTION", "IMAGE_MAX_WIDTH", "MILESTONES_FOLLOW_LEDGER", "TRUST_PROXY_HEADERS", "S3_BUCKET", "DISPLAY_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, DefaultDBConnection, cfg.DBConnection)
	assert.Equal(t, 1920, cfg.ImageMaxWidth)
	assert.Equal(t, 85, cfg.ImageQuality)
	assert.Equal(t, 400, cfg.ThumbnailMaxWidth)
	assert.Equal(t, 80, cfg.ThumbnailQuality)
	assert.Equal(t, int64(20<<20), cfg.ImageMaxUploadSize)
	assert.Equal(t, 9, cfg.ExportCompressionLevel)
	assert.True(t, cfg.MilestonesFollowLedger)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, time.UTC, cfg.DisplayTimezone)
	assert.Equal(t, time.Hour, cfg.S3PresignExpiry)
	assert.False(t, cfg.PublishingEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("MILESTONES_FOLLOW_LEDGER", "false")
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	t.Setenv("EXPORT_COMPRESSION_LEVEL", "5")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Berlin")
	t.Setenv("S3_BUCKET", "exports")
	t.Setenv("S3_PRESIGN_EXPIRY", "15m")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.MilestonesFollowLedger)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 5, cfg.ExportCompressionLevel)
	assert.Equal(t, "Europe/Berlin", cfg.DisplayTimezone.String())
	assert.True(t, cfg.PublishingEnabled())
	assert.Equal(t, 15*time.Minute, cfg.S3PresignExpiry)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("IMAGE_QUALITY", "150")
	t.Setenv("THUMBNAIL_MAX_WIDTH", "wide")
	t.Setenv("MILESTONES_FOLLOW_LEDGER", "sometimes")
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")

	assert.Equal(t, 85, envIntRange("IMAGE_QUALITY", 85, 1, 100))
	assert.Equal(t, 400, envIntRange("THUMBNAIL_MAX_WIDTH", 400, 1, 10000))
	assert.True(t, envBool("MILESTONES_FOLLOW_LEDGER", true))
	assert.Equal(t, time.UTC, envLocation("DISPLAY_TIMEZONE", time.UTC))
}
