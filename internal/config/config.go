package config

import (
	"compress/flate"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultDBConnection = "./data/goals.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Observability (optional)
	SentryDSN string

	// Export
	DisplayTimezone        *time.Location
	ExportCompressionLevel int

	// Images
	ImageMaxWidth      int
	ImageQuality       int
	ThumbnailMaxWidth  int
	ThumbnailQuality   int
	ImageMaxUploadSize int64

	// Milestones are re-evaluated after every ledger change when set.
	MilestonesFollowLedger bool

	// Rate limits key on X-Forwarded-For / X-Real-IP only when set.
	TrustProxyHeaders bool

	// Storage for published exports (optional, disabled when S3_BUCKET is empty)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Lifetime of download links for published exports
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return &Config{
		// Application
		AppName: envString("APP_NAME", "Goals"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", DefaultDBConnection),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export
		DisplayTimezone:        envLocation("DISPLAY_TIMEZONE", time.UTC),
		ExportCompressionLevel: envIntRange("EXPORT_COMPRESSION_LEVEL", flate.BestCompression, flate.HuffmanOnly, flate.BestCompression),

		// Images
		ImageMaxWidth:      envIntRange("IMAGE_MAX_WIDTH", 1920, 1, 10000),
		ImageQuality:       envIntRange("IMAGE_QUALITY", 85, 1, 100),
		ThumbnailMaxWidth:  envIntRange("THUMBNAIL_MAX_WIDTH", 400, 1, 10000),
		ThumbnailQuality:   envIntRange("THUMBNAIL_QUALITY", 80, 1, 100),
		ImageMaxUploadSize: int64(envIntRange("IMAGE_MAX_UPLOAD_SIZE", 20<<20, 1, 200<<20)),

		MilestonesFollowLedger: envBool("MILESTONES_FOLLOW_LEDGER", true),
		TrustProxyHeaders:      envBool("TRUST_PROXY_HEADERS", false),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envIntRange(key string, def, minValue, maxValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < minValue || n > maxValue {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def, "min", minValue, "max", maxValue)
		return def
	}
	return n
}

func envLocation(key string, def *time.Location) *time.Location {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		slog.Warn("config invalid timezone, using default", "key", key, "value", v, "default", def.String())
		return def
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PublishingEnabled reports whether exports can be uploaded to object storage.
func (c *Config) PublishingEnabled() bool {
	return c.S3Bucket != ""
}
