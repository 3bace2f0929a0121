package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertapi/internal/apperr"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Port:     "8000",
		Timezone: "UTC",
		Mongo:    MongoConfig{URI: "mongodb://localhost:27017", Database: "test_database"},
		Stripe: StripeConfig{
			SecretKey:  "sk_test_123",
			SuccessURL: "https://example.com/success",
			CancelURL:  "https://example.com/cancel",
		},
		Storage: StorageConfig{Backend: "local", UploadDir: "uploads"},
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("MONGO_URL", "mongodb://mongo:27017")
	t.Setenv("DB_NAME", "notes_db")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STRIPE_CURRENCY", "EUR")

	cfg := Load()

	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "notes_db", cfg.Mongo.Database)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, "Example Product", cfg.Stripe.ProductName)
	assert.Equal(t, "local", cfg.Storage.Backend)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("UPLOAD_DIR")

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 10, cfg.Mongo.TimeoutSec)
	assert.False(t, cfg.Database.Enabled())
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing required values are all reported", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mongo.URI = ""
		cfg.Stripe.SecretKey = " "

		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "MONGO_URL")
		assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
		assert.NotContains(t, err.Error(), "DB_NAME")
	})

	t.Run("minio backend requires endpoint and bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = "minio"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MINIO_ENDPOINT")
		assert.Contains(t, err.Error(), "MINIO_BUCKET")
	})

	t.Run("s3 is an alias for minio", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = "s3"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MINIO_BUCKET")
		assert.NotContains(t, err.Error(), "unsupported STORAGE_BACKEND")

		cfg.Storage.MinIO.Endpoint = "s3.amazonaws.com"
		cfg.Storage.MinIO.Bucket = "uploads"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = "ftp"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported STORAGE_BACKEND")
	})
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestBodyLimit(t *testing.T) {
	cfg := validConfig()
	cfg.MaxUploadMB = 2
	assert.Equal(t, 2*1024*1024, cfg.BodyLimit())

	cfg.MaxUploadMB = 0
	assert.Equal(t, 50*1024*1024, cfg.BodyLimit())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
