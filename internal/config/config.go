package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"convertapi/internal/apperr"
)

// DatabaseConfig holds PostgreSQL settings for the optional upload catalog.
// The catalog is enabled only when Host is set.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether the catalog database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MongoConfig holds the document database settings.
type MongoConfig struct {
	URI        string
	Database   string
	TimeoutSec int
}

// StripeConfig holds payment provider settings.
type StripeConfig struct {
	SecretKey   string
	SuccessURL  string
	CancelURL   string
	Currency    string
	ProductName string
	// BackendURL overrides the Stripe API base URL; empty uses the provider default.
	BackendURL string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	Backend          string // "local" or "minio"
	UploadDir        string
	PresignExpiryMin int
	MinIO            MinIOConfig
}

// AppConfig is the centralized configuration struct for the application.
// It is built once at startup from environment variables and passed to constructors.
type AppConfig struct {
	AppHost          string
	Port             string
	Timezone         string
	CORSAllowOrigins string
	MaxUploadMB      int
	Mongo            MongoConfig
	Stripe           StripeConfig
	Storage          StorageConfig
	Database         DatabaseConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:8000"),
		Port:             getEnv("PORT", "8000"),
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		MaxUploadMB:      getEnvInt("MAX_UPLOAD_MB", 50),
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URL", ""),
			Database:   getEnv("DB_NAME", ""),
			TimeoutSec: getEnvInt("MONGO_TIMEOUT_SEC", 10),
		},
		Stripe: StripeConfig{
			SecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
			SuccessURL:  getEnv("STRIPE_SUCCESS_URL", ""),
			CancelURL:   getEnv("STRIPE_CANCEL_URL", ""),
			Currency:    strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
			ProductName: getEnv("STRIPE_PRODUCT_NAME", "Example Product"),
			BackendURL:  getEnv("STRIPE_API_URL", ""),
		},
		Storage: StorageConfig{
			Backend:          strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
			UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
			PresignExpiryMin: getEnvInt("PRESIGN_EXPIRY_MIN", 15),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_CATALOG_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
	}
}

// Validate checks that every required value is present.
// The returned error lists all missing keys and is fatal at startup.
func (c *AppConfig) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"MONGO_URL", c.Mongo.URI},
		{"DB_NAME", c.Mongo.Database},
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey},
		{"STRIPE_SUCCESS_URL", c.Stripe.SuccessURL},
		{"STRIPE_CANCEL_URL", c.Stripe.CancelURL},
		{"PORT", c.Port},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}

	switch c.Storage.Backend {
	case "", "local":
		if c.Storage.UploadDir == "" {
			missing = append(missing, "UPLOAD_DIR")
		}
	case "minio", "s3":
		if c.Storage.MinIO.Endpoint == "" {
			missing = append(missing, "MINIO_ENDPOINT")
		}
		if c.Storage.MinIO.Bucket == "" {
			missing = append(missing, "MINIO_BUCKET")
		}
	default:
		return apperr.New(apperr.KindConfig, "config.Validate", "unsupported STORAGE_BACKEND: "+c.Storage.Backend)
	}

	if len(missing) > 0 {
		return apperr.New(apperr.KindConfig, "config.Validate", "missing required environment variables: "+strings.Join(missing, ", "))
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit returns the maximum accepted request body in bytes.
func (c *AppConfig) BodyLimit() int {
	if c.MaxUploadMB <= 0 {
		return 50 * 1024 * 1024
	}
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
