package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/qapi/utils"
)

const (
	CredentialBackendRedis          = "redis"
	CredentialBackendSecretsManager = "secretsmanager"
)

type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	BaseURL     string `envconfig:"BASE_URL"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	StateSecret string `envconfig:"STATE_SECRET"`
	APIKey      string `envconfig:"API_KEY"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`

	WhoopClientID     string `envconfig:"WHOOP_CLIENT_ID"`
	WhoopClientSecret string `envconfig:"WHOOP_CLIENT_SECRET"`
	WhoopAPIURL       string `envconfig:"WHOOP_API_URL" default:"https://api.prod.whoop.com/developer"`
	SuccessURL        string `envconfig:"SUCCESS_URL"`
	ErrorURL          string `envconfig:"ERROR_URL"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"vitalsync"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"vitalsync"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBPath     string `envconfig:"DB_PATH" default:"file:vitalsync.db?_pragma=busy_timeout(5000)"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	CredentialBackend string `envconfig:"CREDENTIAL_BACKEND" default:"redis"`
	AWSSecretPrefix   string `envconfig:"AWS_SECRET_PREFIX" default:"vitalsync/"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"vitalsync-raw"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"false"`

	SyncWindowDays   int           `envconfig:"SYNC_WINDOW_DAYS" default:"7"`
	BackfillDays     int           `envconfig:"BACKFILL_DAYS" default:"90"`
	InterUserDelay   time.Duration `envconfig:"INTER_USER_DELAY" default:"1s"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	MaxPagesPerFetch int           `envconfig:"MAX_PAGES_PER_FETCH" default:"200"`
}

// Load reads the environment without validating it. In development a .env
// file is loaded first when present.
func Load() (*EnvConfig, error) {
	if utils.IsDev() {
		_ = godotenv.Load()
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return &cfg, nil
}

func ValidateEnv() (*EnvConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) Validate() error {
	var errors []string

	if len(c.StateSecret) < 32 {
		errors = append(errors, "  ❌ STATE_SECRET must be at least 32 characters")
	}

	if (c.WhoopClientID != "" && c.WhoopClientSecret == "") || (c.WhoopClientID == "" && c.WhoopClientSecret != "") {
		errors = append(errors, "  ❌ Both WHOOP_CLIENT_ID and WHOOP_CLIENT_SECRET must be set together")
	}

	for name, raw := range map[string]string{"BASE_URL": c.BaseURL, "SUCCESS_URL": c.SuccessURL, "ERROR_URL": c.ErrorURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			errors = append(errors, fmt.Sprintf("  ❌ %s must be a valid URL", name))
		}
	}

	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errors = append(errors, "  ❌ DB_DRIVER must be postgres or sqlite")
	}

	switch c.CredentialBackend {
	case CredentialBackendRedis, CredentialBackendSecretsManager:
	default:
		errors = append(errors, "  ❌ CREDENTIAL_BACKEND must be redis or secretsmanager")
	}

	if c.SyncWindowDays <= 0 {
		errors = append(errors, "  ❌ SYNC_WINDOW_DAYS must be positive")
	}

	if c.S3Endpoint != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		errors = append(errors, "  ❌ S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	if len(errors) > 0 {
		// Sorted so repeated runs print the same report.
		slices.Sort(errors)
		return fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}

// RedirectURL is the OAuth callback URL registered with WHOOP.
func (c *EnvConfig) RedirectURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/auth/whoop/callback"
}

func (c *EnvConfig) SyncWindow() time.Duration {
	return time.Duration(c.SyncWindowDays) * 24 * time.Hour
}

func (c *EnvConfig) DB() db.Config {
	return db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Database: c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("📋 Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Base URL: %s\n", c.BaseURL)
	fmtr("  State Secret: %s\n", MaskSecret(c.StateSecret))
	if c.DBDriver == db.DriverSQLite {
		fmtr("  Database: sqlite %s\n", c.DBPath)
	} else {
		fmtr("  Database: %s@%s:%d/%s (sslmode=%s)\n", c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
	}
	fmtr("  Credentials: %s\n", c.CredentialBackend)
	fmtr("  Sync window: %dd, backfill: %dd, inter-user delay: %s\n", c.SyncWindowDays, c.BackfillDays, c.InterUserDelay)

	if c.WhoopClientID != "" {
		fmtr("  WHOOP OAuth: ✓ Enabled\n")
		fmtr("    Client ID: %s\n", MaskSecret(c.WhoopClientID))
		fmtr("    Client Secret: %s\n", MaskSecret(c.WhoopClientSecret))
	} else {
		fmtr("  WHOOP OAuth: client credentials from %s store\n", c.CredentialBackend)
	}

	if c.APIKey != "" {
		fmtr("  API key: %s\n", MaskSecret(c.APIKey))
	} else {
		fmtr("  API key: ✗ Disabled (sync endpoints are open)\n")
	}

	if c.S3Endpoint != "" {
		fmtr("  Raw archive: ✓ %s/%s\n", c.S3Endpoint, c.S3Bucket)
	} else {
		fmtr("  Raw archive: ✗ Disabled\n")
	}
}
