package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Reports  ReportsConfig
	Exports  ExportsConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	Session SessionConfig
}

// SessionConfig configures the scs session manager.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// ReportsConfig configures report rendering.
type ReportsConfig struct {
	// ChromeBin is an explicit browser binary. Empty lets the launcher locate or download one.
	ChromeBin string
	// ChromeURL connects to an already running browser instead of launching one.
	ChromeURL  string
	PDFTimeout time.Duration
	Currency   string
}

// Export backends.
const (
	ExportsBackendMemory = "memory"
	ExportsBackendRedis  = "redis"
	ExportsBackendS3     = "s3"
)

// ExportsConfig selects where generated report files are kept for download.
type ExportsConfig struct {
	Backend     string
	TTL         time.Duration
	RedisURL    string
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// Load inspects the environment and builds a Config value. Values from the file named by
// ENV_FILE (default ".env") are applied first without overriding the real environment.
func Load() (Config, error) {
	if err := loadEnvFile(firstNonEmpty(os.Getenv("ENV_FILE"), ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 5),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 20),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), time.Hour),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 15*time.Minute),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
	}

	cfg.Logging = LoggingConfig{
		Level: strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 12*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "kitchenops_session"),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), true),
		},
	}

	cfg.Reports = ReportsConfig{
		ChromeBin:  strings.TrimSpace(os.Getenv("REPORTS_CHROME_BIN")),
		ChromeURL:  strings.TrimSpace(os.Getenv("REPORTS_CHROME_URL")),
		PDFTimeout: parseDurationWithDefault(os.Getenv("REPORTS_PDF_TIMEOUT"), 30*time.Second),
		Currency:   firstNonEmpty(os.Getenv("REPORTS_CURRENCY"), "₹"),
	}

	cfg.Exports = ExportsConfig{
		Backend:     strings.ToLower(firstNonEmpty(os.Getenv("EXPORTS_BACKEND"), ExportsBackendMemory)),
		TTL:         parseDurationWithDefault(os.Getenv("EXPORTS_TTL"), time.Hour),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		S3Bucket:    strings.TrimSpace(os.Getenv("EXPORTS_S3_BUCKET")),
		S3Endpoint:  strings.TrimSpace(os.Getenv("EXPORTS_S3_ENDPOINT")),
		S3Region:    firstNonEmpty(os.Getenv("EXPORTS_S3_REGION"), "auto"),
		S3AccessKey: strings.TrimSpace(os.Getenv("EXPORTS_S3_ACCESS_KEY")),
		S3SecretKey: strings.TrimSpace(os.Getenv("EXPORTS_S3_SECRET_KEY")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address must not be empty")
	}

	switch c.Exports.Backend {
	case ExportsBackendMemory:
	case ExportsBackendRedis:
		if c.Exports.RedisURL == "" {
			return fmt.Errorf("exports backend %q requires REDIS_URL", c.Exports.Backend)
		}
	case ExportsBackendS3:
		if c.Exports.S3Bucket == "" {
			return fmt.Errorf("exports backend %q requires EXPORTS_S3_BUCKET", c.Exports.Backend)
		}
	default:
		return fmt.Errorf("unknown exports backend: %s", c.Exports.Backend)
	}

	if c.Exports.TTL <= 0 {
		return fmt.Errorf("exports ttl must be positive")
	}

	return nil
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
