package config

import (
	"fmt"
	"strings"
	"time"

	"gift-tracker-go/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultAPIKey = "change-me-in-production"
)

type Config struct {
	HTTPPort       string `env:"HTTP_PORT" env-default:"8080"`
	Env            string `env:"ENV" env-default:"development"`
	APIKey         string `env:"API_KEY" env-default:"change-me-in-production"`
	CORSOrigins    string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" env-default:"true"`
	HTTP           HTTPConfig
	Import         ImportConfig
	DB             DBConfig
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"90s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m"`
}

// ImportConfig bounds import request bodies. Batches are never truncated or
// rejected by record count.
type ImportConfig struct {
	MaxBodyBytes int64 `env:"IMPORT_MAX_BODY_BYTES" env-default:"10485760"`
}

type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"postgres"`
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER" env-default:"postgres"`
	Password        string        `env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `env:"DB_NAME" env-default:"gift_tracker"`
	SSLMode         string        `env:"DB_SSLMODE" env-default:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" env-default:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.APIKey == defaultAPIKey && !c.IsDevelopment() {
		return fmt.Errorf("API_KEY must be set outside development")
	}
	if c.Import.MaxBodyBytes <= 0 {
		return fmt.Errorf("IMPORT_MAX_BODY_BYTES must be positive")
	}

	switch c.DB.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	return nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
