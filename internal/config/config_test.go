package config

import (
	"testing"
	"time"

	"gift-tracker-go/pkg/logger"
)

func validConfig() Config {
	return Config{
		HTTPPort:    "8080",
		Env:         "production",
		APIKey:      "secret",
		CORSOrigins: "http://localhost:5173",
		Import:      ImportConfig{MaxBodyBytes: 1 << 20},
		DB:          DBConfig{Driver: DriverPostgres},
	}
}

func TestValidateDefaultAPIKeyOutsideDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = defaultAPIKey
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for default api key in production")
	}

	cfg.Env = "development"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default api key accepted in development, got %v", err)
	}
}

func TestValidateSQLiteRequiresDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Driver = DriverSQLite
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for sqlite without dsn")
	}

	cfg.DB.DSN = "file:gifts.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Driver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.CORSOrigins = " http://a.test , ,http://b.test"
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", origins)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_KEY", "k-123")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("IMPORT_MAX_BODY_BYTES", "2048")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")

	cfg, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "9090" || cfg.APIKey != "k-123" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DB.ConnMaxLifetime != 5*time.Minute {
		t.Fatalf("expected 5m lifetime, got %s", cfg.DB.ConnMaxLifetime)
	}
	if cfg.Import.MaxBodyBytes != 2048 {
		t.Fatalf("expected max body 2048, got %d", cfg.Import.MaxBodyBytes)
	}
	if cfg.HTTP.WriteTimeout != 45*time.Second || cfg.HTTP.IdleTimeout != 2*time.Minute {
		t.Fatalf("unexpected http timeouts %+v", cfg.HTTP)
	}
	if cfg.DB.Name != "gift_tracker" {
		t.Fatalf("expected default db name, got %q", cfg.DB.Name)
	}
}

func TestValidateImportBodyLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Import.MaxBodyBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero import body limit")
	}
}
