// Package config loads deployment configuration from an optional TOML file
// with environment variable overrides, so main stays lean.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML values like "15m" parse directly.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// StorageConfig selects and parameterizes the persistence engine.
type StorageConfig struct {
	// Engine is one of "sqlite", "postgres", "memory".
	Engine      string `toml:"engine"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// RedisConfig enables the shared login lockout counters. When URL is empty
// the in-process store is used instead.
type RedisConfig struct {
	URL string `toml:"url"`
}

// AuthConfig parameterizes sessions and the login lockout rule.
type AuthConfig struct {
	JWTSigningKey    string   `toml:"jwt_signing_key"`
	SessionTTL       Duration `toml:"session_ttl"`
	MaxLoginAttempts int      `toml:"max_login_attempts"`
	LockoutWindow    Duration `toml:"lockout_window"`
}

// BootstrapConfig seeds the initial super admin on an empty directory.
type BootstrapConfig struct {
	AdminUsername string `toml:"admin_username"`
	AdminPassword string `toml:"admin_password"`
}

type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Redis     RedisConfig     `toml:"redis"`
	Auth      AuthConfig      `toml:"auth"`
	Bootstrap BootstrapConfig `toml:"bootstrap"`
}

func defaults() Config {
	return Config{
		Storage: StorageConfig{
			Engine:     "sqlite",
			SQLitePath: "blpgate.db",
		},
		Auth: AuthConfig{
			// Development default; override in production.
			JWTSigningKey:    "dev-secret-key-change-in-production",
			SessionTTL:       Duration{time.Hour},
			MaxLoginAttempts: 3,
			LockoutWindow:    Duration{15 * time.Minute},
		},
	}
}

// Load reads the TOML file at path when it exists, then applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Storage.Engine, "BLPGATE_STORAGE_ENGINE")
	setString(&cfg.Storage.SQLitePath, "BLPGATE_SQLITE_PATH")
	setString(&cfg.Storage.PostgresDSN, "BLPGATE_POSTGRES_DSN")
	setString(&cfg.Redis.URL, "BLPGATE_REDIS_URL")
	setString(&cfg.Auth.JWTSigningKey, "BLPGATE_JWT_SIGNING_KEY")
	setDuration(&cfg.Auth.SessionTTL, "BLPGATE_SESSION_TTL")
	setInt(&cfg.Auth.MaxLoginAttempts, "BLPGATE_MAX_LOGIN_ATTEMPTS")
	setDuration(&cfg.Auth.LockoutWindow, "BLPGATE_LOCKOUT_WINDOW")
	setString(&cfg.Bootstrap.AdminUsername, "BLPGATE_ADMIN_USERNAME")
	setString(&cfg.Bootstrap.AdminPassword, "BLPGATE_ADMIN_PASSWORD")
}

func validate(cfg Config) error {
	switch cfg.Storage.Engine {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
	if cfg.Storage.Engine == "postgres" && cfg.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres engine requires storage.postgres_dsn")
	}
	if cfg.Auth.SessionTTL.Duration <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if cfg.Auth.MaxLoginAttempts <= 0 {
		return fmt.Errorf("auth.max_login_attempts must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
