package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret          string
	JWTClientExpiresIn time.Duration
	JWTTeamExpiresIn   time.Duration

	RedisURL  string
	UploadDir string
	LogLevel  string

	Admin AdminSeed
}

// AdminSeed describes the team member created on startup when Email is set.
type AdminSeed struct {
	Name     string
	LastName string
	Email    string
	Password string
}

// IsProduction reports whether the API runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from the given viper instance, applying defaults
// and binding environment variables.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:vitrine.db?_foreign_keys=on")
	v.SetDefault("JWT_CLIENT_EXPIRES_IN", "15m")
	v.SetDefault("JWT_TEAM_EXPIRES_IN", "1h")
	v.SetDefault("UPLOAD_DIR", ".")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_NAME", "Admin")
	v.SetDefault("ADMIN_LAST_NAME", "Vitrine")
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"JWT_SECRET", "REDIS_URL", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		DatabaseDriver:     v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTClientExpiresIn: v.GetDuration("JWT_CLIENT_EXPIRES_IN"),
		JWTTeamExpiresIn:   v.GetDuration("JWT_TEAM_EXPIRES_IN"),
		RedisURL:           v.GetString("REDIS_URL"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Admin: AdminSeed{
			Name:     v.GetString("ADMIN_NAME"),
			LastName: v.GetString("ADMIN_LAST_NAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTClientExpiresIn <= 0 || c.JWTTeamExpiresIn <= 0 {
		return errors.New("token lifetimes must be positive durations")
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < 6 {
		return errors.New("ADMIN_PASSWORD must have at least 6 characters when ADMIN_EMAIL is set")
	}
	return nil
}
