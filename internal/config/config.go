package config

import (
	"fmt"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	App      AppConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Postgres PostgresConfig
}

type AppConfig struct {
	// Timezone is the location due dates picked in the form are anchored to.
	Timezone      string `env:"APP_TIMEZONE" env-default:"UTC"`
	SecureCookies bool   `env:"APP_SECURE_COOKIES" env-default:"false"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"taskmaster"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	Migrate        bool          `env:"POSTGRES_MIGRATE" env-default:"false"`
}

func (c AppConfig) LoadLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := c.LoadLocation()
	if err != nil {
		return time.UTC
	}
	return loc
}
