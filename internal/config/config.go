package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Log    LogConfig
	Wheel  WheelDefaults
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3001"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"unionmart_wheel"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// RedisConfig holds configuration for the wheel snapshot cache.
// An empty Addr disables the cache; the service then reads config straight
// from Postgres on every request.
type RedisConfig struct {
	Addr       string `envconfig:"REDIS_ADDR" default:""`
	Password   string `envconfig:"REDIS_PASSWORD" default:""`
	DB         int    `envconfig:"REDIS_DB" default:"0"`
	TTLSeconds int    `envconfig:"REDIS_CACHE_TTL" default:"30"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// WheelDefaults is the single home for the wheel's fallback policy. The spin
// engine consults these instead of re-deriving defaults at each call site.
type WheelDefaults struct {
	DailySpins      int    `envconfig:"WHEEL_DEFAULT_DAILY_SPINS" default:"3"`
	ResetTime       string `envconfig:"WHEEL_DEFAULT_RESET_TIME" default:"00:00"`
	CooldownMinutes int    `envconfig:"WHEEL_DEFAULT_COOLDOWN_MINUTES" default:"0"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
