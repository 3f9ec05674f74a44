// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppPort string

	DBDriver    string
	DatabaseDSN string

	JWTSecret        string
	TokenTTL         time.Duration
	AllowAdminSignup bool
	AdminUsername    string
	AdminPassword    string

	RabbitMQURL      string
	OrderEventsQueue string
	OrderEventsAudit bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MenuCacheTTL  time.Duration

	LogLevel  string
	LogFormat string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:foodorder.db?cache=shared")
	v.SetDefault("JWT_SECRET", "MyVerySecretKeyChangeThis")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("AUTH_ALLOW_ADMIN_SIGNUP", false)
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ORDER_EVENTS_QUEUE", "order_events")
	v.SetDefault("ORDER_EVENTS_AUDIT", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MENU_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:          v.GetString("APP_PORT"),
		DBDriver:         v.GetString("DB_DRIVER"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		AllowAdminSignup: v.GetBool("AUTH_ALLOW_ADMIN_SIGNUP"),
		AdminUsername:    v.GetString("ADMIN_USERNAME"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		OrderEventsQueue: v.GetString("ORDER_EVENTS_QUEUE"),
		OrderEventsAudit: v.GetBool("ORDER_EVENTS_AUDIT"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		MenuCacheTTL:     v.GetDuration("MENU_CACHE_TTL"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: DATABASE_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.RedisAddr != "" && c.MenuCacheTTL <= 0 {
		return fmt.Errorf("config: MENU_CACHE_TTL must be positive")
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("config: ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if c.RabbitMQURL != "" && c.OrderEventsQueue == "" {
		return fmt.Errorf("config: ORDER_EVENTS_QUEUE is required with RABBITMQ_URL")
	}
	return nil
}
