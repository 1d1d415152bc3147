package config

import (
	"time"

	"github.com/maxviazov/prosante-admin/internal/logger"
)

// Config is built once in main and passed down; nothing reads the environment after Load.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Shopify  ShopifyConfig       `mapstructure:"shopify"`
	CORS     CORSConfig          `mapstructure:"cors"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// PostgresConfig holds the session store connection. URL wins over the discrete fields.
type PostgresConfig struct {
	URL               string `mapstructure:"url"`
	Host              string `mapstructure:"host" validate:"required_without=URL"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user" validate:"required_without=URL"`
	Password          string `mapstructure:"password" validate:"required_without=URL"`
	DBName            string `mapstructure:"db" validate:"required_without=URL"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// ShopifyConfig carries the app credentials and Admin API settings.
type ShopifyConfig struct {
	APIKey      string        `mapstructure:"api_key" validate:"required"`
	APISecret   string        `mapstructure:"api_secret" validate:"required"`
	Scopes      string        `mapstructure:"scopes"`
	AppURL      string        `mapstructure:"app_url" validate:"omitempty,url"`
	APIVersion  string        `mapstructure:"api_version" validate:"required"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
