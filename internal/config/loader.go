package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyEnv lists the variable names the embedded-app tooling already exports.
// APP_* names always take precedence.
var legacyEnv = map[string][]string{
	"postgres.url":       {"DATABASE_URL"},
	"postgres.user":      {"POSTGRES_USER", "DB_USER"},
	"postgres.password":  {"POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.db":        {"POSTGRES_DB", "DB_NAME"},
	"shopify.api_key":    {"SHOPIFY_API_KEY"},
	"shopify.api_secret": {"SHOPIFY_API_SECRET"},
	"shopify.scopes":     {"SCOPES"},
	"shopify.app_url":    {"SHOPIFY_APP_URL"},
	"logger.level":       {"LOG_LEVEL"},
}

var keys = []string{
	"app.name", "app.version", "app.env", "app.port", "app.shutdown_timeout", "app.auto_migrate",
	"logger.level", "logger.format", "logger.output_target", "logger.time_field", "logger.time_format",
	"logger.service_name", "logger.service_version", "logger.env", "logger.with_caller", "logger.stacktrace",
	"postgres.url", "postgres.host", "postgres.port", "postgres.user", "postgres.password", "postgres.db",
	"postgres.sslmode", "postgres.max_conns", "postgres.min_conns", "postgres.max_conn_lifetime",
	"postgres.max_conn_idle_time", "postgres.health_check_period",
	"shopify.api_key", "shopify.api_secret", "shopify.scopes", "shopify.app_url", "shopify.api_version",
	"shopify.http_timeout", "shopify.token_ttl",
	"cors.allowed_origins",
}

// Load reads an optional YAML file, a local .env, and the process environment.
// An empty path means environment only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for _, k := range keys {
		names := append([]string{"APP_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))}, legacyEnv[k]...)
		if err := v.BindEnv(append([]string{k}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prosante-admin")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 5)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("shopify.api_version", "2025-04")
	v.SetDefault("shopify.http_timeout", 30*time.Second)
	v.SetDefault("shopify.token_ttl", time.Hour)
}

// normalize fills logger identity from the app section so both agree.
func (c *Config) normalize() {
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = c.App.Name
	}
	if c.Logger.ServiceVersion == "" {
		c.Logger.ServiceVersion = c.App.Version
	}
	if c.Logger.Env == "" {
		switch c.App.Env {
		case "dev", "staging", "prod":
			c.Logger.Env = c.App.Env
		}
	}
	c.Shopify.AppURL = strings.TrimRight(c.Shopify.AppURL, "/")
}
