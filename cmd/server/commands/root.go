// Package commands wires the CLI: `serve` runs the HTTP API, `migrate` manages the session store schema.
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/prosante-admin/internal/config"
	"github.com/maxviazov/prosante-admin/internal/logger"
)

var configPath string

// Execute builds the root command and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:           "prosante-admin",
		Short:         "Admin backend for the Pro de santé program on Shopify",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: environment only)")

	root.AddCommand(serveCmd(), migrateCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// bootstrap loads config and builds the root logger shared by every command.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config loading failed: %w", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, appLogger, nil
}
