package main

import (
	"fmt"

	"github.com/mganno/mganno/internal/ioconfig"
	pkgconfig "github.com/mganno/mganno/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mganno",
		Short: "mganno manages the metagenome annotation database and daemon",
		Long: `mganno is a CLI tool for managing the lifecycle of the metagenome
annotation PostgreSQL database and for serving annotated sequence and
similarity downloads over HTTP.

The tool provides four main phases:
  - create: Create database schema
  - migrate: Apply schema migrations
  - load: Import reference catalogs and per-job alignment indexes
  - serve: Run the annotation streaming daemon

Configuration precedence (highest to lowest):
  1. CLI flags (--host, --port, etc.)
  2. Environment variables (MGANNO_*)
  3. Config file (config.yaml)
  4. Built-in defaults

Environment Variables:
  All configuration can be set via MGANNO_* environment variables.
  Nested fields use underscores (database.host → MGANNO_DATABASE_HOST).

  Examples:
    MGANNO_DATABASE_HOST            PostgreSQL host
    MGANNO_DATABASE_PORT            PostgreSQL port
    MGANNO_DATABASE_USER            PostgreSQL user
    MGANNO_DATABASE_PASSWORD        PostgreSQL password
    MGANNO_DATABASE_DATABASE        Database name
    MGANNO_BLOB_ENDPOINT            Object store endpoint
    MGANNO_SERVER_PORT              Daemon listen port
    MGANNO_LOG_LEVEL                Log level (debug/info/warn/error)

  See 'go doc github.com/mganno/mganno/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run if it doesn't exist
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}

				if !exists {
					generatedPath, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// Only warn, don't fail - can use defaults
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generatedPath)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			return nil
		},
	}

	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/mganno/config.yaml)")

	rootCmd.Flags().BoolP("version", "V", false, "version for mganno")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getLoadCmd())
	rootCmd.AddCommand(getServeCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *pkgconfig.Config {
	return cfg
}
