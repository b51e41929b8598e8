// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cxr-trainer CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/internal/store"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the cxr-trainer CLI.
var rootCmd = &cobra.Command{
	Use:   "cxr-trainer",
	Short: "Educational chest X-ray interpretation trainer",
	Long: `cxr-trainer teaches systematic chest radiograph interpretation: a
technical quality checklist, an anatomy review sequence, ILO-style pattern
recognition with differential diagnosis lookup, and described teaching cases.

Run "cxr-trainer serve" for the interactive web interface, or use the
subcommands (cases, knowledge, report, sessions, progress) directly from
the terminal. All data stays on the local machine.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cxr-trainer.yaml or ~/.config/cxr-trainer/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cxr-trainer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cxr-trainer"))
		}
	}

	viper.SetEnvPrefix("CXR_TRAINER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the typed configuration with defaults applied.
func loadConfig() types.Config {
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8420)
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)
	viper.SetDefault("import.timeout", "30s")
	viper.SetDefault("import.user_agent", "cxr-trainer/"+version)
	viper.SetDefault("import.max_retries", 3)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "text")

	return types.Config{
		Server: types.ServerConfig{
			Host:            viper.GetString("server.host"),
			Port:            viper.GetInt("server.port"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Library: types.LibraryConfig{
			DataDir: viper.GetString("library.data_dir"),
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxResults: viper.GetInt("store.max_results"),
		},
		Import: types.ImportConfig{
			Timeout:    viper.GetDuration("import.timeout"),
			UserAgent:  viper.GetString("import.user_agent"),
			MaxRetries: viper.GetInt("import.max_retries"),
		},
		Logger: types.LoggerConfig{
			Level:  viper.GetString("logger.level"),
			Format: viper.GetString("logger.format"),
		},
	}
}

// openLibrary loads the reference data, preferring an on-disk override
// when one is configured.
func openLibrary(cfg types.Config) (*library.Library, error) {
	if cfg.Library.DataDir != "" {
		return library.LoadDir(cfg.Library.DataDir)
	}
	return library.Load()
}

func openStore(cfg types.Config) (*store.Store, error) {
	return store.NewStore(cfg.Store)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
