// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/cxr-trainer/internal/server"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Launch the interactive training web server",
	Long: `Serve starts the local web server with the full training interface:
the systematic review checklist, technical quality assessment, pattern
recognition, teaching cases, and progress tracking. The server binds to
loopback by default and stops cleanly on Ctrl-C.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "bind address (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	initLogger(cfg.Logger)

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.IndexLibrary(context.Background(), lib); err != nil {
		return err
	}

	return server.New(cfg, lib, st).Run()
}

func initLogger(cfg types.LoggerConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
