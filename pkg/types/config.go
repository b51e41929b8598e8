// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the local web server.
type ServerConfig struct {
	// Host is the bind address. Defaults to 127.0.0.1; the tool is
	// single-user and not meant to be exposed.
	Host string `json:"host" yaml:"host"`

	// Port is the listen port (default 8420).
	Port int `json:"port" yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LibraryConfig holds settings for the reference library.
type LibraryConfig struct {
	// DataDir, when set, overrides the embedded reference data with YAML
	// files from disk. Empty uses the built-in library.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
}

// StoreConfig holds settings for the local session store.
type StoreConfig struct {
	// DataDir is the directory holding trainer.db (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ImportConfig holds settings for fetching case bundles over HTTP.
type ImportConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "cxr-trainer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LoggerConfig holds settings for server-side logging.
type LoggerConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level"`

	// Format is "json" or "text" (default "text").
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for the trainer.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Library LibraryConfig `json:"library" yaml:"library"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Import  ImportConfig  `json:"import" yaml:"import"`
	Logger  LoggerConfig  `json:"logger" yaml:"logger"`
}
