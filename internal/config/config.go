// Package config loads shell configuration from a YAML file, environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Neev4n/dirshell/internal/logging"
)

const (
	BackendOS     = "os"
	BackendMemory = "memory"
	BackendAFS    = "afs"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Config holds all shell configuration.
type Config struct {
	// Filesystem backend: os, memory or afs.
	Backend string `yaml:"backend"`

	// Initial working directory. Empty means the host working directory
	// (or "/" for the memory backend).
	StartDir string `yaml:"startDir"`

	Log logging.Config `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendOS,
		Log: logging.Config{
			Level:      "error",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}

// Load builds the configuration for a process started with args
// (without the program name).
func Load(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("dirshell", flag.ContinueOnError)
	configPath := fs.String("config", envOr("DIRSH_CONFIG", ""), "Path to a YAML config file.")
	backend := fs.String("backend", "", "Filesystem backend: os, memory or afs.")
	startDir := fs.String("dir", "", "Initial working directory.")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return nil, err
		}
	}

	cfg.Backend = envOr("DIRSH_BACKEND", cfg.Backend)
	cfg.StartDir = envOr("DIRSH_START_DIR", cfg.StartDir)
	cfg.Log.Level = envOr("DIRSH_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("DIRSH_LOG_FORMAT", cfg.Log.Format)
	cfg.Log.OutputPath = envOr("DIRSH_LOG_OUTPUT", cfg.Log.OutputPath)

	if *backend != "" {
		cfg.Backend = *backend
	}
	if *startDir != "" {
		cfg.StartDir = *startDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on the filesystem.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOS, BackendMemory, BackendAFS:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
