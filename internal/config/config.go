// Package config loads application configuration from the merged viper
// sources: config file, MINTLEAF_ environment variables, and bound flags.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mintleaf-fin/mintleaf/internal/common"
)

// Config is the resolved application configuration.
type Config struct {
	// BaseURL is the root of the ledger service REST API.
	BaseURL string
	// Token is the bearer credential attached to every request.
	Token string
	// OutputDir receives downloaded spreadsheet exports.
	OutputDir string
	// CachePath locates the offline snapshot database.
	CachePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is console or json.
	LogFormat string
}

// Load assembles the configuration from viper's merged sources and applies
// defaults. The base URL is the only hard requirement.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:   viper.GetString("api.base_url"),
		Token:     viper.GetString("api.token"),
		OutputDir: ExpandPath(viper.GetString("export.output_dir")),
		CachePath: ExpandPath(viper.GetString("cache.path")),
		LogLevel:  viper.GetString("logging.level"),
		LogFormat: viper.GetString("logging.format"),
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ExpandPath("~/.local/share/mintleaf/snapshots.db")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}

	return cfg, nil
}
