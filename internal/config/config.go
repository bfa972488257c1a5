// Package config loads Performate configuration with viper: defaults, then
// an optional config file, then PERFORMATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Apify    ApifyConfig    `mapstructure:"apify"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Demo     DemoConfig     `mapstructure:"demo"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type ApifyConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Token is an optional default credential for the CLI commands; the web
	// flow always uses the credential linked to the logged-in account.
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DemoConfig struct {
	// Enabled switches the actor source to the bundled catalog instead of
	// the remote platform.
	Enabled bool `mapstructure:"enabled"`
	// CatalogPath points at a YAML catalog overriding the bundled one.
	CatalogPath string `mapstructure:"catalog_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Apify:    ApifyConfig{BaseURL: "https://api.apify.com/v2"},
		Database: DatabaseConfig{Path: "performate.db"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads configuration with precedence defaults < file < env. The file
// is optional unless explicitly specified.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("apify.base_url", defaults.Apify.BaseURL)
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("demo.enabled", false)

	v.SetEnvPrefix("PERFORMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("performate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/performate")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
