// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const fileName = "postgenie.yml"

// Config holds all configuration values for postgenie.
type Config struct {
	DataDir    string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string        `mapstructure:"log_file" yaml:"log_file"`
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	TextDelay  time.Duration `mapstructure:"text_delay" yaml:"-"`
	ImageDelay time.Duration `mapstructure:"image_delay" yaml:"-"`
	BrandFile  string        `mapstructure:"brand_file" yaml:"brand_file"`
	ExportDir  string        `mapstructure:"export_dir" yaml:"export_dir"`
	Session    string        `mapstructure:"session" yaml:"session"`
	Publish    bool          `mapstructure:"publish" yaml:"publish"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:    ".postgenie",
		LogLevel:   "info",
		Provider:   "mock",
		TextDelay:  1500 * time.Millisecond,
		ImageDelay: 1500 * time.Millisecond,
		ExportDir:  ".",
		Session:    "default",
		Publish:    true,
	}
}

// envKeys lists every key bound to a POSTGENIE_ variable.
var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"provider",
	"text_delay",
	"image_delay",
	"brand_file",
	"export_dir",
	"session",
	"publish",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("postgenie")

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("provider", def.Provider)
	v.SetDefault("text_delay", def.TextDelay)
	v.SetDefault("image_delay", def.ImageDelay)
	v.SetDefault("brand_file", def.BrandFile)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetDefault("session", def.Session)
	v.SetDefault("publish", def.Publish)

	v.SetEnvPrefix("POSTGENIE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings for bool and duration parsing.
	for _, key := range envKeys {
		if err := v.BindEnv(key, "POSTGENIE_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		logger.Debug("Loaded global config from %s", globalPath)
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
		logger.Debug("Merged project config from %s", projectPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Provider {
	case "", "mock":
	default:
		return fmt.Errorf("unknown provider %q (available: mock)", c.Provider)
	}
	if c.TextDelay < 0 || c.ImageDelay < 0 {
		return fmt.Errorf("generation delays must not be negative")
	}
	if strings.TrimSpace(c.Session) == "" {
		return fmt.Errorf("session name is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/postgenie/postgenie.yml or $XDG_CONFIG_HOME/postgenie/postgenie.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "postgenie", fileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "postgenie", fileName)
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return fileName
}

// fileConfig is the on-disk shape; durations are written as strings like "1.5s".
type fileConfig struct {
	Config     `yaml:",inline"`
	TextDelay  string `yaml:"text_delay"`
	ImageDelay string `yaml:"image_delay"`
}

func marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(fileConfig{
		Config:     *cfg,
		TextDelay:  cfg.TextDelay.String(),
		ImageDelay: cfg.ImageDelay.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return writeFile(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return writeFile(ProjectPath(), cfg)
}

func writeFile(path string, cfg *Config) error {
	data, err := marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
