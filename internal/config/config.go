// Package config loads the cloudprint command's configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the TOML file (~/.config/cloudprint/config.toml unless a path is given);
//     a missing file is not an error
//  3. CLOUDPRINT_* environment variables, after an optional .env file in the
//     working directory has been loaded
//
// Example config.toml:
//
//	client_id = "123.apps.googleusercontent.com"
//	client_secret = "..."
//	refresh_token = "..."
//	timeout = "30s"
//
//	[log]
//	level = "info"
//	format = "console"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/enthus-golang/cloudprint"
)

const (
	defaultConfigPath = "~/.config/cloudprint/config.toml"
	defaultTokenURL   = cloudprint.GoogleTokenURL
	defaultTimeout    = 30 * time.Second
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultLogOutput  = "stderr"
)

// Config holds everything the command needs to build a client.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
	TokenURL     string
	BaseURL      string // empty means the public Cloud Print endpoint
	Timeout      time.Duration
	Log          LogConfig
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
	Output string // "stderr", "stdout" or a file path
}

type fileConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	AccessToken  string `toml:"access_token"`
	TokenURL     string `toml:"token_url"`
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`
	Log          struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Output string `toml:"output"`
	} `toml:"log"`
}

// Load reads the config file at path (or the default location when path is
// empty) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		TokenURL: defaultTokenURL,
		Timeout:  defaultTimeout,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Output: defaultLogOutput,
		},
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// CanRefresh reports whether enough OAuth fields are set to exchange the refresh token.
func (c Config) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.TokenURL != ""
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.ClientID, raw.ClientID)
	setString(&c.ClientSecret, raw.ClientSecret)
	setString(&c.RefreshToken, raw.RefreshToken)
	setString(&c.AccessToken, raw.AccessToken)
	setString(&c.TokenURL, raw.TokenURL)
	setString(&c.BaseURL, raw.BaseURL)
	setString(&c.Log.Level, raw.Log.Level)
	setString(&c.Log.Format, raw.Log.Format)
	setString(&c.Log.Output, raw.Log.Output)

	if err := setDuration(&c.Timeout, raw.Timeout); err != nil {
		return fmt.Errorf("parse config: timeout: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.ClientID, os.Getenv("CLOUDPRINT_CLIENT_ID"))
	setString(&c.ClientSecret, os.Getenv("CLOUDPRINT_CLIENT_SECRET"))
	setString(&c.RefreshToken, os.Getenv("CLOUDPRINT_REFRESH_TOKEN"))
	setString(&c.AccessToken, os.Getenv("CLOUDPRINT_ACCESS_TOKEN"))
	setString(&c.TokenURL, os.Getenv("CLOUDPRINT_TOKEN_URL"))
	setString(&c.BaseURL, os.Getenv("CLOUDPRINT_BASE_URL"))
	setString(&c.Log.Level, os.Getenv("CLOUDPRINT_LOG_LEVEL"))
	setString(&c.Log.Format, os.Getenv("CLOUDPRINT_LOG_FORMAT"))
	setString(&c.Log.Output, os.Getenv("CLOUDPRINT_LOG_OUTPUT"))

	if err := setDuration(&c.Timeout, os.Getenv("CLOUDPRINT_TIMEOUT")); err != nil {
		return fmt.Errorf("invalid CLOUDPRINT_TIMEOUT: %w", err)
	}

	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", value)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
