package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultURL        = "https://hastebin.com"
	defaultTimeout    = 5
	defaultDocsURL    = "https://github.com/toptal/haste-server#readme"
	appDir            = "posthaste"
	configFile        = "config.yaml"
	credentialsFile   = "credentials"
	envURL            = "POSTHASTE_URL"
	envToken          = "POSTHASTE_TOKEN"
	envTimeout        = "POSTHASTE_TIMEOUT"
	envTokenSecret    = "POSTHASTE_TOKEN_SECRET"
	envConfigPath     = "POSTHASTE_CONFIG"
	envCredentialPath = "POSTHASTE_CREDENTIALS"
)

type Config struct {
	URL             string `yaml:"url"`
	Timeout         int    `yaml:"timeout"`
	Verbose         bool   `yaml:"verbose"`
	SkipMissing     bool   `yaml:"skip_missing"`
	TokenSecret     string `yaml:"token_secret"` // Secret Manager resource name
	DocsURL         string `yaml:"docs_url"`
	CredentialsPath string `yaml:"credentials_path"`

	// Token only ever comes from the environment.
	Token string `yaml:"-"`
}

// Load reads a local .env, then the YAML file at path (POSTHASTE_CONFIG or
// the user config directory when path is empty), then the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}
	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

// DefaultPath is POSTHASTE_CONFIG if set, else config.yaml in the user
// config directory.
func DefaultPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return filepath.Join(userConfigDir(), appDir, configFile)
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No config file found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(envURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(envToken); v != "" {
		cfg.Token = strings.TrimSpace(v)
	}
	if v := os.Getenv(envTokenSecret); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv(envCredentialPath); v != "" {
		cfg.CredentialsPath = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive number of seconds", envTimeout, v)
		}
		cfg.Timeout = timeout
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DocsURL == "" {
		cfg.DocsURL = defaultDocsURL
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = filepath.Join(userConfigDir(), appDir, credentialsFile)
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}
