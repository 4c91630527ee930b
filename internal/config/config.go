// Package config manages txscout's JSON configuration and credential
// resolution.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/txscout/txscout/internal/keystore"
)

const (
	defaultEndpoint = "https://api.helius.xyz"

	configFile   = "config.json"
	registryFile = "program_registry.json"
	txDirName    = "transactions"
)

// Environment variables recognized for credentials.
const (
	EnvAPIKey        = "HELIUS_API_KEY"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
)

// Config holds all txscout configuration.
type Config struct {
	Endpoint       string `json:"endpoint"`
	OutputDir      string `json:"output_dir"`
	RegistryPath   string `json:"registry_path"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`

	// internal: config dir path used for Save()
	configDir string
}

func defaults(dir string) *Config {
	return &Config{
		Endpoint:     defaultEndpoint,
		OutputDir:    filepath.Join(dir, txDirName),
		RegistryPath: filepath.Join(dir, registryFile),
		configDir:    dir,
	}
}

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.txscout. A .env in the working directory is loaded first so env-based
// credentials work without exporting.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".txscout")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(dir, txDirName)
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = filepath.Join(dir, registryFile)
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// SecretSource is anything that can look up a stored credential.
type SecretSource interface {
	Retrieve(name string) (string, error)
}

// ResolveAPIKey resolves the API key: flag value, then environment, then
// the OS keychain.
func ResolveAPIKey(flagValue string, secrets SecretSource) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v, nil
	}
	if secrets != nil {
		v, err := secrets.Retrieve(keystore.KeyAPIKey)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no API key configured: pass --api-key, set %s, or run `txscout config set-api-key`", EnvAPIKey)
}

// ResolveTelegramToken resolves the bot token: environment, then keychain.
// An empty result means notifications are disabled, not an error.
func ResolveTelegramToken(secrets SecretSource) string {
	if v := os.Getenv(EnvTelegramToken); v != "" {
		return v
	}
	if secrets != nil {
		if v, err := secrets.Retrieve(keystore.KeyTelegramToken); err == nil {
			return v
		}
	}
	return ""
}
