package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CLIConfig holds the CLI settings persisted between invocations.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	Token     string `yaml:"token,omitempty"`
}

// configPath returns the path to the CLI config file, honoring
// XDG_CONFIG_HOME and its platform equivalents.
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(dir, "vd", "config.yaml"), nil
}

// loadConfig reads the CLI config, returning a zero value when the
// file doesn't exist yet.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// saveConfig writes the CLI config, creating the directory on first
// use. The file holds a bearer token, hence the tight permissions.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// getServerURL resolves the API base URL: env var, then config file,
// then the server's default port.
func getServerURL() string {
	if v := os.Getenv("VD_SERVER_URL"); v != "" {
		return v
	}
	if cfg, err := loadConfig(); err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return "http://localhost:5000"
}

// getToken resolves the bearer token: env var, then config file.
func getToken() string {
	if v := os.Getenv("VD_TOKEN"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return cfg.Token
}
