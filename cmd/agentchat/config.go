package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultServer = "http://localhost:3000"

// clientConfig is persisted between runs so anonymous callers keep their
// client id and logged in callers keep their token.
type clientConfig struct {
	Server   string `yaml:"server"`
	Token    string `yaml:"token,omitempty"`
	ClientID string `yaml:"client_id,omitempty"`
	Email    string `yaml:"email,omitempty"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentchat.yaml"
	}
	return filepath.Join(home, ".agentchat.yaml")
}

// loadConfig reads the config file. A missing file yields the defaults.
func loadConfig(path string) (*clientConfig, error) {
	cfg := &clientConfig{Server: defaultServer}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	return cfg, nil
}

func saveConfig(path string, cfg *clientConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// the file can hold a bearer token
	return os.WriteFile(path, data, 0o600)
}
