package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Board     BoardConfig     `yaml:"board"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	// Path is the SQLite database file holding the document table.
	Path string `yaml:"path"`
	// Key is the storage key the board document lives under. It matches
	// the key the original frontend used, so existing saves migrate in.
	Key string `yaml:"key"`
}

type BoardConfig struct {
	// DeletePolicy decides what happens to a deleted project's tasks:
	// "cascade" (default) or "orphan".
	DeletePolicy string `yaml:"delete_policy"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "planboard.db",
			Key:  "itemkey_planning_v1",
		},
		Board: BoardConfig{
			DeletePolicy: "cascade",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("PLANBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PLANBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PLANBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PLANBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if path := os.Getenv("PLANBOARD_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if key := os.Getenv("PLANBOARD_STORAGE_KEY"); key != "" {
		cfg.Storage.Key = key
	}
	if policy := os.Getenv("PLANBOARD_DELETE_POLICY"); policy != "" {
		cfg.Board.DeletePolicy = policy
	}
	if mode := os.Getenv("PLANBOARD_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if level := os.Getenv("PLANBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Board.DeletePolicy {
	case "cascade", "orphan":
	default:
		return fmt.Errorf("invalid delete policy %q (want cascade or orphan)", c.Board.DeletePolicy)
	}
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q (want http or stdio)", c.Transport.Mode)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
