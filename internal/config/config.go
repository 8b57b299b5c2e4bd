package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends for the quotes dataset.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
)

// ServerConfig holds configuration for the SPQ dashboard server.
//
// Values are resolved in precedence order: defaults, then an optional YAML
// config file, then environment variables (a .env file is honoured when
// present), then command-line flags applied by the caller.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	DataDir   string `yaml:"data_dir"`   // Directory holding users.json and the quotes dataset
	Store     string `yaml:"store"`      // Quotes backend: "sqlite" or "file"
	UsersFile string `yaml:"users_file"` // Credential dataset path (default <data_dir>/users.json)
	Secure    bool   `yaml:"secure"`     // Mark the auth cookie Secure (production / HTTPS)
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		DataDir:   "data",
		Store:     StoreSQLite,
	}
}

// Load resolves the server configuration. configFile may be empty.
func Load(configFile string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", configFile, err)
		}
	}

	// A local .env file is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg.Addr = getEnv("SPQ_ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("SPQ_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("SPQ_LOG_FORMAT", cfg.LogFormat)
	cfg.DataDir = getEnv("SPQ_DATA_DIR", cfg.DataDir)
	cfg.Store = getEnv("SPQ_STORE", cfg.Store)
	cfg.UsersFile = getEnv("SPQ_USERS_FILE", cfg.UsersFile)
	cfg.Secure = getEnvBool("SPQ_SECURE", cfg.Secure)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks invariants the rest of the system relies on.
func (c *ServerConfig) Validate() error {
	if c.Store != StoreSQLite && c.Store != StoreFile {
		return fmt.Errorf("unknown store backend %q (want %q or %q)", c.Store, StoreSQLite, StoreFile)
	}
	return nil
}

// UsersPath returns the credential dataset path.
func (c *ServerConfig) UsersPath() string {
	if c.UsersFile != "" {
		return c.UsersFile
	}
	return filepath.Join(c.DataDir, "users.json")
}

// QuotesDBPath returns the sqlite database path for the quotes dataset.
func (c *ServerConfig) QuotesDBPath() string {
	return filepath.Join(c.DataDir, "quotes.db")
}

// QuotesFilePath returns the JSON file path for the quotes dataset.
func (c *ServerConfig) QuotesFilePath() string {
	return filepath.Join(c.DataDir, "quotes.json")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
