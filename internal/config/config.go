package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Kanka   KankaConfig   `toml:"kanka"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// KankaConfig contains upstream Kanka API settings.
type KankaConfig struct {
	// Token is the bearer token sent on every upstream request. Mandatory.
	Token string `toml:"token"`
	// BaseURL is the Kanka API root, without a trailing slash.
	BaseURL string `toml:"base_url"`
	// CampaignID is the default campaign used when a tool call omits
	// campaign_id. Optional.
	CampaignID string `toml:"campaign_id"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PAPIN_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PAPIN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PAPIN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if token := os.Getenv("PAPIN_KANKA_TOKEN"); token != "" {
		config.Kanka.Token = token
	}
	if baseURL := os.Getenv("PAPIN_KANKA_BASE_URL"); baseURL != "" {
		config.Kanka.BaseURL = baseURL
	}
	if campaign := os.Getenv("PAPIN_KANKA_CAMPAIGN_ID"); campaign != "" {
		config.Kanka.CampaignID = campaign
	}
	if level := os.Getenv("PAPIN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of configuration issues. An empty list means the
// configuration is usable. The Kanka token is mandatory: the process must
// refuse to start (before binding any port) when it is absent.
func (c *Config) Validate() []string {
	var issues []string
	if c.Kanka.Token == "" {
		issues = append(issues, "kanka.token is required (set PAPIN_KANKA_TOKEN or [kanka] token in TOML)")
	}
	if c.Kanka.BaseURL == "" {
		issues = append(issues, "kanka.base_url must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	return issues
}
