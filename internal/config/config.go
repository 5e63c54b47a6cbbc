package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models parkboard.yml.
type Config struct {
	Store struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"store"`
	Kiosk struct {
		UserID       string `yaml:"user_id"`
		PollSeconds  int    `yaml:"poll_seconds"`
		Timezone     string `yaml:"timezone"`
		DisplayWidth int    `yaml:"display_width"`
	} `yaml:"kiosk"`
	Server struct {
		Addr      string `yaml:"addr"`
		BasePath  string `yaml:"base_path"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "parkboard.yml")
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with pb config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("config.store.base_url is required")
	}
	if c.Store.TimeoutSeconds < 0 {
		return fmt.Errorf("config.store.timeout_seconds must not be negative")
	}
	if c.Kiosk.UserID == "" {
		return fmt.Errorf("config.kiosk.user_id is required")
	}
	if c.Kiosk.PollSeconds <= 0 {
		return fmt.Errorf("config.kiosk.poll_seconds must be positive")
	}
	if c.Kiosk.DisplayWidth <= 0 {
		return fmt.Errorf("config.kiosk.display_width must be positive")
	}
	if c.Kiosk.Timezone != "" {
		if _, err := time.LoadLocation(c.Kiosk.Timezone); err != nil {
			return fmt.Errorf("config.kiosk.timezone: %w", err)
		}
	}
	return nil
}

// StoreTimeout returns the configured store timeout as a duration.
func (c *Config) StoreTimeout() time.Duration {
	if c.Store.TimeoutSeconds == 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

// PollInterval returns the configured inter-cycle delay.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Kiosk.PollSeconds) * time.Second
}

// Default returns the default Config struct for a user.
func Default(userID string) *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(GenerateDefault(userID)), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault(userID string) string {
	return fmt.Sprintf(defaultTemplate, userID)
}

const defaultTemplate = `store:
  base_url: http://127.0.0.1:8090
  api_key: ""
  timeout_seconds: 10

kiosk:
  user_id: %s
  poll_seconds: 30
  timezone: America/New_York
  display_width: 20

server:
  addr: 127.0.0.1:8080
  base_path: /v0
  jwt_secret: ""
`
