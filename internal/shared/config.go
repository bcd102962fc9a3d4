package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	// EnvAPIURL overrides [APIConfig.BaseURL] when set.
	EnvAPIURL = "SOLVEX_API_URL"
	// EnvDatabasePath overrides [DatabaseConfig.Path] when set.
	EnvDatabasePath = "SOLVEX_DB_PATH"

	DefaultAPIURL = "http://localhost:8000"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Web      WebConfig      `toml:"web"`
	Database DatabaseConfig `toml:"database"`
	Account  AccountConfig  `toml:"account"`
	Export   ExportConfig   `toml:"export"`
}

// APIConfig contains settings for the remote SolveX API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// Timeout returns the configured request timeout; zero means none.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// WebConfig contains the address of the web front end used to build record links.
type WebConfig struct {
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains database connection settings for the local session store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AccountConfig contains signup settings.
type AccountConfig struct {
	SignupPassword string `toml:"signup_password"`
}

// ExportConfig contains bulk export defaults.
type ExportConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides config values from the environment and fills in the API default.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDatabasePath)); v != "" {
		c.Database.Path = v
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIURL
	}
}

// ProblemLink returns the web front end address of a problem.
func (c *Config) ProblemLink(problemID int) string {
	return fmt.Sprintf("%s/problems/%d", strings.TrimSuffix(c.Web.BaseURL, "/"), problemID)
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
