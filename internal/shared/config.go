package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Sync        SyncConfig        `toml:"sync"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	YouTube YouTubeConfig `toml:"youtube"`
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL          string  `toml:"proxy_url"`
	HeadersPath       string  `toml:"headers_path"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig holds the defaults for the likes import.
type SyncConfig struct {
	Delay      float64 `toml:"delay"`
	BatchSize  int     `toml:"batch_size"`
	MaxRetries int     `toml:"max_retries"`
	Reverse    bool    `toml:"reverse"`
	Collection string  `toml:"collection"`
	RecordRuns bool    `toml:"record_runs"`
}

// DelayDuration converts the configured delay in seconds to a [time.Duration].
func (s SyncConfig) DelayDuration() time.Duration {
	return time.Duration(s.Delay * float64(time.Second))
}

// Validate rejects settings the import engine cannot run with.
func (s SyncConfig) Validate() error {
	if s.Delay < 0 {
		return fmt.Errorf("%w: delay must be >= 0, got %v", ErrInvalidConfig, s.Delay)
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be >= 1, got %d", ErrInvalidConfig, s.BatchSize)
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be >= 1, got %d", ErrInvalidConfig, s.MaxRetries)
	}
	if s.Collection == "" {
		return fmt.Errorf("%w: collection is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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
