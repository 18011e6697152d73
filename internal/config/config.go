package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// FileName is the per-repository configuration file
const FileName = ".affected.toml"

// EnvPrefix prefixes environment overrides, e.g. AFFECTED_SOURCEDIR
const EnvPrefix = "AFFECTED"

// CurrentVersion is the schema version written by Save
const CurrentVersion = 1

// SupportedConfigVersions lists the schema versions LoadConfig accepts
var SupportedConfigVersions = []int{1}

// Config represents the complete affected configuration
type Config struct {
	Version          int           `json:"version" mapstructure:"version" toml:"version"`
	SourceDir        string        `json:"sourceDir" mapstructure:"sourceDir" toml:"sourceDir"`
	FilterPattern    string        `json:"filterPattern" mapstructure:"filterPattern" toml:"filterPattern"`
	Exclude          []string      `json:"exclude" mapstructure:"exclude" toml:"exclude"`
	Concurrency      int           `json:"concurrency" mapstructure:"concurrency" toml:"concurrency"`
	MaxFileSizeBytes int64         `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes" toml:"maxFileSizeBytes"`
	Git              GitConfig     `json:"git" mapstructure:"git" toml:"git"`
	Logging          LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// GitConfig contains diff source configuration
type GitConfig struct {
	TimeoutMs int  `json:"timeoutMs" mapstructure:"timeoutMs" toml:"timeoutMs"`
	Staged    bool `json:"staged" mapstructure:"staged" toml:"staged"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format"`
	Level  string `json:"level" mapstructure:"level" toml:"level"`
}

// Timeout returns the git command timeout as a duration
func (g GitConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMs) * time.Millisecond
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:          CurrentVersion,
		SourceDir:        "src",
		FilterPattern:    "",
		Exclude:          []string{},
		Concurrency:      64,
		MaxFileSizeBytes: 0,
		Git: GitConfig{
			TimeoutMs: 30000,
			Staged:    false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("sourceDir", d.SourceDir)
	v.SetDefault("filterPattern", d.FilterPattern)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("maxFileSizeBytes", d.MaxFileSizeBytes)
	v.SetDefault("git.timeoutMs", d.Git.TimeoutMs)
	v.SetDefault("git.staged", d.Git.Staged)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// LoadConfig loads configuration from <repoRoot>/.affected.toml and applies
// AFFECTED_* environment overrides. A missing file yields the defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(repoRoot, FileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else if !stderrors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the configuration to <repoRoot>/.affected.toml
func (c *Config) Save(repoRoot string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(repoRoot, FileName), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	supported := false
	for _, v := range SupportedConfigVersions {
		if c.Version == v {
			supported = true
			break
		}
	}
	if !supported {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}

	if strings.TrimSpace(c.SourceDir) == "" {
		return &ConfigError{Field: "sourceDir", Message: "must not be empty"}
	}
	if c.Concurrency <= 0 {
		return &ConfigError{Field: "concurrency", Message: "must be positive"}
	}
	if c.MaxFileSizeBytes < 0 {
		return &ConfigError{Field: "maxFileSizeBytes", Message: "must not be negative"}
	}
	if c.Git.TimeoutMs <= 0 {
		return &ConfigError{Field: "git.timeoutMs", Message: "must be positive"}
	}

	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "unknown level " + c.Logging.Level}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
