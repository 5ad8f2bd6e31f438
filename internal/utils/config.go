package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	// Decoder behaviour
	Decode DecodeConfig `yaml:"decode" mapstructure:"decode"`

	// Report rendering
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// DecodeConfig holds decoder configuration
type DecodeConfig struct {
	// Termination is "sentinel" (stop at the first Null entry) or "count"
	// (read the declared number of program header entries)
	Termination string `yaml:"termination" mapstructure:"termination"`
	MaxFileSize int64  `yaml:"max_file_size" mapstructure:"max_file_size"`
	Strict      bool   `yaml:"strict" mapstructure:"strict"`
}

// ReportConfig holds reporter configuration
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Color  bool   `yaml:"color" mapstructure:"color"`
	Output string `yaml:"output" mapstructure:"output"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"text", "json"}
	validTerminations  = []string{"sentinel", "count"}
	validReportFormats = []string{"text", "json"}
)

// DefaultMaxFileSize bounds how much of a file is buffered in memory
const DefaultMaxFileSize = 64 << 20

// ConfigManager handles configuration loading and management
type ConfigManager struct {
	config    *Config
	viper     *viper.Viper
	logger    *Logger
	overrides map[string]interface{}
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:    &Config{},
		viper:     viper.New(),
		logger:    NewDefaultLogger(),
		overrides: make(map[string]interface{}),
	}
}

// SetOverride sets a value that takes precedence over file and environment,
// keyed by viper path (e.g. "decode.strict"). Every key has a default, so
// viper also resolves ELFDEC_<KEY> from the environment for it.
func (c *ConfigManager) SetOverride(key string, value interface{}) {
	c.overrides[key] = value
}

// LoadConfig loads configuration from file and environment variables
func (c *ConfigManager) LoadConfig(configFile string) error {
	c.setDefaults()

	c.viper.SetConfigType("yaml")
	c.viper.SetEnvPrefix("ELFDEC")
	c.viper.AutomaticEnv()
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		c.viper.SetConfigFile(configFile)
		if err := c.viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Warnf("Config file not found: %s", configFile)
		} else {
			c.logger.WithComponent("config").Debugf("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	} else {
		c.viper.SetConfigName("elf-decoder")
		c.viper.AddConfigPath(".")
		c.viper.AddConfigPath("$HOME/.elf-decoder")
		c.viper.AddConfigPath("/etc/elf-decoder")

		if err := c.viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Debug("No config file found, using defaults and environment variables")
		} else {
			c.logger.WithComponent("config").Debugf("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	}

	return c.finish()
}

// finish applies overrides on top of defaults, file and environment
// (all resolved by viper), unmarshals and validates
func (c *ConfigManager) finish() error {
	for key, value := range c.overrides {
		c.viper.Set(key, value)
	}

	if err := c.viper.Unmarshal(c.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.logger.WithComponent("config").Debug("Configuration loaded successfully")
	return nil
}

// setDefaults sets default configuration values
func (c *ConfigManager) setDefaults() {
	c.viper.SetDefault("log_level", "info")
	c.viper.SetDefault("log_format", "text")

	c.viper.SetDefault("decode.termination", "sentinel")
	c.viper.SetDefault("decode.max_file_size", DefaultMaxFileSize)
	c.viper.SetDefault("decode.strict", false)

	c.viper.SetDefault("report.format", "text")
	c.viper.SetDefault("report.color", true)
	c.viper.SetDefault("report.output", "")
}

// validateConfig validates the loaded configuration
func (c *ConfigManager) validateConfig() error {
	cfg := c.config

	if cfg.LogLevel != "" && !contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		return fmt.Errorf("invalid log_level: %s (valid: %v)", cfg.LogLevel, validLogLevels)
	}
	if cfg.LogFormat != "" && !contains(validLogFormats, strings.ToLower(cfg.LogFormat)) {
		return fmt.Errorf("invalid log_format: %s (valid: %v)", cfg.LogFormat, validLogFormats)
	}
	if !contains(validTerminations, strings.ToLower(cfg.Decode.Termination)) {
		return fmt.Errorf("invalid decode.termination: %s (valid: %v)", cfg.Decode.Termination, validTerminations)
	}
	cfg.Decode.Termination = strings.ToLower(cfg.Decode.Termination)
	if cfg.Decode.MaxFileSize < 0 {
		return fmt.Errorf("invalid decode.max_file_size: %d (must be >= 0)", cfg.Decode.MaxFileSize)
	}
	if !contains(validReportFormats, strings.ToLower(cfg.Report.Format)) {
		return fmt.Errorf("invalid report.format: %s (valid: %v)", cfg.Report.Format, validReportFormats)
	}
	cfg.Report.Format = strings.ToLower(cfg.Report.Format)

	if cfg.Report.Output != "" {
		expanded, err := expandPath(cfg.Report.Output)
		if err != nil {
			return fmt.Errorf("failed to expand report output path: %w", err)
		}
		cfg.Report.Output = expanded
	}

	return nil
}

// expandPath expands a path with environment variables and home directory
func expandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		expanded = filepath.Join(homeDir, expanded[2:])
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}

// GetConfig returns the loaded configuration
func (c *ConfigManager) GetConfig() *Config {
	return c.config
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// LoadDefaultConfig loads configuration from the standard locations
func LoadDefaultConfig() (*Config, error) {
	manager := NewConfigManager()
	if err := manager.LoadConfig(""); err != nil {
		return nil, err
	}
	return manager.GetConfig(), nil
}

// LoadConfigFromFile loads configuration from a specific file
func LoadConfigFromFile(filename string) (*Config, error) {
	manager := NewConfigManager()
	if err := manager.LoadConfig(filename); err != nil {
		return nil, err
	}
	return manager.GetConfig(), nil
}

// LoadConfigWithOverrides loads configuration from configFile (or the
// standard locations when empty) and applies overrides on top
func LoadConfigWithOverrides(configFile string, overrides map[string]interface{}) (*Config, error) {
	manager := NewConfigManager()
	for key, value := range overrides {
		manager.SetOverride(key, value)
	}
	if err := manager.LoadConfig(configFile); err != nil {
		return nil, err
	}
	return manager.GetConfig(), nil
}
