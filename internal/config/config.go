package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Region   RegionConfig   `mapstructure:"region"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig holds schedule-page fetching configuration
type SourceConfig struct {
	URL          string        `mapstructure:"url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// RegionConfig identifies the utility whose schedule is scraped
type RegionConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Timezone string `mapstructure:"timezone"`
}

// StorageConfig holds persistence paths
type StorageConfig struct {
	OutputPath   string `mapstructure:"output_path"`
	BaselinePath string `mapstructure:"baseline_path"`
	ImagesDir    string `mapstructure:"images_dir"`
}

// TelegramConfig holds Telegram delivery configuration
type TelegramConfig struct {
	BotToken    string        `mapstructure:"bot_token"`
	ChatID      string        `mapstructure:"chat_id"`
	ErrorChatID string        `mapstructure:"error_chat_id"`
	AlertPrefix string        `mapstructure:"alert_prefix"`
	Enabled     bool          `mapstructure:"enabled"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("GPVWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", "https://www.ztoe.com.ua/unhooking-search.php")
	v.SetDefault("source.poll_interval", "10m")
	v.SetDefault("source.timeout", "60s")
	v.SetDefault("source.user_agent", "")

	v.SetDefault("region.id", "Zhytomyr")
	v.SetDefault("region.name", "Житомиробленерго")
	v.SetDefault("region.timezone", "Europe/Kyiv")

	v.SetDefault("storage.output_path", "./out/Zhytomyroblenergo.json")
	v.SetDefault("storage.baseline_path", "./out/prev_state/previous_state.json")
	v.SetDefault("storage.images_dir", "./out/images")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.alert_prefix", "GPVWATCH")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 20)
	v.SetDefault("logging.max_age_days", 3)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.PollInterval < time.Minute {
		return fmt.Errorf("source.poll_interval must be at least 1 minute")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}

	if c.Region.ID == "" {
		return fmt.Errorf("region.id is required")
	}
	if c.Region.Timezone == "" {
		return fmt.Errorf("region.timezone is required")
	}

	if c.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path is required")
	}
	if c.Storage.BaselinePath == "" {
		return fmt.Errorf("storage.baseline_path is required")
	}
	if c.Storage.ImagesDir == "" {
		return fmt.Errorf("storage.images_dir is required")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB < 1 {
			return fmt.Errorf("logging.max_size_mb must be at least 1")
		}
		if c.Logging.MaxAgeDays < 1 {
			return fmt.Errorf("logging.max_age_days must be at least 1")
		}
	}

	return nil
}
