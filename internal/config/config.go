package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	NoF1     NoF1Config     `yaml:"nof1"`
	Models   ModelsConfig   `yaml:"models"`
	Telegram TelegramConfig `yaml:"telegram"`
	Web      WebConfig      `yaml:"web"`
	Report   ReportConfig   `yaml:"report"`
	Interval string         `yaml:"interval"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type NoF1Config struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ModelsConfig struct {
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	RecentTrades int      `yaml:"recent_trades"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type ReportConfig struct {
	MaxMessageLen int `yaml:"max_message_len"`
	TopPerformers int `yaml:"top_performers"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a config with only the built-in defaults applied, for
// tools that can run without a config file.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets Telegram credentials come from the environment
// (or a .env file loaded by the caller) instead of the config file.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.NoF1.BaseURL == "" {
		cfg.NoF1.BaseURL = "https://nof1.ai"
	}
	if cfg.NoF1.TimeoutSeconds == 0 {
		cfg.NoF1.TimeoutSeconds = 30
	}
	if len(cfg.Models.Include) == 0 {
		cfg.Models.Include = []string{"deepseek", "qwen", "grok", "claude"}
	}
	if len(cfg.Models.Exclude) == 0 {
		cfg.Models.Exclude = []string{"gemini", "gpt-5"}
	}
	if cfg.Models.RecentTrades == 0 {
		cfg.Models.RecentTrades = 5
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Report.MaxMessageLen == 0 {
		cfg.Report.MaxMessageLen = 4000
	}
	if cfg.Report.TopPerformers == 0 {
		cfg.Report.TopPerformers = 3
	}
	if cfg.Interval == "" {
		cfg.Interval = "60s"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf("invalid interval %q: %w", c.Interval, err)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.Report.MaxMessageLen < 200 {
		return fmt.Errorf("report.max_message_len must be at least 200")
	}
	return nil
}

func (c *Config) ReportInterval() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

func (c *Config) NoF1Timeout() time.Duration {
	return time.Duration(c.NoF1.TimeoutSeconds) * time.Second
}
