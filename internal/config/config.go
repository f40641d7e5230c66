package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"IDXScreener/internal/collector"
	"IDXScreener/internal/model"
	"IDXScreener/internal/universe"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// MaxConsecutiveDays keeps the streak inside the one-month history window.
const MaxConsecutiveDays = 20

// Config holds all application configuration.
type Config struct {
	Universe struct {
		Mode           string        `yaml:"mode"`
		Priority       []string      `yaml:"priority"`
		MinPlausible   int           `yaml:"min_plausible"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		IDXURL         string        `yaml:"idx_url"`
		SearchURL      string        `yaml:"search_url"`
		SearchInterval time.Duration `yaml:"search_interval"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"universe"`
	History struct {
		Provider string        `yaml:"provider"` // yahoo or rest
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"` // 0 disables the history cache
	} `yaml:"history"`
	Scan struct {
		MinTurnoverBn     float64       `yaml:"min_turnover_bn"`
		GainThresholdPct  float64       `yaml:"gain_threshold_pct"`
		ConsecutiveDays   int           `yaml:"consecutive_days"`
		IncludeIndicators bool          `yaml:"include_indicators"`
		PauseEvery        int           `yaml:"pause_every"`
		PauseDuration     time.Duration `yaml:"pause_duration"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		APIURL   string `yaml:"api_url"`
	} `yaml:"telegram"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Path resolves the config file location from the flag value and CONFIG_PATH.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("IDX_SOURCE_MODE"); v != "" {
		c.Universe.Mode = v
	}
	if v := os.Getenv("IDX_MIN_TURNOVER_BN"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("IDX_MIN_TURNOVER_BN: %w", err)
		}
		c.Scan.MinTurnoverBn = f
	}
	if v := os.Getenv("IDX_GAIN_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("IDX_GAIN_THRESHOLD: %w", err)
		}
		c.Scan.GainThresholdPct = f
	}
	if v := os.Getenv("IDX_CONSECUTIVE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IDX_CONSECUTIVE_DAYS: %w", err)
		}
		c.Scan.ConsecutiveDays = n
	}
	if v := os.Getenv("IDX_INDICATORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("IDX_INDICATORS: %w", err)
		}
		c.Scan.IncludeIndicators = b
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HISTORY_API_KEY"); v != "" {
		c.History.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		c.Schedule.ScanCron = v
	}
	return nil
}

// defaults seeds the scan and history cache settings before the file and
// environment are applied, so an explicit 0 for a threshold or pause is kept.
func defaults() *Config {
	cfg := &Config{}
	cfg.Scan.MinTurnoverBn = 15
	cfg.Scan.GainThresholdPct = 2
	cfg.Scan.ConsecutiveDays = 2
	cfg.Scan.PauseEvery = 50
	cfg.Scan.PauseDuration = time.Second
	cfg.History.CacheTTL = collector.DefaultHistoryTTL
	return cfg
}

// applyDefaults fills settings for which zero is never meaningful.
func (c *Config) applyDefaults() {
	if c.Universe.Mode == "" {
		c.Universe.Mode = string(universe.ModeAuto)
	}
	if len(c.Universe.Priority) == 0 {
		c.Universe.Priority = []string{string(universe.ModeIDX), string(universe.ModeYahoo)}
	}
	if c.Universe.MinPlausible == 0 {
		c.Universe.MinPlausible = 200
	}
	if c.Universe.CacheTTL == 0 {
		c.Universe.CacheTTL = time.Hour
	}
	if c.Universe.SearchInterval == 0 {
		c.Universe.SearchInterval = 80 * time.Millisecond
	}
	if c.Universe.Timeout == 0 {
		c.Universe.Timeout = 15 * time.Second
	}
	if c.History.Provider == "" {
		c.History.Provider = "yahoo"
	}
	if c.History.Timeout == 0 {
		c.History.Timeout = 10 * time.Second
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 */5 * * * *"
	}
	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = "https://api.telegram.org"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 14
	}
}

// Validate checks the scan parameters and the universe and schedule settings.
func (c *Config) Validate() error {
	if _, err := universe.ParseMode(c.Universe.Mode); err != nil {
		return err
	}
	for _, p := range c.Universe.Priority {
		if p != string(universe.ModeIDX) && p != string(universe.ModeYahoo) {
			return fmt.Errorf("universe.priority: unknown source %q", p)
		}
	}
	switch c.History.Provider {
	case "yahoo":
	case "rest":
		if c.History.BaseURL == "" {
			return fmt.Errorf("history.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("history.provider must be yahoo or rest, got %q", c.History.Provider)
	}
	if c.Scan.ConsecutiveDays > MaxConsecutiveDays {
		return fmt.Errorf("scan.consecutive_days must be <= %d", MaxConsecutiveDays)
	}
	if err := c.Criteria().Validate(); err != nil {
		return err
	}
	if c.History.CacheTTL < 0 {
		return fmt.Errorf("history.cache_ttl must not be negative")
	}
	if c.Scan.PauseEvery < 0 || c.Scan.PauseDuration < 0 {
		return fmt.Errorf("scan.pause_every and scan.pause_duration must not be negative")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.ScanCron); err != nil {
		return fmt.Errorf("schedule.scan_cron: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Mode returns the parsed universe mode. Call after Validate.
func (c *Config) Mode() universe.Mode {
	m, _ := universe.ParseMode(c.Universe.Mode)
	return m
}

// Criteria builds the scan criteria, converting the turnover minimum from billions of rupiah.
func (c *Config) Criteria() model.ScanCriteria {
	return model.ScanCriteria{
		MinTurnover:       BillionsToIDR(c.Scan.MinTurnoverBn),
		GainThresholdPct:  c.Scan.GainThresholdPct,
		ConsecutiveDays:   c.Scan.ConsecutiveDays,
		IncludeIndicators: c.Scan.IncludeIndicators,
	}
}

// BillionsToIDR converts an amount in billions (miliar) of rupiah to rupiah.
func BillionsToIDR(bn float64) float64 {
	v, _ := decimal.NewFromFloat(bn).Shift(9).Float64()
	return v
}

// Redacted returns a copy safe to print, with credentials masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Universe.Priority = append([]string(nil), c.Universe.Priority...)
	out.Telegram.BotToken = mask(c.Telegram.BotToken)
	out.History.APIKey = mask(c.History.APIKey)
	return out
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
