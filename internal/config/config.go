// Package config loads service configuration from config.yaml, a .env file,
// BOATODDS_ environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/boatrace-odds/internal/extract"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, BOATODDS_SERVER_PORT.
const EnvPrefix = "BOATODDS"

// Config is the full service configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Board    BoardConfig    `mapstructure:"board"`
	Alert    AlertConfig    `mapstructure:"alert"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the proxy API listener
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// UpstreamConfig configures access to the BOATRACE website
type UpstreamConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ExtractConfig selects odds tiers and the vote policy
type ExtractConfig struct {
	Tiers      []string `mapstructure:"tiers"`
	VotePolicy string   `mapstructure:"vote_policy"`
}

// BoardConfig tunes the all-venue board
type BoardConfig struct {
	Concurrency    int     `mapstructure:"concurrency"`
	AlertThreshold float64 `mapstructure:"alert_threshold"`
}

// AlertConfig configures notice delivery. Channels with empty credentials
// are disabled.
type AlertConfig struct {
	WebhookURL string         `mapstructure:"webhook_url"`
	DedupTTL   time.Duration  `mapstructure:"dedup_ttl"`
	RedisURL   string         `mapstructure:"redis_url"`
	StateDir   string         `mapstructure:"state_dir"`
	SMTP       SMTPConfig     `mapstructure:"smtp"`
	Twitter    TwitterConfig  `mapstructure:"twitter"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

type SMTPConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type TwitterConfig struct {
	APIKey       string `mapstructure:"api_key"`
	APISecret    string `mapstructure:"api_secret"`
	AccessToken  string `mapstructure:"access_token"`
	AccessSecret string `mapstructure:"access_secret"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// defaults registers every key so that environment variables can override
// keys absent from the config file.
var defaults = map[string]interface{}{
	"server.port":                 8787,
	"server.cors_origins":         []string{"*"},
	"upstream.base_url":           "https://www.boatrace.jp",
	"upstream.timeout":            15 * time.Second,
	"upstream.user_agent":         "",
	"extract.tiers":               extract.DefaultTiers,
	"extract.vote_policy":         extract.PolicyPaired,
	"board.concurrency":           8,
	"board.alert_threshold":       5.0,
	"alert.webhook_url":           "",
	"alert.dedup_ttl":             30 * time.Minute,
	"alert.redis_url":             "",
	"alert.state_dir":             "~/.local/share/boatrace-odds",
	"alert.smtp.host":             "",
	"alert.smtp.port":             587,
	"alert.smtp.username":         "",
	"alert.smtp.password":         "",
	"alert.smtp.from":             "",
	"alert.smtp.to":               []string{},
	"alert.twitter.api_key":       "",
	"alert.twitter.api_secret":    "",
	"alert.twitter.access_token":  "",
	"alert.twitter.access_secret": "",
	"alert.telegram.bot_token":    "",
	"alert.telegram.chat_id":      "",
	"log.level":                   "info",
}

// NewViper returns a viper instance with defaults and environment binding.
// Command-line flags are bound onto it by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into a Config. When file is empty, config.yaml is
// searched in . and ./config and may be absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be positive"))
	}
	if c.Board.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("board.concurrency must be at least 1"))
	}
	if c.Board.AlertThreshold <= 0 {
		errs = append(errs, fmt.Errorf("board.alert_threshold must be positive"))
	}
	if _, err := extract.StrategiesByName(c.Extract.Tiers); err != nil {
		errs = append(errs, fmt.Errorf("extract.tiers: %w", err))
	}
	if _, err := extract.VotePolicyByName(c.Extract.VotePolicy); err != nil {
		errs = append(errs, fmt.Errorf("extract.vote_policy: %w", err))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ExtractorConfig converts to the extract package configuration.
func (c *Config) ExtractorConfig() extract.Config {
	return extract.Config{Tiers: c.Extract.Tiers, VotePolicy: c.Extract.VotePolicy}
}
