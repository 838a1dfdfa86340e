package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   Server   `mapstructure:"server"`
	Ledger   Ledger   `mapstructure:"ledger"`
	Transfer Transfer `mapstructure:"transfer"`
	Display  Display  `mapstructure:"display"`
	Breaker  Breaker  `mapstructure:"breaker"`
	Log      Log      `mapstructure:"log"`
}

// Server configuration
type Server struct {
	Port string `mapstructure:"port"`
}

// Ledger data source configuration
type Ledger struct {
	URL          string        `mapstructure:"url"`
	PollInterval time.Duration `mapstructure:"pollInterval"`
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Transfer backend configuration
type Transfer struct {
	URL         string        `mapstructure:"url"`
	ExplorerURL string        `mapstructure:"explorerUrl"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Display configuration for rendered balances
type Display struct {
	Currency string `mapstructure:"currency"`
	Locale   string `mapstructure:"locale"`
}

// Breaker configuration shared by the outbound clients
type Breaker struct {
	ConsecutiveFailures uint32        `mapstructure:"consecutiveFailures"`
	OpenTimeout         time.Duration `mapstructure:"openTimeout"`
}

// Log configuration
type Log struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"server.port":                 "8080",
	"ledger.url":                  "http://localhost:3000/data.json",
	"ledger.pollInterval":         "5s",
	"ledger.timeout":              "0s",
	"transfer.url":                "http://localhost:9001/send-transfer",
	"transfer.explorerUrl":        "https://explorer.mainnet.near.org/transactions/",
	"transfer.timeout":            "0s",
	"display.currency":            "ЛОЛ",
	"display.locale":              "en",
	"breaker.consecutiveFailures": 5,
	"breaker.openTimeout":         "30s",
	"log.level":                   "info",
}

// LoadConfig loads configuration from YAML files in configDir.
// Uses CONFIG_ENV environment variable to determine which config file to
// merge on top of app-config.yaml. A .env file in the working directory or
// in configDir is loaded first; variables already set win.
func LoadConfig(configDir string) (*Config, error) {
	if err := loadDotEnv(configDir); err != nil {
		return nil, err
	}

	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := filepath.Join(configDir, "app-config.yaml")
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
	}

	// Merge environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := filepath.Join(configDir, configEnv+".yaml")
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge env config file: %w", err)
		}
	}

	// Environment variables win, e.g. LOLCOIN_LEDGER_URL
	v.SetEnvPrefix("LOLCOIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("server.port", "LOLCOIN_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the services cannot start with.
func (c *Config) Validate() error {
	if err := validateURL("ledger.url", c.Ledger.URL); err != nil {
		return err
	}
	if err := validateURL("transfer.url", c.Transfer.URL); err != nil {
		return err
	}
	if c.Ledger.PollInterval <= 0 {
		return fmt.Errorf("invalid config: ledger.pollInterval must be positive, got %s", c.Ledger.PollInterval)
	}
	if c.Ledger.Timeout < 0 || c.Transfer.Timeout < 0 {
		return fmt.Errorf("invalid config: timeouts must not be negative")
	}
	if c.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("invalid config: breaker.consecutiveFailures must be at least 1")
	}
	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid config: %s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid config: %s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

func loadDotEnv(configDir string) error {
	for _, path := range []string{".env", filepath.Join(configDir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
