package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	TelegramToken string

	// Database configuration
	DatabaseURL string

	// Starting balances granted on player registration
	StartingCoins int64
	StartingGold  int64

	// Random seed for stat rolling; 0 means time-based
	StatRollSeed int64

	// Environment is "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		// Defaults
		StartingCoins: 100,
		StartingGold:  0,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if coins := os.Getenv("STARTING_COINS"); coins != "" {
		if parsed, err := strconv.ParseInt(coins, 10, 64); err == nil {
			config.StartingCoins = parsed
		}
	}
	if gold := os.Getenv("STARTING_GOLD"); gold != "" {
		if parsed, err := strconv.ParseInt(gold, 10, 64); err == nil {
			config.StartingGold = parsed
		}
	}
	if seed := os.Getenv("STAT_ROLL_SEED"); seed != "" {
		if parsed, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.StatRollSeed = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
