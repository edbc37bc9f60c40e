package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    int
	DevMode bool

	DatabasePath string

	// LINE Messaging API credentials
	LineChannelAccessToken string
	LineChannelSecret      string

	// Gemini vision model
	GeminiAPIKey   string
	GeminiOCRModel string

	// Market data endpoints (overridable for tests)
	ExchangeRateURL  string
	YahooQuoteURL    string
	BinanceTickerURL string

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnvAsInt("PORT", 8080),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		DatabasePath:           getEnv("DATABASE_PATH", "./data/opes.db"),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		GeminiOCRModel:         getEnv("GEMINI_OCR_MODEL", "gemini-2.0-flash"),
		ExchangeRateURL:        getEnv("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest/USD"),
		YahooQuoteURL:          getEnv("YAHOO_QUOTE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
		BinanceTickerURL:       getEnv("BINANCE_TICKER_URL", "https://api.binance.com/api/v3/ticker/price"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	// Webhook signature verification cannot work without channel
	// credentials. Dev mode allows running without them locally.
	if !c.DevMode {
		if c.LineChannelAccessToken == "" {
			return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
		}
		if c.LineChannelSecret == "" {
			return fmt.Errorf("LINE_CHANNEL_SECRET is required")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
