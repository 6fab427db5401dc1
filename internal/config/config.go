package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Alias1177/WyckoffTape/internal/analysis"
)

// Config holds all application configuration
type Config struct {
	Symbol         string `env:"SYMBOL" envDefault:"BTCUSDT" validate:"required"`
	Interval       string `env:"INTERVAL" envDefault:"1d" validate:"required"`
	CandleCount    int    `env:"CANDLE_COUNT" envDefault:"300" validate:"gte=1,lte=1000"`
	WindowMode     string `env:"WINDOW_MODE" envDefault:"month" validate:"oneof=tail month"`
	WindowSize     int    `env:"WINDOW_SIZE" envDefault:"60" validate:"gte=0"`
	Language       string `env:"LANGUAGE" envDefault:"es" validate:"oneof=en es"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30" validate:"gte=1"` // seconds
	RequestsPerSec int    `env:"REQUESTS_PER_SEC" envDefault:"5" validate:"gte=1"`
	BinanceBaseURL string `env:"BINANCE_BASE_URL" envDefault:"https://api.binance.com" validate:"url"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	// ThresholdsFile is an optional YAML file overriding analysis settings.
	ThresholdsFile string `env:"THRESHOLDS_FILE"`
	RSIPeriod      int    `env:"RSI_PERIOD" envDefault:"14"`
	EMAShort       int    `env:"EMA_SHORT" envDefault:"50"`
	EMALong        int    `env:"EMA_LONG" envDefault:"200"`

	Settings analysis.Settings `env:"-" validate:"-"`
}

var validate = validator.New()

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	// Load values from environment variables
	cfg.Symbol = getEnvWithDefault("SYMBOL", "BTCUSDT")
	cfg.Interval = getEnvWithDefault("INTERVAL", "1d")
	cfg.CandleCount = getEnvIntWithDefault("CANDLE_COUNT", 300)
	cfg.WindowMode = getEnvWithDefault("WINDOW_MODE", "month")
	cfg.WindowSize = getEnvIntWithDefault("WINDOW_SIZE", 60)
	cfg.Language = getEnvWithDefault("LANGUAGE", "es")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.BinanceBaseURL = getEnvWithDefault("BINANCE_BASE_URL", "https://api.binance.com")
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", ":8080")
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)
	cfg.ThresholdsFile = os.Getenv("THRESHOLDS_FILE")

	// Periods come from the thresholds file (or defaults); the env only
	// overrides the ones it actually sets.
	settings, err := LoadSettings(cfg.ThresholdsFile)
	if err != nil {
		return nil, err
	}
	settings.Periods.RSI = getEnvIntWithDefault("RSI_PERIOD", settings.Periods.RSI)
	settings.Periods.EMAShort = getEnvIntWithDefault("EMA_SHORT", settings.Periods.EMAShort)
	settings.Periods.EMALong = getEnvIntWithDefault("EMA_LONG", settings.Periods.EMALong)
	cfg.RSIPeriod = settings.Periods.RSI
	cfg.EMAShort = settings.Periods.EMAShort
	cfg.EMALong = settings.Periods.EMALong
	cfg.Settings = settings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and its analysis settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return c.Settings.Validate()
}

// LoadSettings reads analysis settings from a YAML file. Missing fields keep
// their defaults; an empty path yields the defaults.
func LoadSettings(path string) (analysis.Settings, error) {
	var s analysis.Settings
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("reading thresholds file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing thresholds file %s: %w", path, err)
		}
	}

	if err := s.ApplyDefaults(); err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("thresholds file %q: %w", path, err)
	}
	return s, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
