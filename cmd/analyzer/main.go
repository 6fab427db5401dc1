package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WyckoffTape/internal/api/binance"
	"github.com/Alias1177/WyckoffTape/internal/config"
	"github.com/Alias1177/WyckoffTape/internal/notify"
	"github.com/Alias1177/WyckoffTape/internal/report"
	"github.com/Alias1177/WyckoffTape/internal/service"
	"github.com/Alias1177/WyckoffTape/internal/window"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Flags override the environment
	flag.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "trading pair, e.g. BTCUSDT")
	flag.StringVar(&cfg.Interval, "interval", cfg.Interval, "kline interval, e.g. 1h, 4h, 1d")
	flag.IntVar(&cfg.CandleCount, "limit", cfg.CandleCount, "number of candles to fetch (max 1000)")
	flag.StringVar(&cfg.WindowMode, "mode", cfg.WindowMode, "analysis window: tail or month")
	flag.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "rows in tail mode")
	flag.StringVar(&cfg.Language, "lang", cfg.Language, "report language: en or es")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	publish := flag.Bool("telegram", false, "publish the report to the configured Telegram chat")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// 3. Configure logging
	setupLogging(cfg.LogLevel)
	printConfig(cfg)

	mode, err := window.ParseMode(cfg.WindowMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid window mode")
	}
	lang, err := report.ParseLang(cfg.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid language")
	}

	// 4. Setup API client and analyzer
	client := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.BinanceBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	analyzer := service.NewAnalyzer(client, cfg.Settings)

	// 5. Run analysis
	rep, err := analyzer.Run(ctx, service.Request{
		Symbol:     cfg.Symbol,
		Interval:   cfg.Interval,
		Limit:      cfg.CandleCount,
		Mode:       mode,
		WindowSize: cfg.WindowSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	// 6. Print report
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
	} else if err := report.Text(os.Stdout, rep, lang); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	// 7. Telegram (if requested)
	if *publish {
		publishReport(ctx, cfg, rep, lang)
	}
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("CandleCount", cfg.CandleCount).
		Str("WindowMode", cfg.WindowMode).
		Int("WindowSize", cfg.WindowSize).
		Str("Language", cfg.Language).
		Int("RSIPeriod", cfg.Settings.Periods.RSI).
		Int("EMAShort", cfg.Settings.Periods.EMAShort).
		Int("EMALong", cfg.Settings.Periods.EMALong).
		Str("ThresholdsFile", cfg.ThresholdsFile).
		Msg("Configuration loaded")
}

func publishReport(ctx context.Context, cfg *config.Config, rep *service.Report, lang report.Lang) {
	tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Error().Err(err).Msg("Telegram unavailable")
		return
	}

	if err := tg.Publish(ctx, report.Telegram(rep, lang)); err != nil {
		if errors.Is(err, notify.ErrDisabled) {
			log.Warn().Msg("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, skipping publish")
			return
		}
		log.Error().Err(err).Msg("Failed to publish report")
	}
}
