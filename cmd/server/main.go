package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WyckoffTape/internal/api/binance"
	"github.com/Alias1177/WyckoffTape/internal/config"
	"github.com/Alias1177/WyckoffTape/internal/metrics"
	"github.com/Alias1177/WyckoffTape/internal/server"
	"github.com/Alias1177/WyckoffTape/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)
	log.Info().Str("addr", cfg.HTTPAddr).Str("symbol", cfg.Symbol).Msg("Starting Wyckoff tape server")

	client := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.BinanceBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	recorder := metrics.New()
	analyzer := service.NewAnalyzer(client, cfg.Settings, service.WithRecorder(recorder))

	srv := server.New(analyzer, recorder, server.Options{
		Addr: cfg.HTTPAddr,
		Defaults: server.AnalysisQuery{
			Symbol:   cfg.Symbol,
			Interval: cfg.Interval,
			Limit:    cfg.CandleCount,
			Mode:     cfg.WindowMode,
			Window:   cfg.WindowSize,
			Lang:     cfg.Language,
		},
	})

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
	log.Info().Msg("Server stopped")
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
