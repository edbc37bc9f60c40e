package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pladee42/opes-ai/internal/bot"
	"github.com/pladee42/opes-ai/internal/clients/gemini"
	"github.com/pladee42/opes-ai/internal/clients/line"
	"github.com/pladee42/opes-ai/internal/clients/prices"
	"github.com/pladee42/opes-ai/internal/config"
	"github.com/pladee42/opes-ai/internal/database"
	"github.com/pladee42/opes-ai/internal/modules/portfolio"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
	"github.com/pladee42/opes-ai/internal/modules/transactions"
	"github.com/pladee42/opes-ai/internal/modules/users"
	"github.com/pladee42/opes-ai/internal/scheduler"
	"github.com/pladee42/opes-ai/internal/server"
	"github.com/pladee42/opes-ai/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Opes AI")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories
	userRepo := users.NewRepository(db.Conn(), log)
	txRepo := transactions.NewRepository(db.Conn(), log)

	// External clients
	fxService := prices.NewFXService(cfg.ExchangeRateURL, log)
	priceClient := prices.NewClient(prices.Config{
		YahooQuoteURL:    cfg.YahooQuoteURL,
		BinanceTickerURL: cfg.BinanceTickerURL,
	}, fxService, log)
	lineClient := line.NewClient(cfg.LineChannelAccessToken, log)
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiOCRModel, log)

	// Services
	userService := users.NewService(userRepo, log)
	portfolioService := portfolio.NewService(txRepo, priceClient, log)
	rebalanceService := rebalance.NewService(userService, portfolioService, fxService, log)

	// Bot dispatcher
	dispatcher := bot.NewDispatcher(
		lineClient,
		geminiClient,
		userService,
		rebalanceService,
		portfolioService,
		txRepo,
		fxService,
		log,
	)

	// Initialize scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob("@hourly", scheduler.NewFXRefreshJob(fxService, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register FX refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:          cfg.Port,
		Log:           log,
		DB:            db,
		ChannelSecret: cfg.LineChannelSecret,
		Dispatcher:    dispatcher,
		Users:         userService,
		DevMode:       cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
