package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/actions"
	"github.com/brushtyler/pricesdropbot/internal/config"
	"github.com/brushtyler/pricesdropbot/internal/handlers"
	"github.com/brushtyler/pricesdropbot/internal/history"
	"github.com/brushtyler/pricesdropbot/internal/monitor"
	"github.com/brushtyler/pricesdropbot/internal/notify"
	"github.com/brushtyler/pricesdropbot/internal/scrape"
	"github.com/brushtyler/pricesdropbot/pkg/browser"
	"github.com/brushtyler/pricesdropbot/pkg/database"
	"github.com/brushtyler/pricesdropbot/pkg/ratelimit"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("environment", cfg.Environment).Str("host", cfg.AmazonHost).Msg("Starting prices drop bot")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Price history storage: Postgres when configured, in-memory otherwise
	var store history.Store
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		log.Info().Msg("Running database migrations...")
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		store = history.NewPostgresStore(db)
	} else {
		log.Warn().Msg("No DATABASE_URL configured, price history is in-memory only")
		store = history.NewMemoryStore()
	}

	// Notification channel
	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	} else {
		log.Warn().Msg("Telegram not configured, notifications are disabled")
	}

	// Browser
	b, err := browser.Launch(ctx, browser.Options{
		Headless:  cfg.Headless,
		BinPath:   cfg.BrowserBin,
		UserAgent: cfg.UserAgent,
		PageWait:  cfg.PageWait,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to launch browser")
	}
	defer b.Close()

	// Session cookies, if an exported session exists
	if cookies, err := browser.LoadCookies(cfg.CookiesFile, cfg.AmazonHost); err != nil {
		log.Warn().Err(err).Str("file", cfg.CookiesFile).Msg("No session cookies loaded")
	} else if err := b.SetCookies(cookies); err != nil {
		log.Warn().Err(err).Msg("Failed to attach session cookies")
	} else {
		log.Info().Int("count", len(cookies)).Msg("Session cookies attached")
	}

	controller := monitor.NewController(ctx, monitor.Deps{
		Pages:      b.NewPage,
		Extractor:  scrape.NewExtractor(scrape.NewDirDiagnostics(cfg.DiagnosticDir)),
		Executor:   actions.NewExecutor(notifier),
		Tracker:    history.NewTracker(store),
		Limiter:    ratelimit.New(cfg.MinNavigationGap),
		ProductURL: cfg.ProductURL,
		Jitter:     cfg.PollJitter,
		Backoff:    10 * time.Second,
	})
	defer controller.StopAll()

	// Initial product set
	source := config.NewProductSource(cfg.ProductsFile, cfg.DefaultPollInterval)
	desired, err := source.LoadAll()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load products file")
	}
	controller.Reconcile(desired)

	// Admin API
	router := handlers.NewRouter(handlers.NewAdminHandler(controller, source, store))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("port", cfg.Port).Msg("Admin API listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("Stopped")
}
