// Package main is the entry point for the Keepsake collection companion server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/backend/internal/api"
	"github.com/keepsake-app/backend/internal/config"
	"github.com/keepsake-app/backend/internal/cycle"
	"github.com/keepsake-app/backend/internal/draw"
	"github.com/keepsake-app/backend/internal/notify"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	// Flags override the environment
	addr := flag.String("addr", cfg.Addr, "HTTP server address")
	dataDir := flag.String("data", cfg.DataDir, "Data directory for SQLite database and uploads")
	staticDir := flag.String("static", cfg.StaticDir, "Directory for static frontend files")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()
	cfg.Addr = *addr
	if *dataDir != cfg.DataDir {
		cfg.DataDir = *dataDir
		cfg.UploadDir = cfg.DataDir + "/uploads"
	}
	cfg.StaticDir = *staticDir

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Addr); err != nil {
			log.Fatal().Err(err).Msg("health check failed")
		}
		os.Exit(0)
	}

	logger := zerolog.New(os.Stdout).With().
		Str("service", "keepsake").
		Timestamp().
		Logger()
	log.Logger = logger

	logger.Info().Str("version", version).Msg("starting keepsake server")

	// Initialize database
	db, err := storage.NewDB(cfg.DBPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("opening database failed")
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		logger.Fatal().Err(err).Msg("running migrations failed")
	}
	logger.Info().Msg("database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	items := storage.NewItemRepository(db)
	history := storage.NewHistoryRepository(db)
	sections := storage.NewSectionRepository(db)
	headers := storage.NewHeaderRepository(db)
	notes := storage.NewNoteRepository(db)
	settings := storage.NewSettingsRepository(db)

	// Initialize relay and draw engine
	relay := notify.NewRelay(settings, cfg.UploadDir,
		time.Duration(cfg.NotifyTimeoutSec)*time.Second, logger)
	engine := draw.NewEngine(items, history, relay, cfg.MaxDispatchInFlight, logger)

	// Daily cycle reminder
	reminder := cycle.NewScheduler(settings, relay, cfg.ReminderHour, logger)
	reminder.Start()

	// Initialize HTTP router
	router := api.NewRouter(api.Deps{
		DB:        db,
		Items:     items,
		History:   history,
		Sections:  sections,
		Headers:   headers,
		Notes:     notes,
		Settings:  settings,
		Engine:    engine,
		Hub:       hub,
		StaticDir: cfg.StaticDir,
		UploadDir: cfg.UploadDir,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	reminder.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
