package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/romangod6/sitemapd/config"
	"github.com/romangod6/sitemapd/internal/api"
	"github.com/romangod6/sitemapd/internal/app"
	"github.com/romangod6/sitemapd/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := app.InitLogger(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	l := logger.Get()

	a, err := app.New(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to initialize sitemap engine")
	}
	defer a.Close()

	server, err := api.NewServer(a.Store, a.Settings, a.Dispatcher, a.Router, api.Options{
		Port:           cfg.Server.Port,
		AdminAPIKey:    cfg.Server.AdminAPIKey,
		StrictNotFound: cfg.Sitemap.StrictNotFound,
		ReadTimeout:    cfg.GetReadTimeout(),
		WriteTimeout:   cfg.GetWriteTimeout(),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create API server")
	}

	// Start the API server
	go func() {
		l.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for shutdown
	waitForShutdown(server)
}

func waitForShutdown(server *api.Server) {
	l := logger.Get()

	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	l.Info().Msg("Shutting down...")

	// Graceful server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server shutdown failed")
	}

	l.Info().Msg("Server stopped")
}
