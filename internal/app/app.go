package app

import (
	"fmt"

	"github.com/romangod6/sitemapd/config"
	"github.com/romangod6/sitemapd/internal/content"
	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/router"
	"github.com/romangod6/sitemapd/internal/settings"
	"github.com/romangod6/sitemapd/internal/sitemap"
	"github.com/romangod6/sitemapd/internal/storage"
)

// App holds the collaborators shared by the server and the CLI.
type App struct {
	Config     *config.Config
	Store      storage.Store
	Settings   settings.Store
	Router     *router.Router
	Dispatcher *sitemap.Dispatcher

	closers []func() error
}

// New opens storage (initialising the schema) and the settings backend
// and wires the dispatcher.
func New(cfg *config.Config) (*App, error) {
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a := &App{Config: cfg, Store: store, closers: []func() error{store.Close}}

	if err := store.Initialize(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	switch cfg.Settings.Backend {
	case "redis":
		rs, err := settings.NewRedisStore(cfg.Settings.RedisURL, cfg.Settings.RedisPrefix)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Settings = rs
		a.closers = append(a.closers, rs.Close)
	default:
		a.Settings = settings.NewOptionStore(store)
	}

	a.Router, err = router.New()
	if err != nil {
		a.Close()
		return nil, err
	}

	source := content.NewSource(store, content.Config{
		BaseURL:       cfg.Server.BaseURL,
		ExcludedPages: cfg.ExcludedPages(),
	})

	a.Dispatcher = sitemap.NewDispatcher(sitemap.DefaultRegistry(), a.Settings, source, sitemap.Options{
		BaseURL: cfg.Server.BaseURL,
		Router:  a.Router,
	})

	logger.Get().Info().
		Str("driver", cfg.Database.Driver).
		Str("settings", cfg.Settings.Backend).
		Str("base_url", cfg.Server.BaseURL).
		Msg("Sitemap engine ready")

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// InitLogger configures the process logger from cfg.
func InitLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Output: cfg.Log.File,
		Pretty: cfg.Log.Pretty,
	})
}
