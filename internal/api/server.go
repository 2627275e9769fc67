package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/router"
	"github.com/romangod6/sitemapd/internal/settings"
	"github.com/romangod6/sitemapd/internal/storage"
)

type Options struct {
	Port           int
	AdminAPIKey    string
	StrictNotFound bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type Server struct {
	router *gin.Engine
	opts   Options
	server *http.Server
}

func NewServer(store storage.Store, settingsStore settings.Store, dispatcher Dispatcher, rewrites *router.Router, opts Options) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := settings.RegisterValidations(v); err != nil {
			return nil, err
		}
	}

	log := logger.With("api")

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log))

	// Setup CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "HEAD", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-API-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	handler := NewHandler(store, settingsStore, dispatcher, rewrites, opts.StrictNotFound)

	// Sitemap paths are matched against the rewrite table
	engine.NoRoute(handler.ServeSitemap)

	api := engine.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		admin := api.Group("/admin", AdminOnly(opts.AdminAPIKey, log))
		{
			admin.GET("/sitemap/settings", handler.ListSettings)
			admin.PUT("/sitemap/settings/:type", handler.UpdateSettings)

			admin.PUT("/documents", handler.UpsertDocument)
			admin.DELETE("/documents/:id", handler.DeleteDocument)
			admin.PUT("/terms", handler.UpsertTerm)
			admin.PUT("/attachments", handler.UpsertAttachment)
		}
	}

	return &Server{
		router: engine,
		opts:   opts,
	}, nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.opts.Port),
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
