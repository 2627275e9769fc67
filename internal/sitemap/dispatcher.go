package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/models"
)

const (
	ContentTypeXML = "application/xml; charset=utf-8"
	ContentTypeXSL = "text/xsl"
)

// SettingsReader is the read side of the settings store.
type SettingsReader interface {
	TypeSettings(ctx context.Context, key string) (models.TypeSettings, error)
}

// Flusher is notified when content changes so friendly sitemap paths
// keep resolving.
type Flusher interface {
	Flush()
}

// Response is a rendered sitemap resource.
type Response struct {
	ContentType string
	Body        string
	Status      int
}

type Options struct {
	BaseURL string
	Now     func() time.Time
	Router  Flusher
}

// Dispatcher maps a requested value (index, xsl or a type key) to a
// rendered document.
type Dispatcher struct {
	registry *Registry
	settings SettingsReader
	source   ContentSource
	builder  *Builder
	index    *IndexBuilder
	router   Flusher
	log      zerolog.Logger
}

func NewDispatcher(registry *Registry, settings SettingsReader, source ContentSource, opts Options) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		settings: settings,
		source:   source,
		builder:  NewBuilder(registry, opts.BaseURL),
		index:    NewIndexBuilder(registry, opts.BaseURL, opts.Now),
		router:   opts.Router,
		log:      logger.With("dispatcher"),
	}
}

// Dispatch renders the requested resource. Unregistered keys return
// ErrNotFound and excluded ones ErrNotIncluded; the caller decides how
// to present them.
func (d *Dispatcher) Dispatch(ctx context.Context, requested string) (Response, error) {
	switch requested {
	case RequestXSL:
		return Response{ContentType: ContentTypeXSL, Body: Stylesheet(), Status: http.StatusOK}, nil
	case RequestIndex:
		body, err := d.index.Build(ctx, d.settings.TypeSettings)
		if err != nil {
			return Response{}, fmt.Errorf("failed to build sitemap index: %w", err)
		}
		return Response{ContentType: ContentTypeXML, Body: body, Status: http.StatusOK}, nil
	}

	desc, err := d.registry.Get(requested)
	if err != nil {
		return Response{}, err
	}

	settings, err := d.settings.TypeSettings(ctx, desc.Key)
	if err != nil {
		return Response{}, fmt.Errorf("failed to load settings for %s: %w", desc.Key, err)
	}
	if !settings.Included {
		return Response{}, fmt.Errorf("%q: %w", desc.Key, ErrNotIncluded)
	}

	items, err := desc.Generator(ctx, d.source)
	if err != nil {
		return Response{}, fmt.Errorf("failed to fetch %s content: %w", desc.Key, err)
	}

	body, err := d.builder.Build(desc.Key, settings, items)
	if err != nil {
		return Response{}, err
	}

	d.log.Debug().Str("type", desc.Key).Int("items", len(items)).Msg("Rendered sitemap")
	return Response{ContentType: ContentTypeXML, Body: body, Status: http.StatusOK}, nil
}

// OnContentChanged flushes the router's rewrite table.
func (d *Dispatcher) OnContentChanged() {
	if d.router == nil {
		return
	}
	d.router.Flush()
	d.log.Debug().Msg("Flushed sitemap rewrite rules")
}

// Registry exposes the content types served by the dispatcher.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}
