package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/models"
	"github.com/romangod6/sitemapd/internal/router"
	"github.com/romangod6/sitemapd/internal/settings"
	"github.com/romangod6/sitemapd/internal/sitemap"
	"github.com/romangod6/sitemapd/internal/storage"
)

// Dispatcher renders sitemap resources and reacts to content changes.
type Dispatcher interface {
	Dispatch(ctx context.Context, requested string) (sitemap.Response, error)
	OnContentChanged()
	Registry() *sitemap.Registry
}

type Handler struct {
	store          storage.Store
	settings       settings.Store
	dispatcher     Dispatcher
	rewrites       *router.Router
	strictNotFound bool
	log            zerolog.Logger
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// SettingsView is the admin representation of one content type.
type SettingsView struct {
	Key                string `json:"key"`
	Label              string `json:"label"`
	Included           bool   `json:"included"`
	Frequency          string `json:"frequency"`
	Priority           string `json:"priority"`
	EffectiveFrequency string `json:"effective_frequency"`
	EffectivePriority  string `json:"effective_priority"`
}

func NewHandler(store storage.Store, settingsStore settings.Store, dispatcher Dispatcher, rewrites *router.Router, strictNotFound bool) *Handler {
	return &Handler{
		store:          store,
		settings:       settingsStore,
		dispatcher:     dispatcher,
		rewrites:       rewrites,
		strictNotFound: strictNotFound,
		log:            logger.With("api"),
	}
}

// ServeSitemap answers /sitemap.xml, /sitemap-<type>.xml and /sitemap.xsl.
func (h *Handler) ServeSitemap(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	requested, ok := h.rewrites.Resolve(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	resp, err := h.dispatcher.Dispatch(c.Request.Context(), requested)
	switch {
	case errors.Is(err, sitemap.ErrNotFound), errors.Is(err, sitemap.ErrNotIncluded):
		status := http.StatusOK
		if h.strictNotFound {
			status = http.StatusNotFound
		}
		// write explicitly so gin does not add its default 404 body
		c.Data(status, sitemap.ContentTypeXML, nil)
		return
	case err != nil:
		h.log.Error().Err(err).Str("requested", requested).Msg("Failed to render sitemap")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render sitemap"})
		return
	}

	c.Data(resp.Status, resp.ContentType, []byte(resp.Body))
}

func (h *Handler) ListSettings(c *gin.Context) {
	var views []SettingsView
	for _, desc := range h.dispatcher.Registry().List() {
		view, err := h.settingsView(c.Request.Context(), desc)
		if err != nil {
			h.log.Error().Err(err).Str("type", desc.Key).Msg("Failed to load settings")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load settings"})
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	desc, err := h.dispatcher.Registry().Get(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown sitemap type"})
		return
	}

	var update settings.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, bindError(err))
		return
	}

	if err := h.settings.SaveTypeSettings(c.Request.Context(), desc.Key, update.TypeSettings()); err != nil {
		h.log.Error().Err(err).Str("type", desc.Key).Msg("Failed to save settings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save settings"})
		return
	}

	view, err := h.settingsView(c.Request.Context(), desc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpsertDocument(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, bindError(err))
		return
	}

	now := time.Now().UTC()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.Status == "" {
		doc.Status = models.StatusPublish
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := h.store.UpsertDocument(c.Request.Context(), &doc); err != nil {
		h.log.Error().Err(err).Str("slug", doc.Slug).Msg("Failed to save document")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save document"})
		return
	}

	h.dispatcher.OnContentChanged()
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid document ID"})
		return
	}

	doc, err := h.store.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch document"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
		return
	}

	if err := h.store.DeleteDocument(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("id", id.String()).Msg("Failed to delete document")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete document"})
		return
	}

	h.dispatcher.OnContentChanged()
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpsertTerm(c *gin.Context) {
	var term models.Term
	if err := c.ShouldBindJSON(&term); err != nil {
		c.JSON(http.StatusBadRequest, bindError(err))
		return
	}

	now := time.Now().UTC()
	if term.ID == uuid.Nil {
		term.ID = uuid.New()
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = now
	}
	term.UpdatedAt = now

	if err := h.store.UpsertTerm(c.Request.Context(), &term); err != nil {
		h.log.Error().Err(err).Str("slug", term.Slug).Msg("Failed to save term")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save term"})
		return
	}

	h.dispatcher.OnContentChanged()
	c.JSON(http.StatusOK, term)
}

func (h *Handler) UpsertAttachment(c *gin.Context) {
	var att models.Attachment
	if err := c.ShouldBindJSON(&att); err != nil {
		c.JSON(http.StatusBadRequest, bindError(err))
		return
	}

	if att.ID == uuid.Nil {
		att.ID = uuid.New()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}

	if err := h.store.UpsertAttachment(c.Request.Context(), &att); err != nil {
		h.log.Error().Err(err).Str("url", att.URL).Msg("Failed to save attachment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save attachment"})
		return
	}

	c.JSON(http.StatusOK, att)
}

func (h *Handler) settingsView(ctx context.Context, desc sitemap.Descriptor) (SettingsView, error) {
	ts, err := h.settings.TypeSettings(ctx, desc.Key)
	if err != nil {
		return SettingsView{}, err
	}
	freq, prio := sitemap.Effective(desc.Key, ts)
	return SettingsView{
		Key:                desc.Key,
		Label:              desc.Label,
		Included:           ts.Included,
		Frequency:          ts.Frequency,
		Priority:           ts.Priority,
		EffectiveFrequency: string(freq),
		EffectivePriority:  prio,
	}, nil
}
