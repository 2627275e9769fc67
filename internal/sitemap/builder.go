package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/romangod6/sitemapd/internal/logger"
	"github.com/romangod6/sitemapd/internal/models"
)

const lastModDateFormat = "2006-01-02"

// plain decimal digits only: no sign, exponent or hex form
var decimalPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]+$`)

// Builder renders the URL-set document of one content type.
type Builder struct {
	registry *Registry
	baseURL  string
	log      zerolog.Logger
}

func NewBuilder(registry *Registry, baseURL string) *Builder {
	return &Builder{
		registry: registry,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      logger.With("sitemap"),
	}
}

// Build renders items as a <urlset>. It returns an empty string when the
// type is not included and ErrNotFound when key is not registered.
func (b *Builder) Build(key string, settings models.TypeSettings, items []models.ContentItem) (string, error) {
	if !b.registry.Has(key) {
		return "", fmt.Errorf("build %q: %w", key, ErrNotFound)
	}
	if !settings.Included {
		return "", nil
	}

	frequency, priority := Effective(key, settings)

	set := models.URLSet{
		Xmlns:      models.SitemapNamespace,
		XmlnsImage: models.ImageNamespace,
	}

	for _, item := range items {
		if item.Robots.IsNoindex() {
			continue
		}
		if !isAbsoluteURL(item.URL) {
			b.log.Debug().Str("type", key).Str("url", item.URL).Msg("Skipping item without absolute URL")
			continue
		}

		entry := models.URL{
			Loc:        item.URL,
			ChangeFreq: string(frequency),
			Priority:   priority,
		}
		if !item.LastModified.IsZero() {
			entry.LastMod = item.LastModified.Format(lastModDateFormat)
		}

		for _, img := range item.Images {
			if !isAbsoluteURL(img.URL) {
				b.log.Debug().Str("type", key).Str("image", img.URL).Msg("Skipping image without absolute URL")
				continue
			}
			entry.Images = append(entry.Images, models.Image{
				Loc:     img.URL,
				Title:   img.Title,
				Caption: img.Caption,
			})
		}

		set.URLs = append(set.URLs, entry)
	}

	return renderDocument(stylesheetHref(b.baseURL), set)
}

// Effective returns the frequency and priority the builder would emit
// for key with settings s.
func Effective(key string, s models.TypeSettings) (models.ChangeFrequency, string) {
	defaults := DefaultsFor(key)
	return resolveFrequency(s.Frequency, defaults.Frequency), resolvePriority(s.Priority, defaults.Priority)
}

func resolveFrequency(value string, fallback models.ChangeFrequency) models.ChangeFrequency {
	if f, ok := models.ParseChangeFrequency(value); ok {
		return f
	}
	return fallback
}

// resolvePriority keeps a valid stored value verbatim.
func resolvePriority(value, fallback string) string {
	if !decimalPattern.MatchString(value) {
		return fallback
	}
	p, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(p) || p < 0 || p > 1 {
		return fallback
	}
	return value
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func stylesheetHref(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/sitemap.xsl"
}

// renderDocument writes the XML declaration, the stylesheet instruction
// and the indented document.
func renderDocument(xslHref string, v interface{}) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	var href bytes.Buffer
	if err := xml.EscapeText(&href, []byte(xslHref)); err != nil {
		return "", fmt.Errorf("failed to escape stylesheet href: %w", err)
	}

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	pi := xml.ProcInst{
		Target: "xml-stylesheet",
		Inst:   []byte(`type="text/xsl" href="` + href.String() + `"`),
	}
	if err := enc.EncodeToken(pi); err != nil {
		return "", fmt.Errorf("failed to write stylesheet instruction: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')

	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteByte('\n')

	return buf.String(), nil
}
