package models

import "time"

// RobotsDirective is the per-item robots meta value, stored as the
// comma-separated pair the settings form writes.
type RobotsDirective string

const (
	RobotsIndexFollow     RobotsDirective = "index,follow"
	RobotsNoindexFollow   RobotsDirective = "noindex,follow"
	RobotsIndexNofollow   RobotsDirective = "index,nofollow"
	RobotsNoindexNofollow RobotsDirective = "noindex,nofollow"
)

// RobotsDirectives lists the accepted values in form order.
var RobotsDirectives = []RobotsDirective{
	RobotsIndexFollow,
	RobotsNoindexNofollow,
	RobotsIndexNofollow,
	RobotsNoindexFollow,
}

// IsNoindex reports whether the item must be left out of sitemaps.
func (r RobotsDirective) IsNoindex() bool {
	return r == RobotsNoindexFollow || r == RobotsNoindexNofollow
}

// Valid reports whether r is empty or one of the known directives.
func (r RobotsDirective) Valid() bool {
	if r == "" {
		return true
	}
	for _, d := range RobotsDirectives {
		if r == d {
			return true
		}
	}
	return false
}

// ImageRef is an image attached to a sitemap entry.
type ImageRef struct {
	URL     string
	Title   string
	Caption string
}

// ContentItem is one crawlable URL as handed to the sitemap builder.
// A zero LastModified leaves <lastmod> out.
type ContentItem struct {
	URL          string
	LastModified time.Time
	Robots       RobotsDirective
	Images       []ImageRef
}
