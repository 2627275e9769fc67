package content

import (
	"net/url"
	"strings"

	"github.com/romangod6/sitemapd/internal/models"
)

// Permalink path prefixes per document type and taxonomy.
var (
	documentBases = map[string]string{
		models.TypePost:    "",
		models.TypePage:    "",
		models.TypeProduct: "product/",
	}
	termBases = map[string]string{
		models.TaxonomyCategory:   "category/",
		models.TaxonomyProductCat: "product-category/",
	}
)

// DefaultExcludedPages are shop system pages that never belong in a sitemap.
var DefaultExcludedPages = []string{
	"checkout",
	"cart",
	"my-account",
	"wishlist",
	"order-received",
	"order-pay",
	"lost-password",
	"view-order",
	"add-payment-method",
}

// DocumentLink returns the canonical URL of a document, or "" when the
// slug is empty.
func DocumentLink(baseURL, docType, slug string) string {
	return link(baseURL, documentBases[docType], slug)
}

// TermLink returns the canonical URL of a term archive, or "" when the
// slug is empty.
func TermLink(baseURL, taxonomy, slug string) string {
	prefix, ok := termBases[taxonomy]
	if !ok {
		prefix = taxonomy + "/"
	}
	return link(baseURL, prefix, slug)
}

func HomeLink(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/"
}

func link(baseURL, prefix, slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + prefix + url.PathEscape(slug) + "/"
}
