package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// RenderResult summarises how a browser displays a sitemap through its
// stylesheet.
type RenderResult struct {
	Heading string   `json:"heading"`
	Rows    int      `json:"rows"`
	Links   []string `json:"links"`
}

// RenderCheck loads sitemapURL in headless Chrome and reads the table
// produced by the XSL stylesheet.
func RenderCheck(ctx context.Context, sitemapURL string, timeout time.Duration) (*RenderResult, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(ctx,
		chromedp.Navigate(sitemapURL),
		chromedp.WaitVisible(`#sitemap__table`, chromedp.ByQuery),
		chromedp.OuterHTML(`#sitemap`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", sitemapURL, err)
	}

	return parseRendered(htmlContent)
}

func parseRendered(htmlContent string) (*RenderResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered sitemap: %w", err)
	}

	result := &RenderResult{
		Heading: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	doc.Find("#sitemap__table tr.entry").Each(func(_ int, row *goquery.Selection) {
		result.Rows++
		if href, ok := row.Find("td.loc a").Attr("href"); ok {
			result.Links = append(result.Links, href)
		}
	})

	return result, nil
}
