package verify

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/romangod6/sitemapd/internal/logger"
)

type Options struct {
	UserAgent   string
	Concurrency int
	Timeout     time.Duration
	Retries     int
	Logger      *zerolog.Logger
}

// SitemapResult describes one fetched sitemap document.
type SitemapResult struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	URLs   int    `json:"urls"`
	Error  string `json:"error,omitempty"`
}

// PageResult is the outcome of probing one listed page.
type PageResult struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (p PageResult) OK() bool {
	return p.Error == "" && p.Status >= 200 && p.Status < 400
}

type Report struct {
	Index    string          `json:"index"`
	Sitemaps []SitemapResult `json:"sitemaps"`
	Pages    []PageResult    `json:"pages"`
	Broken   int             `json:"broken"`
}

// Checker walks a sitemap index, every url-set it lists and every page
// those list.
type Checker struct {
	opts   Options
	client *resty.Client
	log    zerolog.Logger
}

func NewChecker(opts Options) *Checker {
	if opts.UserAgent == "" {
		opts.UserAgent = "sitemapd-checker/1.0"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	log := logger.With("verify")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", opts.UserAgent)

	return &Checker{opts: opts, client: client, log: log}
}

// Run crawls indexURL and probes every page found. Only a failure to
// fetch the index itself is returned as an error.
func (c *Checker) Run(ctx context.Context, indexURL string) (*Report, error) {
	pages, sitemaps, err := c.collect(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	report := &Report{Index: indexURL, Sitemaps: sitemaps}
	report.Pages, err = c.probe(ctx, pages)
	if err != nil {
		return nil, err
	}

	for _, p := range report.Pages {
		if !p.OK() {
			report.Broken++
		}
	}
	for _, s := range report.Sitemaps {
		if s.Error != "" {
			report.Broken++
		}
	}

	c.log.Info().
		Str("index", indexURL).
		Int("sitemaps", len(report.Sitemaps)).
		Int("pages", len(report.Pages)).
		Int("broken", report.Broken).
		Msg("Sitemap check finished")

	return report, nil
}

func (c *Checker) collect(ctx context.Context, indexURL string) ([]string, []SitemapResult, error) {
	collector := colly.NewCollector(
		colly.UserAgent(c.opts.UserAgent),
	)
	collector.SetRequestTimeout(c.opts.Timeout)

	var (
		mu       sync.Mutex
		pages    []string
		seen     = make(map[string]bool)
		results  = make(map[string]*SitemapResult)
		order    []string
		indexErr error
	)

	record := func(u string) *SitemapResult {
		r, ok := results[u]
		if !ok {
			r = &SitemapResult{URL: u}
			results[u] = r
			order = append(order, u)
		}
		return r
	}

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		c.log.Debug().Str("url", r.URL.String()).Msg("Fetching sitemap")
	})

	collector.OnResponse(func(r *colly.Response) {
		mu.Lock()
		defer mu.Unlock()
		if r.Request.URL.String() == indexURL {
			return
		}
		record(r.Request.URL.String()).Status = r.StatusCode
	})

	collector.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		u := r.Request.URL.String()
		if u == indexURL {
			indexErr = fmt.Errorf("failed to fetch sitemap index %s: %w", indexURL, err)
			return
		}
		res := record(u)
		res.Status = r.StatusCode
		res.Error = err.Error()
	})

	collector.OnXML("//sitemapindex/sitemap/loc", func(e *colly.XMLElement) {
		loc := strings.TrimSpace(e.Text)
		mu.Lock()
		_, listed := results[loc]
		mu.Unlock()
		if listed {
			return
		}
		if err := e.Request.Visit(loc); err != nil {
			mu.Lock()
			res := record(loc)
			res.Error = err.Error()
			mu.Unlock()
		}
	})

	collector.OnXML("//urlset/url/loc", func(e *colly.XMLElement) {
		mu.Lock()
		defer mu.Unlock()
		loc := strings.TrimSpace(e.Text)
		record(e.Request.URL.String()).URLs++
		if !seen[loc] {
			seen[loc] = true
			pages = append(pages, loc)
		}
	})

	if err := collector.Visit(indexURL); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sitemap index %s: %w", indexURL, err)
	}
	collector.Wait()

	if indexErr != nil {
		return nil, nil, indexErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sitemaps := make([]SitemapResult, 0, len(order))
	for _, u := range order {
		sitemaps = append(sitemaps, *results[u])
	}
	return pages, sitemaps, nil
}

// probe issues HEAD requests with at most Concurrency in flight.
func (c *Checker) probe(ctx context.Context, pages []string) ([]PageResult, error) {
	results := make([]PageResult, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.head(gctx, page)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].URL < results[b].URL })
	return results, nil
}

func (c *Checker) head(ctx context.Context, page string) PageResult {
	resp, err := c.client.R().SetContext(ctx).Head(page)
	if err != nil {
		c.log.Warn().Err(err).Str("url", page).Msg("Page probe failed")
		return PageResult{URL: page, Error: err.Error()}
	}

	result := PageResult{URL: page, Status: resp.StatusCode()}
	if resp.StatusCode() >= http.StatusBadRequest {
		c.log.Warn().Int("status", resp.StatusCode()).Str("url", page).Msg("Page returned error status")
	}
	return result
}
