// Package fetcher implements the provider adapters that gather news
// signal about a holding. Every adapter conforms to the same Fetcher
// capability and never fails outward: network and parse errors degrade
// to an empty result so one broken provider cannot poison a run.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"

	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// Fetcher is the single capability all provider adapters implement:
// given a holding's identity, return zero or more news items. Fetch
// never returns an error; failures are absorbed internally.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, symbol, name string) []models.NewsItem
}

// Options carries the plumbing shared by every adapter. Zero values
// are usable: defaults are filled in by normalize.
type Options struct {
	Client   *http.Client
	Log      *logger.Logger
	MaxItems int           // headlines kept per adapter
	CacheTTL time.Duration // response cache lifetime
}

func (o Options) normalize() Options {
	if o.Client == nil {
		o.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.MaxItems <= 0 {
		o.MaxItems = 5
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 10 * time.Minute
	}
	return o
}

func (o Options) newCache() *gocache.Cache {
	return gocache.New(o.CacheTTL, 2*o.CacheTTL)
}

// userAgents is the fixed pool scrape adapters draw from, uniformly at
// random, to avoid a uniform blocking signature.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

func randomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// get performs a GET with a randomized user agent and returns the
// response body. The caller closes the returned ReadCloser.
func (o Options) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// getDocument fetches a URL and parses the body as HTML.
func (o Options) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := o.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML %s: %w", url, err)
	}
	return doc, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// cachedItems retrieves a previously fetched slice from an adapter cache.
func cachedItems(c *gocache.Cache, key string) ([]models.NewsItem, bool) {
	if v, ok := c.Get(key); ok {
		if items, ok := v.([]models.NewsItem); ok {
			return items, true
		}
	}
	return nil, false
}
