package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"

	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// DefaultGoogleFinanceBaseURL is the Google Finance web root.
const DefaultGoogleFinanceBaseURL = "https://www.google.com"

// GoogleFinance is a scrape-style adapter over Google Finance quote
// pages. It tries the NSE listing first and falls back to NASDAQ for
// non-Indian symbols.
type GoogleFinance struct {
	baseURL string
	cache   *gocache.Cache
	opts    Options
}

// NewGoogleFinance creates the adapter. baseURL is overridable for tests.
func NewGoogleFinance(baseURL string, opts Options) *GoogleFinance {
	if baseURL == "" {
		baseURL = DefaultGoogleFinanceBaseURL
	}
	opts = opts.normalize()
	return &GoogleFinance{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   opts.newCache(),
		opts:    opts,
	}
}

// Name returns the adapter label.
func (g *GoogleFinance) Name() string { return "Google Finance" }

// Fetch scrapes the news list on the quote page.
func (g *GoogleFinance) Fetch(ctx context.Context, symbol, _ string) []models.NewsItem {
	cacheKey := "gf:" + symbol
	if items, ok := cachedItems(g.cache, cacheKey); ok {
		return items
	}

	// Handle tickers like "M&M" that break URL paths.
	encoded := strings.ReplaceAll(symbol, "&", "%26")

	doc, err := g.opts.getDocument(ctx, fmt.Sprintf("%s/finance/quote/%s:NSE", g.baseURL, encoded))
	if err != nil {
		doc, err = g.opts.getDocument(ctx, fmt.Sprintf("%s/finance/quote/%s:NASDAQ", g.baseURL, encoded))
	}
	if err != nil {
		g.opts.Log.Debug("google finance fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}

	var items []models.NewsItem
	doc.Find("div.yY3Lee").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".Yfwt5").Text())
		if title == "" {
			return true
		}
		source := strings.TrimSpace(sel.Find(".sfyJob").Text())
		if source == "" {
			source = g.Name()
		} else {
			source = g.Name() + ": " + source
		}
		item := models.NewsItem{
			Title:       title,
			Source:      source,
			PublishedAt: time.Now(),
		}
		if href, ok := sel.Closest("a").Attr("href"); ok {
			item.URL = g.baseURL + href
		}
		items = append(items, item)
		return len(items) < g.opts.MaxItems
	})

	g.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}
