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

// DefaultYahooBaseURL is the Yahoo Finance web root.
const DefaultYahooBaseURL = "https://finance.yahoo.com"

// Yahoo is a scrape-style adapter over the Yahoo Finance quote news page.
type Yahoo struct {
	baseURL string
	cache   *gocache.Cache
	opts    Options
}

// NewYahoo creates the adapter. baseURL is overridable for tests; an
// empty value selects the real site.
func NewYahoo(baseURL string, opts Options) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	opts = opts.normalize()
	return &Yahoo{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   opts.newCache(),
		opts:    opts,
	}
}

// Name returns the adapter label.
func (y *Yahoo) Name() string { return "Yahoo Finance" }

// Fetch scrapes headline cards from the symbol's news page. Headlines
// without text are dropped; at most MaxItems are returned in page order.
func (y *Yahoo) Fetch(ctx context.Context, symbol, _ string) []models.NewsItem {
	cacheKey := "yahoo:" + symbol
	if items, ok := cachedItems(y.cache, cacheKey); ok {
		return items
	}

	doc, err := y.opts.getDocument(ctx, fmt.Sprintf("%s/quote/%s/news", y.baseURL, symbol))
	if err != nil {
		y.opts.Log.Debug("yahoo fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}

	var items []models.NewsItem
	doc.Find(`div[data-test="CARD"] h3`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return true
		}
		item := models.NewsItem{
			Title:       title,
			Source:      y.Name(),
			PublishedAt: time.Now(),
		}
		if href, ok := sel.Closest("a").Attr("href"); ok {
			item.URL = y.baseURL + href
		}
		items = append(items, item)
		return len(items) < y.opts.MaxItems
	})

	y.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}
