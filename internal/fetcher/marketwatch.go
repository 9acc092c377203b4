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

// DefaultMarketWatchBaseURL is the MarketWatch web root.
const DefaultMarketWatchBaseURL = "https://www.marketwatch.com"

// MarketWatch is a scrape-style adapter over the MarketWatch stock page.
type MarketWatch struct {
	baseURL string
	cache   *gocache.Cache
	opts    Options
}

// NewMarketWatch creates the adapter. baseURL is overridable for tests.
func NewMarketWatch(baseURL string, opts Options) *MarketWatch {
	if baseURL == "" {
		baseURL = DefaultMarketWatchBaseURL
	}
	opts = opts.normalize()
	return &MarketWatch{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   opts.newCache(),
		opts:    opts,
	}
}

// Name returns the adapter label.
func (m *MarketWatch) Name() string { return "MarketWatch" }

// Fetch scrapes article headlines from the symbol's stock page.
func (m *MarketWatch) Fetch(ctx context.Context, symbol, _ string) []models.NewsItem {
	cacheKey := "mw:" + symbol
	if items, ok := cachedItems(m.cache, cacheKey); ok {
		return items
	}

	url := fmt.Sprintf("%s/investing/stock/%s", m.baseURL, strings.ToLower(symbol))
	doc, err := m.opts.getDocument(ctx, url)
	if err != nil {
		m.opts.Log.Debug("marketwatch fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}

	var items []models.NewsItem
	doc.Find(".article__content").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".article__headline").Text())
		if title == "" {
			return true
		}
		item := models.NewsItem{
			Title:       title,
			Source:      m.Name(),
			PublishedAt: time.Now(),
		}
		if href, ok := sel.Find("a.link").Attr("href"); ok {
			item.URL = href
		}
		items = append(items, item)
		return len(items) < m.opts.MaxItems
	})

	m.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}
