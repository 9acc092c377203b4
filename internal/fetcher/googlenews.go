package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	gocache "github.com/patrickmn/go-cache"

	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// DefaultGoogleNewsBaseURL is the Google News RSS root.
const DefaultGoogleNewsBaseURL = "https://news.google.com"

// GoogleNews fetches headlines through the Google News RSS search feed.
type GoogleNews struct {
	baseURL string
	parser  *gofeed.Parser
	cache   *gocache.Cache
	opts    Options
}

// NewGoogleNews creates the adapter. baseURL is overridable for tests.
func NewGoogleNews(baseURL string, opts Options) *GoogleNews {
	if baseURL == "" {
		baseURL = DefaultGoogleNewsBaseURL
	}
	opts = opts.normalize()
	parser := gofeed.NewParser()
	parser.Client = opts.Client
	return &GoogleNews{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		parser:  parser,
		cache:   opts.newCache(),
		opts:    opts,
	}
}

// Name returns the adapter label.
func (g *GoogleNews) Name() string { return "Google News" }

// Fetch queries the RSS search feed for the holding's name and maps
// feed entries to news items, newest first as the feed delivers them.
func (g *GoogleNews) Fetch(ctx context.Context, symbol, name string) []models.NewsItem {
	cacheKey := "gn:" + symbol
	if items, ok := cachedItems(g.cache, cacheKey); ok {
		return items
	}

	query := name
	if query == "" {
		query = symbol
	}
	feedURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", g.baseURL, url.QueryEscape(query))

	feed, err := g.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		g.opts.Log.Debug("google news fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}

	var items []models.NewsItem
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		item := models.NewsItem{
			Title:       title,
			Description: cleanHTML(entry.Description),
			Source:      g.Name(),
			URL:         entry.Link,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
		if len(items) >= g.opts.MaxItems {
			break
		}
	}

	g.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}
