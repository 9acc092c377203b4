package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// DefaultNewsAPIBaseURL is the NewsAPI.org v2 endpoint root.
const DefaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI is the structured-API adapter: a keyed JSON search endpoint.
// Requests are rate-limited to respect the provider quota; the limiter
// is owned by this adapter and, because one instance serves a whole
// run, gates every NewsAPI call globally.
type NewsAPI struct {
	apiKey  string
	baseURL string
	limiter *rate.Limiter
	cache   *gocache.Cache
	opts    Options
}

// NewNewsAPI creates the adapter. An empty apiKey is allowed and turns
// every fetch into a no-op returning nothing. ratePerSec caps request
// throughput; values below 1 fall back to 1 request per second.
func NewNewsAPI(apiKey, baseURL string, ratePerSec int, opts Options) *NewsAPI {
	if baseURL == "" {
		baseURL = DefaultNewsAPIBaseURL
	}
	if ratePerSec < 1 {
		ratePerSec = 1
	}
	opts = opts.normalize()
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		cache:   opts.newCache(),
		opts:    opts,
	}
}

// Name returns the adapter label.
func (n *NewsAPI) Name() string { return "NewsAPI" }

// --- NewsAPI v2 response types ---

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Fetch searches for articles about the holding and keeps only those
// whose title or description actually mentions the symbol or name.
// Provider order (most recent first) is preserved; at most MaxItems
// are returned.
func (n *NewsAPI) Fetch(ctx context.Context, symbol, name string) []models.NewsItem {
	if n.apiKey == "" {
		return nil
	}

	cacheKey := "newsapi:" + symbol
	if items, ok := cachedItems(n.cache, cacheKey); ok {
		return items
	}

	query := fmt.Sprintf("%s OR %s", name, symbol)
	resp, err := n.search(ctx, query, n.opts.MaxItems)
	if err != nil {
		n.opts.Log.Debug("newsapi fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}

	symLower := strings.ToLower(symbol)
	nameLower := strings.ToLower(name)

	var items []models.NewsItem
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		title := strings.ToLower(a.Title)
		desc := strings.ToLower(a.Description)
		if !strings.Contains(title, symLower) && !strings.Contains(title, nameLower) &&
			!strings.Contains(desc, symLower) && !strings.Contains(desc, nameLower) {
			continue
		}
		items = append(items, n.toItem(a, ""))
		if len(items) >= n.opts.MaxItems {
			break
		}
	}

	n.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}

// FetchSectorNews returns a few recent articles about a whole sector,
// used as a secondary signal when a holding has no company news.
func (n *NewsAPI) FetchSectorNews(ctx context.Context, sector string) []models.NewsItem {
	if n.apiKey == "" || sector == "" {
		return nil
	}

	cacheKey := "newsapi:sector:" + sector
	if items, ok := cachedItems(n.cache, cacheKey); ok {
		return items
	}

	query := fmt.Sprintf("%s sector industry market", sector)
	resp, err := n.search(ctx, query, 3)
	if err != nil {
		n.opts.Log.Debug("newsapi sector fetch failed", logger.String("sector", sector), logger.Error(err))
		return nil
	}

	var items []models.NewsItem
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, n.toItem(a, "Sector news: "))
		if len(items) >= 3 {
			break
		}
	}

	n.cache.Set(cacheKey, items, gocache.DefaultExpiration)
	return items
}

// search calls the /everything endpoint after waiting on the shared
// token bucket.
func (n *NewsAPI) search(ctx context.Context, query string, pageSize int) (*newsAPIResponse, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", n.apiKey)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))

	body, err := n.opts.get(ctx, n.baseURL+"/everything?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp newsAPIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", resp.Status)
	}
	return &resp, nil
}

func (n *NewsAPI) toItem(a newsAPIArticle, titlePrefix string) models.NewsItem {
	item := models.NewsItem{
		Title:       titlePrefix + a.Title,
		Description: a.Description,
		Source:      "NewsAPI: " + orUnknown(a.Source.Name),
		URL:         a.URL,
	}
	if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		item.PublishedAt = ts
	}
	return item
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
