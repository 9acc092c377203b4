// Package aggregate implements the per-holding fan-out over every
// provider adapter, result merging, deduplication, and the synthetic
// fallback item when nothing was found.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karthikyer/fundsight/internal/fetcher"
	"github.com/karthikyer/fundsight/internal/impact"
	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// DedupKey decides which items count as duplicates. The baseline is
// exact title equality; it is pluggable so near-duplicate detection
// can be added without changing the engine contract.
type DedupKey func(models.NewsItem) string

// TitleKey is the default deduplication key: the exact title string.
func TitleKey(item models.NewsItem) string { return item.Title }

// Config carries the engine's collaborators and policy knobs.
type Config struct {
	// Timeout bounds each adapter call. One slow provider must not
	// stall the whole holding; a timed-out call counts as an empty
	// result. Zero selects the default of 8 seconds.
	Timeout time.Duration

	// Quotes, when set, back-fills a holding's current price before
	// the fallback item is synthesized.
	Quotes *fetcher.Quotes

	// Key overrides the deduplication key. Nil selects TitleKey.
	Key DedupKey

	Log *logger.Logger
}

// Engine fans a holding out to a fixed, ordered set of adapters.
type Engine struct {
	fetchers []fetcher.Fetcher
	timeout  time.Duration
	quotes   *fetcher.Quotes
	key      DedupKey
	log      *logger.Logger
}

// New creates an engine over the given adapters. The adapter list is
// treated as a fixed capability set; its order is observable in the
// output (concatenation and first-occurrence-wins dedup both follow
// submission order).
func New(fetchers []fetcher.Fetcher, cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Key == nil {
		cfg.Key = TitleKey
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	return &Engine{
		fetchers: fetchers,
		timeout:  cfg.Timeout,
		quotes:   cfg.Quotes,
		key:      cfg.Key,
		log:      cfg.Log,
	}
}

// Aggregate gathers news for one holding from every adapter
// concurrently, waits for all of them (join, not race), merges the
// results in submission order, tags per-item sentiment, deduplicates,
// and guarantees a non-empty result by synthesizing a fallback item
// when needed. The holding's CurrentPrice may be back-filled as a side
// effect of the fallback path.
func (e *Engine) Aggregate(ctx context.Context, holding *models.Holding) []models.NewsItem {
	results := make([][]models.NewsItem, len(e.fetchers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(e.fetchers))
	for i, f := range e.fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, e.timeout)
			defer cancel()
			// Fetch never errors; a timeout simply yields nil.
			results[i] = f.Fetch(fctx, holding.Symbol, holding.Name)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	var merged []models.NewsItem
	for i, items := range results {
		e.log.Debug("adapter returned",
			logger.String("adapter", e.fetchers[i].Name()),
			logger.String("symbol", holding.Symbol),
			logger.Int("items", len(items)))
		merged = append(merged, items...)
	}

	for i := range merged {
		merged[i].Sentiment = impact.ClassifyHeadline(merged[i].Title)
	}

	deduped := Dedup(merged, e.key)
	if len(deduped) > 0 {
		return deduped
	}

	return []models.NewsItem{e.fallbackItem(ctx, holding)}
}

// Dedup keeps the first occurrence of each key, preserving order.
// Later duplicates are discarded even when their source differs.
func Dedup(items []models.NewsItem, key DedupKey) []models.NewsItem {
	if key == nil {
		key = TitleKey
	}
	seen := make(map[string]bool, len(items))
	var out []models.NewsItem
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

// fallbackItem synthesizes the single System Analysis item for a
// holding with no news. When the table carried no price, the quote
// helper is consulted once to back-fill CurrentPrice.
func (e *Engine) fallbackItem(ctx context.Context, holding *models.Holding) models.NewsItem {
	if holding.CurrentPrice == 0 && e.quotes != nil && holding.Symbol != "" {
		if quote, err := e.quotes.Get(ctx, holding.Symbol); err == nil && quote.CurrentPrice > 0 {
			holding.CurrentPrice = quote.CurrentPrice
		} else if err != nil {
			e.log.Debug("quote back-fill failed", logger.String("symbol", holding.Symbol), logger.Error(err))
		}
	}

	item := models.NewsItem{
		Source:      models.SystemSource,
		PublishedAt: time.Now(),
	}

	cur, avg := holding.CurrentPrice, holding.AvgCost
	switch {
	case holding.HasPrices() && cur > avg:
		pct := ((cur - avg) / avg) * 100
		item.Title = fmt.Sprintf("%s is trading %.2f%% above your average buy price", holding.Name, pct)
		item.Description = fmt.Sprintf("Current price: %v | Average buy price: %v", cur, avg)
	case holding.HasPrices() && cur < avg:
		pct := ((avg - cur) / avg) * 100
		item.Title = fmt.Sprintf("%s is trading %.2f%% below your average buy price", holding.Name, pct)
		item.Description = fmt.Sprintf("Current price: %v | Average buy price: %v", cur, avg)
	case holding.HasPrices():
		item.Title = fmt.Sprintf("%s is trading at your average buy price", holding.Name)
		item.Description = fmt.Sprintf("Current price: %v | Average buy price: %v", cur, avg)
	case cur > 0:
		item.Title = fmt.Sprintf("Current price of %s: %v", holding.Name, cur)
		item.Description = "No price change data available."
	default:
		item.Title = fmt.Sprintf("No significant news found for %s", holding.Name)
		item.Description = fmt.Sprintf("Sector: %s", orUnknown(holding.Sector))
	}
	return item
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
