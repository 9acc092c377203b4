// Package analyze orchestrates a full analysis run: it walks the
// normalized holdings sequentially, drives the aggregation engine for
// each one, classifies the result, and assembles the per-holding and
// rollup reports.
package analyze

import (
	"context"
	"strings"
	"time"

	"github.com/karthikyer/fundsight/internal/aggregate"
	"github.com/karthikyer/fundsight/internal/impact"
	"github.com/karthikyer/fundsight/pkg/logger"
	"github.com/karthikyer/fundsight/pkg/models"
)

// SectorNewsFetcher is the optional secondary signal consulted when a
// holding produced only the generic placeholder and carries a sector.
type SectorNewsFetcher interface {
	FetchSectorNews(ctx context.Context, sector string) []models.NewsItem
}

// Config carries the analyzer's collaborators.
type Config struct {
	SectorNews  SectorNewsFetcher // may be nil
	TopHoldings int               // holdings listed in fund rollups; default 10
	Log         *logger.Logger
}

// Analyzer runs the per-holding analysis loop. Holdings are processed
// sequentially; concurrency lives inside the aggregation engine's
// fan-out, and the NewsAPI rate limiter stays a single shared instance.
type Analyzer struct {
	engine      *aggregate.Engine
	sectorNews  SectorNewsFetcher
	topHoldings int
	log         *logger.Logger
}

// New creates an analyzer around an aggregation engine.
func New(engine *aggregate.Engine, cfg Config) *Analyzer {
	if cfg.TopHoldings <= 0 {
		cfg.TopHoldings = 10
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	return &Analyzer{
		engine:      engine,
		sectorNews:  cfg.SectorNews,
		topHoldings: cfg.TopHoldings,
		log:         cfg.Log,
	}
}

// AnalyzeHolding produces the assessment for a single holding.
func (a *Analyzer) AnalyzeHolding(ctx context.Context, holding *models.Holding) models.HoldingReport {
	items := a.engine.Aggregate(ctx, holding)

	// Only the generic "no news" placeholder came back: try sector
	// news as a weaker substitute signal.
	if a.sectorNews != nil && holding.Sector != "" && isGenericPlaceholder(items) {
		if sectorItems := a.sectorNews.FetchSectorNews(ctx, holding.Sector); len(sectorItems) > 0 {
			items = sectorItems
		}
	}

	return models.HoldingReport{
		Holding: *holding,
		Items:   items,
		Label:   impact.Classify(items),
	}
}

// AnalyzePortfolio analyzes every holding of a brokerage export in
// source order.
func (a *Analyzer) AnalyzePortfolio(ctx context.Context, holdings []models.Holding) *models.PortfolioReport {
	reports := make([]models.HoldingReport, 0, len(holdings))
	for i := range holdings {
		a.log.Info("analyzing holding",
			logger.String("symbol", holdings[i].Symbol),
			logger.Int("position", i+1))
		reports = append(reports, a.AnalyzeHolding(ctx, &holdings[i]))
	}
	return &models.PortfolioReport{
		Timestamp: time.Now(),
		Holdings:  reports,
	}
}

// isGenericPlaceholder reports whether the item list is exactly the
// engine's "no significant news" fallback with no price signal in it.
func isGenericPlaceholder(items []models.NewsItem) bool {
	return len(items) == 1 && items[0].IsFallback() &&
		strings.HasPrefix(items[0].Title, "No significant news found")
}
