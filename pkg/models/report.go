package models

import "time"

// HoldingReport is the per-holding output of one analysis run: the
// holding itself, its deduplicated news items (primary item first), and
// the overall impact label. Created once per holding and not mutated.
type HoldingReport struct {
	Holding Holding     `json:"holding"`
	Items   []NewsItem  `json:"items"`
	Label   ImpactLabel `json:"impact"`
}

// Primary returns the lead news item. Items is never empty: the
// aggregation engine synthesizes a fallback item when no adapter
// returned anything.
func (r HoldingReport) Primary() NewsItem {
	if len(r.Items) == 0 {
		return NewsItem{}
	}
	return r.Items[0]
}

// Additional returns every item after the primary one.
func (r HoldingReport) Additional() []NewsItem {
	if len(r.Items) <= 1 {
		return nil
	}
	return r.Items[1:]
}

// Insight is the deterministic fund-level assessment derived from the
// per-holding impact distribution and sector exposure.
type Insight struct {
	Summary         string      `json:"summary"`
	Impact          ImpactLabel `json:"impact"`
	Recommendations []string    `json:"recommendations"`
	Risks           []string    `json:"risks"`
	Opportunities   []string    `json:"opportunities"`
}

// FundReport is the complete analysis of a mutual fund disclosure.
type FundReport struct {
	FundName       string          `json:"fund_name"`
	Timestamp      time.Time       `json:"timestamp"`
	HoldingsCount  int             `json:"holdings_count"`
	TopHoldings    []Holding       `json:"top_holdings"`
	SectorExposure SectorExposure  `json:"sector_exposure"`
	Holdings       []HoldingReport `json:"holdings"`
	Insight        Insight         `json:"insight"`
}

// PortfolioReport is the complete analysis of a brokerage portfolio export.
type PortfolioReport struct {
	Timestamp time.Time       `json:"timestamp"`
	Holdings  []HoldingReport `json:"holdings"`
}

// ImpactCounts tallies holding reports by impact label.
func ImpactCounts(reports []HoldingReport) map[ImpactLabel]int {
	counts := map[ImpactLabel]int{
		ImpactPositive: 0,
		ImpactNegative: 0,
		ImpactNeutral:  0,
	}
	for _, r := range reports {
		counts[r.Label]++
	}
	return counts
}
