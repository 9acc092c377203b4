// Package models defines the core data structures used throughout fundsight.
package models

// Holding represents one normalized position in a fund or portfolio.
// It is constructed once during schema normalization and not mutated
// afterwards, with one exception: CurrentPrice may be back-filled from
// quote data when the source table did not carry a price column.
type Holding struct {
	Name         string  `json:"name"`                    // e.g., "Reliance Industries Ltd"
	Symbol       string  `json:"symbol"`                  // e.g., "RELIANCE"; falls back to Name
	Sector       string  `json:"sector,omitempty"`        // e.g., "Oil & Gas"
	WeightPct    float64 `json:"weight_pct,omitempty"`    // always on a 0-100 scale
	Quantity     float64 `json:"quantity,omitempty"`      // portfolio exports only
	AvgCost      float64 `json:"avg_cost,omitempty"`      // average buy price
	CurrentPrice float64 `json:"current_price,omitempty"` // last traded price
}

// HasPrices reports whether both the current and the average buy price
// are known, i.e. a price-based fallback assessment is possible.
func (h Holding) HasPrices() bool {
	return h.CurrentPrice > 0 && h.AvgCost > 0
}

// SectorExposure maps a sector name to the summed weight percentage of
// all holdings in that sector. Holdings without a sector are omitted.
type SectorExposure map[string]float64
