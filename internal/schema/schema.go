// Package schema normalizes heterogeneous tabular holding exports into
// canonical Holding records. Brokerages and fund houses disagree on
// column names and numeric encodings; this package maps whatever
// columns a table carries onto a fixed set of canonical fields.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/karthikyer/fundsight/pkg/models"
)

// Table is an ordered sequence of named-column rows. Column names are
// untyped strings; cell values may be numeric, string, or nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Cell returns the value at the given row and column index, or nil
// when the row is ragged.
func (t Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}

// Mode selects which fields a row must carry to survive normalization.
type Mode string

const (
	// ModeFund normalizes fund-disclosure tables: rows need a name and
	// a parseable weight percentage.
	ModeFund Mode = "fund"
	// ModePortfolio normalizes brokerage exports: rows need a name and
	// a ticker; weight is optional.
	ModePortfolio Mode = "portfolio"
)

// Error reports a table that cannot be normalized at all. Failures
// below the table level (individual bad rows) are absorbed by skipping
// the row, never by returning an Error.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema: %s", e.Reason)
}

// Canonical fields that source columns are mapped onto.
const (
	fieldName         = "name"
	fieldTicker       = "ticker"
	fieldSector       = "sector"
	fieldWeight       = "weight"
	fieldQuantity     = "quantity"
	fieldAvgCost      = "avg_cost"
	fieldCurrentPrice = "current_price"
)

// fieldOrder fixes the order in which canonical fields claim columns.
var fieldOrder = []string{
	fieldName, fieldTicker, fieldSector, fieldWeight,
	fieldQuantity, fieldAvgCost, fieldCurrentPrice,
}

// Header aliases per canonical field, matched case-insensitively.
// Order matters: the first matching source column wins. The lists come
// from real Groww, Zerodha, and fund-disclosure export formats.
var fundAliases = map[string][]string{
	fieldName:   {"Company Name", "Security Name", "Holding", "Stock", "Instrument", "Security", "Name", "Issuer"},
	fieldTicker: {"Ticker", "Symbol", "Tradingsymbol", "Security Code", "ISIN", "Code"},
	fieldWeight: {"% of Net Assets", "Weight", "% Assets", "Allocation", "Percentage", "% of Fund", "Weightage", "Weight (%)"},
	fieldSector: {"Sector", "Industry", "Asset Class", "Category", "Segment"},
}

var portfolioAliases = map[string][]string{
	fieldName:         {"Company Name", "Name", "Stock", "Company", "Security Name", "Symbol Name", "Instrument"},
	fieldTicker:       {"Ticker", "Symbol", "Stock Symbol", "NSE Symbol", "BSE Symbol", "ISIN", "Security Code", "Tradingsymbol"},
	fieldSector:       {"Sector", "Industry", "Category", "Segment"},
	fieldWeight:       {"% of Net Assets", "Weight", "% Assets", "Allocation", "Percentage", "Weightage", "Weight (%)"},
	fieldQuantity:     {"Qty", "Quantity", "Shares", "Holding", "Units", "Volume", "Qty."},
	fieldAvgCost:      {"Avg. Cost", "Average Price", "Buy Price", "Cost Price", "Avg Cost", "Purchase Price", "Avg."},
	fieldCurrentPrice: {"LTP", "Last Price", "Current Price", "Market Price", "CMP", "Close Price"},
}

// Result is the output of one normalization pass.
type Result struct {
	Holdings       []models.Holding
	SectorExposure models.SectorExposure
}

// Normalize converts a raw table into canonical Holdings sorted by
// weight descending (stable: ties keep source row order), plus the
// aggregated sector exposure. It returns an *Error only when the table
// carries no usable identity column; bad rows are silently skipped.
// The input table is not mutated.
func Normalize(t Table, mode Mode) (*Result, error) {
	aliases := fundAliases
	if mode == ModePortfolio {
		aliases = portfolioAliases
	}

	mapping := mapColumns(t, aliases)

	// Infer a weight column when none matched by name: the first
	// numeric column whose maximum value looks like a percentage.
	if _, ok := mapping[fieldWeight]; !ok {
		if col, ok := inferWeightColumn(t, mapping); ok {
			mapping[fieldWeight] = col
		}
	}

	_, hasName := mapping[fieldName]
	_, hasTicker := mapping[fieldTicker]
	if !hasName && !hasTicker {
		return nil, &Error{Reason: "no recognizable name or ticker column"}
	}
	// Identity defaulting: whichever of name/ticker is missing borrows
	// the other's column.
	if !hasName {
		mapping[fieldName] = mapping[fieldTicker]
	}
	if !hasTicker {
		mapping[fieldTicker] = mapping[fieldName]
	}

	var holdings []models.Holding
	for i := range t.Rows {
		b := newBuilder(mode)
		for field, col := range mapping {
			b.set(field, t.Cell(i, col))
		}
		h, ok := b.build()
		if !ok {
			continue // skip the row, not the batch
		}
		holdings = append(holdings, h)
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].WeightPct > holdings[j].WeightPct
	})

	exposure := models.SectorExposure{}
	for _, h := range holdings {
		if h.Sector != "" {
			exposure[h.Sector] += h.WeightPct
		}
	}

	return &Result{Holdings: holdings, SectorExposure: exposure}, nil
}

// mapColumns builds the canonical-field → column-index mapping in one
// scan. A column is claimed by at most one field.
func mapColumns(t Table, aliases map[string][]string) map[string]int {
	mapping := make(map[string]int)
	claimed := make(map[int]bool)

	for _, field := range fieldOrder {
		variations, ok := aliases[field]
		if !ok {
			continue
		}
		for col, header := range t.Columns {
			if claimed[col] {
				continue
			}
			if matchesAlias(header, variations) {
				mapping[field] = col
				claimed[col] = true
				break
			}
		}
	}
	return mapping
}

func matchesAlias(header string, variations []string) bool {
	h := strings.TrimSpace(header)
	for _, v := range variations {
		if strings.EqualFold(h, v) {
			return true
		}
	}
	return false
}

// inferWeightColumn scans unclaimed numeric columns and picks the first
// whose maximum value across all rows is at most 100.
func inferWeightColumn(t Table, mapping map[string]int) (int, bool) {
	claimed := make(map[int]bool, len(mapping))
	for _, col := range mapping {
		claimed[col] = true
	}

	for col := range t.Columns {
		if claimed[col] {
			continue
		}
		maxVal, numeric := columnMax(t, col)
		if numeric && maxVal <= 100 {
			return col, true
		}
	}
	return 0, false
}

// columnMax returns the maximum numeric value of a column. A column is
// numeric when it has at least one value and every non-nil cell is a
// number (not a numeric-looking string).
func columnMax(t Table, col int) (float64, bool) {
	maxVal := 0.0
	seen := false
	for row := range t.Rows {
		cell := t.Cell(row, col)
		if cell == nil {
			continue
		}
		v, ok := rawNumber(cell)
		if !ok {
			return 0, false
		}
		if !seen || v > maxVal {
			maxVal = v
		}
		seen = true
	}
	return maxVal, seen
}

// rawNumber converts a numeric cell value without any string parsing.
func rawNumber(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// cellString renders a cell as a trimmed string, or "" for nil.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}

// cellFloat parses a cell as a float, accepting numeric strings.
func cellFloat(cell any) (float64, bool) {
	if v, ok := rawNumber(cell); ok {
		return v, true
	}
	if s, ok := cell.(string); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}
