package schema

import (
	"strconv"
	"strings"

	"github.com/karthikyer/fundsight/pkg/models"
)

// builder assembles one Holding from mapped cells and validates it
// before construction. Rows with missing or unparseable required
// fields are rejected here rather than surfacing later as half-built
// records.
type builder struct {
	mode Mode

	name   string
	symbol string
	sector string

	weight    float64
	hasWeight bool
	badWeight bool

	quantity     float64
	avgCost      float64
	currentPrice float64
}

func newBuilder(mode Mode) *builder {
	return &builder{mode: mode}
}

// set records the cell value for one canonical field.
func (b *builder) set(field string, cell any) {
	switch field {
	case fieldName:
		b.name = cellString(cell)
	case fieldTicker:
		b.symbol = strings.ToUpper(cellString(cell))
	case fieldSector:
		b.sector = cellString(cell)
	case fieldWeight:
		b.setWeight(cell)
	case fieldQuantity:
		b.quantity, _ = cellFloat(cell)
	case fieldAvgCost:
		b.avgCost, _ = cellFloat(cell)
	case fieldCurrentPrice:
		b.currentPrice, _ = cellFloat(cell)
	}
}

// setWeight normalizes the weight cell onto a 0-100 scale. Numeric
// values in (0,1) are fractions and get multiplied by 100. String
// values may carry a trailing percent sign; anything unparseable marks
// the row as bad instead of failing the batch.
func (b *builder) setWeight(cell any) {
	if cell == nil {
		return
	}
	if v, ok := rawNumber(cell); ok {
		if v > 0 && v < 1 {
			v *= 100
		}
		b.weight = v
		b.hasWeight = true
		return
	}
	s, ok := cell.(string)
	if !ok {
		b.badWeight = true
		return
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		b.badWeight = true
		return
	}
	b.weight = v
	b.hasWeight = true
}

// build validates the collected fields and constructs the Holding.
// The second return is false when the row must be skipped.
func (b *builder) build() (models.Holding, bool) {
	if b.name == "" && b.symbol != "" {
		b.name = b.symbol
	}
	if b.symbol == "" && b.name != "" {
		b.symbol = strings.ToUpper(b.name)
	}
	if b.name == "" {
		return models.Holding{}, false
	}
	if b.badWeight {
		return models.Holding{}, false
	}

	switch b.mode {
	case ModeFund:
		if !b.hasWeight {
			return models.Holding{}, false
		}
	case ModePortfolio:
		if b.symbol == "" {
			return models.Holding{}, false
		}
	}

	return models.Holding{
		Name:         b.name,
		Symbol:       b.symbol,
		Sector:       b.sector,
		WeightPct:    b.weight,
		Quantity:     b.quantity,
		AvgCost:      b.avgCost,
		CurrentPrice: b.currentPrice,
	}, true
}
