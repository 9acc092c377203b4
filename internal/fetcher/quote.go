package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultQuoteBaseURL is the Yahoo Finance chart API root.
const DefaultQuoteBaseURL = "https://query1.finance.yahoo.com"

// Quote is a minimal market-data snapshot used to back-fill a
// holding's current price for the fallback assessment.
type Quote struct {
	CurrentPrice  float64
	PreviousClose float64
	Open          float64
	High          float64
	Low           float64
	Volume        int64
	Currency      string
	Exchange      string
}

// Quotes fetches market data from the Yahoo Finance v8 chart API. It
// is not a news adapter; the aggregation engine consults it only when
// every adapter came back empty.
type Quotes struct {
	baseURL string
	opts    Options
}

// NewQuotes creates the quote helper. baseURL is overridable for tests.
func NewQuotes(baseURL string, opts Options) *Quotes {
	if baseURL == "" {
		baseURL = DefaultQuoteBaseURL
	}
	return &Quotes{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		opts:    opts.normalize(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				Currency           string  `json:"currency"`
				ExchangeName       string  `json:"exchangeName"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Get returns the latest quote for a symbol.
func (q *Quotes) Get(ctx context.Context, symbol string) (*Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d", q.baseURL, symbol)
	body, err := q.opts.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp chartResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}

	result := resp.Chart.Result[0]
	quote := &Quote{
		CurrentPrice:  result.Meta.RegularMarketPrice,
		PreviousClose: result.Meta.PreviousClose,
		Currency:      result.Meta.Currency,
		Exchange:      result.Meta.ExchangeName,
	}
	if len(result.Indicators.Quote) > 0 {
		ind := result.Indicators.Quote[0]
		if n := len(ind.Open); n > 0 {
			quote.Open = ind.Open[n-1]
		}
		if n := len(ind.High); n > 0 {
			quote.High = ind.High[n-1]
		}
		if n := len(ind.Low); n > 0 {
			quote.Low = ind.Low[n-1]
		}
		if n := len(ind.Volume); n > 0 {
			quote.Volume = ind.Volume[n-1]
		}
	}
	return quote, nil
}
