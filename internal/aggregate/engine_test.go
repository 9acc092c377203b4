package aggregate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/karthikyer/fundsight/internal/fetcher"
	"github.com/karthikyer/fundsight/pkg/models"
)

// stubFetcher returns a fixed item set, optionally after a delay.
type stubFetcher struct {
	name  string
	items []models.NewsItem
	delay time.Duration
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, symbol, name string) []models.NewsItem {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return s.items
}

func item(title, source string) models.NewsItem {
	return models.NewsItem{Title: title, Source: source, PublishedAt: time.Now()}
}

func TestAggregateMergesInSubmissionOrder(t *testing.T) {
	fetchers := []fetcher.Fetcher{
		&stubFetcher{name: "a", items: []models.NewsItem{item("first", "a"), item("second", "a")}},
		&stubFetcher{name: "b", items: []models.NewsItem{item("third", "b")}},
		&stubFetcher{name: "c", items: nil},
	}
	e := New(fetchers, Config{})

	got := e.Aggregate(context.Background(), &models.Holding{Name: "Infosys Ltd", Symbol: "INFY"})

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestAggregateSlowAdapterDoesNotStallOthers(t *testing.T) {
	fetchers := []fetcher.Fetcher{
		&stubFetcher{name: "slow", delay: 5 * time.Second, items: []models.NewsItem{item("late", "slow")}},
		&stubFetcher{name: "fast", items: []models.NewsItem{item("prompt", "fast")}},
	}
	e := New(fetchers, Config{Timeout: 50 * time.Millisecond})

	start := time.Now()
	got := e.Aggregate(context.Background(), &models.Holding{Name: "Infosys Ltd", Symbol: "INFY"})
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Fatalf("aggregation took %v, timeout not applied", elapsed)
	}
	if len(got) != 1 || got[0].Title != "prompt" {
		t.Fatalf("expected only the fast adapter's item, got %+v", got)
	}
}

func TestAggregateTagsSentiment(t *testing.T) {
	fetchers := []fetcher.Fetcher{
		&stubFetcher{name: "a", items: []models.NewsItem{
			item("Shares surge on strong results", "a"),
			item("Stock plunges after downgrade", "a"),
			item("Board meeting scheduled", "a"),
		}},
	}
	e := New(fetchers, Config{})

	got := e.Aggregate(context.Background(), &models.Holding{Name: "Infosys Ltd", Symbol: "INFY"})

	want := []models.ImpactLabel{models.ImpactPositive, models.ImpactNegative, models.ImpactNeutral}
	for i, label := range want {
		if got[i].Sentiment != label {
			t.Errorf("item %d sentiment = %v, want %v", i, got[i].Sentiment, label)
		}
	}
}

func TestAggregateDeduplicatesAcrossSources(t *testing.T) {
	fetchers := []fetcher.Fetcher{
		&stubFetcher{name: "a", items: []models.NewsItem{item("Infosys wins large deal", "a")}},
		&stubFetcher{name: "b", items: []models.NewsItem{item("Infosys wins large deal", "b"), item("unique", "b")}},
	}
	e := New(fetchers, Config{})

	got := e.Aggregate(context.Background(), &models.Holding{Name: "Infosys Ltd", Symbol: "INFY"})

	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	// First occurrence wins: the survivor keeps adapter a's source.
	if got[0].Source != "a" {
		t.Errorf("duplicate survivor source = %q, want %q", got[0].Source, "a")
	}
}

func TestDedupIdempotent(t *testing.T) {
	items := []models.NewsItem{
		item("one", "a"), item("two", "b"), item("one", "c"), item("three", "a"),
	}
	once := Dedup(items, TitleKey)
	twice := Dedup(once, TitleKey)
	if len(once) != 3 || len(twice) != len(once) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed item %d", i)
		}
	}
}

func TestDedupCustomKey(t *testing.T) {
	// A caller can normalize keys, here case-insensitively.
	items := []models.NewsItem{
		item("Infosys Wins Deal", "a"),
		item("INFOSYS WINS DEAL", "b"),
	}
	got := Dedup(items, func(i models.NewsItem) string { return strings.ToLower(i.Title) })
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
}

func TestAggregateFallbackAboveAverage(t *testing.T) {
	e := New(nil, Config{})
	h := &models.Holding{Name: "Infosys Ltd", Symbol: "INFY", AvgCost: 1450.25, CurrentPrice: 1520.50}

	got := e.Aggregate(context.Background(), h)

	if len(got) != 1 {
		t.Fatalf("got %d items, want exactly 1 fallback", len(got))
	}
	fb := got[0]
	if !fb.IsFallback() {
		t.Fatalf("fallback item source = %q", fb.Source)
	}
	if !strings.Contains(fb.Title, "above your average buy price") {
		t.Errorf("title = %q", fb.Title)
	}
	if !strings.HasPrefix(fb.Title, "Infosys Ltd is trading 4.84%") {
		t.Errorf("title = %q, want 4.84%% gain", fb.Title)
	}
}

func TestAggregateFallbackVariants(t *testing.T) {
	tests := []struct {
		name    string
		holding models.Holding
		want    string
	}{
		{
			name:    "below average",
			holding: models.Holding{Name: "TCS Ltd", Symbol: "TCS", AvgCost: 3550.25, CurrentPrice: 3480.50},
			want:    "below your average buy price",
		},
		{
			name:    "at average",
			holding: models.Holding{Name: "ITC Ltd", Symbol: "ITC", AvgCost: 420.75, CurrentPrice: 420.75},
			want:    "is trading at your average buy price",
		},
		{
			name:    "price only",
			holding: models.Holding{Name: "ITC Ltd", Symbol: "ITC", CurrentPrice: 430.25},
			want:    "Current price of ITC Ltd: 430.25",
		},
		{
			name:    "nothing known",
			holding: models.Holding{Name: "Wipro Ltd", Symbol: "WIPRO", Sector: "IT Services"},
			want:    "No significant news found for Wipro Ltd",
		},
	}

	e := New(nil, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Aggregate(context.Background(), &tt.holding)
			if len(got) != 1 {
				t.Fatalf("got %d items", len(got))
			}
			if !strings.Contains(got[0].Title, tt.want) {
				t.Errorf("title = %q, want it to contain %q", got[0].Title, tt.want)
			}
		})
	}
}

func TestAggregateFallbackSectorDescription(t *testing.T) {
	e := New(nil, Config{})

	got := e.Aggregate(context.Background(), &models.Holding{Name: "Wipro Ltd", Symbol: "WIPRO"})
	if got[0].Description != "Sector: Unknown" {
		t.Errorf("description = %q, want Sector: Unknown", got[0].Description)
	}

	got = e.Aggregate(context.Background(), &models.Holding{Name: "Wipro Ltd", Symbol: "WIPRO", Sector: "IT Services"})
	if got[0].Description != "Sector: IT Services" {
		t.Errorf("description = %q", got[0].Description)
	}
}
