package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ════════════════════════════════════════════════════════════════════
// NewsAPI adapter
// ════════════════════════════════════════════════════════════════════

func newsAPIServer(t *testing.T, hits *atomic.Int64, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/everything" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("apiKey") == "" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

const newsAPIFixture = `{
  "status": "ok",
  "articles": [
    {"source": {"name": "Reuters"}, "title": "Infosys Ltd wins large deal", "description": "details", "url": "https://example.com/1", "publishedAt": "2025-08-30T10:00:00Z"},
    {"source": {"name": ""}, "title": "INFY shares climb", "description": "", "url": "https://example.com/2", "publishedAt": "2025-08-30T09:00:00Z"},
    {"source": {"name": "Bloomberg"}, "title": "Unrelated market roundup", "description": "nothing relevant here", "url": "https://example.com/3", "publishedAt": "2025-08-30T08:00:00Z"},
    {"source": {"name": "Mint"}, "title": "", "description": "missing title", "url": "https://example.com/4", "publishedAt": "2025-08-30T07:00:00Z"}
  ]
}`

func TestNewsAPIFetch(t *testing.T) {
	srv := newsAPIServer(t, nil, newsAPIFixture)
	defer srv.Close()

	n := NewNewsAPI("test-key", srv.URL, 100, Options{Client: srv.Client()})
	items := n.Fetch(context.Background(), "INFY", "Infosys Ltd")

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (irrelevant and untitled articles dropped)", len(items))
	}
	for _, item := range items {
		if strings.Contains(item.Title, "Unrelated") {
			t.Errorf("article mentioning neither name nor symbol survived: %q", item.Title)
		}
	}
	if items[0].Source != "NewsAPI: Reuters" {
		t.Errorf("source = %q, want NewsAPI: Reuters", items[0].Source)
	}
	if items[1].Source != "NewsAPI: Unknown" {
		t.Errorf("empty provider name must map to Unknown, got %q", items[1].Source)
	}
	want := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	if !items[0].PublishedAt.Equal(want) {
		t.Errorf("published at = %v, want %v", items[0].PublishedAt, want)
	}
}

func TestNewsAPIFetchWithoutKey(t *testing.T) {
	hits := &atomic.Int64{}
	srv := newsAPIServer(t, hits, newsAPIFixture)
	defer srv.Close()

	n := NewNewsAPI("", srv.URL, 100, Options{Client: srv.Client()})
	if items := n.Fetch(context.Background(), "INFY", "Infosys Ltd"); items != nil {
		t.Fatalf("keyless adapter returned %d items", len(items))
	}
	if hits.Load() != 0 {
		t.Error("keyless adapter must not call the API")
	}
}

func TestNewsAPIFetchCaches(t *testing.T) {
	hits := &atomic.Int64{}
	srv := newsAPIServer(t, hits, newsAPIFixture)
	defer srv.Close()

	n := NewNewsAPI("test-key", srv.URL, 100, Options{Client: srv.Client()})
	n.Fetch(context.Background(), "INFY", "Infosys Ltd")
	n.Fetch(context.Background(), "INFY", "Infosys Ltd")

	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", hits.Load())
	}
}

func TestNewsAPIFetchErrorStatus(t *testing.T) {
	srv := newsAPIServer(t, nil, `{"status": "error", "articles": []}`)
	defer srv.Close()

	n := NewNewsAPI("test-key", srv.URL, 100, Options{Client: srv.Client()})
	if items := n.Fetch(context.Background(), "INFY", "Infosys Ltd"); items != nil {
		t.Fatalf("error status must yield no items, got %d", len(items))
	}
}

func TestNewsAPISectorNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "sector industry market") {
			t.Errorf("sector query = %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "ok", "articles": [
			{"source": {"name": "Reuters"}, "title": "Banking stocks rally", "description": "", "url": "", "publishedAt": "2025-08-30T10:00:00Z"}
		]}`)
	}))
	defer srv.Close()

	n := NewNewsAPI("test-key", srv.URL, 100, Options{Client: srv.Client()})
	items := n.FetchSectorNews(context.Background(), "Banking")

	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Title != "Sector news: Banking stocks rally" {
		t.Errorf("title = %q", items[0].Title)
	}
}

// ════════════════════════════════════════════════════════════════════
// Scrape adapters
// ════════════════════════════════════════════════════════════════════

const yahooFixture = `<html><body>
  <div data-test="CARD"><a href="/news/infy-deal"><h3>Infosys wins large deal</h3></a></div>
  <div data-test="CARD"><a href="/news/infy-q2"><h3>Infosys Q2 results beat estimates</h3></a></div>
  <div data-test="CARD"><h3>   </h3></div>
</body></html>`

func TestYahooFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote/INFY/news" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("scrape request missing User-Agent")
		}
		fmt.Fprint(w, yahooFixture)
	}))
	defer srv.Close()

	y := NewYahoo(srv.URL, Options{Client: srv.Client()})
	items := y.Fetch(context.Background(), "INFY", "Infosys Ltd")

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (blank headline dropped)", len(items))
	}
	if items[0].Title != "Infosys wins large deal" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[0].URL != srv.URL+"/news/infy-deal" {
		t.Errorf("url = %q", items[0].URL)
	}
	if items[0].Source != "Yahoo Finance" {
		t.Errorf("source = %q", items[0].Source)
	}
}

func TestYahooFetchRespectsMaxItems(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, `<div data-test="CARD"><a href="/n/%d"><h3>Headline %d</h3></a></div>`, i, i)
	}
	sb.WriteString("</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer srv.Close()

	y := NewYahoo(srv.URL, Options{Client: srv.Client(), MaxItems: 3})
	items := y.Fetch(context.Background(), "INFY", "Infosys Ltd")
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
}

func TestYahooFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	y := NewYahoo(srv.URL, Options{Client: srv.Client()})
	if items := y.Fetch(context.Background(), "INFY", "Infosys Ltd"); items != nil {
		t.Fatalf("expected nil on upstream error, got %d items", len(items))
	}
}

const marketWatchFixture = `<html><body>
  <div class="article__content">
    <h3 class="article__headline"><a class="link" href="https://www.marketwatch.com/story/infy-deal">Infosys lands multi-year deal</a></h3>
  </div>
  <div class="article__content">
    <h3 class="article__headline">Infosys Q2 results beat estimates</h3>
  </div>
  <div class="article__content">
    <h3 class="article__headline">   </h3>
  </div>
</body></html>`

func TestMarketWatchFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investing/stock/infy" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, marketWatchFixture)
	}))
	defer srv.Close()

	m := NewMarketWatch(srv.URL, Options{Client: srv.Client()})
	items := m.Fetch(context.Background(), "INFY", "Infosys Ltd")

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (blank headline dropped)", len(items))
	}
	if items[0].Title != "Infosys lands multi-year deal" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[0].URL != "https://www.marketwatch.com/story/infy-deal" {
		t.Errorf("url = %q", items[0].URL)
	}
	if items[1].URL != "" {
		t.Errorf("item without a link must have an empty URL, got %q", items[1].URL)
	}
	if items[0].Source != "MarketWatch" {
		t.Errorf("source = %q", items[0].Source)
	}
}

func TestMarketWatchFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	m := NewMarketWatch(srv.URL, Options{Client: srv.Client()})
	if items := m.Fetch(context.Background(), "INFY", "Infosys Ltd"); items != nil {
		t.Fatalf("expected nil on upstream error, got %d items", len(items))
	}
}

func TestGoogleFinanceNSEThenNasdaqFallback(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, ":NSE") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
		  <div class="yY3Lee"><div class="Yfwt5">Apple launches new product</div><div class="sfyJob">Reuters</div></div>
		</body></html>`)
	}))
	defer srv.Close()

	g := NewGoogleFinance(srv.URL, Options{Client: srv.Client()})
	items := g.Fetch(context.Background(), "AAPL", "Apple Inc")

	if len(paths) != 2 {
		t.Fatalf("expected NSE then NASDAQ attempts, got %v", paths)
	}
	if !strings.HasSuffix(paths[0], "AAPL:NSE") || !strings.HasSuffix(paths[1], "AAPL:NASDAQ") {
		t.Errorf("attempt order wrong: %v", paths)
	}
	if len(items) != 1 || items[0].Source != "Google Finance: Reuters" {
		t.Fatalf("items = %+v", items)
	}
}

func TestGoogleFinanceEscapesAmpersand(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.RawPath
		if rawPath == "" {
			rawPath = r.URL.Path
		}
		fmt.Fprint(w, "<html></html>")
	}))
	defer srv.Close()

	g := NewGoogleFinance(srv.URL, Options{Client: srv.Client()})
	g.Fetch(context.Background(), "M&M", "Mahindra & Mahindra Ltd")

	if !strings.Contains(rawPath, "M%26M") {
		t.Errorf("ampersand not escaped in path %q", rawPath)
	}
}

func TestGoogleNewsFetch(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>search</title>
  <item>
    <title>Infosys announces buyback</title>
    <link>https://example.com/buyback</link>
    <description>&lt;a href="https://example.com"&gt;Infosys announces buyback&lt;/a&gt; - Mint</description>
    <pubDate>Sat, 30 Aug 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title></title>
    <link>https://example.com/empty</link>
  </item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			http.NotFound(w, r)
			return
		}
		if q := r.URL.Query().Get("q"); q != "Infosys Ltd" {
			t.Errorf("query = %q, want the company name", q)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feed)
	}))
	defer srv.Close()

	g := NewGoogleNews(srv.URL, Options{Client: srv.Client()})
	items := g.Fetch(context.Background(), "INFY", "Infosys Ltd")

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (untitled entry dropped)", len(items))
	}
	if items[0].Title != "Infosys announces buyback" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[0].URL != "https://example.com/buyback" {
		t.Errorf("url = %q", items[0].URL)
	}
	if strings.Contains(items[0].Description, "<a") {
		t.Errorf("description must be stripped of HTML: %q", items[0].Description)
	}
	if items[0].PublishedAt.IsZero() {
		t.Error("published time not parsed")
	}
}

// ════════════════════════════════════════════════════════════════════
// Quote helper
// ════════════════════════════════════════════════════════════════════

func TestQuotesGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/INFY" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart": {"result": [{
			"meta": {"regularMarketPrice": 1520.50, "previousClose": 1500.00, "currency": "INR", "exchangeName": "NSI"},
			"indicators": {"quote": [{"open": [1495.0, 1505.0], "high": [1510.0, 1525.0], "low": [1490.0, 1500.0], "volume": [1000, 2000]}]}
		}]}}`)
	}))
	defer srv.Close()

	q := NewQuotes(srv.URL, Options{Client: srv.Client()})
	quote, err := q.Get(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if quote.CurrentPrice != 1520.50 || quote.PreviousClose != 1500.00 {
		t.Errorf("prices wrong: %+v", quote)
	}
	if quote.Open != 1505.0 || quote.High != 1525.0 || quote.Low != 1500.0 || quote.Volume != 2000 {
		t.Errorf("expected the last bar of each series, got %+v", quote)
	}
	if quote.Currency != "INR" || quote.Exchange != "NSI" {
		t.Errorf("meta wrong: %+v", quote)
	}
}

func TestQuotesGetNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": []}}`)
	}))
	defer srv.Close()

	q := NewQuotes(srv.URL, Options{Client: srv.Client()})
	if _, err := q.Get(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for empty result")
	}
}
