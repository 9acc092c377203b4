package models

import "time"

// NewsItem is one piece of third-party signal about a holding.
// Title is never empty: adapters discard items without a usable title
// before returning them. Title is also the deduplication key.
type NewsItem struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Source      string      `json:"source"` // identifies the origin adapter
	URL         string      `json:"url,omitempty"`
	PublishedAt time.Time   `json:"published_at,omitempty"`
	Sentiment   ImpactLabel `json:"sentiment,omitempty"` // per-item, title-only label
}

// SystemSource labels synthetic fallback items produced by the
// aggregation engine itself rather than by an external provider.
const SystemSource = "System Analysis"

// IsFallback reports whether the item was synthesized by the engine.
func (n NewsItem) IsFallback() bool {
	return n.Source == SystemSource
}
