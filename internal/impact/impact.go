// Package impact implements the deterministic rule-based sentiment
// classifier. It is pure keyword counting over fixed dictionaries; the
// tie-break to Neutral is load-bearing for downstream reporting and
// must not change.
package impact

import (
	"strings"

	"github.com/karthikyer/fundsight/pkg/models"
)

// Keyword dictionaries for the holding-level classifier, scanned over
// each item's title and description.
var positiveKeywords = []string{
	"growth", "profit", "increase", "rise", "up", "gain", "positive",
	"success", "launch", "partnership", "acquisition", "beat", "exceeds",
	"surpass", "improvement", "innovation", "progress", "win", "award",
}

var negativeKeywords = []string{
	"loss", "decline", "decrease", "fall", "down", "drop", "negative",
	"failure", "lawsuit", "investigation", "fine", "penalty", "miss",
	"below", "concern", "risk", "threat", "weak", "cut", "layoff",
}

// Shorter dictionaries for the per-item, title-only rule applied by the
// aggregation engine when tagging individual headlines.
var headlinePositive = []string{
	"up", "rise", "gain", "profit", "growth", "positive", "surge",
	"increase", "higher", "rally", "bullish", "outperform", "beat",
	"exceed", "upgrade", "strong", "top", "soar", "jump",
}

var headlineNegative = []string{
	"down", "fall", "drop", "loss", "decline", "negative", "plunge",
	"decrease", "lower", "slip", "bearish", "underperform", "miss",
	"downgrade", "weak", "bottom", "sink", "crash",
}

// Classify scores a holding's aggregated news set and returns the
// overall impact label. Pure function of its input: same items in any
// order produce the same label. Ties, including the all-zero tie,
// always resolve to Neutral.
func Classify(items []models.NewsItem) models.ImpactLabel {
	if len(items) == 0 {
		return models.ImpactNeutral
	}

	// A lone synthetic fallback item encodes its own signal in the
	// title (price above/below the average buy price).
	if len(items) == 1 && items[0].IsFallback() {
		title := strings.ToLower(items[0].Title)
		switch {
		case strings.Contains(title, "above your average"):
			return models.ImpactPositive
		case strings.Contains(title, "below your average"):
			return models.ImpactNegative
		}
		return models.ImpactNeutral
	}

	positiveScore := 0
	negativeScore := 0
	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Description)
		positiveScore += countPresent(text, positiveKeywords)
		negativeScore += countPresent(text, negativeKeywords)
	}

	return label(positiveScore, negativeScore)
}

// ClassifyHeadline applies the title-only per-item rule used to tag
// individual news items.
func ClassifyHeadline(title string) models.ImpactLabel {
	text := strings.ToLower(title)
	return label(countPresent(text, headlinePositive), countPresent(text, headlineNegative))
}

// countPresent counts how many keywords occur in text as substrings.
// Each keyword contributes at most 1 per call; no stemming.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func label(positive, negative int) models.ImpactLabel {
	switch {
	case positive > negative:
		return models.ImpactPositive
	case negative > positive:
		return models.ImpactNegative
	}
	return models.ImpactNeutral
}
