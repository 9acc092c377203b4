// Package report renders analysis results for people and writes them
// to disk for machines. The console renderer mirrors the summary the
// analyzer prints after a run; the JSON writer produces the archival
// form of the same report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karthikyer/fundsight/pkg/models"
)

// WriteJSON marshals v with two-space indentation and writes it to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FundOutputPath derives the report filename from the analyzed file:
// the input basename without extension plus a fund-analysis suffix.
func FundOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_fund_analysis.json"
}

// PortfolioOutputPath is the fixed report filename for portfolio runs.
const PortfolioOutputPath = "portfolio_analysis.json"

// RenderFund writes the human-readable fund summary to w.
func RenderFund(w io.Writer, r *models.FundReport) {
	fmt.Fprintf(w, "\n%s - Analysis Summary\n", r.FundName)
	fmt.Fprintf(w, "Holdings: %d\n", r.HoldingsCount)

	fmt.Fprintln(w, "\nTop Sectors:")
	for _, s := range topSectors(r.SectorExposure, 5) {
		fmt.Fprintf(w, "%s: %.2f%%\n", s.name, s.weight)
	}

	fmt.Fprintln(w, "\nTop 5 Holdings:")
	for i, h := range r.TopHoldings {
		if i >= 5 {
			break
		}
		fmt.Fprintf(w, "%d. %s: %.2f%%\n", i+1, h.Name, h.WeightPct)
	}

	renderImpactCounts(w, r.Holdings)

	fmt.Fprintln(w, "\nImpact Analysis:")
	fmt.Fprintf(w, "Overall Impact: %s\n", r.Insight.Impact)
	fmt.Fprintf(w, "\nSummary: %s\n", r.Insight.Summary)
	renderList(w, "Recommendations", r.Insight.Recommendations)
	renderList(w, "Risks", r.Insight.Risks)
	renderList(w, "Opportunities", r.Insight.Opportunities)
}

// RenderPortfolio writes the human-readable portfolio summary to w,
// including the per-stock detail section.
func RenderPortfolio(w io.Writer, r *models.PortfolioReport) {
	fmt.Fprintf(w, "\nAnalyzed %d stocks:\n", len(r.Holdings))
	renderImpactCounts(w, r.Holdings)

	fmt.Fprintln(w, "\nDetailed Analysis Results:")
	for _, h := range r.Holdings {
		fmt.Fprintf(w, "\n%s (%s) - %s:\n", h.Holding.Name, h.Holding.Symbol, h.Label)
		fmt.Fprintf(w, "  %s\n", h.Primary().Title)
		if extra := h.Additional(); len(extra) > 0 {
			fmt.Fprintln(w, "  Additional news headlines:")
			for i, item := range extra {
				fmt.Fprintf(w, "  %d. %s\n", i+1, item.Title)
			}
		}
	}
}

func renderImpactCounts(w io.Writer, reports []models.HoldingReport) {
	counts := models.ImpactCounts(reports)
	total := len(reports)
	fmt.Fprintln(w, "\nNews Impact Summary:")
	for _, label := range []models.ImpactLabel{models.ImpactPositive, models.ImpactNegative, models.ImpactNeutral} {
		n := counts[label]
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		fmt.Fprintf(w, "%s: %d holdings (%.1f%%)\n", label, n, pct)
	}
}

func renderList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}

type sectorWeight struct {
	name   string
	weight float64
}

func topSectors(exposure models.SectorExposure, n int) []sectorWeight {
	sectors := make([]sectorWeight, 0, len(exposure))
	for name, weight := range exposure {
		sectors = append(sectors, sectorWeight{name, weight})
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].weight != sectors[j].weight {
			return sectors[i].weight > sectors[j].weight
		}
		return sectors[i].name < sectors[j].name
	})
	if len(sectors) > n {
		sectors = sectors[:n]
	}
	return sectors
}
