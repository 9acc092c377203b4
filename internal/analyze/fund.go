package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/karthikyer/fundsight/internal/schema"
	"github.com/karthikyer/fundsight/pkg/models"
)

// AnalyzeFund analyzes a normalized fund disclosure: every holding is
// assessed individually, then the rollup adds sector exposure, the top
// holdings, and the deterministic insight block.
func (a *Analyzer) AnalyzeFund(ctx context.Context, fundName string, normalized *schema.Result) *models.FundReport {
	report := a.AnalyzePortfolio(ctx, normalized.Holdings)

	top := normalized.Holdings
	if len(top) > a.topHoldings {
		top = top[:a.topHoldings]
	}

	return &models.FundReport{
		FundName:       fundName,
		Timestamp:      time.Now(),
		HoldingsCount:  len(normalized.Holdings),
		TopHoldings:    top,
		SectorExposure: normalized.SectorExposure,
		Holdings:       report.Holdings,
		Insight:        buildInsight(len(normalized.Holdings), normalized.SectorExposure, report.Holdings),
	}
}

// buildInsight derives the fund-level assessment from the impact
// distribution and sector concentration. Entirely rule-based: fixed
// phrasing keyed off the overall impact, no model involved.
func buildInsight(holdingsCount int, exposure models.SectorExposure, reports []models.HoldingReport) models.Insight {
	counts := models.ImpactCounts(reports)

	overall := models.ImpactNeutral
	switch {
	case counts[models.ImpactPositive] > counts[models.ImpactNegative]:
		overall = models.ImpactPositive
	case counts[models.ImpactNegative] > counts[models.ImpactPositive]:
		overall = models.ImpactNegative
	}

	topSector := dominantSector(exposure)
	fundType := "diversified"
	switch {
	case len(exposure) == 1:
		fundType = topSector + " focused"
	case len(exposure) > 1 && len(exposure) < 3:
		fundType = topSector + " heavy"
	}

	summary := fmt.Sprintf(
		"This is a %s mutual fund with %d holdings. The fund has significant exposure to %s sector. Based on recent news, the overall outlook appears %s.",
		fundType, holdingsCount, topSector, strings.ToLower(string(overall)))

	var recommendations []string
	switch overall {
	case models.ImpactPositive:
		recommendations = []string{
			"Consider maintaining or increasing allocation to this fund given the positive news environment",
			"Monitor the fund's top holdings for continued positive momentum",
			"Compare this fund's performance with peers in the same sector",
		}
	case models.ImpactNegative:
		recommendations = []string{
			"Review your allocation to this fund in light of recent negative news",
			"Consider diversifying to reduce exposure to the affected sectors",
			"Monitor the fund's top holdings closely for any changes in trend",
		}
	default:
		recommendations = []string{
			"Maintain a balanced approach to this fund in your portfolio",
			"Monitor key holdings for any significant news developments",
			"Consider this fund as part of a diversified investment strategy",
		}
	}

	return models.Insight{
		Summary: summary,
		Impact:  overall,
		Recommendations: recommendations,
		Risks: []string{
			fmt.Sprintf("Concentration risk due to high exposure to %s sector", topSector),
			"Market volatility affecting fund performance",
			"Regulatory changes impacting the industry",
		},
		Opportunities: []string{
			fmt.Sprintf("Growth potential in the %s sector", topSector),
			"Potential for dividend income from established holdings",
			"Possible upside from undervalued assets in the portfolio",
		},
	}
}

// dominantSector returns the sector with the highest summed weight.
// Ties break lexicographically so the insight text stays deterministic.
func dominantSector(exposure models.SectorExposure) string {
	top := ""
	topWeight := 0.0
	for sector, weight := range exposure {
		if top == "" || weight > topWeight || (weight == topWeight && sector < top) {
			top = sector
			topWeight = weight
		}
	}
	if top == "" {
		return "unknown"
	}
	return top
}
