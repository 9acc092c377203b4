// fundsight analyzes brokerage portfolios and mutual fund disclosures:
// it normalizes heterogeneous Excel/CSV exports, gathers stock news
// from multiple providers concurrently, and scores the likely impact.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karthikyer/fundsight/internal/aggregate"
	"github.com/karthikyer/fundsight/internal/analyze"
	"github.com/karthikyer/fundsight/internal/config"
	"github.com/karthikyer/fundsight/internal/fetcher"
	"github.com/karthikyer/fundsight/internal/loader"
	"github.com/karthikyer/fundsight/internal/report"
	"github.com/karthikyer/fundsight/internal/schema"
	"github.com/karthikyer/fundsight/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, populated by the root PersistentPreRunE.
var (
	cfg *config.Config
	log *logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fundsight",
	Short: "fundsight — portfolio and mutual fund news impact analyzer",
	Long: `fundsight reads brokerage portfolio exports and mutual fund
disclosure sheets in whatever column layout the provider chose,
fetches recent news for every holding from several providers at once,
and produces a deterministic impact assessment per holding and for
the fund as a whole.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(sampleCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fundsight %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command (portfolio) ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a brokerage portfolio export",
	Long: `Analyze a portfolio export (Excel or CSV). The column layout is
detected automatically; Groww and Zerodha style exports both work.

Examples:
  fundsight analyze samples/sample_portfolio.xlsx
  fundsight analyze holdings.csv --out my_analysis.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if loader.DetectMode(path) == schema.ModeFund {
			fmt.Fprintf(os.Stderr, "note: %s looks like a fund disclosure; consider 'fundsight fund'\n", path)
		}
		table, err := loader.Read(path)
		if err != nil {
			return err
		}
		normalized, err := schema.Normalize(table, schema.ModePortfolio)
		if err != nil {
			return err
		}
		fmt.Printf("Analyzing portfolio: %s (%d holdings)\n", path, len(normalized.Holdings))

		result := newAnalyzer().AnalyzePortfolio(cmd.Context(), normalized.Holdings)

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = report.PortfolioOutputPath
		}
		if err := report.WriteJSON(out, result); err != nil {
			return err
		}
		report.RenderPortfolio(os.Stdout, result)
		fmt.Printf("\nResults saved to %s\n", out)
		return nil
	},
}

// --- Fund Command (mutual fund disclosure) ---

var fundCmd = &cobra.Command{
	Use:   "fund [file]",
	Short: "Analyze a mutual fund holdings disclosure",
	Long: `Analyze a mutual fund disclosure sheet. Rows without a usable
weight are skipped; sector exposure and a fund-level assessment are
derived from the surviving holdings.

Examples:
  fundsight fund samples/Nifty50_Index_Fund.xlsx
  fundsight fund disclosure.xlsx --name "My Fund" --out fund.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		table, err := loader.Read(path)
		if err != nil {
			return err
		}
		normalized, err := schema.Normalize(table, schema.ModeFund)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = fundNameFromPath(path)
		}
		fmt.Printf("Analyzing mutual fund: %s (%d holdings)\n", name, len(normalized.Holdings))

		result := newAnalyzer().AnalyzeFund(cmd.Context(), name, normalized)

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = report.FundOutputPath(path)
		}
		if err := report.WriteJSON(out, result); err != nil {
			return err
		}
		report.RenderFund(os.Stdout, result)
		fmt.Printf("\nResults saved to %s\n", out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("out", "", "output JSON path (default: "+report.PortfolioOutputPath+")")
	fundCmd.Flags().String("name", "", "fund name for the report (default: derived from the filename)")
	fundCmd.Flags().String("out", "", "output JSON path (default: derived from the filename)")
}

// --- Sample Command ---

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate sample portfolio and fund workbooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		paths, err := loader.WriteSamples(dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("Sample created: %s\n", p)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().String("dir", "samples", "directory to write sample workbooks into")
}

// newAnalyzer wires the full stack from the loaded configuration:
// shared adapter options, the five news providers, the quote client,
// the aggregation engine, and the analyzer on top.
func newAnalyzer() *analyze.Analyzer {
	opts := fetcher.Options{
		Log:      log,
		MaxItems: cfg.Fetch.MaxPerSource,
		CacheTTL: cfg.Fetch.CacheTTL(),
	}
	newsAPI := fetcher.NewNewsAPI(cfg.News.APIKey, cfg.News.BaseURL, cfg.Fetch.APIRatePerSec, opts)
	fetchers := []fetcher.Fetcher{
		newsAPI,
		fetcher.NewYahoo("", opts),
		fetcher.NewMarketWatch("", opts),
		fetcher.NewGoogleFinance("", opts),
		fetcher.NewGoogleNews("", opts),
	}
	engine := aggregate.New(fetchers, aggregate.Config{
		Timeout: cfg.Fetch.Timeout(),
		Quotes:  fetcher.NewQuotes("", opts),
		Log:     log,
	})
	return analyze.New(engine, analyze.Config{
		SectorNews:  newsAPI,
		TopHoldings: cfg.Analysis.TopHoldings,
		Log:         log,
	})
}

// fundNameFromPath turns "Nifty50_Index_Fund.xlsx" into
// "Nifty50 Index Fund".
func fundNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}
