package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/verdict/internal/app"
	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

var (
	cfgFile      string
	tradeDate    string
	noLivePrice  bool
	batchMode    bool
	noPersist    bool
	outputPath   string
	engineModel  string
	debateRounds int
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verdict TICKER [TICKER...]",
		Short: "AI trading analysis with decision-zone reports",
		Long: `Verdict runs a multi-agent AI analysis for one or more tickers, classifies
the result into a BUY/HOLD/SELL decision, and writes per-ticker reports:
a structured JSON record, a narrative text summary, and a decision chart.

Examples:
  verdict AMD
  verdict AMD NVDA AAPL --batch
  verdict AMD --date 2026-02-20 --no-live-price`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path (default verdict.toml beside the binary)")
	rootCmd.Flags().StringVar(&tradeDate, "date", "", "trade date YYYY-MM-DD (default: today, or yesterday with --no-live-price)")
	rootCmd.Flags().BoolVar(&noLivePrice, "no-live-price", false, "analyze a settled prior session without fetching a live quote")
	rootCmd.Flags().BoolVar(&batchMode, "batch", false, "batch mode with per-ticker failure isolation and a summary table")
	rootCmd.Flags().BoolVar(&noPersist, "no-persist", false, "skip writing report artifacts")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "artifact output directory (overrides config)")
	rootCmd.Flags().StringVar(&engineModel, "engine-model", "", "analysis engine model (overrides config)")
	rootCmd.Flags().IntVar(&debateRounds, "debate-rounds", 0, "bull/bear debate rounds (overrides config)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// API keys commonly live in a .env beside the binary during development
	godotenv.Load()

	ctx := context.Background()

	a, err := app.NewApp(ctx, cfgFile, configOverrides()...)
	if err != nil {
		// Initialization failures are reported without a usage dump
		cmd.SilenceUsage = true
		return err
	}

	common.PrintBanner(a.Config, a.Logger)

	opts := interfaces.AnalyzeOptions{
		TradeDate:    tradeDate,
		UseLivePrice: !noLivePrice,
		Persist:      !noPersist,
	}

	if batchMode || len(args) > 1 {
		runBatch(ctx, a, args, opts)
	} else {
		runSingle(ctx, a, args[0], opts)
	}

	return nil
}

// configOverrides maps CLI flags onto the loaded configuration.
func configOverrides() []app.Override {
	return []app.Override{
		func(c *common.Config) {
			if outputPath != "" {
				c.Output.Path = outputPath
			}
			if engineModel != "" {
				c.Clients.Engine.Model = engineModel
			}
			if debateRounds > 0 {
				c.Clients.Engine.DebateRounds = debateRounds
			}
			if verbose {
				c.Logging.Level = "debug"
			}
		},
	}
}

// runSingle analyzes one ticker and prints the report sections to stdout.
func runSingle(ctx context.Context, a *app.App, ticker string, opts interfaces.AnalyzeOptions) {
	result, decision, err := a.AnalysisService.Analyze(ctx, ticker, opts)
	if err != nil {
		a.Logger.Error().Str("ticker", ticker).Err(err).Msg("Failed to save analysis artifacts")
	}

	hr := strings.Repeat("=", 60)
	rule := strings.Repeat("-", 40)

	fmt.Println(hr)
	fmt.Printf("  %s ANALYSIS\n", strings.ToUpper(strings.TrimSpace(ticker)))
	fmt.Println(hr)

	if result == nil {
		fmt.Printf("\nFINAL DECISION: %s\n", models.DecisionFailed)
		fmt.Println(hr)
		return
	}

	for _, section := range result.Sections() {
		content := section.Content
		if content == "" {
			content = "N/A"
		}
		fmt.Printf("\n%s\n%s\n%s\n", section.Title, rule, preview(content, 2000))
	}

	fmt.Printf("\n%s\n", hr)
	fmt.Printf("  FINAL DECISION: %s\n", decision)
	fmt.Println(hr)
}

// preview bounds console section output to max characters, never cutting
// mid-rune.
func preview(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// runBatch analyzes all tickers sequentially and prints the summary table.
func runBatch(ctx context.Context, a *app.App, tickers []string, opts interfaces.AnalyzeOptions) {
	bar := progressbar.NewOptions(len(tickers),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	a.BatchService.SetProgressCallback(func(done, total int) {
		bar.Set(done)
	})

	result, err := a.BatchService.Run(ctx, tickers, opts)
	if err != nil {
		a.Logger.Error().Err(err).Msg("Batch run failed")
		return
	}

	fmt.Println()
	printBatchSummary(result)
}

func printBatchSummary(result *models.BatchResult) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Ticker", "Decision"}),
	)

	for _, td := range result.Summary.Decisions {
		decision := string(td.Decision)
		if td.Decision == models.DecisionNone {
			decision = string(models.DecisionFailed)
		}
		table.Append([]string{td.Ticker, decision})
	}

	table.Render()

	fmt.Printf("\nBUY: %d  HOLD: %d  SELL: %d  FAILED: %d\n",
		result.Summary.Buy, result.Summary.Hold, result.Summary.Sell, result.Summary.Failed)
}
