package interfaces

import (
	"context"

	"github.com/bobmcallan/verdict/internal/models"
)

// AnalyzeOptions configures a single analysis run.
type AnalyzeOptions struct {
	TradeDate    string // "YYYY-MM-DD"; empty means default per UseLivePrice
	UseLivePrice bool
	Persist      bool
}

// AnalysisService orchestrates the analysis pipeline for a single ticker
type AnalysisService interface {
	// Analyze runs fetch, engine call, decision classification and optional
	// persistence for one ticker. Engine failures are recovered here: the
	// call returns (nil, DecisionNone, nil) after logging. Persistence
	// failures propagate.
	Analyze(ctx context.Context, ticker string, opts AnalyzeOptions) (*models.AnalysisResult, models.Decision, error)
}

// ReportService persists analysis artifacts for a ticker
type ReportService interface {
	// Save writes the structured record, the narrative text report and
	// (best-effort) the decision chart. It returns the paths of all
	// artifacts written. Re-running for the same ticker and trade date
	// overwrites prior artifacts.
	Save(ctx context.Context, record *models.AnalysisRecord, result *models.AnalysisResult) ([]string, error)
}

// ChartService builds and renders decision charts
type ChartService interface {
	// BuildSpec derives chart content from the trailing close series and the
	// decision zones. Fails with ErrNoHistoricalData on an empty series.
	BuildSpec(ctx context.Context, ticker string, zones models.DecisionZones, currentPrice float64, decision models.Decision) (*models.ChartSpec, error)

	// Render renders a chart spec to PNG bytes.
	Render(spec *models.ChartSpec) ([]byte, error)
}

// BatchService runs the analysis pipeline over an ordered ticker list
type BatchService interface {
	// Run analyzes tickers sequentially in input order with per-ticker
	// failure isolation; the batch never aborts early.
	Run(ctx context.Context, tickers []string, opts AnalyzeOptions) (*models.BatchResult, error)
}
