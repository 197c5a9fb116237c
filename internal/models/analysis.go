package models

import (
	"time"
)

// Decision is the classified trading recommendation for a ticker.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionHold Decision = "HOLD"
	DecisionSell Decision = "SELL"

	// DecisionFailed is the sentinel shown to users when the engine call
	// did not complete.
	DecisionFailed Decision = "ANALYSIS FAILED"

	// DecisionNone marks a ticker with no decision (failed analysis in a batch).
	DecisionNone Decision = ""
)

// AnalysisResult holds the named report sections produced by the analysis
// engine. Sections the engine did not produce are empty strings.
type AnalysisResult struct {
	MarketReport         string `json:"market_report,omitempty"`
	SentimentReport      string `json:"sentiment_report,omitempty"`
	NewsReport           string `json:"news_report,omitempty"`
	FundamentalsReport   string `json:"fundamentals_report,omitempty"`
	InvestmentPlan       string `json:"investment_plan,omitempty"`
	TraderInvestmentPlan string `json:"trader_investment_plan,omitempty"`
}

// ReportSection pairs a section key with its display title and content.
type ReportSection struct {
	Key     string
	Title   string
	Content string
}

// Sections returns all report sections in their fixed display order.
// Empty sections are included; callers filter as needed.
func (r *AnalysisResult) Sections() []ReportSection {
	return []ReportSection{
		{Key: "market_report", Title: "MARKET ANALYST REPORT", Content: r.MarketReport},
		{Key: "sentiment_report", Title: "SENTIMENT REPORT", Content: r.SentimentReport},
		{Key: "news_report", Title: "NEWS ANALYST REPORT", Content: r.NewsReport},
		{Key: "fundamentals_report", Title: "FUNDAMENTALS ANALYST REPORT", Content: r.FundamentalsReport},
		{Key: "trader_investment_plan", Title: "TRADER INVESTMENT DECISION", Content: r.TraderInvestmentPlan},
		{Key: "investment_plan", Title: "RISK ASSESSMENT", Content: r.InvestmentPlan},
	}
}

// DecisionZones holds the support/resistance price bands derived from a
// current price. Recomputed on every chart or report build.
type DecisionZones struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// ChartSpec is the drawable content of a decision chart, independent of the
// rendering library.
type ChartSpec struct {
	Ticker        string      `json:"ticker"`
	Dates         []time.Time `json:"dates"`
	Closes        []float64   `json:"closes"`
	CurrentPrice  float64     `json:"current_price"`
	Support       float64     `json:"support"`
	Resistance    float64     `json:"resistance"`
	BuyBandBottom float64     `json:"buy_band_bottom"`
	SellBandTop   float64     `json:"sell_band_top"`
	Decision      Decision    `json:"decision"`
	Annotation    string      `json:"annotation"`
}

// AnalysisRecord is the structured artifact persisted for one analysis run.
// Report sections are stored verbatim, without truncation.
type AnalysisRecord struct {
	RunID      string            `json:"run_id"`
	Ticker     string            `json:"ticker"`
	TradeDate  string            `json:"trade_date"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
	Decision   Decision          `json:"decision"`
	Snapshot   *PriceSnapshot    `json:"price_snapshot"` // null when price fetch failed
	Reports    map[string]string `json:"reports"`        // non-empty sections only
}

// BatchEntry is the outcome for one ticker in a batch run. Both fields are
// zero-valued for tickers whose analysis failed.
type BatchEntry struct {
	Result   *AnalysisResult `json:"result"`
	Decision Decision        `json:"decision"`
}

// TickerDecision pairs a ticker with its decision for ordered summaries.
type TickerDecision struct {
	Ticker   string   `json:"ticker"`
	Decision Decision `json:"decision"`
}

// BatchSummary aggregates decisions across a batch. Tickers without a
// decision contribute to Failed only.
type BatchSummary struct {
	Decisions []TickerDecision `json:"decisions"` // input order, one per requested ticker
	Buy       int              `json:"buy"`
	Hold      int              `json:"hold"`
	Sell      int              `json:"sell"`
	Failed    int              `json:"failed"`
}

// BatchResult maps each requested ticker to its outcome. Entries holds one
// entry per distinct ticker; Summary preserves the full input order.
type BatchResult struct {
	Entries map[string]BatchEntry `json:"entries"`
	Summary BatchSummary          `json:"summary"`
}
