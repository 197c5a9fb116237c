// Package analysis orchestrates the per-ticker analysis pipeline
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

// Service implements AnalysisService. It sequences the price snapshot
// fetch, the engine call, decision classification and persistence.
type Service struct {
	market interfaces.MarketDataClient
	engine interfaces.EngineClient
	report interfaces.ReportService
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new analysis service
func NewService(
	market interfaces.MarketDataClient,
	engine interfaces.EngineClient,
	report interfaces.ReportService,
	logger *common.Logger,
) *Service {
	return &Service{
		market: market,
		engine: engine,
		report: report,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// resolveTradeDate applies the date defaulting rule: live-price runs analyze
// today, historical runs analyze the previous calendar day.
func (s *Service) resolveTradeDate(tradeDate string, useLivePrice bool) string {
	if tradeDate != "" {
		return tradeDate
	}
	if useLivePrice {
		return s.now().Format("2006-01-02")
	}
	return s.now().AddDate(0, 0, -1).Format("2006-01-02")
}

// Analyze runs the full pipeline for one ticker.
//
// The engine call is the mandatory computation; the price snapshot is
// best-effort beside it. Engine failures are recovered here so batch callers
// can continue: the method logs the error and returns (nil, DecisionNone,
// nil). Persistence failures propagate, since a requested save that silently
// failed would be a correctness violation.
func (s *Service) Analyze(ctx context.Context, ticker string, opts interfaces.AnalyzeOptions) (*models.AnalysisResult, models.Decision, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	tradeDate := s.resolveTradeDate(opts.TradeDate, opts.UseLivePrice)

	s.logger.Info().
		Str("ticker", ticker).
		Str("trade_date", tradeDate).
		Bool("live_price", opts.UseLivePrice).
		Msg("Starting analysis")

	var snapshot *models.PriceSnapshot
	if opts.UseLivePrice {
		snap, err := s.market.GetQuote(ctx, ticker)
		if err != nil {
			// Price display is best-effort; the engine has its own data
			// access, so analysis proceeds without a snapshot.
			if errors.Is(err, interfaces.ErrDataUnavailable) {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price snapshot unavailable, continuing without price")
			} else {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price snapshot fetch failed, continuing without price")
			}
		} else {
			snapshot = snap
			s.logger.Info().
				Str("ticker", ticker).
				Float64("price", snapshot.Price()).
				Str("currency", snapshot.Currency).
				Msg("Price snapshot fetched")
		}
	}

	result, decisionText, err := s.engine.Propagate(ctx, ticker, tradeDate)
	if err != nil {
		s.logger.Error().Str("ticker", ticker).Err(err).Msg("Engine analysis failed")
		return nil, models.DecisionNone, nil
	}

	decision := ClassifyDecision(decisionText)
	s.logger.Info().
		Str("ticker", ticker).
		Str("decision", string(decision)).
		Msg("Decision classified")

	if opts.Persist {
		record := s.buildRecord(ticker, tradeDate, decision, snapshot, result)
		paths, err := s.report.Save(ctx, record, result)
		if err != nil {
			return result, decision, err
		}
		s.logger.Info().
			Str("ticker", ticker).
			Strs("artifacts", paths).
			Msg("Analysis artifacts saved")
	}

	return result, decision, nil
}

// buildRecord assembles the structured artifact for persistence. Report
// sections are copied verbatim; only non-empty sections are recorded.
func (s *Service) buildRecord(ticker, tradeDate string, decision models.Decision, snapshot *models.PriceSnapshot, result *models.AnalysisResult) *models.AnalysisRecord {
	reports := make(map[string]string)
	for _, section := range result.Sections() {
		if section.Content != "" {
			reports[section.Key] = section.Content
		}
	}

	return &models.AnalysisRecord{
		RunID:      uuid.NewString(),
		Ticker:     ticker,
		TradeDate:  tradeDate,
		AnalyzedAt: s.now().UTC(),
		Decision:   decision,
		Snapshot:   snapshot,
		Reports:    reports,
	}
}
