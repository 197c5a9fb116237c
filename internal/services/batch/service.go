// Package batch runs the analysis pipeline over an ordered ticker list with
// per-ticker failure isolation
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

// Service implements BatchService
type Service struct {
	analysis interfaces.AnalysisService
	logger   *common.Logger
	progress func(done, total int)
}

// NewService creates a new batch service
func NewService(analysisService interfaces.AnalysisService, logger *common.Logger) *Service {
	return &Service{
		analysis: analysisService,
		logger:   logger,
	}
}

// SetProgressCallback registers a callback invoked after each ticker
// resolves. Must be set before Run.
func (s *Service) SetProgressCallback(cb func(done, total int)) {
	s.progress = cb
}

// Run analyzes each ticker sequentially in input order. Any fault escaping
// a single ticker's analysis, including a panic, is contained here and
// recorded as an empty entry; the batch never aborts early. Duplicate
// tickers collapse to one map entry (the last attempt wins) while the
// summary keeps one decision per input position.
func (s *Service) Run(ctx context.Context, tickers []string, opts interfaces.AnalyzeOptions) (*models.BatchResult, error) {
	result := &models.BatchResult{
		Entries: make(map[string]models.BatchEntry, len(tickers)),
	}

	s.logger.Info().
		Int("tickers", len(tickers)).
		Bool("live_price", opts.UseLivePrice).
		Msg("Batch analysis started")

	for i, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))

		analysisResult, decision := s.runOne(ctx, ticker, opts)

		result.Entries[ticker] = models.BatchEntry{
			Result:   analysisResult,
			Decision: decision,
		}
		result.Summary.Decisions = append(result.Summary.Decisions, models.TickerDecision{
			Ticker:   ticker,
			Decision: decision,
		})

		switch decision {
		case models.DecisionBuy:
			result.Summary.Buy++
		case models.DecisionHold:
			result.Summary.Hold++
		case models.DecisionSell:
			result.Summary.Sell++
		default:
			result.Summary.Failed++
		}

		if s.progress != nil {
			s.progress(i+1, len(tickers))
		}
	}

	s.logger.Info().
		Int("buy", result.Summary.Buy).
		Int("hold", result.Summary.Hold).
		Int("sell", result.Summary.Sell).
		Int("failed", result.Summary.Failed).
		Msg("Batch analysis complete")

	return result, nil
}

// runOne wraps a single ticker's analysis in a recovery boundary.
func (s *Service) runOne(ctx context.Context, ticker string, opts interfaces.AnalyzeOptions) (result *models.AnalysisResult, decision models.Decision) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("ticker", ticker).
				Str("panic", fmt.Sprint(r)).
				Msg("Analysis panicked, recording failed entry")
			result = nil
			decision = models.DecisionNone
		}
	}()

	result, decision, err := s.analysis.Analyze(ctx, ticker, opts)
	if err != nil {
		s.logger.Error().Str("ticker", ticker).Err(err).Msg("Analysis failed, recording failed entry")
		return nil, models.DecisionNone
	}
	return result, decision
}
