package chart

import (
	"context"
	"time"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

// historyWindowDays is the fixed trailing window charted behind the zones.
// The window is always relative to wall-clock time, not the trade date.
const historyWindowDays = 90

// Service implements ChartService
type Service struct {
	market interfaces.MarketDataClient
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new chart service
func NewService(market interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		market: market,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BuildSpec fetches the trailing close series and derives the chart content.
// Fails with ErrNoHistoricalData when the provider has no bars for the window.
func (s *Service) BuildSpec(ctx context.Context, ticker string, zones models.DecisionZones, currentPrice float64, decision models.Decision) (*models.ChartSpec, error) {
	end := s.now()
	start := end.AddDate(0, 0, -historyWindowDays)

	history, err := s.market.GetHistory(ctx, ticker, start, end)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("History fetch failed")
		return nil, err
	}

	spec, err := BuildSpec(ticker, history.Bars, zones, currentPrice, decision)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Int("bars", len(spec.Closes)).
		Float64("support", spec.Support).
		Float64("resistance", spec.Resistance).
		Msg("Chart spec built")

	return spec, nil
}
