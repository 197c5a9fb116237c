// Package interfaces defines service contracts for Verdict
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/verdict/internal/models"
)

// ErrDataUnavailable indicates the market data provider failed or returned
// no usable price. Recovered locally; analysis proceeds without price context.
var ErrDataUnavailable = errors.New("market data unavailable")

// ErrNoHistoricalData indicates an empty historical series. Recovered
// locally; the chart artifact is skipped.
var ErrNoHistoricalData = errors.New("no historical data")

// MarketDataClient provides access to a market data provider
type MarketDataClient interface {
	// GetQuote retrieves a live quote plus company metadata for a ticker
	GetQuote(ctx context.Context, ticker string) (*models.PriceSnapshot, error)

	// GetHistory retrieves daily bars for a ticker over [from, to), oldest first
	GetHistory(ctx context.Context, ticker string, from, to time.Time) (*models.HistoryResponse, error)
}

// EngineClient provides access to the multi-agent analysis engine
type EngineClient interface {
	// Propagate runs the full multi-agent analysis for a ticker and trade
	// date. It is a single blocking unit of work with no partial results;
	// the returned decision text is free-form prose containing a
	// recommendation keyword.
	Propagate(ctx context.Context, ticker, tradeDate string) (*models.AnalysisResult, string, error)
}
