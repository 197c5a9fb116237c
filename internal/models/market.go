// Package models defines data structures for Verdict
package models

import (
	"time"
)

// PriceSnapshot holds a point-in-time quote plus company metadata for a ticker.
// Constructed fresh on every fetch and immutable once returned.
type PriceSnapshot struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	CurrentPrice  *float64  `json:"current_price"`  // nil when the provider has no usable quote
	PreviousClose *float64  `json:"previous_close"` // nil when unknown
	ChangePct     *float64  `json:"change_pct"`     // nil when unknown
	Sector        string    `json:"sector"`
	MarketCap     float64   `json:"market_cap"`
	Currency      string    `json:"currency"`
	CapturedAt    time.Time `json:"captured_at"`
}

// HasPrice reports whether the snapshot carries a positive current price.
func (s *PriceSnapshot) HasPrice() bool {
	return s != nil && s.CurrentPrice != nil && *s.CurrentPrice > 0
}

// Price returns the current price, or 0 when absent.
func (s *PriceSnapshot) Price() float64 {
	if s == nil || s.CurrentPrice == nil {
		return 0
	}
	return *s.CurrentPrice
}

// EODBar represents a single day's price data
type EODBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoryResponse holds an ordered (oldest first) daily close series
type HistoryResponse struct {
	Ticker string   `json:"ticker"`
	Bars   []EODBar `json:"bars"`
}
