package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verdict/internal/interfaces"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(
		WithBaseURL(server.URL),
		WithRateLimit(1000),
		WithTimeout(5*time.Second),
	)
	return client, server
}

func quoteSummaryBody(financialPrice, marketPrice, previousClose string) string {
	return fmt.Sprintf(`{
		"quoteSummary": {
			"result": [{
				"price": {
					"longName": "Advanced Micro Devices, Inc.",
					"shortName": "AMD",
					"currency": "USD",
					"regularMarketPrice": %s,
					"regularMarketPreviousClose": %s,
					"regularMarketChangePercent": {"raw": 1.57},
					"marketCap": {"raw": 304000000000}
				},
				"summaryProfile": {"sector": "Technology"},
				"financialData": {"currentPrice": %s}
			}],
			"error": null
		}
	}`, marketPrice, previousClose, financialPrice)
}

func TestGetQuote_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AMD", r.URL.Path)
		assert.Equal(t, "price,summaryProfile,financialData", r.URL.Query().Get("modules"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		fmt.Fprint(w, quoteSummaryBody(`{"raw": 187.90}`, `{"raw": 187.50}`, `{"raw": 185.00}`))
	})
	defer server.Close()

	snapshot, err := client.GetQuote(context.Background(), "AMD")
	require.NoError(t, err)

	assert.Equal(t, "AMD", snapshot.Ticker)
	assert.Equal(t, "Advanced Micro Devices, Inc.", snapshot.Name)
	assert.Equal(t, "Technology", snapshot.Sector)
	assert.Equal(t, "USD", snapshot.Currency)
	assert.Equal(t, 304000000000.0, snapshot.MarketCap)

	// financialData.currentPrice wins over regularMarketPrice
	require.NotNil(t, snapshot.CurrentPrice)
	assert.Equal(t, 187.90, *snapshot.CurrentPrice)
	require.NotNil(t, snapshot.PreviousClose)
	assert.Equal(t, 185.00, *snapshot.PreviousClose)
}

func TestGetQuote_PriceResolutionFallback(t *testing.T) {
	tests := []struct {
		name      string
		financial string
		market    string
		previous  string
		want      float64
		wantNil   bool
	}{
		{"market price when no financial data", `{}`, `{"raw": 187.50}`, `{"raw": 185.00}`, 187.50, false},
		{"previous close as last resort", `{}`, `{}`, `{"raw": 185.00}`, 185.00, false},
		{"no price at all", `{}`, `{}`, `{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, quoteSummaryBody(tt.financial, tt.market, tt.previous))
			})
			defer server.Close()

			snapshot, err := client.GetQuote(context.Background(), "AMD")
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, snapshot.CurrentPrice)
				assert.False(t, snapshot.HasPrice())
			} else {
				require.NotNil(t, snapshot.CurrentPrice)
				assert.Equal(t, tt.want, *snapshot.CurrentPrice)
			}
		})
	}
}

func TestGetQuote_Defaults(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"quoteSummary": {
				"result": [{
					"price": {"regularMarketPrice": {"raw": 10.0}},
					"summaryProfile": {},
					"financialData": {}
				}],
				"error": null
			}
		}`)
	})
	defer server.Close()

	snapshot, err := client.GetQuote(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", snapshot.Name, "name falls back to the ticker")
	assert.Equal(t, "N/A", snapshot.Sector)
	assert.Equal(t, "USD", snapshot.Currency)
	assert.Equal(t, 0.0, snapshot.MarketCap)
}

func TestGetQuote_NotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	})
	defer server.Close()

	_, err := client.GetQuote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrDataUnavailable))
}

func TestGetQuote_APIErrorPayload(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for symbol"}}}`)
	})
	defer server.Close()

	_, err := client.GetQuote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrDataUnavailable))
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestGetHistory_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AMD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		fmt.Fprint(w, `{
			"chart": {
				"result": [{
					"timestamp": [1760000000, 1760086400, 1760172800],
					"indicators": {
						"quote": [{
							"open":   [100.0, 101.0, 102.0],
							"high":   [103.0, 104.0, 105.0],
							"low":    [99.0, 100.0, 101.0],
							"close":  [101.5, 102.5, 103.5],
							"volume": [1000, 2000, 3000]
						}]
					}
				}],
				"error": null
			}
		}`)
	})
	defer server.Close()

	history, err := client.GetHistory(context.Background(), "AMD", time.Now().AddDate(0, 0, -90), time.Now())
	require.NoError(t, err)
	require.Len(t, history.Bars, 3)

	assert.Equal(t, 101.5, history.Bars[0].Close)
	assert.Equal(t, 100.0, history.Bars[0].Open)
	assert.Equal(t, int64(1000), history.Bars[0].Volume)
	assert.True(t, history.Bars[0].Date.Before(history.Bars[1].Date), "bars are oldest first")
}

func TestGetHistory_SkipsNullCloses(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"chart": {
				"result": [{
					"timestamp": [1760000000, 1760086400, 1760172800],
					"indicators": {
						"quote": [{
							"close": [101.5, null, 103.5]
						}]
					}
				}],
				"error": null
			}
		}`)
	})
	defer server.Close()

	history, err := client.GetHistory(context.Background(), "AMD", time.Now().AddDate(0, 0, -90), time.Now())
	require.NoError(t, err)
	require.Len(t, history.Bars, 2)
	assert.Equal(t, []float64{101.5, 103.5}, []float64{history.Bars[0].Close, history.Bars[1].Close})
}

func TestGetHistory_UnknownTickerIsEmptyNotError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})
	defer server.Close()

	history, err := client.GetHistory(context.Background(), "NEWIPO", time.Now().AddDate(0, 0, -90), time.Now())
	require.NoError(t, err)
	assert.Empty(t, history.Bars)
	assert.Equal(t, "NEWIPO", history.Ticker)
}

func TestGetHistory_TransportErrorPropagates(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.GetHistory(context.Background(), "AMD", time.Now().AddDate(0, 0, -90), time.Now())
	require.Error(t, err)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
