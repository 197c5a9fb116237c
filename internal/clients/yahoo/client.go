// Package yahoo provides a client for the Yahoo Finance unofficial API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// Yahoo rejects requests without a browser User-Agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// rawValue handles Yahoo's {"raw": 123.4, "fmt": "123.40"} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// quoteSummaryResponse represents the v10 quoteSummary API response
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName                   string   `json:"longName"`
				ShortName                  string   `json:"shortName"`
				Currency                   string   `json:"currency"`
				RegularMarketPrice         rawValue `json:"regularMarketPrice"`
				RegularMarketPreviousClose rawValue `json:"regularMarketPreviousClose"`
				RegularMarketChangePercent rawValue `json:"regularMarketChangePercent"`
				MarketCap                  rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			FinancialData struct {
				CurrentPrice rawValue `json:"currentPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuote retrieves a live quote plus company metadata for a ticker.
// Current price resolution order: currentPrice, regularMarketPrice,
// previousClose. Any provider failure is wrapped as ErrDataUnavailable.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.PriceSnapshot, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryProfile,financialData")

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(ticker))

	var resp quoteSummaryResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", interfaces.ErrDataUnavailable, ticker, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", interfaces.ErrDataUnavailable, ticker, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s: empty quote result", interfaces.ErrDataUnavailable, ticker)
	}

	r := resp.QuoteSummary.Result[0]

	// Price resolution: live price, else regular market price, else the
	// previous close as a stale last resort. Only when all three are absent
	// does the snapshot carry no price.
	current := r.FinancialData.CurrentPrice.Raw
	if current == nil {
		current = r.Price.RegularMarketPrice.Raw
	}
	if current == nil {
		current = r.Price.RegularMarketPreviousClose.Raw
	}

	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}
	if name == "" {
		name = ticker
	}

	sector := r.SummaryProfile.Sector
	if sector == "" {
		sector = "N/A"
	}

	currency := r.Price.Currency
	if currency == "" {
		currency = "USD"
	}

	var marketCap float64
	if r.Price.MarketCap.Raw != nil && *r.Price.MarketCap.Raw > 0 {
		marketCap = *r.Price.MarketCap.Raw
	}

	snapshot := &models.PriceSnapshot{
		Ticker:        ticker,
		Name:          name,
		CurrentPrice:  current,
		PreviousClose: r.Price.RegularMarketPreviousClose.Raw,
		ChangePct:     r.Price.RegularMarketChangePercent.Raw,
		Sector:        sector,
		MarketCap:     marketCap,
		Currency:      currency,
		CapturedAt:    time.Now().UTC(),
	}

	c.logger.Debug().
		Str("ticker", ticker).
		Float64("price", snapshot.Price()).
		Msg("Quote fetched")

	return snapshot, nil
}

// chartResponse represents the v8 chart API response
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory retrieves daily bars over [from, to), oldest first. An unknown
// ticker or a range with no trading days yields an empty series, not an error.
func (c *Client) GetHistory(ctx context.Context, ticker string, from, to time.Time) (*models.HistoryResponse, error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(ticker))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	history := &models.HistoryResponse{Ticker: ticker}

	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return history, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return history, nil
	}
	quotes := result.Indicators.Quote[0]

	history.Bars = make([]models.EODBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo pads holidays with nulls; skip bars without a close.
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue
		}

		bar := models.EODBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quotes.Close[i],
		}
		if i < len(quotes.Open) && quotes.Open[i] != nil {
			bar.Open = *quotes.Open[i]
		}
		if i < len(quotes.High) && quotes.High[i] != nil {
			bar.High = *quotes.High[i]
		}
		if i < len(quotes.Low) && quotes.Low[i] != nil {
			bar.Low = *quotes.Low[i]
		}
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			bar.Volume = *quotes.Volume[i]
		}
		history.Bars = append(history.Bars, bar)
	}

	c.logger.Debug().
		Str("ticker", ticker).
		Int("bars", len(history.Bars)).
		Msg("History fetched")

	return history, nil
}
