// Package engine provides the multi-agent trading analysis engine, backed by
// the Google Gemini API.
package engine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/models"
)

const (
	DefaultModel        = "gemini-2.0-flash"
	DefaultDebateRounds = 1
)

// Client implements the EngineClient interface
type Client struct {
	client       *genai.Client
	model        string
	debateRounds int
	logger       *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithDebateRounds sets the number of bull/bear debate rounds
func WithDebateRounds(rounds int) ClientOption {
	return func(c *Client) {
		if rounds > 0 {
			c.debateRounds = rounds
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new engine client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine client: %w", err)
	}

	c := &Client{
		client:       genaiClient,
		model:        DefaultModel,
		debateRounds: DefaultDebateRounds,
		logger:       common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// generate runs a single model call and returns the response text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Propagate runs the full multi-agent analysis pipeline for a ticker and
// trade date: four analyst passes, a bull/bear research debate synthesized
// into an investment plan, a trader plan, and a final risk-managed decision.
// Any failed model call fails the whole propagation; there are no partial
// results.
func (c *Client) Propagate(ctx context.Context, ticker, tradeDate string) (*models.AnalysisResult, string, error) {
	c.logger.Info().
		Str("ticker", ticker).
		Str("trade_date", tradeDate).
		Str("model", c.model).
		Msg("Engine propagation started")

	result := &models.AnalysisResult{}

	analysts := []struct {
		name   string
		prompt string
		target *string
	}{
		{"market", marketAnalystPrompt(ticker, tradeDate), &result.MarketReport},
		{"sentiment", sentimentAnalystPrompt(ticker, tradeDate), &result.SentimentReport},
		{"news", newsAnalystPrompt(ticker, tradeDate), &result.NewsReport},
		{"fundamentals", fundamentalsAnalystPrompt(ticker, tradeDate), &result.FundamentalsReport},
	}

	for _, a := range analysts {
		c.logger.Debug().Str("ticker", ticker).Str("analyst", a.name).Msg("Running analyst")
		report, err := c.generate(ctx, a.prompt)
		if err != nil {
			return nil, "", fmt.Errorf("%s analyst: %w", a.name, err)
		}
		*a.target = report
	}

	// Bull/bear research debate over the analyst reports
	var debate strings.Builder
	for round := 1; round <= c.debateRounds; round++ {
		c.logger.Debug().Str("ticker", ticker).Int("round", round).Msg("Research debate round")

		bull, err := c.generate(ctx, bullResearcherPrompt(ticker, result, debate.String()))
		if err != nil {
			return nil, "", fmt.Errorf("bull researcher round %d: %w", round, err)
		}
		debate.WriteString(fmt.Sprintf("Bull (round %d):\n%s\n\n", round, bull))

		bear, err := c.generate(ctx, bearResearcherPrompt(ticker, result, debate.String()))
		if err != nil {
			return nil, "", fmt.Errorf("bear researcher round %d: %w", round, err)
		}
		debate.WriteString(fmt.Sprintf("Bear (round %d):\n%s\n\n", round, bear))
	}

	plan, err := c.generate(ctx, researchManagerPrompt(ticker, debate.String()))
	if err != nil {
		return nil, "", fmt.Errorf("research manager: %w", err)
	}
	result.InvestmentPlan = plan

	traderPlan, err := c.generate(ctx, traderPrompt(ticker, tradeDate, result))
	if err != nil {
		return nil, "", fmt.Errorf("trader: %w", err)
	}
	result.TraderInvestmentPlan = traderPlan

	decision, err := c.generate(ctx, riskManagerPrompt(ticker, result))
	if err != nil {
		return nil, "", fmt.Errorf("risk manager: %w", err)
	}

	c.logger.Info().
		Str("ticker", ticker).
		Str("trade_date", tradeDate).
		Msg("Engine propagation complete")

	return result, decision, nil
}
