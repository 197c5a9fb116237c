package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/verdict/internal/models"
)

func testRecord(decision models.Decision) *models.AnalysisRecord {
	price := 187.90
	prev := 185.00
	change := 1.57
	return &models.AnalysisRecord{
		RunID:     "run-1",
		Ticker:    "AMD",
		TradeDate: "2026-02-20",
		Decision:  decision,
		Snapshot: &models.PriceSnapshot{
			Ticker:        "AMD",
			Name:          "Advanced Micro Devices",
			CurrentPrice:  &price,
			PreviousClose: &prev,
			ChangePct:     &change,
			Sector:        "Technology",
			MarketCap:     304_000_000_000,
			Currency:      "USD",
		},
	}
}

func TestFormatNarrative_Structure(t *testing.T) {
	result := &models.AnalysisResult{
		MarketReport:         "market section",
		SentimentReport:      "sentiment section",
		NewsReport:           "news section",
		FundamentalsReport:   "fundamentals section",
		InvestmentPlan:       "plan section",
		TraderInvestmentPlan: "trader section",
	}
	out := formatNarrative(testRecord(models.DecisionBuy), result)

	assert.Contains(t, out, "AMD STOCK ANALYSIS REPORT")
	assert.Contains(t, out, "Date: 2026-02-20")

	// Decision banner appears at the top and again at the bottom
	assert.Equal(t, 2, strings.Count(out, "FINAL DECISION: BUY"))

	// All six section titles, in fixed order
	titles := []string{
		"MARKET ANALYST REPORT",
		"SENTIMENT REPORT",
		"NEWS ANALYST REPORT",
		"FUNDAMENTALS ANALYST REPORT",
		"TRADER INVESTMENT DECISION",
		"RISK ASSESSMENT",
	}
	last := -1
	for _, title := range titles {
		idx := strings.Index(out, title)
		assert.Greater(t, idx, last, "section %q out of order", title)
		last = idx
	}
}

func TestFormatNarrative_MarketData(t *testing.T) {
	out := formatNarrative(testRecord(models.DecisionHold), &models.AnalysisResult{})

	assert.Contains(t, out, "MARKET DATA")
	assert.Contains(t, out, "Company: Advanced Micro Devices")
	assert.Contains(t, out, "Sector: Technology")
	assert.Contains(t, out, "Current Price: $187.90")
	assert.Contains(t, out, "Previous Close: $185.00")
	assert.Contains(t, out, "Change: +1.57%")
	assert.Contains(t, out, "Market Cap: $304.00B")
	assert.Contains(t, out, "Currency: USD")
}

func TestFormatNarrative_NoSnapshot(t *testing.T) {
	record := testRecord(models.DecisionHold)
	record.Snapshot = nil
	out := formatNarrative(record, &models.AnalysisResult{MarketReport: "x"})

	assert.NotContains(t, out, "MARKET DATA")
	assert.Contains(t, out, "FINAL DECISION: HOLD")
}

func TestFormatNarrative_EmptySectionsRenderNA(t *testing.T) {
	out := formatNarrative(testRecord(models.DecisionHold), &models.AnalysisResult{MarketReport: "present"})

	assert.Contains(t, out, "present")
	// The five empty sections each render as N/A
	assert.Equal(t, 5, strings.Count(out, "\nN/A\n"))
}

func TestFormatNarrative_TruncatesLongSections(t *testing.T) {
	long := strings.Repeat("a", maxSectionLen+500)
	out := formatNarrative(testRecord(models.DecisionSell), &models.AnalysisResult{MarketReport: long})

	assert.Contains(t, out, strings.Repeat("a", maxSectionLen))
	assert.NotContains(t, out, strings.Repeat("a", maxSectionLen+1))
}

func TestFormatNarrative_TruncationCountsCharacters(t *testing.T) {
	// Engine prose carries multi-byte runes; the character limit must not
	// shrink to a byte limit, and the artifact must stay valid UTF-8
	long := strings.Repeat("€", maxSectionLen+500)
	out := formatNarrative(testRecord(models.DecisionSell), &models.AnalysisResult{MarketReport: long})

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("€", maxSectionLen))
	assert.NotContains(t, out, strings.Repeat("€", maxSectionLen+1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "", truncate("", 4))
}

func TestTruncate_MultiByte(t *testing.T) {
	assert.Equal(t, "€€", truncate("€€€", 2))
	assert.Equal(t, "€€€", truncate("€€€", 3))
	assert.Equal(t, "a–b", truncate("a–b“c", 3))

	got := truncate(strings.Repeat("é", 10), 4)
	assert.Equal(t, 4, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestFormatNarrative_FailedDecision(t *testing.T) {
	out := formatNarrative(testRecord(models.DecisionFailed), nil)
	assert.Equal(t, 2, strings.Count(out, "FINAL DECISION: ANALYSIS FAILED"))
}
