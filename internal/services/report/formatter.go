package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/models"
)

const (
	// maxSectionLen bounds each report section in the narrative artifact.
	// The structured JSON record always carries sections verbatim.
	maxSectionLen = 5000

	headerRuleWidth  = 60
	sectionRuleWidth = 40
)

// formatNarrative renders the human-readable text report: header, market
// data (when a snapshot is present), decision banner, each report section
// truncated to maxSectionLen, and the decision banner again at the bottom.
func formatNarrative(record *models.AnalysisRecord, result *models.AnalysisResult) string {
	var sb strings.Builder
	hr := strings.Repeat("=", headerRuleWidth)
	rule := strings.Repeat("-", sectionRuleWidth)

	sb.WriteString(hr + "\n")
	sb.WriteString(fmt.Sprintf("  %s STOCK ANALYSIS REPORT\n", record.Ticker))
	sb.WriteString("  Multi-Agent Trading Analysis\n")
	sb.WriteString(fmt.Sprintf("  Date: %s\n", record.TradeDate))
	sb.WriteString(hr + "\n\n")

	if snap := record.Snapshot; snap != nil {
		sb.WriteString("MARKET DATA\n")
		sb.WriteString(rule + "\n")
		sb.WriteString(fmt.Sprintf("Company: %s\n", snap.Name))
		sb.WriteString(fmt.Sprintf("Sector: %s\n", snap.Sector))
		if snap.CurrentPrice != nil {
			sb.WriteString(fmt.Sprintf("Current Price: %s\n", common.FormatMoney(*snap.CurrentPrice)))
		} else {
			sb.WriteString("Current Price: N/A\n")
		}
		if snap.PreviousClose != nil {
			sb.WriteString(fmt.Sprintf("Previous Close: %s\n", common.FormatMoney(*snap.PreviousClose)))
		}
		if snap.ChangePct != nil {
			sb.WriteString(fmt.Sprintf("Change: %s\n", common.FormatSignedPct(*snap.ChangePct)))
		}
		sb.WriteString(fmt.Sprintf("Market Cap: %s\n", common.FormatMarketCap(snap.MarketCap)))
		sb.WriteString(fmt.Sprintf("Currency: %s\n", snap.Currency))
		sb.WriteString("\n")
	}

	writeDecisionBanner(&sb, hr, record.Decision)
	sb.WriteString("\n")

	if result != nil {
		for _, section := range result.Sections() {
			content := section.Content
			if content == "" {
				content = "N/A"
			}
			sb.WriteString(section.Title + "\n")
			sb.WriteString(rule + "\n")
			sb.WriteString(truncate(content, maxSectionLen))
			sb.WriteString("\n\n")
		}
	}

	writeDecisionBanner(&sb, hr, record.Decision)

	return sb.String()
}

func writeDecisionBanner(sb *strings.Builder, hr string, decision models.Decision) {
	sb.WriteString(hr + "\n")
	sb.WriteString(fmt.Sprintf("  FINAL DECISION: %s\n", decision))
	sb.WriteString(hr + "\n")
}

// truncate bounds s to max characters, never cutting mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
