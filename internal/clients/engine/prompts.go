package engine

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/verdict/internal/models"
)

// Prompt builders for each agent role. Each analyst produces one named
// report section; the research, trader and risk roles consume them.

func marketAnalystPrompt(ticker, tradeDate string) string {
	return fmt.Sprintf(`You are a market analyst on a trading research team.
Write a technical analysis report for %s as of %s.

Cover price trend, momentum, moving averages (50 and 200 SMA), RSI, MACD,
support and resistance levels, and volume behaviour. Be specific about price
levels where you can. Finish with a short paragraph on what the technicals
imply for the next 2-4 weeks.`, ticker, tradeDate)
}

func sentimentAnalystPrompt(ticker, tradeDate string) string {
	return fmt.Sprintf(`You are a social sentiment analyst on a trading research team.
Write a sentiment report for %s as of %s.

Summarize retail investor mood, social media discussion themes, and any
notable shifts in sentiment over the past week. Note whether sentiment
diverges from price action.`, ticker, tradeDate)
}

func newsAnalystPrompt(ticker, tradeDate string) string {
	return fmt.Sprintf(`You are a news analyst on a trading research team.
Write a news report for %s as of %s.

Cover recent company announcements, sector developments, macro events
relevant to the stock, and upcoming catalysts (earnings, product launches,
regulatory decisions). Rank the items by likely price impact.`, ticker, tradeDate)
}

func fundamentalsAnalystPrompt(ticker, tradeDate string) string {
	return fmt.Sprintf(`You are a fundamentals analyst on a trading research team.
Write a fundamentals report for %s as of %s.

Cover revenue and earnings trajectory, margins, balance sheet strength,
valuation (P/E, P/S versus sector peers), and capital allocation. Conclude
with whether the current valuation looks cheap, fair, or stretched.`, ticker, tradeDate)
}

func bullResearcherPrompt(ticker string, result *models.AnalysisResult, debate string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`You are the bull researcher arguing FOR buying %s.
Using the analyst reports below, make the strongest honest case to buy.
Directly rebut the bear's latest points if any appear in the debate so far.

`, ticker))
	writeAnalystReports(&sb, result)
	writeDebate(&sb, debate)
	return sb.String()
}

func bearResearcherPrompt(ticker string, result *models.AnalysisResult, debate string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`You are the bear researcher arguing AGAINST buying %s.
Using the analyst reports below, make the strongest honest case to avoid or
sell. Directly rebut the bull's latest points in the debate so far.

`, ticker))
	writeAnalystReports(&sb, result)
	writeDebate(&sb, debate)
	return sb.String()
}

func researchManagerPrompt(ticker, debate string) string {
	return fmt.Sprintf(`You are the research manager. Below is a bull/bear debate about %s.
Weigh both sides and write an investment plan: your overall stance, the key
risks that would change it, and suggested position sizing. Do not sit on the
fence; commit to a direction.

Debate transcript:
%s`, ticker, debate)
}

func traderPrompt(ticker, tradeDate string, result *models.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`You are the trader executing on the research team's work for %s (analysis date %s).
Based on the reports and investment plan below, write your trading plan:
entry approach, stop level, target, and timeframe.

`, ticker, tradeDate))
	writeAnalystReports(&sb, result)
	sb.WriteString("Investment plan:\n")
	sb.WriteString(result.InvestmentPlan)
	sb.WriteString("\n\nEnd your plan with a line of the exact form:\nFINAL TRANSACTION PROPOSAL: **BUY**, **HOLD**, or **SELL**\n")
	return sb.String()
}

func riskManagerPrompt(ticker string, result *models.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`You are the risk manager with final say on the %s trade.
Review the trader's plan below against the investment plan. State your final
decision and a one-paragraph justification.

`, ticker))
	sb.WriteString("Trader plan:\n")
	sb.WriteString(result.TraderInvestmentPlan)
	sb.WriteString("\n\nInvestment plan:\n")
	sb.WriteString(result.InvestmentPlan)
	sb.WriteString("\n\nEnd with a line of the exact form:\nFINAL TRANSACTION PROPOSAL: **BUY**, **HOLD**, or **SELL**\n")
	return sb.String()
}

func writeAnalystReports(sb *strings.Builder, result *models.AnalysisResult) {
	for _, section := range result.Sections() {
		if section.Content == "" {
			continue
		}
		// The plan sections are inputs to later stages, not analyst output
		if section.Key == "investment_plan" || section.Key == "trader_investment_plan" {
			continue
		}
		sb.WriteString(section.Title)
		sb.WriteString(":\n")
		sb.WriteString(section.Content)
		sb.WriteString("\n\n")
	}
}

func writeDebate(sb *strings.Builder, debate string) {
	if debate == "" {
		sb.WriteString("Debate so far: (none, you open)\n")
		return
	}
	sb.WriteString("Debate so far:\n")
	sb.WriteString(debate)
}
