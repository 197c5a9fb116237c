package analysis

import (
	"strings"

	"github.com/bobmcallan/verdict/internal/models"
)

// ClassifyDecision derives a Decision from the engine's free-form decision
// text by case-insensitive substring match, checked in the fixed priority
// order BUY, SELL, HOLD. First match wins; text containing no keyword
// classifies as HOLD.
func ClassifyDecision(decisionText string) models.Decision {
	upper := strings.ToUpper(decisionText)

	switch {
	case strings.Contains(upper, string(models.DecisionBuy)):
		return models.DecisionBuy
	case strings.Contains(upper, string(models.DecisionSell)):
		return models.DecisionSell
	default:
		return models.DecisionHold
	}
}
