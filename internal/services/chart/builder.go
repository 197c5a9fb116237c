// Package chart builds and renders decision-zone price charts
package chart

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/verdict/internal/common"
	"github.com/bobmcallan/verdict/internal/interfaces"
	"github.com/bobmcallan/verdict/internal/models"
)

// BuildSpec derives the drawable content of a decision chart from a
// historical close series and the decision zones. Pure function.
//
// Band boundaries are padded from the historical min/max (5% each way) and
// clamped to the zone values, so the band ordering
// buy bottom <= support <= resistance <= sell top always holds even when
// the live price sits outside the historical range.
func BuildSpec(ticker string, bars []models.EODBar, zones models.DecisionZones, currentPrice float64, decision models.Decision) (*models.ChartSpec, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNoHistoricalData, ticker)
	}

	spec := &models.ChartSpec{
		Ticker:       ticker,
		CurrentPrice: currentPrice,
		Support:      zones.Support,
		Resistance:   zones.Resistance,
		Decision:     decision,
	}

	minClose := bars[0].Close
	maxClose := bars[0].Close
	for _, bar := range bars {
		spec.Dates = append(spec.Dates, bar.Date)
		spec.Closes = append(spec.Closes, bar.Close)
		if bar.Close < minClose {
			minClose = bar.Close
		}
		if bar.Close > maxClose {
			maxClose = bar.Close
		}
	}

	spec.BuyBandBottom = minClose * 0.95
	if spec.BuyBandBottom > zones.Support {
		spec.BuyBandBottom = zones.Support
	}
	spec.SellBandTop = maxClose * 1.05
	if spec.SellBandTop < zones.Resistance {
		spec.SellBandTop = zones.Resistance
	}

	spec.Annotation = buildAnnotation(spec)

	return spec, nil
}

// buildAnnotation renders the chart's summary text block.
func buildAnnotation(spec *models.ChartSpec) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 40)

	sb.WriteString(fmt.Sprintf("TRADING RECOMMENDATION: %s\n", spec.Decision))
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Current Price:  %s\n", common.FormatMoney(spec.CurrentPrice)))
	sb.WriteString(fmt.Sprintf("Support:        %s\n", common.FormatMoney(spec.Support)))
	sb.WriteString(fmt.Sprintf("Resistance:     %s\n", common.FormatMoney(spec.Resistance)))
	sb.WriteString(rule + "\n")
	sb.WriteString("ZONES:\n")
	sb.WriteString(fmt.Sprintf("- BUY:  Below %s\n", common.FormatMoney(spec.Support)))
	sb.WriteString(fmt.Sprintf("- HOLD: %s - %s\n", common.FormatMoney(spec.Support), common.FormatMoney(spec.Resistance)))
	sb.WriteString(fmt.Sprintf("- SELL: Above %s\n", common.FormatMoney(spec.Resistance)))

	return sb.String()
}
