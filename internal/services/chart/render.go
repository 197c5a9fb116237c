package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/verdict/internal/models"
)

// Render renders a chart spec to PNG bytes: the close-price line over three
// filled decision bands, with reference lines at the current price, support
// and resistance.
func (s *Service) Render(spec *models.ChartSpec) ([]byte, error) {
	if len(spec.Closes) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(spec.Closes))
	}

	// Bands are painted as stacked constant fills, top down: each later
	// series covers the one below it down to its own level, leaving the
	// sell band red, the hold band yellow and the buy band green.
	sellBand := bandSeries(spec, spec.SellBandTop, drawing.Color{R: 239, G: 68, B: 68, A: 70})
	holdBand := bandSeries(spec, spec.Resistance, drawing.Color{R: 250, G: 204, B: 21, A: 60})
	buyBand := bandSeries(spec, spec.Support, drawing.Color{R: 34, G: 197, B: 94, A: 70})

	priceSeries := chart.TimeSeries{
		Name: fmt.Sprintf("%s Price", spec.Ticker),
		Style: chart.Style{
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 2.0,
		},
		XValues: spec.Dates,
		YValues: spec.Closes,
	}

	currentLine := lineSeries(spec, spec.CurrentPrice,
		fmt.Sprintf("Current: $%.2f", spec.CurrentPrice),
		chart.Style{
			StrokeColor:     drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth:     2.0,
			StrokeDashArray: []float64{5.0, 3.0},
		})
	supportLine := lineSeries(spec, spec.Support,
		fmt.Sprintf("Support: $%.2f", spec.Support),
		chart.Style{
			StrokeColor:     drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{2.0, 2.0},
		})
	resistanceLine := lineSeries(spec, spec.Resistance,
		fmt.Sprintf("Resistance: $%.2f", spec.Resistance),
		chart.Style{
			StrokeColor:     drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{2.0, 2.0},
		})

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Trading Analysis | Price: $%.2f | Decision: %s", spec.Ticker, spec.CurrentPrice, spec.Decision),
		Width:  1200,
		Height: 700,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: spec.BuyBandBottom,
				Max: spec.SellBandTop,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			sellBand,
			holdBand,
			buyBand,
			priceSeries,
			currentLine,
			supportLine,
			resistanceLine,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// bandSeries builds a constant series filled down to the plot floor.
func bandSeries(spec *models.ChartSpec, level float64, fill drawing.Color) chart.TimeSeries {
	ys := make([]float64, len(spec.Dates))
	for i := range ys {
		ys[i] = level
	}
	return chart.TimeSeries{
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			FillColor:   fill,
		},
		XValues: spec.Dates,
		YValues: ys,
	}
}

// lineSeries builds a constant horizontal reference line.
func lineSeries(spec *models.ChartSpec, level float64, name string, style chart.Style) chart.TimeSeries {
	ys := make([]float64, len(spec.Dates))
	for i := range ys {
		ys[i] = level
	}
	return chart.TimeSeries{
		Name:    name,
		Style:   style,
		XValues: spec.Dates,
		YValues: ys,
	}
}
