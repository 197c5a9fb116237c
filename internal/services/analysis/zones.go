package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/verdict/internal/models"
)

// Fixed zone multipliers: support sits 8% below the current price,
// resistance 10% above. This is the entire support/resistance model.
var (
	supportMultiplier    = decimal.NewFromFloat(0.92)
	resistanceMultiplier = decimal.NewFromFloat(1.10)
)

// ComputeZones derives the buy/hold/sell decision zones from a current
// price, rounded to cents. Pure function, no I/O. Callers are responsible
// for rejecting non-positive prices before using the zones downstream.
func ComputeZones(currentPrice float64) models.DecisionZones {
	price := decimal.NewFromFloat(currentPrice)

	support, _ := price.Mul(supportMultiplier).Round(2).Float64()
	resistance, _ := price.Mul(resistanceMultiplier).Round(2).Float64()

	return models.DecisionZones{
		Support:    support,
		Resistance: resistance,
	}
}
