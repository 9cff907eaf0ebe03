package investment

import "github.com/roach88/lifesim/internal/model"

// Shock parameters.
const (
	CrashChance    = 0.05
	BoomChance     = 0.05
	BaseInflation  = 0.02
	InflationRange = 0.01
)

// GenerateMarket draws one year's market modifiers.
//
// Fixed-rate classes always get 0. Variable classes draw uniformly within
// their MarketRange. A crash and a boom are rolled independently; both may
// happen in the same year but never on the same class.
func GenerateMarket(r model.Rand) model.Market {
	return generateMarket(r, Classes)
}

// generateMarket is GenerateMarket over classes. A shock with no class left
// to hit is rolled but has no effect.
func generateMarket(r model.Rand, classes []Class) model.Market {
	m := model.Market{Returns: make(map[model.AssetClass]float64, len(classes))}

	var volatile []model.AssetClass
	for _, c := range classes {
		if c.Fixed() {
			m.Returns[c.ID] = 0
			continue
		}
		volatile = append(volatile, c.ID)
		m.Returns[c.ID] = model.Uniform(r, -c.MarketRange, c.MarketRange)
	}

	if model.Roll(r, CrashChance) && len(volatile) > 0 {
		m.Crash = volatile[r.IntN(len(volatile))]
		m.Returns[m.Crash] = -model.Uniform(r, 0.3, 0.6)
	}
	if model.Roll(r, BoomChance) {
		candidates := make([]model.AssetClass, 0, len(volatile))
		for _, id := range volatile {
			if id != m.Crash {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) > 0 {
			m.Boom = candidates[r.IntN(len(candidates))]
			m.Returns[m.Boom] = model.Uniform(r, 0.3, 0.7)
		}
	}

	m.Inflation = model.Uniform(r, BaseInflation-InflationRange, BaseInflation+InflationRange)
	return m
}
