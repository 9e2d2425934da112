// Package ranker estimates a household's annual cost on candidate retail
// plans and ranks them cheapest-first.
package ranker

import (
	"time"

	"github.com/voltrank/voltrank/pkg/tariff"
	"github.com/voltrank/voltrank/pkg/types"
)

const (
	daysPerYear = 365

	// assumedAvgRateCPerKWH backs an implied annual usage out of the
	// customer's baseline bill when no hourly profile is supplied.
	assumedAvgRateCPerKWH = 30.0

	// Usage split across tiers for the no-profile estimation of a TOU plan.
	estPeakShare     = 0.30
	estShoulderShare = 0.40
	estOffpeakShare  = 0.30
)

// CalcAnnualCost estimates the annual cost in AUD of the plan for the
// household described by ctx. Deterministic for fixed inputs.
//
// Three strategies, highest fidelity first:
//  1. buy+sell hourly arrays: full hour-by-hour integration with feed-in
//     credit,
//  2. load hourly array: same loop, no export,
//  3. neither: baseline-cost estimation via estimateUsageCost.
//
// The total is not clamped at zero: a strong net exporter can legitimately
// come out negative.
func CalcAnnualCost(p *types.RetailPlan, ctx *types.RankContext) float64 {
	supply := p.SupplyCPerDay / 100 * daysPerYear

	var usage, exportRevenue float64
	switch {
	case len(ctx.BuyKWH) > 0 && len(ctx.SellKWH) > 0:
		for h := 0; h < len(ctx.BuyKWH) && h < types.HoursPerYear; h++ {
			dow := time.Weekday((h / 24) % 7)
			usage += ctx.BuyKWH[h] * tariff.RateForHour(p, dow, h%24) / 100
			if h < len(ctx.SellKWH) {
				exportRevenue += ctx.SellKWH[h] * p.FITCPerKWH / 100
			}
		}
	case len(ctx.LoadKWH) > 0:
		for h := 0; h < len(ctx.LoadKWH) && h < types.HoursPerYear; h++ {
			dow := time.Weekday((h / 24) % 7)
			usage += ctx.LoadKWH[h] * tariff.RateForHour(p, dow, h%24) / 100
		}
	default:
		usage = estimateUsageCost(p, supply, ctx.BaselineCostAUD)
	}

	return supply + usage - exportRevenue
}

// estimateUsageCost is the lowest-fidelity strategy, used only when the
// context carries no hourly data at all. It backs an implied annual kWh out
// of the baseline bill less the candidate plan's own supply component at an
// assumed average rate, then redistributes that usage across the plan's own
// rate structure: 30/40/30 peak/shoulder/offpeak when both optional tiers
// are published, otherwise everything at peak.
func estimateUsageCost(p *types.RetailPlan, supplyAUD, baselineAUD float64) float64 {
	impliedKWH := (baselineAUD - supplyAUD) / (assumedAvgRateCPerKWH / 100)
	if impliedKWH < 0 {
		impliedKWH = 0
	}

	if p.UsageCPerKWHShoulder != nil && p.UsageCPerKWHOffpeak != nil {
		blended := estPeakShare*p.UsageCPerKWHPeak +
			estShoulderShare**p.UsageCPerKWHShoulder +
			estOffpeakShare**p.UsageCPerKWHOffpeak
		return impliedKWH * blended / 100
	}
	return impliedKWH * p.UsageCPerKWHPeak / 100
}
