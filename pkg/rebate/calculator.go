// Package rebate computes Australian federal and state/territory battery
// incentives for a given install date and household, with a full trace of
// which rules fired or were skipped.
package rebate

import (
	"math"

	"github.com/voltrank/voltrank/pkg/types"
)

// Config carries per-request scheme state. It is injected on every call so
// it can vary per tenant without cross-request interference.
type Config struct {
	// NTSchemeFunded reflects whether the NT grant pool currently has funds.
	NTSchemeFunded bool `json:"ntSchemeFunded"`
}

// Calculate computes every applicable cash incentive and financing option for
// the inputs. It never fails for structurally valid input: an unrecognized
// jurisdiction degrades to an all-zero result with an explanatory note.
func Calculate(in types.RebateInputs, cfg Config) types.RebateResult {
	res := types.RebateResult{EligibilityNotes: []string{}}

	calculateFederal(in, &res)

	if j, ok := ParseJurisdiction(in.StateOrTerritory); ok {
		stateRules[j](in, cfg, &res)
	} else {
		res.AddNote("unrecognized jurisdiction %q: no state or territory incentives applied", in.StateOrTerritory)
	}

	res.TotalCashIncentive = res.FederalDiscount + res.StateRebate + res.VPPBonus + res.NTGrant
	return res
}

// calculateFederal applies the federal battery discount: usable capacity
// times the install year's certificate factor, floored to whole certificates,
// times the STC spot price.
func calculateFederal(in types.RebateInputs, res *types.RebateResult) {
	if in.InstallDate.Before(federalProgramStart) {
		res.AddNote("federal battery discount: install date %s is before the program start %s",
			in.InstallDate.Format("2006-01-02"), federalProgramStart.Format("2006-01-02"))
		return
	}
	if !in.HasRooftopSolar {
		res.AddNote("federal battery discount: requires rooftop solar")
		return
	}
	if !in.Battery.OnApprovedList {
		res.AddNote("federal battery discount: battery is not on the approved product list")
		return
	}

	year := in.InstallDate.Year()
	factor, ok := stcFactorByYear[year]
	if !ok {
		res.AddNote("federal battery discount: no certificate factor published for %d", year)
		return
	}

	spot := in.STCSpotPrice
	if spot <= 0 {
		spot = DefaultSTCSpotPrice
		res.AddNote("federal battery discount: using default STC spot price of $%.2f", spot)
	}

	certificates := math.Floor(in.Battery.UsableKWH * factor)
	if certificates <= 0 {
		res.AddNote("federal battery discount: capacity %.1f kWh yields no certificates", in.Battery.UsableKWH)
		return
	}

	res.FederalDiscount = certificates * spot
	res.AddNote("federal battery discount: %.0f certificates at $%.2f = $%.2f", certificates, spot, res.FederalDiscount)
}
