// Package tariff resolves which usage rate a plan charges at a given
// day-of-week and hour-of-day.
package tariff

import (
	"time"

	"github.com/voltrank/voltrank/pkg/types"
)

// RateForHour returns the applicable usage rate in cents per kWh for the plan
// at the given day-of-week and hour-of-day (0-23).
//
// The first window whose day set contains dow and whose half-open hour range
// contains hour wins. If no window matches, the hour is billed at the
// off-peak label. Labels degrade through RateForLabel so a plan that only
// publishes a peak rate still resolves for every hour.
//
// Pure and O(len(windows)); the simulator calls this up to 8760 times per
// plan.
func RateForHour(p *types.RetailPlan, dow time.Weekday, hour int) float64 {
	label := types.RateLabelOffpeak
	for i := range p.TOUWindows {
		if p.TOUWindows[i].Contains(dow, hour) {
			label = p.TOUWindows[i].Label
			break
		}
	}
	return RateForLabel(p, label)
}

// RateForLabel maps a window label to the plan's rate for it, degrading
// through shoulder then peak when the optional tiers are absent. Peak is
// required on every plan, so the chain always terminates in a real rate.
func RateForLabel(p *types.RetailPlan, label types.RateLabel) float64 {
	switch label {
	case types.RateLabelShoulder:
		if p.UsageCPerKWHShoulder != nil {
			return *p.UsageCPerKWHShoulder
		}
	case types.RateLabelOffpeak:
		if p.UsageCPerKWHOffpeak != nil {
			return *p.UsageCPerKWHOffpeak
		}
		if p.UsageCPerKWHShoulder != nil {
			return *p.UsageCPerKWHShoulder
		}
	}
	return p.UsageCPerKWHPeak
}
