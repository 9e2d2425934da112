package normalize

import (
	"strings"
	"time"

	"github.com/voltrank/voltrank/pkg/types"
)

// The upstream CDR feed quotes charges in dollars; the engine works in cents.
const dollarsToCents = 100

var (
	allDays  = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

// Normalize converts a raw upstream plan document into a canonical
// RetailPlan, or nil when the document isn't usable: wrong fuel type, no
// recognizable contract/tariff section, or a non-positive supply charge or
// peak rate. Those last two are the invariants the ranker depends on, so
// they're enforced here at the boundary.
//
// The same concept shows up under several field spellings upstream; every
// resolution below tries an ordered candidate list and takes the first hit.
func Normalize(raw map[string]any) *types.RetailPlan {
	if fuel, ok := firstString(raw, "fuelType", "fuel", "planData.fuelType"); ok {
		f := strings.ToUpper(fuel)
		if !strings.Contains(f, "ELECTRICITY") && !strings.Contains(f, "DUAL") {
			return nil
		}
	}

	contract, ok := firstMap(raw, "electricityContract", "planData.electricityContract", "contract", "tariffDetails")
	if !ok {
		return nil
	}

	p := &types.RetailPlan{
		MeterType: types.MeterTypeSingle,
	}
	p.Retailer, _ = firstString(raw, "brandName", "brand", "retailer")
	p.PlanName, _ = firstString(raw, "displayName", "planName", "name")
	p.State, _ = firstString(raw, "geography.state", "state")
	p.Network = resolveNetwork(raw)
	if p.Source, ok = firstString(raw, "source"); !ok {
		p.Source = "cdr"
	}

	supply, ok := resolveSupplyCharge(contract)
	if !ok || supply <= 0 {
		return nil
	}
	p.SupplyCPerDay = supply * dollarsToCents

	if !resolveUsageRates(contract, p) {
		return nil
	}
	if p.UsageCPerKWHPeak <= 0 {
		return nil
	}

	if fit, ok := resolveFeedIn(raw, contract); ok && fit >= 0 {
		p.FITCPerKWH = fit * dollarsToCents
	}

	if demand, ok := resolveDemand(contract); ok {
		d := demand * dollarsToCents
		p.DemandCPerKW = &d
		// a demand charge section forces the demand meter type regardless of
		// what the usage rates look like
		p.MeterType = types.MeterTypeDemand
	}

	if cl, ok := resolveControlledLoad(contract); ok {
		c := cl * dollarsToCents
		p.ControlledCPerKWH = &c
	}

	if from, ok := firstString(raw, "effectiveFrom"); ok {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			p.EffectiveFrom = &t
		}
	}
	if to, ok := firstString(raw, "effectiveTo"); ok {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			p.EffectiveTo = &t
		}
	}

	if p.MeterType == types.MeterTypeSingle {
		// single-rate plans carry one all-day all-week window by invariant
		p.TOUWindows = []types.TOUWindow{{
			Label: types.RateLabelPeak,
			Days:  allDays,
			Start: "00:00",
			End:   "24:00",
		}}
	}

	p.Hash = PlanHash(p)
	if p.ID, ok = firstString(raw, "planId", "id"); !ok {
		p.ID = p.Hash
	}
	return p
}

// resolveSupplyCharge finds the daily supply charge in dollars. Three shapes
// observed upstream: a contract-level field, a differently-spelled
// contract-level field, and a per-tariff-period field.
func resolveSupplyCharge(contract map[string]any) (float64, bool) {
	if v, ok := firstNumber(contract, "dailySupplyCharge", "dailySupplyCharges", "supplyCharge"); ok {
		return v, true
	}
	periods, ok := tariffPeriods(contract)
	if !ok {
		return 0, false
	}
	for _, pv := range periods {
		period, ok := pv.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := firstNumber(period, "dailySupplyCharge", "dailySupplyCharges", "supplyCharge"); ok {
			return v, true
		}
	}
	return 0, false
}

func tariffPeriods(contract map[string]any) ([]any, bool) {
	return firstSlice(contract, "tariffPeriod", "tariffPeriods", "periods")
}

// resolveUsageRates extracts peak/shoulder/off-peak rates and their
// time-of-use windows from the contract's tariff periods. It returns false
// when no usage rate can be found at all, which means the document has no
// recognizable tariff section.
func resolveUsageRates(contract map[string]any, p *types.RetailPlan) bool {
	var peakWindows, shoulderWindows, offpeakWindows []types.TOUWindow
	var found bool

	periods, ok := tariffPeriods(contract)
	if !ok {
		// flat shape: a single rate directly on the contract
		if v, ok := firstNumber(contract, "unitPrice", "usageRate", "peakRate"); ok {
			p.UsageCPerKWHPeak = v * dollarsToCents
			return true
		}
		return false
	}

	for _, pv := range periods {
		period, ok := pv.(map[string]any)
		if !ok {
			continue
		}

		if single, ok := firstMap(period, "singleRate"); ok {
			if v, ok := ratesUnitPrice(single); ok {
				p.UsageCPerKWHPeak = v * dollarsToCents
				found = true
			}
		}

		tou, ok := firstSlice(period, "timeOfUseRates", "touRates")
		if !ok {
			continue
		}
		for _, tv := range tou {
			entry, ok := tv.(map[string]any)
			if !ok {
				continue
			}
			label := labelForType(entry)
			rate, ok := ratesUnitPrice(entry)
			if !ok {
				continue
			}
			found = true
			cents := rate * dollarsToCents
			switch label {
			case types.RateLabelShoulder:
				p.UsageCPerKWHShoulder = &cents
			case types.RateLabelOffpeak:
				p.UsageCPerKWHOffpeak = &cents
			default:
				p.UsageCPerKWHPeak = cents
			}

			windows := extractWindows(entry, label)
			switch label {
			case types.RateLabelShoulder:
				shoulderWindows = append(shoulderWindows, windows...)
			case types.RateLabelOffpeak:
				offpeakWindows = append(offpeakWindows, windows...)
			default:
				peakWindows = append(peakWindows, windows...)
			}
		}
	}

	if !found {
		return false
	}

	if len(peakWindows)+len(shoulderWindows)+len(offpeakWindows) > 0 {
		p.MeterType = types.MeterTypeTOU
		// peak before shoulder before off-peak so the resolver's first-match
		// lookup never lets a broad off-peak window shadow a peak one
		p.TOUWindows = append(append(peakWindows, shoulderWindows...), offpeakWindows...)
	} else if p.UsageCPerKWHShoulder != nil || p.UsageCPerKWHOffpeak != nil {
		p.MeterType = types.MeterTypeTOU
	}
	return true
}

// ratesUnitPrice digs a unit price out of a rate holder: either a nested
// rates list or a direct field.
func ratesUnitPrice(holder map[string]any) (float64, bool) {
	if rates, ok := firstSlice(holder, "rates"); ok {
		if rm, ok := rates[0].(map[string]any); ok {
			if v, ok := firstNumber(rm, "unitPrice", "price", "amount"); ok {
				return v, true
			}
		}
	}
	return firstNumber(holder, "unitPrice", "price", "rate")
}

func labelForType(entry map[string]any) types.RateLabel {
	t, _ := firstString(entry, "type", "timeOfUseRateType", "period")
	u := strings.ToUpper(t)
	switch {
	case strings.Contains(u, "OFF"):
		return types.RateLabelOffpeak
	case strings.Contains(u, "SHOULDER"):
		return types.RateLabelShoulder
	default:
		return types.RateLabelPeak
	}
}

// extractWindows pulls the time-of-use windows for one rate entry. When the
// source doesn't say which days apply, off-peak periods default to every day
// and peak/shoulder periods to weekdays; that heuristic matches how AU
// retailers overwhelmingly publish these schedules (recorded in DESIGN.md).
func extractWindows(entry map[string]any, label types.RateLabel) []types.TOUWindow {
	defaults := weekdays
	if label == types.RateLabelOffpeak {
		defaults = allDays
	}

	tous, ok := firstSlice(entry, "timeOfUse", "windows", "schedule")
	if !ok {
		return []types.TOUWindow{{Label: label, Days: defaults, Start: "00:00", End: "24:00"}}
	}

	var out []types.TOUWindow
	for _, tv := range tous {
		tm, ok := tv.(map[string]any)
		if !ok {
			continue
		}
		w := types.TOUWindow{Label: label}
		w.Start, _ = firstString(tm, "startTime", "start")
		if w.End, ok = firstString(tm, "endTime", "end"); !ok {
			w.End = "24:00"
		}
		if w.Start == "" {
			w.Start = "00:00"
		}
		if days, ok := firstSlice(tm, "days"); ok {
			w.Days = parseDays(days)
		}
		if len(w.Days) == 0 {
			w.Days = defaults
		}
		out = append(out, w)
	}
	return out
}

var dayNames = map[string]time.Weekday{
	"SUN": time.Sunday, "SUNDAY": time.Sunday,
	"MON": time.Monday, "MONDAY": time.Monday,
	"TUE": time.Tuesday, "TUES": time.Tuesday, "TUESDAY": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"THU": time.Thursday, "THURS": time.Thursday, "THURSDAY": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday,
}

// parseDays canonicalizes upstream day sets onto time.Weekday. Named days
// are unambiguous. Numeric days upstream use 0=Monday..6=Sunday, so they are
// shifted here; nothing past the normalizer ever sees that convention.
func parseDays(days []any) []time.Weekday {
	var out []time.Weekday
	for _, dv := range days {
		switch d := dv.(type) {
		case string:
			u := strings.ToUpper(strings.TrimSpace(d))
			if u == "BUSINESS_DAYS" || u == "WEEKDAYS" {
				out = append(out, weekdays...)
				continue
			}
			if u == "WEEKENDS" {
				out = append(out, time.Saturday, time.Sunday)
				continue
			}
			if wd, ok := dayNames[u]; ok {
				out = append(out, wd)
			}
		default:
			if n, ok := asNumber(dv); ok && n >= 0 && n <= 6 {
				out = append(out, time.Weekday((int(n)+1)%7))
			}
		}
	}
	return out
}

// resolveFeedIn finds the solar feed-in tariff in dollars per kWh.
func resolveFeedIn(raw, contract map[string]any) (float64, bool) {
	if fits, ok := firstSlice(raw, "solarFeedInTariff", "planData.solarFeedInTariff"); ok {
		if fm, ok := fits[0].(map[string]any); ok {
			if single, ok := firstMap(fm, "singleTariff"); ok {
				if v, ok := ratesUnitPrice(single); ok {
					return v, true
				}
			}
			if v, ok := firstNumber(fm, "amount", "rate"); ok {
				return v, true
			}
		}
	}
	return firstNumber(contract, "solarFeedInTariff", "feedInTariff", "fit")
}

// resolveDemand finds a demand charge in dollars per kW, if any.
func resolveDemand(contract map[string]any) (float64, bool) {
	if charges, ok := firstSlice(contract, "demandCharges"); ok {
		if cm, ok := charges[0].(map[string]any); ok {
			return firstNumber(cm, "amount", "rate", "unitPrice")
		}
	}
	return firstNumber(contract, "demandCharge")
}

// resolveControlledLoad finds a controlled-load rate in dollars per kWh.
func resolveControlledLoad(contract map[string]any) (float64, bool) {
	if cl, ok := firstMap(contract, "controlledLoad"); ok {
		if single, ok := firstMap(cl, "singleRate"); ok {
			if v, ok := ratesUnitPrice(single); ok {
				return v, true
			}
		}
		return firstNumber(cl, "rate", "unitPrice")
	}
	return firstNumber(contract, "controlledLoadRate")
}

// resolveNetwork finds the distribution network, which is sometimes a field
// and sometimes the first entry of a distributors list.
func resolveNetwork(raw map[string]any) string {
	if n, ok := firstString(raw, "geography.network", "network", "distributor"); ok {
		return n
	}
	if ds, ok := firstSlice(raw, "geography.distributors", "distributors"); ok {
		if s, ok := ds[0].(string); ok {
			return s
		}
	}
	return ""
}
