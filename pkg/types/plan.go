package types

import (
	"strconv"
	"strings"
	"time"
)

// MeterType describes the metering configuration a plan is priced for.
type MeterType string

const (
	MeterTypeSingle MeterType = "single"
	MeterTypeTOU    MeterType = "tou"
	MeterTypeDemand MeterType = "demand"
)

// RateLabel identifies which usage rate a time-of-use window charges.
type RateLabel string

const (
	RateLabelPeak     RateLabel = "peak"
	RateLabelShoulder RateLabel = "shoulder"
	RateLabelOffpeak  RateLabel = "offpeak"
)

// TOUWindow defines a time-of-use schedule entry for a plan.
//
// Days uses time.Weekday (0=Sunday..6=Saturday). Upstream plan documents mix
// day conventions; the normalizer converts them at the boundary so nothing
// past it ever sees anything but time.Weekday.
//
// Start and End are "HH:MM" strings. Matching is hour-granular: minutes are
// truncated, never interpolated. The hour range is half-open [start, end) and
// may wrap midnight (e.g. 22:00-06:00). "24:00" is a valid End meaning
// end-of-day.
type TOUWindow struct {
	Label RateLabel      `json:"label"`
	Days  []time.Weekday `json:"days,omitempty"`
	Start string         `json:"start"`
	End   string         `json:"end"`
}

// startHour returns the window's starting hour, minutes truncated.
func (w *TOUWindow) startHour() int {
	return parseHour(w.Start, 0)
}

// endHour returns the window's ending hour, minutes truncated. A missing or
// unparsable End defaults to 24 so a bare window still covers something.
func (w *TOUWindow) endHour() int {
	return parseHour(w.End, 24)
}

func parseHour(s string, def int) int {
	h, _, _ := strings.Cut(s, ":")
	n, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || n < 0 || n > 24 {
		return def
	}
	return n
}

// Contains reports whether the window applies at the given day-of-week and
// hour-of-day. An empty Days list matches every day.
func (w *TOUWindow) Contains(dow time.Weekday, hour int) bool {
	if len(w.Days) > 0 {
		var found bool
		for _, d := range w.Days {
			if d == dow {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	start, end := w.startHour(), w.endHour()
	if start < end {
		return hour >= start && hour < end
	}
	// start >= end wraps midnight; start == end covers the whole day
	return hour >= start || hour < end
}

// RetailPlan is the canonical record for a retailer's electricity offer.
// Plans are immutable once normalized: refreshed upstream data produces a new
// record with an updated LastRefreshed, upserted by Hash.
type RetailPlan struct {
	ID       string `json:"id"`
	Retailer string `json:"retailer"`
	PlanName string `json:"planName"`
	Source   string `json:"source"`
	Hash     string `json:"hash"`

	State     string    `json:"state"`
	Network   string    `json:"network,omitempty"`
	MeterType MeterType `json:"meterType"`

	// All charges are in cents. Peak is always set; Shoulder and Offpeak are
	// nil on plans that don't publish those tiers (see tariff.RateForHour for
	// the fallback chain).
	SupplyCPerDay        float64  `json:"supplyCPerDay"`
	UsageCPerKWHPeak     float64  `json:"usageCPerKWHPeak"`
	UsageCPerKWHShoulder *float64 `json:"usageCPerKWHShoulder,omitempty"`
	UsageCPerKWHOffpeak  *float64 `json:"usageCPerKWHOffpeak,omitempty"`
	FITCPerKWH           float64  `json:"fitCPerKWH"`
	DemandCPerKW         *float64 `json:"demandCPerKW,omitempty"`
	ControlledCPerKWH    *float64 `json:"controlledCPerKWH,omitempty"`

	TOUWindows []TOUWindow `json:"touWindows,omitempty"`

	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	LastRefreshed time.Time  `json:"lastRefreshed"`
}
