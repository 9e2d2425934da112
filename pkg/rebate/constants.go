package rebate

import (
	"math"
	"time"

	"github.com/voltrank/voltrank/pkg/types"
)

// DefaultSTCSpotPrice is the AUD per-certificate price assumed when the
// caller doesn't supply a quote.
const DefaultSTCSpotPrice = 38.5

// federalProgramStart is the first install date eligible for the federal
// battery discount (Cheaper Home Batteries Program).
var federalProgramStart = types.NewDate(2025, time.July, 1)

// stcFactorByYear maps install calendar year to certificates per usable kWh.
// The factor declines each year until the scheme sunsets; a year missing from
// the table means the program isn't available that year, not an error.
var stcFactorByYear = map[int]float64{
	2025: 9.3,
	2026: 8.4,
	2027: 7.4,
	2028: 6.5,
	2029: 5.6,
	2030: 4.7,
}

// capacityTier is one band of a capacity-keyed bonus table. Bands are
// [min, max) with the topmost band unbounded above.
type capacityTier struct {
	maxExclusiveKWH float64
	amountAUD       float64
}

// NSW Peak Demand Reduction Scheme VPP incentive.
var (
	nswVPPStart = types.NewDate(2024, time.November, 1)
	nswVPPTiers = []capacityTier{
		{maxExclusiveKWH: 10, amountAUD: 400},
		{maxExclusiveKWH: 20, amountAUD: 800},
		{maxExclusiveKWH: math.Inf(1), amountAUD: 1200},
	}
)

// WA Residential Battery Scheme: capacity-linear with a cap that depends on
// which utility serves the household.
var (
	waRebateStart = types.NewDate(2025, time.July, 1)
)

const (
	waRebatePerKWHAUD = 130
	waCapSynergyAUD   = 5000
	waCapHorizonAUD   = 7500
)

// VIC Solar Victoria battery loan: interest-free, income-gated.
const (
	vicIncomeThresholdAUD = 210000
	vicLoanMaxAUD         = 8800
	vicLoanRatePct        = 0
)

// TAS Energy Saver Loan Scheme: low-interest, no income test.
var tasLoanStart = types.NewDate(2022, time.April, 1)

const (
	tasLoanMaxAUD  = 10000
	tasLoanRatePct = 2.99
)

// ACT Sustainable Household Scheme: unconditional zero-interest loan.
const (
	actLoanMaxAUD  = 15000
	actLoanRatePct = 0
)

// NT Home and Business Battery Scheme: capacity-linear grant with a hard
// cap. The grant pool exhausts and reopens, so availability is an injected
// Config value rather than a date gate.
const (
	ntGrantPerKWHAUD = 400
	ntGrantCapAUD    = 12000
)

// tierAmount returns the bonus for a capacity, honoring [min, max) bands.
func tierAmount(tiers []capacityTier, usableKWH float64) float64 {
	for _, t := range tiers {
		if usableKWH < t.maxExclusiveKWH {
			return t.amountAUD
		}
	}
	// unreachable when the last tier is unbounded
	return 0
}
