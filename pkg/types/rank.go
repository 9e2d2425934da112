package types

// HoursPerYear is the number of hourly buckets in an annual profile.
const HoursPerYear = 8760

// RankContext is the household query plans are ranked against. It is built
// per request and read-only.
//
// At most one profile shape should be supplied: BuyKWH+SellKWH (full
// solar/export profile), LoadKWH (consumption only), or none, in which case
// the ranker falls back to estimating usage from BaselineCostAUD.
type RankContext struct {
	Postcode  string    `json:"postcode,omitempty"`
	State     string    `json:"state"`
	Network   string    `json:"network,omitempty"`
	MeterType MeterType `json:"meterType,omitempty"`

	// BaselineCostAUD is the customer's current annual bill, used for deltas
	// and for the no-profile estimation path.
	BaselineCostAUD float64 `json:"baselineCostAUD"`

	// Hourly kWh arrays indexed 0..8759. Bucket 0 is midnight on a Sunday.
	BuyKWH  []float64 `json:"buyKWH,omitempty"`
	SellKWH []float64 `json:"sellKWH,omitempty"`
	LoadKWH []float64 `json:"loadKWH,omitempty"`
}

// HasHourlyProfile reports whether the context carries any hourly data. When
// false the ranker uses the baseline-cost estimation strategy.
func (c *RankContext) HasHourlyProfile() bool {
	return (len(c.BuyKWH) > 0 && len(c.SellKWH) > 0) || len(c.LoadKWH) > 0
}

// PlanScore is one ranked entry returned by the ranker.
type PlanScore struct {
	Plan               RetailPlan `json:"plan"`
	AnnualCostAUD      float64    `json:"annualCostAUD"`
	DeltaVsBaselineAUD float64    `json:"deltaVsBaselineAUD"`

	// Confidence is threaded through from the caller, not derived from data
	// quality.
	Confidence float64 `json:"confidence"`
}
