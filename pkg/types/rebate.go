package types

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with day granularity. All rebate eligibility rules
// compare dates at the day level, so there is no time-of-day ambiguity.
type Date struct {
	time.Time
}

// NewDate returns a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Before reports whether d is strictly before o, comparing calendar days.
func (d Date) Before(o Date) bool {
	return d.truncated().Before(o.truncated())
}

func (d Date) truncated() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or a full RFC3339 timestamp, truncating
// the latter to its calendar day.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// BatterySpec describes the battery being installed.
type BatterySpec struct {
	UsableKWH      float64 `json:"usableKWH"`
	VPPCapable     bool    `json:"vppCapable"`
	OnApprovedList bool    `json:"onApprovedList"`
}

// RebateInputs is a point-in-time eligibility query. It is pure function
// input and is never persisted.
type RebateInputs struct {
	InstallDate      Date        `json:"installDate"`
	StateOrTerritory string      `json:"stateOrTerritory"`
	HasRooftopSolar  bool        `json:"hasRooftopSolar"`
	Battery          BatterySpec `json:"battery"`

	// HouseholdIncome is optional; income-gated programs are skipped when it
	// is not provided.
	HouseholdIncome *float64 `json:"householdIncome,omitempty"`

	// STCSpotPrice is the AUD spot price per certificate. Zero or negative
	// means "use the default".
	STCSpotPrice float64 `json:"stcSpotPrice,omitempty"`

	JoinsVPP bool `json:"joinsVPP"`

	// HorizonPowerArea distinguishes the two WA utility areas, which carry
	// different rebate caps.
	HorizonPowerArea bool `json:"horizonPowerArea,omitempty"`
}

// LoanOffer is an informational financing option. Loans never count toward
// the cash incentive total.
type LoanOffer struct {
	Program         string  `json:"program"`
	MaxAmountAUD    float64 `json:"maxAmountAUD"`
	InterestRatePct float64 `json:"interestRatePct"`
}

// RebateResult is the computed set of incentives. EligibilityNotes is part of
// the contract, not logging: every rule appends at least one note whether it
// fired or was skipped, and callers assert on note substrings.
type RebateResult struct {
	FederalDiscount    float64     `json:"federalDiscount"`
	StateRebate        float64     `json:"stateRebate"`
	VPPBonus           float64     `json:"vppBonus"`
	NTGrant            float64     `json:"ntGrant"`
	TotalCashIncentive float64     `json:"totalCashIncentive"`
	FinancingOptions   []LoanOffer `json:"financingOptions,omitempty"`
	EligibilityNotes   []string    `json:"eligibilityNotes"`
}

// AddNote appends a formatted entry to EligibilityNotes.
func (r *RebateResult) AddNote(format string, args ...any) {
	r.EligibilityNotes = append(r.EligibilityNotes, fmt.Sprintf(format, args...))
}
