package rebate

import (
	"math"

	"github.com/voltrank/voltrank/pkg/types"
)

// stateRule computes one jurisdiction's incentives. Rules are independent:
// each only touches StateRebate, VPPBonus, NTGrant, or FinancingOptions, and
// always leaves at least one note behind.
type stateRule func(in types.RebateInputs, cfg Config, res *types.RebateResult)

var stateRules = map[Jurisdiction]stateRule{
	NSW: ruleNSW,
	VIC: ruleVIC,
	QLD: ruleNoProgram("QLD"),
	WA:  ruleWA,
	SA:  ruleNoProgram("SA"),
	TAS: ruleTAS,
	ACT: ruleACT,
	NT:  ruleNT,
}

// ruleNSW applies the tiered VPP incentive, keyed by battery capacity band.
func ruleNSW(in types.RebateInputs, _ Config, res *types.RebateResult) {
	if !in.Battery.VPPCapable {
		res.AddNote("NSW VPP incentive: battery is not VPP capable")
		return
	}
	if !in.JoinsVPP {
		res.AddNote("NSW VPP incentive: requires joining a virtual power plant")
		return
	}
	if in.InstallDate.Before(nswVPPStart) {
		res.AddNote("NSW VPP incentive: install date before scheme start %s", nswVPPStart.Format("2006-01-02"))
		return
	}
	res.VPPBonus = tierAmount(nswVPPTiers, in.Battery.UsableKWH)
	res.AddNote("NSW VPP incentive: $%.0f for a %.1f kWh battery", res.VPPBonus, in.Battery.UsableKWH)
}

// ruleWA applies the capacity-linear rebate; Synergy and Horizon Power areas
// carry different caps.
func ruleWA(in types.RebateInputs, _ Config, res *types.RebateResult) {
	if in.InstallDate.Before(waRebateStart) {
		res.AddNote("WA battery rebate: install date before scheme start %s", waRebateStart.Format("2006-01-02"))
		return
	}
	if !in.Battery.VPPCapable || !in.JoinsVPP {
		res.AddNote("WA battery rebate: requires VPP participation")
		return
	}
	cap := float64(waCapSynergyAUD)
	area := "Synergy"
	if in.HorizonPowerArea {
		cap = waCapHorizonAUD
		area = "Horizon Power"
	}
	res.StateRebate = math.Min(in.Battery.UsableKWH*waRebatePerKWHAUD, cap)
	res.AddNote("WA battery rebate: $%.0f (%s area, capped at $%.0f)", res.StateRebate, area, cap)
}

// ruleVIC offers the income-gated interest-free loan.
func ruleVIC(in types.RebateInputs, _ Config, res *types.RebateResult) {
	if in.HouseholdIncome == nil {
		res.AddNote("VIC interest-free loan: household income not provided, cannot assess")
		return
	}
	if *in.HouseholdIncome > vicIncomeThresholdAUD {
		res.AddNote("VIC interest-free loan: household income above the $%.0f threshold", float64(vicIncomeThresholdAUD))
		return
	}
	res.FinancingOptions = append(res.FinancingOptions, types.LoanOffer{
		Program:         "Solar Victoria battery loan",
		MaxAmountAUD:    vicLoanMaxAUD,
		InterestRatePct: vicLoanRatePct,
	})
	res.AddNote("VIC interest-free loan: eligible for up to $%.0f", float64(vicLoanMaxAUD))
}

// ruleTAS offers the flat low-interest loan, gated only on install date.
func ruleTAS(in types.RebateInputs, _ Config, res *types.RebateResult) {
	if in.InstallDate.Before(tasLoanStart) {
		res.AddNote("TAS low-interest loan: install date before scheme start %s", tasLoanStart.Format("2006-01-02"))
		return
	}
	res.FinancingOptions = append(res.FinancingOptions, types.LoanOffer{
		Program:         "TAS Energy Saver Loan Scheme",
		MaxAmountAUD:    tasLoanMaxAUD,
		InterestRatePct: tasLoanRatePct,
	})
	res.AddNote("TAS low-interest loan: eligible for up to $%.0f at %.2f%%", float64(tasLoanMaxAUD), float64(tasLoanRatePct))
}

// ruleACT offers the unconditional zero-interest loan.
func ruleACT(in types.RebateInputs, _ Config, res *types.RebateResult) {
	res.FinancingOptions = append(res.FinancingOptions, types.LoanOffer{
		Program:         "ACT Sustainable Household Scheme",
		MaxAmountAUD:    actLoanMaxAUD,
		InterestRatePct: actLoanRatePct,
	})
	res.AddNote("ACT zero-interest loan: eligible for up to $%.0f", float64(actLoanMaxAUD))
}

// ruleNT applies the capacity-linear grant while the pool has funds.
func ruleNT(in types.RebateInputs, cfg Config, res *types.RebateResult) {
	if !cfg.NTSchemeFunded {
		res.AddNote("NT battery grant: scheme is not currently funded")
		return
	}
	res.NTGrant = math.Min(in.Battery.UsableKWH*ntGrantPerKWHAUD, ntGrantCapAUD)
	res.AddNote("NT battery grant: $%.0f (capped at $%.0f)", res.NTGrant, float64(ntGrantCapAUD))
}

// ruleNoProgram covers jurisdictions without an active battery program.
func ruleNoProgram(name string) stateRule {
	return func(_ types.RebateInputs, _ Config, res *types.RebateResult) {
		res.AddNote("%s: no current state battery program", name)
	}
}
