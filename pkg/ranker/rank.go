package ranker

import (
	"sort"

	"github.com/voltrank/voltrank/pkg/types"
)

const (
	// maxRanked is how many plans a ranking returns.
	maxRanked = 3

	// DefaultConfidence is threaded onto scores when the caller doesn't
	// supply one.
	DefaultConfidence = 0.7
)

// RankPlans scores every plan against the context and returns the cheapest
// maxRanked of them, ascending by annual cost. The sort is stable, so ties
// keep the input order and results are reproducible. Fewer than maxRanked
// plans just yields a shorter list.
//
// Confidence is an opaque scalar in (0, 1] threaded through to every score;
// values <= 0 fall back to DefaultConfidence.
func RankPlans(plans []types.RetailPlan, ctx *types.RankContext, confidence float64) []types.PlanScore {
	if confidence <= 0 {
		confidence = DefaultConfidence
	}

	scores := make([]types.PlanScore, 0, len(plans))
	for i := range plans {
		cost := CalcAnnualCost(&plans[i], ctx)
		scores = append(scores, types.PlanScore{
			Plan:               plans[i],
			AnnualCostAUD:      cost,
			DeltaVsBaselineAUD: cost - ctx.BaselineCostAUD,
			Confidence:         confidence,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AnnualCostAUD < scores[j].AnnualCostAUD
	})

	if len(scores) > maxRanked {
		scores = scores[:maxRanked]
	}
	return scores
}
