package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voltrank/voltrank/pkg/log"
	"github.com/voltrank/voltrank/pkg/ranker"
	"github.com/voltrank/voltrank/pkg/types"
)

type rankRequest struct {
	Context types.RankContext `json:"context"`

	// Plans optionally supplies candidates inline; when empty the catalog is
	// queried by the context's state and meter type.
	Plans []types.RetailPlan `json:"plans,omitempty"`

	Confidence float64 `json:"confidence,omitempty"`
}

type rankResponse struct {
	Scores          []types.PlanScore `json:"scores"`
	PlansConsidered int               `json:"plansConsidered"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, fmt.Sprintf("invalid rank request: %v", err), http.StatusBadRequest)
		return
	}

	if err := validateProfiles(&req.Context); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	plans := req.Plans
	if len(plans) == 0 {
		var err error
		plans, err = s.storage.GetPlans(ctx, req.Context.State, req.Context.MeterType)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to load plans for ranking", slog.Any("error", err))
			writeJSONError(w, "failed to load plans", http.StatusInternalServerError)
			return
		}
	}

	scores := ranker.RankPlans(plans, &req.Context, req.Confidence)
	log.Ctx(ctx).DebugContext(
		ctx,
		"ranked plans",
		slog.String("state", req.Context.State),
		slog.Int("considered", len(plans)),
		slog.Int("returned", len(scores)),
	)

	writeJSON(w, rankResponse{Scores: scores, PlansConsidered: len(plans)})
}

// validateProfiles rejects hourly arrays of the wrong length. Absent arrays
// are fine (the ranker estimates from the baseline cost), but a partial year
// would silently skew every cost.
func validateProfiles(ctx *types.RankContext) error {
	check := func(name string, arr []float64) error {
		if len(arr) != 0 && len(arr) != types.HoursPerYear {
			return fmt.Errorf("%s must have exactly %d hourly values, got %d", name, types.HoursPerYear, len(arr))
		}
		return nil
	}
	if err := check("buyKWH", ctx.BuyKWH); err != nil {
		return err
	}
	if err := check("sellKWH", ctx.SellKWH); err != nil {
		return err
	}
	return check("loadKWH", ctx.LoadKWH)
}
