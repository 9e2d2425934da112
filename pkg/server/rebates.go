package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voltrank/voltrank/pkg/log"
	"github.com/voltrank/voltrank/pkg/rebate"
	"github.com/voltrank/voltrank/pkg/types"
)

func (s *Server) handleRebates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.RebateInputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, fmt.Sprintf("invalid rebate inputs: %v", err), http.StatusBadRequest)
		return
	}

	res := rebate.Calculate(in, s.rebateConfig)
	log.Ctx(ctx).DebugContext(
		ctx,
		"calculated rebates",
		slog.String("jurisdiction", in.StateOrTerritory),
		slog.Float64("totalCash", res.TotalCashIncentive),
	)

	writeJSON(w, res)
}
