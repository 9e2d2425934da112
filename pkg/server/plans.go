package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/voltrank/voltrank/pkg/log"
	"github.com/voltrank/voltrank/pkg/normalize"
	"github.com/voltrank/voltrank/pkg/types"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := r.URL.Query().Get("state")
	meterType := types.MeterType(r.URL.Query().Get("meterType"))

	plans, err := s.storage.GetPlans(ctx, state, meterType)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list plans", slog.Any("error", err))
		writeJSONError(w, "failed to list plans", http.StatusInternalServerError)
		return
	}

	// catalog-wide freshness watermark so callers can tell stale data apart
	// from an empty filter
	refreshed, err := s.storage.GetLatestRefreshTime(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch refresh watermark", slog.Any("error", err))
		writeJSONError(w, "failed to list plans", http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		Plans         []types.RetailPlan `json:"plans"`
		LastRefreshed time.Time          `json:"lastRefreshed"`
	}{Plans: plans, LastRefreshed: refreshed})
}

// ingestResult reports what happened to a batch of raw plan documents.
// Unnormalizable documents are skipped, not failed: the loop continues with
// the remaining records.
type ingestResult struct {
	Ingested int `json:"ingested"`
	Skipped  int `json:"skipped"`
}

func (s *Server) handleIngestPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var docs []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
		writeJSONError(w, fmt.Sprintf("invalid plan documents: %v", err), http.StatusBadRequest)
		return
	}

	res, err := s.ingestDocs(r, docs)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to ingest plans", slog.Any("error", err))
		writeJSONError(w, "failed to ingest plans", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleRefreshPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		writeJSONError(w, "brand is required", http.StatusBadRequest)
		return
	}

	docs, err := s.source.FetchPlanDocuments(ctx, brand)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch plan documents", slog.String("brand", brand), slog.Any("error", err))
		writeJSONError(w, "failed to fetch plan documents", http.StatusBadGateway)
		return
	}

	res, err := s.ingestDocs(r, docs)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to ingest plans", slog.String("brand", brand), slog.Any("error", err))
		writeJSONError(w, "failed to ingest plans", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

func (s *Server) ingestDocs(r *http.Request, docs []map[string]any) (ingestResult, error) {
	ctx := r.Context()
	now := time.Now().UTC()

	var res ingestResult
	for i, doc := range docs {
		plan := normalize.Normalize(doc)
		if plan == nil {
			log.Ctx(ctx).DebugContext(ctx, "skipping unnormalizable plan document", slog.Int("index", i))
			res.Skipped++
			continue
		}
		plan.LastRefreshed = now
		if err := s.storage.UpsertPlan(ctx, *plan); err != nil {
			return res, fmt.Errorf("failed to upsert plan %s: %w", plan.Hash, err)
		}
		res.Ingested++
	}
	return res, nil
}
