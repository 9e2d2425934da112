package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voltrank/voltrank/pkg/rebate"
	"github.com/voltrank/voltrank/pkg/storage/storagemock"
	"github.com/voltrank/voltrank/pkg/types"
)

func newTestServer(db *storagemock.MockDatabase) *Server {
	return &Server{
		storage:      db,
		serverName:   "voltrank-test",
		rebateConfig: rebate.Config{NTSchemeFunded: true},
	}
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.setupHandler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&storagemock.MockDatabase{})
	w := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "voltrank-test", w.Header().Get("Server"))
}

func TestHandleRebates(t *testing.T) {
	s := newTestServer(&storagemock.MockDatabase{})

	t.Run("valid inputs", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/rebates", `{
			"installDate": "2025-08-25",
			"stateOrTerritory": "NSW",
			"hasRooftopSolar": true,
			"battery": {"usableKWH": 13.5, "vppCapable": true, "onApprovedList": true},
			"stcSpotPrice": 38.5,
			"joinsVPP": true
		}`)
		require.Equal(t, http.StatusOK, w.Code)

		var res types.RebateResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 125*38.5, res.FederalDiscount)
		assert.Equal(t, 800.0, res.VPPBonus)
		assert.NotEmpty(t, res.EligibilityNotes)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/rebates", `{not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleRank(t *testing.T) {
	cheap := types.RetailPlan{ID: "cheap", Hash: "h1", State: "NSW", MeterType: types.MeterTypeSingle, SupplyCPerDay: 80, UsageCPerKWHPeak: 25}
	pricey := types.RetailPlan{ID: "pricey", Hash: "h2", State: "NSW", MeterType: types.MeterTypeSingle, SupplyCPerDay: 120, UsageCPerKWHPeak: 45}

	t.Run("ranks catalog plans", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("GetPlans", mock.Anything, "NSW", types.MeterTypeSingle).Return([]types.RetailPlan{pricey, cheap}, nil)
		s := newTestServer(db)

		w := doRequest(t, s, http.MethodPost, "/api/rank", `{
			"context": {"state": "NSW", "meterType": "single", "baselineCostAUD": 2000},
			"confidence": 0.8
		}`)
		require.Equal(t, http.StatusOK, w.Code)

		var res rankResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 2, res.PlansConsidered)
		require.Len(t, res.Scores, 2)
		assert.Equal(t, "cheap", res.Scores[0].Plan.ID)
		assert.Equal(t, 0.8, res.Scores[0].Confidence)
		db.AssertExpectations(t)
	})

	t.Run("inline plans skip the catalog", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		s := newTestServer(db)

		body, err := json.Marshal(rankRequest{
			Context: types.RankContext{State: "NSW", BaselineCostAUD: 1000},
			Plans:   []types.RetailPlan{cheap},
		})
		require.NoError(t, err)

		w := doRequest(t, s, http.MethodPost, "/api/rank", string(body))
		require.Equal(t, http.StatusOK, w.Code)
		db.AssertNotCalled(t, "GetPlans", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects partial hourly profile", func(t *testing.T) {
		s := newTestServer(&storagemock.MockDatabase{})
		w := doRequest(t, s, http.MethodPost, "/api/rank", `{
			"context": {"state": "NSW", "loadKWH": [1, 2, 3]}
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "loadKWH")
	})

	t.Run("storage error", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("GetPlans", mock.Anything, "NSW", types.MeterType("")).Return(nil, assert.AnError)
		s := newTestServer(db)

		w := doRequest(t, s, http.MethodPost, "/api/rank", `{"context": {"state": "NSW"}}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleIngestPlans(t *testing.T) {
	t.Run("mixed batch skips bad documents", func(t *testing.T) {
		db := &storagemock.MockDatabase{}
		db.On("UpsertPlan", mock.Anything, mock.MatchedBy(func(p types.RetailPlan) bool {
			return p.Retailer == "Origin Energy" && !p.LastRefreshed.IsZero()
		})).Return(nil)
		s := newTestServer(db)

		w := doRequest(t, s, http.MethodPost, "/api/plans/ingest", `[
			{
				"brandName": "Origin Energy",
				"fuelType": "ELECTRICITY",
				"geography": {"state": "NSW"},
				"electricityContract": {
					"dailySupplyCharge": "0.98",
					"tariffPeriod": [{"singleRate": {"rates": [{"unitPrice": "0.32"}]}}]
				}
			},
			{"fuelType": "GAS", "contract": {"supplyCharge": 1.0, "usageRate": 0.3}}
		]`)
		require.Equal(t, http.StatusOK, w.Code)

		var res ingestResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Ingested)
		assert.Equal(t, 1, res.Skipped)
		db.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		s := newTestServer(&storagemock.MockDatabase{})
		w := doRequest(t, s, http.MethodPost, "/api/plans/ingest", `{"not": "an array"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleListPlans(t *testing.T) {
	refreshed := time.Date(2026, 8, 1, 3, 0, 0, 0, time.UTC)
	db := &storagemock.MockDatabase{}
	db.On("GetPlans", mock.Anything, "VIC", types.MeterTypeTOU).Return([]types.RetailPlan{
		{ID: "p1", State: "VIC", MeterType: types.MeterTypeTOU, UsageCPerKWHPeak: 30},
	}, nil)
	db.On("GetLatestRefreshTime", mock.Anything).Return(refreshed, nil)
	s := newTestServer(db)

	w := doRequest(t, s, http.MethodGet, "/api/plans?state=VIC&meterType=tou", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Plans         []types.RetailPlan `json:"plans"`
		LastRefreshed time.Time          `json:"lastRefreshed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Plans, 1)
	assert.Equal(t, "p1", res.Plans[0].ID)
	assert.True(t, res.LastRefreshed.Equal(refreshed))
	db.AssertExpectations(t)
}

func TestHandleRefreshPlansRequiresBrand(t *testing.T) {
	s := newTestServer(&storagemock.MockDatabase{})
	w := doRequest(t, s, http.MethodPost, "/api/plans/refresh", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "brand is required")
}
