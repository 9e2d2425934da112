package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltrank/voltrank/pkg/common"
)

func TestFetchPlanDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.Header.Get("x-v"))
		assert.Equal(t, "/agl/cds-au/v1/energy/plans", r.URL.Path)
		assert.Equal(t, "ELECTRICITY", r.URL.Query().Get("fuelType"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"data": {"plans": [{"planId": "plan-page-%d"}]},
			"meta": {"totalPages": 2}
		}`, page)
	}))
	defer server.Close()

	s := &PlanSource{
		baseURL: server.URL,
		client:  common.HTTPClient(5 * time.Second),
	}
	require.NoError(t, s.Validate())

	docs, err := s.FetchPlanDocuments(context.Background(), "agl")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "plan-page-1", docs[0]["planId"])
	assert.Equal(t, "plan-page-2", docs[1]["planId"])
}

func TestFetchPlanDocumentsErrors(t *testing.T) {
	t.Run("missing brand", func(t *testing.T) {
		s := &PlanSource{client: http.DefaultClient, baseURL: "http://example.invalid"}
		_, err := s.FetchPlanDocuments(context.Background(), "")
		assert.ErrorContains(t, err, "brand is required")
	})

	t.Run("upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{})
		}))
		defer server.Close()

		s := &PlanSource{baseURL: server.URL, client: http.DefaultClient}
		_, err := s.FetchPlanDocuments(context.Background(), "agl")
		assert.ErrorContains(t, err, "plan api returned 429")
	})
}

func TestSourceValidate(t *testing.T) {
	s := &PlanSource{}
	assert.ErrorContains(t, s.Validate(), "plan-api-url is required")
}
