package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/voltrank/voltrank/pkg/common"
	"github.com/voltrank/voltrank/pkg/log"
)

// maxFetchPages bounds how many pages a single refresh will pull from the
// upstream plan API.
const maxFetchPages = 20

// PlanSource fetches raw plan documents from the public CDR energy plan API
// so they can be fed through Normalize. It owns no persistence; the caller
// decides what to do with the documents.
type PlanSource struct {
	baseURL string
	client  *http.Client
}

// ConfiguredSource sets up the plan source and registers its flags.
func ConfiguredSource() *PlanSource {
	s := &PlanSource{
		client: common.HTTPClient(30 * time.Second),
	}
	baseURL := lflag.String("plan-api-url", "https://cdr.energymadeeasy.gov.au", "Base URL for the CDR energy plan API")
	lflag.Do(func() {
		s.baseURL = *baseURL
	})
	return s
}

// Validate ensures the configuration is valid.
func (s *PlanSource) Validate() error {
	if s.baseURL == "" {
		return fmt.Errorf("plan-api-url is required")
	}
	if _, err := url.Parse(s.baseURL); err != nil {
		return fmt.Errorf("failed to parse plan api url (%s): %w", s.baseURL, err)
	}
	return nil
}

type planPage struct {
	Data struct {
		Plans []map[string]any `json:"plans"`
	} `json:"data"`
	Meta struct {
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

// FetchPlanDocuments pulls every electricity plan document published by the
// given retailer brand, paging through the API.
func (s *PlanSource) FetchPlanDocuments(ctx context.Context, brand string) ([]map[string]any, error) {
	if brand == "" {
		return nil, fmt.Errorf("brand is required")
	}

	var docs []map[string]any
	for page := 1; page <= maxFetchPages; page++ {
		u := fmt.Sprintf("%s/%s/cds-au/v1/energy/plans?fuelType=ELECTRICITY&page=%d&page-size=100",
			s.baseURL, url.PathEscape(brand), page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build plan request: %w", err)
		}
		req.Header.Set("x-v", "1")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch plans for %s: %w", brand, err)
		}

		var body planPage
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("plan api returned %d for %s", resp.StatusCode, brand)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode plan page %d for %s: %w", page, brand, err)
		}

		docs = append(docs, body.Data.Plans...)
		log.Ctx(ctx).DebugContext(
			ctx,
			"fetched plan page",
			slog.String("brand", brand),
			slog.Int("page", page),
			slog.Int("plans", len(body.Data.Plans)),
		)
		if page >= body.Meta.TotalPages {
			break
		}
	}
	return docs, nil
}
