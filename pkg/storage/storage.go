package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/voltrank/voltrank/pkg/types"
)

var ErrPlanNotFound = errors.New("plan not found")

// Database defines the interface for the plan catalog. Plans are keyed by
// their content hash so re-ingesting unchanged upstream data upserts rather
// than duplicates.
type Database interface {
	// UpsertPlan adds or replaces the plan record keyed by its Hash.
	UpsertPlan(ctx context.Context, plan types.RetailPlan) error
	// GetPlan fetches a single plan by hash, returning ErrPlanNotFound when
	// it doesn't exist.
	GetPlan(ctx context.Context, hash string) (types.RetailPlan, error)
	// GetPlans lists plans for a state, optionally narrowed to a meter type.
	// Empty state means all states.
	GetPlans(ctx context.Context, state string, meterType types.MeterType) ([]types.RetailPlan, error)
	// GetLatestRefreshTime returns the newest LastRefreshed across the
	// catalog, used as a freshness watermark.
	GetLatestRefreshTime(ctx context.Context) (time.Time, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
