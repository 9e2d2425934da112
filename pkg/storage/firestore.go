package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/voltrank/voltrank/pkg/log"
	"github.com/voltrank/voltrank/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const plansCollection = "plans"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Each plan is one document keyed by its content hash, storing the
// record as a JSON blob plus the few fields queries filter or order on.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// UpsertPlan writes the plan document keyed by its hash. Writing the same
// normalized plan twice is a no-op apart from the refresh timestamp.
func (f *FirestoreProvider) UpsertPlan(ctx context.Context, plan types.RetailPlan) error {
	if plan.Hash == "" {
		return fmt.Errorf("plan missing hash")
	}
	jsonBytes, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = f.client.Collection(plansCollection).Doc(plan.Hash).Set(ctx, map[string]interface{}{
		"json":          string(jsonBytes),
		"state":         plan.State,
		"meterType":     string(plan.MeterType),
		"retailer":      plan.Retailer,
		"lastRefreshed": plan.LastRefreshed,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert plan %s: %w", plan.Hash, err)
	}
	return nil
}

// GetPlan fetches a single plan by hash.
func (f *FirestoreProvider) GetPlan(ctx context.Context, hash string) (types.RetailPlan, error) {
	if hash == "" {
		return types.RetailPlan{}, fmt.Errorf("hash cannot be empty")
	}
	doc, err := f.client.Collection(plansCollection).Doc(hash).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.RetailPlan{}, ErrPlanNotFound
		}
		return types.RetailPlan{}, fmt.Errorf("failed to fetch plan %s: %w", hash, err)
	}
	return planFromDoc(ctx, doc)
}

// GetPlans lists plans for a state, optionally narrowed to a meter type.
func (f *FirestoreProvider) GetPlans(ctx context.Context, state string, meterType types.MeterType) ([]types.RetailPlan, error) {
	q := f.client.Collection(plansCollection).Query
	if state != "" {
		q = q.Where("state", "==", state)
	}
	if meterType != "" {
		q = q.Where("meterType", "==", string(meterType))
	}
	iter := q.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var plans []types.RetailPlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating plans: %w", err)
		}
		p, err := planFromDoc(ctx, doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// GetLatestRefreshTime returns the newest LastRefreshed in the catalog.
// A zero time with nil error means the catalog is empty.
func (f *FirestoreProvider) GetLatestRefreshTime(ctx context.Context) (time.Time, error) {
	iter := f.client.Collection(plansCollection).
		OrderBy("lastRefreshed", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch latest refresh time: %w", err)
	}

	val, err := doc.DataAt("lastRefreshed")
	if err != nil {
		return time.Time{}, fmt.Errorf("plan document %s missing 'lastRefreshed' field: %w", doc.Ref.ID, err)
	}
	t, ok := val.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("plan document %s 'lastRefreshed' is not a time", doc.Ref.ID)
	}
	return t, nil
}

func planFromDoc(ctx context.Context, doc *firestore.DocumentSnapshot) (types.RetailPlan, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "plan doc missing json", slog.String("planHash", doc.Ref.ID), slog.Any("err", err))
		return types.RetailPlan{}, fmt.Errorf("plan document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "plan doc json not string", slog.String("planHash", doc.Ref.ID))
		return types.RetailPlan{}, fmt.Errorf("plan document %s 'json' field is not a string", doc.Ref.ID)
	}

	var p types.RetailPlan
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal plan", slog.String("planHash", doc.Ref.ID), slog.Any("err", err))
		return types.RetailPlan{}, fmt.Errorf("failed to unmarshal plan (hash=%s): %w", doc.Ref.ID, err)
	}
	return p, nil
}
