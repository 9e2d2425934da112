// Command seed loads a handful of representative Australian retail plans
// into the Firestore emulator by pushing raw plan documents through the
// normalizer, the same path production ingestion takes.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/voltrank/voltrank/pkg/log"
	"github.com/voltrank/voltrank/pkg/normalize"
	"github.com/voltrank/voltrank/pkg/storage"
)

const rawPlans = `[
  {
    "planId": "ORI123456MR",
    "brandName": "Origin Energy",
    "displayName": "Origin Go Variable",
    "fuelType": "ELECTRICITY",
    "geography": {"state": "NSW", "distributors": ["Ausgrid"]},
    "electricityContract": {
      "dailySupplyCharge": "0.98",
      "tariffPeriod": [
        {"singleRate": {"rates": [{"unitPrice": "0.32"}]}}
      ]
    },
    "solarFeedInTariff": [
      {"singleTariff": {"rates": [{"unitPrice": "0.05"}]}}
    ]
  },
  {
    "planId": "AGL789012MR",
    "brandName": "AGL",
    "displayName": "AGL Night Saver",
    "fuelType": "ELECTRICITY",
    "geography": {"state": "NSW", "distributors": ["Endeavour Energy"]},
    "electricityContract": {
      "dailySupplyCharges": "1.10",
      "tariffPeriod": [
        {
          "timeOfUseRates": [
            {
              "type": "PEAK",
              "rates": [{"unitPrice": "0.45"}],
              "timeOfUse": [{"days": ["MON","TUE","WED","THU","FRI"], "startTime": "14:00", "endTime": "20:00"}]
            },
            {
              "type": "SHOULDER",
              "rates": [{"unitPrice": "0.28"}],
              "timeOfUse": [{"days": ["MON","TUE","WED","THU","FRI"], "startTime": "07:00", "endTime": "14:00"}]
            },
            {
              "type": "OFF_PEAK",
              "rates": [{"unitPrice": "0.18"}],
              "timeOfUse": [{"startTime": "00:00", "endTime": "24:00"}]
            }
          ]
        }
      ]
    },
    "solarFeedInTariff": [
      {"singleTariff": {"rates": [{"unitPrice": "0.04"}]}}
    ]
  },
  {
    "planId": "ENG345678MR",
    "brandName": "EnergyAustralia",
    "displayName": "EA Demand Saver",
    "fuelType": "ELECTRICITY",
    "geography": {"state": "VIC", "distributors": ["CitiPower"]},
    "electricityContract": {
      "dailySupplyCharge": "1.25",
      "tariffPeriod": [
        {"singleRate": {"rates": [{"unitPrice": "0.26"}]}}
      ],
      "demandCharges": [{"amount": "0.12"}],
      "controlledLoad": {"singleRate": {"rates": [{"unitPrice": "0.16"}]}}
    }
  },
  {
    "planId": "RED901234MR",
    "brandName": "Red Energy",
    "displayName": "Red Living Energy Saver",
    "fuelType": "ELECTRICITY",
    "geography": {"state": "QLD", "distributors": ["Energex"]},
    "electricityContract": {
      "supplyCharge": "0.89",
      "tariffPeriod": [
        {"singleRate": {"rates": [{"unitPrice": "0.29"}]}}
      ]
    }
  }
]`

func main() {
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()

	log.Ctx(ctx).InfoContext(ctx, "seeding plan catalog")

	var docs []map[string]any
	if err := json.Unmarshal([]byte(rawPlans), &docs); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to parse seed plans", slog.Any("error", err))
		os.Exit(1)
	}

	now := time.Now().UTC()
	var seeded, skipped int
	for i, doc := range docs {
		plan := normalize.Normalize(doc)
		if plan == nil {
			log.Ctx(ctx).WarnContext(ctx, "seed plan did not normalize", slog.Int("index", i))
			skipped++
			continue
		}
		plan.LastRefreshed = now
		if err := s.UpsertPlan(ctx, *plan); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to upsert seed plan", slog.String("plan", plan.PlanName), slog.Any("error", err))
			os.Exit(1)
		}
		log.Ctx(ctx).InfoContext(
			ctx,
			"seeded plan",
			slog.String("retailer", plan.Retailer),
			slog.String("plan", plan.PlanName),
			slog.String("meterType", string(plan.MeterType)),
			slog.String("hash", plan.Hash[:12]),
		)
		seeded++
	}

	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
	}
	log.Ctx(ctx).InfoContext(ctx, "seeding complete", slog.Int("seeded", seeded), slog.Int("skipped", skipped))
}
