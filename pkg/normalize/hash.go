package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/voltrank/voltrank/pkg/types"
)

// PlanHash fingerprints the identity-relevant fields of a normalized plan so
// repeated ingestion of the same upstream document upserts instead of
// duplicating. LastRefreshed and the hash itself are excluded so re-ingesting
// unchanged data is a no-op.
func PlanHash(p *types.RetailPlan) string {
	h := sha256.New()
	writeField := func(parts ...string) {
		for _, s := range parts {
			io.WriteString(h, s)
			io.WriteString(h, "|")
		}
	}
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	optNum := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return num(*v)
	}

	writeField(p.Retailer, p.PlanName, p.Source, p.State, p.Network, string(p.MeterType))
	writeField(
		num(p.SupplyCPerDay),
		num(p.UsageCPerKWHPeak),
		optNum(p.UsageCPerKWHShoulder),
		optNum(p.UsageCPerKWHOffpeak),
		num(p.FITCPerKWH),
		optNum(p.DemandCPerKW),
		optNum(p.ControlledCPerKWH),
	)
	for _, w := range p.TOUWindows {
		writeField(string(w.Label), w.Start, w.End, fmt.Sprint(w.Days))
	}
	return hex.EncodeToString(h.Sum(nil))
}
