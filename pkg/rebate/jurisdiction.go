package rebate

import "strings"

// Jurisdiction enumerates the Australian states and territories the
// calculator knows about. Each has its own rule function; adding a
// jurisdiction means adding a constant and an entry in stateRules.
type Jurisdiction string

const (
	NSW Jurisdiction = "NSW"
	VIC Jurisdiction = "VIC"
	QLD Jurisdiction = "QLD"
	WA  Jurisdiction = "WA"
	SA  Jurisdiction = "SA"
	TAS Jurisdiction = "TAS"
	ACT Jurisdiction = "ACT"
	NT  Jurisdiction = "NT"
)

var jurisdictionNames = map[string]Jurisdiction{
	"NSW":                          NSW,
	"NEW SOUTH WALES":              NSW,
	"VIC":                          VIC,
	"VICTORIA":                     VIC,
	"QLD":                          QLD,
	"QUEENSLAND":                   QLD,
	"WA":                           WA,
	"WESTERN AUSTRALIA":            WA,
	"SA":                           SA,
	"SOUTH AUSTRALIA":              SA,
	"TAS":                          TAS,
	"TASMANIA":                     TAS,
	"ACT":                          ACT,
	"AUSTRALIAN CAPITAL TERRITORY": ACT,
	"NT":                           NT,
	"NORTHERN TERRITORY":           NT,
}

// ParseJurisdiction resolves a user-supplied state or territory string,
// case-insensitively. An unrecognized value is a recoverable condition for
// the calculator, not an error.
func ParseJurisdiction(s string) (Jurisdiction, bool) {
	j, ok := jurisdictionNames[strings.ToUpper(strings.TrimSpace(s))]
	return j, ok
}
