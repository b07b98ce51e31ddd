package silver

import (
	"fmt"
	"sort"
	"strings"
)

// stateAbbrToName is the fixed bidirectional US-state table spec.md §4.F
// requires Silver to standardize state values through. Keyed by two-letter
// postal abbreviation.
var stateAbbrToName = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

// stateToFullNameCaseSQL builds a SQL CASE expression mapping column's
// two-letter abbreviation to its full name, falling back to the literal
// value (already a full name, or unrecognized) coalesced to 'Unknown'.
// Used by the Location transform (spec.md §4.F: CA→California, UT→Utah, …).
func stateToFullNameCaseSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	for _, abbr := range sortedKeys(stateAbbrToName) {
		fmt.Fprintf(&b, "WHEN UPPER(%s) = '%s' THEN '%s' ", column, abbr, stateAbbrToName[abbr])
	}
	fmt.Fprintf(&b, "ELSE COALESCE(%s, 'Unknown') END", column)
	return b.String()
}

// stateToAbbrCaseSQL builds a SQL CASE expression mapping column's full
// state name (case-insensitive) to its two-letter code, falling back to the
// literal value uppercased (assumed already an abbreviation) or NULL.
// Used by the Wikipedia transform, whose source state strings are
// best-effort geocoder output that may already be abbreviated.
func stateToAbbrCaseSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	for _, abbr := range sortedKeys(stateAbbrToName) {
		name := stateAbbrToName[abbr]
		fmt.Fprintf(&b, "WHEN LOWER(TRIM(%s)) = '%s' THEN '%s' ", column, strings.ToLower(name), abbr)
	}
	fmt.Fprintf(&b, "WHEN %s IS NOT NULL AND LENGTH(TRIM(%s)) = 2 THEN UPPER(TRIM(%s)) ", column, column, column)
	fmt.Fprintf(&b, "ELSE NULL END")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
