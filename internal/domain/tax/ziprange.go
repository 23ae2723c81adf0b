package tax

import "strconv"

// zipRange maps a contiguous block of five-digit ZIP codes to a state.
type zipRange struct {
	low   int
	high  int
	state string
}

// stateZipRanges covers the states the platform ships to most. Ranges are
// sorted by low bound and do not overlap.
var stateZipRanges = []zipRange{
	{10001, 14999, "NY"},
	{19701, 19999, "DE"},
	{33001, 34999, "FL"},
	{60001, 62999, "IL"},
	{75001, 79999, "TX"},
	{90001, 96999, "CA"},
	{97001, 97999, "OR"},
	{98001, 99499, "WA"},
}

// StateForZip derives a two-letter state code from the first five digits of a
// normalized postal code. Returns "" when the code is too short, not numeric,
// or outside every known range.
func StateForZip(zipCode string) string {
	if len(zipCode) < 5 {
		return ""
	}
	n, err := strconv.Atoi(zipCode[:5])
	if err != nil {
		return ""
	}
	for _, r := range stateZipRanges {
		if n >= r.low && n <= r.high {
			return r.state
		}
	}
	return ""
}
