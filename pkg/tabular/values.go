// Package tabular holds the value-parsing helpers shared by column
// classification, ingestion coercion and date-phrase resolution.
package tabular

import (
	"strconv"
	"strings"
	"time"
)

// ParseNumber tries to read s as a number. Thousands separators and a single
// leading currency symbol are tolerated ("1,234.56", "$450").
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	for _, sym := range []string{"$", "€", "£", "₹"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Permissive layouts tried in order by ParseDate. Mirrors the formats seen in
// real shipment exports: ISO, slashed, and spelled-out variants.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"January 2, 2006",
}

// ParseDate tries to read s as a calendar date in loc using a fixed list of
// permissive layouts. Returns the parsed time and whether any layout matched.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Numeric converts supported scalar types to float64, returning false for
// anything non-numeric. Strings are parsed with ParseNumber.
func Numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		return ParseNumber(val)
	default:
		return 0, false
	}
}
