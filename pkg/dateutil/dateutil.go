package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Moscow is the fixed UTC+3 zone the central bank publishes dates in.
var Moscow = time.FixedZone("MSK", 3*60*60)

// rateDateLayouts are tried in order by ParseRateDate.
var rateDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// ParseRateDate parses the date attached to a published rate. Dates without
// a zone are interpreted in Moscow time.
func ParseRateDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range rateDateLayouts {
		if t, err := time.ParseInLocation(layout, s, Moscow); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatDate renders t as YYYY-MM-DD, or the placeholder for nil.
func FormatDate(t *time.Time, placeholder string) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return t.Format("2006-01-02")
}

// Timestamp returns t in UTC as RFC 3339 with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
