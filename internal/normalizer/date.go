package normalizer

import (
	"strings"
	"time"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

var jst = time.FixedZone("JST", 9*60*60)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// NormalizeDate converts an ISO-8601 timestamp to JST. Timestamps without an
// offset are read as UTC.
func NormalizeDate(s string) (string, error) {
	t, err := parseISO(s)
	if err != nil {
		return "", err
	}

	result := FormatISO(t.In(jst))
	// a fixed +09:00 zone never prints a zero offset; kept as a guard
	return strings.TrimSuffix(result, "+00:00"), nil
}

// FormatISO prints t with microsecond precision when it has a fractional part,
// followed by the numeric offset.
func FormatISO(t time.Time) string {
	if t.Nanosecond()/1000 != 0 {
		return t.Format("2006-01-02T15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrInvalidRecordShape, "timestamp %q is not ISO-8601", s)
}
