package chart

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"time"
)

var offsetSuffix = regexp.MustCompile(`\+\d{2}:?\d{2}$`)

// maxEpochMs is the largest distance from the epoch a timestamp may have,
// 100,000,000 days either way.
const maxEpochMs = 8.64e15

// zonedFormats are tried in order once a string carries an explicit zone.
var zonedFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04Z07:00",
	"2006-01-02Z07:00",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006 15:04:05 GMT",
	"2006-01-02 15:04:05 GMT",
	"2006-01-02T15:04:05 GMT",
}

// hasZone reports whether s names its own zone: the literal GMT, a
// trailing Z or a trailing +HH:MM / +HHMM offset.
func hasZone(s string) bool {
	return strings.Contains(s, "GMT") ||
		strings.HasSuffix(s, "Z") ||
		offsetSuffix.MatchString(s)
}

// ParseTimestamp converts a timestamp string to epoch milliseconds.
// Strings without a zone are read as UTC. The second result is false when
// no layout matches.
func ParseTimestamp(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !hasZone(s) {
		s += "Z"
	}
	for _, layout := range zonedFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// timestampOf reads the timestamp cell of a row. Numbers are taken as
// epoch milliseconds.
func timestampOf(v any) (int64, bool) {
	switch t := v.(type) {
	case string:
		return ParseTimestamp(t)
	case time.Time:
		return msFromInt(t.UnixMilli())
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return msFromFloat(f)
	case float64:
		return msFromFloat(t)
	case int64:
		return msFromInt(t)
	case int:
		return msFromInt(int64(t))
	default:
		return 0, false
	}
}

func msFromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.Abs(f) > maxEpochMs {
		return 0, false
	}
	return int64(f), true
}

func msFromInt(ms int64) (int64, bool) {
	if ms > maxEpochMs || ms < -maxEpochMs {
		return 0, false
	}
	return ms, true
}

// FormatBucket renders a bucket instant in UTC.
func FormatBucket(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}
