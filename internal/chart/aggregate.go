package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AllLabel is the group label used when no group dimension is active.
const AllLabel = "all"

// SeriesData maps a bucket (epoch ms) to the value observed there. A missing
// entry means no observation. NaN entries are kept but never drawn.
type SeriesData map[int64]float64

// SeriesSet is the aggregated view of a result set.
type SeriesSet struct {
	// Keys lists series keys in first-occurrence order.
	Keys []string
	Data map[string]SeriesData

	minT, maxT int64
	observed   bool
}

// Len returns the number of series.
func (s *SeriesSet) Len() int { return len(s.Keys) }

// Extent returns the smallest and largest parsed timestamp. ok is false when
// no row had a usable timestamp.
func (s *SeriesSet) Extent() (minT, maxT int64, ok bool) {
	return s.minT, s.maxT, s.observed
}

func (s *SeriesSet) add(key string, ts int64, tsOK bool, v float64) {
	data, ok := s.Data[key]
	if !ok {
		data = make(SeriesData)
		s.Data[key] = data
		s.Keys = append(s.Keys, key)
	}
	if !tsOK {
		return
	}
	data[ts] = v
	if !s.observed || ts < s.minT {
		s.minT = ts
	}
	if !s.observed || ts > s.maxT {
		s.maxT = ts
	}
	s.observed = true
}

// Aggregate folds rows laid out as [ts, groups..., hits?, values...] into
// per-series bucket maps. A series key is the value column name, prefixed
// with the joined group values when grouping is active. Without value
// column names the single value slot is keyed by the group label.
func Aggregate(rows [][]any, groups []string, hasHits bool, valueCols []string) *SeriesSet {
	set := &SeriesSet{Data: make(map[string]SeriesData)}
	g := len(groups)
	first := 1 + g
	if hasHits {
		first++
	}

	for _, row := range rows {
		var tsCell any
		if len(row) > 0 {
			tsCell = row[0]
		}
		ts, tsOK := timestampOf(tsCell)
		label := groupLabel(row, g)

		if len(valueCols) == 0 {
			set.add(label, ts, tsOK, numberAt(row, first))
			continue
		}
		for i, name := range valueCols {
			key := name
			if label != AllLabel {
				key = label + ":" + name
			}
			set.add(key, ts, tsOK, numberAt(row, first+i))
		}
	}
	return set
}

func groupLabel(row []any, g int) string {
	if g == 0 {
		return AllLabel
	}
	parts := make([]string, g)
	for i := range g {
		if 1+i < len(row) {
			parts[i] = cellString(row[1+i])
		}
	}
	label := strings.Join(parts, ":")
	if label == "" {
		return AllLabel
	}
	return label
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func numberAt(row []any, i int) float64 {
	if i >= len(row) {
		return math.NaN()
	}
	return toNumber(row[i])
}

// toNumber coerces a cell the way a loosely typed query result expects:
// null and blank strings are zero, booleans are 0 or 1 and anything else
// that does not read as a number is NaN.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
