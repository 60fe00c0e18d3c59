// Package models defines data structures and domain types.
package models

import (
	"time"

	"github.com/j-veylop/sview/internal/chart"
)

// SourceKind identifies where a query result came from.
type SourceKind int

const (
	// SourceJSON is a query result file on disk.
	SourceJSON SourceKind = iota
	// SourceSQLite is a query run against a SQLite database.
	SourceSQLite
)

// String returns the display name for a source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceJSON:
		return "JSON file"
	case SourceSQLite:
		return "SQLite"
	default:
		return "Unknown"
	}
}

// QueryResult is the response shape of a time-series query.
type QueryResult struct {
	SQL        string   `json:"sql,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	Rows       [][]any  `json:"rows"`
	BucketSize float64  `json:"bucket_size,omitempty"`
	Start      *string  `json:"start,omitempty"`
	End        *string  `json:"end,omitempty"`

	// Set by the loader, not part of the payload.
	Kind     SourceKind `json:"-"`
	Origin   string     `json:"-"`
	LoadedAt time.Time  `json:"-"`
}

// ChartInput converts the result to chart input. A positive
// bucketOverride replaces a missing bucket size.
func (r *QueryResult) ChartInput(bucketOverride float64) chart.Input {
	in := chart.Input{
		Rows:       r.Rows,
		BucketSize: r.BucketSize,
		Start:      r.Start,
		End:        r.End,
	}
	if in.BucketSize <= 0 && bucketOverride > 0 {
		in.BucketSize = bucketOverride
	}
	return in
}

// RowCount returns the number of rows, zero for a nil result.
func (r *QueryResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
