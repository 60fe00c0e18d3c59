// Package chart implements the time-series chart engine: bucketing, series
// aggregation, domain and pixel scaling, path building under the fill
// policies, legend highlighting, the crosshair state machine and
// resize-driven re-rendering. Rendering goes through the Surface interface.
package chart

// DefaultBucketSize is the bucket width in seconds used when the input
// does not carry one.
const DefaultBucketSize = 3600

// EmptyMessage is the placeholder text shown for inputs without rows.
const EmptyMessage = "Empty data provided to table"

// FillMode decides how a bucket without an observation is drawn.
type FillMode int

const (
	// FillConnect bridges gaps by joining the surrounding points.
	FillConnect FillMode = iota
	// FillZero draws missing buckets on the zero line.
	FillZero
	// FillBlank lifts the pen so gaps stay visible.
	FillBlank
)

// ParseFillMode maps a fill selector to a FillMode. "0" selects FillZero,
// "blank" selects FillBlank and every other value selects FillConnect.
func ParseFillMode(s string) FillMode {
	switch s {
	case "0":
		return FillZero
	case "blank":
		return FillBlank
	default:
		return FillConnect
	}
}

// Selector returns the selector string that ParseFillMode maps back to f.
func (f FillMode) Selector() string {
	switch f {
	case FillZero:
		return "0"
	case FillBlank:
		return "blank"
	default:
		return "connect"
	}
}

func (f FillMode) String() string {
	switch f {
	case FillZero:
		return "zero"
	case FillBlank:
		return "blank"
	default:
		return "connect"
	}
}

// Next cycles through the fill modes.
func (f FillMode) Next() FillMode {
	switch f {
	case FillConnect:
		return FillZero
	case FillZero:
		return FillBlank
	default:
		return FillConnect
	}
}

// Input is one query result to chart.
type Input struct {
	Rows [][]any `json:"rows"`
	// BucketSize is in seconds; DefaultBucketSize applies when it is not positive.
	BucketSize float64 `json:"bucket_size,omitempty"`
	Start      *string `json:"start,omitempty"`
	End        *string `json:"end,omitempty"`
}

// Options is the caller-side configuration for a render.
type Options struct {
	// GroupBy lists the active group-by dimensions in row order.
	GroupBy []string
	// ShowHits marks the slot after the group dimensions as a hit count.
	ShowHits bool
	Fill     FillMode
	// Columns is the ordered list of selected output columns, group
	// dimensions and hit count included.
	Columns []string
}

// ValueColumns returns the value column names left after removing the
// group dimensions and the optional hit count from Columns.
func (o Options) ValueColumns() []string {
	skip := len(o.GroupBy)
	if o.ShowHits {
		skip++
	}
	if len(o.Columns) <= skip {
		return nil
	}
	return o.Columns[skip:]
}
