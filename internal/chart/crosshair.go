package chart

import "math"

// Event is a pointer interaction fed to Step.
type Event interface {
	isEvent()
}

// PointerMove is the pointer moving to X,Y in surface pixels.
type PointerMove struct {
	X, Y float64
}

// PointerLeave is the pointer leaving the drawing surface.
type PointerLeave struct{}

// PathEnter is the pointer entering the drawn path of Key.
type PathEnter struct{ Key string }

// PathLeave is the pointer leaving the drawn path of Key.
type PathLeave struct{ Key string }

// LegendEnter is the pointer entering the legend entry of Key.
type LegendEnter struct{ Key string }

// LegendLeave is the pointer leaving the legend entry of Key.
type LegendLeave struct{ Key string }

func (PointerMove) isEvent()  {}
func (PointerLeave) isEvent() {}
func (PathEnter) isEvent()    {}
func (PathLeave) isEvent()    {}
func (LegendEnter) isEvent()  {}
func (LegendLeave) isEvent()  {}

// Mode is the crosshair state.
type Mode int

const (
	Idle Mode = iota
	Hover
)

func (m Mode) String() string {
	if m == Hover {
		return "hover"
	}
	return "idle"
}

// State is the interaction state of a session. The zero value is idle with
// nothing highlighted.
type State struct {
	Mode Mode
	// Bucket is the index of the hovered bucket while in Hover.
	Bucket int
	// Selected is the series nearest the pointer, or "" for none.
	Selected   string
	Highlights Highlights
}

// Candidate is a series that has a value at the hovered bucket.
type Candidate struct {
	Key   string
	Color string
	Value float64
	X, Y  float64
}

// Frame is the render output the crosshair works against: bucket pixel
// positions, series values and the scales of the last render.
type Frame struct {
	Scaler  Scaler
	Fill    FillMode
	Buckets []int64
	// BucketX holds the pixel column of each bucket.
	BucketX []float64
	Keys    []string
	Colors  []string
	Series  map[string]SeriesData
}

func newFrame(set *SeriesSet, buckets []int64, fill FillMode, sc Scaler) *Frame {
	f := &Frame{
		Scaler:  sc,
		Fill:    fill,
		Buckets: buckets,
		BucketX: make([]float64, len(buckets)),
		Keys:    set.Keys,
		Colors:  make([]string, len(set.Keys)),
		Series:  set.Data,
	}
	for i, b := range buckets {
		f.BucketX[i] = sc.X(float64(b))
	}
	for i := range set.Keys {
		f.Colors[i] = ColorAt(i)
	}
	return f
}

func (f *Frame) hasKey(key string) bool {
	for _, k := range f.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// NearestBucket returns the index of the bucket whose pixel column is
// closest to px. The first index wins ties. It returns -1 without buckets.
func (f *Frame) NearestBucket(px float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, x := range f.BucketX {
		if d := math.Abs(x - px); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Candidates returns the series with an effective value at bucket idx, in
// legend order.
func (f *Frame) Candidates(idx int) []Candidate {
	if idx < 0 || idx >= len(f.Buckets) {
		return nil
	}
	b := f.Buckets[idx]
	var out []Candidate
	for i, key := range f.Keys {
		v, ok := effective(f.Series[key], b, f.Fill)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Key:   key,
			Color: f.Colors[i],
			Value: v,
			X:     f.BucketX[idx],
			Y:     f.Scaler.Y(v),
		})
	}
	return out
}

func nearestCandidate(cands []Candidate, py float64) string {
	sel, bestDist := "", math.Inf(1)
	for _, c := range cands {
		if d := math.Abs(c.Y - py); d < bestDist {
			sel, bestDist = c.Key, d
		}
	}
	return sel
}

// Step applies ev to s and returns the next state with the drawing commands
// that realise it. It does not touch s or f.
func Step(f *Frame, s State, ev Event) (State, []Command) {
	switch e := ev.(type) {
	case PointerMove:
		if f == nil || len(f.Buckets) == 0 || !f.Scaler.Contains(e.X, e.Y) {
			return leave(s)
		}
		return move(f, s, e)
	case PointerLeave:
		return leave(s)
	case PathEnter:
		return setHighlight(f, s, e.Key, true)
	case PathLeave:
		return setHighlight(f, s, e.Key, false)
	case LegendEnter:
		return setHighlight(f, s, e.Key, true)
	case LegendLeave:
		return setHighlight(f, s, e.Key, false)
	default:
		return s, nil
	}
}

func move(f *Frame, s State, e PointerMove) (State, []Command) {
	idx := f.NearestBucket(e.X)
	cands := f.Candidates(idx)

	cmds := []Command{
		{Op: OpSetCrosshair, X: f.BucketX[idx], Visible: true},
		{Op: OpClearMarkers},
	}
	for _, c := range cands {
		cmds = append(cmds, Command{
			Op:      OpSetMarker,
			Key:     c.Key,
			Color:   c.Color,
			X:       c.X,
			Y:       c.Y,
			Value:   c.Value,
			Visible: true,
		})
	}

	next := s
	next.Mode = Hover
	next.Bucket = idx
	sel := nearestCandidate(cands, e.Y)
	if sel != s.Selected {
		var hc []Command
		if s.Selected != "" {
			next.Highlights, hc = highlight(next.Highlights, s.Selected, false)
			cmds = append(cmds, hc...)
		}
		if sel != "" {
			next.Highlights, hc = highlight(next.Highlights, sel, true)
			cmds = append(cmds, hc...)
		}
		next.Selected = sel
	}
	return next, cmds
}

func leave(s State) (State, []Command) {
	cmds := []Command{
		{Op: OpSetCrosshair, Visible: false},
		{Op: OpClearMarkers},
	}
	next := s
	if s.Selected != "" {
		var hc []Command
		next.Highlights, hc = highlight(s.Highlights, s.Selected, false)
		cmds = append(cmds, hc...)
	}
	next.Mode = Idle
	next.Bucket = 0
	next.Selected = ""
	return next, cmds
}

func setHighlight(f *Frame, s State, key string, on bool) (State, []Command) {
	if f == nil || !f.hasKey(key) {
		return s, nil
	}
	next := s
	var cmds []Command
	next.Highlights, cmds = highlight(s.Highlights, key, on)
	return next, cmds
}
