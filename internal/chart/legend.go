package chart

// Stroke widths for normal and highlighted series.
const (
	StrokeNormal    = 1.5
	StrokeHighlight = 3.0
)

// Highlights holds one emphasis flag per series. Transitions return a copy
// so earlier states stay valid.
type Highlights map[string]bool

// On reports whether key is highlighted.
func (h Highlights) On(key string) bool { return h[key] }

func (h Highlights) with(key string, on bool) Highlights {
	out := make(Highlights, len(h)+1)
	for k, v := range h {
		if v {
			out[k] = true
		}
	}
	if on {
		out[key] = true
	} else {
		delete(out, key)
	}
	return out
}

// highlight sets the flag for key and returns the commands that show it.
// Path hover and legend hover share the flag; the last transition wins.
func highlight(h Highlights, key string, on bool) (Highlights, []Command) {
	width := StrokeNormal
	if on {
		width = StrokeHighlight
	}
	return h.with(key, on), []Command{
		{Op: OpSetStrokeWidth, Key: key, Width: width},
		{Op: OpSetLegendHighlight, Key: key, Visible: on},
	}
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Key   string
	Color string
}

// Legend returns one entry per series in render order.
func Legend(keys []string) []LegendEntry {
	entries := make([]LegendEntry, len(keys))
	for i, k := range keys {
		entries[i] = LegendEntry{Key: k, Color: ColorAt(i)}
	}
	return entries
}
