package chart

import "fmt"

// Op identifies a drawing command.
type Op int

const (
	// OpReset starts a new frame of Width x Height pixels.
	OpReset Op = iota
	// OpEmptyState replaces the chart with the placeholder Text.
	OpEmptyState
	// OpBeginPath starts the path for series Key drawn in Color.
	OpBeginPath
	OpMoveTo
	OpLineTo
	// OpSetStrokeWidth sets the stroke of series Key to Width.
	OpSetStrokeWidth
	// OpSetLegendText adds or updates the legend entry for Key.
	OpSetLegendText
	// OpSetLegendHighlight marks or unmarks the legend entry for Key.
	OpSetLegendHighlight
	// OpSetCrosshair shows the vertical crosshair at X, or hides it.
	OpSetCrosshair
	// OpSetMarker places the hover marker of series Key at X,Y.
	OpSetMarker
	// OpClearMarkers removes every hover marker.
	OpClearMarkers
)

var opNames = [...]string{
	OpReset:              "reset",
	OpEmptyState:         "empty-state",
	OpBeginPath:          "begin-path",
	OpMoveTo:             "move-to",
	OpLineTo:             "line-to",
	OpSetStrokeWidth:     "set-stroke-width",
	OpSetLegendText:      "set-legend-text",
	OpSetLegendHighlight: "set-legend-highlight",
	OpSetCrosshair:       "set-crosshair",
	OpSetMarker:          "set-marker",
	OpClearMarkers:       "clear-markers",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is one drawing instruction. Fields not used by Op are zero.
type Command struct {
	Op      Op
	Key     string
	Text    string
	Color   string
	X, Y    float64
	Width   float64
	Value   float64
	Visible bool
}

func (c Command) String() string {
	switch c.Op {
	case OpMoveTo, OpLineTo:
		return fmt.Sprintf("%s %s %.2f,%.2f", c.Op, c.Key, c.X, c.Y)
	case OpSetStrokeWidth:
		return fmt.Sprintf("%s %s %.1f", c.Op, c.Key, c.Width)
	case OpSetCrosshair:
		return fmt.Sprintf("%s %t %.2f", c.Op, c.Visible, c.X)
	case OpSetLegendHighlight:
		return fmt.Sprintf("%s %s %t", c.Op, c.Key, c.Visible)
	default:
		if c.Key != "" {
			return fmt.Sprintf("%s %s", c.Op, c.Key)
		}
		return c.Op.String()
	}
}

// Surface receives drawing commands. SVG documents, terminal cells and the
// Recorder test harness all implement it.
type Surface interface {
	Apply(cmd Command)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(cmd Command)

// Apply calls f(cmd).
func (f SurfaceFunc) Apply(cmd Command) { f(cmd) }

// Multi fans commands out to several surfaces in order.
func Multi(surfaces ...Surface) Surface {
	return SurfaceFunc(func(cmd Command) {
		for _, s := range surfaces {
			s.Apply(cmd)
		}
	})
}

func applyAll(s Surface, cmds []Command) {
	if s == nil {
		return
	}
	for _, c := range cmds {
		s.Apply(c)
	}
}
