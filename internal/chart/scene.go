package chart

// SceneSeries is the retained drawing of one series.
type SceneSeries struct {
	Key         string
	Legend      string
	Color       string
	Stroke      float64
	Highlighted bool
	Path        []PathCommand
}

// Emphasized reports whether the series is drawn with the highlight stroke.
func (s *SceneSeries) Emphasized() bool { return s.Stroke >= StrokeHighlight }

// Marker is a hover marker on a series.
type Marker struct {
	Key   string
	Color string
	X, Y  float64
	Value float64
}

// Scene is a retained-mode Surface: it folds commands into the current
// picture so renderers can draw it whenever they need to.
type Scene struct {
	Width  float64
	Empty  string
	Series []*SceneSeries

	CrosshairVisible bool
	CrosshairX       float64
	Markers          []Marker

	index map[string]int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{index: make(map[string]int)}
}

// IsEmpty reports whether the scene shows the empty-state placeholder.
func (sc *Scene) IsEmpty() bool { return sc.Empty != "" }

// Lookup returns the series drawn for key, or nil.
func (sc *Scene) Lookup(key string) *SceneSeries {
	if i, ok := sc.index[key]; ok {
		return sc.Series[i]
	}
	return nil
}

func (sc *Scene) series(key string) *SceneSeries {
	if s := sc.Lookup(key); s != nil {
		return s
	}
	s := &SceneSeries{Key: key, Stroke: StrokeNormal}
	sc.index[key] = len(sc.Series)
	sc.Series = append(sc.Series, s)
	return s
}

func (sc *Scene) clear(width float64) {
	sc.Width = width
	sc.Empty = ""
	sc.Series = nil
	sc.CrosshairVisible = false
	sc.CrosshairX = 0
	sc.Markers = nil
	sc.index = make(map[string]int)
}

// Apply folds cmd into the scene.
func (sc *Scene) Apply(cmd Command) {
	if sc.index == nil {
		sc.index = make(map[string]int)
	}
	switch cmd.Op {
	case OpReset:
		sc.clear(cmd.Width)
	case OpEmptyState:
		sc.clear(cmd.Width)
		sc.Empty = cmd.Text
	case OpSetLegendText:
		s := sc.series(cmd.Key)
		s.Legend = cmd.Text
		if cmd.Color != "" {
			s.Color = cmd.Color
		}
	case OpBeginPath:
		s := sc.series(cmd.Key)
		s.Color = cmd.Color
		s.Stroke = cmd.Width
		s.Path = nil
	case OpMoveTo:
		s := sc.series(cmd.Key)
		s.Path = append(s.Path, PathCommand{Op: MoveTo, X: cmd.X, Y: cmd.Y})
	case OpLineTo:
		s := sc.series(cmd.Key)
		s.Path = append(s.Path, PathCommand{Op: LineTo, X: cmd.X, Y: cmd.Y})
	case OpSetStrokeWidth:
		if s := sc.Lookup(cmd.Key); s != nil {
			s.Stroke = cmd.Width
		}
	case OpSetLegendHighlight:
		if s := sc.Lookup(cmd.Key); s != nil {
			s.Highlighted = cmd.Visible
		}
	case OpSetCrosshair:
		sc.CrosshairVisible = cmd.Visible
		sc.CrosshairX = cmd.X
	case OpSetMarker:
		sc.Markers = append(sc.Markers, Marker{
			Key:   cmd.Key,
			Color: cmd.Color,
			X:     cmd.X,
			Y:     cmd.Y,
			Value: cmd.Value,
		})
	case OpClearMarkers:
		sc.Markers = nil
	}
}
