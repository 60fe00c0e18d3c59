package chart

import (
	"bytes"
	"strings"
	"testing"
)

func sampleInput() Input {
	return Input{
		Rows: [][]any{
			{"2024-01-01T00:00:00Z", "web", 3.0, 1.5},
			{"2024-01-01T00:00:00Z", "db", 5.0, 2.5},
			{"2024-01-01T01:00:00Z", "web", 4.0, 1.0},
			{"2024-01-01T03:00:00Z", "db", 6.0, 0.5},
		},
		BucketSize: 3600,
	}
}

func sampleOptions(fill FillMode) Options {
	return Options{
		GroupBy: []string{"service"},
		Fill:    fill,
		Columns: []string{"service", "requests", "latency"},
	}
}

func TestSession_Empty(t *testing.T) {
	rec := &Recorder{}
	s := NewSession(Input{}, sampleOptions(FillConnect), rec)
	s.Render(800)

	cmds := rec.Commands()
	if len(cmds) != 1 || cmds[0].Op != OpEmptyState || cmds[0].Text != EmptyMessage {
		t.Fatalf("Expected only the empty-state marker, got %v", cmds)
	}
	if !s.Empty() || len(s.Keys()) != 0 || s.Frame() != nil {
		t.Error("Expected empty session without series or frame")
	}
	if got := s.Dispatch(PointerMove{X: 100, Y: 100}); got != nil {
		t.Errorf("Expected empty session to ignore events, got %v", got)
	}
}

func TestSession_KeysAndLegend(t *testing.T) {
	rec := &Recorder{}
	s := NewSession(sampleInput(), sampleOptions(FillConnect), rec)
	s.Render(800)

	want := []string{"web:requests", "web:latency", "db:requests", "db:latency"}
	legend := rec.Filter(OpSetLegendText)
	if len(legend) != len(want) {
		t.Fatalf("Expected %d legend entries, got %d", len(want), len(legend))
	}
	for i, k := range want {
		if legend[i].Key != k || legend[i].Text != k {
			t.Errorf("legend[%d] = %q, want %q", i, legend[i].Key, k)
		}
		if legend[i].Color != ColorAt(i) {
			t.Errorf("legend[%d] color = %s, want %s", i, legend[i].Color, ColorAt(i))
		}
	}
	if got := rec.Count(OpBeginPath); got != len(want) {
		t.Errorf("Expected %d paths, got %d", len(want), got)
	}
}

func TestSession_DeterministicOrder(t *testing.T) {
	first := NewSession(sampleInput(), sampleOptions(FillBlank), nil)
	for range 5 {
		again := NewSession(sampleInput(), sampleOptions(FillBlank), nil)
		if strings.Join(again.Keys(), ",") != strings.Join(first.Keys(), ",") {
			t.Fatalf("Keys() = %v, want %v", again.Keys(), first.Keys())
		}
	}
}

func TestSession_ResizeKeepsDomain(t *testing.T) {
	rec := &Recorder{}
	c := NewContainer(800)
	h := NewHost(c, rec)
	s := h.Show(sampleInput(), sampleOptions(FillZero))

	dom := s.Domain()
	x := s.Frame().BucketX[1]
	series := s.Series()

	rec.Reset()
	c.SetWidth(1200)

	if s.Width() != 1200 {
		t.Fatalf("Width() = %d, want 1200", s.Width())
	}
	if s.Domain() != dom {
		t.Errorf("Domain changed on resize: %+v -> %+v", dom, s.Domain())
	}
	if s.Series() != series {
		t.Error("Expected series to be reused on resize")
	}
	if s.Frame().BucketX[1] == x {
		t.Error("Expected bucket pixel positions to change")
	}
	if rec.Count(OpReset) != 1 {
		t.Errorf("Expected one re-render, got %d", rec.Count(OpReset))
	}

	rec.Reset()
	c.SetWidth(1200)
	if len(rec.Commands()) != 0 {
		t.Error("Expected no re-render when width is unchanged")
	}
}

func TestSession_RenderResetsInteraction(t *testing.T) {
	c := NewContainer(800)
	h := NewHost(c, &Recorder{})
	s := h.Show(sampleInput(), sampleOptions(FillConnect))

	s.Dispatch(PointerMove{X: 50, Y: 200})
	if s.State().Mode != Hover {
		t.Fatal("Expected hover")
	}
	c.SetWidth(640)
	if s.State().Mode != Idle || s.State().Selected != "" {
		t.Errorf("State = %+v, want idle after re-render", s.State())
	}
}

func TestHost_SingleObserver(t *testing.T) {
	rec := &Recorder{}
	c := NewContainer(800)
	h := NewHost(c, rec)

	old := h.Show(sampleInput(), sampleOptions(FillConnect))
	next := h.Show(sampleInput(), sampleOptions(FillBlank))

	if c.Observers() != 1 {
		t.Fatalf("Observers() = %d, want 1", c.Observers())
	}
	if h.Active() != next {
		t.Error("Expected the newest session to be active")
	}

	c.SetWidth(500)
	if old.Width() != 800 {
		t.Errorf("Detached session re-rendered to %d", old.Width())
	}
	if next.Width() != 500 {
		t.Errorf("Active session width = %d, want 500", next.Width())
	}

	h.Close()
	if c.Observers() != 0 {
		t.Errorf("Observers() = %d after Close, want 0", c.Observers())
	}
	if got := h.Dispatch(PointerLeave{}); got != nil {
		t.Errorf("Expected closed host to ignore events, got %v", got)
	}
}

func TestScene_FoldsCommands(t *testing.T) {
	scene := NewScene()
	c := NewContainer(600)
	h := NewHost(c, scene)
	s := h.Show(sampleInput(), sampleOptions(FillConnect))

	if len(scene.Series) != 4 || scene.Width != 600 {
		t.Fatalf("scene has %d series at width %v", len(scene.Series), scene.Width)
	}
	web := scene.Lookup("web:requests")
	if web == nil || len(web.Path) != 2 || web.Color != ColorAt(0) {
		t.Fatalf("web:requests = %+v", web)
	}

	s.Dispatch(LegendEnter{Key: "web:requests"})
	if !web.Highlighted || !web.Emphasized() {
		t.Error("Expected legend hover to emphasize web:requests")
	}

	s.Dispatch(PointerMove{X: 50, Y: 100})
	if !scene.CrosshairVisible || len(scene.Markers) != 4 {
		t.Errorf("crosshair %v with %d markers", scene.CrosshairVisible, len(scene.Markers))
	}
	s.Dispatch(PointerLeave{})
	if scene.CrosshairVisible || len(scene.Markers) != 0 {
		t.Error("Expected crosshair and markers hidden after leave")
	}

	h.Show(Input{}, sampleOptions(FillConnect))
	if !scene.IsEmpty() || len(scene.Series) != 0 {
		t.Error("Expected empty scene after empty input")
	}
}

func TestScene_WriteSVG(t *testing.T) {
	scene := NewScene()
	h := NewHost(NewContainer(640), scene)
	h.Show(sampleInput(), sampleOptions(FillBlank))

	var buf bytes.Buffer
	if err := scene.WriteSVG(&buf); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`width="640"`, `height="400"`, `stroke="#1f77b4"`, "db:latency", "<path d=\"M"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	h.Show(Input{}, sampleOptions(FillBlank))
	buf.Reset()
	if err := scene.WriteSVG(&buf); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}
	if !strings.Contains(buf.String(), EmptyMessage) || strings.Contains(buf.String(), "<path") {
		t.Errorf("Expected only the empty message, got %s", buf.String())
	}
}
