package plot

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/sview/internal/app"
	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/ui/components"
)

func sampleResult() *models.QueryResult {
	return &models.QueryResult{
		Columns: []string{"time", "service", "requests"},
		Rows: [][]any{
			{"2024-01-01T00:00:00Z", "web", 3.0},
			{"2024-01-01T00:00:00Z", "db", 5.0},
			{"2024-01-01T01:00:00Z", "web", 4.0},
			{"2024-01-01T02:00:00Z", "db", 6.0},
		},
		BucketSize: 3600,
		Origin:     "testdata/result.json",
		LoadedAt:   time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
	}
}

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	cfg := &config.Config{GroupBy: []string{"service"}}
	m := New(state, cfg, nil)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC) }
	m.SetSize(120, 40)
	return m, state
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{Fill: "blank"}, nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Fill() != chart.FillBlank {
		t.Errorf("Fill() = %v, want blank", m.Fill())
	}
	if m.Session() != nil {
		t.Error("Expected no session before a result is loaded")
	}
	if m.Init() == nil {
		t.Error("Expected Init to start the spinner")
	}

	if New(app.NewState(), nil, nil) == nil {
		t.Error("Expected New to accept a nil config")
	}
}

func TestModel_SyncShowsResult(t *testing.T) {
	m, state := newTestModel(t)

	m.Update(nil)
	if m.Session() != nil {
		t.Fatal("Expected no session without a result")
	}

	state.SetResult(sampleResult())
	m.Update(nil)
	s := m.Session()
	if s == nil {
		t.Fatal("Expected a session after the result was stored")
	}
	want := []string{"web:requests", "db:requests"}
	if strings.Join(s.Keys(), ",") != strings.Join(want, ",") {
		t.Errorf("Keys() = %v, want %v", s.Keys(), want)
	}
	if s.Width() != components.SurfaceWidth(m.plotCols()) {
		t.Errorf("Width() = %d, want %d", s.Width(), components.SurfaceWidth(m.plotCols()))
	}

	m.Update(nil)
	if m.Session() != s {
		t.Error("Expected the same result to keep the session")
	}

	state.SetResult(sampleResult())
	m.Update(nil)
	if m.Session() == s {
		t.Error("Expected a new result to start a new session")
	}
}

func TestModel_SetSizeRerenders(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(sampleResult())
	m.Update(nil)

	m.SetSize(80, 30)
	if got, want := m.Session().Width(), components.SurfaceWidth(80-6-labelWidth); got != want {
		t.Errorf("Width() = %d, want %d", got, want)
	}

	m.SetSize(10, 5)
	if got, want := m.Session().Width(), components.SurfaceWidth(10); got != want {
		t.Errorf("Width() = %d at minimum size, want %d", got, want)
	}
}

func TestModel_FillKey(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(sampleResult())
	m.Update(nil)
	before := m.Session()

	_, cmd := m.Update(runeKey('f'))
	if m.Fill() != chart.FillZero {
		t.Errorf("Fill() = %v, want zero", m.Fill())
	}
	if m.Session() == before || m.Session().Fill() != chart.FillZero {
		t.Error("Expected a new session drawn with the zero fill")
	}
	if cmd == nil {
		t.Fatal("Expected a notification command")
	}
	msg, ok := cmd().(app.AddNotificationMsg)
	if !ok || !strings.Contains(msg.Message, "zero") {
		t.Errorf("Expected fill notification, got %#v", msg)
	}

	m.Update(runeKey('f'))
	m.Update(runeKey('f'))
	if m.Fill() != chart.FillConnect {
		t.Errorf("Fill() = %v after a full cycle, want connect", m.Fill())
	}
}

func TestModel_Export(t *testing.T) {
	m, state := newTestModel(t)
	m.exportDir = t.TempDir()
	state.SetResult(sampleResult())
	m.Update(nil)

	_, cmd := m.Update(runeKey('s'))
	if cmd == nil {
		t.Fatal("Expected an export command")
	}
	res, ok := cmd().(app.ExportResultMsg)
	if !ok {
		t.Fatalf("Expected ExportResultMsg, got %T", cmd())
	}
	if !res.Success || res.Error != nil {
		t.Fatalf("Export failed: %v", res.Error)
	}
	if !strings.HasSuffix(res.Path, "sview-20240101-040000.svg") {
		t.Errorf("Path = %q", res.Path)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "<svg") || !strings.Contains(string(data), "web:requests") {
		t.Errorf("Unexpected SVG: %s", data)
	}
}

func TestModel_ExportWriteError(t *testing.T) {
	m, state := newTestModel(t)
	m.exportDir = "/nonexistent/dir"
	state.SetResult(sampleResult())
	m.Update(nil)

	_, cmd := m.Update(runeKey('s'))
	res := cmd().(app.ExportResultMsg)
	if res.Success || res.Error == nil {
		t.Error("Expected the export to fail")
	}
}

func TestModel_Pointer(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(sampleResult())
	m.Update(nil)
	m.View()

	geo := m.geometry
	if geo.Cols == 0 {
		t.Fatal("Expected View to record the plot geometry")
	}

	m.pointer("", true, geo.Offset+geo.Cols/2, 2)
	if m.Session().State().Mode != chart.Hover {
		t.Fatalf("Mode = %v, want hover", m.Session().State().Mode)
	}
	if !m.Scene().CrosshairVisible {
		t.Error("Expected the crosshair to show")
	}
	if !strings.Contains(m.View(), "UTC") {
		t.Error("Expected the readout to name the hovered bucket")
	}

	m.pointer("", false, 0, 0)
	if m.Session().State().Mode != chart.Idle || m.Scene().CrosshairVisible {
		t.Error("Expected leaving the plot to hide the crosshair")
	}
}

func TestModel_PointerLegend(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(sampleResult())
	m.Update(nil)

	m.pointer("db:requests", false, 0, 0)
	if ss := m.Scene().Lookup("db:requests"); ss == nil || !ss.Emphasized() {
		t.Fatal("Expected legend hover to emphasize db:requests")
	}

	m.pointer("web:requests", false, 0, 0)
	if m.Scene().Lookup("db:requests").Emphasized() {
		t.Error("Expected db:requests released when the pointer moved on")
	}
	if !m.Scene().Lookup("web:requests").Emphasized() {
		t.Error("Expected web:requests emphasized")
	}

	m.pointer("", false, 0, 0)
	if m.Scene().Lookup("web:requests").Emphasized() {
		t.Error("Expected no emphasis after leaving the legend")
	}
}

func TestModel_MouseWithoutZones(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(sampleResult())
	m.Update(nil)

	m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionMotion})
	if m.Session().State().Mode != chart.Idle {
		t.Error("Expected mouse events to be ignored without zones")
	}
}

func TestModel_View(t *testing.T) {
	m, state := newTestModel(t)

	if view := m.View(); !strings.Contains(view, "Loading data...") {
		t.Errorf("Expected spinner while loading, got %q", view)
	}

	state.SetLoading("initial", false)
	if view := m.View(); !strings.Contains(view, "No data loaded") {
		t.Errorf("Expected placeholder, got %q", view)
	}

	state.SetResult(sampleResult())
	m.Update(nil)
	view := m.View()
	for _, want := range []string{"Chart", "testdata/result.json", "4 rows", "fill connect", "1 hour ago", "web:requests", "Move the mouse"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_ViewEmptyResult(t *testing.T) {
	m, state := newTestModel(t)
	state.SetResult(&models.QueryResult{Origin: "empty.json"})
	m.Update(nil)

	if !m.Session().Empty() {
		t.Fatal("Expected an empty session")
	}
	if view := m.View(); !strings.Contains(view, chart.EmptyMessage) {
		t.Errorf("Expected the empty message, got %q", view)
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp() has %d bindings, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 1 {
		t.Errorf("FullHelp() has %d groups, want 1", len(m.FullHelp()))
	}
}
