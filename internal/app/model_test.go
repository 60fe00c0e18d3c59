package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services"
)

// stubTab records the messages it receives.
type stubTab struct {
	view          string
	width, height int
	msgs          []tea.Msg
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}

func (s *stubTab) View() string               { return s.view }
func (s *stubTab) SetSize(width, height int)  { s.width, s.height = width, height }
func (s *stubTab) ShortHelp() []key.Binding   { return nil }
func (s *stubTab) FullHelp() [][]key.Binding { return nil }

func TestNewModel(t *testing.T) {
	model := NewModel(nil, nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabChart {
		t.Error("Default tab should be Chart")
	}
	if len(model.tabs) != 2 {
		t.Errorf("Should have 2 tabs placeholder, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil, nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if !model.state.IsInitialLoading() {
		t.Error("Expected initial loading until the first result")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil, nil)
	tab := &stubTab{}
	model.SetTabs([]Tab{tab, &stubTab{}})

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}

	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	if tab.width != 100 || tab.height != 45 {
		t.Errorf("tab size = %dx%d, want 100x45", tab.width, tab.height)
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := NewModel(nil, nil)
	model.ready = true
	model.width = 100
	model.height = 50

	model.Update(TabSwitchMsg{Tab: TabInfo})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v, want Info", model.activeTab)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	if model.activeTab != TabChart {
		t.Errorf("ActiveTab = %v, want Chart", model.activeTab)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v after tab, want Info", model.activeTab)
	}
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabChart {
		t.Errorf("ActiveTab = %v after shift+tab, want Chart", model.activeTab)
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil, nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil, nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 80
	model.height = 24

	view := model.View()
	if !strings.Contains(view, "Chart") {
		t.Error("View should show Chart tab")
	}
	if !strings.Contains(view, "Nothing to show") {
		t.Error("View should show placeholder text")
	}
}

func TestModel_View_ScansZones(t *testing.T) {
	zones := zone.New()
	model := NewModel(nil, zones)
	model.SetTabs([]Tab{&stubTab{view: zones.Mark("plot", "PLOT")}, &stubTab{}})
	model.ready = true
	model.width = 80
	model.height = 24

	view := model.View()
	if !strings.Contains(view, "PLOT") {
		t.Errorf("View = %q, want the tab content", view)
	}
	if model.GetZones() != zones {
		t.Error("GetZones returned a different manager")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil, nil)
	model.ready = true
	model.width = 80
	model.height = 24

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}

	if view := model.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if model.showHelp {
		t.Error("showHelp should be false after toggle")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil, nil)

	model.Update(AddNotificationMsg{
		Message:  "Test Note",
		Type:     NotificationInfo,
		Duration: 0,
	})

	if notifs := model.state.GetNotifications(); len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}

	model.ready = true
	model.width = 80
	model.height = 24
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil, nil)

	res := &models.QueryResult{Rows: [][]any{{"2024-01-01", 1.0}}}
	cmd := model.handleServiceEvent(services.ResultLoadedEvent{Result: res})
	if cmd == nil {
		t.Fatal("ResultLoadedEvent should produce a command")
	}
	loaded, ok := cmd().(ResultLoadedMsg)
	if !ok || loaded.Result != res {
		t.Fatalf("command produced %T", cmd())
	}

	model.state.SetLoading("reload", true)
	if cmd := model.handleServiceEvent(services.ErrorEvent{Service: "sqlite", Error: errors.New("boom")}); cmd == nil {
		t.Error("Error event should trigger notification command")
	}
	if model.state.Loading.Reload {
		t.Error("Error event should stop the reload")
	}

	alert := services.AlertEvent{Key: "web", Value: 12, Threshold: 10}
	cmd = model.handleServiceEvent(alert)
	msg, ok := cmd().(AddNotificationMsg)
	if !ok || msg.Type != NotificationWarning || !strings.Contains(msg.Message, "web is 12") {
		t.Errorf("alert notification = %+v", msg)
	}
	if got := model.state.GetLastAlert(); got == nil || *got != alert {
		t.Errorf("LastAlert = %v", got)
	}
}

func TestModel_Update_Messages(t *testing.T) {
	model := NewModel(nil, nil)
	tab := &stubTab{}
	model.SetTabs([]Tab{tab, &stubTab{}})

	model.Update(StartLoadingMsg{Resource: "reload"})
	if !model.state.Loading.Reload {
		t.Error("Loading.Reload should be true")
	}

	model.Update(StopLoadingMsg{Resource: "reload"})
	if model.state.Loading.Reload {
		t.Error("Loading.Reload should be false")
	}

	res := &models.QueryResult{Origin: "result.json"}
	model.Update(ResultLoadedMsg{Result: res})
	if model.state.GetResult() != res {
		t.Error("Result should be stored")
	}
	if model.state.AnyLoading() {
		t.Error("Loading should be cleared after a result")
	}
	if len(tab.msgs) == 0 {
		t.Error("Active tab should receive messages")
	}

	cmd := model.handleExportResult(ExportResultMsg{Path: "out.svg", Success: true})
	if add, ok := cmd().(AddNotificationMsg); !ok || !strings.Contains(add.Message, "out.svg") {
		t.Error("Export success should notify with the path")
	}
	cmd = model.handleExportResult(ExportResultMsg{Error: errors.New("disk full")})
	if add, ok := cmd().(AddNotificationMsg); !ok || add.Type != NotificationError {
		t.Error("Export failure should notify an error")
	}

	// No services: refresh is a no-op.
	if cmds := model.handleRefresh(); cmds != nil {
		t.Errorf("handleRefresh() = %v, want nil", cmds)
	}

	model.Update(AddNotificationMsg{Message: "test", Type: NotificationInfo})
	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil, nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	if TabChart.String() != "Chart" {
		t.Error("TabChart.String() mismatch")
	}
	if TabInfo.String() != "Info" {
		t.Error("TabInfo.String() mismatch")
	}
	if TabID(999).String() != "Unknown" {
		t.Error("Unknown tab string mismatch")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestPlaceAt(t *testing.T) {
	tests := []struct {
		name  string
		view  string
		block string
		x, y  int
		want  string
	}{
		{"middle", "abcdef\nghijkl", "XY", 2, 1, "abcdef\nghXYkl"},
		{"pads short line", "ab\ncd", "X", 4, 0, "ab  X\ncd"},
		{"clips rows", "ab", "X\nY", 0, 0, "Xb"},
		{"negative origin", "abc", "X", -3, -1, "Xbc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := placeAt(tt.view, tt.block, tt.x, tt.y); got != tt.want {
				t.Errorf("placeAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_NavbarStatus(t *testing.T) {
	model := NewModel(nil, nil)
	model.width = 100

	if model.renderStatus() != "" {
		t.Error("Expected no status before a result is loaded")
	}

	model.state.SetResult(&models.QueryResult{Origin: "result.json", LoadedAt: time.Now()})
	if nav := model.renderNavbar(); !strings.Contains(nav, "result.json") {
		t.Errorf("navbar = %q, want the source", nav)
	}
}
