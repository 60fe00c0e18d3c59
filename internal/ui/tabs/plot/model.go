// Package plot provides the interactive chart tab.
package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/j-veylop/sview/internal/app"
	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/config"
	"github.com/j-veylop/sview/internal/logger"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services"
	"github.com/j-veylop/sview/internal/ui/components"
)

// PlotZoneID is the mouse zone id of the plot block.
const PlotZoneID = "plot"

// Layout reserves this many columns for the y axis labels and margins.
const (
	labelWidth = 12
	chromeRows = 9
)

// keyMap defines the key bindings specific to the chart tab.
type keyMap struct {
	Fill   key.Binding
	Export key.Binding
}

// defaultKeyMap returns the default key bindings for the chart tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Fill: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle fill mode"),
		),
		Export: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save svg"),
		),
	}
}

// Model represents the chart tab state.
type Model struct {
	state  *app.State
	config *config.Config
	zones  *zone.Manager
	keys   keyMap

	spinner components.LoadingSpinner

	container *chart.Container
	scene     *chart.Scene
	host      *chart.Host
	shown     *models.QueryResult
	fill      chart.FillMode

	geometry components.PlotGeometry
	legendAt string

	exportDir string
	now       func() time.Time

	width  int
	height int
}

// New creates a new chart tab. zones may be nil, which disables mouse
// interaction.
func New(state *app.State, cfg *config.Config, zones *zone.Manager) *Model {
	if cfg == nil {
		cfg = &config.Config{}
	}
	m := &Model{
		state:     state,
		config:    cfg,
		zones:     zones,
		keys:      defaultKeyMap(),
		spinner:   components.NewSpinner("Loading data..."),
		container: chart.NewContainer(components.SurfaceWidth(40)),
		scene:     chart.NewScene(),
		fill:      chart.ParseFillMode(cfg.Fill),
		now:       time.Now,
	}
	m.host = chart.NewHost(m.container, chart.Multi(m.scene, chart.SurfaceFunc(logCommand)))
	return m
}

func logCommand(cmd chart.Command) {
	if cmd.Op == chart.OpReset || cmd.Op == chart.OpEmptyState {
		logger.Debug("chart surface reset", "op", cmd.Op.String(), "width", cmd.Width)
	}
}

// Init initializes the chart tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Session returns the session on screen, or nil before the first result.
func (m *Model) Session() *chart.Session {
	return m.host.Active()
}

// Scene returns the retained drawing of the active session.
func (m *Model) Scene() *chart.Scene {
	return m.scene
}

// Fill returns the fill mode used for new sessions.
func (m *Model) Fill() chart.FillMode {
	return m.fill
}

// sync starts a new session when the shared state holds a newer result.
func (m *Model) sync() {
	res := m.state.GetResult()
	if res == nil || res == m.shown {
		return
	}
	m.shown = res
	m.show()
}

func (m *Model) show() {
	if m.shown == nil {
		return
	}
	opts := services.ChartOptions(m.config, m.shown)
	opts.Fill = m.fill
	m.legendAt = ""
	s := m.host.Show(m.shown.ChartInput(m.config.BucketSize), opts)
	logger.Debug("chart session shown", "session", s.ID(), "series", len(s.Keys()), "fill", m.fill.String())
}

// Update handles messages for the chart tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.sync()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case spinner.TickMsg:
		if m.shown == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Fill):
		m.fill = m.fill.Next()
		m.show()
		return m, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationInfo,
				Message:  fmt.Sprintf("Fill mode: %s", m.fill),
				Duration: app.QuickNotificationDuration,
			}
		}

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}
	return m, nil
}

// handleMouse finds the legend entry or plot cell under the pointer.
// Legend entries take precedence over the plot.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	s := m.host.Active()
	if m.zones == nil || s == nil || s.Empty() {
		return
	}

	over := ""
	for _, k := range s.Keys() {
		if z := m.zones.Get(components.LegendZoneID(k)); z != nil && z.InBounds(msg) {
			over = k
			break
		}
	}

	z := m.zones.Get(PlotZoneID)
	if z == nil || !z.InBounds(msg) {
		m.pointer(over, false, 0, 0)
		return
	}
	col, row := z.Pos(msg)
	m.pointer(over, true, col, row)
}

// pointer turns a pointer position into chart events. inPlot reports
// whether col,row is a cell of the plot block.
func (m *Model) pointer(legend string, inPlot bool, col, row int) {
	s := m.host.Active()
	if s == nil || s.Empty() {
		return
	}

	if legend != m.legendAt {
		if m.legendAt != "" {
			m.host.Dispatch(chart.LegendLeave{Key: m.legendAt})
		}
		if legend != "" {
			m.host.Dispatch(chart.LegendEnter{Key: legend})
		}
		m.legendAt = legend
	}

	if inPlot && m.geometry.Cols > 0 {
		px, py := m.geometry.ToSurface(col, row)
		m.host.Dispatch(chart.PointerMove{X: px, Y: py})
		return
	}
	if s.State().Mode == chart.Hover {
		m.host.Dispatch(chart.PointerLeave{})
	}
}

// exportCmd renders the scene now and writes it in the background.
func (m *Model) exportCmd() tea.Cmd {
	var buf bytes.Buffer
	if err := m.scene.WriteSVG(&buf); err != nil {
		return func() tea.Msg {
			return app.ExportResultMsg{Error: err}
		}
	}
	path := filepath.Join(m.exportDir, fmt.Sprintf("sview-%s.svg", m.now().Format("20060102-150405")))
	return func() tea.Msg {
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			return app.ExportResultMsg{Path: path, Error: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		logger.Info("chart exported", "path", path)
		return app.ExportResultMsg{Path: path, Success: true}
	}
}

func (m *Model) plotCols() int {
	return max(m.width-6-labelWidth, 10)
}

func (m *Model) plotRows() int {
	return max(m.height-chromeRows, 3)
}

// SetSize sets the available size for the chart tab. The surface width
// follows the plot width, so the active session re-renders.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.container.SetWidth(components.SurfaceWidth(m.plotCols()))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Fill,
		m.keys.Export,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Fill, m.keys.Export},
	}
}
