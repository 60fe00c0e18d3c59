package plot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/sview/internal/ui/components"
	"github.com/j-veylop/sview/internal/ui/styles"
)

// View renders the chart tab. The plot geometry of the rendered frame is
// kept for mapping the next mouse events.
func (m *Model) View() string {
	if m.shown == nil {
		if m.state.IsInitialLoading() {
			return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
		}
		return styles.CenterBoth(styles.HelpStyle.Render("No data loaded"), m.width, m.height)
	}

	s := m.host.Active()
	plot, geo := components.RenderChart(s, m.scene, m.plotCols(), m.plotRows())
	m.geometry = geo

	sections := []string{
		m.renderHeader(),
		components.RenderLegend(components.LegendItems(m.scene), m.width-6, m.mark),
		"",
		m.mark(PlotZoneID, plot),
		"",
		components.RenderReadout(s, m.scene, m.now()),
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Chart")

	r := m.shown
	parts := []string{
		r.Origin,
		fmt.Sprintf("%s rows", humanize.Comma(int64(r.RowCount()))),
		fmt.Sprintf("fill %s", m.fill),
	}
	if !r.LoadedAt.IsZero() {
		parts = append(parts, "loaded "+humanize.RelTime(r.LoadedAt, m.now(), "ago", "from now"))
	}
	if alert := m.state.GetLastAlert(); alert != nil {
		parts = append(parts, styles.WarningTextStyle.Render(
			fmt.Sprintf("%s over %s", alert.Key, components.FormatValue(alert.Threshold))))
	}

	subtitle := styles.SubTitleStyle.Render(strings.Join(parts, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}
