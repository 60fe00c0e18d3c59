package info

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/models"
	"github.com/j-veylop/sview/internal/services"
	"github.com/j-veylop/sview/internal/ui/components"
	"github.com/j-veylop/sview/internal/ui/styles"
	"github.com/j-veylop/sview/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderSourceCard(),
		m.renderResultCard(),
		m.renderSeriesCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Data source, query result and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 100)
}

func (m *Model) card(title string, rows ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, body...),
	)
}

// renderSourceCard renders the configured data source and chart options.
func (m *Model) renderSourceCard() string {
	c := m.config
	if c == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	var rows []string
	if c.SourcePath != "" {
		rows = append(rows, m.renderConfigRow("Source", c.SourcePath))
		rows = append(rows, m.renderConfigRow("Watch Debounce", c.WatchDebounce.String()))
	}
	if c.SQLitePath != "" {
		rows = append(rows, m.renderConfigRow("SQLite", c.SQLitePath))
		rows = append(rows, m.renderConfigRow("Query", c.SQLiteQuery))
	}
	rows = append(rows,
		m.renderConfigRow("Fill", chart.ParseFillMode(c.Fill).String()),
		m.renderConfigRow("Group By", listOrNone(c.GroupBy)),
		m.renderConfigRow("Columns", listOrNone(c.Columns)),
		m.renderConfigRow("Hit Counts", strconv.FormatBool(c.ShowHits)),
	)
	if c.BucketSize > 0 {
		rows = append(rows, m.renderConfigRow("Bucket Size", (time.Duration(c.BucketSize)*time.Second).String()))
	}
	alerts := "off"
	if c.AlertEnabled {
		alerts = "at " + components.FormatValue(c.AlertThreshold)
	}
	rows = append(rows,
		m.renderConfigRow("Alerts", alerts),
		m.renderConfigRow("Log File", c.LogPath),
	)

	return m.card("Configuration", rows...)
}

// renderResultCard renders details of the loaded query result.
func (m *Model) renderResultCard() string {
	r := m.state.GetResult()
	if r == nil {
		return m.card("Query Result", styles.HelpStyle.Render("No result loaded"))
	}

	rows := []string{
		m.renderConfigRow("Origin", r.Origin),
		m.renderConfigRow("Kind", r.Kind.String()),
		m.renderConfigRow("Rows", humanize.Comma(int64(r.RowCount()))),
		m.renderConfigRow("Columns", listOrNone(r.Columns)),
	}
	if r.SQL != "" {
		rows = append(rows, m.renderConfigRow("SQL", r.SQL))
	}
	if r.BucketSize > 0 {
		rows = append(rows, m.renderConfigRow("Bucket Size", (time.Duration(r.BucketSize)*time.Second).String()))
	}
	if !r.LoadedAt.IsZero() {
		rows = append(rows, m.renderConfigRow("Loaded", humanize.Time(r.LoadedAt)))
	}

	return m.card("Query Result", rows...)
}

// renderSeriesCard summarizes every series: a sparkline over the bucket
// range and a bar of observed buckets.
func (m *Model) renderSeriesCard() string {
	r := m.state.GetResult()
	if r == nil || m.config == nil || len(r.Rows) == 0 {
		return m.card("Series", styles.HelpStyle.Render(chart.EmptyMessage))
	}

	stats := seriesStats(r, m)
	if len(stats.keys) == 0 {
		return m.card("Series", styles.HelpStyle.Render("No series"))
	}

	rows := []string{
		m.renderConfigRow("Buckets", humanize.Comma(int64(stats.buckets))),
		m.renderConfigRow("Range", stats.span),
		m.renderConfigRow("Y Domain", fmt.Sprintf("%s to %s",
			components.FormatValue(stats.domain.MinY), components.FormatValue(stats.domain.MaxY))),
		"",
	}

	labelWidth := 0
	for _, k := range stats.keys {
		labelWidth = max(labelWidth, lipgloss.Width(k))
	}
	sparkWidth := max(m.cardWidth()-labelWidth-8, 10)
	for i, k := range stats.keys {
		label := lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color(chart.ColorAt(i))).Render(k)
		rows = append(rows, label+"  "+components.RenderSparkline(stats.samples[i], sparkWidth))
	}

	rows = append(rows, "", styles.CardTitleStyle.Render("Observed buckets"))
	rows = append(rows, components.RenderBarChart(stats.observed, stats.keys, m.cardWidth()-4))

	return m.card("Series", rows...)
}

type summary struct {
	keys     []string
	samples  [][]float64
	observed []float64
	buckets  int
	span     string
	domain   chart.Domain
}

func seriesStats(r *models.QueryResult, m *Model) summary {
	in := r.ChartInput(m.config.BucketSize)
	opts := services.ChartOptions(m.config, r)
	set := chart.Aggregate(in.Rows, opts.GroupBy, opts.ShowHits, opts.ValueColumns())
	buckets := chart.Buckets(nil, nil, chart.Stride(in.BucketSize), set)

	s := summary{
		keys:    set.Keys,
		buckets: len(buckets),
		domain:  chart.ComputeDomain(set, buckets, opts.Fill, nil, nil),
	}
	for _, k := range set.Keys {
		s.samples = append(s.samples, chart.Samples(set.Data[k], buckets, opts.Fill))
		s.observed = append(s.observed, float64(len(set.Data[k])))
	}
	if len(buckets) > 0 {
		s.span = chart.FormatBucket(buckets[0]) + " to " + chart.FormatBucket(buckets[len(buckets)-1])
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	return m.card("About sview",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)
}
