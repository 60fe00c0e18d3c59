package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/ui/styles"
)

// LegendZonePrefix prefixes the mouse zone id of each legend entry.
const LegendZonePrefix = "legend:"

// LegendZoneID returns the mouse zone id of the legend entry for key.
func LegendZoneID(key string) string {
	return LegendZonePrefix + key
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Key        string
	Label      string
	Color      lipgloss.Color
	Emphasized bool
}

// LegendItems lists the legend of a scene in draw order.
func LegendItems(scene *chart.Scene) []LegendItem {
	if scene == nil {
		return nil
	}
	items := make([]LegendItem, 0, len(scene.Series))
	for _, s := range scene.Series {
		items = append(items, LegendItem{
			Key:        s.Key,
			Label:      s.Legend,
			Color:      lipgloss.Color(s.Color),
			Emphasized: s.Emphasized(),
		})
	}
	return items
}

// RenderLegend lays legend entries out in rows no wider than width. mark,
// when set, wraps each entry so the pointer can find it.
func RenderLegend(items []LegendItem, width int, mark func(id, s string) string) string {
	var (
		rows    []string
		current []string
		used    int
	)
	for _, item := range items {
		style := styles.LegendStyle
		if item.Emphasized {
			style = styles.LegendActiveStyle
		}
		box := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		entry := style.Render(box + " " + item.Label)
		if mark != nil {
			entry = mark(LegendZoneID(item.Key), entry)
		}

		w := lipgloss.Width(entry)
		if used > 0 && width > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, used = nil, 0
		}
		current = append(current, entry)
		used += w
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return strings.Join(rows, "\n")
}

// FormatValue renders a series value for the readout.
func FormatValue(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// RenderReadout describes the hovered bucket and the value of every marked
// series, or a hint while the pointer is away.
func RenderReadout(s *chart.Session, scene *chart.Scene, now time.Time) string {
	if s == nil || scene == nil || !scene.CrosshairVisible {
		return styles.HelpStyle.Render("Move the mouse over the plot to inspect values")
	}

	st := s.State()
	buckets := s.Buckets()
	if st.Bucket < 0 || st.Bucket >= len(buckets) {
		return ""
	}
	ts := buckets[st.Bucket]
	at := time.UnixMilli(ts)
	header := fmt.Sprintf("%s UTC (%s)", chart.FormatBucket(ts), humanize.RelTime(at, now, "ago", "from now"))

	parts := []string{styles.ReadoutStyle.Bold(true).Render(header)}
	if len(scene.Markers) == 0 {
		parts = append(parts, styles.HelpStyle.Render("no values"))
	}
	for _, m := range scene.Markers {
		box := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Render("●")
		text := fmt.Sprintf("%s %s", m.Key, FormatValue(m.Value))
		if m.Key == st.Selected {
			text = styles.ReadoutStyle.Bold(true).Render(text)
		} else {
			text = styles.ReadoutStyle.Render(text)
		}
		parts = append(parts, box+" "+text)
	}
	return strings.Join(parts, "  ")
}
