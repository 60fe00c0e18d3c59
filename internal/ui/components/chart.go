// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/sview/internal/chart"
	"github.com/j-veylop/sview/internal/ui/styles"
)

// CellPx is the surface width in pixels that one plot column stands for.
const CellPx = 8

// plotSpan is the surface height between the top and bottom margins.
const plotSpan = chart.Height - chart.MarginTop - chart.MarginBottom

// seriesColors follow chart.Palette in the terminal's 256 colors.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.SteelBlue,
	asciigraph.DarkOrange,
	asciigraph.ForestGreen,
	asciigraph.Crimson,
	asciigraph.MediumPurple,
	asciigraph.Sienna,
	asciigraph.HotPink,
}

// SeriesColor returns the plot color of the i-th series.
func SeriesColor(i int) asciigraph.AnsiColor {
	return seriesColors[i%len(seriesColors)]
}

// SurfaceWidth returns the surface width a plot cols columns wide stands for.
func SurfaceWidth(cols int) int {
	return cols*CellPx + chart.MarginLeft + chart.MarginRight
}

// PlotGeometry maps cells of a rendered plot to surface pixels. Cell
// coordinates are relative to the top-left corner of the plot block.
type PlotGeometry struct {
	// Offset is the column of the first plot cell, right of the axis.
	Offset int
	Cols   int
	Rows   int
}

func (g PlotGeometry) span() float64 { return float64(g.Cols * CellPx) }

func (g PlotGeometry) colStep() float64 {
	return g.span() / float64(max(g.Cols-1, 1))
}

func (g PlotGeometry) rowStep() float64 {
	return plotSpan / float64(max(g.Rows-1, 1))
}

// ToSurface converts a cell to surface pixels.
func (g PlotGeometry) ToSurface(col, row int) (px, py float64) {
	px = chart.MarginLeft + float64(col-g.Offset)*g.colStep()
	py = chart.MarginTop + float64(row)*g.rowStep()
	return px, py
}

// Column returns the cell column for surface x px.
func (g PlotGeometry) Column(px float64) int {
	return g.Offset + int(math.Round((px-chart.MarginLeft)/g.colStep()))
}

// Row returns the cell row for surface y py.
func (g PlotGeometry) Row(py float64) int {
	return int(math.Round((py - chart.MarginTop) / g.rowStep()))
}

// Resample spreads per-bucket samples over cols plot columns. A column
// between two buckets interpolates them; next to a gap it takes the nearer
// bucket.
func Resample(samples, bucketX []float64, cols int) []float64 {
	out := make([]float64, cols)
	step := float64(cols*CellPx) / float64(max(cols-1, 1))
	for c := range out {
		px := chart.MarginLeft + float64(c)*step
		out[c] = sampleAt(samples, bucketX, px, step/2)
	}
	return out
}

func sampleAt(samples, xs []float64, px, tolerance float64) float64 {
	n := len(xs)
	if n == 0 || len(samples) != n {
		return math.NaN()
	}
	i := sort.SearchFloat64s(xs, px)
	switch {
	case i == 0:
		if xs[0]-px <= tolerance {
			return samples[0]
		}
		return math.NaN()
	case i == n:
		if px-xs[n-1] <= tolerance {
			return samples[n-1]
		}
		return math.NaN()
	}

	a, b := samples[i-1], samples[i]
	width := xs[i] - xs[i-1]
	if width == 0 {
		return b
	}
	t := (px - xs[i-1]) / width
	if math.IsNaN(a) || math.IsNaN(b) {
		if t < 0.5 {
			return a
		}
		return b
	}
	return a + (b-a)*t
}

// RenderChart draws the active session of a scene as a terminal plot cols
// wide and about rows high. The highlighted series is drawn last so it
// stays on top.
func RenderChart(s *chart.Session, scene *chart.Scene, cols, rows int) (string, PlotGeometry) {
	if s == nil || scene == nil || s.Empty() || scene.IsEmpty() {
		msg := chart.EmptyMessage
		if scene != nil && scene.IsEmpty() {
			msg = scene.Empty
		}
		return styles.HelpStyle.Render(msg), PlotGeometry{}
	}

	cols = max(cols, 10)
	rows = max(rows, 3)

	f := s.Frame()
	set := s.Series()
	order := drawOrder(scene, set.Keys)

	data := make([][]float64, 0, len(order))
	colors := make([]asciigraph.AnsiColor, 0, len(order))
	for _, i := range order {
		samples := chart.Samples(set.Data[set.Keys[i]], s.Buckets(), s.Fill())
		data = append(data, Resample(samples, f.BucketX, cols))
		colors = append(colors, SeriesColor(i))
	}

	dom := s.Domain()
	graph := asciigraph.PlotMany(data,
		asciigraph.Width(cols),
		asciigraph.Height(rows),
		asciigraph.LowerBound(dom.MinY),
		asciigraph.UpperBound(dom.MinY+dom.YRange()),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.AxisColor(asciigraph.Gray),
		asciigraph.LabelColor(asciigraph.Gray),
	)

	lines := strings.Split(graph, "\n")
	geo := PlotGeometry{Offset: axisOffset(lines[0]), Cols: cols, Rows: len(lines)}

	if scene.CrosshairVisible {
		col := geo.Column(scene.CrosshairX)
		mark := lipgloss.NewStyle().Foreground(styles.Crosshair).Render("│")
		for r, line := range lines {
			if cellAt(line, col) == ' ' {
				lines[r] = overlay(line, col, mark)
			}
		}
	}
	for _, m := range scene.Markers {
		row := geo.Row(m.Y)
		if row < 0 || row >= len(lines) {
			continue
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Bold(true).Render("●")
		lines[row] = overlay(lines[row], geo.Column(m.X), dot)
	}

	return strings.Join(lines, "\n"), geo
}

// drawOrder lists series indexes with emphasized series last.
func drawOrder(scene *chart.Scene, keys []string) []int {
	order := make([]int, 0, len(keys))
	var top []int
	for i, k := range keys {
		if ss := scene.Lookup(k); ss != nil && ss.Emphasized() {
			top = append(top, i)
			continue
		}
		order = append(order, i)
	}
	return append(order, top...)
}

// axisOffset returns the column right of the y axis glyph in line.
func axisOffset(line string) int {
	plain := []rune(ansi.Strip(line))
	for i, r := range plain {
		if r == '┤' || r == '┼' {
			return i + 1
		}
	}
	return 0
}

func cellAt(line string, col int) rune {
	plain := []rune(ansi.Strip(line))
	if col < 0 || col >= len(plain) {
		return 0
	}
	return plain[col]
}

// overlay replaces the cell at col with s.
func overlay(line string, col int, s string) string {
	if col < 0 {
		return line
	}
	left := ansi.Truncate(line, col, "")
	if w := ansi.StringWidth(left); w < col {
		left += strings.Repeat(" ", col-w)
	}
	right := ansi.TruncateLeft(line, col+1, "")
	return left + s + right
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-10, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := strings.Repeat("█", barLen)

		lines = append(lines, paddedLabel+" │"+bar+fmt.Sprintf(" %.0f", v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline. NaN samples render
// as blanks.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	spread := hi - lo
	if math.IsInf(lo, 1) || spread == 0 {
		spread = 1
	}

	var result strings.Builder
	step := math.Max(float64(len(values))/float64(width), 1)

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		if math.IsNaN(val) {
			result.WriteRune(' ')
			continue
		}
		normalized := int((val - lo) / spread * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}
