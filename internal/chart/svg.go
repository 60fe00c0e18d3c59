package chart

import (
	"bytes"
	"fmt"
	"html"
	"io"
)

const legendCharWidth = 7

// WriteSVG writes the scene as a standalone SVG document: legend along the
// top margin, one path per series, then crosshair and markers.
func (sc *Scene) WriteSVG(w io.Writer) error {
	var b bytes.Buffer
	width := sc.Width
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%d" viewBox="0 0 %g %d">`+"\n",
		width, Height, width, Height)

	if sc.IsEmpty() {
		fmt.Fprintf(&b, `  <text id="empty-message" x="%d" y="%d">%s</text>`+"\n",
			MarginLeft, Height/2, html.EscapeString(sc.Empty))
		b.WriteString("</svg>\n")
		return flush(w, &b)
	}

	b.WriteString(`  <g id="legend" font-family="sans-serif" font-size="12">` + "\n")
	x := float64(MarginLeft)
	for _, s := range sc.Series {
		weight := "normal"
		if s.Highlighted {
			weight = "bold"
		}
		label := s.Legend
		if label == "" {
			label = s.Key
		}
		fmt.Fprintf(&b, `    <text x="%g" y="%d" fill="%s" font-weight="%s">%s</text>`+"\n",
			x, MarginTop/2+4, s.Color, weight, html.EscapeString(label))
		x += float64(len(label)*legendCharWidth + 16)
	}
	b.WriteString("  </g>\n")

	for _, s := range sc.Series {
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="%s" stroke-width="%g" data-key="%s"/>`+"\n",
			PathData(s.Path), s.Color, s.Stroke, html.EscapeString(s.Key))
	}

	if sc.CrosshairVisible {
		fmt.Fprintf(&b, `  <line x1="%g" y1="%d" x2="%g" y2="%d" stroke="#888" stroke-dasharray="4 2"/>`+"\n",
			sc.CrosshairX, MarginTop, sc.CrosshairX, Height-MarginBottom)
	}
	for _, m := range sc.Markers {
		fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="3" fill="%s"/>`+"\n", m.X, m.Y, m.Color)
	}
	b.WriteString("</svg>\n")
	return flush(w, &b)
}

func flush(w io.Writer, b *bytes.Buffer) error {
	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}
