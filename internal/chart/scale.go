package chart

// Surface geometry in pixels. The height never changes; the width follows
// the container.
const (
	MarginLeft   = 50
	MarginRight  = 10
	MarginTop    = 30
	MarginBottom = 30
	Height       = 400
)

// Scaler maps domain values to pixel coordinates for one container width.
type Scaler struct {
	dom   Domain
	width float64
}

// NewScaler returns a Scaler over d for a surface width pixels wide.
func NewScaler(d Domain, width int) Scaler {
	return Scaler{dom: d, width: float64(width)}
}

// Width returns the surface width the scales were built for.
func (s Scaler) Width() float64 { return s.width }

// Domain returns the extents behind the scales.
func (s Scaler) Domain() Domain { return s.dom }

// X maps an instant in epoch ms to a pixel column.
func (s Scaler) X(x float64) float64 {
	return (x-s.dom.MinX)/s.dom.XRange()*(s.width-MarginLeft-MarginRight) + MarginLeft
}

// Y maps a value to a pixel row. Larger values map to smaller rows.
func (s Scaler) Y(y float64) float64 {
	return Height - MarginBottom - (y-s.dom.MinY)/s.dom.YRange()*(Height-MarginTop-MarginBottom)
}

// InvertY maps a pixel row back to a value.
func (s Scaler) InvertY(py float64) float64 {
	return s.dom.MinY + (Height-MarginBottom-py)/(Height-MarginTop-MarginBottom)*s.dom.YRange()
}

// Contains reports whether a pointer position lies on the drawing surface.
func (s Scaler) Contains(px, py float64) bool {
	return px >= 0 && px <= s.width && py >= 0 && py <= Height
}
