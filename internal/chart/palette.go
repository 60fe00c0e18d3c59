package chart

// Palette is the series color cycle, assigned in legend order.
var Palette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
}

// ColorAt returns the palette color for the i-th series.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}
