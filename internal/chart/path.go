package chart

import (
	"math"
	"strconv"
	"strings"
)

// PathOp is a pen instruction.
type PathOp int

const (
	MoveTo PathOp = iota
	LineTo
)

// PathCommand is one pen instruction in pixel space.
type PathCommand struct {
	Op   PathOp
	X, Y float64
}

// BuildPath walks the buckets in order and emits pen instructions for one
// series. A present value draws a point. A missing value draws a zero point
// under FillZero, lifts the pen under FillBlank and is skipped under
// FillConnect, so leading gaps start the path at the first real point.
func BuildPath(data SeriesData, buckets []int64, fill FillMode, sc Scaler) []PathCommand {
	cmds := make([]PathCommand, 0, len(buckets))
	down := false
	for _, b := range buckets {
		v, present := data[b]
		switch {
		case present && math.IsNaN(v):
			continue
		case !present && fill == FillZero:
			v = 0
		case !present && fill == FillBlank:
			down = false
			continue
		case !present:
			continue
		}
		op := MoveTo
		if down {
			op = LineTo
		}
		cmds = append(cmds, PathCommand{Op: op, X: sc.X(float64(b)), Y: sc.Y(v)})
		down = true
	}
	return cmds
}

// Subpaths counts the disjoint runs in a path.
func Subpaths(cmds []PathCommand) int {
	n := 0
	for _, c := range cmds {
		if c.Op == MoveTo {
			n++
		}
	}
	return n
}

// PathData renders cmds as an SVG path "d" attribute.
func PathData(cmds []PathCommand) string {
	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		if c.Op == MoveTo {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(strconv.FormatFloat(c.X, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(c.Y, 'f', -1, 64))
	}
	return b.String()
}

// Samples returns one value per bucket for cell based renderers. It
// follows the pen of BuildPath: NaN where nothing is drawn and a linear
// bridge wherever the pen stays down across skipped buckets.
func Samples(data SeriesData, buckets []int64, fill FillMode) []float64 {
	out := make([]float64, len(buckets))
	last := -1
	for i, b := range buckets {
		out[i] = math.NaN()
		v, present := data[b]
		switch {
		case present && math.IsNaN(v):
			continue
		case !present && fill == FillZero:
			v = 0
		case !present && fill == FillBlank:
			last = -1
			continue
		case !present:
			continue
		}
		if last >= 0 {
			from := out[last]
			for j := last + 1; j < i; j++ {
				out[j] = from + (v-from)*float64(j-last)/float64(i-last)
			}
		}
		out[i] = v
		last = i
	}
	return out
}
