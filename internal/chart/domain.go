package chart

import "math"

// Domain holds the numeric extents mapped to pixel space.
type Domain struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// XRange returns the width of the X extent, widened to 1 when empty.
func (d Domain) XRange() float64 { return unitIfZero(d.MaxX - d.MinX) }

// YRange returns the height of the Y extent, widened to 1 when empty.
func (d Domain) YRange() float64 { return unitIfZero(d.MaxY - d.MinY) }

// ContainsY reports whether v lies inside the Y extent.
func (d Domain) ContainsY(v float64) bool { return v >= d.MinY && v <= d.MaxY }

func unitIfZero(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

// effective returns the value a series contributes at bucket b under fill.
// ok is false when the bucket contributes nothing.
func effective(data SeriesData, b int64, fill FillMode) (float64, bool) {
	v, present := data[b]
	if !present {
		if fill == FillZero {
			return 0, true
		}
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ComputeDomain derives the X and Y extents. Y covers every effective value
// and includes zero under FillZero. X is [start, end] when both are given
// and the first and last bucket otherwise.
func ComputeDomain(set *SeriesSet, buckets []int64, fill FillMode, start, end *int64) Domain {
	var d Domain
	switch {
	case start != nil && end != nil:
		d.MinX, d.MaxX = float64(*start), float64(*end)
	case len(buckets) > 0:
		d.MinX, d.MaxX = float64(buckets[0]), float64(buckets[len(buckets)-1])
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, key := range set.Keys {
		data := set.Data[key]
		for _, b := range buckets {
			v, ok := effective(data, b, fill)
			if !ok {
				continue
			}
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 0
	}
	if fill == FillZero {
		minY = math.Min(minY, 0)
		maxY = math.Max(maxY, 0)
	}
	d.MinY, d.MaxY = minY, maxY
	return d
}
