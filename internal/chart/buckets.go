package chart

import (
	"math"

	"github.com/j-veylop/sview/internal/logger"
)

// maxBuckets bounds the bucket list for pathological ranges.
const maxBuckets = 1 << 20

// Stride converts a bucket size in seconds to a stride in milliseconds.
func Stride(bucketSize float64) int64 {
	if bucketSize <= 0 || math.IsNaN(bucketSize) {
		bucketSize = DefaultBucketSize
	}
	ms := int64(math.Round(bucketSize * 1000))
	if ms < 1 {
		ms = 1
	}
	return ms
}

// Buckets returns the aligned bucket instants. With both bounds the list
// runs from start while <= end. Otherwise the observed extent of set is
// used, with a single present bound widening it.
func Buckets(start, end *int64, stride int64, set *SeriesSet) []int64 {
	if stride < 1 {
		stride = 1
	}
	var lo, hi int64
	switch {
	case start != nil && end != nil:
		lo, hi = *start, *end
	default:
		minT, maxT, ok := set.Extent()
		hasLo, hasHi := ok, ok
		lo, hi = minT, maxT
		if start != nil && (!hasLo || *start < lo) {
			lo, hasLo = *start, true
		}
		if end != nil && (!hasHi || *end > hi) {
			hi, hasHi = *end, true
		}
		if !hasLo || !hasHi {
			return nil
		}
	}
	if hi < lo {
		return nil
	}

	n := (hi-lo)/stride + 1
	if n > maxBuckets {
		logger.Warn("bucket range truncated", "buckets", n, "limit", maxBuckets, "stride_ms", stride)
		n = maxBuckets
	}
	buckets := make([]int64, 0, n)
	for t := lo; t <= hi && int64(len(buckets)) < n; t += stride {
		buckets = append(buckets, t)
	}
	return buckets
}

func parseBound(s *string) *int64 {
	if s == nil {
		return nil
	}
	ms, ok := ParseTimestamp(*s)
	if !ok {
		return nil
	}
	return &ms
}
