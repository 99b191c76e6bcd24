package metrics

import (
	"fmt"
	"math"
	"sort"
)

// maxSample is the upper bound of every histogram's overflow bucket.
const maxSample = math.MaxInt32

// Kind identifies how a histogram lays out its buckets.
type Kind int

const (
	KindPercentage Kind = iota
	KindCustomCounts
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindPercentage:
		return "percentage"
	case KindCustomCounts:
		return "custom_counts"
	case KindCount:
		return "count"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layout is the set of bucket boundaries of a histogram. Ranges[0] is 0,
// Ranges[1] is the declared minimum and the final entry is maxSample, so
// len(Ranges) is the bucket count plus one.
type Layout struct {
	Kind   Kind
	Min    int
	Max    int
	Ranges []int
}

// PercentageLayout is the layout used for percentage histograms: one exact
// bucket per value in 0..100 and an overflow bucket.
func PercentageLayout() Layout {
	const boundary = 101
	return linearLayout(KindPercentage, 1, boundary, boundary+1)
}

func linearLayout(kind Kind, min, max, buckets int) Layout {
	min, max = clampBounds(min, max)
	ranges := make([]int, buckets+1)
	ranges[buckets] = maxSample
	for i := 1; i < buckets; i++ {
		linear := (float64(min)*float64(buckets-1-i) + float64(max)*float64(i-1)) / float64(buckets-2)
		ranges[i] = int(linear + 0.5)
	}
	return Layout{Kind: kind, Min: min, Max: max, Ranges: ranges}
}

// ExponentialLayout returns buckets whose widths grow geometrically from min
// to max. Where rounding would produce an empty bucket the bucket is one
// unit wide instead, so small values get exact buckets.
func ExponentialLayout(min, max, buckets int) Layout {
	min, max = clampBounds(min, max)
	ranges := make([]int, buckets+1)
	ranges[buckets] = maxSample

	logMax := math.Log(float64(max))
	current := min
	ranges[1] = current
	for i := 2; i < buckets; i++ {
		logCurrent := math.Log(float64(current))
		logRatio := (logMax - logCurrent) / float64(buckets-i)
		next := int(math.Round(math.Exp(logCurrent + logRatio)))
		if next > current {
			current = next
		} else {
			current++
		}
		ranges[i] = current
	}
	return Layout{Kind: KindCustomCounts, Min: min, Max: max, Ranges: ranges}
}

func clampBounds(min, max int) (int, int) {
	if min < 1 {
		min = 1
	}
	if max >= maxSample {
		max = maxSample - 1
	}
	return min, max
}

// BucketIndex returns the index of the bucket holding sample. Negative
// samples land in the underflow bucket.
func (l Layout) BucketIndex(sample int) int {
	if sample < 0 {
		sample = 0
	}
	// First boundary strictly greater than sample, minus one.
	i := sort.Search(len(l.Ranges), func(i int) bool { return l.Ranges[i] > sample })
	if i == 0 {
		return 0
	}
	if i >= len(l.Ranges) {
		return len(l.Ranges) - 2
	}
	return i - 1
}

// BucketCount returns the number of buckets in the layout.
func (l Layout) BucketCount() int { return len(l.Ranges) - 1 }

// Bucket is one populated bucket of a histogram: [Min, Max).
type Bucket struct {
	Min   int
	Max   int
	Count int
}
