package transform

import (
	"math"
	"math/rand"
	"sort"
)

// NumericStats accumulates the moments of one numeric feature after log
// normalization.
type NumericStats struct {
	Count int64   `yaml:"count"`
	Sum   float64 `yaml:"sum"`
	SumSq float64 `yaml:"sum_sq"`
}

// logNormalize compresses the heavy-tailed count and popularity features.
// Inputs are non-negative; anything below zero is clamped so the result
// stays finite.
func logNormalize(x float64) float64 {
	return math.Log1p(math.Max(x, 0))
}

// Add records one raw feature value.
func (s *NumericStats) Add(x float64) {
	v := logNormalize(x)
	s.Count++
	s.Sum += v
	s.SumSq += v * v
}

// Mean returns the mean of the log-normalized values.
func (s *NumericStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// StdDev returns the population standard deviation of the log-normalized
// values.
func (s *NumericStats) StdDev() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Mean()
	variance := s.SumSq/float64(s.Count) - mean*mean
	if variance < 0 {
		// Guard against tiny negative values from floating point error.
		return 0
	}
	return math.Sqrt(variance)
}

// Standardize maps a raw value to its z-score under the fitted stats. A
// constant feature maps to 0.
func (s *NumericStats) Standardize(x float64) float64 {
	std := s.StdDev()
	if std == 0 {
		return 0
	}
	return (logNormalize(x) - s.Mean()) / std
}

// Reservoir keeps a bounded uniform sample of raw feature values, used
// to estimate quantile bucket boundaries without holding the full
// dataset.
type Reservoir struct {
	capacity int
	seen     int64
	sample   []float64
	rnd      *rand.Rand
}

// NewReservoir returns a reservoir holding at most capacity values.
func NewReservoir(capacity int, rnd *rand.Rand) *Reservoir {
	return &Reservoir{
		capacity: capacity,
		sample:   make([]float64, 0, capacity),
		rnd:      rnd,
	}
}

// Add offers one value to the sample.
func (r *Reservoir) Add(x float64) {
	r.seen++
	if len(r.sample) < r.capacity {
		r.sample = append(r.sample, x)
		return
	}
	if i := r.random(r.seen); i < int64(r.capacity) {
		r.sample[i] = x
	}
}

func (r *Reservoir) random(n int64) int64 {
	if r.rnd == nil {
		return rand.Int63n(n)
	}
	return r.rnd.Int63n(n)
}

// Boundaries returns buckets-1 ascending cut points estimated from the
// sample, deduplicated. Fewer than two distinct sampled values yield no
// boundaries.
func (r *Reservoir) Boundaries(buckets int) []float64 {
	if buckets < 2 || len(r.sample) == 0 {
		return nil
	}

	sorted := make([]float64, len(r.sample))
	copy(sorted, r.sample)
	sort.Float64s(sorted)

	var boundaries []float64
	for i := 1; i < buckets; i++ {
		idx := i * len(sorted) / buckets
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		b := sorted[idx]
		if len(boundaries) == 0 || b > boundaries[len(boundaries)-1] {
			boundaries = append(boundaries, b)
		}
	}
	return boundaries
}

// Bucketize returns the bucket index of x given ascending boundaries:
// the number of boundaries strictly less than x.
func Bucketize(x float64, boundaries []float64) int64 {
	return int64(sort.SearchFloat64s(boundaries, x))
}
