// Package statistics provides summary statistics over series of
// per-hand observations, such as a player's winnings measured in big
// blinds. Simulations accumulate one Series per seat and report the
// mean with a confidence interval so that strategy comparisons can be
// judged against sampling noise.
package statistics

import (
	"math"
	"sort"
)

// Series accumulates scalar observations and answers summary queries.
// The zero value is ready to use. Series is not safe for concurrent
// use; parallel workers should each fill their own Series and combine
// them with Merge.
type Series struct {
	Count  int       // number of observations
	Sum    float64   // running sum
	Sum2   float64   // running sum of squares
	Values []float64 // retained for Median and Percentile
}

// Add records one observation.
func (s *Series) Add(v float64) {
	s.Count++
	s.Sum += v
	s.Sum2 += v * v
	s.Values = append(s.Values, v)
}

// Merge folds other into s. Order statistics remain exact because the
// raw values are carried over.
func (s *Series) Merge(other *Series) {
	s.Count += other.Count
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)
}

// Mean returns the average observation, or 0 for an empty series.
func (s *Series) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance (n-1 denominator), or 0 when
// fewer than two observations have been recorded.
func (s *Series) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Count)*mean*mean) / float64(s.Count-1)
}

// StdDev returns the sample standard deviation.
func (s *Series) StdDev() float64 {
	v := s.Variance()
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// StdError returns the standard error of the mean.
func (s *Series) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// ConfidenceInterval95 returns the bounds of the 95% confidence
// interval for the mean, using the normal approximation.
func (s *Series) ConfidenceInterval95() (low, high float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the middle observation, averaging the two central
// values for even counts.
func (s *Series) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at quantile p in [0,1] using linear
// interpolation between the two nearest ranks.
func (s *Series) Percentile(p float64) float64 {
	if s.Count == 0 {
		return 0
	}
	if p <= 0 {
		p = 0
	}
	if p >= 1 {
		p = 1
	}

	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
