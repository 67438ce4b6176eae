package math

import (
	"fmt"
	"math"
)

// Stats tracks the running moments of a stream of values.
// Mean and variance are updated incrementally so a column is scanned once.
type Stats struct {
	count    int
	min, max float64
	mean, m2 float64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Push adds a value.
func (s *Stats) Push(v float64) {
	s.count++
	delta := v - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (v - s.mean)
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

// Count returns the number of values pushed.
func (s Stats) Count() int {
	return s.count
}

// Mean returns the average, 0 if nothing was pushed.
func (s Stats) Mean() float64 {
	return s.mean
}

// Min returns the smallest value, NaN if nothing was pushed.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.min
}

// Max returns the largest value, NaN if nothing was pushed.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.max
}

// Variance is the population variance.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.m2 / float64(s.count)
}

// StDev is the population standard deviation.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// Collector keeps one Stats per column of a feature matrix.
type Collector struct {
	stats []*Stats
}

// NewCollector creates a collector for rows of the given width.
func NewCollector(dim int) *Collector {
	stats := make([]*Stats, dim)
	for i := range stats {
		stats[i] = NewStats()
	}
	return &Collector{stats: stats}
}

// Push adds a row.
func (c *Collector) Push(row ...float64) error {
	if len(row) != len(c.stats) {
		return fmt.Errorf("inconsistent dimensions %d vs %d", len(row), len(c.stats))
	}
	for j, v := range row {
		c.stats[j].Push(v)
	}
	return nil
}

// Stats returns the column stats in order.
func (c *Collector) Stats() []*Stats {
	return c.stats
}
