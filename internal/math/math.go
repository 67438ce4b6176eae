package math

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Mean returns the arithmetic mean of the values, NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Median returns the median of the values, averaging the middle pair for even sizes.
// It returns NaN for an empty slice.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode returns the most frequent value.
// Ties resolve to the smallest value.
func Mode(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int)
	for _, f := range x {
		counts[f]++
	}
	mode, count := math.Inf(1), 0
	for f, c := range counts {
		if c > count || (c == count && f < mode) {
			mode, count = f, c
		}
	}
	return mode
}

// ModeString returns the most frequent level.
// Ties resolve to the lexicographically smallest level.
func ModeString(x []string) (string, bool) {
	if len(x) == 0 {
		return "", false
	}
	counts := make(map[string]int)
	for _, s := range x {
		counts[s]++
	}
	var mode string
	count := 0
	for s, c := range counts {
		if c > count || (c == count && s < mode) {
			mode, count = s, c
		}
	}
	return mode, true
}
