package ml

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Classifier is a supervised model producing class probabilities.
type Classifier interface {
	Train(x [][]float64, y []int) error
	PredictProba(x [][]float64) ([][]float64, error)
}

// Split holds the row indices of the train and test partitions.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles the row indices with the given seed and keeps
// ceil(n * fraction) of them for testing.
func TrainTestSplit(n int, fraction float64, seed uint64) (Split, error) {
	if n < 2 {
		return Split{}, fmt.Errorf("need at least 2 rows to split: %d", n)
	}
	if fraction <= 0 || fraction >= 1 {
		return Split{}, fmt.Errorf("test fraction must be in (0,1): %f", fraction)
	}
	test := int(math.Ceil(float64(n) * fraction))
	if test >= n {
		test = n - 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return Split{
		Train: perm[test:],
		Test:  perm[:test],
	}, nil
}

// Select picks the given rows of the samples.
func Select(x [][]float64, rows []int) [][]float64 {
	s := make([][]float64, len(rows))
	for i, r := range rows {
		s[i] = x[r]
	}
	return s
}

// SelectLabels picks the given rows of the labels.
func SelectLabels(y []int, rows []int) []int {
	s := make([]int, len(rows))
	for i, r := range rows {
		s[i] = y[r]
	}
	return s
}

// Argmax returns the index of the highest value, the first one on ties.
func Argmax(p []float64) int {
	idx := 0
	for i, v := range p {
		if v > p[idx] {
			idx = i
		}
	}
	return idx
}
