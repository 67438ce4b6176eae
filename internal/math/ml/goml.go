package ml

import (
	"fmt"
	"io"
	mrand "math/rand"

	"github.com/cdipaolo/goml/cluster"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	clustermath "github.com/drakos74/free-cluster/internal/math"
)

// Goml wraps the goml k-means++ model.
// goml seeds the global math/rand source from the clock when the model is created
// and draws its initial centers from it, so every restart re-seeds it right before learning.
// Centers are picked as aliases of training rows and moved in place, so every restart
// learns on its own copy of the rows.
type Goml struct {
	iterations int
}

// NewGoml creates a new goml backed clusterer.
func NewGoml(iterations int) *Goml {
	if iterations <= 0 {
		iterations = 300
	}
	return &Goml{iterations: iterations}
}

// Fit clusters the rows of the matrix into k groups, keeping the restart with the lowest inertia.
// Centroids and inertia are computed on the input rows out of the goml assignment.
func (g *Goml) Fit(m mat.Matrix, k int, seed uint64, restarts int) (*Clustering, error) {
	data := clustermath.Rows(m)
	if err := validate(data, k); err != nil {
		return nil, err
	}
	if restarts < 1 {
		restarts = 1
	}
	var best *Clustering
	for r := 0; r < restarts; r++ {
		model := cluster.NewKMeans(k, g.iterations, clustermath.Rows(m))
		model.Output = io.Discard
		mrand.Seed(int64(seed) + int64(r))
		if err := model.Learn(); err != nil {
			log.Error().
				Err(err).
				Int("k", k).
				Int("restart", r).
				Msg("error during training on k-means")
			return nil, fmt.Errorf("could not train: %w", err)
		}
		guesses := model.Guesses()
		if len(guesses) != len(data) {
			return nil, fmt.Errorf("could not align results with data [ %d | %d ]", len(guesses), len(data))
		}
		c := newClustering(guesses, means(data, guesses, k), data)
		if best == nil || c.inertia < best.inertia {
			best = c
		}
	}
	return best, nil
}

// means computes the center of every cluster as the mean of its rows.
// A cluster without rows keeps a zero center and is moved behind the assigned ones.
func means(data [][]float64, labels []int, k int) [][]float64 {
	dim := len(data[0])
	centroids := make([][]float64, k)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
	}
	counts := make([]int, k)
	for i, x := range data {
		floats.Add(centroids[labels[i]], x)
		counts[labels[i]]++
	}
	for c, n := range counts {
		if n > 0 {
			floats.Scale(1/float64(n), centroids[c])
		}
	}
	return centroids
}
