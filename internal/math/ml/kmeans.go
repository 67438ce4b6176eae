package ml

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	clustermath "github.com/drakos74/free-cluster/internal/math"
)

// Clustering is the outcome of fitting a k-means model.
type Clustering struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// newClustering builds a clustering out of the labels and centroids of a backend.
// Labels are renumbered in order of first appearance and the inertia is recomputed on the data.
func newClustering(labels []int, centroids [][]float64, data [][]float64) *Clustering {
	ids := make(map[int]int)
	relabelled := make([]int, len(labels))
	ordered := make([][]float64, 0, len(centroids))
	for i, l := range labels {
		id, ok := ids[l]
		if !ok {
			id = len(ids)
			ids[l] = id
			c := make([]float64, len(centroids[l]))
			copy(c, centroids[l])
			ordered = append(ordered, c)
		}
		relabelled[i] = id
	}
	// keep centroids nobody was assigned to, at the end
	for l, c := range centroids {
		if _, ok := ids[l]; !ok {
			cc := make([]float64, len(c))
			copy(cc, c)
			ordered = append(ordered, cc)
		}
	}
	return &Clustering{
		labels:    relabelled,
		centroids: ordered,
		inertia:   Inertia(data, relabelled, ordered),
	}
}

// Assignments returns the cluster id of every row.
func (c *Clustering) Assignments() []int {
	ll := make([]int, len(c.labels))
	copy(ll, c.labels)
	return ll
}

// Inertia returns the sum of squared distances of every row to its centroid.
func (c *Clustering) Inertia() float64 {
	return c.inertia
}

// Centroids returns the cluster centers in the space the model was fitted on.
func (c *Clustering) Centroids() [][]float64 {
	cc := make([][]float64, len(c.centroids))
	for i, centroid := range c.centroids {
		cc[i] = make([]float64, len(centroid))
		copy(cc[i], centroid)
	}
	return cc
}

// Predict returns the id of the nearest centroid.
func (c *Clustering) Predict(x []float64) int {
	id, _ := Nearest(x, c.centroids)
	return id
}

// KMeans is a seeded k-means++ implementation with multiple restarts.
type KMeans struct {
	iterations int
	tolerance  float64
}

// NewKMeans creates a new k-means clusterer running at most the given number of iterations per restart.
func NewKMeans(iterations int) *KMeans {
	if iterations <= 0 {
		iterations = 300
	}
	return &KMeans{
		iterations: iterations,
		tolerance:  1e-9,
	}
}

// Fit clusters the rows of the matrix into k groups.
// Every restart draws its initial centers from the same seeded source, the run with the lowest inertia is kept.
func (km *KMeans) Fit(m mat.Matrix, k int, seed uint64, restarts int) (*Clustering, error) {
	data := clustermath.Rows(m)
	if err := validate(data, k); err != nil {
		return nil, err
	}
	if restarts < 1 {
		restarts = 1
	}
	rnd := rand.New(rand.NewSource(seed))
	var best *Clustering
	for r := 0; r < restarts; r++ {
		centroids := initPlusPlus(data, k, rnd)
		labels, iterations := km.lloyd(data, centroids)
		c := newClustering(labels, centroids, data)
		log.Trace().
			Int("k", k).
			Int("restart", r).
			Int("iterations", iterations).
			Float64("inertia", c.inertia).
			Msg("k-means restart")
		if best == nil || c.inertia < best.inertia {
			best = c
		}
	}
	return best, nil
}

func validate(data [][]float64, k int) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot cluster empty data set")
	}
	if k < 1 {
		return fmt.Errorf("invalid number of clusters: %d", k)
	}
	if k > len(data) {
		return fmt.Errorf("more clusters than rows: %d > %d", k, len(data))
	}
	return nil
}

// initPlusPlus picks the initial centers, each one with probability proportional
// to its squared distance from the centers picked so far.
func initPlusPlus(data [][]float64, k int, rnd *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := data[rnd.Intn(len(data))]
	centroids = append(centroids, clone(first))

	d2 := make([]float64, len(data))
	for len(centroids) < k {
		total := 0.0
		for i, x := range data {
			_, d := Nearest(x, centroids)
			d2[i] = d
			total += d
		}
		next := 0
		if total == 0 {
			next = rnd.Intn(len(data))
		} else {
			target := rnd.Float64() * total
			acc := 0.0
			for i, d := range d2 {
				if d == 0 {
					continue
				}
				acc += d
				next = i
				if acc >= target {
					break
				}
			}
		}
		centroids = append(centroids, clone(data[next]))
	}
	return centroids
}

// lloyd alternates assignment and update steps until the assignment is stable.
// centroids are updated in place.
func (km *KMeans) lloyd(data [][]float64, centroids [][]float64) ([]int, int) {
	k := len(centroids)
	dim := len(data[0])
	labels := make([]int, len(data))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iterations < km.iterations {
		iterations++
		changed := false
		for i, x := range data {
			id, _ := Nearest(x, centroids)
			if id != labels[i] {
				labels[i] = id
				changed = true
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, x := range data {
			floats.Add(sums[labels[i]], x)
			counts[labels[i]]++
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				continue
			}
			// move the empty center onto the point furthest from its own center
			far, ok := farthest(data, labels, counts, centroids)
			if !ok {
				continue
			}
			counts[labels[far]]--
			floats.Sub(sums[labels[far]], data[far])
			labels[far] = c
			counts[c] = 1
			copy(sums[c], data[far])
			copy(centroids[c], data[far])
			changed = true
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			shift += sqDistance(sums[c], centroids[c])
			copy(centroids[c], sums[c])
		}

		if !changed || shift <= km.tolerance {
			break
		}
	}
	// final assignment against the last centers
	for i, x := range data {
		labels[i], _ = Nearest(x, centroids)
	}
	return labels, iterations
}

// farthest finds the point furthest from its center, among clusters that can spare one.
func farthest(data [][]float64, labels []int, counts []int, centroids [][]float64) (int, bool) {
	idx, max := -1, 0.0
	for i, x := range data {
		if counts[labels[i]] < 2 {
			continue
		}
		d := sqDistance(x, centroids[labels[i]])
		if d > max {
			idx, max = i, d
		}
	}
	return idx, idx >= 0
}

// Nearest returns the index of the closest centroid and the squared distance to it.
func Nearest(x []float64, centroids [][]float64) (int, float64) {
	id, min := 0, math.MaxFloat64
	for c, centroid := range centroids {
		d := sqDistance(x, centroid)
		if d < min {
			id, min = c, d
		}
	}
	return id, min
}

// Inertia is the sum of squared distances of every row to the centroid it is assigned to.
func Inertia(data [][]float64, labels []int, centroids [][]float64) float64 {
	sum := 0.0
	for i, x := range data {
		sum += sqDistance(x, centroids[labels[i]])
	}
	return sum
}

// DistinctRows counts the unique rows of the matrix.
func DistinctRows(m mat.Matrix) int {
	r, c := m.Dims()
	seen := make(map[string]struct{}, r)
	key := make([]byte, 0, 8*c)
	for i := 0; i < r; i++ {
		key = key[:0]
		for j := 0; j < c; j++ {
			b := math.Float64bits(m.At(i, j) + 0)
			for s := 0; s < 64; s += 8 {
				key = append(key, byte(b>>s))
			}
		}
		seen[string(key)] = struct{}{}
	}
	return len(seen)
}

func sqDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(x []float64) []float64 {
	c := make([]float64, len(x))
	copy(c, x)
	return c
}
