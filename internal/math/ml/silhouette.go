package ml

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	clustermath "github.com/drakos74/free-cluster/internal/math"
)

// Silhouette returns the mean silhouette coefficient of the clustering.
// For every row a is the mean distance to the other members of its cluster
// and b the smallest mean distance to the members of any other cluster,
// the coefficient being (b-a)/max(a,b). Rows in singleton clusters score 0.
// The result is 0 when the labels do not define between 2 and n-1 clusters.
func Silhouette(m mat.Matrix, labels []int) float64 {
	data := clustermath.Rows(m)
	n := len(data)
	if n == 0 || len(labels) != n {
		return 0
	}

	ids := make(map[int]int)
	for _, l := range labels {
		if _, ok := ids[l]; !ok {
			ids[l] = len(ids)
		}
	}
	k := len(ids)
	if k < 2 || k > n-1 {
		return 0
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[ids[l]]++
	}

	sum := 0.0
	dist := make([]float64, k)
	for i, x := range data {
		for c := range dist {
			dist[c] = 0
		}
		for j, y := range data {
			if i == j {
				continue
			}
			dist[ids[labels[j]]] += floats.Distance(x, y, 2)
		}
		own := ids[labels[i]]
		if sizes[own] < 2 {
			continue
		}
		a := dist[own] / float64(sizes[own]-1)
		b := math.MaxFloat64
		for c := 0; c < k; c++ {
			if c == own {
				continue
			}
			if d := dist[c] / float64(sizes[c]); d < b {
				b = d
			}
		}
		if s := math.Max(a, b); s > 0 {
			sum += (b - a) / s
		}
	}
	return sum / float64(n)
}
