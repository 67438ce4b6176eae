package math

import (
	"golang.org/x/exp/rand"
)

// Blobs generates n points around each of the given centers.
// Coordinates are drawn uniformly within spread of the center.
func Blobs(centers [][]float64, n int, spread float64, seed uint64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	points := make([][]float64, 0, n*len(centers))
	labels := make([]int, 0, n*len(centers))
	for c, center := range centers {
		for i := 0; i < n; i++ {
			p := make([]float64, len(center))
			for j, v := range center {
				p[j] = v + spread*(2*rnd.Float64()-1)
			}
			points = append(points, p)
			labels = append(labels, c)
		}
	}
	return points, labels
}
