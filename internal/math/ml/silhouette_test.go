package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	clustermath "github.com/drakos74/free-cluster/internal/math"
)

func TestSilhouette(t *testing.T) {
	type test struct {
		data   [][]float64
		labels []int
		check  func(t *testing.T, s float64)
	}

	tests := map[string]test{
		"separated": {
			data:   [][]float64{{0, 0}, {0, 0.1}, {10, 10}, {10, 10.1}},
			labels: []int{0, 0, 1, 1},
			check: func(t *testing.T, s float64) {
				assert.True(t, s > 0.9)
			},
		},
		"swapped": {
			data:   [][]float64{{0, 0}, {0, 0.1}, {10, 10}, {10, 10.1}},
			labels: []int{0, 1, 0, 1},
			check: func(t *testing.T, s float64) {
				assert.True(t, s < 0)
			},
		},
		"single-cluster": {
			data:   [][]float64{{0}, {1}, {2}},
			labels: []int{0, 0, 0},
			check: func(t *testing.T, s float64) {
				assert.Equal(t, 0.0, s)
			},
		},
		"all-singletons": {
			data:   [][]float64{{0}, {1}, {2}},
			labels: []int{0, 1, 2},
			check: func(t *testing.T, s float64) {
				assert.Equal(t, 0.0, s)
			},
		},
		"singleton-scores-zero": {
			// the singleton adds 0, the pair scores (10-0)/10 each
			data:   [][]float64{{0}, {0}, {10}},
			labels: []int{0, 0, 1},
			check: func(t *testing.T, s float64) {
				assert.InDelta(t, 2.0/3.0, s, 1e-12)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := clustermath.FromRows(tt.data)
			require.NoError(t, err)
			tt.check(t, Silhouette(m, tt.labels))
		})
	}
}

func TestSilhouette_Range(t *testing.T) {
	x, _ := clustermath.Blobs([][]float64{{0, 0}, {3, 3}, {6, 0}}, 20, 2.5, 5)
	m, err := clustermath.FromRows(x)
	require.NoError(t, err)
	for k := 2; k <= 8; k++ {
		c, err := NewKMeans(100).Fit(m, k, 1, 10)
		require.NoError(t, err)
		s := Silhouette(m, c.Assignments())
		assert.True(t, s >= -1 && s <= 1, "k=%d silhouette=%f", k, s)
	}
	assert.Equal(t, 0.0, Silhouette(mat.NewDense(1, 1, nil), []int{0}))
}
