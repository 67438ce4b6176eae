package ml

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplit(t *testing.T) {
	type test struct {
		n        int
		fraction float64
		train    int
		test     int
		err      bool
	}

	tests := map[string]test{
		"default":  {n: 100, fraction: 0.2, train: 80, test: 20},
		"ceil":     {n: 11, fraction: 0.2, train: 8, test: 3},
		"minimal":  {n: 2, fraction: 0.9, train: 1, test: 1},
		"too-few":  {n: 1, fraction: 0.2, err: true},
		"fraction": {n: 10, fraction: 1, err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := TrainTestSplit(tt.n, tt.fraction, 1)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.train, len(s.Train))
			assert.Equal(t, tt.test, len(s.Test))

			all := append(append([]int{}, s.Train...), s.Test...)
			sort.Ints(all)
			for i := range all {
				assert.Equal(t, i, all[i])
			}
		})
	}
}

func TestTrainTestSplit_Seeded(t *testing.T) {
	s1, err := TrainTestSplit(50, 0.3, 9)
	require.NoError(t, err)
	s2, err := TrainTestSplit(50, 0.3, 9)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 1, Argmax([]float64{0.2, 0.8}))
	assert.Equal(t, 0, Argmax([]float64{0.5, 0.5}))
	assert.Equal(t, 0, Argmax(nil))
}
