package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestStandardScaler(t *testing.T) {
	m := mat.NewDense(4, 3, []float64{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	})

	scaler := FitScaler(m)
	assert.Equal(t, 3, scaler.Dim())
	assert.Equal(t, []float64{2.5, 25, 5}, scaler.Mean)
	// constant columns are not scaled
	assert.Equal(t, 1.0, scaler.Scale[2])

	scaled, err := scaler.Transform(m)
	require.NoError(t, err)
	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, scaled)
		mean, std := stat.PopMeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, std, 1e-9)
	}
	assert.Equal(t, 0.0, scaled.At(0, 2))

	back, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(m, back, 1e-9))

	_, err = scaler.Transform(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestStandardScaler_TransformVec(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{1, 2}, Scale: []float64{2, 4}}
	v, err := scaler.TransformVec([]float64{3, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v)
}

func TestRows(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	m, err := FromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, rows, Rows(m))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
	_, err = FromRows(nil)
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	// points on a line keep all their variance on the first component
	m := mat.NewDense(5, 3, []float64{
		1, 2, 0,
		2, 4, 0,
		3, 6, 0,
		4, 8, 0,
		5, 10, 0,
	})
	p, err := Project(m, 2)
	require.NoError(t, err)
	r, c := p.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 0, p.At(i, 1), 1e-9)
	}
	assert.InDelta(t, 0, stat.Mean(mat.Col(nil, 0, p), nil), 1e-9)

	// a single feature is padded with zeros
	single, err := Project(mat.NewDense(3, 1, []float64{1, 2, 3}), 2)
	require.NoError(t, err)
	_, c = single.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 0.0, single.At(0, 1))
}
