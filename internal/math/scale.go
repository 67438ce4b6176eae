package math

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StandardScaler centers every column to mean 0 and scales it to unit variance.
// Parameters are kept in column order, so the same scaler must be used to transform and invert.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes the column means and population standard deviations of the matrix.
// Columns with zero variance are scaled by 1.
func FitScaler(m mat.Matrix) *StandardScaler {
	r, c := m.Dims()
	collector := NewCollector(c)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		// dimensions come from the matrix itself
		_ = collector.Push(mat.Row(row, i, m)...)
	}
	scaler := &StandardScaler{
		Mean:  make([]float64, c),
		Scale: make([]float64, c),
	}
	for j, st := range collector.Stats() {
		scaler.Mean[j] = st.Mean()
		scaler.Scale[j] = st.StDev()
		if scaler.Scale[j] == 0 {
			scaler.Scale[j] = 1
		}
	}
	return scaler
}

// Dim returns the number of columns the scaler was fitted on.
func (s *StandardScaler) Dim() int {
	return len(s.Mean)
}

// Transform scales the given matrix.
func (s *StandardScaler) Transform(m mat.Matrix) (*mat.Dense, error) {
	return s.apply(m, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
}

// InverseTransform maps a scaled matrix back to the original units.
func (s *StandardScaler) InverseTransform(m mat.Matrix) (*mat.Dense, error) {
	return s.apply(m, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
}

// TransformVec scales a single vector.
func (s *StandardScaler) TransformVec(x []float64) ([]float64, error) {
	m, err := s.Transform(mat.NewDense(1, len(x), x))
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, 0, m), nil
}

func (s *StandardScaler) apply(m mat.Matrix, f func(j int, v float64) float64) (*mat.Dense, error) {
	r, c := m.Dims()
	if c != s.Dim() {
		return nil, fmt.Errorf("inconsistent dimensions for scaler %d vs %d", c, s.Dim())
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return f(j, v)
	}, m)
	return out, nil
}

// Rows converts the matrix to a slice of row vectors.
func Rows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

// FromRows creates a dense matrix out of equally sized row vectors.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("cannot create matrix from empty rows")
	}
	c := len(rows[0])
	m := mat.NewDense(len(rows), c, nil)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("inconsistent row length at %d: %d vs %d", i, len(row), c)
		}
		m.SetRow(i, row)
	}
	return m, nil
}
