package math

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project reduces the matrix to its first n principal components.
// If the data has fewer usable components than n, the remaining columns are zero.
func Project(m mat.Matrix, n int) (*mat.Dense, error) {
	r, c := m.Dims()
	out := mat.NewDense(r, n, nil)
	if r < 2 {
		return out, nil
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("could not compute principal components for %dx%d matrix", r, c)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	centered := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		mean := stat.Mean(mat.Col(nil, j, m), nil)
		for i := 0; i < r; i++ {
			centered.Set(i, j, m.At(i, j)-mean)
		}
	}

	_, components := vecs.Dims()
	k := n
	if components < k {
		k = components
	}
	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, c, 0, k))
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, proj.At(i, j))
		}
	}
	return out, nil
}
