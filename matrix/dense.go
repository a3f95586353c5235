package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense copies m into a gonum matrix.
func (m Mat) Dense() *mat.Dense {
	data := make([]float64, 0, Dim*Dim)
	for i := 0; i < Dim; i++ {
		data = append(data, m[i][:]...)
	}
	return mat.NewDense(Dim, Dim, data)
}

// Dense copies v into a gonum vector.
func (v Vec) Dense() *mat.VecDense {
	data := make([]float64, Dim)
	copy(data, v[:])
	return mat.NewVecDense(Dim, data)
}

// FromDense copies a gonum vector of length Dim back into a Vec.
func FromDense(v mat.Vector) Vec {
	var out Vec
	n := v.Len()
	if n > Dim {
		n = Dim
	}
	for i := 0; i < n; i++ {
		out[i] = v.AtVec(i)
	}
	return out
}

// IsFinite reports whether every entry of m is neither NaN nor ±Inf.
func IsFinite(m Mat) bool {
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// Det returns the determinant of m, or NaN when m is not finite.
func Det(m Mat) float64 {
	if !IsFinite(m) {
		return math.NaN()
	}
	return mat.Det(m.Dense())
}

// Cond returns the 2-norm condition number of m. A singular or non-finite
// matrix yields +Inf; LAPACK is never handed NaN or Inf.
func Cond(m Mat) float64 {
	if !IsFinite(m) {
		return math.Inf(1)
	}
	c := mat.Cond(m.Dense(), 2)
	if math.IsNaN(c) {
		return math.Inf(1)
	}
	return c
}
