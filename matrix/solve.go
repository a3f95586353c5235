// Package matrix contains the fixed-size linear algebra used by the gaze
// calibration: a 6x6 Gauss-Jordan solver plus a few gonum-backed helpers for
// inspecting the normal matrix.
package matrix

import (
	"errors"
	"fmt"
	"math"
)

// Dim is the size of every system solved here. It matches the number of
// features in a gaze sample: dx, dy, headX, headY, headZ, bias.
const Dim = 6

// PivotTolerance is the fuzzy-zero threshold for a pivot. Any column whose
// largest candidate is at or below it is treated as singular.
const PivotTolerance = 1e-12

// ErrSingular is returned when the system has no (stable) unique solution.
var ErrSingular = errors.New("matrix is singular")

// Vec is a length-Dim vector.
type Vec [Dim]float64

// Mat is a Dim x Dim matrix, row-major.
type Mat [Dim][Dim]float64

// Solve solves a·x = b by Gauss-Jordan elimination with partial pivoting.
//
// Every row other than the pivot row is reduced at each step, so once all
// columns are processed the augmented column already holds x.
// a and b are copied; the caller's values are never modified.
func Solve(a Mat, b Vec) (Vec, error) {
	var aug augmented
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			aug[i][j] = a[i][j]
		}
		aug[i][Dim] = b[i]
	}

	for col := 0; col < Dim; col++ {
		pivot, maxAbs := aug.pivotRow(col)
		if maxAbs <= PivotTolerance {
			return Vec{}, fmt.Errorf("%w: column %d pivot %g", ErrSingular, col, maxAbs)
		}
		if pivot != col {
			aug[col], aug[pivot] = aug[pivot], aug[col]
		}

		diag := aug[col][col]
		for c := col; c <= Dim; c++ {
			aug[col][c] /= diag
		}

		for r := 0; r < Dim; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= Dim; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	var x Vec
	for i := 0; i < Dim; i++ {
		x[i] = aug[i][Dim]
	}
	return x, nil
}

// augmented is a with b appended as the last column.
type augmented [Dim][Dim + 1]float64

// pivotRow picks the row at or below col with the largest magnitude in col.
// Strict > keeps the lowest row on ties.
func (aug *augmented) pivotRow(col int) (int, float64) {
	pivot := col
	maxAbs := math.Abs(aug[col][col])
	for r := col + 1; r < Dim; r++ {
		if v := math.Abs(aug[r][col]); v > maxAbs {
			maxAbs = v
			pivot = r
		}
	}
	return pivot, maxAbs
}

// Dot returns the inner product of a and b.
func Dot(a, b Vec) float64 {
	s := 0.0
	for i := 0; i < Dim; i++ {
		s += a[i] * b[i]
	}
	return s
}

// MulVec returns m·v.
func (m Mat) MulVec(v Vec) Vec {
	var out Vec
	for i := 0; i < Dim; i++ {
		out[i] = Dot(Vec(m[i]), v)
	}
	return out
}

// AddRidge returns a copy of m with lambda added to the diagonal.
func (m Mat) AddRidge(lambda float64) Mat {
	if lambda == 0 {
		return m
	}
	for i := 0; i < Dim; i++ {
		m[i][i] += lambda
	}
	return m
}
