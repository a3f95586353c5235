package matrix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func identity() Mat {
	var m Mat
	for i := 0; i < Dim; i++ {
		m[i][i] = 1
	}
	return m
}

// randomSPD builds xᵗx + I from a random design so the system is well conditioned.
func randomSPD(rng *rand.Rand) Mat {
	var m Mat
	for k := 0; k < 3*Dim; k++ {
		var row Vec
		for i := range row {
			row[i] = rng.Float64()*2 - 1
		}
		for i := 0; i < Dim; i++ {
			for j := 0; j < Dim; j++ {
				m[i][j] += row[i] * row[j]
			}
		}
	}
	return m.AddRidge(1)
}

func TestSolveIdentity(t *testing.T) {
	b := Vec{1, -2, 3, -4, 5, -6}
	x, err := Solve(identity(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x != b {
		t.Fatalf("expected %v, got %v", b, x)
	}
}

func TestSolveMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		a := randomSPD(rng)
		var b Vec
		for i := range b {
			b[i] = rng.Float64()*10 - 5
		}

		x, err := Solve(a, b)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}

		var ref mat.VecDense
		if err := ref.SolveVec(a.Dense(), b.Dense()); err != nil {
			t.Fatalf("trial %d: gonum solve: %v", trial, err)
		}
		want := FromDense(&ref)
		for i := 0; i < Dim; i++ {
			if math.Abs(x[i]-want[i]) > 1e-9 {
				t.Fatalf("trial %d: x[%d]=%g, gonum=%g", trial, i, x[i], want[i])
			}
		}

		// residual
		ax := a.MulVec(x)
		for i := 0; i < Dim; i++ {
			if math.Abs(ax[i]-b[i]) > 1e-9 {
				t.Fatalf("trial %d: residual row %d = %g", trial, i, ax[i]-b[i])
			}
		}
	}
}

func TestSolveNeedsPivoting(t *testing.T) {
	// zero on the leading diagonal forces a row swap at every other column
	a := Mat{
		{0, 1, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0},
		{0, 0, 0, 2, 0, 0},
		{0, 0, 3, 0, 0, 0},
		{0, 0, 0, 0, 0, 4},
		{0, 0, 0, 0, 5, 0},
	}
	b := Vec{1, 2, 4, 9, 8, 25}
	x, err := Solve(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Vec{2, 1, 3, 2, 5, 2}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Fatalf("x[%d]=%g, want %g", i, x[i], want[i])
		}
	}
}

func TestSolveSingular(t *testing.T) {
	dup := identity()
	dup[5] = dup[4]

	nearZero := identity()
	nearZero[3][3] = 1e-13

	tests := []struct {
		name string
		a    Mat
	}{
		{"zero", Mat{}},
		{"duplicate rows", dup},
		{"near zero pivot", nearZero},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Solve(tc.a, Vec{1, 1, 1, 1, 1, 1})
			if !errors.Is(err, ErrSingular) {
				t.Fatalf("expected ErrSingular, got %v", err)
			}
		})
	}
}

func TestSolveJustAboveTolerance(t *testing.T) {
	a := identity()
	a[2][2] = 1e-10
	x, err := Solve(a, Vec{0, 0, 1e-10, 0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(x[2]-1) > 1e-9 {
		t.Fatalf("x[2]=%g, want 1", x[2])
	}
}

func TestSolveDoesNotMutateInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomSPD(rng)
	b := Vec{1, 2, 3, 4, 5, 6}
	aCopy, bCopy := a, b

	if _, err := Solve(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != aCopy || b != bCopy {
		t.Fatal("inputs were modified")
	}
}

func TestDetAndCond(t *testing.T) {
	a := identity()
	for i := 0; i < Dim; i++ {
		a[i][i] = float64(i + 1)
	}
	if d := Det(a); math.Abs(d-720) > 1e-9 {
		t.Fatalf("det = %g, want 720", d)
	}
	if c := Cond(a); math.Abs(c-6) > 1e-9 {
		t.Fatalf("cond = %g, want 6", c)
	}
	if c := Cond(Mat{}); !math.IsInf(c, 1) {
		t.Fatalf("cond of zero matrix = %g, want +Inf", c)
	}
}

func TestAddRidgeCopies(t *testing.T) {
	a := identity()
	r := a.AddRidge(0.5)
	if a[0][0] != 1 {
		t.Fatal("AddRidge modified receiver")
	}
	if r[0][0] != 1.5 || r[0][1] != 0 {
		t.Fatalf("unexpected ridge result %v", r[0])
	}
}

func TestPivotRowTies(t *testing.T) {
	tests := []struct {
		name   string
		col    int
		column [Dim]float64
		want   int
	}{
		{"diagonal wins tie", 0, [Dim]float64{2, -2, 2, 0, 0, 0}, 0},
		{"first of equal rows below", 1, [Dim]float64{9, 1, 0, -3, 3, 3}, 3},
		{"larger later row", 2, [Dim]float64{0, 0, 1, 1, -1, 1.5}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var aug augmented
			for r := 0; r < Dim; r++ {
				aug[r][tc.col] = tc.column[r]
			}
			row, mag := aug.pivotRow(tc.col)
			if row != tc.want {
				t.Fatalf("pivot row %d, want %d", row, tc.want)
			}
			if mag != math.Abs(tc.column[tc.want]) {
				t.Fatalf("pivot magnitude %g", mag)
			}
		})
	}
}

func TestDetAndCondNonFinite(t *testing.T) {
	withNaN := identity()
	withNaN[2][3] = math.NaN()
	withInf := identity()
	withInf[0][0] = math.Inf(1)

	for name, a := range map[string]Mat{"nan": withNaN, "inf": withInf} {
		t.Run(name, func(t *testing.T) {
			if IsFinite(a) {
				t.Fatal("expected non-finite")
			}
			if d := Det(a); !math.IsNaN(d) {
				t.Fatalf("det = %g, want NaN", d)
			}
			if c := Cond(a); !math.IsInf(c, 1) {
				t.Fatalf("cond = %g, want +Inf", c)
			}
		})
	}
	if !IsFinite(identity()) {
		t.Fatal("identity reported non-finite")
	}
}
