package zernike

import (
	"math"
	"testing"
)

func TestPistonIsConstant(t *testing.T) {
	s, err := New(Standard, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	v1 := s.Eval(0.3, 0.1)
	v2 := s.Eval(0.7, 2.0)
	if math.Abs(v1-v2) > 1e-9 {
		t.Errorf("piston term should be constant over the pupil, got %v vs %v", v1, v2)
	}
}

func TestFringeIndexTableSize(t *testing.T) {
	s, err := New(Fringe, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumTerms() != 120 {
		t.Errorf("fringe index table should cap at 120 terms, got %d", s.NumTerms())
	}
}

func TestFitRoundTrip(t *testing.T) {
	numTerms := 6
	trueCoeffs := []float64{0.1, 0.05, -0.02, 0.01, 0.0, 0.03}
	truth, err := New(Standard, trueCoeffs)
	if err != nil {
		t.Fatal(err)
	}

	var xs, ys, zs []float64
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			x := -1.0 + 2.0*float64(i)/9
			y := -1.0 + 2.0*float64(j)/9
			r := math.Hypot(x, y)
			if r > 1 {
				continue
			}
			phi := math.Atan2(y, x)
			xs = append(xs, x)
			ys = append(ys, y)
			zs = append(zs, truth.Eval(r, phi))
		}
	}

	fit, err := NewFit(xs, ys, zs, Standard, numTerms)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range trueCoeffs {
		got := fit.Set.Coeffs[i]
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("coeff %d: got %v want %v", i, got, want)
		}
	}
}

func TestNollNormConstantZeroMAzimuthal(t *testing.T) {
	if normConstant(Noll, 2, 0) != math.Sqrt(3) {
		t.Errorf("Noll m=0 norm constant mismatch")
	}
}
