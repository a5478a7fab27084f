package distribution

import (
	"math"
	"testing"
)

func withinUnitDisk(t *testing.T, px, py []float64, tol float64) {
	t.Helper()
	for i := range px {
		r := math.Hypot(px[i], py[i])
		if r > 1+tol {
			t.Errorf("point %d (%v,%v) outside unit disk, r=%v", i, px[i], py[i], r)
		}
	}
}

func TestLineXSpansFullDiameter(t *testing.T) {
	d := NewLineX(false)
	px, py := d.Generate(5, 0, 0)
	if px[0] != -1 || px[len(px)-1] != 1 {
		t.Errorf("line_x endpoints = %v..%v, want -1..1", px[0], px[len(px)-1])
	}
	for _, y := range py {
		if y != 0 {
			t.Errorf("line_x y should be all zero, got %v", y)
		}
	}
}

func TestLineXPositiveOnly(t *testing.T) {
	d := NewLineX(true)
	px, _ := d.Generate(5, 0, 0)
	if px[0] != 0 || px[len(px)-1] != 1 {
		t.Errorf("positive-only line_x = %v..%v, want 0..1", px[0], px[len(px)-1])
	}
}

func TestVignettingScalesDistribution(t *testing.T) {
	d := NewLineX(false)
	px, _ := d.Generate(3, 0.5, 0)
	if math.Abs(px[len(px)-1]-0.5) > 1e-12 {
		t.Errorf("vignetted endpoint = %v, want 0.5", px[len(px)-1])
	}
}

func TestHexapolarRingCounts(t *testing.T) {
	d := NewHexapolar()
	px, py := d.Generate(3, 0, 0)
	want := 1 + 6 + 12 + 18
	if len(px) != want || len(py) != want {
		t.Errorf("hexapolar point count = %d, want %d", len(px), want)
	}
	withinUnitDisk(t, px, py, 1e-9)
}

func TestRandomStaysWithinUnitDisk(t *testing.T) {
	d := NewRandom(42)
	px, py := d.Generate(200, 0, 0)
	if len(px) != 200 {
		t.Fatalf("got %d points, want 200", len(px))
	}
	withinUnitDisk(t, px, py, 1e-9)
}

func TestRandomIsReproducibleForSameSeed(t *testing.T) {
	px1, py1 := NewRandom(7).Generate(10, 0, 0)
	px2, py2 := NewRandom(7).Generate(10, 0, 0)
	for i := range px1 {
		if px1[i] != px2[i] || py1[i] != py2[i] {
			t.Fatalf("same seed produced different points at %d", i)
		}
	}
}

func TestRectangularClipsToUnitDisk(t *testing.T) {
	d := NewRectangular()
	px, py := d.Generate(9, 0, 0)
	if len(px) == 0 {
		t.Fatal("expected some points")
	}
	if len(px) >= 81 {
		t.Errorf("9x9 grid clipped to disk should drop corner points, got %d of 81", len(px))
	}
	withinUnitDisk(t, px, py, 1e-9)
}

func TestCrossHasTwoAxisSegments(t *testing.T) {
	d := NewCross()
	px, py := d.Generate(5, 0, 0)
	if len(px) != 10 {
		t.Fatalf("cross with n=5 should have 10 points, got %d", len(px))
	}
	for i := 0; i < 5; i++ {
		if py[i] != 0 {
			t.Errorf("x-axis half should have y=0 at %d, got %v", i, py[i])
		}
	}
	for i := 5; i < 10; i++ {
		if px[i] != 0 {
			t.Errorf("y-axis half should have x=0 at %d, got %v", i, px[i])
		}
	}
}

func TestGaussianQuadratureRadiiMatchTabulatedConstants(t *testing.T) {
	d := NewGaussianQuadrature(false)
	px, py := d.Generate(3, 0, 0)
	if len(px) != 9 { // 3 rings x 3 azimuths
		t.Fatalf("got %d points, want 9", len(px))
	}
	r0 := math.Hypot(px[0], py[0])
	if math.Abs(r0-0.33571) > 1e-5 {
		t.Errorf("first ring radius = %v, want 0.33571", r0)
	}
}

func TestGaussianQuadratureWeightsOnePerRing(t *testing.T) {
	d := NewGaussianQuadrature(false)
	w := d.Weights(3)
	if len(w) != 3 {
		t.Fatalf("got %d weights, want 3 (one per ring)", len(w))
	}
	sum := 0.0
	for _, wi := range w {
		sum += wi
	}
	// base weights for 3 rings sum to 0.5; x2 non-symmetric azimuth factor.
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("weight sum = %v, want 1.0", sum)
	}
}

func TestFromMapRoundTripsEveryKind(t *testing.T) {
	kinds := []Distribution{
		NewLineX(false), NewLineY(true), NewRandom(1),
		NewRectangular(), NewHexapolar(), NewCross(), NewGaussianQuadrature(true),
	}
	for _, d := range kinds {
		got, err := FromMap(d.ToMap())
		if err != nil {
			t.Fatalf("FromMap(%s): %v", d.Kind(), err)
		}
		if got.Kind() != d.Kind() {
			t.Errorf("round-trip kind = %s, want %s", got.Kind(), d.Kind())
		}
	}
}

func TestFromMapUnknownKindErrors(t *testing.T) {
	_, err := FromMap(map[string]interface{}{"type": "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown distribution type")
	}
}
