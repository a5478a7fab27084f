package geom

import (
	"math"
	"testing"
)

func straightDownRay(x, y float64) RaySlice {
	return RaySlice{X: []float64{x}, Y: []float64{y}, Z: []float64{-10}, L: []float64{0}, M: []float64{0}, N: []float64{1}}
}

func TestStandardSphereDistanceMatchesSag(t *testing.T) {
	s := NewStandard(100, 0)
	r := straightDownRay(5, 3)
	out := make([]float64, 1)
	dead := make([]bool, 1)
	s.Distance(r, out, dead)
	if dead[0] {
		t.Fatal("expected a real intersection")
	}
	z := r.Z[0] + out[0]*r.N[0]
	want := make([]float64, 1)
	s.Sag([]float64{5}, []float64{3}, want)
	if math.Abs(z-want[0]) > 1e-9 {
		t.Errorf("intersection z=%v does not match sag=%v", z, want[0])
	}
}

func TestStandardFlatPlane(t *testing.T) {
	s := NewStandard(math.Inf(1), 0)
	r := straightDownRay(1, 1)
	out := make([]float64, 1)
	dead := make([]bool, 1)
	s.Distance(r, out, dead)
	if dead[0] {
		t.Fatal("flat plane should always intersect a ray heading toward it")
	}
	if math.Abs(out[0]-10) > 1e-9 {
		t.Errorf("expected distance 10 to plane at z=0 from z=-10, got %v", out[0])
	}
}

func TestEvenAsphereNewtonConvergesToSag(t *testing.T) {
	s := NewEvenAsphere(50, -1, []float64{1e-6, 1e-9})
	r := straightDownRay(2, 1)
	out := make([]float64, 1)
	dead := make([]bool, 1)
	s.Distance(r, out, dead)
	if dead[0] {
		t.Fatal("expected convergence")
	}
	z := r.Z[0] + out[0]*r.N[0]
	want := make([]float64, 1)
	s.Sag([]float64{2}, []float64{1}, want)
	if math.Abs(z-want[0]) > 1e-8 {
		t.Errorf("even asphere intersection z=%v want sag=%v", z, want[0])
	}
}

func TestBiconicReducesToStandardWhenSymmetric(t *testing.T) {
	b := NewBiconic(80, 80, 0, 0)
	std := NewStandard(80, 0)
	bz := make([]float64, 1)
	sz := make([]float64, 1)
	b.Sag([]float64{3}, []float64{4}, bz)
	std.Sag([]float64{3}, []float64{4}, sz)
	if math.Abs(bz[0]-sz[0]) > 1e-9 {
		t.Errorf("symmetric biconic should match standard sag, got %v vs %v", bz[0], sz[0])
	}
}

func TestToroidalPlanarAtZeroCurvature(t *testing.T) {
	tor := NewToroidal(math.Inf(1), math.Inf(1), 0, nil)
	out := make([]float64, 1)
	tor.Sag([]float64{1}, []float64{1}, out)
	if out[0] != 0 {
		t.Errorf("flat toroidal sag should be 0, got %v", out[0])
	}
}

func TestForbesQbfsReducesToConicWithZeroCoeffs(t *testing.T) {
	f := NewForbesQbfs(60, -0.5, nil, 10)
	std := NewStandard(60, -0.5)
	fz := make([]float64, 1)
	sz := make([]float64, 1)
	f.Sag([]float64{5}, []float64{2}, fz)
	std.Sag([]float64{5}, []float64{2}, sz)
	if math.Abs(fz[0]-sz[0]) > 1e-9 {
		t.Errorf("Forbes Qbfs with no coefficients should equal its base conic, got %v vs %v", fz[0], sz[0])
	}
}

func TestZernikeSurfaceZeroCoeffsReducesToConic(t *testing.T) {
	z := NewZernikeSurface(75, 0, nil, 10)
	std := NewStandard(75, 0)
	zz := make([]float64, 1)
	sz := make([]float64, 1)
	z.Sag([]float64{1}, []float64{2}, zz)
	std.Sag([]float64{1}, []float64{2}, sz)
	if math.Abs(zz[0]-sz[0]) > 1e-9 {
		t.Errorf("zero-coefficient zernike surface should equal base conic, got %v vs %v", zz[0], sz[0])
	}
}

func TestGridSagBilinearInterpolatesVertices(t *testing.T) {
	values := [][]float64{{0, 1}, {2, 3}}
	g := NewGridSag(math.Inf(1), 0, values, 0, 1, 0, 1)
	out := make([]float64, 1)
	g.Sag([]float64{0}, []float64{0}, out)
	if out[0] != 0 {
		t.Errorf("grid sag at grid vertex should match stored value, got %v", out[0])
	}
	g.Sag([]float64{0.5}, []float64{0.5}, out)
	want := (0.0 + 1 + 2 + 3) / 4.0
	if math.Abs(out[0]-want) > 1e-9 {
		t.Errorf("grid sag center interpolation got %v want %v", out[0], want)
	}
}

func TestFromMapRoundTrip(t *testing.T) {
	cases := []Surface{
		NewStandard(100, -1),
		NewEvenAsphere(50, 0, []float64{1e-5}),
		NewBiconic(80, 90, 0, -0.2),
		NewForbesQbfs(60, 0, []float64{1e-3, -2e-4}, 12),
	}
	for _, s := range cases {
		m := s.ToMap()
		back, err := FromMap(m)
		if err != nil {
			t.Fatalf("FromMap(%s) failed: %v", s.Kind(), err)
		}
		if back.Kind() != s.Kind() {
			t.Errorf("kind mismatch: got %s want %s", back.Kind(), s.Kind())
		}
	}
}

func TestUnknownSurfaceType(t *testing.T) {
	_, err := FromMap(map[string]interface{}{"type": "not-a-real-surface"})
	if err == nil {
		t.Fatal("expected an error for an unknown surface type")
	}
}
