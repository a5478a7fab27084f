package aim

import (
	"math"
	"testing"

	"github.com/cpmech/optigo/errs"
	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
	"github.com/cpmech/optigo/raytrace"
)

type fakeSystem struct {
	infinite    bool
	epl, epd    float64
	maxField    float64
	objSurfZ    float64
	firstSurfZ  float64
	startOffset float64
	telecentric bool
	apType      string
	apValue     float64
	digest      string
}

func (s *fakeSystem) MaxField() float64          { return s.maxField }
func (s *fakeSystem) MaxYField() float64         { return s.maxField }
func (s *fakeSystem) ObjectIsInfinite() bool     { return s.infinite }
func (s *fakeSystem) EPL() float64               { return s.epl }
func (s *fakeSystem) EPD() float64               { return s.epd }
func (s *fakeSystem) FirstSurfaceZ() float64     { return s.firstSurfZ }
func (s *fakeSystem) StartingZOffset() float64   { return s.startOffset }
func (s *fakeSystem) ObjectSurfaceZ() float64    { return s.objSurfZ }
func (s *fakeSystem) ObjectSag(x, y float64) float64 { return 0 }
func (s *fakeSystem) TraceUnitChiefRay(plane string) (float64, float64) { return 0, 0 }
func (s *fakeSystem) TraceChiefRayImage(x0, y0 float64) (float64, float64) { return 0, 0 }
func (s *fakeSystem) ObjectSpaceTelecentric() bool { return s.telecentric }
func (s *fakeSystem) ApertureType() string         { return s.apType }
func (s *fakeSystem) ApertureValue() float64       { return s.apValue }
func (s *fakeSystem) SystemDigest() string         { return s.digest }

func finiteConjugateSystem() *fakeSystem {
	return &fakeSystem{
		infinite: false, epl: 0, epd: 20, maxField: 10, objSurfZ: -100,
		apType: "EPD", apValue: 20,
	}
}

func infiniteConjugateSystem() *fakeSystem {
	return &fakeSystem{
		infinite: true, epl: 50, epd: 20, maxField: 10, firstSurfZ: 0, startOffset: 20,
		apType: "EPD", apValue: 20,
	}
}

func TestParaxialFiniteConjugateAimsAtPupilPoint(t *testing.T) {
	sys := finiteConjugateSystem()
	req := Request{Hx: 0, Hy: 0, Px: 1, Py: 0, Vx: 1, Vy: 1}
	r, err := Paraxial{}.AimRay(sys, field.Angle{}, req, nil)
	if err != nil {
		t.Fatal(err)
	}
	mag := math.Sqrt(r.L*r.L + r.M*r.M + r.N*r.N)
	if math.Abs(mag-1) > 1e-9 {
		t.Fatalf("direction not unit: %v", mag)
	}
	// extend from launch to z=EPL=0 and check it lands at Px*EPD/2=10.
	dz := sys.EPL() - r.Z
	x := r.X + r.L/r.N*dz
	if math.Abs(x-10) > 1e-9 {
		t.Errorf("paraxial aim landed at x=%v, want 10", x)
	}
}

func TestParaxialInfiniteConjugateDirectionIndependentOfPupil(t *testing.T) {
	sys := infiniteConjugateSystem()
	r1, err := Paraxial{}.AimRay(sys, field.Angle{}, Request{Hx: 1, Hy: 0, Px: 0.2, Py: 0, Vx: 1, Vy: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Paraxial{}.AimRay(sys, field.Angle{}, Request{Hx: 1, Hy: 0, Px: 0.9, Py: 0, Vx: 1, Vy: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r1.L-r2.L) > 1e-9 || math.Abs(r1.N-r2.N) > 1e-9 {
		t.Errorf("infinite-conjugate direction should be independent of pupil sample: %v vs %v", r1, r2)
	}
	if math.Abs(r1.X-r2.X) < 1e-6 {
		t.Errorf("infinite-conjugate launch position should vary with pupil sample, got identical X=%v", r1.X)
	}
}

func TestParaxialTelecentricRejectsAngleField(t *testing.T) {
	sys := finiteConjugateSystem()
	sys.telecentric = true
	sys.apType = "objectNA"
	_, err := Paraxial{}.AimRay(sys, field.Angle{}, Request{Px: 1}, nil)
	if !errs.Is(err, errs.TelecentricFieldConflict) {
		t.Fatalf("expected TelecentricFieldConflict, got %v", err)
	}
}

// aberratingGroup builds a two-surface system: a curved refracting
// surface that bends rays before a flat stop surface 30mm downstream,
// so the paraxial guess (which assumes straight-line propagation) is
// measurably wrong at the stop and Iterative has real work to do.
func aberratingGroup() *raytrace.Group {
	s0 := &raytrace.Surface{
		Frame:       frame.New(0, 0, 0),
		Geom:        geom.NewStandard(-80, 0),
		Pre:         material.Air,
		Post:        material.Fixed(1.5),
		Interaction: raytrace.Refract,
	}
	s1 := &raytrace.Surface{
		Frame:        frame.New(0, 0, 30),
		Geom:         geom.NewStandard(math.Inf(1), 0),
		Pre:          material.Fixed(1.5),
		Post:         material.Fixed(1.5),
		Interaction:  raytrace.Stop,
		SemiAperture: 10,
	}
	return &raytrace.Group{Surfaces: []*raytrace.Surface{s0, s1}, StopIndex: 1}
}

func TestIterativeConvergesOnAberratedSystem(t *testing.T) {
	sys := finiteConjugateSystem()
	g := aberratingGroup()
	it := NewIterative(g)
	req := Request{Hx: 0, Hy: 0, Px: 0.7, Py: 0.3, Vx: 1, Vy: 1, WavelengthUm: 0.55}

	r, err := it.AimRay(sys, field.Angle{}, req, nil)
	if err != nil {
		t.Fatalf("iterative aim failed: %v", err)
	}

	stopX, stopY, live := it.traceToStop(r.X, r.Y, r.Z, r.L, r.M, r.N, req.WavelengthUm, g.StopIndex)
	if !live {
		t.Fatal("solved ray died before reaching the stop")
	}
	wantX, wantY := req.Px*10, req.Py*10
	if math.Hypot(stopX-wantX, stopY-wantY) > 1e-5 {
		t.Errorf("solved ray lands at (%v,%v), want (%v,%v)", stopX, stopY, wantX, wantY)
	}
}

func TestRobustPupilExpansionConvergesOnAberratedSystem(t *testing.T) {
	sys := finiteConjugateSystem()
	g := aberratingGroup()
	robust := NewRobustPupilExpansion(NewIterative(g))
	req := Request{Hx: 0, Hy: 0, Px: 0.9, Py: -0.4, Vx: 1, Vy: 1, WavelengthUm: 0.55}

	r, err := robust.AimRay(sys, field.Angle{}, req, nil)
	if err != nil {
		t.Fatalf("robust aim failed: %v", err)
	}
	stopX, stopY, live := robust.Iterative.traceToStop(r.X, r.Y, r.Z, r.L, r.M, r.N, req.WavelengthUm, g.StopIndex)
	if !live {
		t.Fatal("solved ray died before reaching the stop")
	}
	wantX, wantY := req.Px*10, req.Py*10
	if math.Hypot(stopX-wantX, stopY-wantY) > 1e-5 {
		t.Errorf("robust-solved ray lands at (%v,%v), want (%v,%v)", stopX, stopY, wantX, wantY)
	}
}

// alwaysMissStrategy simulates a primary aimer whose rays never reach
// the target (e.g. vignetted away), forcing Fallback to the secondary.
type alwaysMissStrategy struct{}

func (alwaysMissStrategy) Kind() string { return "always_miss" }
func (alwaysMissStrategy) AimRay(sys System, def field.Definition, req Request, guess *Result) (Result, error) {
	return Result{X: 1000, Y: 1000, Z: -100, L: 0, M: 0, N: 1}, nil
}

func TestFallbackUsesSecondaryWhenPrimaryResidualTooLarge(t *testing.T) {
	sys := finiteConjugateSystem()
	g := aberratingGroup()
	fb := NewFallback(alwaysMissStrategy{}, Paraxial{}, g)
	req := Request{Hx: 0, Hy: 0, Px: 0.5, Py: 0, Vx: 1, Vy: 1, WavelengthUm: 0.55}

	r, err := fb.AimRay(sys, field.Angle{}, req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.X == 1000 {
		t.Error("fallback should have used the secondary strategy, not the failing primary")
	}
}

// countingStrategy counts how many times it is actually invoked, to
// verify Cached suppresses repeat work for identical inputs.
type countingStrategy struct{ calls int }

func (s *countingStrategy) Kind() string { return "counting" }
func (s *countingStrategy) AimRay(sys System, def field.Definition, req Request, guess *Result) (Result, error) {
	s.calls++
	return Result{X: req.Px, Y: req.Py, Z: 0, L: 0, M: 0, N: 1}, nil
}

func TestCachedReturnsCachedResultForIdenticalInputsAndSystem(t *testing.T) {
	inner := &countingStrategy{}
	c := NewCached(inner, 16)
	sys := finiteConjugateSystem()
	sys.digest = "v1"
	req := Request{Hx: 0, Hy: 0, Px: 0.5, Py: 0.5, WavelengthUm: 0.55}

	r1, _ := c.AimRay(sys, field.Angle{}, req, nil)
	r2, _ := c.AimRay(sys, field.Angle{}, req, nil)
	if inner.calls != 1 {
		t.Errorf("wrapped strategy called %d times, want 1 (second call should hit cache)", inner.calls)
	}
	if r1 != r2 {
		t.Errorf("cached results differ: %v vs %v", r1, r2)
	}
}

func TestCachedRecomputesWhenSystemDigestChanges(t *testing.T) {
	inner := &countingStrategy{}
	c := NewCached(inner, 16)
	sys := finiteConjugateSystem()
	sys.digest = "v1"
	req := Request{Hx: 0, Hy: 0, Px: 0.5, Py: 0.5, WavelengthUm: 0.55}

	c.AimRay(sys, field.Angle{}, req, nil)
	sys.digest = "v2"
	c.AimRay(sys, field.Angle{}, req, nil)
	if inner.calls != 2 {
		t.Errorf("wrapped strategy called %d times, want 2 (system digest changed)", inner.calls)
	}
}
