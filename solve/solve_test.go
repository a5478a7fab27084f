package solve

import "testing"

type fakeOptic struct {
	z       []float64
	radius  []float64
	nBefore []float64
	nAfter  []float64
	marginalY, marginalU []float64
	chiefY, chiefU       []float64
	wavelength           float64
	spotX, spotY, spotZ, spotL, spotM, spotN []float64
}

func (o *fakeOptic) NumSurfaces() int            { return len(o.z) }
func (o *fakeOptic) SurfaceZ(i int) float64      { return o.z[i] }
func (o *fakeOptic) SetSurfaceZ(i int, z float64) { o.z[i] = z }
func (o *fakeOptic) SurfaceRadius(i int) (float64, bool) {
	if i < 0 || i >= len(o.radius) {
		return 0, false
	}
	return o.radius[i], true
}
func (o *fakeOptic) SetSurfaceRadius(i int, r float64) { o.radius[i] = r }
func (o *fakeOptic) MaterialIndexBefore(i int) float64 { return o.nBefore[i] }
func (o *fakeOptic) MaterialIndexAfter(i int) float64  { return o.nAfter[i] }
func (o *fakeOptic) PrimaryWavelength() float64        { return o.wavelength }
func (o *fakeOptic) MarginalRay() (y, u []float64)     { return o.marginalY, o.marginalU }
func (o *fakeOptic) ChiefRay() (y, u []float64)        { return o.chiefY, o.chiefU }
func (o *fakeOptic) QuickFocusSpot(wavelength float64) (x, y, z, L, M, N []float64) {
	return o.spotX, o.spotY, o.spotZ, o.spotL, o.spotM, o.spotN
}

func TestMarginalRayHeightShiftsSubsequentSurfaces(t *testing.T) {
	optic := &fakeOptic{
		z:         []float64{0, 10, 20},
		marginalY: []float64{0, 5, 7},
		marginalU: []float64{0.5, 0.5, 0.5},
	}
	s := &MarginalRayHeight{SurfaceIdx: 1, Height: 6}
	if err := s.Apply(optic); err != nil {
		t.Fatal(err)
	}
	// offset = (6-5)/0.5 = 2
	if optic.z[1] != 12 || optic.z[2] != 22 {
		t.Errorf("expected surfaces 1,2 shifted by 2, got %v", optic.z)
	}
	if optic.z[0] != 0 {
		t.Errorf("surface before surfaceIdx should be untouched, got %v", optic.z[0])
	}
}

func TestCurvatureMarginalAngleSolvesRadius(t *testing.T) {
	optic := &fakeOptic{
		z:         []float64{0, 10},
		radius:    []float64{0, 50},
		nBefore:   []float64{1, 1},
		nAfter:    []float64{1, 1.5},
		marginalY: []float64{0, 5},
		marginalU: []float64{0.2, 0.2},
	}
	s := &Curvature{SurfaceIdx: 1, Angle: 0.1}
	if err := s.Apply(optic); err != nil {
		t.Fatal(err)
	}
	// num = 1*0.2 - 1.5*0.1 = 0.05; den = 5*(1.5-1) = 2.5; c = 0.02 -> r = 50
	if got := optic.radius[1]; got < 49.9 || got > 50.1 {
		t.Errorf("expected radius near 50, got %v", got)
	}
}

func TestQuickFocusMovesLastSurface(t *testing.T) {
	optic := &fakeOptic{
		z:     []float64{0, 10, 20},
		spotX: []float64{1, -1}, spotY: []float64{0, 0}, spotZ: []float64{20, 20},
		spotL: []float64{0.1, -0.1}, spotM: []float64{0, 0}, spotN: []float64{1, 1},
	}
	s := &QuickFocus{}
	if err := s.Apply(optic); err != nil {
		t.Fatal(err)
	}
	// Each ray: A=0.01, B=0.1*1=0.1 (ray1) -> tOpt=-10; z=20-10=10
	// ray2: B=-0.1*-1=0.1 -> tOpt=-10 -> z=10. mean = 10
	if got := optic.z[2]; got < 9.9 || got > 10.1 {
		t.Errorf("expected quick focus to move last surface near z=10, got %v", got)
	}
}

func TestManagerAddAppliesImmediatelyAndReapplies(t *testing.T) {
	optic := &fakeOptic{
		z:         []float64{0, 10},
		marginalY: []float64{0, 5},
		marginalU: []float64{0.5, 0.5},
	}
	mgr := NewManager()
	if err := mgr.Add(optic, &MarginalRayHeight{SurfaceIdx: 1, Height: 6}); err != nil {
		t.Fatal(err)
	}
	if optic.z[1] != 12 {
		t.Fatalf("expected immediate application, got z=%v", optic.z[1])
	}
	optic.z[1] = 0 // perturb
	if err := mgr.Apply(optic); err != nil {
		t.Fatal(err)
	}
	if optic.z[1] != 12 {
		t.Errorf("expected re-application to restore z=12, got %v", optic.z[1])
	}
}

func TestFromMapRoundTrip(t *testing.T) {
	cases := []Solve{
		&MarginalRayHeight{SurfaceIdx: 2, Height: 1.5},
		&ChiefRayHeight{SurfaceIdx: 3, Height: -0.5},
		&Curvature{SurfaceIdx: 1, Angle: 0.05},
		&Curvature{SurfaceIdx: 1, Angle: 0.05, UseChiefRay: true},
		&Thickness{SurfaceIdx: 4, Value: 12.3},
		&QuickFocus{},
	}
	for _, s := range cases {
		back, err := FromMap(s.ToMap())
		if err != nil {
			t.Fatalf("FromMap(%s) failed: %v", s.Kind(), err)
		}
		if back.Kind() != s.Kind() {
			t.Errorf("kind mismatch: got %s want %s", back.Kind(), s.Kind())
		}
	}
}

func TestUnknownSolveType(t *testing.T) {
	if _, err := FromMap(map[string]interface{}{"type": "not-real"}); err == nil {
		t.Fatal("expected an error for an unknown solve type")
	}
}
