package optic

import (
	"math"
	"testing"

	"github.com/cpmech/optigo/aim"
	"github.com/cpmech/optigo/apodization"
	"github.com/cpmech/optigo/distribution"
	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
	"github.com/cpmech/optigo/raytrace"
	"github.com/cpmech/optigo/solve"
	"github.com/cpmech/optigo/wavefront"
)

// singlet builds a simple plano-convex-singlet-plus-detector system: an
// object at infinity, a curved refracting front surface, a flat stop
// surface doubling as the back of the lens, and a flat image surface
// downstream, matching the shape of aim package's own test fixtures.
func singlet(t *testing.T) *Optic {
	t.Helper()
	s0 := &raytrace.Surface{
		Frame:       frame.New(0, 0, 0),
		Geom:        geom.NewStandard(50, 0),
		Pre:         material.Air,
		Post:        material.Fixed(1.5),
		Interaction: raytrace.Refract,
	}
	s1 := &raytrace.Surface{
		Frame:        frame.New(0, 0, 5),
		Geom:         geom.NewStandard(math.Inf(1), 0),
		Pre:          material.Fixed(1.5),
		Post:         material.Air,
		Interaction:  raytrace.Stop,
		SemiAperture: 10,
	}
	s2 := &raytrace.Surface{
		Frame:       frame.New(0, 0, 105),
		Geom:        geom.NewStandard(math.Inf(1), 0),
		Pre:         material.Air,
		Post:        material.Air,
		Interaction: raytrace.Refract,
	}
	group := &raytrace.Group{Surfaces: []*raytrace.Surface{s0, s1, s2}, StopIndex: 1}

	o, err := New(group, []field.Field{{Hx: 0, Hy: 0}, {Hx: 0, Hy: 1}}, []float64{0.55}, 0,
		ApertureSpec{Type: "EPD", Value: 20}, field.Angle{}, aim.Config{Strategy: "paraxial"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	o.MaxFieldValue = 5
	return o
}

func TestNumSurfacesMatchesGroup(t *testing.T) {
	o := singlet(t)
	if o.NumSurfaces() != 3 {
		t.Fatalf("NumSurfaces() = %d, want 3", o.NumSurfaces())
	}
}

func TestParaxialSystemBracketsObjectAndImage(t *testing.T) {
	o := singlet(t)
	ps := &paraxialSystem{o: o}
	if ps.NumSurfaces() != 5 {
		t.Fatalf("paraxialSystem.NumSurfaces() = %d, want 5 (3 real + object + image)", ps.NumSurfaces())
	}
	if !math.IsInf(ps.Thickness(0), 1) {
		t.Errorf("object thickness should be +Inf for an infinite-conjugate system, got %v", ps.Thickness(0))
	}
	if ps.StopIndex() != 2 {
		t.Errorf("paraxial stop index = %d, want 2 (Group.StopIndex=1, shifted by the virtual object)", ps.StopIndex())
	}
}

func TestMarginalRayLengthMatchesPhysicalSurfaces(t *testing.T) {
	o := singlet(t)
	y, u := o.MarginalRay()
	if len(y) != 3 || len(u) != 3 {
		t.Fatalf("MarginalRay returned %d points, want 3 (one per physical surface)", len(y))
	}
}

func TestUpdateParaxialRunsImageSolve(t *testing.T) {
	o := singlet(t)
	o.ImageSolveEnabled = true
	zBefore := o.Group.Surfaces[2].Frame.Z
	if err := o.UpdateParaxial(); err != nil {
		t.Fatalf("UpdateParaxial: %v", err)
	}
	if o.Group.Surfaces[2].Frame.Z == zBefore {
		t.Error("image solve should have repositioned the detector surface")
	}
}

func TestSolveManagerThicknessSolveShiftsDetector(t *testing.T) {
	o := singlet(t)
	if err := o.Solves.Add(o, &solve.Thickness{SurfaceIdx: 2, Value: 120}); err != nil {
		t.Fatalf("Add solve: %v", err)
	}
	if o.Group.Surfaces[2].Frame.Z != 120 {
		t.Errorf("detector z = %v, want 120", o.Group.Surfaces[2].Frame.Z)
	}
}

func TestComputeWavefrontOnAxisChiefRayHasZeroReferenceOPD(t *testing.T) {
	o := singlet(t)
	o.Apodizer = apodization.Uniform{}
	data, err := o.ComputeWavefront(0, 0, distribution.NewHexapolar(), 3, wavefront.ChiefRaySphere, 0)
	if err != nil {
		t.Fatalf("ComputeWavefront: %v", err)
	}
	if len(data.OPD) == 0 {
		t.Fatal("expected at least one traced ray to survive")
	}
	for i, opd := range data.OPD {
		if math.IsNaN(opd) {
			t.Errorf("ray %d has NaN OPD", i)
		}
	}
}

func TestTraceChiefRayImageOnAxisLandsNearAxis(t *testing.T) {
	o := singlet(t)
	x, y := o.TraceChiefRayImage(0, 0)
	if math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("on-axis chief ray should land on axis, got (%v,%v)", x, y)
	}
}
