package optic

import (
	"math"
	"testing"

	"github.com/cpmech/optigo/aim"
	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
	"github.com/cpmech/optigo/raytrace"
)

type stubProvider struct{}

func (stubProvider) RefractiveIndex(name string, wavelengthUm float64) (float64, error) {
	return 1.5, nil
}
func (stubProvider) AbbeNumber(name string) (float64, error) { return 50, nil }

func namedSinglet(t *testing.T) *Optic {
	t.Helper()
	s0 := &raytrace.Surface{
		Frame:       frame.New(0, 0, 0),
		Geom:        geom.NewStandard(50, 0),
		Pre:         material.Air,
		Post:        material.Fixed(1.5),
		PreName:     "air",
		PostName:    "N-BK7",
		Interaction: raytrace.Refract,
	}
	s1 := &raytrace.Surface{
		Frame:        frame.New(0, 0, 5),
		Geom:         geom.NewStandard(math.Inf(1), 0),
		Pre:          material.Fixed(1.5),
		Post:         material.Air,
		PreName:      "N-BK7",
		PostName:     "air",
		Interaction:  raytrace.Stop,
		SemiAperture: 10,
	}
	s2 := &raytrace.Surface{
		Frame:       frame.New(0, 0, 105),
		Geom:        geom.NewStandard(math.Inf(1), 0),
		Pre:         material.Air,
		Post:        material.Air,
		PreName:     "air",
		PostName:    "air",
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

func TestOpticToMapFromMapRoundTrip(t *testing.T) {
	o := namedSinglet(t)

	back, err := FromMap(o.ToMap(), stubProvider{})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if back.NumSurfaces() != o.NumSurfaces() {
		t.Fatalf("NumSurfaces = %d, want %d", back.NumSurfaces(), o.NumSurfaces())
	}
	if len(back.Fields) != len(o.Fields) {
		t.Errorf("len(Fields) = %d, want %d", len(back.Fields), len(o.Fields))
	}
	if back.Wavelengths[0] != o.Wavelengths[0] {
		t.Errorf("Wavelengths[0] = %v, want %v", back.Wavelengths[0], o.Wavelengths[0])
	}
	if back.Aperture.Type != o.Aperture.Type || back.Aperture.Value != o.Aperture.Value {
		t.Errorf("Aperture = %+v, want %+v", back.Aperture, o.Aperture)
	}
	if back.FieldDef.Kind() != o.FieldDef.Kind() {
		t.Errorf("FieldDef.Kind() = %q, want %q", back.FieldDef.Kind(), o.FieldDef.Kind())
	}
	if back.MaxFieldValue != o.MaxFieldValue {
		t.Errorf("MaxFieldValue = %v, want %v", back.MaxFieldValue, o.MaxFieldValue)
	}
	// Round-tripped system should still trace: marginal ray length should
	// match the surface count.
	y, u := back.MarginalRay()
	if len(y) != 3 || len(u) != 3 {
		t.Errorf("MarginalRay on round-tripped Optic returned %d points, want 3", len(y))
	}
}
