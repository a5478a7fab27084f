package raytrace

import (
	"math"
	"testing"

	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
)

type stubProvider struct{ index float64 }

func (p stubProvider) RefractiveIndex(name string, wavelengthUm float64) (float64, error) {
	return p.index, nil
}
func (p stubProvider) AbbeNumber(name string) (float64, error) { return 50, nil }

func namedSurface() *Surface {
	return &Surface{
		Frame:        frame.New(0, 0, 10),
		Geom:         geom.NewStandard(50, 0),
		Pre:          material.Air,
		Post:         material.Fixed(1.5168),
		PreName:      "air",
		PostName:     "N-BK7",
		SemiAperture: 12.5,
		Interaction:  Refract,
		Focal:        0,
	}
}

func TestSurfaceToMapFromMapRoundTrip(t *testing.T) {
	s := namedSurface()
	provider := stubProvider{index: 1.5168}

	back, err := SurfaceFromMap(s.ToMap(), provider)
	if err != nil {
		t.Fatalf("SurfaceFromMap failed: %v", err)
	}
	if back.Frame.Z != s.Frame.Z {
		t.Errorf("Frame.Z = %v, want %v", back.Frame.Z, s.Frame.Z)
	}
	if back.SemiAperture != s.SemiAperture {
		t.Errorf("SemiAperture = %v, want %v", back.SemiAperture, s.SemiAperture)
	}
	if back.Interaction != s.Interaction {
		t.Errorf("Interaction = %v, want %v", back.Interaction, s.Interaction)
	}
	if back.PreName != "air" || back.PostName != "N-BK7" {
		t.Errorf("PreName/PostName = %q/%q, want air/N-BK7", back.PreName, back.PostName)
	}
	n, err := back.Post(0.55)
	if err != nil || math.Abs(n-1.5168) > 1e-9 {
		t.Errorf("reconstructed Post(0.55) = %v, %v, want 1.5168", n, err)
	}
	nAir, err := back.Pre(0.55)
	if err != nil || nAir != 1 {
		t.Errorf("reconstructed Pre (air) = %v, %v, want 1", nAir, err)
	}
}

func TestSurfaceFromMapResolvesMirror(t *testing.T) {
	s := namedSurface()
	s.PreName, s.PostName = "mirror", "mirror"
	s.Pre, s.Post = material.Mirror, material.Mirror

	back, err := SurfaceFromMap(s.ToMap(), stubProvider{index: 1.0})
	if err != nil {
		t.Fatalf("SurfaceFromMap failed: %v", err)
	}
	n, err := back.Post(0.55)
	if err != nil || n != -1 {
		t.Errorf("reconstructed mirror Post(0.55) = %v, %v, want -1", n, err)
	}
}

func TestGroupToMapFromMapRoundTrip(t *testing.T) {
	s1 := namedSurface()
	s2 := namedSurface()
	s2.Frame = frame.New(0, 0, 15)
	s2.PreName, s2.PostName = "N-BK7", "air"
	g := &Group{Surfaces: []*Surface{s1, s2}, StopIndex: 1}

	back, err := GroupFromMap(g.ToMap(), stubProvider{index: 1.5168})
	if err != nil {
		t.Fatalf("GroupFromMap failed: %v", err)
	}
	if back.NumSurfaces() != 2 {
		t.Fatalf("NumSurfaces = %d, want 2", back.NumSurfaces())
	}
	if back.StopIndex != 1 {
		t.Errorf("StopIndex = %d, want 1", back.StopIndex)
	}
	if back.SurfaceZ(1) != 15 {
		t.Errorf("SurfaceZ(1) = %v, want 15", back.SurfaceZ(1))
	}
}
