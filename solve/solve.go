// Package solve implements spec.md §4.10's solve operations: optical
// prescription adjustments applied after each paraxial update to satisfy
// a ray-height, ray-angle, curvature, or focus condition, grounded on
// original_source/optiland/solves/*.py.
package solve

import "github.com/cpmech/optigo/errs"

// Optic is the narrow contract a solve needs from the assembled system,
// standing in for the source's duck-typed optic argument (the same
// accept-an-interface pattern used by package field's System).
type Optic interface {
	NumSurfaces() int
	SurfaceZ(i int) float64
	SetSurfaceZ(i int, z float64)
	// SurfaceRadius reports (radius, true) only for surfaces whose
	// geometry exposes a single radius of curvature (the source's
	// hasattr(geometry, "radius") check).
	SurfaceRadius(i int) (float64, bool)
	SetSurfaceRadius(i int, radius float64)
	// MaterialIndexBefore/After are the refractive indices on either
	// side of surface i at the primary wavelength.
	MaterialIndexBefore(i int) float64
	MaterialIndexAfter(i int) float64
	PrimaryWavelength() float64
	MarginalRay() (y, u []float64)
	ChiefRay() (y, u []float64)
	// QuickFocusSpot traces a small ray fan at the given field and
	// returns each ray's position/direction, for QuickFocus's RMS-spot
	// minimization.
	QuickFocusSpot(wavelength float64) (x, y, z, L, M, N []float64)
}

// Solve is the tagged-variant interface every solve operation
// implements (BaseSolve).
type Solve interface {
	Kind() string
	Apply(optic Optic) error
	ToMap() map[string]interface{}
}

// FromMap dispatches on the "type" discriminator (BaseSolve.from_dict).
func FromMap(m map[string]interface{}) (Solve, error) {
	kind, _ := m["type"].(string)
	idx := int(mgetf(m, "surface_idx", 0))
	switch kind {
	case "marginal_ray_height":
		return &MarginalRayHeight{SurfaceIdx: idx, Height: mgetf(m, "height", 0)}, nil
	case "chief_ray_height":
		return &ChiefRayHeight{SurfaceIdx: idx, Height: mgetf(m, "height", 0)}, nil
	case "curvature_marginal_angle":
		return &Curvature{SurfaceIdx: idx, Angle: mgetf(m, "angle", 0), UseChiefRay: false}, nil
	case "curvature_chief_angle":
		return &Curvature{SurfaceIdx: idx, Angle: mgetf(m, "angle", 0), UseChiefRay: true}, nil
	case "thickness":
		return &Thickness{SurfaceIdx: idx, Value: mgetf(m, "value", 0)}, nil
	case "quick_focus":
		return &QuickFocus{}, nil
	}
	return nil, errs.New(errs.InvalidConfiguration, "unknown solve type %q", kind)
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}
