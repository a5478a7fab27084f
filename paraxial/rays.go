package paraxial

import "math"

// MarginalRay returns the (y,u) of the system's marginal ray at the
// object plane, scaled so it just fills the aperture spec at the stop,
// mirroring paraxial.py's marginal_ray() across its five aperture-type
// branches.
func (e *Engine) MarginalRay() (y0, u0 float64) {
	if math.IsInf(e.sys.ObjectThickness(), 1) {
		// Infinite conjugate: the marginal ray is, by definition of
		// the entrance pupil, the axis-parallel ray at height EPD/2.
		return e.EPD() / 2, 0
	}
	switch e.sys.ApertureType() {
	case "objectNA":
		ua := math.Asin(e.sys.ApertureValue() / e.sys.ObjectIndex())
		return ua * e.sys.ObjectThickness(), ua
	case "object_cone_angle":
		ua := e.sys.ApertureValue() * math.Pi / 180 / 2
		return ua * e.sys.ObjectThickness(), ua
	default: // "EPD", "imageFNO", "imageNA": scale the stop-filling proxy ray
		ua := e.stopProxySlope()
		return ua * e.sys.ObjectThickness(), ua
	}
}

// ChiefRay returns the (y,u) of the chief ray at the object plane,
// found by tracing a small-angle ray backward from the stop to the
// object, then rescaling it linearly so its object-space value matches
// the system's maximum field (spec.md §4.4).
func (e *Engine) ChiefRay() (y0, u0 float64) {
	stop := e.sys.StopIndex()
	y, u := traceRange(e.sys, stop, 0, 0, 0.1)
	last := len(y) - 1
	maxField := e.sys.MaxYField()

	var scale float64
	switch e.sys.FieldType() {
	case "object_height":
		if y[last] == 0 {
			return 0, 0
		}
		scale = maxField / y[last]
	case "angle":
		if u[last] == 0 {
			return 0, 0
		}
		scale = (maxField * math.Pi / 180) / u[last]
	default:
		return 0, 0
	}
	yn, un := traceRange(e.sys, stop, 0, 0, 0.1*scale)
	last = len(yn) - 1
	if math.IsInf(e.sys.ObjectThickness(), 1) {
		// Object at infinity: only the asymptotic angle is meaningful;
		// height at an infinite distance has no finite value.
		return 0, un[last]
	}
	return yn[last], un[last]
}

// AngularMag is the angular magnification ub_image/ub_object of the
// chief ray.
func (e *Engine) AngularMag() float64 {
	y0, u0 := e.ChiefRay()
	_, u := Trace(e.sys, y0, u0, false)
	if u0 == 0 {
		return math.NaN()
	}
	return u[len(u)-1] / u0
}

// Magnification is the system's paraxial lateral magnification,
// n0·ua0/(n_image·ua_image) for the marginal ray.
func (e *Engine) Magnification() float64 {
	y0, u0 := e.MarginalRay()
	_, u := Trace(e.sys, y0, u0, false)
	N := e.sys.NumSurfaces()
	return e.sys.ObjectIndex() * u0 / (e.sys.Index(N-2) * u[len(u)-1])
}

// Inv is the Lagrange/Smith-Helmholtz optical invariant computed from
// the marginal and chief rays at the object.
func (e *Engine) Inv() float64 {
	ya0, ua0 := e.MarginalRay()
	yb0, ub0 := e.ChiefRay()
	n0 := e.sys.ObjectIndex()
	return yb0*n0*ua0 - ya0*n0*ub0
}

// SetSA sweeps the marginal and chief rays through the system and sets
// each surface's semi-aperture to the sum of their absolute heights —
// the smallest aperture at every surface that vignettes neither ray,
// mirroring paraxial.py's set_SA().
func (e *Engine) SetSA() {
	ya0, ua0 := e.MarginalRay()
	yb0, ub0 := e.ChiefRay()
	ya, _ := Trace(e.sys, ya0, ua0, false)
	yb, _ := Trace(e.sys, yb0, ub0, false)
	N := e.sys.NumSurfaces()
	for k := 1; k < N; k++ {
		e.sys.SetSemiAperture(k, math.Abs(ya[k])+math.Abs(yb[k]))
	}
}

// UpdateParaxial refreshes surface semi-apertures (SetSA) and, if the
// system is configured for an image-distance solve, sets the last
// interior thickness to the back focal distance so the image plane
// sits at paraxial focus (paraxial.py's update_paraxial/
// image_distance_solve).
func (e *Engine) UpdateParaxial() {
	e.SetSA()
	if e.sys.ImageSolve() {
		e.sys.SetImageDistance(e.F2())
	}
}
