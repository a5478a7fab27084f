package paraxial

import "math"

// EPL is the entrance pupil location, measured from the first optical
// surface: trace a unit-height, zero-slope ray backward from the stop
// to the first surface (spec.md §4.4: "trace a unit-height ray
// backward from the stop toward the object surface"); the distance at
// which that ray's final segment crosses the axis is the EPL. Stop at
// the first surface is the special case EPL=0 (spec.md §4.4).
func (e *Engine) EPL() float64 {
	stop := e.sys.StopIndex()
	if stop == 1 {
		return 0
	}
	y, u := traceRange(e.sys, stop, 1, 1, 0)
	last := len(y) - 1
	if u[last] == 0 {
		return 0
	}
	return -y[last] / u[last]
}

// EPD is the entrance pupil diameter. Unlike EPL, it is not derived by
// tracing: spec.md §4.4 has it "determined by the aperture spec" —
// direct EPD, or derived from image-space F/#, or from object-space NA.
func (e *Engine) EPD() float64 {
	switch e.sys.ApertureType() {
	case "EPD":
		return e.sys.ApertureValue()
	case "imageFNO":
		return e.EFL2() / e.sys.ApertureValue()
	case "objectNA", "object_cone_angle":
		na := e.sys.ApertureValue()
		if e.sys.ApertureType() == "object_cone_angle" {
			na = e.sys.ObjectIndex() * math.Sin(na*math.Pi/180/2)
		}
		zObj := 0.0
		return 2 * (e.EPL() - zObj) * math.Tan(math.Asin(na/e.sys.ObjectIndex()))
	case "imageNA":
		na := e.sys.ApertureValue()
		return 2 * e.EFL2() * math.Tan(math.Asin(na/e.imageIndex()))
	}
	return 0
}

func (e *Engine) imageIndex() float64 {
	N := e.sys.NumSurfaces()
	return e.sys.Index(N - 2)
}

// XPL is the exit pupil location, measured from the last optical
// surface: the forward analogue of EPL, tracing from the stop toward
// the image side.
func (e *Engine) XPL() float64 {
	stop := e.sys.StopIndex()
	last := e.lastOptical()
	if stop == last {
		return 0
	}
	y, u := traceRange(e.sys, stop, last, 1, 0)
	n := len(y) - 1
	if u[n] == 0 {
		return 0
	}
	return -y[n] / u[n]
}

// PupilMag is the pupil magnification XPD/EPD, obtained as the slope
// ratio u_stop/u_exit of a ray launched at the stop with y=0, u=0.1 and
// traced to the last optical surface.
func (e *Engine) PupilMag() float64 {
	stop := e.sys.StopIndex()
	last := e.lastOptical()
	if stop == last {
		return 1
	}
	y, u := traceRange(e.sys, stop, last, 0, 0.1)
	n := len(y) - 1
	if u[0] == 0 {
		return 1
	}
	return u[0] / u[n]
}

// XPD is the exit pupil diameter.
func (e *Engine) XPD() float64 { return e.EPD() * e.PupilMag() }

// FNO is the image-space working F-number, f2/EPD.
func (e *Engine) FNO() float64 { return e.EFL2() / e.EPD() }

// stopProxySlope traces a paraxial ray from the object plane with
// u=0.1 to recover the ray height at the stop, used by ObjectNA/
// ObjectConeAngle to find the stop-filling slope, mirroring
// paraxial.py's objectNA()/object_cone_angle() use of
// paraxial_trace(y0=0,u0=0.1).
func (e *Engine) stopProxySlope() float64 {
	stop := e.sys.StopIndex()
	y, _ := traceRange(e.sys, 0, stop, 0, 0.1)
	last := len(y) - 1
	return 0.1 * e.sys.SemiAperture(stop) / y[last]
}

// ObjectNA is the object-space numerical aperture.
func (e *Engine) ObjectNA() float64 {
	return e.sys.ObjectIndex() * math.Sin(e.stopProxySlope())
}

// ObjectConeAngle is the object-space full cone angle, in degrees.
func (e *Engine) ObjectConeAngle() float64 {
	return 2 * e.stopProxySlope() * 180 / math.Pi
}

// ImageNA is the image-space numerical aperture, computed from the
// image-side half-angle subtended by the entrance pupil as seen
// through the back focal length (spec.md's imageNA formula mirrors
// paraxial.py's: n_obj·sin(atan(EPD/(2·f2))), which approximates the
// marginal ray angle for the common case of an object-space medium
// index of 1).
func (e *Engine) ImageNA() float64 {
	return e.sys.ObjectIndex() * math.Sin(math.Atan(e.EPD()/(2*e.EFL2())))
}
