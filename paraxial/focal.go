package paraxial

import "math"

// lastOptical is the index of the last real optical surface (the one
// just before the image plane).
func (e *Engine) lastOptical() int {
	return e.sys.NumSurfaces() - 2
}

// EFL2 is the back effective focal length (paraxial.py's f2): launch
// (y=1,u=0) from object-space infinity (the object-to-first-surface
// transfer is a no-op for a ray parallel to the axis, so starting the
// trace at the true object plane is safe even when ObjectThickness is
// +Inf) through every optical surface; f2 = −y_entry / u_exit, per
// spec.md §4.4 — the entry height (fixed at 1 by construction), not the
// height at the last optical surface, since the parallel incoming ray's
// height only starts changing once it refracts.
func (e *Engine) EFL2() float64 {
	y, u := traceRange(e.sys, 0, e.lastOptical(), 1, 0)
	last := len(y) - 1
	return -y[0] / u[last]
}

// EFL1 is the front effective focal length (paraxial.py's f1), obtained
// by reversing the surface order and repeating EFL2's construction
// (spec.md §4.4): launch from the true image plane backward to the
// first optical surface.
func (e *Engine) EFL1() float64 {
	N := e.sys.NumSurfaces()
	y, u := traceRange(e.sys, N-1, 1, 1, 0)
	last := len(y) - 1
	return -y[0] / u[last]
}

// F2 is the back focal distance (paraxial.py's F2/"bfl"): the height
// at the last optical surface, projected to the focus by the final
// surface's exit slope.
func (e *Engine) F2() float64 {
	y, u := traceRange(e.sys, 0, e.lastOptical(), 1, 0)
	last := len(y) - 1
	return -y[last] / u[last]
}

// F1 is the front focal distance (paraxial.py's F1/"ffl"), the
// reverse-trace analogue of F2.
func (e *Engine) F1() float64 {
	N := e.sys.NumSurfaces()
	y, u := traceRange(e.sys, N-1, 1, 1, 0)
	last := len(y) - 1
	return -y[last] / u[last]
}

// P2 is the second (back) principal-point distance, measured from the
// last optical surface: P2 = f2 − F2.
func (e *Engine) P2() float64 { return e.EFL2() - e.F2() }

// P1 is the first (front) principal-point distance, measured from the
// first optical surface: P1 = f1 − F1.
func (e *Engine) P1() float64 { return e.EFL1() - e.F1() }

// N1 is the first nodal point, N2 the second, per paraxial.py's
// N1()/N2() (both expressed in terms of the principal points and focal
// lengths so a symmetric-medium system reduces correctly to N==P).
func (e *Engine) N1() float64 {
	f1 := e.EFL1()
	if f1 == 0 {
		return math.NaN()
	}
	return e.P1() * e.EFL2() / f1
}

func (e *Engine) N2() float64 {
	f2 := e.EFL2()
	if f2 == 0 {
		return math.NaN()
	}
	return e.P2() * e.EFL1() / f2
}
