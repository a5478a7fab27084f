// Package paraxial implements spec.md §4.4's paraxial engine: first-order
// (y,u) ray transfer at the primary wavelength, and the derived
// quantities (focal lengths, principal/nodal points, pupils, marginal
// and chief rays, invariant, magnifications) built on top of it.
//
// Grounded on original_source/paraxial.py's API surface (f1/f2/F1/F2/
// P1/P2/N1/N2/EPD/EPL/XPD/XPL/FNO/pupil_mag/objectNA/imageNA/
// object_cone_angle/marginal_ray/chief_ray/ABCD/angular_mag/m/Inv/
// total_track/set_SA/update_paraxial). That file calls into a
// `paraxial_trace` function (imported `from trace import paraxial_trace`)
// whose body is not present anywhere in the retrieved source tree
// (original_source/trace.py contains only imports and a stray TODO
// comment; grepping the whole tree turns up zero definitions). The core
// transfer recursion below is instead built directly from spec.md
// §4.4's own formulas:
//
//	y' = y + t·u                         (transfer to a surface)
//	u_after = (n_pre·u − y·φ) / n_post    (refraction at a surface)
//	φ = c·(n_post − n_pre)                (surface power)
//
// which is the standard paraxial recursion paraxial.py's surface_powers/
// ABCD methods are themselves built from, so every derived quantity
// below is traceable to either spec.md's text or a concretely-present
// method in the original source (see DESIGN.md).
package paraxial

// System is the narrow view the paraxial engine needs of an assembled
// optical system, implemented by package optic. Surfaces are indexed
// 0..NumSurfaces()-1 with 0 the object surface and NumSurfaces()-1 the
// image surface; interior indices are the real optical surfaces.
// Curvature/Index/Thickness describe the PHYSICAL system regardless of
// trace direction — traceRange below handles direction by sign, never
// by asking the caller for a mirrored view.
type System interface {
	NumSurfaces() int
	Curvature(i int) float64  // 0 for object/image planes and flats
	Thickness(i int) float64  // distance from surface i to i+1, i in [0, NumSurfaces()-2]
	Index(i int) float64      // index of the medium between surface i and i+1, i in [0, NumSurfaces()-2]
	SemiAperture(i int) float64
	SetSemiAperture(i int, value float64)
	StopIndex() int

	FieldType() string // "angle" | "object_height"
	MaxYField() float64

	ApertureType() string // "EPD" | "imageFNO" | "objectNA" | "imageNA" | "object_cone_angle"
	ApertureValue() float64

	ObjectThickness() float64 // Thickness(0); may be +Inf for an object at infinity
	ObjectIndex() float64     // Index(0)

	ImageSolve() bool // whether UpdateParaxial should run the back-focal image solve
	SetImageDistance(value float64)
}

// Batch is the parallel-array paraxial ray state of spec.md §3: one
// (y,u,z,wavelength) tuple per traced ray, used where many paraxial
// rays are evaluated together (e.g. fan plots), as opposed to the
// single-ray helpers below used for the system-level derived
// quantities.
type Batch struct {
	Y          []float64
	U          []float64
	Z          []float64
	Wavelength []float64
}

// Engine wraps a System and exposes the derived first-order quantities.
type Engine struct {
	sys System
}

// New returns a paraxial Engine over the given system.
func New(sys System) *Engine { return &Engine{sys: sys} }

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// traceRange computes the paraxial ray state (y,u) at every surface
// visited stepping from `from` to `to` (inclusive, either direction),
// given the ray's (y0,u0) in the medium immediately preceding `from`.
// Every surface visited other than the system's true object (index 0)
// or true image (index NumSurfaces()-1) plane refracts; all visited
// surfaces transfer across the preceding physical gap (negated when
// stepping toward decreasing index, since z decreases in that
// direction). Returned slices are indexed 0..n, with index 0 the given
// (y0,u0) and index n the state at `to`.
func traceRange(sys System, from, to int, y0, u0 float64) (y, u []float64) {
	n := absInt(to-from) + 1
	y = make([]float64, n)
	u = make([]float64, n)
	y[0], u[0] = y0, u0

	step := 1
	if to < from {
		step = -1
	}
	N := sys.NumSurfaces()
	cur := from
	for k := 1; k < n; k++ {
		prev := cur
		cur = prev + step

		var t float64
		if step > 0 {
			t = sys.Thickness(prev)
		} else {
			t = -sys.Thickness(cur)
		}
		if u[k-1] == 0 {
			// A ray parallel to the axis stays at the same height no
			// matter the gap, including when the gap is the object's
			// infinite conjugate distance (avoids Inf*0 = NaN).
			y[k] = y[k-1]
		} else {
			y[k] = y[k-1] + t*u[k-1]
		}

		if cur == 0 || cur == N-1 {
			u[k] = u[k-1]
			continue
		}
		c := sys.Curvature(cur)
		nPre := sys.Index(cur - 1)
		nPost := sys.Index(cur)
		phi := c * (nPost - nPre)
		u[k] = (nPre*u[k-1] - y[k]*phi) / nPost
	}
	return y, u
}

// TraceFromSurface runs the paraxial recursion between two arbitrary
// surface indices (either direction), exported for callers that need a
// partial trace anchored somewhere other than the true object or image
// plane — e.g. package optic's unit chief ray trace from the stop
// outward, the Go analogue of ParaxialImageHeightField._trace_unit_chief_ray's
// use of optic.paraxial._trace_generic(skip=...).
func TraceFromSurface(sys System, from, to int, y0, u0 float64) (y, u []float64) {
	return traceRange(sys, from, to, y0, u0)
}

// Trace runs the full object(0)→image(N-1) paraxial recursion, or its
// reverse, and returns the (y,u) pair at every surface in trace order.
func Trace(sys System, y0, u0 float64, reverse bool) (y, u []float64) {
	N := sys.NumSurfaces()
	if reverse {
		return traceRange(sys, N-1, 0, y0, u0)
	}
	return traceRange(sys, 0, N-1, y0, u0)
}

// power returns φ_k = c_k·(n_post − n_pre), the surface power at
// interior surface k, mirroring paraxial.py's surface_powers().
func (e *Engine) power(k int) float64 {
	c := e.sys.Curvature(k)
	nPre := e.sys.Index(k - 1)
	nPost := e.sys.Index(k)
	return c * (nPost - nPre)
}

func dot2(a, b [2][2]float64) [2][2]float64 {
	return [2][2]float64{
		{a[0][0]*b[0][0] + a[0][1]*b[1][0], a[0][0]*b[0][1] + a[0][1]*b[1][1]},
		{a[1][0]*b[0][0] + a[1][1]*b[1][0], a[1][0]*b[0][1] + a[1][1]*b[1][1]},
	}
}

// ABCD returns the 2x2 paraxial system matrix mapping (y,u) just before
// the first optical surface to (y,u) just after the last optical
// surface, built with the identical accumulation order as paraxial.py's
// ABCD() method (refraction matrix [[1,0],[-φ,1]] applied at each
// interior surface, transfer matrix [[1,t/n],[0,1]] applied for every
// gap strictly between two interior surfaces).
func (e *Engine) ABCD() [2][2]float64 {
	N := e.sys.NumSurfaces()
	m := [2][2]float64{{1, 0}, {0, 1}}
	for k := N - 2; k >= 1; k-- {
		refr := [2][2]float64{{1, 0}, {-e.power(k), 1}}
		m = dot2(m, refr)
		if k != 1 {
			t := e.sys.Thickness(k - 1)
			n := e.sys.Index(k - 1)
			tr := [2][2]float64{{1, t / n}, {0, 1}}
			m = dot2(m, tr)
		}
	}
	return m
}

// TotalTrack is the sum of all interior thicknesses (surface 1 through
// the second-to-last), mirroring paraxial.py's total_track().
func (e *Engine) TotalTrack() float64 {
	N := e.sys.NumSurfaces()
	total := 0.0
	for i := 1; i < N-2; i++ {
		total += e.sys.Thickness(i)
	}
	return total
}
