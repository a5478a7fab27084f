// Package geom implements the geometry kernel of spec.md §4.2: one
// concrete type per surface variant (sphere/conic, even/odd asphere,
// 2-D polynomial, Chebyshev-T, Zernike, biconic, toroidal, Forbes Qbfs/
// Q-2D, NURBS, grid-sag), each exposing Sag, Normal and Distance.
//
// Per spec.md §9's re-architecture notes, the surface-type hierarchy is
// a tagged variant (Kind() discriminator) rather than a deep class
// hierarchy, and Distance is called ONCE per surface per ray batch —
// never per-ray — so there is no per-ray virtual dispatch on the hot
// path: every Distance implementation below takes whole slices and
// loops internally.
package geom

import (
	"math"

	"github.com/cpmech/optigo/errs"
)

// RaySlice is the minimal view into a ray batch's current position and
// direction (already localized into the surface's own frame) that the
// geometry kernel needs. It intentionally does not import raytrace.Batch
// to keep geom free of a dependency cycle; raytrace.Batch's fields alias
// directly into a RaySlice when calling Distance.
type RaySlice struct {
	X, Y, Z []float64
	L, M, N []float64
}

// Surface is the tagged-variant interface every geometry implements.
type Surface interface {
	// Kind is the string type discriminator used by ToMap/FromMap.
	Kind() string

	// Sag returns z(x,y) for each point. Points outside a variant's
	// valid domain (e.g. outside the unit disk for Zernike/Chebyshev)
	// produce NaN, per spec.md §4.2 and §7 (InvalidGeometryInput).
	Sag(x, y []float64, out []float64)

	// Normal returns the outward unit normal (nx,ny,nz) with nz <= 0
	// for z-forward surfaces.
	Normal(x, y []float64, nx, ny, nz []float64)

	// Distance computes the nonnegative parametric distance along each
	// ray's direction to the surface, from the ray's current (already
	// localized) position. dead[i] is set true for rays with no real
	// intersection or non-converged Newton iteration; out[i] is left
	// at 0 for dead rays.
	Distance(r RaySlice, out []float64, dead []bool)

	// ToMap is the pure persistence hook of spec.md §6.
	ToMap() map[string]interface{}
}

// FromMap dispatches on the "type" discriminator to build a concrete
// Surface, the idiomatic substitute for the source's registry-based
// from_dict (spec.md §9).
func FromMap(m map[string]interface{}) (Surface, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case "standard":
		return standardFromMap(m)
	case "even_asphere":
		return evenAsphereFromMap(m)
	case "odd_asphere":
		return oddAsphereFromMap(m)
	case "polynomial":
		return polynomialFromMap(m)
	case "chebyshev":
		return chebyshevFromMap(m)
	case "zernike":
		return zernikeSurfaceFromMap(m)
	case "biconic":
		return biconicFromMap(m)
	case "toroidal":
		return toroidalFromMap(m)
	case "forbes_qbfs":
		return forbesQbfsFromMap(m)
	case "forbes_q2d":
		return forbesQ2DFromMap(m)
	case "nurbs":
		return nurbsFromMap(m)
	case "grid_sag":
		return gridSagFromMap(m)
	}
	return nil, unknownSurfaceType(kind)
}

// conicSag is the shared standard/conic sag formula c*r²/(1+sqrt(1-(1+k)c²r²)),
// used both by Standard (closed form) and as the base term of every
// aspheric departure variant.
func conicSag(c, k, r2 float64) float64 {
	disc := 1 - (1+k)*c*c*r2
	if disc < 0 {
		return math.NaN()
	}
	return c * r2 / (1 + math.Sqrt(disc))
}

// conicSagDerivR2 returns d(conicSag)/d(r2), used to build analytic
// surface-normal partials for the aspheric variants.
func conicSagDerivR2(c, k, r2 float64) float64 {
	disc := 1 - (1+k)*c*c*r2
	if disc <= 0 {
		return math.NaN()
	}
	sq := math.Sqrt(disc)
	// d/dr2 [ c r2 / (1+sq) ] where sq = sqrt(1-(1+k)c^2 r2)
	dsq := -(1 + k) * c * c / (2 * sq)
	return (c*(1+sq) - c*r2*dsq) / ((1 + sq) * (1 + sq))
}

// closedFormConicDistance solves the ray/conic-of-revolution quadratic
// for a vertex at the local origin with curvature c=1/radius and conic
// constant k:
//
//	A t² + B t + C = 0
//	A = c(L²+M²) + (1+k)c N²
//	B = 2c(x0 L + y0 M) + 2(1+k)c z0 N - 2N
//	C = c(x0²+y0²) + (1+k)c z0² - 2 z0
//
// which reduces, at k=0, to spec.md §4.2's pure-sphere quadratic
// (offset = position - (0,0,R)); at c=0 (flat plane, radius=+Inf) it
// reduces to the plane intersection t=-z0/N. The root closer to the
// vertex (smaller |z|) is selected, tie-broken toward the positive-t
// root, matching original_source/optiland/geometries/newton_raphson.py's
// `_intersection_sphere` (that function is the k=0 specialization of
// this routine, reused there as the Newton-Raphson bootstrap).
func closedFormConicDistance(radius, k float64, r RaySlice, out []float64, dead []bool) {
	c := 0.0
	if !math.IsInf(radius, 0) && radius != 0 {
		c = 1 / radius
	}
	n := len(r.X)
	for i := 0; i < n; i++ {
		dead[i] = false
		x0, y0, z0 := r.X[i], r.Y[i], r.Z[i]
		L, M, N := r.L[i], r.M[i], r.N[i]

		A := c*(L*L+M*M) + (1+k)*c*N*N
		B := 2*c*(x0*L+y0*M) + 2*(1+k)*c*z0*N - 2*N
		C := c*(x0*x0+y0*y0) + (1+k)*c*z0*z0 - 2*z0

		var t float64
		if math.Abs(A) < 1e-300 {
			if B == 0 {
				dead[i] = true
				continue
			}
			t = -C / B
		} else {
			disc := B*B - 4*A*C
			if disc < 0 {
				dead[i] = true
				continue
			}
			sq := math.Sqrt(disc)
			t1 := (-B + sq) / (2 * A)
			t2 := (-B - sq) / (2 * A)
			z1 := z0 + t1*N
			z2 := z0 + t2*N
			if math.Abs(z1) <= math.Abs(z2) {
				t = t1
				if t < 0 && t2 >= 0 {
					t = t2
				}
			} else {
				t = t2
				if t < 0 && t1 >= 0 {
					t = t1
				}
			}
		}
		if t < 0 || math.IsNaN(t) {
			dead[i] = true
			continue
		}
		out[i] = t
	}
}

// newtonRaphsonDistance implements the iterative intersection of
// spec.md §4.2: bootstrap from the osculating sphere (base radius),
// then refine with dz/N_component fixed point iteration until
// max|dz| < tol or maxIter is exhausted (dead on non-convergence).
func newtonRaphsonDistance(radius float64, sag func(x, y []float64, out []float64), r RaySlice, out []float64, dead []bool, tol float64, maxIter int) {
	n := len(r.X)
	closedFormConicDistance(radius, 0, r, out, dead)

	ix := make([]float64, n)
	iy := make([]float64, n)
	iz := make([]float64, n)
	zsurf := make([]float64, n)
	dz := make([]float64, n)
	active := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !dead[i] {
			ix[i] = r.X[i] + out[i]*r.L[i]
			iy[i] = r.Y[i] + out[i]*r.M[i]
			iz[i] = r.Z[i] + out[i]*r.N[i]
			active = append(active, i)
		}
	}

	for iter := 0; iter < maxIter && len(active) > 0; iter++ {
		xs := make([]float64, len(active))
		ys := make([]float64, len(active))
		for k, i := range active {
			xs[k] = ix[i]
			ys[k] = iy[i]
		}
		zs := make([]float64, len(active))
		sag(xs, ys, zs)
		for k, i := range active {
			zsurf[i] = zs[k]
		}
		maxAbs := 0.0
		next := active[:0:0]
		for _, i := range active {
			if math.IsNaN(zsurf[i]) {
				dead[i] = true
				continue
			}
			dz[i] = iz[i] - zsurf[i]
			if r.N[i] == 0 {
				dead[i] = true
				continue
			}
			adv := dz[i] / r.N[i]
			ix[i] -= adv * r.L[i]
			iy[i] -= adv * r.M[i]
			iz[i] -= adv * r.N[i]
			if math.Abs(dz[i]) > maxAbs {
				maxAbs = math.Abs(dz[i])
			}
			next = append(next, i)
		}
		active = next
		if maxAbs < tol {
			break
		}
		if iter == maxIter-1 {
			for _, i := range active {
				dead[i] = true
			}
		}
	}

	for i := 0; i < n; i++ {
		if dead[i] {
			out[i] = 0
			continue
		}
		dx := ix[i] - r.X[i]
		dy := iy[i] - r.Y[i]
		dzc := iz[i] - r.Z[i]
		out[i] = math.Sqrt(dx*dx + dy*dy + dzc*dzc)
	}
}

// normalFromPartials builds the outward unit normal from sag partials
// (dz/dx, dz/dy) per spec.md §4.2: (dsag/dx, dsag/dy, -1) / ||.||.
func normalFromPartials(dzdx, dzdy []float64, nx, ny, nz []float64) {
	for i := range dzdx {
		mag := math.Sqrt(dzdx[i]*dzdx[i] + dzdy[i]*dzdy[i] + 1)
		nx[i] = dzdx[i] / mag
		ny[i] = dzdy[i] / mag
		nz[i] = -1 / mag
	}
}

func unknownSurfaceType(kind string) error {
	return errs.New(errs.UnknownSurfaceType, "unknown surface type %q", kind)
}
