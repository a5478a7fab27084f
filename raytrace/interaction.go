package raytrace

import (
	"math"

	"github.com/cpmech/optigo/polarization"
)

// refractOne applies vector Snell's law to a single ray at a surface
// with outward unit normal (nx,ny,nz), going from index n1 to n2.
// Grounded on spec.md §4.3 step 5 and, for the TIR discriminant
// structure, original_source/refract.py's `arg := 1 - (n1/n2)^2*(1-cosI^2)`
// check (refract.py computes the same quantity via its own E1/Ep/g
// direction-cosine construction; the discriminant test is identical,
// only the basis differs).
//
// Returns the refracted direction and ok=false on total internal
// reflection.
func refractOne(lx, ly, lz, nx, ny, nz, n1, n2 float64) (rx, ry, rz float64, ok bool) {
	cosI := -(lx*nx + ly*ny + lz*nz)
	eta := n1 / n2
	disc := 1 - eta*eta*(1-cosI*cosI)
	if disc < 0 {
		return 0, 0, 0, false
	}
	cosT := math.Sqrt(disc)
	k := eta*cosI - cosT
	rx = eta*lx + k*nx
	ry = eta*ly + k*ny
	rz = eta*lz + k*nz
	return rx, ry, rz, true
}

// reflectOne mirrors the incoming direction about the surface normal:
// d' = d - 2(d.n)n, per spec.md §4.3 step 5.
func reflectOne(lx, ly, lz, nx, ny, nz float64) (rx, ry, rz float64) {
	dn := lx*nx + ly*ny + lz*nz
	rx = lx - 2*dn*nx
	ry = ly - 2*dn*ny
	rz = lz - 2*dn*nz
	return
}

// gratingDeflect applies a diffraction grating's angular deflection to
// the tangential component of the ray direction, per spec.md §4.3 step
// 5: direction_tangent += m*lambda*g/d (wavelength in the same units as
// 1/LineDensity, i.e. micrometers when LineDensity is lines/um).
func gratingDeflect(lx, ly, lz, nx, ny, nz, wavelengthUm float64, g *GratingSpec) (rx, ry, rz float64) {
	gmag := math.Hypot(g.GX, g.GY)
	if gmag == 0 {
		return lx, ly, lz
	}
	gxu, gyu := g.GX/gmag, g.GY/gmag
	delta := g.Order * wavelengthUm * g.LineDensity
	rx = lx + delta*gxu
	ry = ly + delta*gyu
	// renormalize the tangential change against the normal to keep |d|=1,
	// solving for the z-component via the unit-length constraint.
	t2 := rx*rx + ry*ry
	if t2 >= 1 {
		return lx, ly, lz
	}
	sign := 1.0
	if lz*nz < 0 || (nz == 0 && lz < 0) {
		sign = -1
	}
	rz = sign * math.Sqrt(1-t2)
	return rx, ry, rz
}

// fresnelJones builds the Jones transport matrix for a refraction or
// reflection event, consistent with the angles used by refractOne/
// reflectOne, embedded in a 3x3 per raytrace.Batch.Jones's convention.
func fresnelJones(n1, n2, cosI, cosT float64, reflect bool) [3][3]complex128 {
	return embed2x2(polarization.JonesFresnel(n1, n2, cosI, cosT, reflect))
}
