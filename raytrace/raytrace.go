// Package raytrace implements spec.md §4.3's real sequential ray
// tracer: a batched, data-parallel trace of a ray bundle through an
// ordered surface list, advancing position/direction/OPL/intensity one
// surface at a time.
//
// The per-surface refraction math is grounded on
// original_source/refract.py and original_source/transfer.py, which
// trace real (non-paraxial) rays via direction cosines (K,L,M) at
// spherical and aspheric surfaces using an E1/Ep/g construction. This
// package instead follows spec.md §4.3's more general vector-Snell
// formulation (working from geom.Surface's already-computed outward
// normal rather than re-deriving a surface-specific normal inline), so
// every geom.Surface variant — not just standard/aspheric — refracts
// through the same code path; refract.py's TIR detection
// (`arg := ... ; if arg < 0`) and index-ratio (η = n0/n1) structure
// carry over directly.
package raytrace

import (
	"github.com/cpmech/optigo/aperture"
	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
	"github.com/cpmech/optigo/polarization"
)

// Batch is the SoA ray batch of spec.md §3: parallel arrays, one entry
// per ray, advanced in place surface by surface. Jones is optional
// (nil unless polarization tracking is enabled for the trace) and, per
// spec.md §3, stores a 3x3 matrix per ray — the 2x2 s/p Fresnel
// transport of package polarization embedded in the upper-left block,
// with the third row/column held at the identity so un-polarized or
// paraxial-only traces can leave it untouched.
type Batch struct {
	X, Y, Z    []float64
	L, M, N    []float64
	Wavelength []float64
	Intensity  []float64
	OPL        []float64
	Jones      [][3][3]complex128

	NSurfaces int // bookkeeping: how many surfaces this batch has been advanced through
}

// NewBatch allocates a batch of n rays, all alive, all at the origin
// heading down +z, at the given wavelength (micrometers).
func NewBatch(n int, wavelengthUm float64) *Batch {
	b := &Batch{
		X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n),
		L: make([]float64, n), M: make([]float64, n), N: make([]float64, n),
		Wavelength: make([]float64, n),
		Intensity:  make([]float64, n),
		OPL:        make([]float64, n),
	}
	for i := 0; i < n; i++ {
		b.N[i] = 1
		b.Intensity[i] = 1
		b.Wavelength[i] = wavelengthUm
	}
	return b
}

// Live reports whether ray i still carries energy.
func (b *Batch) Live(i int) bool { return b.Intensity[i] > 0 }

// EnablePolarization allocates the per-ray Jones state, initialized to
// identity transport (embedded 2x2 identity, third row/column
// identity), for traces that need to accumulate Fresnel transport.
func (b *Batch) EnablePolarization() {
	n := len(b.X)
	b.Jones = make([][3][3]complex128, n)
	for i := range b.Jones {
		b.Jones[i] = embed2x2(polarization.Identity)
	}
}

func embed2x2(j [2][2]complex128) [3][3]complex128 {
	return [3][3]complex128{
		{j[0][0], j[0][1], 0},
		{j[1][0], j[1][1], 0},
		{0, 0, 1},
	}
}

func mul3(a, b [3][3]complex128) [3][3]complex128 {
	var out [3][3]complex128
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s complex128
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// frameBatch views the ray batch's position/direction as a
// frame.Batch, for Localize/Globalize.
func (b *Batch) frameBatch() *frame.Batch {
	return &frame.Batch{X: b.X, Y: b.Y, Z: b.Z, L: b.L, M: b.M, N: b.N, HasDir: true}
}

// Interaction discriminates what a surface does to a ray once it
// reaches it, per spec.md §4.3 step 5.
type Interaction int

const (
	Refract Interaction = iota
	Reflect
	ParaxialElement
	Grating
	Stop
	Absorb
)

// Coating is a thin-film stack's effect on the Jones transport at a
// surface; nil means the bare Fresnel coefficients of the substrate
// index ratio apply. Only the aggregate s/p amplitude transmittance is
// modeled (per spec.md §1 Non-goals, multi-layer interference detail
// is out of scope) — a Coating is a fixed override of the transport
// amplitudes rather than a dispersion model.
type Coating struct {
	Ts, Tp float64 // amplitude transmittance overrides, s and p
	Rs, Rp float64 // amplitude reflectance overrides, s and p
}

// GratingSpec describes a diffraction grating's groove vector and order
// (spec.md §4.3 step 5): direction_tangent += m·λ·g/d. The deflection
// does not depend on the refractive index after the surface.
type GratingSpec struct {
	GX, GY      float64 // groove direction in the surface tangent plane
	Order       float64
	LineDensity float64 // lines per micrometer (1/d)
}

// Surface is one element of a Group: its shape, its placement, the
// materials on either side, optional clipping, and how rays interact
// with it.
type Surface struct {
	Frame   *frame.Frame
	Geom    geom.Surface
	Pre     material.IndexFunc
	Post    material.IndexFunc
	PreName string
	PostName string

	Aperture     aperture.Aperture
	SemiAperture float64

	Interaction Interaction
	Focal       float64 // focal length, for Interaction == ParaxialElement
	Grating     *GratingSpec
	Coat        *Coating
}

// Group is an ordered sequence of surfaces plus which index is the
// aperture stop, per spec.md §3.
type Group struct {
	Surfaces  []*Surface
	StopIndex int
}

// NumSurfaces, SurfaceZ, etc. below give package solve/field/paraxial
// access to a Group's geometry through their narrow consumer
// interfaces without those packages importing raytrace (kept here,
// next to Group, since they are pure accessors with no trace logic).

func (g *Group) NumSurfaces() int { return len(g.Surfaces) }

func (g *Group) SurfaceZ(i int) float64 { return g.Surfaces[i].Frame.Z }

func (g *Group) SetSurfaceZ(i int, z float64) { g.Surfaces[i].Frame.Z = z }

// SurfaceRadius reports the surface's radius of curvature if its
// geometry is a Standard (sphere/conic) surface; ok is false for any
// other geom.Surface variant.
func (g *Group) SurfaceRadius(i int) (float64, bool) {
	if st, ok := g.Surfaces[i].Geom.(*geom.Standard); ok {
		return st.Radius, true
	}
	return 0, false
}

// SetSurfaceRadius sets the surface's radius if its geometry is a
// Standard surface; a no-op otherwise.
func (g *Group) SetSurfaceRadius(i int, radius float64) {
	if st, ok := g.Surfaces[i].Geom.(*geom.Standard); ok {
		st.Radius = radius
	}
}

func (g *Group) MaterialIndexBefore(i int, wavelengthUm float64) float64 {
	n, _ := g.Surfaces[i].Pre(wavelengthUm)
	return n
}

func (g *Group) MaterialIndexAfter(i int, wavelengthUm float64) float64 {
	n, _ := g.Surfaces[i].Post(wavelengthUm)
	return n
}
