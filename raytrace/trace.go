package raytrace

import (
	"math"
	"sync"

	"github.com/cpmech/optigo/geom"
)

// Trace advances every ray in b through every surface of g, in order,
// single-threaded, applying the seven-step per-surface protocol of
// spec.md §4.3. It is the per-partition worker called directly by
// TraceBatchParallel, and can also be called on a whole batch for a
// non-parallel trace.
func Trace(g *Group, b *Batch) {
	for _, s := range g.Surfaces {
		traceSurface(s, b)
	}
	b.NSurfaces += len(g.Surfaces)
}

// traceSurface implements spec.md §4.3's seven steps for one surface
// against the whole batch:
//  1. localize into the surface frame
//  2. solve the distance intersection (dead=true if none)
//  3. advance position, accumulate OPL
//  4. aperture clip
//  5. interaction (refract/reflect/paraxial/grating/stop)
//  6. polarization Jones accumulation
//  7. globalize out of the surface frame
func traceSurface(s *Surface, b *Batch) {
	n := len(b.X)
	fb := b.frameBatch()

	// 1. localize
	s.Frame.Localize(fb)

	// 2. distance
	dist := make([]float64, n)
	dead := make([]bool, n)
	rs := geom.RaySlice{X: b.X, Y: b.Y, Z: b.Z, L: b.L, M: b.M, N: b.N}
	s.Geom.Distance(rs, dist, dead)

	// 3. advance + OPL
	for i := 0; i < n; i++ {
		if !b.Live(i) {
			continue
		}
		if dead[i] {
			b.Intensity[i] = 0
			continue
		}
		nPre, _ := s.Pre(b.Wavelength[i])
		b.X[i] += dist[i] * b.L[i]
		b.Y[i] += dist[i] * b.M[i]
		b.Z[i] += dist[i] * b.N[i]
		b.OPL[i] += nPre * dist[i]
	}

	// 4. aperture clip
	if s.Aperture != nil {
		for i := 0; i < n; i++ {
			if b.Live(i) && !s.Aperture.Contains(b.X[i], b.Y[i]) {
				b.Intensity[i] = 0
			}
		}
	}
	if s.SemiAperture > 0 {
		for i := 0; i < n; i++ {
			if b.Live(i) {
				r2 := b.X[i]*b.X[i] + b.Y[i]*b.Y[i]
				if r2 > s.SemiAperture*s.SemiAperture {
					b.Intensity[i] = 0
				}
			}
		}
	}

	// 5+6. interaction and polarization, surface normal needed for
	// refract/reflect/grating but not for paraxial/stop.
	var nx, ny, nz []float64
	switch s.Interaction {
	case Refract, Reflect, Grating:
		nx, ny, nz = make([]float64, n), make([]float64, n), make([]float64, n)
		s.Geom.Normal(b.X, b.Y, nx, ny, nz)
	}

	for i := 0; i < n; i++ {
		if !b.Live(i) {
			continue
		}
		switch s.Interaction {
		case Stop, Absorb:
			if s.Interaction == Absorb {
				b.Intensity[i] = 0
			}
		case ParaxialElement:
			applyParaxialElement(b, i, s.Focal)
		case Grating:
			if s.Grating == nil {
				continue
			}
			rx, ry, rz := gratingDeflect(b.L[i], b.M[i], b.N[i], nx[i], ny[i], nz[i], b.Wavelength[i], s.Grating)
			b.L[i], b.M[i], b.N[i] = rx, ry, rz
		case Reflect:
			nPre, _ := s.Pre(b.Wavelength[i])
			nPost := nPre
			rx, ry, rz := reflectOne(b.L[i], b.M[i], b.N[i], nx[i], ny[i], nz[i])
			if b.Jones != nil {
				cosI := -(b.L[i]*nx[i] + b.M[i]*ny[i] + b.N[i]*nz[i])
				j := fresnelJones(nPre, nPost, cosI, -cosI, true)
				b.Jones[i] = mul3(j, b.Jones[i])
			}
			b.L[i], b.M[i], b.N[i] = rx, ry, rz
		case Refract:
			nPre, _ := s.Pre(b.Wavelength[i])
			nPost, _ := s.Post(b.Wavelength[i])
			cosI := -(b.L[i]*nx[i] + b.M[i]*ny[i] + b.N[i]*nz[i])
			rx, ry, rz, ok := refractOne(b.L[i], b.M[i], b.N[i], nx[i], ny[i], nz[i], nPre, nPost)
			if !ok {
				b.Intensity[i] = 0
				continue
			}
			if b.Jones != nil {
				eta := nPre / nPost
				disc := 1 - eta*eta*(1-cosI*cosI)
				cosT := math.Sqrt(math.Max(disc, 0))
				j := fresnelJones(nPre, nPost, cosI, cosT, false)
				b.Jones[i] = mul3(j, b.Jones[i])
			}
			b.L[i], b.M[i], b.N[i] = rx, ry, rz
		}
	}

	// 7. globalize
	s.Frame.Globalize(fb)
}

// applyParaxialElement implements the thin paraxial element of spec.md
// §4.3 step 5: the ray's radial height y and its slope u = dr/dz both
// feed u' = u - r/f, redirecting the ray toward (or away from, for
// f<0) the optical axis without changing its position.
func applyParaxialElement(b *Batch, i int, f float64) {
	if f == 0 || b.N[i] == 0 {
		return
	}
	r := math.Hypot(b.X[i], b.Y[i])
	if r == 0 {
		return
	}
	ux := b.L[i] / b.N[i]
	uy := b.M[i] / b.N[i]
	ux -= b.X[i] / f
	uy -= b.Y[i] / f
	mag := math.Sqrt(ux*ux + uy*uy + 1)
	b.L[i] = ux / mag
	b.M[i] = uy / mag
	b.N[i] = 1 / mag
	if b.N[i] < 0 {
		b.N[i] = -b.N[i]
		b.L[i] = -b.L[i]
		b.M[i] = -b.M[i]
	}
}

// slice returns a view of b covering rays [lo:hi); the returned Batch
// shares backing arrays with b, so writes during a partitioned trace
// land directly in the caller's batch.
func (b *Batch) slice(lo, hi int) *Batch {
	sub := &Batch{
		X: b.X[lo:hi], Y: b.Y[lo:hi], Z: b.Z[lo:hi],
		L: b.L[lo:hi], M: b.M[lo:hi], N: b.N[lo:hi],
		Wavelength: b.Wavelength[lo:hi],
		Intensity:  b.Intensity[lo:hi],
		OPL:        b.OPL[lo:hi],
	}
	if b.Jones != nil {
		sub.Jones = b.Jones[lo:hi]
	}
	return sub
}

// TraceBatchParallel implements spec.md §5's concurrency model: the
// batch is partitioned into contiguous chunks, one goroutine per chunk,
// each tracing its chunk sequentially against the same (read-only)
// surface list, joining before return. Surface/geometry/material state
// is never mutated during a trace, so chunks share the Group safely.
func TraceBatchParallel(g *Group, b *Batch, workers int) {
	n := len(b.X)
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 || n == 0 {
		Trace(g, b)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		sub := b.slice(lo, hi)
		wg.Add(1)
		go func() {
			defer wg.Done()
			Trace(g, sub)
		}()
	}
	wg.Wait()
	b.NSurfaces += len(g.Surfaces)
}
