package optic

import (
	"math"

	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/paraxial"
)

// paraxialSystem adapts an *Optic to paraxial.System. Its index space
// is NOT Optic's own solve.Optic index space (Group.Surfaces,
// physical-only): paraxial.System brackets the real surfaces with a
// virtual object at index 0 and a virtual image at index
// NumSurfaces()-1, per paraxial.System's own doc comment and the
// indexing convention confirmed by paraxial's own tests (a fake system
// of N real surfaces reports NumSurfaces()==N+2). Concretely, paraxial
// index i maps to:
//
//	i == 0            -> virtual object plane
//	i in [1, n]        -> o.Group.Surfaces[i-1]   (n = len(Group.Surfaces))
//	i == n+1           -> virtual image plane (o's detector-side conjugate)
//
// Keeping this translation in a separate type (rather than on *Optic
// itself) is what lets the same underlying data satisfy both
// solve.Optic's physical-only indexing and paraxial.System's
// object/image-bracketed indexing without a method signature clash.
type paraxialSystem struct {
	o *Optic
}

func (p *paraxialSystem) n() int { return p.o.Group.NumSurfaces() }

func (p *paraxialSystem) NumSurfaces() int { return p.n() + 2 }

func (p *paraxialSystem) Curvature(i int) float64 {
	n := p.n()
	if i == 0 || i == n+1 {
		return 0
	}
	return vertexCurvature(p.o.Group.Surfaces[i-1].Geom)
}

func (p *paraxialSystem) Thickness(i int) float64 {
	n := p.n()
	switch {
	case i == 0:
		if math.IsInf(p.o.ObjectDistance, 1) {
			return math.Inf(1)
		}
		return p.o.Group.Surfaces[0].Frame.Z - p.o.ObjectZ
	case i == n:
		return p.o.imageZ() - p.o.Group.Surfaces[n-1].Frame.Z
	default:
		return p.o.Group.Surfaces[i].Frame.Z - p.o.Group.Surfaces[i-1].Frame.Z
	}
}

func (p *paraxialSystem) Index(i int) float64 {
	wl := p.o.PrimaryWavelength()
	if i == 0 {
		idx, _ := p.o.Group.Surfaces[0].Pre(wl)
		return idx
	}
	idx, _ := p.o.Group.Surfaces[i-1].Post(wl)
	return idx
}

func (p *paraxialSystem) SemiAperture(i int) float64 {
	n := p.n()
	if i == 0 || i == n+1 {
		return 0
	}
	return p.o.Group.Surfaces[i-1].SemiAperture
}

func (p *paraxialSystem) SetSemiAperture(i int, value float64) {
	n := p.n()
	if i == 0 || i == n+1 {
		return
	}
	p.o.Group.Surfaces[i-1].SemiAperture = value
}

func (p *paraxialSystem) StopIndex() int { return p.o.Group.StopIndex + 1 }

// FieldType simplifies field.Definition.Kind()'s four variants down to
// the two paraxial.System distinguishes: only "angle" maps to an
// angular field, every height-based strategy (object_height,
// paraxial_image_height, real_image_height) is reported as
// "object_height" since the paraxial engine only uses FieldType to
// decide whether MaxYField is an angle or a height when sizing
// semi-apertures — an approximation, documented in DESIGN.md, that
// does not affect actual ray aiming (field.Definition.RayOrigins does
// that directly, per-strategy).
func (p *paraxialSystem) FieldType() string {
	if p.o.FieldDef != nil && p.o.FieldDef.Kind() == "angle" {
		return "angle"
	}
	return "object_height"
}

func (p *paraxialSystem) MaxYField() float64 { return p.o.MaxFieldValue }

func (p *paraxialSystem) ApertureType() string { return p.o.Aperture.Type }

func (p *paraxialSystem) ApertureValue() float64 { return p.o.Aperture.Value }

func (p *paraxialSystem) ObjectThickness() float64 { return p.Thickness(0) }

func (p *paraxialSystem) ObjectIndex() float64 { return p.Index(0) }

func (p *paraxialSystem) ImageSolve() bool { return p.o.ImageSolveEnabled }

// SetImageDistance repositions the virtual image plane a back-focal
// distance `value` beyond the last real surface, mirroring
// paraxial.py's image solve (which measures BFD from the last optical
// surface, not from any particular detector placement).
func (p *paraxialSystem) SetImageDistance(value float64) {
	n := p.n()
	p.o.setImageZ(p.o.Group.Surfaces[n-1].Frame.Z + value)
}

// imageZ is the image/detector plane's z position: Group.Surfaces'
// last entry, which both solve.Optic and the paraxial adapter above
// treat as the system's image conjugate (so solve.QuickFocus's direct
// Group.SetSurfaceZ(n-1, ...) and the paraxial image solve below always
// agree on which surface they are repositioning).
func (o *Optic) imageZ() float64 {
	n := o.Group.NumSurfaces()
	return o.Group.Surfaces[n-1].Frame.Z
}

func (o *Optic) setImageZ(z float64) {
	n := o.Group.NumSurfaces()
	o.Group.Surfaces[n-1].Frame.Z = z
}

// paraxialEngine returns a paraxial.Engine bound to this Optic's
// paraxialSystem adapter, used by every paraxial derived-quantity
// query (EPL, EPD, pupils, marginal/chief ray, ...).
func (o *Optic) paraxialEngine() *paraxial.Engine {
	return paraxial.New(&paraxialSystem{o: o})
}

// --- field.System / aim.System ---

func (o *Optic) MaxField() float64  { return o.MaxFieldValue }
func (o *Optic) MaxYField() float64 { return o.MaxFieldValue }

func (o *Optic) ObjectIsInfinite() bool { return math.IsInf(o.ObjectDistance, 1) }

func (o *Optic) EPL() float64 { return o.paraxialEngine().EPL() }

func (o *Optic) EPD() float64 { return o.paraxialEngine().EPD() }

func (o *Optic) FirstSurfaceZ() float64 { return o.Group.Surfaces[0].Frame.Z }

func (o *Optic) StartingZOffset() float64 { return o.ZOffset }

func (o *Optic) ObjectSurfaceZ() float64 { return o.ObjectZ }

func (o *Optic) ObjectSag(x, y float64) float64 {
	if o.ObjectGeom == nil {
		return 0
	}
	xs, ys, out := []float64{x}, []float64{y}, make([]float64, 1)
	o.ObjectGeom.Sag(xs, ys, out)
	return out[0]
}

func (o *Optic) ObjectSpaceTelecentric() bool { return o.Telecentric }

func (o *Optic) ApertureType() string { return o.Aperture.Type }

func (o *Optic) ApertureValue() float64 { return o.Aperture.Value }

// TraceUnitChiefRay traces a (y=0,u=1) paraxial ray from the stop
// surface toward the object or image plane, the Go analogue of
// ParaxialImageHeightField._trace_unit_chief_ray, which calls
// optic.paraxial._trace_generic(y=0, u=1, z=stop_z, skip=stop_idx)
// forward for plane="image" and the reverse trace (skip = num_surf -
// stop_idx) for plane="object".
func (o *Optic) TraceUnitChiefRay(plane string) (y, u float64) {
	ps := &paraxialSystem{o: o}
	stop := ps.StopIndex()
	N := ps.NumSurfaces()
	var to int
	if plane == "object" {
		to = 0
	} else {
		to = N - 1
	}
	ys, us := paraxial.TraceFromSurface(ps, stop, to, 0, 1)
	last := len(ys) - 1
	return ys[last], us[last]
}

var _ field.System = (*Optic)(nil)
var _ paraxial.System = (*paraxialSystem)(nil)
