// Package optic implements spec.md §3's "Optic" assembly: the
// concrete, mutable optical system that every other package's narrow
// consumer interface (field.System, aim.System, paraxial.System,
// solve.Optic) is implemented against, and the integration wiring
// spec.md §4.5's wavefront package deliberately defers to a caller —
// sampling a pupil distribution, aiming each ray, tracing it, and
// handing the result to wavefront.Compute.
//
// No single original_source/ file corresponds to this package (the
// retrieved optiland tree's own Optic class lives in files outside the
// retrieval filter), so its shape is built directly from spec.md §3's
// data model plus the narrow interfaces already grounded in field,
// aim, paraxial and solve.
package optic

import (
	"math"

	"github.com/cpmech/optigo/aim"
	"github.com/cpmech/optigo/apodization"
	"github.com/cpmech/optigo/errs"
	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/raytrace"
	"github.com/cpmech/optigo/solve"
)

// errChiefRayDied reports that ComputeWavefront's chief ray failed to
// aim or was absorbed/vignetted before reaching the image surface,
// making every OPD in the requested field meaningless.
var errChiefRayDied = errs.New(errs.InvalidConfiguration, "chief ray did not reach the image surface")

// ApertureSpec names the system aperture definition of spec.md §3: the
// entrance pupil diameter directly, an image-space f-number, an
// object-space numerical aperture, or the stop surface's own physical
// size ("float_by_stop_size"). paraxial.Engine.EPD has no case for
// "float_by_stop_size" and returns 0 for it.
type ApertureSpec struct {
	Type  string // "EPD" | "imageFNO" | "objectNA" | "object_cone_angle" | "imageNA" | "float_by_stop_size"
	Value float64
}

// Optic is the assembled optical system of spec.md §3: a surface
// group, field list, wavelength list, aperture spec, field-definition
// strategy, and ray-aiming configuration, mutated freely between
// traces (every trace re-reads current state, per spec.md §3's
// lifecycle rule).
//
// Group.Surfaces holds every REAL physical surface the ray tracer
// advances through, in order, INCLUDING the image/detector plane as
// its last entry; it does NOT include a literal object surface (rays
// are launched directly from the object-space point a field.Definition
// computes, never traced from the object plane itself). The paraxial
// engine's object(0)/image(N-1) virtual endpoints are bridged by the
// paraxialSystem adapter in paraxial_system.go, which is the only part
// of this package that needs to reconcile that index-space gap.
type Optic struct {
	Group       *raytrace.Group
	Fields      []field.Field
	Wavelengths []float64
	Primary     int
	Aperture    ApertureSpec
	FieldDef    field.Definition
	AimConfig   aim.Config
	Apodizer    apodization.Apodizer
	Solves      *solve.Manager

	// MaxFieldValue is the scale (degrees for an angle field, mm for a
	// height field) that every Field's normalized (Hx,Hy) multiplies
	// against, per spec.md §3's "normalized 2-vector" field model.
	MaxFieldValue float64

	// ObjectZ is the finite object surface's z position; unused when
	// the object is at infinity (ObjectDistance == +Inf).
	ObjectZ float64
	// ObjectDistance is Thickness(0) in paraxial terms: the gap from
	// the object plane to the first real surface, +Inf for an object
	// at infinity.
	ObjectDistance float64
	// ObjectGeom optionally curves the object surface (a field curved
	// object, e.g. a fiber bundle); nil means a flat object plane.
	ObjectGeom geom.Surface
	// ZOffset is the fixed axial offset ahead of the first surface
	// used to place the virtual launch plane for an infinite-conjugate
	// object, mirroring BaseFieldDefinition's starting_z_offset.
	ZOffset float64

	// ImageSolveEnabled controls whether UpdateParaxial runs the
	// paraxial back-focal image solve, repositioning Group.Surfaces'
	// last entry (the image/detector plane).
	ImageSolveEnabled bool

	Telecentric bool // object-space telecentric, spec.md §4.6's telecentric aim path

	aimer aim.Strategy
}

// New builds an Optic, validating the wavelength index and the
// telecentric/field-type compatibility spec.md §4.6 requires, and
// constructing its ray-aiming strategy once up front (centralizing the
// fail-fast checks the source defers to call time).
func New(group *raytrace.Group, fields []field.Field, wavelengths []float64, primary int, ap ApertureSpec, fieldDef field.Definition, aimCfg aim.Config) (*Optic, error) {
	if primary < 0 || primary >= len(wavelengths) {
		return nil, errs.New(errs.InvalidConfiguration, "primary wavelength index %d out of range [0,%d)", primary, len(wavelengths))
	}
	o := &Optic{
		Group: group, Fields: fields, Wavelengths: wavelengths, Primary: primary,
		Aperture: ap, FieldDef: fieldDef, AimConfig: aimCfg,
		Apodizer: apodization.Uniform{}, Solves: solve.NewManager(),
		ObjectDistance: math.Inf(1), ZOffset: 10, MaxFieldValue: 1,
	}
	if err := o.rebuildAimer(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Optic) rebuildAimer() error {
	if o.Telecentric && o.FieldDef != nil && o.FieldDef.Kind() == "angle" {
		if o.Aperture.Type == "EPD" || o.Aperture.Type == "imageFNO" {
			return errs.New(errs.TelecentricFieldConflict, "object-space telecentric system cannot use an angle field definition with aperture type %q", o.Aperture.Type)
		}
	}
	aimer, err := aim.New(o.AimConfig, o.Group)
	if err != nil {
		return err
	}
	o.aimer = aimer
	return nil
}

// PrimaryWavelength is the wavelength (micrometers) every paraxial and
// solve computation runs at.
func (o *Optic) PrimaryWavelength() float64 { return o.Wavelengths[o.Primary] }

// --- solve.Optic ---
//
// NumSurfaces/SurfaceZ/SetSurfaceZ/SurfaceRadius/SetSurfaceRadius
// delegate straight to Group; there is no virtual image slot beyond
// Group.Surfaces here (unlike the paraxial adapter's object/image
// bracketing) because the image/detector plane IS Group.Surfaces'
// last real entry, so solve.QuickFocus's SetSurfaceZ(NumSurfaces()-1, ...)
// already lands on it without any index translation.

func (o *Optic) NumSurfaces() int { return o.Group.NumSurfaces() }

func (o *Optic) SurfaceZ(i int) float64 { return o.Group.SurfaceZ(i) }

func (o *Optic) SetSurfaceZ(i int, z float64) { o.Group.SetSurfaceZ(i, z) }

func (o *Optic) SurfaceRadius(i int) (float64, bool) { return o.Group.SurfaceRadius(i) }

func (o *Optic) SetSurfaceRadius(i int, radius float64) { o.Group.SetSurfaceRadius(i, radius) }

func (o *Optic) MaterialIndexBefore(i int) float64 {
	return o.Group.MaterialIndexBefore(i, o.PrimaryWavelength())
}

func (o *Optic) MaterialIndexAfter(i int) float64 {
	return o.Group.MaterialIndexAfter(i, o.PrimaryWavelength())
}

// vertexCurvature approximates a geometry's curvature at its vertex:
// exact for Standard (1/Radius), and for every other variant a small
// finite-difference estimate from Sag, valid because every surface
// model in package geom reduces to (c/2)r^2 + O(r^4) near the vertex
// regardless of its higher-order terms.
func vertexCurvature(g geom.Surface) float64 {
	if st, ok := g.(*geom.Standard); ok {
		if st.Radius == 0 || math.IsInf(st.Radius, 0) {
			return 0
		}
		return 1 / st.Radius
	}
	const h = 1e-4
	x := []float64{h}
	y := []float64{0}
	out := make([]float64, 1)
	g.Sag(x, y, out)
	if math.IsNaN(out[0]) {
		return 0
	}
	return 2 * out[0] / (h * h)
}
