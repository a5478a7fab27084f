package aim

import (
	"math"

	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/raytrace"
)

// Fallback attempts Primary first; if it errors, fails to converge
// (the ray dies before the stop), or leaves a residual pupil error
// above Tol, it retries with Secondary — no direct original_source
// analogue (the Python registry composes strategies only via Cached),
// so this is built from spec.md §4.6's own Fallback description, using
// the same stop-surface residual check Iterative already computes.
type Fallback struct {
	Primary   Strategy
	Secondary Strategy
	Group     *raytrace.Group
	Tol       float64
}

// NewFallback builds a Fallback trying primary then secondary against
// surface group g, with a default 1e-4 pupil-residual tolerance.
func NewFallback(primary, secondary Strategy, g *raytrace.Group) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary, Group: g, Tol: 1e-4}
}

func (*Fallback) Kind() string { return "fallback" }

func (f *Fallback) AimRay(sys System, def field.Definition, req Request, guess *Result) (Result, error) {
	result, err := f.Primary.AimRay(sys, def, req, guess)
	if err == nil && f.residualOK(result, req, sys) {
		return result, nil
	}
	return f.Secondary.AimRay(sys, def, req, guess)
}

func (f *Fallback) residualOK(r Result, req Request, sys System) bool {
	stopIdx := f.Group.StopIndex
	rx, ry := stopTargetExtent(f.Group.Surfaces[stopIdx], sys)
	tx, ty := req.Px*rx, req.Py*ry

	b := raytrace.NewBatch(1, req.WavelengthUm)
	b.X[0], b.Y[0], b.Z[0] = r.X, r.Y, r.Z
	b.L[0], b.M[0], b.N[0] = r.L, r.M, r.N
	sub := &raytrace.Group{Surfaces: f.Group.Surfaces[:stopIdx+1], StopIndex: stopIdx}
	raytrace.Trace(sub, b)
	if !b.Live(0) {
		return false
	}

	tol := f.Tol
	if tol <= 0 {
		tol = 1e-4
	}
	return math.Hypot(b.X[0]-tx, b.Y[0]-ty) <= tol
}
