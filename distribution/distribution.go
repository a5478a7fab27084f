// Package distribution implements spec.md §5's pupil sampling
// distributions: a set of fixed point layouts over the unit pupil disk
// (optionally vignetted toward an ellipse), used by wavefront
// reconstruction and ray aiming to decide where in the pupil to launch
// rays.
//
// Grounded on original_source/optiland/distribution.py's concrete
// layouts: LineX/LineY (spec.md's "line"), Random ("random disk"),
// UniformDistribution ("rectangular-in-disk": a square grid clipped to
// the unit disk), HexagonalDistribution ("hexapolar"), CrossDistribution
// ("cross"), and GaussianQuadrature ("Gauss-quadrature").
package distribution

import (
	"math"

	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/optigo/errs"
)

// Distribution is the tagged-variant interface every pupil sampling
// layout implements, mirroring package geom/aperture's Kind()/ToMap()
// shape.
type Distribution interface {
	Kind() string

	// Generate returns n normalized pupil points (or, for Hexapolar and
	// GaussianQuadrature, n rings), vignetted by (1-vx, 1-vy) in x and y
	// respectively (spec.md §4.1's vignetting factors narrow the usable
	// pupil for off-axis fields).
	Generate(n int, vx, vy float64) (px, py []float64)

	ToMap() map[string]interface{}
}

// Weighted is implemented by distributions that also carry an
// integration weight per ring (Gaussian quadrature only); wavefront
// RMS/Strehl estimates use these weights instead of a uniform average.
type Weighted interface {
	Weights(n int) []float64
}

// FromMap dispatches on the "type" discriminator, the idiomatic
// substitute for the source's create_distribution registry.
func FromMap(m map[string]interface{}) (Distribution, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case "line_x":
		return NewLineX(mgetb(m, "positive_only", false)), nil
	case "line_y":
		return NewLineY(mgetb(m, "positive_only", false)), nil
	case "random":
		return NewRandom(int64(mgetf(m, "seed", 0))), nil
	case "rectangular":
		return NewRectangular(), nil
	case "hexapolar":
		return NewHexapolar(), nil
	case "cross":
		return NewCross(), nil
	case "gaussian_quadrature":
		return NewGaussianQuadrature(mgetb(m, "is_symmetric", false)), nil
	}
	return nil, errs.New(errs.UnknownDistribution, "unknown distribution type %q", kind)
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func mgetb(m map[string]interface{}, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// LineX samples n points along the x-axis, from -1 to 1 (or 0 to 1 if
// PositiveOnly), y held at 0.
type LineX struct{ PositiveOnly bool }

func NewLineX(positiveOnly bool) *LineX { return &LineX{PositiveOnly: positiveOnly} }

func (d *LineX) Kind() string { return "line_x" }

func (d *LineX) Generate(n int, vx, vy float64) (px, py []float64) {
	px = linspace(d.PositiveOnly, n)
	py = make([]float64, n)
	scale(px, 1-vx)
	return
}

func (d *LineX) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind(), "positive_only": d.PositiveOnly}
}

// LineY samples n points along the y-axis, the transpose of LineX.
type LineY struct{ PositiveOnly bool }

func NewLineY(positiveOnly bool) *LineY { return &LineY{PositiveOnly: positiveOnly} }

func (d *LineY) Kind() string { return "line_y" }

func (d *LineY) Generate(n int, vx, vy float64) (px, py []float64) {
	px = make([]float64, n)
	py = linspace(d.PositiveOnly, n)
	scale(py, 1-vy)
	return
}

func (d *LineY) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind(), "positive_only": d.PositiveOnly}
}

// linspace wraps gosl/utl.LinSpace, the same evenly-spaced-points
// helper the teacher calls repeatedly for retention-curve and
// diffusion-profile sampling (e.g. mdl/retention/testing.go,
// mdl/diffusion).
func linspace(positiveOnly bool, n int) []float64 {
	if n == 1 {
		return make([]float64, 1)
	}
	lo, hi := -1.0, 1.0
	if positiveOnly {
		lo = 0
	}
	return utl.LinSpace(lo, hi, n)
}

func scale(xs []float64, factor float64) {
	for i := range xs {
		xs[i] *= factor
	}
}

// Cross samples n points along the x-axis concatenated with n points
// along the y-axis (2n points total), useful for a quick astigmatism/
// coma cross-section probe.
type Cross struct{}

func NewCross() *Cross { return &Cross{} }

func (d *Cross) Kind() string { return "cross" }

func (d *Cross) Generate(n int, vx, vy float64) (px, py []float64) {
	xAxis := linspace(false, n)
	yAxis := linspace(false, n)
	px = make([]float64, 2*n)
	py = make([]float64, 2*n)
	for i := 0; i < n; i++ {
		// first half: along x, y=0
		px[i] = xAxis[i] * (1 - vx)
		// second half: along y, x=0
		py[n+i] = yAxis[i] * (1 - vy)
	}
	return
}

func (d *Cross) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind()}
}

// Random samples n points uniformly over the unit disk by inverse-CDF
// sampling in polar coordinates (sqrt(r) for area-uniform radius),
// using gosl/rnd for the two independent draws per point.
type Random struct {
	Seed int64
}

func NewRandom(seed int64) *Random { return &Random{Seed: seed} }

func (d *Random) Kind() string { return "random" }

func (d *Random) Generate(n int, vx, vy float64) (px, py []float64) {
	rnd.Init(int(d.Seed))
	px = make([]float64, n)
	py = make([]float64, n)
	for i := 0; i < n; i++ {
		r := math.Sqrt(rnd.Float64(0, 1))
		theta := rnd.Float64(0, 2*math.Pi)
		px[i] = r * math.Cos(theta) * (1 - vx)
		py[i] = r * math.Sin(theta) * (1 - vy)
	}
	return
}

func (d *Random) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind(), "seed": float64(d.Seed)}
}
