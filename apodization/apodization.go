// Package apodization implements spec.md §4.7's pupil intensity-weighting
// strategies, grounded on original_source/optiland/apodization/*.py.
//
// Each variant implements Weight(px, py) over normalized pupil
// coordinates, used to scale ray intensity during pupil sampling (never
// OPD, per the spec's apodization/OPD non-goal boundary).
package apodization

import (
	"math"

	"github.com/cpmech/optigo/errs"
)

// Apodizer is the tagged-variant interface every apodization profile
// implements, mirroring the Kind()/ToMap()/FromMap() shape of package geom.
type Apodizer interface {
	Kind() string
	Weight(px, py float64) float64
	ToMap() map[string]interface{}
}

// FromMap dispatches on the "type" discriminator, the idiomatic
// substitute for BaseApodization's from_dict registry.
func FromMap(m map[string]interface{}) (Apodizer, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case "uniform":
		return Uniform{}, nil
	case "gaussian":
		return NewGaussian(mgetf(m, "sigma", 1)), nil
	case "super_gaussian":
		return NewSuperGaussian(mgetf(m, "w", 1), mgetf(m, "n", 2)), nil
	case "tukey":
		return NewTukey(mgetf(m, "radius", 1), mgetf(m, "alpha", 0.5)), nil
	case "hann":
		return NewHann(mgetf(m, "diameter", 2)), nil
	case "cosine_squared":
		return NewCosineSquared(mgetf(m, "radius", 1)), nil
	case "polynomial":
		return NewPolynomial(mgetf(m, "radius", 1), mgetf(m, "power", 1)), nil
	}
	return nil, errs.New(errs.InvalidConfiguration, "unknown apodization type %q", kind)
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// Uniform is the degenerate all-ones apodization (UniformApodization).
type Uniform struct{}

func (Uniform) Kind() string                  { return "uniform" }
func (Uniform) Weight(px, py float64) float64 { return 1 }
func (Uniform) ToMap() map[string]interface{} { return map[string]interface{}{"type": "uniform"} }

// Gaussian is a Gaussian intensity taper (GaussianApodization).
type Gaussian struct{ Sigma float64 }

func NewGaussian(sigma float64) Gaussian { return Gaussian{Sigma: sigma} }

func (Gaussian) Kind() string { return "gaussian" }

func (g Gaussian) Weight(px, py float64) float64 {
	return math.Exp(-(px*px + py*py) / (2 * g.Sigma * g.Sigma))
}

func (g Gaussian) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "gaussian", "sigma": g.Sigma}
}

// SuperGaussian generalizes Gaussian with a sharpness exponent n >= 2:
// A(r) = exp(-(r/w)^n) (SuperGaussianApodization).
type SuperGaussian struct {
	W float64
	N float64
}

func NewSuperGaussian(w, n float64) SuperGaussian { return SuperGaussian{W: w, N: n} }

func (SuperGaussian) Kind() string { return "super_gaussian" }

func (g SuperGaussian) Weight(px, py float64) float64 {
	r := math.Hypot(px, py)
	return math.Exp(-math.Pow(r/g.W, g.N))
}

func (g SuperGaussian) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "super_gaussian", "w": g.W, "n": g.N}
}

// Tukey is the tapered-cosine window: flat for r <= R(1-alpha/2), cosine
// taper to zero at r=R, zero beyond (TukeyApodization).
type Tukey struct {
	Radius float64
	Alpha  float64
}

func NewTukey(radius, alpha float64) Tukey { return Tukey{Radius: radius, Alpha: alpha} }

func (Tukey) Kind() string { return "tukey" }

func (t Tukey) Weight(px, py float64) float64 {
	r := math.Hypot(px, py)
	flatEnd := t.Radius * (1 - t.Alpha/2)
	switch {
	case r <= flatEnd:
		return 1
	case r < t.Radius:
		cosArg := math.Pi * (r - flatEnd) / (t.Radius * t.Alpha / 2)
		return 0.5 * (1 + math.Cos(cosArg))
	default:
		return 0
	}
}

func (t Tukey) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "tukey", "radius": t.Radius, "alpha": t.Alpha}
}

// Hann is the raised-cosine window over the full pupil diameter D
// (HannApodization).
type Hann struct{ Diameter float64 }

func NewHann(diameter float64) Hann { return Hann{Diameter: diameter} }

func (Hann) Kind() string { return "hann" }

func (h Hann) Weight(px, py float64) float64 {
	r := math.Hypot(px, py)
	if r >= h.Diameter/2 {
		return 0
	}
	return 0.5 * (1 + math.Cos(2*math.Pi*r/h.Diameter))
}

func (h Hann) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "hann", "diameter": h.Diameter}
}

// CosineSquared is cos^2(pi*r/(2R)) for r < R, zero beyond
// (CosineSquaredApodization).
type CosineSquared struct{ Radius float64 }

func NewCosineSquared(radius float64) CosineSquared { return CosineSquared{Radius: radius} }

func (CosineSquared) Kind() string { return "cosine_squared" }

func (c CosineSquared) Weight(px, py float64) float64 {
	r := math.Hypot(px, py)
	if r >= c.Radius {
		return 0
	}
	cosArg := math.Pi * r / (2 * c.Radius)
	return math.Cos(cosArg) * math.Cos(cosArg)
}

func (c CosineSquared) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "cosine_squared", "radius": c.Radius}
}

// Polynomial is (1-(r/R)^2)^p for r < R, zero beyond
// (PolynomialApodization); p=1 is the classic telescope taper.
type Polynomial struct {
	Radius float64
	Power  float64
}

func NewPolynomial(radius, power float64) Polynomial {
	return Polynomial{Radius: radius, Power: power}
}

func (Polynomial) Kind() string { return "polynomial" }

func (p Polynomial) Weight(px, py float64) float64 {
	r := math.Hypot(px, py)
	if r >= p.Radius {
		return 0
	}
	rn := r / p.Radius
	return math.Pow(1-rn*rn, p.Power)
}

func (p Polynomial) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "polynomial", "radius": p.Radius, "power": p.Power}
}
