// Package material implements the external material-provider interface
// of spec.md §6: a pure refractive_index(wavelength) callable, plus a
// small built-in catalog so the core is runnable without an external
// YAML glass database. The catalog is read-only after construction
// (spec.md §5) — refractive-index lookups are pure functions of
// wavelength.
package material

import (
	"math"

	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/optigo/errs"
)

// Provider is the core's only dependency on glass data (spec.md §6).
// Implementations may load YAML/CSV dispersion data; the core does not
// care how RefractiveIndex/AbbeNumber are computed.
type Provider interface {
	RefractiveIndex(name string, wavelengthUm float64) (float64, error)
	AbbeNumber(name string) (float64, error)
}

// Sellmeier is a 3-term Sellmeier dispersion model (n²-1 = Σ Bᵢλ²/(λ²-Cᵢ),
// λ in micrometers), grounded on original_source/material.py's dispersion
// accessor (that file's "formula 1" branch is reproduced here using the
// standard three-term Sellmeier convention rather than the source's
// literal — and buggy — double-counted C[0] term).
type Sellmeier struct {
	Name   string
	Prms   fun.Prms // named B1,C1,B2,C2,B3,C3 coefficients
	b1, c1 float64
	b2, c2 float64
	b3, c3 float64
}

// NewSellmeier builds a Sellmeier glass entry from named parameters,
// mirroring msolid.GetPrms()'s fun.Prms idiom for material-model
// coefficients.
func NewSellmeier(name string, b1, c1, b2, c2, b3, c3 float64) *Sellmeier {
	prms := fun.Prms{
		&fun.Prm{N: "B1", V: b1}, &fun.Prm{N: "C1", V: c1},
		&fun.Prm{N: "B2", V: b2}, &fun.Prm{N: "C2", V: c2},
		&fun.Prm{N: "B3", V: b3}, &fun.Prm{N: "C3", V: c3},
	}
	return &Sellmeier{Name: name, Prms: prms, b1: b1, c1: c1, b2: b2, c2: c2, b3: b3, c3: c3}
}

func (s *Sellmeier) index(wavelengthUm float64) float64 {
	l2 := wavelengthUm * wavelengthUm
	n2 := 1.0 +
		s.b1*l2/(l2-s.c1) +
		s.b2*l2/(l2-s.c2) +
		s.b3*l2/(l2-s.c3)
	return math.Sqrt(n2)
}

// Catalog is a read-only, name-keyed set of glasses plus the "air" and
// "mirror" pseudo-materials, implementing Provider.
type Catalog struct {
	glasses map[string]*Sellmeier
}

// NewCatalog returns a catalog pre-populated with air, mirror, and a
// handful of commonly used named glasses (Schott-style Sellmeier
// coefficients), sufficient to run the worked examples of spec.md §8.
func NewCatalog() *Catalog {
	c := &Catalog{glasses: make(map[string]*Sellmeier)}
	// N-BK7 coefficients (Schott datasheet, public domain constants).
	c.Add(NewSellmeier("N-BK7", 1.03961212, 0.00600069867, 0.231792344, 0.0200179144, 1.01046945, 103.560653))
	// N-SK4 (reverse telephoto / triplet reference lenses).
	c.Add(NewSellmeier("N-SK4", 1.32993073, 0.00693497209, 0.228542996, 0.0245693273, 1.28865424, 88.3364740))
	// N-SF8 approximated as J-F8 equivalent dense flint.
	c.Add(NewSellmeier("J-F8", 1.40566946, 0.0100898929, 0.296834248, 0.0468479780, 1.44139452, 100.886364))
	return c
}

// Add inserts or replaces a glass entry.
func (c *Catalog) Add(g *Sellmeier) { c.glasses[g.Name] = g }

// RefractiveIndex implements Provider.
func (c *Catalog) RefractiveIndex(name string, wavelengthUm float64) (float64, error) {
	switch name {
	case "", "air":
		return 1.0, nil
	case "mirror":
		return -1.0, nil
	}
	g, ok := c.glasses[name]
	if !ok {
		return 0, errs.New(errs.MaterialDataMissing, "no glass data for %q", name)
	}
	if wavelengthUm <= 0 {
		return 0, errs.New(errs.MaterialDataMissing, "wavelength %v um out of catalog range for %q", wavelengthUm, name)
	}
	return g.index(wavelengthUm), nil
}

// AbbeNumber implements Provider using the standard d,F,C reference
// wavelengths (in micrometers), matching original_source/material.py's
// abbe() accessor.
func (c *Catalog) AbbeNumber(name string) (float64, error) {
	switch name {
	case "", "air", "mirror":
		return 1.0, nil
	}
	nD, err := c.RefractiveIndex(name, 0.5893)
	if err != nil {
		return 0, err
	}
	nF, err := c.RefractiveIndex(name, 0.4861)
	if err != nil {
		return 0, err
	}
	nC, err := c.RefractiveIndex(name, 0.6563)
	if err != nil {
		return 0, err
	}
	return (nD - 1) / (nF - nC), nil
}

// IndexFunc is the pure per-surface material callable of spec.md §3
// ("pre- and post-materials (refractive-index functions of
// wavelength)"): a surface stores one of these rather than a catalog
// reference, decoupling the hot ray-trace path from name lookups.
type IndexFunc func(wavelengthUm float64) (float64, error)

// Lookup binds a catalog entry to an IndexFunc for use on a surface.
func (c *Catalog) Lookup(name string) IndexFunc {
	return func(wavelengthUm float64) (float64, error) {
		return c.RefractiveIndex(name, wavelengthUm)
	}
}

// Air and Mirror are the two pseudo-materials every surface group uses
// for its object- and image-space gaps and for reflective elements.
func Air(wavelengthUm float64) (float64, error) { return 1.0, nil }

func Mirror(wavelengthUm float64) (float64, error) { return -1.0, nil }

// Fixed returns an IndexFunc with a constant index, for idealized
// elements and the worked examples of spec.md §8 (e.g. n(550nm)=1.5168).
func Fixed(index float64) IndexFunc {
	return func(float64) (float64, error) { return index, nil }
}

// Constant is a fixed-index Provider entry useful for idealized
// elements and tests (e.g. the spec.md §8 singlet with n(550nm)=1.5168).
type Constant struct {
	Name  string
	Index float64
	Abbe  float64
}

func (c Constant) RefractiveIndex(name string, wavelengthUm float64) (float64, error) {
	return c.Index, nil
}

func (c Constant) AbbeNumber(name string) (float64, error) { return c.Abbe, nil }
