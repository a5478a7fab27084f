// Package zernike implements the OSA/ANSI Standard, Fringe, and Noll
// Zernike polynomial families used to represent wavefront aberrations,
// grounded on original_source/optiland/zernike/zernike.py.
package zernike

import (
	"math"
	"sort"

	"github.com/cpmech/optigo/errs"
)

// Indexing selects the (n,m) ordering convention for a coefficient vector.
type Indexing int

const (
	Standard Indexing = iota
	Fringe
	Noll
)

func (k Indexing) String() string {
	switch k {
	case Fringe:
		return "fringe"
	case Noll:
		return "noll"
	default:
		return "standard"
	}
}

// nm is a single (radial order, azimuthal order) index pair.
type nm struct{ n, m int }

// Set evaluates a Zernike polynomial series of a given indexing convention
// against a coefficient vector, mirroring ZernikeStandard/Fringe/Noll.
type Set struct {
	Kind    Indexing
	Coeffs  []float64
	indices []nm
}

// New builds a Set with its full index table (up to 120 terms, matching
// the source's cap) for the requested convention.
func New(kind Indexing, coeffs []float64) (*Set, error) {
	if len(coeffs) > 120 {
		return nil, errs.New(errs.InvalidConfiguration, "zernike: number of coefficients limited to 120, got %d", len(coeffs))
	}
	s := &Set{Kind: kind, Coeffs: append([]float64(nil), coeffs...)}
	switch kind {
	case Standard:
		s.indices = generateStandardIndices(15)
	case Fringe:
		s.indices = generateFringeIndices()
	case Noll:
		s.indices = generateNollIndices()
	default:
		return nil, errs.New(errs.InvalidConfiguration, "zernike: unknown indexing convention %d", kind)
	}
	return s, nil
}

// SetCoeff assigns coeffs[i] (growing the backing slice if needed), the
// idiomatic substitute for assigning into the source's mutable coeffs list
// from a solve loop (spec.md's Open Question on coefficient updates: this
// is purely positional, matching the source's ZernikeFit._objective).
func (s *Set) SetCoeff(i int, v float64) {
	for len(s.Coeffs) <= i {
		s.Coeffs = append(s.Coeffs, 0)
	}
	s.Coeffs[i] = v
}

func normConstant(kind Indexing, n, m int) float64 {
	switch kind {
	case Fringe:
		return 1
	case Noll:
		if m == 0 {
			return math.Sqrt(float64(n + 1))
		}
		return math.Sqrt(float64(2*n + 2))
	default: // Standard
		if m == 0 {
			return math.Sqrt(float64(n + 1))
		}
		return math.Sqrt(float64(2*n + 2))
	}
}

func radialTerm(n, m int, r float64) float64 {
	am := m
	if am < 0 {
		am = -am
	}
	sMax := (n-am)/2 + 1
	v := 0.0
	for k := 0; k < sMax; k++ {
		num := factorial(n - k)
		den := factorial(k) * factorial((n+am)/2-k) * factorial((n-am)/2-k)
		sign := 1.0
		if k%2 == 1 {
			sign = -1
		}
		v += sign * num / den * math.Pow(r, float64(n-2*k))
	}
	return v
}

func azimuthalTerm(m int, phi float64) float64 {
	if m >= 0 {
		return math.Cos(float64(m) * phi)
	}
	return math.Sin(float64(-m) * phi)
}

func factorial(n int) float64 {
	if n <= 1 {
		return 1
	}
	v := 1.0
	for k := 2; k <= n; k++ {
		v *= float64(k)
	}
	return v
}

// Term evaluates the i-th polynomial term (coefficient times normalized
// radial*azimuthal factor) at (r,phi).
func (s *Set) Term(i int, r, phi float64) float64 {
	if i >= len(s.indices) || i >= len(s.Coeffs) {
		return 0
	}
	idx := s.indices[i]
	return s.Coeffs[i] * normConstant(s.Kind, idx.n, idx.m) * radialTerm(idx.n, idx.m, r) * azimuthalTerm(idx.m, phi)
}

// Eval sums every term, i.e. the full Zernike polynomial value at (r,phi).
func (s *Set) Eval(r, phi float64) float64 {
	n := len(s.Coeffs)
	if n > len(s.indices) {
		n = len(s.indices)
	}
	v := 0.0
	for i := 0; i < n; i++ {
		v += s.Term(i, r, phi)
	}
	return v
}

// NumTerms reports the size of the index table for this convention.
func (s *Set) NumTerms() int { return len(s.indices) }

func generateStandardIndices(maxN int) []nm {
	var idx []nm
	for n := 0; n < maxN; n++ {
		for m := -n; m <= n; m++ {
			if (n-m)%2 == 0 {
				idx = append(idx, nm{n, m})
			}
		}
	}
	return idx
}

func generateFringeIndices() []nm {
	type entry struct {
		num int
		idx nm
	}
	var entries []entry
	for n := 0; n < 20; n++ {
		for m := -n; m <= n; m++ {
			if (n-m)%2 != 0 {
				continue
			}
			am := m
			if am < 0 {
				am = -am
			}
			sign := 1
			if m > 0 {
				sign = -1
			} else if m == 0 {
				sign = 0
			}
			num := int(math.Pow(1+float64(n+am)/2, 2)) - 2*am + (1-sign)/2
			entries = append(entries, entry{num, nm{n, m}})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].num < entries[j].num })
	idx := make([]nm, 0, 120)
	for i, e := range entries {
		if i >= 120 {
			break
		}
		idx = append(idx, e.idx)
	}
	return idx
}

func generateNollIndices() []nm {
	type entry struct {
		num float64
		idx nm
	}
	var entries []entry
	for n := 0; n < 15; n++ {
		for m := -n; m <= n; m++ {
			if (n-m)%2 != 0 {
				continue
			}
			am := m
			if am < 0 {
				am = -am
			}
			mod := n % 4
			var c float64
			switch {
			case (m > 0 && mod <= 1) || (m < 0 && mod >= 2):
				c = 0
			case (m >= 0 && mod >= 2) || (m <= 0 && mod <= 1):
				c = 1
			}
			num := float64(n*(n+1))/2 + float64(am) + c
			entries = append(entries, entry{num, nm{n, m}})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].num < entries[j].num })
	idx := make([]nm, len(entries))
	for i, e := range entries {
		idx[i] = e.idx
	}
	return idx
}
