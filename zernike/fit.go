package zernike

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Fit least-squares fits a Zernike Set of the requested convention and
// term count to scattered (x,y,z) wavefront samples. The source
// (ZernikeFit._fit) calls scipy's nonlinear least_squares on an objective
// that is linear in the coefficients; since each term's coefficient
// enters the model linearly, this solves the equivalent normal-equations
// system directly via gosl/la instead of an iterative nonlinear solve.
type Fit struct {
	Set *Set
}

// NewFit builds the design matrix A (one row per sample, one column per
// Zernike term) and solves A^T A c = A^T z for the coefficient vector.
func NewFit(x, y, z []float64, kind Indexing, numTerms int) (*Fit, error) {
	base, err := New(kind, make([]float64, numTerms))
	if err != nil {
		return nil, err
	}
	n := len(z)
	m := numTerms

	ata := la.MatAlloc(m, m)
	atb := make([]float64, m)
	row := make([]float64, m)
	for p := 0; p < n; p++ {
		r := math.Hypot(x[p], y[p])
		phi := math.Atan2(y[p], x[p])
		for j := 0; j < m; j++ {
			idx := base.indices[j]
			row[j] = normConstant(kind, idx.n, idx.m) * radialTerm(idx.n, idx.m, r) * azimuthalTerm(idx.m, phi)
		}
		for i := 0; i < m; i++ {
			atb[i] += row[i] * z[p]
			for j := 0; j < m; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}

	inv := la.MatAlloc(m, m)
	la.MatInv(inv, ata, 1e-14)
	coeffs := make([]float64, m)
	la.MatVecMul(coeffs, 1, inv, atb)

	set, err := New(kind, coeffs)
	if err != nil {
		return nil, err
	}
	return &Fit{Set: set}, nil
}

// Residual returns z_fit - z at each sample, the Go analogue of
// ZernikeFit.view_residual's underlying computation (minus the plotting).
func (f *Fit) Residual(x, y, z []float64) []float64 {
	res := make([]float64, len(z))
	for i := range z {
		r := math.Hypot(x[i], y[i])
		phi := math.Atan2(y[i], x[i])
		res[i] = f.Set.Eval(r, phi) - z[i]
	}
	return res
}
