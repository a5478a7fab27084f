package geom

import "math"

// Polynomial2D is standard + Σᵢⱼ Cᵢⱼ xⁱ yʲ (spec.md §4.2 table), grounded
// on original_source/optiland/geometries/polynomial.py. Coeffs[i][j] is
// the coefficient of x^i y^j.
type Polynomial2D struct {
	Radius  float64
	Conic   float64
	Coeffs  [][]float64
	Tol     float64
	MaxIter int
}

func NewPolynomial2D(radius, conic float64, coeffs [][]float64) *Polynomial2D {
	return &Polynomial2D{Radius: radius, Conic: conic, Coeffs: coeffs, Tol: 1e-10, MaxIter: 100}
}

func (s *Polynomial2D) Kind() string { return "polynomial" }

func (s *Polynomial2D) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

func (s *Polynomial2D) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for p := range x {
		r2 := x[p]*x[p] + y[p]*y[p]
		z := conicSag(c, s.Conic, r2)
		for i := range s.Coeffs {
			xi := intPow(x[p], i)
			for j, cij := range s.Coeffs[i] {
				z += cij * xi * intPow(y[p], j)
			}
		}
		out[p] = z
	}
}

func (s *Polynomial2D) Normal(x, y []float64, nx, ny, nz []float64) {
	c := s.curvature()
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for p := 0; p < n; p++ {
		r2 := x[p]*x[p] + y[p]*y[p]
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[p] = d * 2 * x[p]
		dzdy[p] = d * 2 * y[p]
		for i := range s.Coeffs {
			for j, cij := range s.Coeffs[i] {
				if i >= 1 {
					dzdx[p] += float64(i) * cij * intPow(x[p], i-1) * intPow(y[p], j)
				}
				if j >= 1 {
					dzdy[p] += float64(j) * cij * intPow(x[p], i) * intPow(y[p], j-1)
				}
			}
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *Polynomial2D) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func intPow(x float64, n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Pow(x, float64(n))
}

func (s *Polynomial2D) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func polynomialFromMap(m map[string]interface{}) (Surface, error) {
	var coeffs [][]float64
	if v, ok := m["coefficients"].([]interface{}); ok {
		coeffs = make([][]float64, len(v))
		for i, row := range v {
			if rr, ok := row.([]interface{}); ok {
				coeffs[i] = make([]float64, len(rr))
				for j, e := range rr {
					if f, ok := e.(float64); ok {
						coeffs[i][j] = f
					}
				}
			}
		}
	}
	s := NewPolynomial2D(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0), coeffs)
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
