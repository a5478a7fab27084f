package geom

import "math"

// OddAsphere is standard + Σ Cᵢ r^(i+1) (spec.md §4.2 table), grounded
// on original_source/optiland/geometries/odd_asphere.py. Coeffs[i] is
// the coefficient of r^(i+1).
type OddAsphere struct {
	Radius  float64
	Conic   float64
	Coeffs  []float64
	Tol     float64
	MaxIter int
}

func NewOddAsphere(radius, conic float64, coeffs []float64) *OddAsphere {
	return &OddAsphere{Radius: radius, Conic: conic, Coeffs: coeffs, Tol: 1e-10, MaxIter: 100}
}

func (s *OddAsphere) Kind() string { return "odd_asphere" }

func (s *OddAsphere) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

func (s *OddAsphere) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for i := range x {
		r2 := x[i]*x[i] + y[i]*y[i]
		r := math.Sqrt(r2)
		z := conicSag(c, s.Conic, r2)
		rp := r
		for _, Ci := range s.Coeffs {
			z += Ci * rp
			rp *= r
		}
		out[i] = z
	}
}

func (s *OddAsphere) Normal(x, y []float64, nx, ny, nz []float64) {
	c := s.curvature()
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		r2 := x[i]*x[i] + y[i]*y[i]
		r := math.Sqrt(r2)
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[i] = d * 2 * x[i]
		dzdy[i] = d * 2 * y[i]
		if r > 0 {
			rp := 1.0 // r^(i), i starting at 0 for d/dr of r^(i+1) = (i+1) r^i
			for j, Ci := range s.Coeffs {
				dr := float64(j+1) * Ci * rp
				dzdx[i] += dr * x[i] / r
				dzdy[i] += dr * y[i] / r
				rp *= r
			}
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *OddAsphere) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *OddAsphere) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func oddAsphereFromMap(m map[string]interface{}) (Surface, error) {
	s := NewOddAsphere(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0), mgetfSlice(m, "coefficients"))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
