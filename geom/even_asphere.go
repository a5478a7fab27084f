package geom

import "math"

// EvenAsphere is standard + Σ Cᵢ r^(2(i+1)) (spec.md §4.2 table),
// grounded on
// original_source/optiland/geometries/even_asphere.py. Coeffs[i] is the
// coefficient of r^(2*(i+1)).
type EvenAsphere struct {
	Radius   float64
	Conic    float64
	Coeffs   []float64
	Tol      float64
	MaxIter  int
}

func NewEvenAsphere(radius, conic float64, coeffs []float64) *EvenAsphere {
	return &EvenAsphere{Radius: radius, Conic: conic, Coeffs: coeffs, Tol: 1e-10, MaxIter: 100}
}

func (s *EvenAsphere) Kind() string { return "even_asphere" }

func (s *EvenAsphere) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

func (s *EvenAsphere) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for i := range x {
		r2 := x[i]*x[i] + y[i]*y[i]
		z := conicSag(c, s.Conic, r2)
		rp := r2
		for _, Ci := range s.Coeffs {
			z += Ci * rp
			rp *= r2
		}
		out[i] = z
	}
}

func (s *EvenAsphere) Normal(x, y []float64, nx, ny, nz []float64) {
	c := s.curvature()
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		r2 := x[i]*x[i] + y[i]*y[i]
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[i] = d * 2 * x[i]
		dzdy[i] = d * 2 * y[i]
		rp := 1.0
		for j, Ci := range s.Coeffs {
			dzdx[i] += 2 * float64(j+1) * x[i] * Ci * rp
			dzdy[i] += 2 * float64(j+1) * y[i] * Ci * rp
			rp *= r2
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *EvenAsphere) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *EvenAsphere) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func evenAsphereFromMap(m map[string]interface{}) (Surface, error) {
	s := NewEvenAsphere(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0), mgetfSlice(m, "coefficients"))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
