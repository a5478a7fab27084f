package geom

import "math"

// Chebyshev2D is standard + Σᵢⱼ Cᵢⱼ Tᵢ(x/Nx) Tⱼ(y/Ny) (spec.md §4.2
// table), grounded on
// original_source/optiland/geometries/chebyshev.py. Points outside the
// normalization domain ([-1,1] in both reduced coordinates) produce NaN
// sag, per spec.md §4.2/§7 (InvalidGeometryInput).
type Chebyshev2D struct {
	Radius        float64
	Conic         float64
	Coeffs        [][]float64 // Coeffs[i][j] multiplies T_i(x/NormX) T_j(y/NormY)
	NormX, NormY  float64
	Tol           float64
	MaxIter       int
}

func NewChebyshev2D(radius, conic float64, coeffs [][]float64, normX, normY float64) *Chebyshev2D {
	return &Chebyshev2D{Radius: radius, Conic: conic, Coeffs: coeffs, NormX: normX, NormY: normY, Tol: 1e-10, MaxIter: 100}
}

func (s *Chebyshev2D) Kind() string { return "chebyshev" }

func (s *Chebyshev2D) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

// chebyshevT evaluates T_0..T_maxN(x) via the standard recurrence
// T0=1, T1=x, T_n=2x T_(n-1) - T_(n-2).
func chebyshevT(x float64, maxN int) []float64 {
	t := make([]float64, maxN+1)
	if maxN >= 0 {
		t[0] = 1
	}
	if maxN >= 1 {
		t[1] = x
	}
	for n := 2; n <= maxN; n++ {
		t[n] = 2*x*t[n-1] - t[n-2]
	}
	return t
}

// chebyshevU evaluates the second-kind polynomials U_0..U_maxN(x),
// needed for dT_n/dx = n*U_(n-1)(x).
func chebyshevU(x float64, maxN int) []float64 {
	u := make([]float64, maxN+1)
	if maxN >= 0 {
		u[0] = 1
	}
	if maxN >= 1 {
		u[1] = 2 * x
	}
	for n := 2; n <= maxN; n++ {
		u[n] = 2*x*u[n-1] - u[n-2]
	}
	return u
}

func (s *Chebyshev2D) maxDegrees() (int, int) {
	maxI, maxJ := 0, 0
	for i := range s.Coeffs {
		if i > maxI {
			maxI = i
		}
		for j := range s.Coeffs[i] {
			if j > maxJ {
				maxJ = j
			}
		}
	}
	return maxI, maxJ
}

func (s *Chebyshev2D) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	maxI, maxJ := s.maxDegrees()
	for p := range x {
		xn := x[p] / s.NormX
		yn := y[p] / s.NormY
		if math.Abs(xn) > 1 || math.Abs(yn) > 1 {
			out[p] = math.NaN()
			continue
		}
		r2 := x[p]*x[p] + y[p]*y[p]
		z := conicSag(c, s.Conic, r2)
		tx := chebyshevT(xn, maxI)
		ty := chebyshevT(yn, maxJ)
		for i := range s.Coeffs {
			for j, cij := range s.Coeffs[i] {
				z += cij * tx[i] * ty[j]
			}
		}
		out[p] = z
	}
}

func (s *Chebyshev2D) Normal(x, y []float64, nx, ny, nz []float64) {
	c := s.curvature()
	maxI, maxJ := s.maxDegrees()
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for p := 0; p < n; p++ {
		r2 := x[p]*x[p] + y[p]*y[p]
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[p] = d * 2 * x[p]
		dzdy[p] = d * 2 * y[p]

		xn := x[p] / s.NormX
		yn := y[p] / s.NormY
		tx := chebyshevT(xn, maxI)
		ty := chebyshevT(yn, maxJ)
		ux := chebyshevU(xn, maxI)
		uy := chebyshevU(yn, maxJ)
		for i := range s.Coeffs {
			for j, cij := range s.Coeffs[i] {
				if i >= 1 {
					dTdx := float64(i) * ux[i-1] / s.NormX
					dzdx[p] += cij * dTdx * ty[j]
				}
				if j >= 1 {
					dTdy := float64(j) * uy[j-1] / s.NormY
					dzdy[p] += cij * tx[i] * dTdy
				}
			}
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *Chebyshev2D) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *Chebyshev2D) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "norm_x": s.NormX, "norm_y": s.NormY,
		"tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func chebyshevFromMap(m map[string]interface{}) (Surface, error) {
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
	s := NewChebyshev2D(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0), coeffs,
		mgetf(m, "norm_x", 1), mgetf(m, "norm_y", 1))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
