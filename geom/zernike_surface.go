package geom

import "math"

// ZernikeSurface is a base conic plus a Fringe Zernike polynomial
// departure, grounded on
// original_source/optiland/geometries/zernike.py. Coeffs[i] is the
// coefficient of the (i+1)-th Fringe Zernike term (1-indexed in the
// source's own convention, which differs slightly from the
// University-of-Arizona fringe ordering in package zernike, so this
// surface reimplements the small n/m conversion locally rather than
// depending on that package).
type ZernikeSurface struct {
	Radius     float64
	Conic      float64
	Coeffs     []float64
	NormRadius float64
	Tol        float64
	MaxIter    int
}

func NewZernikeSurface(radius, conic float64, coeffs []float64, normRadius float64) *ZernikeSurface {
	if normRadius == 0 {
		normRadius = 1
	}
	return &ZernikeSurface{Radius: radius, Conic: conic, Coeffs: coeffs, NormRadius: normRadius, Tol: 1e-10, MaxIter: 100}
}

func (s *ZernikeSurface) Kind() string { return "zernike" }

// fringeOrder converts a 1-based Fringe Zernike index k to classical (n,m).
func fringeOrder(k int) (int, int) {
	n := int(math.Ceil((-3 + math.Sqrt(9+8*float64(k))) / 2))
	m := 2*k - n*(n+2)
	return n, m
}

func zRadialPoly(n, m int, rho float64) float64 {
	v := 0.0
	upperK := (n - m) / 2
	for k := 0; k <= upperK; k++ {
		sign := 1.0
		if k%2 == 1 {
			sign = -1
		}
		num := factorial(n - k)
		den := factorial(k) * factorial((n+m)/2-k) * factorial((n-m)/2-k)
		v += sign * (num / den) * math.Pow(rho, float64(n-2*k))
	}
	return v
}

func zRadialPolyDeriv(n, m int, rho float64) float64 {
	v := 0.0
	upperK := (n - m) / 2
	for k := 0; k <= upperK; k++ {
		sign := 1.0
		if k%2 == 1 {
			sign = -1
		}
		num := factorial(n - k)
		den := factorial(k) * factorial((n+m)/2-k) * factorial((n-m)/2-k)
		power := n - 2*k
		if power < 0 {
			continue
		}
		pt := 0.0
		if power-1 >= 0 {
			pt = math.Pow(rho, float64(power-1))
		}
		v += sign * (num / den) * float64(power) * pt
	}
	return v
}

func zernikeTerm(i int, rho, theta float64) float64 {
	n, m := fringeOrder(i)
	am := m
	if am < 0 {
		am = -am
	}
	Rnm := zRadialPoly(n, am, rho)
	switch {
	case m == 0:
		return Rnm
	case m > 0:
		return Rnm * math.Cos(float64(m)*theta)
	default:
		return Rnm * math.Sin(float64(-m)*theta)
	}
}

func zernikeTermDeriv(i int, rho, theta float64) (float64, float64) {
	n, m := fringeOrder(i)
	am := m
	if am < 0 {
		am = -am
	}
	Rnm := zRadialPoly(n, am, rho)
	dRnm := zRadialPolyDeriv(n, am, rho)
	switch {
	case m == 0:
		return dRnm, 0
	case m > 0:
		return dRnm * math.Cos(float64(m)*theta), -float64(m) * Rnm * math.Sin(float64(m)*theta)
	default:
		return dRnm * math.Sin(float64(am)*theta), float64(am) * Rnm * math.Cos(float64(am)*theta)
	}
}

func (s *ZernikeSurface) Sag(x, y []float64, out []float64) {
	for i := range x {
		xn := x[i] / s.NormRadius
		yn := y[i] / s.NormRadius
		rho := math.Hypot(xn, yn)
		if rho > 1 {
			out[i] = math.NaN()
			continue
		}
		theta := math.Atan2(yn, xn)

		r2 := x[i]*x[i] + y[i]*y[i]
		cc := 0.0
		if !math.IsInf(s.Radius, 0) {
			cc = 1 / s.Radius
		}
		z := conicSag(cc, s.Conic, r2)
		for k, c := range s.Coeffs {
			if c == 0 {
				continue
			}
			norm := math.Sqrt(2 * float64(k+1) / math.Pi)
			z += norm * c * zernikeTerm(k+1, rho, theta)
		}
		out[i] = z
	}
}

func (s *ZernikeSurface) Normal(x, y []float64, nx, ny, nz []float64) {
	c := 0.0
	if !math.IsInf(s.Radius, 0) {
		c = 1 / s.Radius
	}
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		r2 := x[i]*x[i] + y[i]*y[i]
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[i] = d * 2 * x[i]
		dzdy[i] = d * 2 * y[i]

		xn := x[i] / s.NormRadius
		yn := y[i] / s.NormRadius
		rho := math.Hypot(xn, yn)
		theta := math.Atan2(yn, xn)
		const eps = 1e-14
		drhoDx := xn / (s.NormRadius * (rho + eps))
		drhoDy := yn / (s.NormRadius * (rho + eps))
		dthetaDx := -yn / (rho*rho + eps) / s.NormRadius
		dthetaDy := xn / (rho*rho + eps) / s.NormRadius

		for k, co := range s.Coeffs {
			if co == 0 {
				continue
			}
			dZdrho, dZdtheta := zernikeTermDeriv(k+1, rho, theta)
			norm := math.Sqrt(2 * float64(k+1) / math.Pi)
			dzdx[i] += norm * co * (dZdrho*drhoDx + dZdtheta*dthetaDx)
			dzdy[i] += norm * co * (dZdrho*drhoDy + dZdtheta*dthetaDy)
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *ZernikeSurface) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *ZernikeSurface) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "norm_radius": s.NormRadius, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func zernikeSurfaceFromMap(m map[string]interface{}) (Surface, error) {
	s := NewZernikeSurface(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0),
		mgetfSlice(m, "coefficients"), mgetf(m, "norm_radius", 1))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
