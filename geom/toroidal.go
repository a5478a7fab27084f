package geom

import "math"

// Toroidal rotates a conic+even-polynomial profile in the Y-Z plane
// around an axis parallel to Y, offset by RadiusRotation along Z
// (Zemax toroidal convention), grounded on
// original_source/optiland/geometries/toroidal.py.
type Toroidal struct {
	RadiusRotation float64 // R: X-Z curvature radius at the vertex
	RadiusYZ       float64 // base Y-Z radius
	Conic          float64 // conic constant of the Y-Z curve
	CoeffsPolyY    []float64 // CoeffsPolyY[i] multiplies y^(2*(i+1))
	Tol            float64
	MaxIter        int
}

func NewToroidal(radiusRotation, radiusYZ, conic float64, coeffsPolyY []float64) *Toroidal {
	return &Toroidal{RadiusRotation: radiusRotation, RadiusYZ: radiusYZ, Conic: conic,
		CoeffsPolyY: coeffsPolyY, Tol: 1e-10, MaxIter: 100}
}

func (s *Toroidal) Kind() string { return "toroidal" }

func (s *Toroidal) curvatureYZ() float64 {
	if math.IsInf(s.RadiusYZ, 0) || s.RadiusYZ == 0 {
		return 0
	}
	return 1 / s.RadiusYZ
}

// zy is the base Y-Z profile sag.
func (s *Toroidal) zy(y float64) float64 {
	y2 := y * y
	z := 0.0
	if c := s.curvatureYZ(); c != 0 {
		k := s.Conic
		root := 1 - (1+k)*c*c*y2
		if root < 0 {
			root = 0
		}
		denom := 1 + math.Sqrt(root)
		if math.Abs(denom) < 1e-14 {
			denom = 1e-14
		}
		z = c * y2 / denom
	}
	if len(s.CoeffsPolyY) > 0 {
		p := y2
		for _, a := range s.CoeffsPolyY {
			z += a * p
			p *= y2
		}
	}
	return z
}

// zyDeriv is dz_y/dy.
func (s *Toroidal) zyDeriv(y float64) float64 {
	y2 := y * y
	d := 0.0
	if c := s.curvatureYZ(); c != 0 {
		k := s.Conic
		root := 1 - (1+k)*c*c*y2
		if root < 1e-14 {
			root = 1e-14
		}
		sq := math.Sqrt(root)
		if math.Abs(sq) < 1e-14 {
			sq = 1e-14
		}
		d = c * y / sq
	}
	if len(s.CoeffsPolyY) > 0 {
		yp := y
		for i, a := range s.CoeffsPolyY {
			pc := 2.0 * float64(i+1)
			d += a * pc * yp
			yp *= y2
		}
	}
	return d
}

func (s *Toroidal) Sag(x, y []float64, out []float64) {
	R := s.RadiusRotation
	for i := range x {
		zy := s.zy(y[i])
		if math.IsInf(R, 0) {
			out[i] = zy
			continue
		}
		inside := (R-zy)*(R-zy) - x[i]*x[i]
		if inside < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = R - math.Sqrt(inside)
	}
}

func (s *Toroidal) Normal(x, y []float64, nx, ny, nz []float64) {
	R := s.RadiusRotation
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		zy := s.zy(y[i])
		dzy := s.zyDeriv(y[i])
		if math.IsInf(R, 0) {
			dzdx[i] = 0
			dzdy[i] = dzy
			continue
		}
		inside := (R-zy)*(R-zy) - x[i]*x[i]
		if inside < 0 {
			dzdx[i] = 0
			dzdy[i] = 0
			nx[i], ny[i], nz[i] = 0, 0, -1
			continue
		}
		sq := math.Sqrt(inside)
		if sq < 1e-14 {
			sq = 1e-14
		}
		dzdx[i] = x[i] / sq
		dzdy[i] = (R - zy) * dzy / sq
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *Toroidal) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.RadiusRotation, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *Toroidal) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius_rotation": s.RadiusRotation, "radius_yz": s.RadiusYZ,
		"conic": s.Conic, "coeffs_poly_y": s.CoeffsPolyY, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func toroidalFromMap(m map[string]interface{}) (Surface, error) {
	s := NewToroidal(mgetf(m, "radius_rotation", math.Inf(1)), mgetf(m, "radius_yz", math.Inf(1)),
		mgetf(m, "conic", 0), mgetfSlice(m, "coeffs_poly_y"))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
