package geom

import "math"

// Biconic implements spec.md §4.2's biconic sag: independent conic
// profiles in x and y, grounded on
// original_source/optiland/geometries/biconic.py.
type Biconic struct {
	RadiusX, RadiusY float64
	ConicX, ConicY   float64
	Tol              float64
	MaxIter          int
}

func NewBiconic(rx, ry, kx, ky float64) *Biconic {
	return &Biconic{RadiusX: rx, RadiusY: ry, ConicX: kx, ConicY: ky, Tol: 1e-10, MaxIter: 100}
}

func (s *Biconic) Kind() string { return "biconic" }

func curv(r float64) float64 {
	if math.IsInf(r, 0) || r == 0 {
		return 0
	}
	return 1 / r
}

func (s *Biconic) Sag(x, y []float64, out []float64) {
	cx, cy := curv(s.RadiusX), curv(s.RadiusY)
	for i := range x {
		zx := 0.0
		if cx != 0 {
			zx = conicSag(cx, s.ConicX, x[i]*x[i])
		}
		zy := 0.0
		if cy != 0 {
			zy = conicSag(cy, s.ConicY, y[i]*y[i])
		}
		out[i] = zx + zy
	}
}

func (s *Biconic) Normal(x, y []float64, nx, ny, nz []float64) {
	cx, cy := curv(s.RadiusX), curv(s.RadiusY)
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		if cx != 0 {
			dzdx[i] = conicSagDerivR2(cx, s.ConicX, x[i]*x[i]) * 2 * x[i]
		}
		if cy != 0 {
			dzdy[i] = conicSagDerivR2(cy, s.ConicY, y[i]*y[i]) * 2 * y[i]
		}
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *Biconic) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.RadiusX, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *Biconic) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius_x": s.RadiusX, "radius_y": s.RadiusY,
		"conic_x": s.ConicX, "conic_y": s.ConicY, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func biconicFromMap(m map[string]interface{}) (Surface, error) {
	s := NewBiconic(mgetf(m, "radius_x", math.Inf(1)), mgetf(m, "radius_y", math.Inf(1)),
		mgetf(m, "conic_x", 0), mgetf(m, "conic_y", 0))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
