package geom

import "math"

// Standard is the sphere/conic surface, the only variant with a
// closed-form intersection (spec.md §4.2): sag = c*r²/(1+sqrt(1-(1+k)c²r²)).
type Standard struct {
	Radius float64 // R; curvature c = 1/R, R=+Inf for a flat surface
	Conic  float64 // k
}

func NewStandard(radius, conic float64) *Standard {
	return &Standard{Radius: radius, Conic: conic}
}

func (s *Standard) Kind() string { return "standard" }

func (s *Standard) curvature() float64 {
	if math.IsInf(s.Radius, 0) {
		return 0
	}
	return 1 / s.Radius
}

func (s *Standard) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for i := range x {
		r2 := x[i]*x[i] + y[i]*y[i]
		out[i] = conicSag(c, s.Conic, r2)
	}
}

func (s *Standard) Normal(x, y []float64, nx, ny, nz []float64) {
	c := s.curvature()
	n := len(x)
	dzdx := make([]float64, n)
	dzdy := make([]float64, n)
	for i := 0; i < n; i++ {
		r2 := x[i]*x[i] + y[i]*y[i]
		d := conicSagDerivR2(c, s.Conic, r2)
		dzdx[i] = d * 2 * x[i]
		dzdy[i] = d * 2 * y[i]
	}
	normalFromPartials(dzdx, dzdy, nx, ny, nz)
}

func (s *Standard) Distance(r RaySlice, out []float64, dead []bool) {
	closedFormConicDistance(s.Radius, s.Conic, r, out, dead)
}

func (s *Standard) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
	}
}

func standardFromMap(m map[string]interface{}) (Surface, error) {
	return NewStandard(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0)), nil
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func mgetfSlice(m map[string]interface{}, key string) []float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case []float64:
		return s
	case []interface{}:
		out := make([]float64, len(s))
		for i, e := range s {
			if f, ok := e.(float64); ok {
				out[i] = f
			}
		}
		return out
	}
	return nil
}
