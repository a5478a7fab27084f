package geom

import "math"

// NURBS implements a tensor-product rational B-spline departure surface:
// a grid of weighted 3-D control points evaluated via the Cox-de Boor
// basis recursion, grounded on
// original_source/optiland/geometries/nurbs/{nurbs_geometry,nurbs_basis_functions}.py.
// The 2-D (u,v) parameter search that inverts (x,y) -> (u,v) is a
// simplified 2-variable Newton iteration (finite-difference Jacobian)
// rather than the source's general oblique-ray plane-intersection
// formulation, since sag/Normal only ever need the axis-aligned (rays
// along Z) special case; Distance runs the shared Newton-Raphson search
// bootstrapped from the flat z=0 plane (an infinite radius).
type NURBS struct {
	// ControlPoints[i][j] is the (x,y,z) control point at u-index i, v-index j.
	ControlPoints [][][3]float64
	Weights       [][]float64
	UDegree       int
	VDegree       int
	UKnots        []float64
	VKnots        []float64
	Tol           float64
	MaxIter       int
}

func NewNURBS(cp [][][3]float64, w [][]float64, uDeg, vDeg int, uKnots, vKnots []float64) *NURBS {
	return &NURBS{ControlPoints: cp, Weights: w, UDegree: uDeg, VDegree: vDeg,
		UKnots: uKnots, VKnots: vKnots, Tol: 1e-10, MaxIter: 100}
}

func (s *NURBS) Kind() string { return "nurbs" }

// basisPolynomials evaluates the n+1 degree-p basis functions at u via the
// Cox-de Boor recursion (equation 2.5 of The NURBS Book).
func basisPolynomials(n, p int, knots []float64, u float64) []float64 {
	m := n + p + 1
	// N[k][i] for the current recursion order k
	N := make([]float64, m)
	for i := 0; i < m; i++ {
		if (u >= knots[i] && u < knots[i+1]) || (u == knots[len(knots)-1] && i == n) {
			N[i] = 1
		}
	}
	for k := 1; k <= p; k++ {
		m--
		next := make([]float64, m)
		for i := 0; i < m; i++ {
			var n1, n2 float64
			if knots[i+k]-knots[i] != 0 {
				n1 = (u - knots[i]) / (knots[i+k] - knots[i]) * N[i]
			}
			if knots[i+k+1]-knots[i+1] != 0 {
				n2 = (knots[i+k+1] - u) / (knots[i+k+1] - knots[i+1]) * N[i+1]
			}
			next[i] = n1 + n2
		}
		N = next
	}
	return N[:n+1]
}

// evaluate returns the (x,y,z) surface point at parameter (u,v).
func (s *NURBS) evaluate(u, v float64) (float64, float64, float64) {
	nu := len(s.ControlPoints) - 1
	nv := len(s.ControlPoints[0]) - 1
	Bu := basisPolynomials(nu, s.UDegree, s.UKnots, u)
	Bv := basisPolynomials(nv, s.VDegree, s.VKnots, v)
	var sx, sy, sz, sw float64
	for i := 0; i <= nu; i++ {
		for j := 0; j <= nv; j++ {
			w := s.Weights[i][j] * Bu[i] * Bv[j]
			cp := s.ControlPoints[i][j]
			sx += w * cp[0]
			sy += w * cp[1]
			sz += w * cp[2]
			sw += w
		}
	}
	if sw == 0 {
		return sx, sy, sz
	}
	return sx / sw, sy / sw, sz / sw
}

// invert solves (x,y) = evaluate(u,v).{x,y} for (u,v) via 2-variable
// Newton iteration with a finite-difference Jacobian, clamping escapes
// back into [0,1] as the source's random re-seed does heuristically;
// here the search instead clamps, which is deterministic, and always
// starts from (u,v) = (0.5,0.5).
func (s *NURBS) invert(x, y float64) (float64, float64) {
	u, v := 0.5, 0.5
	const h = 1e-6
	for iter := 0; iter < s.MaxIter; iter++ {
		sx, sy, _ := s.evaluate(u, v)
		rx, ry := sx-x, sy-y
		if math.Abs(rx) < s.Tol && math.Abs(ry) < s.Tol {
			break
		}
		uph := math.Min(u+h, 1)
		vph := math.Min(v+h, 1)
		sxu, syu, _ := s.evaluate(uph, v)
		sxv, syv, _ := s.evaluate(u, vph)
		dxdu := (sxu - sx) / h
		dydu := (syu - sy) / h
		dxdv := (sxv - sx) / h
		dydv := (syv - sy) / h
		det := dxdu*dydv - dxdv*dydu
		if math.Abs(det) < 1e-14 {
			break
		}
		du := (rx*dydv - dxdv*ry) / det
		dv := (dxdu*ry - rx*dydu) / det
		u -= du
		v -= dv
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
	}
	return u, v
}

func (s *NURBS) Sag(x, y []float64, out []float64) {
	for i := range x {
		u, v := s.invert(x[i], y[i])
		_, _, z := s.evaluate(u, v)
		out[i] = z
	}
}

func (s *NURBS) Normal(x, y []float64, nx, ny, nz []float64) {
	forbesNumericalNormal(s.Sag, x, y, nx, ny, nz)
}

func (s *NURBS) Distance(r RaySlice, out []float64, dead []bool) {
	radius := math.Inf(1)
	newtonRaphsonDistance(radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *NURBS) ToMap() map[string]interface{} {
	cp := make([]interface{}, len(s.ControlPoints))
	for i, row := range s.ControlPoints {
		r := make([]interface{}, len(row))
		for j, p := range row {
			r[j] = []float64{p[0], p[1], p[2]}
		}
		cp[i] = r
	}
	w := make([]interface{}, len(s.Weights))
	for i, row := range s.Weights {
		w[i] = row
	}
	return map[string]interface{}{
		"type": s.Kind(), "control_points": cp, "weights": w,
		"u_degree": float64(s.UDegree), "v_degree": float64(s.VDegree),
		"u_knots": s.UKnots, "v_knots": s.VKnots, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func nurbsFromMap(m map[string]interface{}) (Surface, error) {
	var cp [][][3]float64
	if v, ok := m["control_points"].([]interface{}); ok {
		cp = make([][][3]float64, len(v))
		for i, row := range v {
			rr, _ := row.([]interface{})
			cp[i] = make([][3]float64, len(rr))
			for j, pt := range rr {
				coords := mgetfSliceRaw(pt)
				if len(coords) == 3 {
					cp[i][j] = [3]float64{coords[0], coords[1], coords[2]}
				}
			}
		}
	}
	weights := float64RowsFromMap(m["weights"])
	s := NewNURBS(cp, weights, int(mgetf(m, "u_degree", 3)), int(mgetf(m, "v_degree", 3)),
		mgetfSlice(m, "u_knots"), mgetfSlice(m, "v_knots"))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
