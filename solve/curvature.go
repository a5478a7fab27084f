package solve

import "math"

// Curvature adjusts a surface's curvature (pickup-style: the curvature
// is derived from a target marginal- or chief-ray exit angle rather than
// copied from another surface) via the paraxial refraction invariant
// n'u' - nu = -y(n'-n)c, solved for c
// (MarginalRayAngleCurvatureSolve/ChiefRayAngleCurvatureSolve).
type Curvature struct {
	SurfaceIdx  int
	Angle       float64
	UseChiefRay bool
}

func (s *Curvature) Kind() string {
	if s.UseChiefRay {
		return "curvature_chief_angle"
	}
	return "curvature_marginal_angle"
}

func (s *Curvature) Apply(optic Optic) error {
	if !s.UseChiefRay {
		return s.applyDirect(optic)
	}
	return s.applyIterative(optic)
}

func (s *Curvature) applyDirect(optic Optic) error {
	y, u := optic.MarginalRay()
	c, ok := s.solveCurvature(optic, y, u)
	if !ok {
		return nil
	}
	setRadiusFromCurvature(optic, s.SurfaceIdx, c)
	return nil
}

// applyIterative mirrors ChiefRayAngleCurvatureSolve.apply: changing the
// surface's curvature perturbs the chief ray's path through the stop, so
// the target curvature is re-derived and damped toward convergence over
// up to 50 iterations.
func (s *Curvature) applyIterative(optic Optic) error {
	const maxIter = 50
	const damping = 0.5
	const tol = 1e-5
	for iter := 0; iter < maxIter; iter++ {
		y, u := optic.ChiefRay()
		if s.SurfaceIdx < len(u) && math.Abs(u[s.SurfaceIdx]-s.Angle) < tol {
			return nil
		}
		cTarget, ok := s.solveCurvature(optic, y, u)
		if !ok {
			return nil
		}
		r, ok := optic.SurfaceRadius(s.SurfaceIdx)
		if !ok {
			return nil
		}
		cCurrent := 0.0
		if r != 0 {
			cCurrent = 1 / r
		}
		c := (1-damping)*cCurrent + damping*cTarget
		setRadiusFromCurvature(optic, s.SurfaceIdx, c)
	}
	return nil
}

func (s *Curvature) solveCurvature(optic Optic, y, u []float64) (float64, bool) {
	i := s.SurfaceIdx
	if i < 0 || i >= len(y) || i >= len(u) {
		return 0, false
	}
	uIn := u[0]
	if i > 0 {
		uIn = u[i-1]
	}
	ySurf := y[i]
	if ySurf == 0 {
		return 0, false
	}
	nPre := optic.MaterialIndexBefore(i)
	nPost := optic.MaterialIndexAfter(i)
	deltaN := nPost - nPre
	if deltaN == 0 {
		return 0, false
	}
	num := nPre*uIn - nPost*s.Angle
	den := ySurf * deltaN
	return num / den, true
}

func setRadiusFromCurvature(optic Optic, idx int, c float64) {
	if c == 0 {
		optic.SetSurfaceRadius(idx, math.Inf(1))
		return
	}
	optic.SetSurfaceRadius(idx, 1/c)
}

func (s *Curvature) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": s.Kind(), "surface_idx": float64(s.SurfaceIdx), "angle": s.Angle}
}
