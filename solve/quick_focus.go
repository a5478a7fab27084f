package solve

// QuickFocus moves the last surface (the image plane) to the axial
// position that minimizes the RMS spot size of a traced ray fan, by
// solving the quadratic each ray's transverse distance from the axis
// follows as a function of propagation distance and averaging the
// per-ray optimum (QuickFocusSolve).
type QuickFocus struct{}

func (*QuickFocus) Kind() string { return "quick_focus" }

func (s *QuickFocus) Apply(optic Optic) error {
	x, y, z, L, M, N := optic.QuickFocusSpot(optic.PrimaryWavelength())
	sum := 0.0
	count := 0
	for i := range x {
		A := L[i]*L[i] + M[i]*M[i]
		if A == 0 {
			continue
		}
		B := L[i]*x[i] + M[i]*y[i]
		tOpt := -B / A
		sum += z[i] + tOpt*N[i]
		count++
	}
	if count == 0 {
		return nil
	}
	zFocus := sum / float64(count)
	n := optic.NumSurfaces()
	optic.SetSurfaceZ(n-1, zFocus)
	return nil
}

func (s *QuickFocus) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": s.Kind()}
}
