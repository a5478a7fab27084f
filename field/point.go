package field

// Field is one entry in an Optic's field list: a normalized field
// coordinate (Hx,Hy) plus optional per-quadrant vignetting factors and
// a relative weight, per spec.md §3's "field list (each field a
// normalized 2-vector with optional vignetting factors)". No direct
// original_source/ file defines this exact struct (the retrieved
// optiland/fields/ tree holds only the field_types/ strategies), so the
// layout follows spec.md's data model directly together with the
// conventional Code V/Zemax meaning of upper/lower vignetting factors.
type Field struct {
	Hx, Hy             float64
	VUX, VLX, VUY, VLY float64
	Weight             float64
}

// VignettingFactors returns the (vx,vy) pupil-contraction factors a ray
// generator multiplies into the nominal pupil sample (Px,Py) before
// calling a Definition's RayOrigins, selecting the upper or lower factor
// by which side of the pupil the sample falls on.
func (f Field) VignettingFactors(px, py float64) (vx, vy float64) {
	if px >= 0 {
		vx = 1 - f.VUX
	} else {
		vx = 1 - f.VLX
	}
	if py >= 0 {
		vy = 1 - f.VUY
	} else {
		vy = 1 - f.VLY
	}
	return vx, vy
}
