// Package polarization implements spec.md §4.11's declared interface
// boundary: per-surface Jones matrix transport for refraction and
// reflection, grounded on original_source/optiland/polarization.py's use
// of a per-ray Jones matrix (rays.p) at each traced surface. The
// per-surface Fresnel amplitude coefficients themselves are standard
// optics (Hecht/Born & Wolf); aggregating per-ray Jones states into a
// pupil map (JonesPupil in the source) is delegated per spec.md §1
// Non-goals — this package stops at the single-surface transport matrix
// consumed by raytrace.Batch.Jones.
package polarization

import "math/cmplx"

// JonesFresnel returns the 2x2 Jones matrix (s/p basis) for a ray
// crossing an interface from index n1 to n2, given the cosines of the
// incidence and transmission angles. Row/column order is [s, p]; with
// reflect false this is the Fresnel transmission matrix (ts, tp), with
// reflect true the Fresnel reflection matrix (rs, rp) computed from the
// same n1, n2 and cosines.
func JonesFresnel(n1, n2, cosThetaI, cosThetaT float64, reflect bool) [2][2]complex128 {
	if reflect {
		rs := (n1*cosThetaI - n2*cosThetaT) / (n1*cosThetaI + n2*cosThetaT)
		rp := (n2*cosThetaI - n1*cosThetaT) / (n2*cosThetaI + n1*cosThetaT)
		return [2][2]complex128{
			{complex(rs, 0), 0},
			{0, complex(rp, 0)},
		}
	}
	ts := 2 * n1 * cosThetaI / (n1*cosThetaI + n2*cosThetaT)
	tp := 2 * n1 * cosThetaI / (n2*cosThetaI + n1*cosThetaT)
	return [2][2]complex128{
		{complex(ts, 0), 0},
		{0, complex(tp, 0)},
	}
}

// Identity is the no-op Jones transport used for paraxial elements and
// any surface where polarization tracking is disabled.
var Identity = [2][2]complex128{
	{1, 0},
	{0, 1},
}

// Mul composes two Jones matrices in application order: ApplyThenB
// corresponds to matrix product b*a (b applied after a).
func Mul(a, b [2][2]complex128) [2][2]complex128 {
	var out [2][2]complex128
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = b[i][0]*a[0][j] + b[i][1]*a[1][j]
		}
	}
	return out
}

// Intensity returns the transmittance/reflectance implied by a Jones
// matrix for unpolarized incident light: the mean of the two diagonal
// intensity coefficients, |Jss|^2 and |Jpp|^2.
func Intensity(j [2][2]complex128) float64 {
	return 0.5 * (cmplx.Abs(j[0][0])*cmplx.Abs(j[0][0]) + cmplx.Abs(j[1][1])*cmplx.Abs(j[1][1]))
}
