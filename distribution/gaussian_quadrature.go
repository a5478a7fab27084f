package distribution

import "math"

// GaussianQuadrature samples 1-6 rings of pupil points at the radii
// and angles (3 azimuths, or 1 if IsSymmetric) tabulated by Forbes'
// Gaussian-quadrature pupil integration scheme (G. W. Forbes, "Optical
// system assessment for design: numerical ray tracing in the Gaussian
// pupil," JOSA A 5, 1943-1956 (1988)). Radii and weights are ported
// verbatim from original_source/optiland/distribution.py's
// GaussianQuadrature class — they are tabulated constants of the
// method, not derived quantities, so they carry over as literal data.
type GaussianQuadrature struct {
	IsSymmetric bool
}

func NewGaussianQuadrature(isSymmetric bool) *GaussianQuadrature {
	return &GaussianQuadrature{IsSymmetric: isSymmetric}
}

func (d *GaussianQuadrature) Kind() string { return "gaussian_quadrature" }

var gaussQuadRadii = map[int][]float64{
	1: {0.70711},
	2: {0.45970, 0.88807},
	3: {0.33571, 0.70711, 0.94196},
	4: {0.26350, 0.57446, 0.81853, 0.96466},
	5: {0.21659, 0.48038, 0.70711, 0.87706, 0.97626},
	6: {0.18375, 0.41158, 0.61700, 0.78696, 0.91138, 0.98300},
}

var gaussQuadWeights = map[int][]float64{
	1: {0.5},
	2: {0.25, 0.25},
	3: {0.13889, 0.22222, 0.13889},
	4: {0.08696, 0.16304, 0.16304, 0.08696},
	5: {0.059231, 0.11966, 0.14222, 0.11966, 0.059231},
	6: {0.04283, 0.09019, 0.11698, 0.11698, 0.09019, 0.04283},
}

func (d *GaussianQuadrature) angles() []float64 {
	if d.IsSymmetric {
		return []float64{0.0}
	}
	return []float64{-1.04719755, 0.0, 1.04719755}
}

// Generate treats numRings as the ring count (1-6); each ring emits
// one point per azimuth in angles().
func (d *GaussianQuadrature) Generate(numRings int, vx, vy float64) (px, py []float64) {
	radii, ok := gaussQuadRadii[numRings]
	if !ok {
		return nil, nil
	}
	theta := d.angles()
	for _, r := range radii {
		for _, t := range theta {
			px = append(px, r*math.Cos(t))
			py = append(py, r*math.Sin(t))
		}
	}
	scale(px, 1-vx)
	scale(py, 1-vy)
	return
}

// Weights returns one integration weight per ring (length numRings,
// NOT per point — Generate emits len(angles()) points per ring, all
// sharing that ring's weight), scaled ×6 when IsSymmetric or ×2
// otherwise, per the source's get_weights.
func (d *GaussianQuadrature) Weights(numRings int) []float64 {
	base, ok := gaussQuadWeights[numRings]
	if !ok {
		return nil
	}
	factor := 2.0
	if d.IsSymmetric {
		factor = 6.0
	}
	out := make([]float64, len(base))
	for i, w := range base {
		out[i] = w * factor
	}
	return out
}

func (d *GaussianQuadrature) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind(), "is_symmetric": d.IsSymmetric}
}
