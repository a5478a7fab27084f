package distribution

import "math"

// Hexapolar samples concentric hexagonal rings (6, 12, 18, ... points
// per ring) plus the center, the standard pupil-sampling layout for
// ray-fan/spot-diagram analysis. Ported from
// original_source/optiland/distribution.py's HexagonalDistribution:
// ring radii are evenly spaced from 0 to 1, and ring i carries
// 6*(i+1) points.
type Hexapolar struct{}

func NewHexapolar() *Hexapolar { return &Hexapolar{} }

func (d *Hexapolar) Kind() string { return "hexapolar" }

// Generate treats n as the number of rings, per the source's
// num_rings parameter; the returned slices start with the center
// point followed by each ring in turn.
func (d *Hexapolar) Generate(numRings int, vx, vy float64) (px, py []float64) {
	px = append(px, 0)
	py = append(py, 0)
	for i := 0; i < numRings; i++ {
		radius := float64(i+1) / float64(numRings)
		numTheta := 6 * (i + 1)
		for k := 0; k < numTheta; k++ {
			theta := 2 * math.Pi * float64(k) / float64(numTheta)
			px = append(px, radius*math.Cos(theta))
			py = append(py, radius*math.Sin(theta))
		}
	}
	scale(px, 1-vx)
	scale(py, 1-vy)
	return
}

func (d *Hexapolar) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind()}
}
