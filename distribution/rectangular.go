package distribution

// Rectangular samples an n x n square grid over [-1,1]^2 and keeps
// only the points inside the unit disk ("rectangular-in-disk" of
// spec.md §4.1), ported from
// original_source/optiland/distribution.py's UniformDistribution.
// Because clipping discards points, the returned slices have fewer
// than n*n entries — callers must read len(px) rather than assume a
// fixed count.
type Rectangular struct{}

func NewRectangular() *Rectangular { return &Rectangular{} }

func (d *Rectangular) Kind() string { return "rectangular" }

func (d *Rectangular) Generate(n int, vx, vy float64) (px, py []float64) {
	xs := linspace(false, n)
	for _, x := range xs {
		for _, y := range xs {
			if x*x+y*y <= 1 {
				px = append(px, x*(1-vx))
				py = append(py, y*(1-vy))
			}
		}
	}
	return
}

func (d *Rectangular) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": d.Kind()}
}
