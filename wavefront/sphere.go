package wavefront

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// centroidSphere implements spec.md §4.5's centroid-anchored reference
// sphere: center is the intensity-weighted centroid of image
// intersections; radius is the intensity-weighted mean distance from
// the centroid to each ray's wavefront reconstruction point. An
// optional single-pass kσ trim (sigmaTrim<=0 disables it) drops
// samples whose centroid distance is an outlier before finalizing the
// radius, per spec.md's "optional robust trimming".
func centroidSphere(rays []RayResult, nImage, sigmaTrim float64) (cx, cy, cz, radius float64) {
	var wsum, sx, sy, sz float64
	for _, r := range rays {
		w := r.Intensity
		sx += w * r.X
		sy += w * r.Y
		sz += w * r.Z
		wsum += w
	}
	if wsum == 0 {
		return 0, 0, 0, 0
	}
	cx, cy, cz = sx/wsum, sy/wsum, sz/wsum

	pts := make([]reconPoint, len(rays))
	for i, r := range rays {
		x, y, z := reconstructionPoint(r, nImage)
		d := math.Sqrt((x-cx)*(x-cx) + (y-cy)*(y-cy) + (z-cz)*(z-cz))
		pts[i] = reconPoint{x, y, z, r.Intensity, d}
	}

	if sigmaTrim > 0 {
		mean, std := weightedMeanStd(pts)
		keep := pts[:0]
		for _, p := range pts {
			if math.Abs(p.dist-mean) <= sigmaTrim*std {
				keep = append(keep, p)
			}
		}
		if len(keep) > 0 {
			pts = keep
		}
	}

	var rsum, rw float64
	for _, p := range pts {
		rsum += p.w * p.dist
		rw += p.w
	}
	if rw == 0 {
		return cx, cy, cz, 0
	}
	return cx, cy, cz, rsum / rw
}

// reconPoint is one ray's wavefront reconstruction point with its
// intensity weight and centroid distance.
type reconPoint struct {
	x, y, z, w, dist float64
}

func weightedMeanStd(pts []reconPoint) (mean, std float64) {
	var wsum, sum float64
	for _, p := range pts {
		sum += p.w * p.dist
		wsum += p.w
	}
	if wsum == 0 {
		return 0, 0
	}
	mean = sum / wsum
	var v float64
	for _, p := range pts {
		d := p.dist - mean
		v += p.w * d * d
	}
	std = math.Sqrt(v / wsum)
	return
}

// bestFitSphere solves the 4-parameter linear least-squares sphere fit
// of spec.md §4.5: for each wavefront reconstruction point (x,y,z),
// x²+y²+z² = 2cx·x + 2cy·y + 2cz·z + d, solved by normal equations
// (gosl/la.MatInv on the 4x4 ATA), the standard linear reformulation of
// a nonlinear sphere fit.
func bestFitSphere(rays []RayResult, nImage float64) (cx, cy, cz, radius float64) {
	n := len(rays)
	if n < 4 {
		return 0, 0, 0, 0
	}
	ata := la.MatAlloc(4, 4)
	atai := la.MatAlloc(4, 4)
	atb := make([]float64, 4)
	for _, r := range rays {
		x, y, z := reconstructionPoint(r, nImage)
		row := []float64{2 * x, 2 * y, 2 * z, 1}
		rhs := x*x + y*y + z*z
		for i := 0; i < 4; i++ {
			atb[i] += row[i] * rhs
			for j := 0; j < 4; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}
	// solve the 4x4 normal equations by explicit inversion, mirroring
	// shp/algos.go's la.MatInv(J, dxdR, tol) use for a small fixed-size
	// dense system rather than routing through a sparse solver.
	_, err := la.MatInv(atai, ata, 1e-14)
	if err != nil {
		return 0, 0, 0, 0
	}
	sol := make([]float64, 4)
	la.MatVecMul(sol, 1, atai, atb)
	cx, cy, cz = sol[0], sol[1], sol[2]
	d := sol[3]
	r2 := d + cx*cx + cy*cy + cz*cz
	if r2 < 0 {
		return cx, cy, cz, 0
	}
	return cx, cy, cz, math.Sqrt(r2)
}
