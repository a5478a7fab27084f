// Package wavefront implements spec.md §4.5's wavefront reconstruction
// pipeline steps 3-7: given a set of already-traced real rays at the
// image surface (sampling is package distribution's job, aiming and
// tracing are package aim/raytrace's — orchestrated by package optic),
// pick a reference sphere, compute each ray's OPD against it, remove
// piston, correct the angular-field tilt artifact, and convert to
// waves.
//
// Grounded on spec.md §4.5's prose pipeline; no direct original_source/
// analogue exists (optiland computes wavefront error inline in its
// analysis classes rather than as a standalone reusable stage), so the
// reference-sphere math here is derived from the spec's own formulas.
package wavefront

import "math"

// RayResult is one traced ray's state at the image surface, the input
// this package consumes per (field, wavelength) pupil sample.
type RayResult struct {
	PupilX, PupilY float64 // normalized pupil coordinates this ray was aimed at
	X, Y, Z        float64 // image-surface intersection, global frame
	L, M, N        float64 // direction cosines at the image surface
	OPL            float64
	Intensity      float64
}

// Strategy selects how the reference sphere is determined.
type Strategy int

const (
	ChiefRaySphere Strategy = iota
	CentroidSphere
	BestFitSphere
)

// Data is the per-(field,wavelength) output of spec.md §4.5: pupil-plane
// sample positions on the reference sphere, OPD in waves, intensity,
// and the sphere radius used.
type Data struct {
	PupilX, PupilY, PupilZ []float64
	OPD                    []float64
	Intensity              []float64
	Radius                 float64
}

// reconstructionPoint steps a ray's image intersection back along its
// own direction by opl/n_image, per spec.md §4.5's centroid/best-fit
// strategies ("the image intersection stepped back by opl/n_image
// along the ray direction").
func reconstructionPoint(r RayResult, nImage float64) (x, y, z float64) {
	d := r.OPL / nImage
	return r.X - d*r.L, r.Y - d*r.M, r.Z - d*r.N
}

// sphereIntersect solves |P + tD - C|^2 = R^2 for the root closer to P
// (the "front of the ray" root, mirroring geom's closer-to-vertex,
// tie-broken-positive convention for the analogous conic quadratic).
func sphereIntersect(px, py, pz, lx, ly, lz, cx, cy, cz, radius float64) (t float64, ok bool) {
	dx, dy, dz := px-cx, py-cy, pz-cz
	b := 2 * (lx*dx + ly*dy + lz*dz)
	c := dx*dx + dy*dy + dz*dz - radius*radius
	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / 2
	t2 := (-b - sq) / 2
	if math.Abs(t1) <= math.Abs(t2) {
		if t1 < 0 && t2 >= 0 {
			return t2, true
		}
		return t1, true
	}
	if t2 < 0 && t1 >= 0 {
		return t1, true
	}
	return t2, true
}

// Compute runs spec.md §4.5 steps 3-7 given the traced pupil samples
// and the chief ray (Px=Py=0) among them (or traced separately and
// passed in), the selected reference-sphere strategy, the image-space
// index (for the OPL-to-reconstruction-point step back), the field
// angles in radians (for tilt correction; pass 0,0 for an object-height
// field, where no tilt artifact exists), the wavelength in micrometers,
// the paraxial exit-pupil position (used only by ChiefRaySphere), and
// an optional sigma-trim threshold for CentroidSphere (<=0 disables
// trimming).
func Compute(rays []RayResult, chief RayResult, strategy Strategy, nImage float64, fieldXRad, fieldYRad, wavelengthUm float64, exitPupil [3]float64, sigmaTrim float64) *Data {
	n := len(rays)
	data := &Data{
		PupilX:    make([]float64, n),
		PupilY:    make([]float64, n),
		PupilZ:    make([]float64, n),
		OPD:       make([]float64, n),
		Intensity: make([]float64, n),
	}

	var cx, cy, cz, radius float64
	switch strategy {
	case ChiefRaySphere:
		cx, cy, cz = chief.X, chief.Y, chief.Z
		radius = math.Sqrt((cx-exitPupil[0])*(cx-exitPupil[0]) +
			(cy-exitPupil[1])*(cy-exitPupil[1]) +
			(cz-exitPupil[2])*(cz-exitPupil[2]))
	case CentroidSphere:
		cx, cy, cz, radius = centroidSphere(rays, nImage, sigmaTrim)
	case BestFitSphere:
		cx, cy, cz, radius = bestFitSphere(rays, nImage)
	}

	// step 4: OPD_raw per ray.
	opdRaw := make([]float64, n)
	for i, r := range rays {
		t, ok := sphereIntersect(r.X, r.Y, r.Z, r.L, r.M, r.N, cx, cy, cz, radius)
		if !ok {
			opdRaw[i] = math.NaN()
			continue
		}
		opdRaw[i] = r.OPL - nImage*t
		data.PupilZ[i] = r.Z + t*r.N
	}

	// step 5: remove piston.
	var reference float64
	switch strategy {
	case ChiefRaySphere:
		tC, okC := sphereIntersect(chief.X, chief.Y, chief.Z, chief.L, chief.M, chief.N, cx, cy, cz, radius)
		if okC {
			reference = chief.OPL - nImage*tC
		}
	default:
		reference = meanFinite(opdRaw)
	}

	waveLenMm := wavelengthUm / 1000
	for i, r := range rays {
		opd := opdRaw[i] - reference
		// step 6: tilt correction for angular fields.
		opd += math.Tan(fieldXRad)*r.PupilX + math.Tan(fieldYRad)*r.PupilY
		// step 7: convert to waves.
		data.OPD[i] = opd / waveLenMm
		data.PupilX[i] = r.PupilX
		data.PupilY[i] = r.PupilY
		data.Intensity[i] = r.Intensity
	}
	data.Radius = radius
	return data
}

func meanFinite(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
