package optic

import (
	"math"

	"github.com/cpmech/optigo/distribution"
	"github.com/cpmech/optigo/raygen"
	"github.com/cpmech/optigo/raytrace"
	"github.com/cpmech/optigo/wavefront"
	"github.com/cpmech/optigo/zernike"
)

// exitPupilPosition is the (x,y,z) of the paraxial exit pupil, used as
// wavefront.Compute's reference-sphere center for the ChiefRaySphere
// strategy: on-axis at the last real surface's z plus the paraxial
// exit pupil distance (paraxial.Engine.XPL, measured from that same
// surface).
func (o *Optic) exitPupilPosition() [3]float64 {
	eng := o.paraxialEngine()
	n := o.Group.NumSurfaces()
	z := o.Group.Surfaces[n-1].Frame.Z + eng.XPL()
	return [3]float64{0, 0, z}
}

// traceFieldRays samples numRays pupil points of the given
// distribution for field index fieldIdx at wavelength wavelengthUm via
// package raygen (which also prepends and aims the chief ray), traces
// the resulting batch, and returns every surviving ray's
// wavefront.RayResult plus the chief ray's.
func (o *Optic) traceFieldRays(fieldIdx int, wavelengthUm float64, dist distribution.Distribution, numRays int) (rays []wavefront.RayResult, chief wavefront.RayResult, err error) {
	f := o.Fields[fieldIdx]
	samples, genErr := raygen.Generate(o, o.FieldDef, o.aimer, f, wavelengthUm, dist, numRays, o.Apodizer)
	if genErr != nil {
		return nil, wavefront.RayResult{}, genErr
	}

	b := samples.Batch
	raytrace.Trace(o.Group, b)

	result := func(i int) wavefront.RayResult {
		return wavefront.RayResult{
			PupilX: samples.PupilX[i], PupilY: samples.PupilY[i],
			X: b.X[i], Y: b.Y[i], Z: b.Z[i],
			L: b.L[i], M: b.M[i], N: b.N[i],
			OPL: b.OPL[i], Intensity: b.Intensity[i],
		}
	}

	ci := samples.ChiefIndex
	if !samples.Aimed[ci] || !b.Live(ci) {
		return nil, wavefront.RayResult{}, errChiefRayDied
	}
	chief = result(ci)

	for i := range samples.PupilX {
		if i == ci {
			continue
		}
		if samples.Aimed[i] && b.Live(i) {
			rays = append(rays, result(i))
		}
	}
	return rays, chief, nil
}

// ComputeWavefront runs spec.md §4.5's full wavefront reconstruction
// pipeline for one (field, wavelength) pair: sample the pupil
// distribution, aim and trace every ray plus the chief ray, and hand
// the bundle to wavefront.Compute with the image-space index, field
// angles (for the angular tilt correction, zero for a height-based
// field), and the paraxial exit pupil position the ChiefRaySphere
// strategy needs.
func (o *Optic) ComputeWavefront(fieldIdx, wavelengthIdx int, dist distribution.Distribution, numRays int, strategy wavefront.Strategy, sigmaTrim float64) (*wavefront.Data, error) {
	wl := o.Wavelengths[wavelengthIdx]
	rays, chief, err := o.traceFieldRays(fieldIdx, wl, dist, numRays)
	if err != nil {
		return nil, err
	}

	n := o.Group.NumSurfaces()
	nImage, _ := o.Group.Surfaces[n-1].Post(wl)

	var fieldXRad, fieldYRad float64
	if o.FieldDef != nil && o.FieldDef.Kind() == "angle" {
		f := o.Fields[fieldIdx]
		fieldXRad = o.MaxFieldValue * f.Hx * math.Pi / 180
		fieldYRad = o.MaxFieldValue * f.Hy * math.Pi / 180
	}

	return wavefront.Compute(rays, chief, strategy, nImage, fieldXRad, fieldYRad, wl, o.exitPupilPosition(), sigmaTrim), nil
}

// FitZernike fits a Zernike set to a wavefront.Data's OPD samples over
// their own pupil coordinates, the usual next step after
// ComputeWavefront in spec.md §4.5's pipeline.
func (o *Optic) FitZernike(data *wavefront.Data, kind zernike.Indexing, numTerms int) (*zernike.Fit, error) {
	return zernike.NewFit(data.PupilX, data.PupilY, data.OPD, kind, numTerms)
}
