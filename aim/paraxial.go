package aim

import (
	"math"

	"github.com/cpmech/optigo/errs"
	"github.com/cpmech/optigo/field"
)

// Paraxial targets the paraxial entrance pupil directly, grounded on
// ParaxialRayAimer.aim_rays: cheap, exact for unaberrated systems,
// serves as the initial guess for every other strategy. Handles finite
// and infinite object distances and an object-space-telecentric
// object, mirroring the original's two aim-point branches.
type Paraxial struct{}

func (Paraxial) Kind() string { return "paraxial" }

func (Paraxial) AimRay(sys System, def field.Definition, req Request, _ *Result) (Result, error) {
	x0, y0, z0, err := def.RayOrigins(sys, req.Hx, req.Hy, req.Px, req.Py, req.Vx, req.Vy)
	if err != nil {
		return Result{}, err
	}

	var x1, y1, z1 float64
	if sys.ObjectSpaceTelecentric() {
		if err := checkTelecentricCompatible(sys, def); err != nil {
			return Result{}, err
		}
		sin := sys.ApertureValue()
		z1 = math.Sqrt(1-sin*sin)/sin + z0
		x1 = req.Px*req.Vx + x0
		y1 = req.Py*req.Vy + y0
	} else {
		EPD := sys.EPD()
		x1 = req.Px * EPD * req.Vx / 2
		y1 = req.Py * EPD * req.Vy / 2
		z1 = sys.EPL()
	}

	dx, dy, dz := x1-x0, y1-y0, z1-z0
	mag := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if mag < 1e-9 {
		return Result{X: x0, Y: y0, Z: z0, L: 0, M: 0, N: 1}, nil
	}
	return Result{X: x0, Y: y0, Z: z0, L: dx / mag, M: dy / mag, N: dz / mag}, nil
}

// checkTelecentricCompatible mirrors
// ParaxialRayAimer._check_telecentric_compatibility's two guards: an
// angle field has no meaningful telecentric launch point, and an EPD-
// or image-FNO-specified aperture doesn't carry the marginal-ray sine
// a telecentric launch needs.
func checkTelecentricCompatible(sys System, def field.Definition) error {
	if def.Kind() == "angle" {
		return errs.New(errs.TelecentricFieldConflict, "field type cannot be \"angle\" for telecentric object space")
	}
	switch sys.ApertureType() {
	case "EPD", "imageFNO":
		return errs.New(errs.TelecentricFieldConflict, "aperture type %q cannot be used with telecentric object space", sys.ApertureType())
	}
	return nil
}
