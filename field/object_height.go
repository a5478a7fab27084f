package field

import "github.com/cpmech/optigo/errs"

// ObjectHeight defines fields by height on a finite object surface
// (ObjectHeightField). It errors when applied to a system whose object
// is at infinity, matching the source's _validate_object_infinite guard.
type ObjectHeight struct{}

func (ObjectHeight) Kind() string { return "object_height" }

func (ObjectHeight) RayOrigins(sys System, Hx, Hy, Px, Py, vx, vy float64) (x0, y0, z0 float64, err error) {
	if sys.ObjectIsInfinite() {
		return 0, 0, 0, errs.New(errs.InvalidConfiguration, "object-height field requires a finite object surface")
	}
	maxField := sys.MaxField()
	x0 = maxField * Hx
	y0 = maxField * Hy
	z0 = sys.ObjectSag(x0, y0) + sys.ObjectSurfaceZ()
	return x0, y0, z0, nil
}

func (ObjectHeight) ParaxialObjectPosition(sys System, Hy, y1, EPL float64) (y0, z0 float64, err error) {
	if sys.ObjectIsInfinite() {
		return 0, 0, errs.New(errs.InvalidConfiguration, "object-height field requires a finite object surface")
	}
	fieldY := sys.MaxField() * Hy
	return -fieldY, sys.ObjectSurfaceZ(), nil
}

func (ObjectHeight) ScaleChiefRayForField(sys System, yObjUnit, uObjUnit, yImgUnit float64) float64 {
	return sys.MaxYField() / yObjUnit
}

func (ObjectHeight) ToMap() map[string]interface{} {
	return map[string]interface{}{"field_type": "object_height"}
}
