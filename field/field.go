// Package field implements spec.md §4.9's field definition strategies,
// grounded on original_source/optiland/fields/field_types/*.py.
//
// Each strategy converts a normalized field coordinate (Hx,Hy), a pupil
// sample (Px,Py), and vignetting factors into the object-space ray-launch
// position consumed by the ray generator. The strategies depend only on
// the narrow System contract below rather than a concrete optic.Optic,
// so package optic can implement System and import field without a
// dependency cycle.
package field

import "github.com/cpmech/optigo/errs"

// System is the paraxial/geometric state a field definition needs from
// the assembled optic, the Go analogue of the source's duck-typed optic
// argument.
type System interface {
	MaxField() float64
	MaxYField() float64
	ObjectIsInfinite() bool
	EPL() float64
	EPD() float64
	FirstSurfaceZ() float64
	StartingZOffset() float64
	ObjectSurfaceZ() float64
	ObjectSag(x, y float64) float64
	// TraceUnitChiefRay traces a (y=0,u=1) paraxial ray from the stop
	// toward "object" or "image" and returns its (y,u) at that plane,
	// the Go analogue of ParaxialImageHeightField._trace_unit_chief_ray.
	TraceUnitChiefRay(plane string) (y, u float64)
	// TraceChiefRayImage traces a real chief ray launched from object
	// point (x0,y0) and returns its intersection at the image plane,
	// used only by RealImageHeight's Newton iteration.
	TraceChiefRayImage(x0, y0 float64) (imgX, imgY float64)
}

// Definition is the tagged-variant interface every field strategy
// implements (BaseFieldDefinition).
type Definition interface {
	Kind() string
	// RayOrigins returns the object-space (x0,y0,z0) ray launch point.
	// It errors for strategies that require a finite object (ObjectHeight)
	// applied to a system whose object is at infinity.
	RayOrigins(sys System, Hx, Hy, Px, Py, vx, vy float64) (x0, y0, z0 float64, err error)
	// ParaxialObjectPosition returns the (y0,z0) object-space position
	// used by the paraxial marginal/chief ray construction.
	ParaxialObjectPosition(sys System, Hy, y1, EPL float64) (y0, z0 float64, err error)
	// ScaleChiefRayForField scales a unit chief ray trace to the actual
	// field point, per BaseFieldDefinition.scale_chief_ray_for_field.
	ScaleChiefRayForField(sys System, yObjUnit, uObjUnit, yImgUnit float64) float64
	ToMap() map[string]interface{}
}

// FromMap dispatches on the "field_type" discriminator.
func FromMap(m map[string]interface{}) (Definition, error) {
	kind, _ := m["field_type"].(string)
	switch kind {
	case "angle":
		return Angle{}, nil
	case "object_height":
		return ObjectHeight{}, nil
	case "paraxial_image_height":
		return ParaxialImageHeight{}, nil
	case "real_image_height":
		return RealImageHeight{}, nil
	}
	return nil, errs.New(errs.InvalidConfiguration, "unknown field definition %q", kind)
}
