package field

import "math"

// RealImageHeight defines fields by the chief ray's REAL (not paraxial)
// height at the image plane (RealImageHeightField): starting from the
// ParaxialImageHeight guess, it Newton-iterates the object-space launch
// parameter against a real traced chief ray until the image height
// converges, using the paraxial magnification as a fixed Jacobian
// (matching the source's single computed-once jacobian rather than a
// re-linearized Newton step).
type RealImageHeight struct{}

const (
	realImageHeightMaxIter = 10
	realImageHeightTol     = 1e-12
)

func (RealImageHeight) Kind() string { return "real_image_height" }

func (RealImageHeight) RayOrigins(sys System, Hx, Hy, Px, Py, vx, vy float64) (x0, y0, z0 float64, err error) {
	maxField := sys.MaxField()
	targetX := maxField * Hx
	targetY := maxField * Hy

	yImgUnit, _ := sys.TraceUnitChiefRay("image")
	yObjUnit, uObjUnit := sys.TraceUnitChiefRay("object")

	var valX, valY, jacobian float64
	if sys.ObjectIsInfinite() {
		valX = uObjUnit * (targetX / yImgUnit)
		valY = uObjUnit * (targetY / yImgUnit)
		jacobian = yImgUnit / uObjUnit
	} else {
		valX = yObjUnit * (targetX / yImgUnit)
		valY = yObjUnit * (targetY / yImgUnit)
		jacobian = yImgUnit / yObjUnit
	}

	for i := 0; i < realImageHeightMaxIter; i++ {
		currX, currY := sys.TraceChiefRayImage(valX, valY)
		errX := currX - targetX
		errY := currY - targetY
		if math.Abs(errX) < realImageHeightTol && math.Abs(errY) < realImageHeightTol {
			break
		}
		valX -= errX / jacobian
		valY -= errY / jacobian
	}

	if sys.ObjectIsInfinite() {
		EPL := sys.EPL()
		EPD := sys.EPD()
		offset := sys.StartingZOffset()
		x := -valX * (offset + EPL)
		y := -valY * (offset + EPL)
		z0 = sys.FirstSurfaceZ() - offset
		x0 = Px*EPD/2*vx + x
		y0 = Py*EPD/2*vy + y
		return x0, y0, z0, nil
	}
	x0, y0 = valX, valY
	z0 = sys.ObjectSag(x0, y0) + sys.ObjectSurfaceZ()
	return x0, y0, z0, nil
}

func (d RealImageHeight) ParaxialObjectPosition(sys System, Hy, y1, EPL float64) (y0, z0 float64, err error) {
	return ParaxialImageHeight{}.ParaxialObjectPosition(sys, Hy, y1, EPL)
}

func (RealImageHeight) ScaleChiefRayForField(sys System, yObjUnit, uObjUnit, yImgUnit float64) float64 {
	return sys.MaxYField() / yImgUnit
}

func (RealImageHeight) ToMap() map[string]interface{} {
	return map[string]interface{}{"field_type": "real_image_height"}
}
