package field

import "math"

// Angle defines fields by angle in degrees relative to the optical axis
// (AngleField), the default for systems viewing an object at infinity.
type Angle struct{}

func (Angle) Kind() string { return "angle" }

func (Angle) RayOrigins(sys System, Hx, Hy, Px, Py, vx, vy float64) (x0, y0, z0 float64, err error) {
	EPL := sys.EPL()
	maxField := sys.MaxField()
	fieldX := maxField * Hx
	fieldY := maxField * Hy

	if sys.ObjectIsInfinite() {
		EPD := sys.EPD()
		offset := sys.StartingZOffset()
		x := -math.Tan(radians(fieldX)) * (offset + EPL)
		y := -math.Tan(radians(fieldY)) * (offset + EPL)
		z0 = sys.FirstSurfaceZ() - offset
		x0 = Px*EPD/2*vx + x
		y0 = Py*EPD/2*vy + y
		return x0, y0, z0, nil
	}
	z0 = sys.ObjectSurfaceZ()
	x0 = -math.Tan(radians(fieldX)) * (EPL - z0)
	y0 = -math.Tan(radians(fieldY)) * (EPL - z0)
	return x0, y0, z0, nil
}

func (Angle) ParaxialObjectPosition(sys System, Hy, y1, EPL float64) (y0, z0 float64, err error) {
	fieldY := sys.MaxField() * Hy
	y := -math.Tan(radians(fieldY)) * EPL
	return y1 + y, sys.FirstSurfaceZ(), nil
}

func (Angle) ScaleChiefRayForField(sys System, yObjUnit, uObjUnit, yImgUnit float64) float64 {
	targetSlope := math.Tan(radians(sys.MaxYField()))
	return targetSlope / uObjUnit
}

func (Angle) ToMap() map[string]interface{} {
	return map[string]interface{}{"field_type": "angle"}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
