package field

// ParaxialImageHeight defines fields by the chief ray's paraxial height
// at the image plane (ParaxialImageHeightField): the target field
// coordinate is back-solved to an object-space launch angle or height
// via a unit (y=0,u=1) chief ray traced once from the stop in each
// direction, then scaled linearly (the paraxial approximation).
type ParaxialImageHeight struct{}

func (ParaxialImageHeight) Kind() string { return "paraxial_image_height" }

func (ParaxialImageHeight) RayOrigins(sys System, Hx, Hy, Px, Py, vx, vy float64) (x0, y0, z0 float64, err error) {
	maxField := sys.MaxField()
	yImgTarget := maxField * Hy
	xImgTarget := maxField * Hx

	yImgUnit, _ := sys.TraceUnitChiefRay("image")
	yObjUnit, uObjUnit := sys.TraceUnitChiefRay("object")

	if sys.ObjectIsInfinite() {
		uObjY := uObjUnit * (yImgTarget / yImgUnit)
		uObjX := uObjUnit * (xImgTarget / yImgUnit)

		EPL := sys.EPL()
		EPD := sys.EPD()
		offset := sys.StartingZOffset()

		x := -uObjX * (offset + EPL)
		y := -uObjY * (offset + EPL)
		z0 = sys.FirstSurfaceZ() - offset
		x0 = Px*EPD/2*vx + x
		y0 = Py*EPD/2*vy + y
		return x0, y0, z0, nil
	}

	yObj := yObjUnit * (yImgTarget / yImgUnit)
	xObj := yObjUnit * (xImgTarget / yImgUnit)
	x0, y0 = xObj, yObj
	z0 = sys.ObjectSag(x0, y0) + sys.ObjectSurfaceZ()
	return x0, y0, z0, nil
}

func (ParaxialImageHeight) ParaxialObjectPosition(sys System, Hy, y1, EPL float64) (y0, z0 float64, err error) {
	yImgTarget := sys.MaxField() * Hy
	yImgUnit, _ := sys.TraceUnitChiefRay("image")
	yObjUnit, uObjUnit := sys.TraceUnitChiefRay("object")

	if sys.ObjectIsInfinite() {
		uObj := uObjUnit * (yImgTarget / yImgUnit)
		y := uObj * -EPL
		return y1 + y, sys.FirstSurfaceZ(), nil
	}
	yObj := yObjUnit * (yImgTarget / yImgUnit)
	return yObj, sys.ObjectSurfaceZ(), nil
}

func (ParaxialImageHeight) ScaleChiefRayForField(sys System, yObjUnit, uObjUnit, yImgUnit float64) float64 {
	return sys.MaxYField() / yImgUnit
}

func (ParaxialImageHeight) ToMap() map[string]interface{} {
	return map[string]interface{}{"field_type": "paraxial_image_height"}
}
