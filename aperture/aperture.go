// Package aperture implements spec.md §4.8's physical aperture clipping,
// grounded on original_source/optiland/physical_apertures/*.py.
//
// Each variant implements Contains(x, y), tested at raytrace step 4
// (aperture clip) against a ray's surface-local intersection point.
package aperture

import (
	"github.com/cpmech/optigo/errs"
)

// Aperture is the tagged-variant interface every physical aperture
// implements, mirroring package geom's Kind()/ToMap()/FromMap() shape.
type Aperture interface {
	Kind() string
	Contains(x, y float64) bool
	ToMap() map[string]interface{}
}

// FromMap dispatches on the "type" discriminator, the idiomatic
// substitute for BaseAperture's from_dict registry. Boolean compositions
// (union/intersection/difference) recurse through nested "a"/"b" maps.
func FromMap(m map[string]interface{}) (Aperture, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case "circular":
		return NewCircular(mgetf(m, "radius", 1)), nil
	case "radial":
		return NewRadial(mgetf(m, "r_max", 1), mgetf(m, "r_min", 0)), nil
	case "elliptical":
		return NewElliptical(mgetf(m, "a", 1), mgetf(m, "b", 1), mgetf(m, "offset_x", 0), mgetf(m, "offset_y", 0)), nil
	case "rectangular":
		return NewRectangular(mgetf(m, "x_min", -1), mgetf(m, "x_max", 1), mgetf(m, "y_min", -1), mgetf(m, "y_max", 1)), nil
	case "offset_radial":
		return NewOffsetRadial(mgetf(m, "r_max", 1), mgetf(m, "r_min", 0), mgetf(m, "offset_x", 0), mgetf(m, "offset_y", 0)), nil
	case "polygon":
		return NewPolygon(mgetfSlice(m, "x"), mgetfSlice(m, "y")), nil
	case "union", "intersection", "difference":
		sub, _ := m["a"].(map[string]interface{})
		sub2, _ := m["b"].(map[string]interface{})
		a, err := FromMap(sub)
		if err != nil {
			return nil, err
		}
		b, err := FromMap(sub2)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "union":
			return Union{A: a, B: b}, nil
		case "intersection":
			return Intersection{A: a, B: b}, nil
		default:
			return Difference{A: a, B: b}, nil
		}
	}
	return nil, errs.New(errs.InvalidConfiguration, "unknown aperture type %q", kind)
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func mgetfSlice(m map[string]interface{}, key string) []float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, len(raw))
	for i, e := range raw {
		if f, ok := e.(float64); ok {
			out[i] = f
		}
	}
	return out
}

// Circular is an on-axis disk aperture, the r_min=0 special case of
// Radial (RadialAperture).
type Circular struct{ Radius float64 }

func NewCircular(radius float64) Circular { return Circular{Radius: radius} }

func (Circular) Kind() string { return "circular" }

func (c Circular) Contains(x, y float64) bool {
	return x*x+y*y <= c.Radius*c.Radius
}

func (c Circular) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "circular", "radius": c.Radius}
}

// Radial clips rays to an annulus r_min <= r <= r_max, e.g. a mirror with
// a central obscuration (RadialAperture).
type Radial struct {
	RMax, RMin float64
}

func NewRadial(rMax, rMin float64) Radial { return Radial{RMax: rMax, RMin: rMin} }

func (Radial) Kind() string { return "radial" }

func (r Radial) Contains(x, y float64) bool {
	r2 := x*x + y*y
	return r2 <= r.RMax*r.RMax && r2 >= r.RMin*r.RMin
}

func (r Radial) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "radial", "r_max": r.RMax, "r_min": r.RMin}
}

// Elliptical clips to an axis-aligned ellipse with semi-axes (a,b),
// optionally recentered (EllipticalAperture).
type Elliptical struct {
	A, B             float64
	OffsetX, OffsetY float64
}

func NewElliptical(a, b, offsetX, offsetY float64) Elliptical {
	return Elliptical{A: a, B: b, OffsetX: offsetX, OffsetY: offsetY}
}

func (Elliptical) Kind() string { return "elliptical" }

func (e Elliptical) Contains(x, y float64) bool {
	x -= e.OffsetX
	y -= e.OffsetY
	return x*x/(e.A*e.A)+y*y/(e.B*e.B) <= 1
}

func (e Elliptical) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": "elliptical", "a": e.A, "b": e.B, "offset_x": e.OffsetX, "offset_y": e.OffsetY,
	}
}

// Rectangular clips to an axis-aligned box (RectangularAperture).
type Rectangular struct {
	XMin, XMax, YMin, YMax float64
}

func NewRectangular(xMin, xMax, yMin, yMax float64) Rectangular {
	return Rectangular{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

func (Rectangular) Kind() string { return "rectangular" }

func (r Rectangular) Contains(x, y float64) bool {
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

func (r Rectangular) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": "rectangular", "x_min": r.XMin, "x_max": r.XMax, "y_min": r.YMin, "y_max": r.YMax,
	}
}

// OffsetRadial is Radial recentered away from the optical axis
// (OffsetRadialAperture), e.g. a folded or decentered pupil stop.
type OffsetRadial struct {
	RMax, RMin       float64
	OffsetX, OffsetY float64
}

func NewOffsetRadial(rMax, rMin, offsetX, offsetY float64) OffsetRadial {
	return OffsetRadial{RMax: rMax, RMin: rMin, OffsetX: offsetX, OffsetY: offsetY}
}

func (OffsetRadial) Kind() string { return "offset_radial" }

func (o OffsetRadial) Contains(x, y float64) bool {
	dx, dy := x-o.OffsetX, y-o.OffsetY
	r2 := dx*dx + dy*dy
	return r2 <= o.RMax*o.RMax && r2 >= o.RMin*o.RMin
}

func (o OffsetRadial) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": "offset_radial", "r_max": o.RMax, "r_min": o.RMin,
		"offset_x": o.OffsetX, "offset_y": o.OffsetY,
	}
}

// Polygon clips to an arbitrary simple polygon (PolygonAperture), tested
// by even-odd ray casting instead of the source's matplotlib.path.Path.
type Polygon struct {
	X, Y []float64
}

func NewPolygon(x, y []float64) Polygon { return Polygon{X: x, Y: y} }

func (Polygon) Kind() string { return "polygon" }

func (p Polygon) Contains(x, y float64) bool {
	n := len(p.X)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p.X[i], p.Y[i]
		xj, yj := p.X[j], p.Y[j]
		if ((yi > y) != (yj > y)) &&
			(x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

func (p Polygon) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "polygon", "x": p.X, "y": p.Y}
}

// Union is the boolean OR of two apertures (BaseAperture.__or__).
type Union struct{ A, B Aperture }

func (Union) Kind() string { return "union" }

func (u Union) Contains(x, y float64) bool { return u.A.Contains(x, y) || u.B.Contains(x, y) }

func (u Union) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "union", "a": u.A.ToMap(), "b": u.B.ToMap()}
}

// Intersection is the boolean AND of two apertures (BaseAperture.__and__).
type Intersection struct{ A, B Aperture }

func (Intersection) Kind() string { return "intersection" }

func (i Intersection) Contains(x, y float64) bool {
	return i.A.Contains(x, y) && i.B.Contains(x, y)
}

func (i Intersection) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "intersection", "a": i.A.ToMap(), "b": i.B.ToMap()}
}

// Difference allows a point in A that is not also in B
// (BaseAperture.__sub__).
type Difference struct{ A, B Aperture }

func (Difference) Kind() string { return "difference" }

func (d Difference) Contains(x, y float64) bool {
	return d.A.Contains(x, y) && !d.B.Contains(x, y)
}

func (d Difference) ToMap() map[string]interface{} {
	return map[string]interface{}{"type": "difference", "a": d.A.ToMap(), "b": d.B.ToMap()}
}
