// Package frame implements the nested coordinate-frame tree of spec.md
// §4.1: lazy localization/globalization of ray batches through a chain
// of parent frames.
//
// Grounded on original_source/pyoptic/coordinate_system.py and
// pyoptic/rays.py: localize walks INTO the parent first, translating by
// (-x,-y,-z) then rotating by (-rx,-ry,-rz) in x,y,z order; globalize
// rotates by (rz,ry,rx) then translates by (x,y,z), then walks OUT to
// the parent. The two orders do not commute — bit-exact reproduction of
// the rotation sequence is required for correct spot positions.
package frame

import "math"

// Frame is a local coordinate system: translation plus axis rotations
// relative to Parent (nil means the global frame).
type Frame struct {
	X, Y, Z    float64
	RX, RY, RZ float64
	Parent     *Frame
}

// New returns a frame with no rotation or parent.
func New(x, y, z float64) *Frame {
	return &Frame{X: x, Y: y, Z: z}
}

// Batch holds points (X,Y,Z) and directions (L,M,N) that the frame
// operations transform in place; with HasDir false only the points are
// transformed and L/M/N may be nil (PositionInGlobalFrame sets HasDir
// with a dummy direction).
type Batch struct {
	X, Y, Z    []float64
	L, M, N    []float64
	HasDir     bool
}

func (b *Batch) translate(dx, dy, dz float64) {
	for i := range b.X {
		b.X[i] += dx
		b.Y[i] += dy
		b.Z[i] += dz
	}
}

func (b *Batch) rotateX(rx float64) {
	if rx == 0 {
		return
	}
	c, s := math.Cos(rx), math.Sin(rx)
	for i := range b.Y {
		y, z := b.Y[i], b.Z[i]
		b.Y[i] = y*c - z*s
		b.Z[i] = y*s + z*c
		if b.HasDir {
			m, n := b.M[i], b.N[i]
			b.M[i] = m*c - n*s
			b.N[i] = m*s + n*c
		}
	}
}

func (b *Batch) rotateY(ry float64) {
	if ry == 0 {
		return
	}
	c, s := math.Cos(ry), math.Sin(ry)
	for i := range b.X {
		x, z := b.X[i], b.Z[i]
		b.X[i] = x*c + z*s
		b.Z[i] = -x*s + z*c
		if b.HasDir {
			l, n := b.L[i], b.N[i]
			b.L[i] = l*c + n*s
			b.N[i] = -l*s + n*c
		}
	}
}

func (b *Batch) rotateZ(rz float64) {
	if rz == 0 {
		return
	}
	c, s := math.Cos(rz), math.Sin(rz)
	for i := range b.X {
		x, y := b.X[i], b.Y[i]
		b.X[i] = x*c - y*s
		b.Y[i] = x*s + y*c
		if b.HasDir {
			l, m := b.L[i], b.M[i]
			b.L[i] = l*c - m*s
			b.M[i] = l*s + m*c
		}
	}
}

// Localize transforms b from the global frame into f's local frame,
// walking into the parent chain first (outermost frame localizes
// first, matching the recursive Python reference).
func (f *Frame) Localize(b *Batch) {
	if f.Parent != nil {
		f.Parent.Localize(b)
	}
	b.translate(-f.X, -f.Y, -f.Z)
	b.rotateX(-f.RX)
	b.rotateY(-f.RY)
	b.rotateZ(-f.RZ)
}

// Globalize transforms b from f's local frame back into the global
// frame, rotating z,y,x then translating, then recursing outward.
func (f *Frame) Globalize(b *Batch) {
	b.rotateZ(f.RZ)
	b.rotateY(f.RY)
	b.rotateX(f.RX)
	b.translate(f.X, f.Y, f.Z)
	if f.Parent != nil {
		f.Parent.Globalize(b)
	}
}

// PositionInGlobalFrame returns the origin of f expressed in the global
// frame, by globalizing (0,0,0) with an arbitrary unit direction.
func (f *Frame) PositionInGlobalFrame() (x, y, z float64) {
	b := &Batch{
		X: []float64{0}, Y: []float64{0}, Z: []float64{0},
		L: []float64{0}, M: []float64{0}, N: []float64{1},
		HasDir: true,
	}
	f.Globalize(b)
	return b.X[0], b.Y[0], b.Z[0]
}

// ToMap / FromMap implement the pure persistence contract of spec.md §6.
func (f *Frame) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"type": "frame",
		"x": f.X, "y": f.Y, "z": f.Z,
		"rx": f.RX, "ry": f.RY, "rz": f.RZ,
	}
	if f.Parent != nil {
		m["parent"] = f.Parent.ToMap()
	}
	return m
}

func FromMap(m map[string]interface{}) *Frame {
	if m == nil {
		return nil
	}
	f := &Frame{
		X: mf(m, "x"), Y: mf(m, "y"), Z: mf(m, "z"),
		RX: mf(m, "rx"), RY: mf(m, "ry"), RZ: mf(m, "rz"),
	}
	if p, ok := m["parent"].(map[string]interface{}); ok {
		f.Parent = FromMap(p)
	}
	return f
}

func mf(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}
