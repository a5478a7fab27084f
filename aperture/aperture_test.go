package aperture

import "testing"

func TestCircularContains(t *testing.T) {
	c := NewCircular(5)
	if !c.Contains(3, 4) {
		t.Error("(3,4) should be inside a radius-5 circle (on the boundary)")
	}
	if c.Contains(3, 4.01) {
		t.Error("(3,4.01) should be outside a radius-5 circle")
	}
}

func TestRadialExcludesCentralObscuration(t *testing.T) {
	r := NewRadial(10, 2)
	if r.Contains(1, 0) {
		t.Error("point inside the central obscuration should be excluded")
	}
	if !r.Contains(5, 0) {
		t.Error("point in the annulus should be included")
	}
	if r.Contains(11, 0) {
		t.Error("point beyond r_max should be excluded")
	}
}

func TestEllipticalOffset(t *testing.T) {
	e := NewElliptical(2, 1, 1, 1)
	if !e.Contains(1, 1) {
		t.Error("ellipse center (after offset) should be contained")
	}
	if e.Contains(10, 10) {
		t.Error("far point should not be contained")
	}
}

func TestRectangularBounds(t *testing.T) {
	r := NewRectangular(-1, 1, -2, 2)
	if !r.Contains(1, 2) {
		t.Error("corner should be inclusive")
	}
	if r.Contains(1.01, 0) {
		t.Error("point just outside x_max should be excluded")
	}
}

func TestOffsetRadial(t *testing.T) {
	o := NewOffsetRadial(3, 0, 5, 5)
	if !o.Contains(5, 5) {
		t.Error("offset center should be contained")
	}
	if o.Contains(0, 0) {
		t.Error("origin should not be contained for an aperture centered at (5,5) with r_max=3")
	}
}

func TestPolygonSquare(t *testing.T) {
	p := NewPolygon([]float64{-1, 1, 1, -1}, []float64{-1, -1, 1, 1})
	if !p.Contains(0, 0) {
		t.Error("origin should be inside the unit square")
	}
	if p.Contains(2, 2) {
		t.Error("(2,2) should be outside the unit square")
	}
}

func TestBooleanCompositions(t *testing.T) {
	a := NewCircular(5)
	b := NewRectangular(-1, 1, -1, 1)

	u := Union{A: a, B: b}
	if !u.Contains(0, 0.5) {
		t.Error("union should include points in either region")
	}
	if u.Contains(100, 100) {
		t.Error("union should exclude points in neither region")
	}

	i := Intersection{A: a, B: b}
	if !i.Contains(0.5, 0.5) {
		t.Error("intersection should include points in both regions")
	}
	if i.Contains(4.9, 0) {
		t.Error("intersection should exclude points only in the circle")
	}

	d := Difference{A: a, B: b}
	if d.Contains(0.5, 0.5) {
		t.Error("difference should exclude points that are also in B")
	}
	if !d.Contains(4, 0) {
		t.Error("difference should include points only in A")
	}
}

func TestFromMapRoundTrip(t *testing.T) {
	cases := []Aperture{
		NewCircular(5), NewRadial(10, 2), NewElliptical(2, 1, 0.1, -0.1),
		NewRectangular(-1, 1, -2, 2), NewOffsetRadial(3, 0, 1, 1),
		NewPolygon([]float64{-1, 1, 0}, []float64{-1, -1, 1}),
	}
	for _, ap := range cases {
		back, err := FromMap(ap.ToMap())
		if err != nil {
			t.Fatalf("FromMap(%s) failed: %v", ap.Kind(), err)
		}
		if back.Kind() != ap.Kind() {
			t.Errorf("kind mismatch: got %s want %s", back.Kind(), ap.Kind())
		}
	}

	nested := Union{A: NewCircular(5), B: NewRectangular(-1, 1, -1, 1)}
	back, err := FromMap(nested.ToMap())
	if err != nil {
		t.Fatalf("FromMap(union) failed: %v", err)
	}
	if !back.Contains(0.5, 0.5) {
		t.Error("round-tripped union lost its composition")
	}
}

func TestUnknownApertureType(t *testing.T) {
	if _, err := FromMap(map[string]interface{}{"type": "not-real"}); err == nil {
		t.Fatal("expected an error for an unknown aperture type")
	}
}
