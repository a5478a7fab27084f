package material

import (
	"math"
	"testing"
)

func TestSingletIndex(t *testing.T) {
	idx := Fixed(1.5168)
	n, err := idx(0.55)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n-1.5168) > 1e-12 {
		t.Fatalf("got %v want 1.5168", n)
	}
}

func TestCatalogAirMirror(t *testing.T) {
	c := NewCatalog()
	n, err := c.RefractiveIndex("air", 0.55)
	if err != nil || n != 1.0 {
		t.Fatalf("air index = %v, %v", n, err)
	}
	n, err = c.RefractiveIndex("mirror", 0.55)
	if err != nil || n != -1.0 {
		t.Fatalf("mirror index = %v, %v", n, err)
	}
}

func TestCatalogUnknownGlass(t *testing.T) {
	c := NewCatalog()
	_, err := c.RefractiveIndex("not-a-glass", 0.55)
	if err == nil {
		t.Fatal("expected error for unknown glass")
	}
}

func TestAbbeReasonableRange(t *testing.T) {
	c := NewCatalog()
	v, err := c.AbbeNumber("N-BK7")
	if err != nil {
		t.Fatal(err)
	}
	if v < 50 || v > 70 {
		t.Fatalf("N-BK7 abbe number out of expected range: %v", v)
	}
}
