package apodization

import (
	"math"
	"testing"
)

func TestUniformIsConstant(t *testing.T) {
	u := Uniform{}
	if u.Weight(0, 0) != 1 || u.Weight(0.9, 0.4) != 1 {
		t.Errorf("uniform apodization must return 1 everywhere")
	}
}

func TestGaussianPeaksAtCenter(t *testing.T) {
	g := NewGaussian(0.5)
	if g.Weight(0, 0) != 1 {
		t.Errorf("gaussian should peak at 1 on-axis, got %v", g.Weight(0, 0))
	}
	if g.Weight(0.5, 0) >= 1 {
		t.Errorf("gaussian should fall off away from center")
	}
}

func TestTukeyFlatThenTapersToZero(t *testing.T) {
	tu := NewTukey(1.0, 0.5)
	if tu.Weight(0, 0) != 1 {
		t.Errorf("tukey should be flat at center, got %v", tu.Weight(0, 0))
	}
	if got := tu.Weight(1.0, 0); math.Abs(got) > 1e-9 {
		t.Errorf("tukey should reach 0 at the outer radius, got %v", got)
	}
	if got := tu.Weight(1.5, 0); got != 0 {
		t.Errorf("tukey should be exactly 0 beyond its radius, got %v", got)
	}
}

func TestHannZeroAtHalfDiameter(t *testing.T) {
	h := NewHann(2.0)
	if got := h.Weight(1.0, 0); got != 0 {
		t.Errorf("hann should be 0 at r=D/2, got %v", got)
	}
	mid := h.Weight(0.5, 0)
	if math.Abs(mid-0.5) > 1e-9 {
		t.Errorf("hann at r=D/4 should be 0.5, got %v", mid)
	}
}

func TestCosineSquaredEdgeCases(t *testing.T) {
	c := NewCosineSquared(1.0)
	if got := c.Weight(0, 0); math.Abs(got-1) > 1e-9 {
		t.Errorf("cosine-squared at center should be 1, got %v", got)
	}
	if got := c.Weight(1.0, 0); got != 0 {
		t.Errorf("cosine-squared at r=R should be 0, got %v", got)
	}
}

func TestPolynomialMatchesClassicTaper(t *testing.T) {
	p := NewPolynomial(1.0, 2.0)
	got := p.Weight(0.5, 0)
	want := math.Pow(1-0.25, 2.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("polynomial apodization mismatch: got %v want %v", got, want)
	}
}

func TestFromMapRoundTrip(t *testing.T) {
	cases := []Apodizer{
		Uniform{}, NewGaussian(0.7), NewSuperGaussian(1.2, 4),
		NewTukey(1.0, 0.3), NewHann(2.5), NewCosineSquared(0.8), NewPolynomial(1.0, 1.5),
	}
	for _, a := range cases {
		back, err := FromMap(a.ToMap())
		if err != nil {
			t.Fatalf("FromMap(%s) failed: %v", a.Kind(), err)
		}
		if back.Kind() != a.Kind() {
			t.Errorf("kind mismatch: got %s want %s", back.Kind(), a.Kind())
		}
		if math.Abs(back.Weight(0.3, 0.2)-a.Weight(0.3, 0.2)) > 1e-12 {
			t.Errorf("%s: round-tripped weight mismatch", a.Kind())
		}
	}
}

func TestUnknownApodizationType(t *testing.T) {
	if _, err := FromMap(map[string]interface{}{"type": "not-real"}); err == nil {
		t.Fatal("expected an error for an unknown apodization type")
	}
}
