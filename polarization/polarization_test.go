package polarization

import (
	"math"
	"testing"
)

func TestJonesFresnelNormalIncidenceMatchesScalarFresnel(t *testing.T) {
	n1, n2 := 1.0, 1.5
	j := JonesFresnel(n1, n2, 1, 1, false)
	want := 2 * n1 / (n1 + n2)
	if math.Abs(real(j[0][0])-want) > 1e-9 || math.Abs(real(j[1][1])-want) > 1e-9 {
		t.Errorf("normal-incidence transmission should match scalar Fresnel t=%v, got %v/%v", want, j[0][0], j[1][1])
	}
}

func TestJonesFresnelReflectionSignConvention(t *testing.T) {
	r := JonesFresnel(1.0, 1.5, 1, 1, true)
	want := (1.0 - 1.5) / (1.0 + 1.5)
	if math.Abs(real(r[0][0])-want) > 1e-9 {
		t.Errorf("s-polarized reflection coefficient mismatch: got %v want %v", r[0][0], want)
	}
}

func TestIdentityLeavesIntensityUnity(t *testing.T) {
	if got := Intensity(Identity); math.Abs(got-1) > 1e-12 {
		t.Errorf("identity Jones matrix should preserve full intensity, got %v", got)
	}
}

func TestMulComposesSequentially(t *testing.T) {
	a := JonesFresnel(1.0, 1.5, 1, 0.9, false)
	composed := Mul(a, Identity)
	if composed != a {
		t.Errorf("composing with identity should be a no-op")
	}
}
