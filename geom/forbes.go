package geom

import "math"

// Forbes Qbfs/Q-2D departure terms superimposed on a base conic, grounded
// on original_source/optiland/geometries/forbes/{qpoff,geometry,jacobi}.py
// (G. Forbes' 2011 "Manufacturability estimates for optical aspheres").
// Both variants build their Clenshaw recursion coefficients from the same
// f/g/h recurrences; the Go implementation memoizes them in package-level
// maps rather than the source's per-process lru_cache decorators.

var fQbfsMemo = map[int]float64{}
var gQbfsMemo = map[int]float64{}
var hQbfsMemo = map[int]float64{}

func fQbfs(n int) float64 {
	if v, ok := fQbfsMemo[n]; ok {
		return v
	}
	var v float64
	switch {
	case n == 0:
		v = 2
	case n == 1:
		v = math.Sqrt(19) / 2
	default:
		t1 := float64(n*(n+1) + 3)
		t2 := gQbfs(n-1) * gQbfs(n-1)
		t3 := hQbfs(n-2) * hQbfs(n-2)
		v = math.Sqrt(t1 - t2 - t3)
	}
	fQbfsMemo[n] = v
	return v
}

func gQbfs(nm1 int) float64 {
	if v, ok := gQbfsMemo[nm1]; ok {
		return v
	}
	var v float64
	if nm1 == 0 {
		v = -0.5
	} else {
		nm2 := nm1 - 1
		v = -(1 + gQbfs(nm2)*hQbfs(nm2)) / fQbfs(nm1)
	}
	gQbfsMemo[nm1] = v
	return v
}

func hQbfs(nm2 int) float64 {
	if v, ok := hQbfsMemo[nm2]; ok {
		return v
	}
	n := nm2 + 2
	v := -float64(n*(n-1)) / (2 * fQbfs(nm2))
	hQbfsMemo[nm2] = v
	return v
}

// changeBasisQbfsToPn converts Qbfs coefficients cs into the Jacobi-basis
// coefficients bs consumed by the Clenshaw recursion below.
func changeBasisQbfsToPn(cs []float64) []float64 {
	bs := make([]float64, len(cs))
	M := len(bs) - 1
	if M < 0 {
		return bs
	}
	bs[M] = cs[M] / fQbfs(M)
	if M == 0 {
		return bs
	}
	g, f := gQbfs(M-1), fQbfs(M-1)
	bs[M-1] = (cs[M-1] - g*bs[M]) / f
	for i := M - 2; i >= 0; i-- {
		bs[i] = (cs[i] - gQbfs(i)*bs[i+1] - hQbfs(i)*bs[i+2]) / fQbfs(i)
	}
	return bs
}

// clenshawQbfs evaluates Sum_n cs[n] Q_bfs_n(usq) via Clenshaw's method.
func clenshawQbfs(cs []float64, usq float64) float64 {
	bs := changeBasisQbfsToPn(cs)
	M := len(bs) - 1
	if M < 0 {
		return 0
	}
	prefix := 2 - 4*usq
	alphas := make([]float64, M+1)
	alphas[M] = bs[M]
	if M > 0 {
		alphas[M-1] = bs[M-1] + prefix*alphas[M]
	}
	for i := M - 2; i >= 0; i-- {
		alphas[i] = bs[i] + prefix*alphas[i+1] - alphas[i+2]
	}
	var s float64
	if M > 0 {
		s = 2 * (alphas[0] + alphas[1])
	} else {
		s = 2 * alphas[0]
	}
	return s
}

// ForbesQbfs is the rotationally symmetric Forbes departure on a base
// conic: z = z_base + u²(1-u²)·Σ cs[n] Q_bfs_n(u²).
type ForbesQbfs struct {
	Radius     float64
	Conic      float64
	Coeffs     []float64
	NormRadius float64
	Tol        float64
	MaxIter    int
}

func NewForbesQbfs(radius, conic float64, coeffs []float64, normRadius float64) *ForbesQbfs {
	if normRadius == 0 {
		normRadius = 1
	}
	return &ForbesQbfs{Radius: radius, Conic: conic, Coeffs: coeffs, NormRadius: normRadius, Tol: 1e-10, MaxIter: 100}
}

func (s *ForbesQbfs) Kind() string { return "forbes_qbfs" }

func (s *ForbesQbfs) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

func (s *ForbesQbfs) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for i := range x {
		r2 := x[i]*x[i] + y[i]*y[i]
		zbase := conicSag(c, s.Conic, r2)
		if len(s.Coeffs) == 0 {
			out[i] = zbase
			continue
		}
		u := math.Sqrt(r2) / s.NormRadius
		if u > 1 {
			out[i] = zbase
			continue
		}
		usq := u * u
		polySum := clenshawQbfs(s.Coeffs, usq)
		prefactor := usq * (1 - usq)
		var departure float64
		switch {
		case math.IsInf(s.Radius, 0):
			departure = prefactor * polySum
		case s.Conic == 0:
			phiSq := 1 - r2/(s.Radius*s.Radius)
			if phiSq <= 0 {
				phiSq = 1e-12
			}
			departure = prefactor * polySum / math.Sqrt(phiSq)
		default:
			cc := 1 / s.Radius
			num := 1 - cc*cc*s.Conic*r2
			if num < 0 {
				num = 0
			}
			den := 1 - cc*cc*(s.Conic+1)*r2
			if den <= 0 {
				den = 1e-12
			}
			departure = prefactor * (math.Sqrt(num) / math.Sqrt(den)) * polySum
		}
		out[i] = zbase + departure
	}
}

// Normal is computed by forward numerical differencing of Sag, matching
// original_source's ForbesGeometry._surface_normal (the source prefers
// numerical differentiation here for consistency with its own Clenshaw sag
// evaluation rather than differentiating the recursion analytically).
func (s *ForbesQbfs) Normal(x, y []float64, nx, ny, nz []float64) {
	forbesNumericalNormal(s.Sag, x, y, nx, ny, nz)
}

func forbesNumericalNormal(sag func(x, y []float64, out []float64), x, y []float64, nx, ny, nz []float64) {
	n := len(x)
	const eps = 1e-8
	z0 := make([]float64, n)
	zdx := make([]float64, n)
	zdy := make([]float64, n)
	xdx := make([]float64, n)
	ydy := make([]float64, n)
	for i := 0; i < n; i++ {
		xdx[i] = x[i] + eps
		ydy[i] = y[i] + eps
	}
	sag(x, y, z0)
	sag(xdx, y, zdx)
	sag(x, ydy, zdy)
	for i := 0; i < n; i++ {
		dfdx := (zdx[i] - z0[i]) / eps
		dfdy := (zdy[i] - z0[i]) / eps
		mag := math.Sqrt(dfdx*dfdx + dfdy*dfdy + 1)
		if mag < 1e-12 {
			mag = 1
		}
		nx[i] = dfdx / mag
		ny[i] = dfdy / mag
		nz[i] = -1 / mag
	}
}

func (s *ForbesQbfs) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *ForbesQbfs) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"coefficients": s.Coeffs, "norm_radius": s.NormRadius,
		"tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func forbesQbfsFromMap(m map[string]interface{}) (Surface, error) {
	s := NewForbesQbfs(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0),
		mgetfSlice(m, "coefficients"), mgetf(m, "norm_radius", 1))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}

// ForbesQ2D generalizes ForbesQbfs with non-rotationally-symmetric
// azimuthal terms: for each azimuthal order m (1-indexed by position in
// ACoeffs/BCoeffs), a radial Qpoly sum modulates cos(m·theta)/sin(m·theta).
// M0Coeffs plays the role of ForbesQbfs.Coeffs (the m=0 term).
type ForbesQ2D struct {
	Radius     float64
	Conic      float64
	M0Coeffs   []float64
	ACoeffs    [][]float64 // ACoeffs[m-1] are the cos(m theta) radial coefficients
	BCoeffs    [][]float64 // BCoeffs[m-1] are the sin(m theta) radial coefficients
	NormRadius float64
	Tol        float64
	MaxIter    int
}

func NewForbesQ2D(radius, conic float64, m0 []float64, a, b [][]float64, normRadius float64) *ForbesQ2D {
	if normRadius == 0 {
		normRadius = 1
	}
	return &ForbesQ2D{Radius: radius, Conic: conic, M0Coeffs: m0, ACoeffs: a, BCoeffs: b, NormRadius: normRadius, Tol: 1e-10, MaxIter: 100}
}

func (s *ForbesQ2D) Kind() string { return "forbes_q2d" }

func (s *ForbesQ2D) curvature() float64 {
	if math.IsInf(s.Radius, 0) || s.Radius == 0 {
		return 0
	}
	return 1 / s.Radius
}

var gQ2DMemo = map[[2]int]float64{}
var fQ2DMemo = map[[2]int]float64{}

func factorial2(n int) float64 {
	if n <= 1 {
		return 1
	}
	r := 1.0
	for k := n; k > 1; k -= 2 {
		r *= float64(k)
	}
	return r
}

func factorial(n int) float64 {
	if n <= 1 {
		return 1
	}
	r := 1.0
	for k := 2; k <= n; k++ {
		r *= float64(k)
	}
	return r
}

func gammaQ2D(n, m int) float64 {
	if n == 1 && m == 2 {
		return 3.0 / 8.0
	}
	if n == 1 && m > 2 {
		mm1 := m - 1
		coef := float64(2*mm1+1) / float64(2*(mm1-1))
		return coef * gammaQ2D(1, mm1)
	}
	nm1 := n - 1
	num := float64((nm1+1)*(2*m+2*nm1-1))
	den := float64((m + nm1 - 2) * (2*nm1 + 1))
	return (num / den) * gammaQ2D(nm1, m)
}

func gQ2D(n, m int) float64 {
	if n == 0 {
		num := factorial2(2*m - 1)
		den := math.Pow(2, float64(m+1)) * factorial(m-1)
		return num / den
	}
	if n > 0 && m == 1 {
		t1 := -float64((2*n*n-1)*(n*n-1)) / float64(8*(4*n*n-1))
		kd := 0.0
		if n == 1 {
			kd = 1.0 / 24.0
		}
		return t1 - kd
	}
	nt1 := float64(2*n*(m+n-1) - m)
	nt2 := float64((n + 1) * (2*m + 2*n - 1))
	num := nt1 * nt2
	dt1 := float64((m + 2*n - 2) * (m + 2*n - 1))
	dt2 := float64((m + 2*n) * (2*n + 1))
	den := dt1 * dt2
	return (-num / den) * gammaQ2D(n, m)
}

func fQ2D(n, m int) float64 {
	key := [2]int{n, m}
	if v, ok := fQ2DMemo[key]; ok {
		return v
	}
	var v float64
	if n == 0 {
		v = math.Sqrt(capF(0, m))
	} else {
		gg := capG(n-1, m)
		v = math.Sqrt(capF(n, m) - gg*gg)
	}
	fQ2DMemo[key] = v
	return v
}

func capG(n, m int) float64 {
	key := [2]int{n, m}
	if v, ok := gQ2DMemo[key]; ok {
		return v
	}
	v := gQ2D(n, m) / fQ2D(n, m)
	gQ2DMemo[key] = v
	return v
}

func capF(n, m int) float64 {
	if n == 0 && m == 1 {
		return 0.25
	}
	if n == 0 {
		num := float64(m*m) * factorial2(2*m-3)
		den := math.Pow(2, float64(m+1)) * factorial(m-1)
		return num / den
	}
	if n > 0 && m == 1 {
		t1 := float64(4*(n-1)*(n-1)*n*n+1) / float64(8*(2*n-1)*(2*n-1))
		kd := 0.0
		if n == 1 {
			kd = 11.0 / 32.0
		}
		return t1 + kd
	}
	chi := m + n - 2
	nt1 := float64(2*n*chi) * float64(3-5*m+4*n*chi)
	nt2 := float64(m*m) * float64(3-m+4*n*chi)
	num := nt1 + nt2
	dt1 := float64((m + 2*n - 3) * (m + 2*n - 2))
	dt2 := float64((m + 2*n - 1) * (2*n - 1))
	den := dt1 * dt2
	return (num / den) * gammaQ2D(n, m)
}

func changeBasisQ2DToPnm(cs []float64, m int) []float64 {
	ds := make([]float64, len(cs))
	N := len(cs) - 1
	if N < 0 {
		return ds
	}
	ds[N] = cs[N] / fQ2D(N, m)
	for n := N - 1; n >= 0; n-- {
		ds[n] = (cs[n] - capG(n, m)*ds[n+1]) / fQ2D(n, m)
	}
	return ds
}

func abcQ2D(n, m int) (float64, float64, float64) {
	D := float64((4*n*n-1)*(m+n-2)*(m+2*n-3))
	if D == 0 {
		D = 1e-99
	}
	t1 := float64((2*n - 1) * (m + 2*n - 2))
	t2 := float64(4*n*(m+n-2) + (m-3)*(2*m-1))
	A := (t1 * t2) / D
	num := -2 * float64((2*n-1)*(m+2*n-3)*(m+2*n-2)*(m+2*n-1))
	B := num / D
	num2 := float64(n*(2*n-3)*(m+2*n-1)) * float64(2*m+2*n-3)
	C := num2 / D
	return A, B, C
}

func abcQ2DClenshaw(n, m int) (float64, float64, float64) {
	if m == 1 {
		switch n {
		case 0:
			return 2, -1, 0
		case 1:
			return -4.0 / 3, -8.0 / 3, -11.0 / 3
		case 2:
			return 9.0 / 5, -24.0 / 5, 0
		}
	}
	if m == 2 && n == 0 {
		return 3, -2, 0
	}
	if m == 3 && n == 0 {
		return 5, -4, 0
	}
	return abcQ2D(n, m)
}

func clenshawQ2D(cns []float64, m int, usq float64) float64 {
	ds := changeBasisQ2DToPnm(cns, m)
	N := len(ds) - 1
	if N < 0 {
		return 0
	}
	alphas := make([]float64, N+1)
	alphas[N] = ds[N]
	if N == 0 {
		return alphas[0]
	}
	A, B, _ := abcQ2DClenshaw(N-1, m)
	alphas[N-1] = ds[N-1] + (A+B*usq)*alphas[N]
	for n := N - 2; n >= 0; n-- {
		A, B, _ := abcQ2DClenshaw(n, m)
		_, _, C := abcQ2DClenshaw(n+1, m)
		alphas[n] = ds[n] + (A+B*usq)*alphas[n+1] - C*alphas[n+2]
	}
	return alphas[0]
}

func (s *ForbesQ2D) Sag(x, y []float64, out []float64) {
	c := s.curvature()
	for i := range x {
		r2 := x[i]*x[i] + y[i]*y[i]
		zbase := conicSag(c, s.Conic, r2)
		rho := math.Sqrt(r2)
		u := rho / s.NormRadius
		if u > 1 || (len(s.M0Coeffs) == 0 && len(s.ACoeffs) == 0 && len(s.BCoeffs) == 0) {
			out[i] = zbase
			continue
		}
		usq := u * u
		theta := math.Atan2(y[i], x[i])

		polySum := 0.0
		if len(s.M0Coeffs) > 0 {
			polySum += clenshawQbfs(s.M0Coeffs, usq)
		}
		for mi := 0; mi < len(s.ACoeffs) || mi < len(s.BCoeffs); mi++ {
			m := mi + 1
			var a, b []float64
			if mi < len(s.ACoeffs) {
				a = s.ACoeffs[mi]
			}
			if mi < len(s.BCoeffs) {
				b = s.BCoeffs[mi]
			}
			if len(a) == 0 && len(b) == 0 {
				continue
			}
			um := math.Pow(u, float64(m))
			var sa, sb float64
			if len(a) > 0 {
				sa = 0.5 * clenshawQ2D(a, m, usq)
			}
			if len(b) > 0 {
				sb = 0.5 * clenshawQ2D(b, m, usq)
			}
			kernel := math.Cos(float64(m)*theta)*sa + math.Sin(float64(m)*theta)*sb
			polySum += um * kernel
		}
		prefactor := usq * (1 - usq)
		var departure float64
		switch {
		case math.IsInf(s.Radius, 0):
			departure = prefactor * polySum
		case s.Conic == 0:
			phiSq := 1 - r2/(s.Radius*s.Radius)
			if phiSq <= 0 {
				phiSq = 1e-12
			}
			departure = prefactor * polySum / math.Sqrt(phiSq)
		default:
			cc := 1 / s.Radius
			num := 1 - cc*cc*s.Conic*r2
			if num < 0 {
				num = 0
			}
			den := 1 - cc*cc*(s.Conic+1)*r2
			if den <= 0 {
				den = 1e-12
			}
			departure = prefactor * (math.Sqrt(num) / math.Sqrt(den)) * polySum
		}
		out[i] = zbase + departure
	}
}

func (s *ForbesQ2D) Normal(x, y []float64, nx, ny, nz []float64) {
	forbesNumericalNormal(s.Sag, x, y, nx, ny, nz)
}

func (s *ForbesQ2D) Distance(r RaySlice, out []float64, dead []bool) {
	newtonRaphsonDistance(s.Radius, s.Sag, r, out, dead, s.Tol, s.MaxIter)
}

func (s *ForbesQ2D) ToMap() map[string]interface{} {
	a := make([]interface{}, len(s.ACoeffs))
	for i, row := range s.ACoeffs {
		a[i] = row
	}
	b := make([]interface{}, len(s.BCoeffs))
	for i, row := range s.BCoeffs {
		b[i] = row
	}
	return map[string]interface{}{
		"type": s.Kind(), "radius": s.Radius, "conic": s.Conic,
		"m0_coefficients": s.M0Coeffs, "a_coefficients": a, "b_coefficients": b,
		"norm_radius": s.NormRadius, "tol": s.Tol, "max_iter": float64(s.MaxIter),
	}
}

func float64RowsFromMap(v interface{}) [][]float64 {
	rows, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = mgetfSliceRaw(row)
	}
	return out
}

func mgetfSliceRaw(v interface{}) []float64 {
	if arr, ok := v.([]float64); ok {
		return arr
	}
	if arr, ok := v.([]interface{}); ok {
		out := make([]float64, len(arr))
		for i, e := range arr {
			if f, ok := e.(float64); ok {
				out[i] = f
			}
		}
		return out
	}
	return nil
}

func forbesQ2DFromMap(m map[string]interface{}) (Surface, error) {
	s := NewForbesQ2D(mgetf(m, "radius", math.Inf(1)), mgetf(m, "conic", 0),
		mgetfSlice(m, "m0_coefficients"), float64RowsFromMap(m["a_coefficients"]),
		float64RowsFromMap(m["b_coefficients"]), mgetf(m, "norm_radius", 1))
	s.Tol = mgetf(m, "tol", 1e-10)
	if mi := mgetf(m, "max_iter", 100); mi > 0 {
		s.MaxIter = int(mi)
	}
	return s, nil
}
