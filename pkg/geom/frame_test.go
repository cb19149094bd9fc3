package geom

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const frameTol = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// checkOrthonormal asserts the three frame vectors are unit length and
// pairwise orthogonal within frameTol.
func checkOrthonormal(t *testing.T, f Frame) {
	t.Helper()
	for name, v := range map[string]v3.Vec{"xvec": f.XVec, "yvec": f.YVec, "up": f.Up} {
		if !almostEqual(v.Length(), 1.0, frameTol) {
			t.Errorf("%s is not unit length: |%v| = %v", name, v, v.Length())
		}
	}
	pairs := []struct {
		name string
		dot  float64
	}{
		{"xvec.yvec", f.XVec.Dot(f.YVec)},
		{"yvec.up", f.YVec.Dot(f.Up)},
		{"up.xvec", f.Up.Dot(f.XVec)},
	}
	for _, p := range pairs {
		if !almostEqual(p.dot, 0.0, frameTol) {
			t.Errorf("%s = %v, want 0", p.name, p.dot)
		}
	}
}

func TestDeriveFrameOrthogonality(t *testing.T) {
	up010 := v3.Vec{Y: 1}
	upDiag := v3.Vec{X: 0, Y: 0.3, Z: 1}

	cases := []struct {
		name  string
		p1    v3.Vec
		p2    v3.Vec
		up    *v3.Vec
		angle float64
	}{
		{"horizontal x", v3.Vec{}, v3.Vec{X: 4}, nil, 0},
		{"horizontal y", v3.Vec{}, v3.Vec{Y: 2.5}, nil, 0},
		{"vertical", v3.Vec{}, v3.Vec{Z: 3}, nil, 0},
		{"vertical down", v3.Vec{Z: 3}, v3.Vec{}, nil, 0},
		{"diagonal", v3.Vec{X: 1, Y: 1, Z: 1}, v3.Vec{X: 4, Y: -2, Z: 7}, nil, 0},
		{"rotated 45", v3.Vec{}, v3.Vec{X: 4}, nil, 45},
		{"rotated 90", v3.Vec{}, v3.Vec{X: 4}, nil, 90},
		{"rotated 270", v3.Vec{}, v3.Vec{X: 4}, nil, 270},
		{"explicit up", v3.Vec{}, v3.Vec{X: 4}, &v3.Vec{Z: 1}, 0},
		{"explicit up sideways", v3.Vec{}, v3.Vec{X: 4}, &up010, 0},
		{"explicit up tilted", v3.Vec{}, v3.Vec{X: 4}, &upDiag, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DeriveFrame(tc.p1, tc.p2, tc.up, tc.angle)
			if err != nil {
				t.Fatalf("DeriveFrame: %v", err)
			}
			checkOrthonormal(t, f)

			// xvec must equal the normalized endpoint delta.
			want := UnitVector(tc.p2.Sub(tc.p1))
			if !f.XVec.Equals(want, frameTol) {
				t.Errorf("xvec = %v, want %v", f.XVec, want)
			}
		})
	}
}

func TestDeriveFrameCanonicalUp(t *testing.T) {
	// Horizontal member: canonical up is global Z.
	f, err := DeriveFrame(v3.Vec{}, v3.Vec{X: 4}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Up.Equals(GlobalZ, frameTol) {
		t.Errorf("horizontal member up = %v, want global Z", f.Up)
	}

	// Vertical member: canonical up falls back to global X.
	f, err = DeriveFrame(v3.Vec{}, v3.Vec{Z: 3}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Up.Equals(GlobalX, frameTol) {
		t.Errorf("vertical member up = %v, want global X", f.Up)
	}
}

func TestDeriveFrameAngleRotation(t *testing.T) {
	// 90 degrees about the x axis turns canonical up (Z) into -Y.
	f, err := DeriveFrame(v3.Vec{}, v3.Vec{X: 1}, nil, 90)
	if err != nil {
		t.Fatal(err)
	}
	want := v3.Vec{Y: -1}
	if !f.Up.Equals(want, frameTol) {
		t.Errorf("up after 90deg rotation = %v, want %v", f.Up, want)
	}
	if f.Angle != 90 {
		t.Errorf("angle = %v, want 90", f.Angle)
	}
}

func TestDeriveFrameSnapsNoise(t *testing.T) {
	// A 360 degree rotation reintroduces tiny components; they must be
	// snapped to exact zero.
	f, err := DeriveFrame(v3.Vec{}, v3.Vec{X: 1}, nil, 360)
	if err != nil {
		t.Fatal(err)
	}
	if f.Up.X != 0 || f.Up.Y != 0 {
		t.Errorf("up components not snapped to zero: %v", f.Up)
	}
}

func TestDeriveFrameDegenerate(t *testing.T) {
	points := []v3.Vec{{}, {X: 1, Y: 2, Z: 3}, {X: -0.5}}
	for _, p := range points {
		_, err := DeriveFrame(p, p, nil, 0)
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("DeriveFrame(%v, %v): want ErrDegenerateGeometry, got %v", p, p, err)
		}
	}
}

func TestDeriveFrameUpParallelToAxis(t *testing.T) {
	cases := []struct {
		name string
		up   v3.Vec
	}{
		{"parallel", v3.Vec{X: 1}},
		{"anti-parallel", v3.Vec{X: -1}},
		{"anti-parallel scaled", v3.Vec{X: -7}},
		{"nearly parallel", v3.Vec{X: 1, Y: 1e-5}},
		{"zero", v3.Vec{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveFrame(v3.Vec{}, v3.Vec{X: 4}, &tc.up, 0)
			if !errors.Is(err, ErrInvalidUpVector) {
				t.Errorf("up %v: want ErrInvalidUpVector, got %v", tc.up, err)
			}
		})
	}
}

func TestDeriveFrameBackComputedAngle(t *testing.T) {
	up := v3.Vec{Z: 1}
	f, err := DeriveFrame(v3.Vec{}, v3.Vec{X: 4}, &up, 0)
	if err != nil {
		t.Fatal(err)
	}
	// up = Z, yvec = Z x X = Y: the reported angle is 90 degrees.
	if !almostEqual(f.Angle, 90, 1e-9) {
		t.Errorf("back-computed angle = %v, want 90", f.Angle)
	}
}
