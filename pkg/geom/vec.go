// Package geom provides the parametric geometry primitives for Ferrite:
// nodes, placements, orientation frames and boundary curves. Vector math
// builds on the sdfx vector types so that downstream solid generation can
// consume the same values without conversion.
package geom

import (
	"math"
	"sort"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Precision is the number of decimals kept by Roundoff.
const Precision = 6

// zeroSnapTol is the magnitude below which vector components are snapped
// to exact zero, preventing noise accumulation in derived frames.
const zeroSnapTol = 1e-8

// Canonical global axes.
var (
	GlobalX = v3.Vec{X: 1}
	GlobalY = v3.Vec{Y: 1}
	GlobalZ = v3.Vec{Z: 1}
)

// Roundoff rounds x to Precision decimals. Negative zero is normalized.
func Roundoff(x float64) float64 {
	p := math.Pow(10, Precision)
	r := math.Round(x*p) / p
	if r == 0 {
		return 0
	}
	return r
}

// SnapSmall zeroes out near-zero components of v and rounds the rest.
func SnapSmall(v v3.Vec) v3.Vec {
	snap := func(x float64) float64 {
		if math.Abs(x) < zeroSnapTol {
			return 0
		}
		return Roundoff(x)
	}
	return v3.Vec{X: snap(v.X), Y: snap(v.Y), Z: snap(v.Z)}
}

// UnitVector returns v scaled to unit length. The zero vector is returned
// unchanged; callers validate degeneracy before normalizing.
func UnitVector(v v3.Vec) v3.Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.DivScalar(l)
}

// IsParallel reports whether a and b are parallel (or anti-parallel)
// within the given angular tolerance.
func IsParallel(a, b v3.Vec, tol float64) bool {
	cross := UnitVector(a).Cross(UnitVector(b))
	return cross.Length() < tol
}

// AngleBetween returns the angle between a and b in radians.
func AngleBetween(a, b v3.Vec) float64 {
	d := UnitVector(a).Dot(UnitVector(b))
	// Clamp against floating point drift before acos.
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// CalcZVec returns a canonical reference "up" for the longitudinal
// direction xvec: global Z unless xvec is nearly parallel to Z, in which
// case global X is used instead.
func CalcZVec(xvec v3.Vec) v3.Vec {
	if IsParallel(xvec, GlobalZ, 1e-5) {
		return GlobalX
	}
	return GlobalZ
}

// CalcYVec derives the transverse direction from the longitudinal
// direction and an up vector. yvec = up x xvec keeps (xvec, yvec, up)
// right-handed.
func CalcYVec(xvec, up v3.Vec) v3.Vec {
	return UnitVector(up.Cross(xvec))
}

// RotateAbout rotates v about the given axis by angle degrees.
func RotateAbout(v, axis v3.Vec, angleDeg float64) v3.Vec {
	m := sdf.Rotate3d(UnitVector(axis), angleDeg*math.Pi/180.0)
	return m.MulPosition(v)
}

// SortPointsByDist returns the points sorted by distance from origin.
// The sort is stable so that equidistant candidates keep input order.
func SortPointsByDist(origin v3.Vec, points []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sub(origin).Length2() < out[j].Sub(origin).Length2()
	})
	return out
}

// IntersectCalc solves for the parameters (s, t) such that a+s*ab and
// c+t*cd meet, for two coplanar lines given by point+direction. Used when
// joining wall segments at corners.
func IntersectCalc(a, c, ab, cd v3.Vec) (s, t float64) {
	// Solve the 2x2 system from the two dominant axes.
	den := ab.X*cd.Y - ab.Y*cd.X
	if math.Abs(den) < 1e-12 {
		den = ab.X*cd.Z - ab.Z*cd.X
		if math.Abs(den) < 1e-12 {
			den = ab.Y*cd.Z - ab.Z*cd.Y
			s = ((c.Y-a.Y)*cd.Z - (c.Z-a.Z)*cd.Y) / den
			t = ((c.Y-a.Y)*ab.Z - (c.Z-a.Z)*ab.Y) / den
			return s, t
		}
		s = ((c.X-a.X)*cd.Z - (c.Z-a.Z)*cd.X) / den
		t = ((c.X-a.X)*ab.Z - (c.Z-a.Z)*ab.X) / den
		return s, t
	}
	s = ((c.X-a.X)*cd.Y - (c.Y-a.Y)*cd.X) / den
	t = ((c.X-a.X)*ab.Y - (c.Y-a.Y)*ab.X) / den
	return s, t
}

// NormalToPoints returns the unit normal of the plane spanned by the
// first three non-collinear points.
func NormalToPoints(points []v3.Vec) v3.Vec {
	if len(points) < 3 {
		return v3.Vec{}
	}
	p0 := points[0]
	v1 := points[1].Sub(p0)
	for _, p := range points[2:] {
		v2 := p.Sub(p0)
		n := v1.Cross(v2)
		if n.Length() > 1e-12 {
			return UnitVector(n)
		}
	}
	return v3.Vec{}
}
