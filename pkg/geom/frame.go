package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Error kinds raised by frame derivation. These represent programmer or
// data errors in the structural model and are never retried.
var (
	ErrDegenerateGeometry = fmt.Errorf("degenerate geometry")
	ErrInvalidUpVector    = fmt.Errorf("invalid up vector")
)

// upAxisTol is the minimum separation between an explicit up hint and the
// longitudinal direction.
const upAxisTol = 1e-3

// Frame is the local coordinate frame of a linear member: longitudinal
// (XVec), transverse (YVec) and up directions, all unit length and
// mutually orthogonal, plus the rotation angle in degrees about XVec.
type Frame struct {
	XVec  v3.Vec
	YVec  v3.Vec
	Up    v3.Vec
	Angle float64
}

// DeriveFrame computes the local frame of a member running from p1 to p2.
//
// With no up hint, the canonical reference up is global Z (or global X
// when the member is vertical); a nonzero angle rotates it about the
// member axis. With an explicit up hint the hint is used directly after
// validating it is distinguishable from the member axis, and the angle is
// back-computed as the angle between the hint and the derived yvec.
//
// Pure function of its inputs; callers cache the result on the member.
func DeriveFrame(p1, p2 v3.Vec, up *v3.Vec, angleDeg float64) (Frame, error) {
	delta := p2.Sub(p1)
	if delta.Length() == 0 {
		return Frame{}, fmt.Errorf("%w: beam endpoints are coincident at (%g, %g, %g)",
			ErrDegenerateGeometry, p1.X, p1.Y, p1.Z)
	}
	xvec := UnitVector(delta)

	var yvec v3.Vec
	angle := angleDeg

	if up == nil {
		gup := CalcZVec(xvec)
		if angleDeg != 0 {
			gup = RotateAbout(gup, xvec, angleDeg)
		}
		yvec = SnapSmall(CalcYVec(xvec, gup))
	} else {
		// Cross with the axis catches parallel, anti-parallel and zero
		// hints alike; any of them would collapse yvec to zero.
		if xvec.Cross(UnitVector(*up)).Length() < upAxisTol {
			return Frame{}, fmt.Errorf("%w: up direction is parallel to the beam axis",
				ErrInvalidUpVector)
		}
		yvec = SnapSmall(CalcYVec(xvec, *up))
		angle = AngleBetween(*up, yvec) * 180 / math.Pi
	}

	// Re-orthogonalize up from the derived pair so the output triple is
	// orthonormal even when the reference up is skew to the member axis.
	upVec := SnapSmall(UnitVector(xvec.Cross(yvec)))

	return Frame{XVec: SnapSmall(xvec), YVec: yvec, Up: upVec, Angle: angle}, nil
}
