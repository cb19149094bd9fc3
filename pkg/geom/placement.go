package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// OrthoTol is the angular tolerance for placement basis validation.
const OrthoTol = 1e-6

// Placement is an origin plus three orthonormal basis vectors defining a
// local coordinate frame. A placement may reference a parent placement,
// in which case its coordinates are local to the parent.
type Placement struct {
	Origin v3.Vec
	XDir   v3.Vec
	YDir   v3.Vec
	ZDir   v3.Vec
	Parent *Placement
}

// NewPlacement returns the identity placement aligned with the global axes.
func NewPlacement() Placement {
	return Placement{XDir: GlobalX, YDir: GlobalY, ZDir: GlobalZ}
}

// PlacementFrom builds a placement from an origin and two basis vectors,
// deriving the third as their cross product.
func PlacementFrom(origin, xdir, zdir v3.Vec) Placement {
	x := UnitVector(xdir)
	z := UnitVector(zdir)
	return Placement{Origin: origin, XDir: x, YDir: UnitVector(z.Cross(x)), ZDir: z}
}

// IsValid reports whether the basis vectors are mutually orthogonal and of
// unit length within tolerance.
func (p Placement) IsValid(tol float64) bool {
	for _, d := range []v3.Vec{p.XDir, p.YDir, p.ZDir} {
		if l := d.Length(); l < 1-tol || l > 1+tol {
			return false
		}
	}
	dots := []float64{p.XDir.Dot(p.YDir), p.YDir.Dot(p.ZDir), p.ZDir.Dot(p.XDir)}
	for _, d := range dots {
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

// ToGlobal maps a point given in this placement's local coordinates to the
// parent frame (or the global frame when no parent is set).
func (p Placement) ToGlobal(local v3.Vec) v3.Vec {
	return p.Origin.
		Add(p.XDir.MulScalar(local.X)).
		Add(p.YDir.MulScalar(local.Y)).
		Add(p.ZDir.MulScalar(local.Z))
}

// Absolute composes the placement chain down to the global frame.
func (p Placement) Absolute() Placement {
	if p.Parent == nil {
		return p
	}
	parent := p.Parent.Absolute()
	return Placement{
		Origin: parent.ToGlobal(p.Origin),
		XDir:   parent.rotate(p.XDir),
		YDir:   parent.rotate(p.YDir),
		ZDir:   parent.rotate(p.ZDir),
	}
}

// rotate maps a direction (no translation) through the placement basis.
func (p Placement) rotate(local v3.Vec) v3.Vec {
	return p.XDir.MulScalar(local.X).
		Add(p.YDir.MulScalar(local.Y)).
		Add(p.ZDir.MulScalar(local.Z))
}

// Scale rescales the placement origin. Directions are dimensionless and
// are left untouched.
func (p *Placement) Scale(factor float64) {
	p.Origin = p.Origin.MulScalar(factor)
}
