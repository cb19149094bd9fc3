package model

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// PrimKind tags the primitive shape of a penetration.
type PrimKind int

const (
	PrimBox PrimKind = iota
	PrimCyl
	PrimExtrude
)

func (k PrimKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimCyl:
		return "cylinder"
	case PrimExtrude:
		return "extrude"
	}
	return "unknown"
}

// Penetration is a primitive solid subtracted from the members of its
// owning part. The fields used depend on Kind: Dims for boxes, P1/P2/R
// for cylinders, Profile and Depth for extrusions.
type Penetration struct {
	Name string
	GUID string
	Kind PrimKind

	Origin v3.Vec
	Dims   v3.Vec

	P1, P2 v3.Vec
	R      float64

	Profile *geom.CurvePoly
	Depth   float64

	unit units.Unit
}

// NewPrimBox creates a box penetration from its min corner and extents.
func NewPrimBox(name string, origin, dims v3.Vec, unit units.Unit) *Penetration {
	return &Penetration{
		Name: name, GUID: uuid.NewString(), Kind: PrimBox,
		Origin: origin, Dims: dims, unit: unit,
	}
}

// NewPrimCyl creates a cylinder penetration spanning p1 to p2.
func NewPrimCyl(name string, p1, p2 v3.Vec, r float64, unit units.Unit) *Penetration {
	return &Penetration{
		Name: name, GUID: uuid.NewString(), Kind: PrimCyl,
		P1: p1, P2: p2, R: r, unit: unit,
	}
}

// NewPrimExtrude creates an extruded penetration from a closed profile
// curve and a depth along the curve normal.
func NewPrimExtrude(name string, profile *geom.CurvePoly, depth float64, unit units.Unit) (*Penetration, error) {
	if profile == nil || !profile.Closed {
		return nil, fmt.Errorf("penetration %q needs a closed profile curve", name)
	}
	return &Penetration{
		Name: name, GUID: uuid.NewString(), Kind: PrimExtrude,
		Profile: profile, Depth: depth, unit: unit,
	}, nil
}

func (p *Penetration) Unit() units.Unit { return p.unit }

// SetUnits rescales every length-valued field of the primitive.
func (p *Penetration) SetUnits(u units.Unit) error {
	if p.unit == u {
		return nil
	}
	scale := units.ScaleFactor(p.unit, u)
	p.Origin = p.Origin.MulScalar(scale)
	p.Dims = p.Dims.MulScalar(scale)
	p.P1 = p.P1.MulScalar(scale)
	p.P2 = p.P2.MulScalar(scale)
	p.R *= scale
	p.Depth *= scale
	if p.Profile != nil {
		if err := p.Profile.Scale(scale, units.PointTol(u)); err != nil {
			return fmt.Errorf("penetration %q profile: %w", p.Name, err)
		}
	}
	p.unit = u
	return nil
}
