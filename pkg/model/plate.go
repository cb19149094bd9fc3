package model

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// Plate is a planar entity: a closed boundary polygon with a thickness.
type Plate struct {
	Name string
	GUID string
	ID   int

	poly     *geom.CurvePoly
	t        float64
	material *Material

	unit   units.Unit
	parent *Part
	bbox   *[2]v3.Vec

	Penetrations []*Penetration
}

// PlateOption configures optional plate attributes.
type PlateOption func(*Plate)

// WithPlateMaterial overrides the default S420 material.
func WithPlateMaterial(mat *Material) PlateOption {
	return func(p *Plate) { p.material = mat }
}

func newPlate(name string, t float64, unit units.Unit, opts ...PlateOption) (*Plate, error) {
	p := &Plate{Name: name, GUID: uuid.NewString(), t: t, unit: unit}
	for _, opt := range opts {
		opt(p)
	}
	if p.material == nil {
		mat, err := NewMaterial("S420", "S420", unit)
		if err != nil {
			return nil, err
		}
		p.material = mat
	}
	return p, nil
}

// NewPlate creates a plate from 2D boundary points in the plane given by
// origin, xdir and normal.
func NewPlate(name string, points2d []v2.Vec, t float64, origin, xdir, normal v3.Vec, unit units.Unit, opts ...PlateOption) (*Plate, error) {
	p, err := newPlate(name, t, unit, opts...)
	if err != nil {
		return nil, err
	}
	poly, err := geom.NewCurvePoly(points2d, origin, xdir, normal, true, units.ClosureTol(unit))
	if err != nil {
		return nil, fmt.Errorf("plate %q: %w", name, err)
	}
	p.poly = poly
	return p, nil
}

// NewPlateFrom3D creates a plate from coplanar 3D boundary points,
// deriving the plane from the points.
func NewPlateFrom3D(name string, points3d []v3.Vec, t float64, unit units.Unit, opts ...PlateOption) (*Plate, error) {
	p, err := newPlate(name, t, unit, opts...)
	if err != nil {
		return nil, err
	}
	poly, err := geom.NewCurvePolyFrom3D(points3d)
	if err != nil {
		return nil, fmt.Errorf("plate %q: %w", name, err)
	}
	p.poly = poly
	return p, nil
}

func (p *Plate) Poly() *geom.CurvePoly { return p.poly }
func (p *Plate) T() float64            { return p.t }
func (p *Plate) Material() *Material   { return p.material }
func (p *Plate) Unit() units.Unit      { return p.unit }
func (p *Plate) Parent() *Part         { return p.parent }

// Normal returns the plate plane normal.
func (p *Plate) Normal() v3.Vec { return p.poly.Normal() }

// SetT changes the thickness and invalidates the bounding box.
func (p *Plate) SetT(t float64) {
	p.t = t
	p.bbox = nil
}

// AddPenetration attaches a primitive cut-out to this plate.
func (p *Plate) AddPenetration(pen *Penetration) {
	p.Penetrations = append(p.Penetrations, pen)
	p.bbox = nil
}

// BoundingBox returns the extents of the boundary polygon extruded by
// the plate thickness along its normal. Lazily cached.
func (p *Plate) BoundingBox() (min, max v3.Vec) {
	if p.bbox != nil {
		return p.bbox[0], p.bbox[1]
	}
	mn, mx := p.poly.BBox()
	ext := p.poly.Normal().MulScalar(p.t)
	mn = mn.Min(mn.Add(ext))
	mx = mx.Max(mx.Add(ext))
	p.bbox = &[2]v3.Vec{mn, mx}
	return mn, mx
}

// VolumeCOG returns the midpoint of the extruded bounding box, a cheap
// stand-in for the volumetric centre of gravity.
func (p *Plate) VolumeCOG() v3.Vec {
	mn, mx := p.BoundingBox()
	return mn.Add(mx).MulScalar(0.5)
}

// SetUnits rescales the plate boundary, thickness and material.
func (p *Plate) SetUnits(u units.Unit) error {
	if p.unit == u {
		return nil
	}
	scale := units.ScaleFactor(p.unit, u)
	if err := p.poly.Scale(scale, units.PointTol(u)); err != nil {
		return fmt.Errorf("plate %q: %w", p.Name, err)
	}
	p.t *= scale
	if err := p.material.SetUnits(u); err != nil {
		return err
	}
	for _, pen := range p.Penetrations {
		if err := pen.SetUnits(u); err != nil {
			return err
		}
	}
	p.bbox = nil
	p.unit = u
	return nil
}

func (p *Plate) String() string {
	return fmt.Sprintf("Plate(%s, t: %g)", p.Name, p.t)
}
