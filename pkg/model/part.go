package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/sections"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// RemovableFromContainer is the capability every containable entity
// implements so a container can drop it without inspecting its concrete
// kind.
type RemovableFromContainer interface {
	RemoveFromContainer(c *Part) error
}

// Part is a named container owning members, plates, walls, joints and
// sub-parts. Sections and materials referenced by more than one member
// are deduplicated into the part-level lists with back-references.
type Part struct {
	Name string
	GUID string

	Beams  []*Beam
	Plates []*Plate
	Walls  []*Wall
	Joints []*Joint
	Parts  []*Part

	Sections  []*sections.Section
	Materials []*Material

	Penetrations []*Penetration

	unit   units.Unit
	parent *Part
}

// NewPart creates an empty container.
func NewPart(name string, unit units.Unit) *Part {
	return &Part{Name: name, GUID: uuid.NewString(), unit: unit}
}

// Assembly is the root of an ownership tree.
type Assembly struct {
	Part
}

// NewAssembly creates an empty root container.
func NewAssembly(name string, unit units.Unit) *Assembly {
	return &Assembly{Part: Part{Name: name, GUID: uuid.NewString(), unit: unit}}
}

func (p *Part) Unit() units.Unit { return p.unit }
func (p *Part) Parent() *Part    { return p.parent }

// dedupSection swaps a member's section for an existing equal one in
// this container, registering a back-reference either way.
func (p *Part) dedupSection(sec *sections.Section, owner any) *sections.Section {
	for _, existing := range p.Sections {
		if existing.Equal(sec) {
			existing.Refs = append(existing.Refs, owner)
			return existing
		}
	}
	if err := sec.SetID(len(p.Sections) + 1); err == nil {
		sec.Refs = append(sec.Refs, owner)
		p.Sections = append(p.Sections, sec)
	}
	return sec
}

func (p *Part) dedupMaterial(mat *Material, owner any) *Material {
	for _, existing := range p.Materials {
		if existing.Equal(mat) {
			existing.Refs = append(existing.Refs, owner)
			return existing
		}
	}
	mat.Refs = append(mat.Refs, owner)
	p.Materials = append(p.Materials, mat)
	return mat
}

// AddBeam adds a member, converting its unit to the container's and
// deduplicating its section and material.
func (p *Part) AddBeam(b *Beam) (*Beam, error) {
	if err := b.SetUnits(p.unit); err != nil {
		return nil, err
	}
	b.section = p.dedupSection(b.section, b)
	if b.taper != nil {
		b.taper = p.dedupSection(b.taper, b)
	}
	b.material = p.dedupMaterial(b.material, b)
	b.parent = p
	p.Beams = append(p.Beams, b)
	return b, nil
}

// AddPlate adds a plate, deduplicating its material.
func (p *Part) AddPlate(pl *Plate) (*Plate, error) {
	if err := pl.SetUnits(p.unit); err != nil {
		return nil, err
	}
	pl.material = p.dedupMaterial(pl.material, pl)
	pl.parent = p
	pl.ID = len(p.Plates) + 1
	p.Plates = append(p.Plates, pl)
	return pl, nil
}

// AddWall adds a wall panel.
func (p *Part) AddWall(w *Wall) (*Wall, error) {
	if err := w.SetUnits(p.unit); err != nil {
		return nil, err
	}
	w.parent = p
	p.Walls = append(p.Walls, w)
	return w, nil
}

// AddJoint registers a joint concept in this container.
func (p *Part) AddJoint(j *Joint) *Joint {
	p.Joints = append(p.Joints, j)
	return j
}

// AddPart nests a sub-container.
func (p *Part) AddPart(child *Part) (*Part, error) {
	if err := child.SetUnits(p.unit); err != nil {
		return nil, err
	}
	child.parent = p
	p.Parts = append(p.Parts, child)
	return child, nil
}

// AddPenetration attaches a primitive cut-out at container level. It is
// subtracted from every member solid built from this part.
func (p *Part) AddPenetration(pen *Penetration) (*Penetration, error) {
	if err := pen.SetUnits(p.unit); err != nil {
		return nil, err
	}
	p.Penetrations = append(p.Penetrations, pen)
	return pen, nil
}

// Remove drops an entity from this container through its capability
// interface.
func (p *Part) Remove(obj RemovableFromContainer) error {
	return obj.RemoveFromContainer(p)
}

// RemoveFromContainer detaches a member and its section/material
// back-references.
func (b *Beam) RemoveFromContainer(c *Part) error {
	for i, other := range c.Beams {
		if other == b {
			c.Beams = append(c.Beams[:i], c.Beams[i+1:]...)
			b.section.Refs = removeRef(b.section.Refs, b)
			b.material.Refs = removeRef(b.material.Refs, b)
			b.parent = nil
			return nil
		}
	}
	return fmt.Errorf("beam %q is not in part %q", b.Name, c.Name)
}

// RemoveFromContainer detaches a plate.
func (pl *Plate) RemoveFromContainer(c *Part) error {
	for i, other := range c.Plates {
		if other == pl {
			c.Plates = append(c.Plates[:i], c.Plates[i+1:]...)
			pl.material.Refs = removeRef(pl.material.Refs, pl)
			pl.parent = nil
			return nil
		}
	}
	return fmt.Errorf("plate %q is not in part %q", pl.Name, c.Name)
}

// RemoveFromContainer detaches a wall.
func (w *Wall) RemoveFromContainer(c *Part) error {
	for i, other := range c.Walls {
		if other == w {
			c.Walls = append(c.Walls[:i], c.Walls[i+1:]...)
			w.parent = nil
			return nil
		}
	}
	return fmt.Errorf("wall %q is not in part %q", w.Name, c.Name)
}

// RemoveFromContainer detaches a sub-part.
func (p *Part) RemoveFromContainer(c *Part) error {
	for i, other := range c.Parts {
		if other == p {
			c.Parts = append(c.Parts[:i], c.Parts[i+1:]...)
			p.parent = nil
			return nil
		}
	}
	return fmt.Errorf("part %q is not in part %q", p.Name, c.Name)
}

// RemoveFromContainer detaches a penetration.
func (pen *Penetration) RemoveFromContainer(c *Part) error {
	for i, other := range c.Penetrations {
		if other == pen {
			c.Penetrations = append(c.Penetrations[:i], c.Penetrations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("penetration %q is not in part %q", pen.Name, c.Name)
}

func removeRef(refs []any, owner any) []any {
	for i, r := range refs {
		if r == owner {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}

// GetBeam finds a member by name in this container and its sub-parts.
func (p *Part) GetBeam(name string) *Beam {
	for _, b := range p.Beams {
		if b.Name == name {
			return b
		}
	}
	for _, child := range p.Parts {
		if b := child.GetBeam(name); b != nil {
			return b
		}
	}
	return nil
}

// GetPart finds a sub-part by name.
func (p *Part) GetPart(name string) *Part {
	for _, child := range p.Parts {
		if child.Name == name {
			return child
		}
		if found := child.GetPart(name); found != nil {
			return found
		}
	}
	return nil
}

// AllBeams collects every member in this container and its sub-parts.
func (p *Part) AllBeams() []*Beam {
	out := append([]*Beam(nil), p.Beams...)
	for _, child := range p.Parts {
		out = append(out, child.AllBeams()...)
	}
	return out
}

// AllPlates collects every plate in this container and its sub-parts.
func (p *Part) AllPlates() []*Plate {
	out := append([]*Plate(nil), p.Plates...)
	for _, child := range p.Parts {
		out = append(out, child.AllPlates()...)
	}
	return out
}

// AllWalls collects every wall in this container and its sub-parts.
func (p *Part) AllWalls() []*Wall {
	out := append([]*Wall(nil), p.Walls...)
	for _, child := range p.Parts {
		out = append(out, child.AllWalls()...)
	}
	return out
}

// ResolveConnections runs the connectivity walk for every member in the
// tree with the container's unit-appropriate defaults.
func (p *Part) ResolveConnections() {
	params := DefaultConnectionParams(p.unit)
	for _, b := range p.AllBeams() {
		b.ResolveConnections(params)
	}
}

// SetUnits cascades a unit change through every owned entity. Shared
// sections and materials convert exactly once thanks to their own
// idempotence guards.
func (p *Part) SetUnits(u units.Unit) error {
	if p.unit == u {
		return nil
	}
	for _, b := range p.Beams {
		if err := b.SetUnits(u); err != nil {
			return err
		}
	}
	for _, pl := range p.Plates {
		if err := pl.SetUnits(u); err != nil {
			return err
		}
	}
	for _, w := range p.Walls {
		if err := w.SetUnits(u); err != nil {
			return err
		}
	}
	for _, pen := range p.Penetrations {
		if err := pen.SetUnits(u); err != nil {
			return err
		}
	}
	for _, sec := range p.Sections {
		if err := sec.SetUnits(u); err != nil {
			return err
		}
	}
	for _, mat := range p.Materials {
		if err := mat.SetUnits(u); err != nil {
			return err
		}
	}
	scale := units.ScaleFactor(p.unit, u)
	for _, j := range p.Joints {
		j.Centre = j.Centre.MulScalar(scale)
	}
	for _, child := range p.Parts {
		if err := child.SetUnits(u); err != nil {
			return err
		}
	}
	p.unit = u
	return nil
}
