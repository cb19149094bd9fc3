package model

import (
	"fmt"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/sections"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// Justification places the section relative to the member system line.
type Justification int

const (
	JustNeutralAxis Justification = iota
	JustTopOfSteel
)

// MemberType is a coarse structural role derived from the member axis.
type MemberType int

const (
	MemberGirder MemberType = iota
	MemberColumn
	MemberBrace
)

func (m MemberType) String() string {
	switch m {
	case MemberColumn:
		return "Column"
	case MemberGirder:
		return "Girder"
	case MemberBrace:
		return "Brace"
	}
	return "Unknown"
}

// ConnectionParams tunes the tolerant connectivity walk. PointTol is the
// coincidence tolerance; MidSpanFraction bounds how far along a member an
// offset endpoint may sit and still count as an eccentric connection.
type ConnectionParams struct {
	PointTol        float64
	MidSpanFraction float64
}

// DefaultConnectionParams returns the unit-appropriate defaults.
func DefaultConnectionParams(u units.Unit) ConnectionParams {
	return ConnectionParams{PointTol: units.PointTol(u), MidSpanFraction: 0.9}
}

// Beam is a straight linear member between two end nodes with a
// cross-section, a material and a derived local frame.
type Beam struct {
	Name string
	GUID string

	n1, n2   *geom.Node
	section  *sections.Section
	taper    *sections.Section
	material *Material

	e1, e2        *v3.Vec
	justification Justification

	frame   geom.Frame
	upHint  *v3.Vec
	angle   float64
	unit    units.Unit

	connectedTo        []*Joint
	connEnd1, connEnd2 *Joint
	interior           []v3.Vec
	Connections        []JointRef

	Penetrations []*Penetration

	parent *Part
	bbox   *[2]v3.Vec
}

// BeamOption configures optional beam attributes at construction.
type BeamOption func(*Beam)

// WithUp supplies an explicit up direction for the local frame.
func WithUp(up v3.Vec) BeamOption {
	return func(b *Beam) { b.upHint = &up }
}

// WithAngle rotates the canonical up direction about the member axis by
// the given degrees.
func WithAngle(deg float64) BeamOption {
	return func(b *Beam) { b.angle = deg }
}

// WithEccentricity offsets the effective endpoints from the nodes.
func WithEccentricity(e1, e2 *v3.Vec) BeamOption {
	return func(b *Beam) { b.e1, b.e2 = e1, e2 }
}

// WithJustification sets the section placement rule.
func WithJustification(j Justification) BeamOption {
	return func(b *Beam) { b.justification = j }
}

// WithTaper sets the end-2 section of a tapered member.
func WithTaper(taper *sections.Section) BeamOption {
	return func(b *Beam) { b.taper = taper }
}

// WithMaterial overrides the default S355 material.
func WithMaterial(mat *Material) BeamOption {
	return func(b *Beam) { b.material = mat }
}

// NewBeam creates a member between two nodes and derives its local
// frame. Both nodes must carry the same unit.
func NewBeam(name string, n1, n2 *geom.Node, sec *sections.Section, opts ...BeamOption) (*Beam, error) {
	if n1.Unit != n2.Unit {
		return nil, fmt.Errorf("beam %q: end nodes carry different units (%s, %s)", name, n1.Unit, n2.Unit)
	}
	b := &Beam{
		Name: name, GUID: uuid.NewString(),
		n1: n1, n2: n2, section: sec, unit: n1.Unit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.material == nil {
		mat, err := NewMaterial("S355", "S355", b.unit)
		if err != nil {
			return nil, err
		}
		b.material = mat
	}
	frame, err := geom.DeriveFrame(n1.P, n2.P, b.upHint, b.angle)
	if err != nil {
		return nil, fmt.Errorf("beam %q: %w", name, err)
	}
	b.frame = frame
	b.angle = frame.Angle
	return b, nil
}

// NewBeamFromCoords creates a member from raw coordinate slices and a
// section designation string such as "IPE400" or "IPE400/IPE300".
func NewBeamFromCoords(name string, p1, p2 []float64, secStr string, unit units.Unit, opts ...BeamOption) (*Beam, error) {
	n1, err := geom.NewNodeFromCoords(p1, unit)
	if err != nil {
		return nil, fmt.Errorf("beam %q: %w", name, err)
	}
	n2, err := geom.NewNodeFromCoords(p2, unit)
	if err != nil {
		return nil, fmt.Errorf("beam %q: %w", name, err)
	}
	sec, taper, err := sections.FromString(secStr, unit)
	if err != nil {
		return nil, fmt.Errorf("beam %q: %w", name, err)
	}
	if taper != nil {
		opts = append(opts, WithTaper(taper))
	}
	return NewBeam(name, n1, n2, sec, opts...)
}

func (b *Beam) N1() *geom.Node              { return b.n1 }
func (b *Beam) N2() *geom.Node              { return b.n2 }
func (b *Beam) Section() *sections.Section  { return b.section }
func (b *Beam) Taper() *sections.Section    { return b.taper }
func (b *Beam) Material() *Material         { return b.material }
func (b *Beam) E1() *v3.Vec                 { return b.e1 }
func (b *Beam) E2() *v3.Vec                 { return b.e2 }
func (b *Beam) Angle() float64              { return b.angle }
func (b *Beam) Unit() units.Unit            { return b.unit }
func (b *Beam) Parent() *Part               { return b.parent }
func (b *Beam) Justification() Justification { return b.justification }

// SetSection swaps the cross-section and invalidates derived state.
func (b *Beam) SetSection(sec *sections.Section) {
	b.section = sec
	b.bbox = nil
}

// SetE1 sets the end-1 eccentricity.
func (b *Beam) SetE1(e *v3.Vec) {
	b.e1 = e
	b.bbox = nil
}

// SetE2 sets the end-2 eccentricity.
func (b *Beam) SetE2(e *v3.Vec) {
	b.e2 = e
	b.bbox = nil
}

// Reposition moves the end nodes and rederives the local frame.
func (b *Beam) Reposition(p1, p2 v3.Vec) error {
	frame, err := geom.DeriveFrame(p1, p2, b.upHint, b.angle)
	if err != nil {
		return fmt.Errorf("beam %q: %w", b.Name, err)
	}
	b.n1.P = p1
	b.n2.P = p2
	b.frame = frame
	b.bbox = nil
	return nil
}

// EffectiveEnds returns the endpoints with eccentricities applied.
func (b *Beam) EffectiveEnds() (p1, p2 v3.Vec) {
	p1, p2 = b.n1.P, b.n2.P
	if b.e1 != nil {
		p1 = p1.Add(*b.e1)
	}
	if b.e2 != nil {
		p2 = p2.Add(*b.e2)
	}
	return p1, p2
}

// Length returns the effective member length, eccentricities included.
func (b *Beam) Length() float64 {
	p1, p2 := b.EffectiveEnds()
	return p2.Sub(p1).Length()
}

// LocalFrame returns the longitudinal, transverse and up unit vectors.
func (b *Beam) LocalFrame() (xvec, yvec, up v3.Vec) {
	return b.frame.XVec, b.frame.YVec, b.frame.Up
}

func (b *Beam) XVec() v3.Vec { return b.frame.XVec }
func (b *Beam) YVec() v3.Vec { return b.frame.YVec }
func (b *Beam) Up() v3.Vec   { return b.frame.Up }

// MemberType classifies the member by its longitudinal direction.
func (b *Beam) MemberType() MemberType {
	if geom.IsParallel(b.frame.XVec, geom.GlobalZ, 1e-1) {
		return MemberColumn
	}
	if b.frame.XVec.Z == 0 {
		return MemberGirder
	}
	return MemberBrace
}

// EndPlacements returns the section plane placements at the two
// effective endpoints: local x along the transverse direction, plane
// normal along the member axis. Top-of-steel justification drops the
// origin by half the section height.
func (b *Beam) EndPlacements() (pl1, pl2 geom.Placement) {
	p1, p2 := b.EffectiveEnds()
	if b.justification == JustTopOfSteel {
		drop := b.frame.Up.MulScalar(b.section.H() / 2)
		p1 = p1.Sub(drop)
		p2 = p2.Sub(drop)
	}
	pl1 = geom.PlacementFrom(p1, b.frame.YVec, b.frame.XVec)
	pl2 = geom.PlacementFrom(p2, b.frame.YVec, b.frame.XVec)
	return pl1, pl2
}

// OuterPoints returns the section profile outline mapped to both member
// ends in global coordinates. Sections without a curve representation
// (tubular, circular, general) yield empty slices.
func (b *Beam) OuterPoints() (end1, end2 []v3.Vec, err error) {
	profile, err := b.section.Profile(false)
	if err != nil {
		return nil, nil, fmt.Errorf("beam %q outer points: %w", b.Name, err)
	}
	pl1, pl2 := b.EndPlacements()
	for _, curve := range profile.OuterDisconnected() {
		c1 := curve.Copy()
		c1.Placement = pl1
		end1 = append(end1, c1.Points3D()...)
		c2 := curve.Copy()
		c2.Placement = pl2
		end2 = append(end2, c2.Points3D()...)
	}
	return end1, end2, nil
}

// ConnectedTo lists the joints registered on this member.
func (b *Beam) ConnectedTo() []*Joint { return b.connectedTo }

func (b *Beam) ConnectedEnd1() *Joint { return b.connEnd1 }
func (b *Beam) ConnectedEnd2() *Joint { return b.connEnd2 }

// ConnectionPoints returns the interior split points from the last
// ResolveConnections run, ordered from end 1.
func (b *Beam) ConnectionPoints() []v3.Vec { return b.interior }

type candidate struct {
	p     v3.Vec
	joint *Joint
}

// eccentricEnd reports whether a member's endpoint sits offset from the
// joint centre: further than the coincidence tolerance but well short of
// mid-span. The offset endpoint itself is returned.
func eccentricEnd(m *Beam, centre v3.Vec, params ConnectionParams) (v3.Vec, bool) {
	limit := m.Length() * params.MidSpanFraction
	var end v3.Vec
	found := false
	if d := m.n1.P.Sub(centre).Length(); params.PointTol < d && d < limit {
		end = m.n1.P
		found = true
	}
	if d := m.n2.P.Sub(centre).Length(); params.PointTol < d && d < limit {
		end = m.n2.P
		found = true
	}
	return end, found
}

// ResolveConnections classifies every joint centre registered on this
// member as an end binding, an interior split point or out of range, and
// returns the ordered interior points. Empty joint input is valid and
// yields no bindings.
func (b *Beam) ResolveConnections(params ConnectionParams) []v3.Vec {
	a := b.n1.P
	end := b.n2.P

	cands := make([]candidate, 0, len(b.connectedTo))
	for _, j := range b.connectedTo {
		cands = append(cands, candidate{p: j.Centre, joint: j})
	}

	// A lone joint with this member as main member pulls in the offset
	// endpoints of the other members meeting there.
	if len(b.connectedTo) == 1 && b.connectedTo[0].MainMember == b {
		con := b.connectedTo[0]
		for _, m := range con.Members {
			if m == b {
				continue
			}
			if ecc, ok := eccentricEnd(m, con.Centre, params); ok {
				zap.S().Infow("eccentric member end detected",
					"member", m.Name, "joint", con.Name, "end", ecc)
				cands = append(cands, candidate{p: ecc})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].p.Sub(a).Length2() < cands[j].p.Sub(a).Length2()
	})

	length := b.Length()
	b.connEnd1, b.connEnd2 = nil, nil
	b.Connections = b.Connections[:0]
	var interior []v3.Vec
	var prev *v3.Vec

	for i := range cands {
		c := cands[i]
		da := c.p.Sub(a).Length()
		db := c.p.Sub(end).Length()

		if prev != nil && c.p.Sub(*prev).Length() < params.PointTol {
			continue
		}
		prev = &cands[i].p

		if da < params.PointTol {
			if c.joint != nil {
				b.connEnd1 = c.joint
				b.Connections = append(b.Connections, JointRef{Joint: c.joint, Class: ConnEnd1, Point: c.p})
			}
			continue
		}
		if db < params.PointTol {
			if c.joint != nil {
				b.connEnd2 = c.joint
				b.Connections = append(b.Connections, JointRef{Joint: c.joint, Class: ConnEnd2, Point: c.p})
			}
			continue
		}
		if da > length || db > length {
			continue
		}
		if c.joint != nil {
			b.Connections = append(b.Connections, JointRef{Joint: c.joint, Class: ConnInterior, Point: c.p})
		}
		interior = append(interior, c.p)
	}
	b.interior = interior
	return interior
}

// BoundingBox returns the axis-aligned extents of the member, computed
// lazily from the section profile placed at both effective endpoints and
// invalidated by geometric mutation.
func (b *Beam) BoundingBox() (min, max v3.Vec, err error) {
	if b.bbox != nil {
		return b.bbox[0], b.bbox[1], nil
	}
	p1, p2 := b.EffectiveEnds()

	var pts []v3.Vec
	switch b.section.Type() {
	case sections.Tubular, sections.Circular:
		r := b.section.R()
		for _, p := range []v3.Vec{p1, p2} {
			pts = append(pts,
				p.Add(b.frame.YVec.MulScalar(r)).Add(b.frame.Up.MulScalar(r)),
				p.Sub(b.frame.YVec.MulScalar(r)).Sub(b.frame.Up.MulScalar(r)),
			)
		}
	default:
		profile, perr := b.section.Profile(true)
		if perr != nil {
			return v3.Vec{}, v3.Vec{}, fmt.Errorf("beam %q bounding box: %w", b.Name, perr)
		}
		pl1, pl2 := b.EndPlacements()
		for _, curve := range profile.OuterDisconnected() {
			for _, pl := range []geom.Placement{pl1, pl2} {
				c := curve.Copy()
				c.Placement = pl
				pts = append(pts, c.Points3D()...)
			}
		}
		if len(pts) == 0 {
			pts = []v3.Vec{p1, p2}
		}
	}

	mn, mx := pts[0], pts[0]
	for _, p := range pts[1:] {
		mn = mn.Min(p)
		mx = mx.Max(p)
	}
	b.bbox = &[2]v3.Vec{mn, mx}
	return mn, mx, nil
}

// SetUnits rescales the member and everything it references. Shared
// sections and materials guard against double scaling themselves.
func (b *Beam) SetUnits(u units.Unit) error {
	if b.unit == u {
		return nil
	}
	scale := units.ScaleFactor(b.unit, u)
	b.n1.SetUnits(u)
	b.n2.SetUnits(u)
	if err := b.section.SetUnits(u); err != nil {
		return err
	}
	if b.taper != nil {
		if err := b.taper.SetUnits(u); err != nil {
			return err
		}
	}
	if err := b.material.SetUnits(u); err != nil {
		return err
	}
	for _, pen := range b.Penetrations {
		if err := pen.SetUnits(u); err != nil {
			return err
		}
	}
	if b.e1 != nil {
		e := b.e1.MulScalar(scale)
		b.e1 = &e
	}
	if b.e2 != nil {
		e := b.e2.MulScalar(scale)
		b.e2 = &e
	}
	for i := range b.interior {
		b.interior[i] = b.interior[i].MulScalar(scale)
	}
	b.bbox = nil
	b.unit = u
	return nil
}

// AddPenetration attaches a primitive cut-out to this member.
func (b *Beam) AddPenetration(pen *Penetration) {
	b.Penetrations = append(b.Penetrations, pen)
	b.bbox = nil
}

func (b *Beam) String() string {
	return fmt.Sprintf("Beam(%s, %s, %s)", b.Name, b.n1, b.n2)
}
