package kernel

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"go.uber.org/zap"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/model"
	"github.com/ferrite-dev/ferrite/pkg/sections"
)

// BuildBeamSolid constructs the swept solid of a beam: the section
// profile extruded between the effective endpoints and oriented by the
// end-1 section plane. Tapered members are swept with the start section.
// Beam-level penetrations are subtracted.
func BuildBeamSolid(k Kernel, b *model.Beam) (Solid, error) {
	length := b.Length()
	if length == 0 {
		return nil, fmt.Errorf("beam %q: %w", b.Name, geom.ErrDegenerateGeometry)
	}
	pl1, _ := b.EndPlacements()
	sec := b.Section()

	var s Solid
	switch sec.Type() {
	case sections.Circular:
		s = k.Translate(k.Cylinder(length, sec.R()), 0, 0, length/2)
	case sections.Tubular:
		outer := k.Cylinder(length, sec.R())
		inner := k.Cylinder(length, sec.R()-sec.WT())
		s = k.Translate(k.Difference(outer, inner), 0, 0, length/2)
	default:
		prof, err := sections.Build(sec, true)
		if err != nil {
			return nil, fmt.Errorf("beam %q: %w", b.Name, err)
		}
		outer, err := prof.Outer()
		if err != nil {
			return nil, fmt.Errorf("beam %q: %w", b.Name, err)
		}
		if outer == nil {
			return nil, fmt.Errorf("beam %q: section %q has no buildable profile", b.Name, sec.Name)
		}
		s, err = k.ExtrudePoly(outer.Points2D, length)
		if err != nil {
			return nil, fmt.Errorf("beam %q: %w", b.Name, err)
		}
		if inner, _ := prof.Inner(); inner != nil {
			hole, err := k.ExtrudePoly(inner.Points2D, length)
			if err != nil {
				return nil, fmt.Errorf("beam %q inner boundary: %w", b.Name, err)
			}
			s = k.Difference(s, hole)
		}
	}

	s = k.Orient(s, pl1)
	return subtractPenetrations(k, s, b.Penetrations)
}

// BuildPlateSolid extrudes the plate boundary polygon by the plate
// thickness along its normal. Plate-level penetrations are subtracted.
func BuildPlateSolid(k Kernel, p *model.Plate) (Solid, error) {
	poly := p.Poly()
	s, err := k.ExtrudePoly(poly.Points2D, p.T())
	if err != nil {
		return nil, fmt.Errorf("plate %q: %w", p.Name, err)
	}
	s = k.Orient(s, poly.Placement)
	return subtractPenetrations(k, s, p.Penetrations)
}

// BuildWallSolid extrudes the wall footprint from its base elevation up
// by the wall height. Wall-level penetrations (doors, windows) are
// subtracted.
func BuildWallSolid(k Kernel, w *model.Wall) (Solid, error) {
	area := w.ExtrusionArea()
	if len(area) < 3 {
		return nil, fmt.Errorf("wall %q: %w", w.Name, geom.ErrDegenerateGeometry)
	}
	pts := make([]v2.Vec, len(area))
	for i, p := range area {
		pts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s, err := k.ExtrudePoly(pts, w.Height())
	if err != nil {
		return nil, fmt.Errorf("wall %q: %w", w.Name, err)
	}
	s = k.Translate(s, 0, 0, area[0].Z)
	return subtractPenetrations(k, s, w.Penetrations)
}

// BuildPenetrationSolid constructs the cutting solid of a penetration
// primitive.
func BuildPenetrationSolid(k Kernel, pen *model.Penetration) (Solid, error) {
	switch pen.Kind {
	case model.PrimBox:
		s := k.Box(pen.Dims.X, pen.Dims.Y, pen.Dims.Z)
		return k.Translate(s, pen.Origin.X, pen.Origin.Y, pen.Origin.Z), nil
	case model.PrimCyl:
		axis := pen.P2.Sub(pen.P1)
		frame, err := geom.DeriveFrame(pen.P1, pen.P2, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("penetration %q: %w", pen.Name, err)
		}
		mid := pen.P1.Add(pen.P2).MulScalar(0.5)
		pl := geom.PlacementFrom(mid, frame.YVec, frame.XVec)
		return k.Orient(k.Cylinder(axis.Length(), pen.R), pl), nil
	case model.PrimExtrude:
		s, err := k.ExtrudePoly(pen.Profile.Points2D, pen.Depth)
		if err != nil {
			return nil, fmt.Errorf("penetration %q: %w", pen.Name, err)
		}
		return k.Orient(s, pen.Profile.Placement), nil
	}
	return nil, fmt.Errorf("penetration %q: unknown primitive kind %d", pen.Name, int(pen.Kind))
}

func subtractPenetrations(k Kernel, s Solid, pens []*model.Penetration) (Solid, error) {
	for _, pen := range pens {
		cut, err := BuildPenetrationSolid(k, pen)
		if err != nil {
			return nil, err
		}
		s = k.Difference(s, cut)
	}
	return s, nil
}

// MeshAssembly walks the ownership tree and produces one named mesh per
// physical entity. Part-level penetrations accumulate down the tree and
// are subtracted from every entity in their subtree. Entities whose
// section has no buildable profile are skipped with a log entry rather
// than failing the whole assembly.
func MeshAssembly(k Kernel, a *model.Assembly) ([]*Mesh, error) {
	var meshes []*Mesh
	if err := meshPart(k, &a.Part, nil, &meshes); err != nil {
		return nil, err
	}
	return meshes, nil
}

func meshPart(k Kernel, p *model.Part, inherited []*model.Penetration, out *[]*Mesh) error {
	pens := make([]*model.Penetration, 0, len(inherited)+len(p.Penetrations))
	pens = append(pens, inherited...)
	pens = append(pens, p.Penetrations...)

	for _, b := range p.Beams {
		s, err := BuildBeamSolid(k, b)
		if err != nil {
			zap.S().Infow("skipping unbuildable beam", "beam", b.Name, "reason", err)
			continue
		}
		if err := appendMesh(k, s, pens, b.Name, out); err != nil {
			return err
		}
	}
	for _, pl := range p.Plates {
		s, err := BuildPlateSolid(k, pl)
		if err != nil {
			return err
		}
		if err := appendMesh(k, s, pens, pl.Name, out); err != nil {
			return err
		}
	}
	for _, w := range p.Walls {
		s, err := BuildWallSolid(k, w)
		if err != nil {
			return err
		}
		if err := appendMesh(k, s, pens, w.Name, out); err != nil {
			return err
		}
	}
	for _, child := range p.Parts {
		if err := meshPart(k, child, pens, out); err != nil {
			return err
		}
	}
	return nil
}

func appendMesh(k Kernel, s Solid, pens []*model.Penetration, name string, out *[]*Mesh) error {
	s, err := subtractPenetrations(k, s, pens)
	if err != nil {
		return err
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return fmt.Errorf("meshing %q: %w", name, err)
	}
	m.PartName = name
	*out = append(*out, m)
	return nil
}
