package sections

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// ErrUnsupportedSectionType is returned when no profile builder exists
// for a section category and no explicit boundary polygon was supplied.
var ErrUnsupportedSectionType = errors.New("unsupported section type")

// Build constructs the 2D profile view of a section. Solid requests
// yield closed boundary polygons; shell requests yield centerline curves
// with a sub-part thickness map. Tubular, circular and general sections
// need no curve representation and return an empty profile.
func Build(sec *Section, wantSolid bool) (*SectionProfile, error) {
	p := &SectionProfile{Sec: sec, IsSolid: wantSolid}

	switch sec.Type() {
	case Tubular, Circular, General:
		zap.S().Infow("section category needs no curve representation",
			"section", sec.Name, "type", sec.Type().String())
		return p, nil
	case Poly:
		if sec.polyOuter == nil {
			return nil, fmt.Errorf("%w: poly section %q has no outer boundary", ErrUnsupportedSectionType, sec.Name)
		}
		p.outer = sec.polyOuter
		p.inner = sec.polyInner
		return p, nil
	case IProfile:
		return p, buildIProfile(p, wantSolid)
	case TProfile:
		return p, buildTProfile(p, wantSolid)
	case Box:
		return p, buildBox(p, wantSolid)
	case Channel:
		return p, buildChannel(p, wantSolid)
	case Angular:
		return p, buildAngular(p, wantSolid)
	case Flatbar:
		return p, buildFlatbar(p)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSectionType, sec.Type())
}

// profileCurve places 2D profile points in the canonical section plane:
// local x along global Y, local y along global Z, normal along global X.
// Members re-place the curve with their own end frames.
func profileCurve(sec *Section, pts []v2.Vec, closed bool) (*geom.CurvePoly, error) {
	return geom.NewCurvePoly(pts, v3.Vec{}, geom.GlobalY, geom.GlobalX, closed, units.PointTol(sec.unit))
}

func buildIProfile(p *SectionProfile, wantSolid bool) error {
	s := p.Sec
	if !wantSolid {
		// Shell idealization: flange midplanes plus the web line between
		// them. Three separate curves, so the boundary is disconnected.
		zTop := (s.h - s.tFtop) / 2
		zBtn := -(s.h - s.tFbtn) / 2
		web, err := profileCurve(s, []v2.Vec{{X: 0, Y: zBtn}, {X: 0, Y: zTop}}, false)
		if err != nil {
			return err
		}
		topFl, err := profileCurve(s, []v2.Vec{{X: -s.wTop / 2, Y: zTop}, {X: s.wTop / 2, Y: zTop}}, false)
		if err != nil {
			return err
		}
		btnFl, err := profileCurve(s, []v2.Vec{{X: -s.wBtn / 2, Y: zBtn}, {X: s.wBtn / 2, Y: zBtn}}, false)
		if err != nil {
			return err
		}
		p.Disconnected = true
		p.outerDisconnected = []*geom.CurvePoly{web, topFl, btnFl}
		p.ShellThicknessMap = []ThicknessEntry{
			{PartWeb, s.tW},
			{PartTopFlange, s.tFtop},
			{PartBtnFlange, s.tFbtn},
		}
		return nil
	}

	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.wBtn / 2, Y: -s.h / 2},
		{X: s.wBtn / 2, Y: -s.h / 2},
		{X: s.wBtn / 2, Y: -s.h/2 + s.tFbtn},
		{X: s.tW / 2, Y: -s.h/2 + s.tFbtn},
		{X: s.tW / 2, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h/2 - s.tFtop},
		{X: -s.tW / 2, Y: s.h/2 - s.tFtop},
		{X: -s.tW / 2, Y: -s.h/2 + s.tFbtn},
		{X: -s.wBtn / 2, Y: -s.h/2 + s.tFbtn},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	p.ShellThicknessMap = []ThicknessEntry{
		{PartWeb, s.tW},
		{PartTopFlange, s.tFtop},
		{PartBtnFlange, s.tFbtn},
	}
	return nil
}

func buildTProfile(p *SectionProfile, wantSolid bool) error {
	s := p.Sec
	if !wantSolid {
		zTop := (s.h - s.tFtop) / 2
		web, err := profileCurve(s, []v2.Vec{{X: 0, Y: -s.h / 2}, {X: 0, Y: zTop}}, false)
		if err != nil {
			return err
		}
		topFl, err := profileCurve(s, []v2.Vec{{X: -s.wTop / 2, Y: zTop}, {X: s.wTop / 2, Y: zTop}}, false)
		if err != nil {
			return err
		}
		p.Disconnected = true
		p.outerDisconnected = []*geom.CurvePoly{web, topFl}
		p.ShellThicknessMap = []ThicknessEntry{
			{PartWeb, s.tW},
			{PartTopFlange, s.tFtop},
		}
		return nil
	}

	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.tW / 2, Y: -s.h / 2},
		{X: s.tW / 2, Y: -s.h / 2},
		{X: s.tW / 2, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h/2 - s.tFtop},
		{X: -s.tW / 2, Y: s.h/2 - s.tFtop},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	p.ShellThicknessMap = []ThicknessEntry{
		{PartWeb, s.tW},
		{PartTopFlange, s.tFtop},
	}
	return nil
}

func buildBox(p *SectionProfile, wantSolid bool) error {
	s := p.Sec
	if !wantSolid {
		// Single closed centerline rectangle through the wall midplanes.
		ym := (s.wTop - s.tW) / 2
		zTop := (s.h - s.tFtop) / 2
		zBtn := -(s.h - s.tFbtn) / 2
		mid, err := profileCurve(s, []v2.Vec{
			{X: -ym, Y: zBtn},
			{X: ym, Y: zBtn},
			{X: ym, Y: zTop},
			{X: -ym, Y: zTop},
		}, true)
		if err != nil {
			return err
		}
		p.outer = mid
		// Positional with the segments: bottom, right, top, left.
		p.ShellThicknessMap = []ThicknessEntry{
			{PartBtnFlange, s.tFbtn},
			{PartWeb, s.tW},
			{PartTopFlange, s.tFtop},
			{PartWeb, s.tW},
		}
		return nil
	}

	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.wBtn / 2, Y: -s.h / 2},
		{X: s.wBtn / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
	}, true)
	if err != nil {
		return err
	}
	inner, err := profileCurve(s, []v2.Vec{
		{X: -s.wBtn/2 + s.tW, Y: -s.h/2 + s.tFbtn},
		{X: s.wBtn/2 - s.tW, Y: -s.h/2 + s.tFbtn},
		{X: s.wTop/2 - s.tW, Y: s.h/2 - s.tFtop},
		{X: -s.wTop/2 + s.tW, Y: s.h/2 - s.tFtop},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	p.inner = inner
	return nil
}

func buildChannel(p *SectionProfile, wantSolid bool) error {
	s := p.Sec
	if !wantSolid {
		yWeb := -(s.wTop - s.tW) / 2
		zTop := (s.h - s.tFtop) / 2
		zBtn := -(s.h - s.tFbtn) / 2
		mid, err := profileCurve(s, []v2.Vec{
			{X: s.wTop / 2, Y: zBtn},
			{X: yWeb, Y: zBtn},
			{X: yWeb, Y: zTop},
			{X: s.wTop / 2, Y: zTop},
		}, false)
		if err != nil {
			return err
		}
		p.outer = mid
		p.ShellThicknessMap = []ThicknessEntry{
			{PartBtnFlange, s.tFbtn},
			{PartWeb, s.tW},
			{PartTopFlange, s.tFtop},
		}
		return nil
	}

	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: -s.h/2 + s.tFbtn},
		{X: -s.wTop/2 + s.tW, Y: -s.h/2 + s.tFbtn},
		{X: -s.wTop/2 + s.tW, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h/2 - s.tFtop},
		{X: s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	p.ShellThicknessMap = []ThicknessEntry{
		{PartWeb, s.tW},
		{PartTopFlange, s.tFtop},
		{PartBtnFlange, s.tFbtn},
	}
	return nil
}

func buildAngular(p *SectionProfile, wantSolid bool) error {
	s := p.Sec
	if !wantSolid {
		yLeg := -(s.wTop - s.tW) / 2
		zLeg := -(s.h - s.tFtop) / 2
		mid, err := profileCurve(s, []v2.Vec{
			{X: s.wTop / 2, Y: zLeg},
			{X: yLeg, Y: zLeg},
			{X: yLeg, Y: s.h / 2},
		}, false)
		if err != nil {
			return err
		}
		p.outer = mid
		p.ShellThicknessMap = []ThicknessEntry{
			{PartBtnFlange, s.tFtop},
			{PartWeb, s.tW},
		}
		return nil
	}

	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: -s.h/2 + s.tFtop},
		{X: -s.wTop/2 + s.tW, Y: -s.h/2 + s.tFtop},
		{X: -s.wTop/2 + s.tW, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	return nil
}

func buildFlatbar(p *SectionProfile) error {
	s := p.Sec
	outer, err := profileCurve(s, []v2.Vec{
		{X: -s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: -s.h / 2},
		{X: s.wTop / 2, Y: s.h / 2},
		{X: -s.wTop / 2, Y: s.h / 2},
	}, true)
	if err != nil {
		return err
	}
	p.outer = outer
	return nil
}
