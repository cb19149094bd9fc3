package sections

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/geom"
)

// Named sub-parts recorded in the shell thickness map.
const (
	PartWeb       = "web"
	PartTopFlange = "top_fl"
	PartBtnFlange = "btn_fl"
)

// ErrDisconnectedProfile is returned when the single outer curve of a
// profile is requested but the boundary is not one continuous loop.
var ErrDisconnectedProfile = errors.New("profile boundary is disconnected")

// ThicknessEntry binds a named sub-part to its plate thickness. The map
// is ordered to correspond positionally with the profile's curve list.
type ThicknessEntry struct {
	Part      string
	Thickness float64
}

// COGNormal is a boundary patch descriptor: centroid plus outward
// normal. Solid builders report these for their generated faces so shell
// consumers can match patches back to named sub-parts.
type COGNormal struct {
	COG    v3.Vec
	Normal v3.Vec
}

// Assignment is a resolved patch-to-sub-part match.
type Assignment struct {
	Entry  ThicknessEntry
	Normal v3.Vec
}

// SectionProfile is the boundary-curve view computed from a Section. It
// is not persisted; Build recomputes it on request. Consumers must check
// Disconnected before asking for the single outer curve.
type SectionProfile struct {
	Sec     *Section
	IsSolid bool

	Disconnected      bool
	ShellThicknessMap []ThicknessEntry

	outer             *geom.CurvePoly
	inner             *geom.CurvePoly
	outerDisconnected []*geom.CurvePoly
	innerDisconnected []*geom.CurvePoly
}

// Outer returns the single closed outer boundary. It fails when the
// boundary is disconnected; use OuterDisconnected then.
func (p *SectionProfile) Outer() (*geom.CurvePoly, error) {
	if p.Disconnected {
		return nil, fmt.Errorf("%w: section %q", ErrDisconnectedProfile, p.Sec.Name)
	}
	return p.outer, nil
}

// Inner returns the inner boundary, or nil for solid sections.
func (p *SectionProfile) Inner() (*geom.CurvePoly, error) {
	if p.Disconnected {
		return nil, fmt.Errorf("%w: section %q", ErrDisconnectedProfile, p.Sec.Name)
	}
	return p.inner, nil
}

// OuterDisconnected returns the ordered list of boundary curves. For a
// connected profile this is the outer curve alone.
func (p *SectionProfile) OuterDisconnected() []*geom.CurvePoly {
	if !p.Disconnected {
		if p.outer == nil {
			return nil
		}
		return []*geom.CurvePoly{p.outer}
	}
	return p.outerDisconnected
}

// InnerDisconnected returns the inner curves of a disconnected profile.
func (p *SectionProfile) InnerDisconnected() []*geom.CurvePoly {
	if !p.Disconnected {
		if p.inner == nil {
			return nil
		}
		return []*geom.CurvePoly{p.inner}
	}
	return p.innerDisconnected
}

// CurveCOGs zips the segments of two offset copies of a boundary curve
// and returns the centroid and plane normal of each quad patch between
// them.
func CurveCOGs(c1, c2 *geom.CurvePoly) []COGNormal {
	s1 := c1.Segments()
	s2 := c2.Segments()
	n := len(s1)
	if len(s2) < n {
		n = len(s2)
	}
	out := make([]COGNormal, 0, n)
	for i := 0; i < n; i++ {
		pts := []v3.Vec{s1[i].P1, s1[i].P2, s2[i].P1, s2[i].P2}
		normal := geom.NormalToPoints(pts)
		cog := pts[0].Add(pts[1]).Add(pts[2]).Add(pts[3]).DivScalar(4)
		out = append(out, COGNormal{COG: cog, Normal: normal})
	}
	return out
}

// MatchPatch assigns a boundary patch (centroid + normal, typically a
// face of a built solid) to a named sub-part. A patch whose normal is
// parallel to the profile plane's x-direction is the web; everything
// else matches by centroid coincidence against this profile's curves
// placed at the two member end frames.
func (p *SectionProfile) MatchPatch(patch COGNormal, pl1, pl2 geom.Placement, tol float64) (Assignment, error) {
	if p.Sec.Type().HasFlanges() && geom.IsParallel(patch.Normal, pl1.XDir, tol) {
		for _, e := range p.ShellThicknessMap {
			if e.Part == PartWeb {
				return Assignment{Entry: e, Normal: patch.Normal}, nil
			}
		}
	}
	for i, curve := range p.OuterDisconnected() {
		c1 := curve.Copy()
		c2 := curve.Copy()
		c1.Placement = pl1
		c2.Placement = pl2
		for _, pc := range CurveCOGs(c1, c2) {
			if patch.COG.Sub(pc.COG).Length() < tol {
				if i >= len(p.ShellThicknessMap) {
					return Assignment{}, fmt.Errorf("section %q: no thickness entry for curve %d", p.Sec.Name, i)
				}
				return Assignment{Entry: p.ShellThicknessMap[i], Normal: pc.Normal}, nil
			}
		}
	}
	return Assignment{}, fmt.Errorf("section %q: no sub-part matches patch at %v", p.Sec.Name, patch.COG)
}

// ThicknessAssignments resolves a patch list with MatchPatch.
func (p *SectionProfile) ThicknessAssignments(patches []COGNormal, pl1, pl2 geom.Placement, tol float64) ([]Assignment, error) {
	res := make([]Assignment, 0, len(patches))
	for _, patch := range patches {
		a, err := p.MatchPatch(patch, pl1, pl2, tol)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}
