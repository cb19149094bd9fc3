package sections

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// Section is a categorized cross-section descriptor: a base type from the
// closed taxonomy plus the dimensional parameters that category uses.
// Dimensions are stored in the section's unit. Derived general properties
// are cached and invalidated whenever a dimension changes.
type Section struct {
	Name string
	GUID string

	id          int
	baseType    BaseType
	prefix      string // designation prefix, e.g. "IPE", "BG"
	designation string // full designation for rolled profiles, e.g. "IPE400"
	unit        units.Unit

	h, wTop, wBtn        float64
	tW, tFtop, tFbtn     float64
	r, wt                float64
	polyOuter, polyInner *geom.CurvePoly

	genprops *GeneralProperties

	// Refs lists the members referencing this section when it is shared.
	// Non-owning; maintained by the owning container.
	Refs []any
}

func newSection(name string, base BaseType, prefix string, unit units.Unit) *Section {
	return &Section{
		Name:     name,
		GUID:     uuid.NewString(),
		baseType: base,
		prefix:   prefix,
		unit:     unit,
	}
}

// NewIProfile creates an I-shaped section from height, flange widths and
// web/flange thicknesses.
func NewIProfile(name string, h, wTop, wBtn, tW, tFtop, tFbtn float64, unit units.Unit) *Section {
	s := newSection(name, IProfile, "IG", unit)
	s.h, s.wTop, s.wBtn = h, wTop, wBtn
	s.tW, s.tFtop, s.tFbtn = tW, tFtop, tFbtn
	return s
}

// NewTProfile creates a T-shaped section (web plus top flange).
func NewTProfile(name string, h, wTop, tW, tFtop float64, unit units.Unit) *Section {
	s := newSection(name, TProfile, "TG", unit)
	s.h, s.wTop = h, wTop
	s.tW, s.tFtop = tW, tFtop
	return s
}

// NewBox creates a rectangular hollow section.
func NewBox(name string, h, w, tW, tF float64, unit units.Unit) *Section {
	s := newSection(name, Box, "BG", unit)
	s.h, s.wTop, s.wBtn = h, w, w
	s.tW, s.tFtop, s.tFbtn = tW, tF, tF
	return s
}

// NewTubular creates a circular hollow section from outer radius and wall
// thickness.
func NewTubular(name string, r, wt float64, unit units.Unit) *Section {
	s := newSection(name, Tubular, "TUB", unit)
	s.r, s.wt = r, wt
	return s
}

// NewCircular creates a solid round bar section.
func NewCircular(name string, r float64, unit units.Unit) *Section {
	s := newSection(name, Circular, "CIRC", unit)
	s.r = r
	return s
}

// NewChannel creates a U-shaped channel section.
func NewChannel(name string, h, wTop, tW, tFtop float64, unit units.Unit) *Section {
	s := newSection(name, Channel, "UNP", unit)
	s.h, s.wTop, s.wBtn = h, wTop, wTop
	s.tW, s.tFtop, s.tFbtn = tW, tFtop, tFtop
	return s
}

// NewAngular creates an L-shaped angle section.
func NewAngular(name string, h, w, tW, tF float64, unit units.Unit) *Section {
	s := newSection(name, Angular, "HP", unit)
	s.h, s.wTop = h, w
	s.tW, s.tFtop = tW, tF
	return s
}

// NewFlatbar creates a solid rectangular section.
func NewFlatbar(name string, h, w float64, unit units.Unit) *Section {
	s := newSection(name, Flatbar, "FB", unit)
	s.h, s.wTop, s.wBtn = h, w, w
	return s
}

// NewGeneral creates a section carrying only precomputed general
// properties, no buildable geometry.
func NewGeneral(name string, props GeneralProperties, unit units.Unit) *Section {
	s := newSection(name, General, "GENBEAM", unit)
	s.genprops = &props
	s.genprops.parent = s
	return s
}

// NewPoly creates an arbitrary polygon section from an outer boundary
// curve and an optional inner boundary.
func NewPoly(name string, outer *geom.CurvePoly, inner *geom.CurvePoly, unit units.Unit) (*Section, error) {
	if outer == nil {
		return nil, fmt.Errorf("poly section %q needs an outer boundary curve", name)
	}
	s := newSection(name, Poly, "poly", unit)
	s.polyOuter = outer
	s.polyInner = inner
	return s, nil
}

// Type returns the section category.
func (s *Section) Type() BaseType { return s.baseType }

// Unit returns the unit the dimensions are stored in.
func (s *Section) Unit() units.Unit { return s.unit }

func (s *Section) ID() int { return s.id }

// SetID assigns the container-scoped numeric id. Negative ids are
// rejected.
func (s *Section) SetID(id int) error {
	if id < 0 {
		return fmt.Errorf("section id must be non-negative, got %d", id)
	}
	s.id = id
	return nil
}

func (s *Section) H() float64     { return s.h }
func (s *Section) WTop() float64  { return s.wTop }
func (s *Section) WBtn() float64  { return s.wBtn }
func (s *Section) TW() float64    { return s.tW }
func (s *Section) TFtop() float64 { return s.tFtop }
func (s *Section) TFbtn() float64 { return s.tFbtn }
func (s *Section) R() float64     { return s.r }
func (s *Section) WT() float64    { return s.wt }

func (s *Section) SetH(v float64)     { s.h = v; s.invalidate() }
func (s *Section) SetWTop(v float64)  { s.wTop = v; s.invalidate() }
func (s *Section) SetWBtn(v float64)  { s.wBtn = v; s.invalidate() }
func (s *Section) SetTW(v float64)    { s.tW = v; s.invalidate() }
func (s *Section) SetTFtop(v float64) { s.tFtop = v; s.invalidate() }
func (s *Section) SetTFbtn(v float64) { s.tFbtn = v; s.invalidate() }
func (s *Section) SetR(v float64)     { s.r = v; s.invalidate() }
func (s *Section) SetWT(v float64)    { s.wt = v; s.invalidate() }

func (s *Section) invalidate() {
	if s.baseType != General {
		s.genprops = nil
	}
}

// PolyOuter returns the explicit outer boundary curve, or nil for
// parametric categories.
func (s *Section) PolyOuter() *geom.CurvePoly { return s.polyOuter }

// PolyInner returns the explicit inner boundary curve, if any.
func (s *Section) PolyInner() *geom.CurvePoly { return s.polyInner }

// Properties returns the derived general properties, computing and
// caching them on first access.
func (s *Section) Properties() *GeneralProperties {
	if s.genprops == nil {
		s.genprops = calculateGeneralProperties(s)
	}
	return s.genprops
}

// Profile builds the 2D boundary-curve view of the section. See Build.
func (s *Section) Profile(wantSolid bool) (*SectionProfile, error) {
	return Build(s, wantSolid)
}

// SecStr formats the compact designation string, dimensions in mm.
// Parsed rolled profiles keep their original designation.
func (s *Section) SecStr() string {
	mm := units.ScaleFactor(s.unit, units.MM)
	f := func(v float64) float64 { return v * mm }

	var str string
	switch s.baseType {
	case Box, TProfile:
		str = fmt.Sprintf("%s%gx%gx%gx%g", s.prefix, f(s.h), f(s.wTop), f(s.tW), f(s.tFtop))
	case Tubular:
		str = fmt.Sprintf("%s%gx%g", s.prefix, f(s.r), f(s.wt))
	case Circular:
		str = fmt.Sprintf("%s%g", s.prefix, f(s.r))
	case Angular:
		str = fmt.Sprintf("%s%gx%g", s.prefix, f(s.h), f(s.tW))
	case IProfile:
		if s.designation != "" {
			str = s.designation
		} else {
			str = fmt.Sprintf("%s%gx%gx%gx%g", s.prefix, f(s.h), f(s.wTop), f(s.tW), f(s.tFtop))
		}
	case Channel:
		str = fmt.Sprintf("%s%g", s.prefix, f(s.h))
	case General:
		str = fmt.Sprintf("%s%d", s.prefix, s.id)
	case Flatbar:
		str = fmt.Sprintf("%s%gx%g", s.prefix, f(s.h), f(s.wTop))
	case Poly:
		str = "PolyCurve"
	}
	return strings.ReplaceAll(str, ".", "_")
}

// SetUnits rescales every dimensional parameter and boundary curve to the
// new unit. No-op when the section already carries the target unit.
func (s *Section) SetUnits(u units.Unit) error {
	if s.unit == u {
		return nil
	}
	scale := units.ScaleFactor(s.unit, u)
	tol := units.PointTol(u)

	if s.polyOuter != nil {
		if err := s.polyOuter.Scale(scale, tol); err != nil {
			return fmt.Errorf("section %q outer curve: %w", s.Name, err)
		}
	}
	if s.polyInner != nil {
		if err := s.polyInner.Scale(scale, tol); err != nil {
			return fmt.Errorf("section %q inner curve: %w", s.Name, err)
		}
	}
	s.h *= scale
	s.wTop *= scale
	s.wBtn *= scale
	s.tW *= scale
	s.tFtop *= scale
	s.tFbtn *= scale
	s.r *= scale
	s.wt *= scale
	s.invalidate()
	s.unit = u
	return nil
}

// Equal reports whether two sections are geometrically interchangeable.
// Name, id and refs do not participate.
func (s *Section) Equal(o *Section) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.baseType == o.baseType && s.unit == o.unit &&
		s.h == o.h && s.wTop == o.wTop && s.wBtn == o.wBtn &&
		s.tW == o.tW && s.tFtop == o.tFtop && s.tFbtn == o.tFbtn &&
		s.r == o.r && s.wt == o.wt &&
		s.polyOuter == o.polyOuter && s.polyInner == o.polyInner
}

func (s *Section) String() string {
	switch s.baseType {
	case Circular, Tubular:
		return fmt.Sprintf("Section(%s, %s, r: %g, wt: %g)", s.Name, s.baseType, s.r, s.wt)
	default:
		return fmt.Sprintf("Section(%s, %s, h: %g, w_top: %g, w_btn: %g, t_w: %g)",
			s.Name, s.baseType, s.h, s.wTop, s.wBtn, s.tW)
	}
}
