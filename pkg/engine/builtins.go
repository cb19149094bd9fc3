package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/model"
	"github.com/ferrite-dev/ferrite/pkg/sections"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Ferrite Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: set-units -> set_units
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpMaterial struct {
	mat *model.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material %q)", m.mat.Name)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

type sexpSection struct {
	sec   *sections.Section
	taper *sections.Section
}

func (s *sexpSection) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(section %q)", s.sec.Name)
}
func (s *sexpSection) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpBeam struct {
	beam *model.Beam
}

func (b *sexpBeam) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(beam %q)", b.beam.Name)
}
func (b *sexpBeam) Type() *zygo.RegisteredType { return nil }

type sexpPlate struct {
	plate *model.Plate
}

func (p *sexpPlate) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(plate %q)", p.plate.Name)
}
func (p *sexpPlate) Type() *zygo.RegisteredType { return nil }

type sexpWall struct {
	wall *model.Wall
}

func (w *sexpWall) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(wall %q)", w.wall.Name)
}
func (w *sexpWall) Type() *zygo.RegisteredType { return nil }

type sexpPenetration struct {
	pen *model.Penetration
}

func (p *sexpPenetration) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(penetration %q)", p.pen.Name)
}
func (p *sexpPenetration) Type() *zygo.RegisteredType { return nil }

type sexpPart struct {
	part *model.Part
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.part.Name)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

type sexpAssembly struct {
	asm *model.Assembly
}

func (a *sexpAssembly) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(assembly %q)", a.asm.Name)
}
func (a *sexpAssembly) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_mm) and plain strings ("mm").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toUnit converts a keyword or string to a units.Unit.
func toUnit(s zygo.Sexp) (units.Unit, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected unit keyword (:m, :mm): %w", err)
	}
	return units.FromString(name)
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a *model.Material from a sexpMaterial.
func toMaterial(s zygo.Sexp) (*model.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.mat, nil
	}
	return nil, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toSection accepts either a section value or a designation string.
func toSection(s zygo.Sexp, unit units.Unit) (sec, taper *sections.Section, err error) {
	switch v := s.(type) {
	case *sexpSection:
		return v.sec, v.taper, nil
	case *zygo.SexpStr:
		return sections.FromString(v.S, unit)
	}
	return nil, nil, fmt.Errorf("expected section or designation string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go
// slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func toVec3List(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		v, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// buildContext carries state shared by the builtins of one evaluation:
// the default unit for new entities and the assembly produced by the
// last (assembly ...) form.
type buildContext struct {
	unit   units.Unit
	result *model.Assembly
}

// registerBuiltins installs all Ferrite DSL builtins into a zygomys
// environment. Entities are free-standing until grouped by (part ...) or
// (assembly ...); the last assembly form becomes the evaluation result.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, ctx *buildContext) {
	ctx.unit = units.M

	// -----------------------------------------------------------------------
	// (units :mm) sets the default unit for subsequently created entities.
	// -----------------------------------------------------------------------
	env.AddFunction("units", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("units requires exactly 1 argument")
		}
		u, err := toUnit(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("units: %w", err)
		}
		ctx.unit = u
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (material "mat" :grade "S420")
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("material requires a name argument")
		}
		matName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
		}
		pa := parseArgs(args[1:])

		grade := matName
		if v, ok := pa.kw["grade"]; ok {
			grade, err = toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: grade: %w", err)
			}
		}
		mat, err := model.NewMaterial(matName, grade, ctx.unit)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		return &sexpMaterial{mat: mat}, nil
	})

	// -----------------------------------------------------------------------
	// (section "IPE400")
	// -----------------------------------------------------------------------
	env.AddFunction("section", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("section requires a designation argument")
		}
		designation, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("section: designation: %w", err)
		}
		sec, taper, err := sections.FromString(designation, ctx.unit)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("section: %w", err)
		}
		return &sexpSection{sec: sec, taper: taper}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (beam "bm1" :from (vec3 0 0 0) :to (vec3 5 0 0) :section "IPE400"
	//       :material mat :up (vec3 0 0 1) :angle 30)
	// -----------------------------------------------------------------------
	env.AddFunction("beam", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("beam requires a name argument")
		}
		beamName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("beam: name: %w", err)
		}
		pa := parseArgs(args[1:])

		from, ok := pa.kw["from"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("beam %q: missing :from", beamName)
		}
		p1, err := toVec3(from)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("beam %q: from: %w", beamName, err)
		}
		to, ok := pa.kw["to"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("beam %q: missing :to", beamName)
		}
		p2, err := toVec3(to)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("beam %q: to: %w", beamName, err)
		}
		secArg, ok := pa.kw["section"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("beam %q: missing :section", beamName)
		}
		sec, taper, err := toSection(secArg, ctx.unit)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("beam %q: section: %w", beamName, err)
		}

		var opts []model.BeamOption
		if taper != nil {
			opts = append(opts, model.WithTaper(taper))
		}
		if v, ok := pa.kw["up"]; ok {
			up, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("beam %q: up: %w", beamName, err)
			}
			opts = append(opts, model.WithUp(up))
		}
		if v, ok := pa.kw["angle"]; ok {
			deg, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("beam %q: angle: %w", beamName, err)
			}
			opts = append(opts, model.WithAngle(deg))
		}
		if v, ok := pa.kw["material"]; ok {
			mat, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("beam %q: material: %w", beamName, err)
			}
			opts = append(opts, model.WithMaterial(mat))
		}

		n1 := geom.NewNode(p1, ctx.unit)
		n2 := geom.NewNode(p2, ctx.unit)
		b, err := model.NewBeam(beamName, n1, n2, sec, opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("beam %q: %w", beamName, err)
		}
		return &sexpBeam{beam: b}, nil
	})

	// -----------------------------------------------------------------------
	// (plate "pl1" :points (list (vec3 ...) ...) :thickness 0.02
	//        :material mat)
	// -----------------------------------------------------------------------
	env.AddFunction("plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("plate requires a name argument")
		}
		plateName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plate: name: %w", err)
		}
		pa := parseArgs(args[1:])

		ptsArg, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("plate %q: missing :points", plateName)
		}
		pts, err := toVec3List(ptsArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plate %q: points: %w", plateName, err)
		}
		tArg, ok := pa.kw["thickness"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("plate %q: missing :thickness", plateName)
		}
		thickness, err := toFloat64(tArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plate %q: thickness: %w", plateName, err)
		}

		var opts []model.PlateOption
		if v, ok := pa.kw["material"]; ok {
			mat, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plate %q: material: %w", plateName, err)
			}
			opts = append(opts, model.WithPlateMaterial(mat))
		}

		p, err := model.NewPlateFrom3D(plateName, pts, thickness, ctx.unit, opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plate %q: %w", plateName, err)
		}
		return &sexpPlate{plate: p}, nil
	})

	// -----------------------------------------------------------------------
	// (wall "w1" :points (list (vec3 0 0 0) (vec3 5 0 0)) :height 3
	//       :thickness 0.2 :offset :center)
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("wall requires a name argument")
		}
		wallName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: name: %w", err)
		}
		pa := parseArgs(args[1:])

		ptsArg, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall %q: missing :points", wallName)
		}
		pts, err := toVec3List(ptsArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall %q: points: %w", wallName, err)
		}
		coords := make([][]float64, len(pts))
		for i, p := range pts {
			coords[i] = []float64{p.X, p.Y, p.Z}
		}

		hArg, ok := pa.kw["height"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall %q: missing :height", wallName)
		}
		height, err := toFloat64(hArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall %q: height: %w", wallName, err)
		}
		tArg, ok := pa.kw["thickness"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wall %q: missing :thickness", wallName)
		}
		thickness, err := toFloat64(tArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall %q: thickness: %w", wallName, err)
		}

		offset := model.OffsetCenter
		if v, ok := pa.kw["offset"]; ok {
			kw, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wall %q: offset: %w", wallName, err)
			}
			switch kw {
			case "center":
				offset = model.OffsetCenter
			case "left":
				offset = model.OffsetLeft
			case "right":
				offset = model.OffsetRight
			default:
				return zygo.SexpNull, fmt.Errorf("wall %q: invalid offset %q, expected center/left/right", wallName, kw)
			}
		}

		w, err := model.NewWall(wallName, coords, height, thickness, offset, ctx.unit)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall %q: %w", wallName, err)
		}
		return &sexpWall{wall: w}, nil
	})

	// -----------------------------------------------------------------------
	// (prim-box "shaft" :origin (vec3 ...) :dims (vec3 ...))
	// (prim-cyl "hole" :from (vec3 ...) :to (vec3 ...) :radius 0.05)
	// -----------------------------------------------------------------------
	env.AddFunction("prim_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("prim-box requires a name argument")
		}
		penName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prim-box: name: %w", err)
		}
		pa := parseArgs(args[1:])
		var origin, dims v3.Vec
		if v, ok := pa.kw["origin"]; ok {
			if origin, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("prim-box %q: origin: %w", penName, err)
			}
		}
		v, ok := pa.kw["dims"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("prim-box %q: missing :dims", penName)
		}
		if dims, err = toVec3(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("prim-box %q: dims: %w", penName, err)
		}
		return &sexpPenetration{pen: model.NewPrimBox(penName, origin, dims, ctx.unit)}, nil
	})

	env.AddFunction("prim_cyl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("prim-cyl requires a name argument")
		}
		penName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prim-cyl: name: %w", err)
		}
		pa := parseArgs(args[1:])
		var p1, p2 v3.Vec
		var r float64
		if v, ok := pa.kw["from"]; ok {
			if p1, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("prim-cyl %q: from: %w", penName, err)
			}
		}
		if v, ok := pa.kw["to"]; ok {
			if p2, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("prim-cyl %q: to: %w", penName, err)
			}
		}
		v, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("prim-cyl %q: missing :radius", penName)
		}
		if r, err = toFloat64(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("prim-cyl %q: radius: %w", penName, err)
		}
		return &sexpPenetration{pen: model.NewPrimCyl(penName, p1, p2, r, ctx.unit)}, nil
	})

	// -----------------------------------------------------------------------
	// (penetrate beamref pen) subtracts a primitive from one entity.
	// -----------------------------------------------------------------------
	env.AddFunction("penetrate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("penetrate requires an entity and a penetration")
		}
		pen, ok := args[1].(*sexpPenetration)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("penetrate: second argument must be a penetration, got %T", args[1])
		}
		switch e := args[0].(type) {
		case *sexpBeam:
			e.beam.AddPenetration(pen.pen)
		case *sexpPlate:
			e.plate.AddPenetration(pen.pen)
		case *sexpWall:
			e.wall.AddPenetration(pen.pen)
		default:
			return zygo.SexpNull, fmt.Errorf("penetrate: cannot penetrate %T", args[0])
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (part "frame" beam1 beam2 plate1 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		p := model.NewPart(partName, ctx.unit)
		if err := addChildren(p, args[1:]); err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}
		return &sexpPart{part: p}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "site" part1 part2 beam3 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}
		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		a := model.NewAssembly(asmName, ctx.unit)
		if err := addChildren(&a.Part, args[1:]); err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly %q: %w", asmName, err)
		}
		ctx.result = a
		return &sexpAssembly{asm: a}, nil
	})

	// -----------------------------------------------------------------------
	// (set-units asmref :mm) converts a container and everything it owns.
	// -----------------------------------------------------------------------
	env.AddFunction("set_units", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-units requires a container and a unit keyword")
		}
		u, err := toUnit(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-units: %w", err)
		}
		switch c := args[0].(type) {
		case *sexpAssembly:
			err = c.asm.SetUnits(u)
		case *sexpPart:
			err = c.part.SetUnits(u)
		default:
			return zygo.SexpNull, fmt.Errorf("set-units: expected part or assembly, got %T", args[0])
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-units: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (resolve-connections asmref) classifies every joint on every beam.
	// -----------------------------------------------------------------------
	env.AddFunction("resolve_connections", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("resolve-connections requires a container argument")
		}
		switch c := args[0].(type) {
		case *sexpAssembly:
			c.asm.ResolveConnections()
		case *sexpPart:
			c.part.ResolveConnections()
		default:
			return zygo.SexpNull, fmt.Errorf("resolve-connections: expected part or assembly, got %T", args[0])
		}
		return args[0], nil
	})
}

// addChildren moves evaluated entity values into a container.
func addChildren(p *model.Part, args []zygo.Sexp) error {
	for i, arg := range args {
		var err error
		switch child := arg.(type) {
		case *sexpBeam:
			_, err = p.AddBeam(child.beam)
		case *sexpPlate:
			_, err = p.AddPlate(child.plate)
		case *sexpWall:
			_, err = p.AddWall(child.wall)
		case *sexpPart:
			_, err = p.AddPart(child.part)
		case *sexpPenetration:
			_, err = p.AddPenetration(child.pen)
		default:
			return fmt.Errorf("child %d: expected beam, plate, wall, part or penetration, got %T (%s)",
				i+1, arg, arg.SexpString(nil))
		}
		if err != nil {
			return fmt.Errorf("child %d: %w", i+1, err)
		}
	}
	return nil
}
