// Package model holds the structural entities: beams, plates, walls,
// joints and the part/assembly ownership tree they live in.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

// CarbonSteel is a linear-elastic steel material model. E and SigY are
// stored in pressure units consistent with the owning material's length
// unit (Pa for meters).
type CarbonSteel struct {
	Grade string
	E     float64
	SigY  float64
	Rho   float64
	V     float64
}

// NewCarbonSteel returns the standard grade presets in SI units.
func NewCarbonSteel(grade string) (CarbonSteel, error) {
	switch strings.ToUpper(grade) {
	case "S355":
		return CarbonSteel{Grade: "S355", E: 2.1e11, SigY: 355e6, Rho: 7850, V: 0.3}, nil
	case "S420":
		return CarbonSteel{Grade: "S420", E: 2.1e11, SigY: 420e6, Rho: 7850, V: 0.3}, nil
	case "S460":
		return CarbonSteel{Grade: "S460", E: 2.1e11, SigY: 460e6, Rho: 7850, V: 0.3}, nil
	}
	return CarbonSteel{}, fmt.Errorf("unknown steel grade %q", grade)
}

// Material binds a name to a material model. Shared materials keep a
// non-owning back-reference list of the members using them.
type Material struct {
	Name  string
	GUID  string
	Model CarbonSteel

	unit units.Unit
	Refs []any
}

// NewMaterial creates a material from a grade preset. Names that would
// break downstream analysis-format writers are rejected.
func NewMaterial(name, grade string, unit units.Unit) (*Material, error) {
	if strings.ContainsAny(name, ",.=") {
		return nil, fmt.Errorf("material name %q contains illegal characters (,.=)", name)
	}
	model, err := NewCarbonSteel(grade)
	if err != nil {
		return nil, err
	}
	return &Material{Name: name, GUID: uuid.NewString(), Model: model, unit: unit}, nil
}

func (m *Material) Unit() units.Unit { return m.unit }

// SetUnits rescales the pressure and density quantities of the material
// model. Pressure scales with 1/length^2, density with 1/length^3.
func (m *Material) SetUnits(u units.Unit) error {
	if m.unit == u {
		return nil
	}
	scale := units.ScaleFactor(m.unit, u)
	m.Model.E /= scale * scale
	m.Model.SigY /= scale * scale
	m.Model.Rho /= scale * scale * scale
	m.unit = u
	return nil
}

// Equal reports whether two materials are interchangeable for dedup in a
// container. Name participates: differently named materials stay apart.
func (m *Material) Equal(o *Material) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Name == o.Name && m.unit == o.unit && m.Model == o.Model
}
