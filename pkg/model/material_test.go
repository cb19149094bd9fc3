package model

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

func TestMaterialNameValidation(t *testing.T) {
	for _, bad := range []string{"S355,extra", "grade.b", "a=b"} {
		if _, err := NewMaterial(bad, "S355", units.M); err == nil {
			t.Errorf("%q: expected illegal character error", bad)
		}
	}
	if _, err := NewMaterial("S355", "S355", units.M); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
}

func TestMaterialUnknownGrade(t *testing.T) {
	if _, err := NewMaterial("m", "S999", units.M); err == nil {
		t.Error("expected unknown grade error")
	}
}

func TestMaterialGradePresets(t *testing.T) {
	m, err := NewMaterial("m", "S420", units.M)
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	if m.Model.SigY != 420e6 {
		t.Errorf("sig_y = %g, want 420e6", m.Model.SigY)
	}
	if m.Model.E != 2.1e11 {
		t.Errorf("E = %g, want 2.1e11", m.Model.E)
	}
}

func TestMaterialUnitRoundTrip(t *testing.T) {
	m, err := NewMaterial("m", "S355", units.M)
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	if err := m.SetUnits(units.MM); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	// Pa -> N/mm^2.
	if math.Abs(m.Model.E-2.1e5) > 1e-6 {
		t.Errorf("E in N/mm2 = %g, want 2.1e5", m.Model.E)
	}
	if err := m.SetUnits(units.M); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	if math.Abs(m.Model.E-2.1e11) > 1e2 {
		t.Errorf("round trip E = %g, want 2.1e11", m.Model.E)
	}
}

func TestPenetrationScaling(t *testing.T) {
	pen := NewPrimBox("p", v3.Vec{X: 1, Y: 1, Z: 0}, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, units.M)
	if err := pen.SetUnits(units.MM); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	if math.Abs(pen.Origin.X-1000) > 1e-6 || math.Abs(pen.Dims.Z-500) > 1e-6 {
		t.Errorf("box not rescaled: origin %v dims %v", pen.Origin, pen.Dims)
	}
	// Converting again to the same unit is a no-op.
	if err := pen.SetUnits(units.MM); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	if math.Abs(pen.Origin.X-1000) > 1e-6 {
		t.Errorf("idempotence guard failed: %v", pen.Origin)
	}
}
