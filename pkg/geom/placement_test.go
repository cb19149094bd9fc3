package geom

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

func TestPlacementIdentity(t *testing.T) {
	p := NewPlacement()
	if !p.IsValid(OrthoTol) {
		t.Fatal("identity placement not valid")
	}
	local := v3.Vec{X: 1, Y: 2, Z: 3}
	if !p.ToGlobal(local).Equals(local, 1e-12) {
		t.Error("identity placement moved a point")
	}
}

func TestPlacementFromDerivesY(t *testing.T) {
	p := PlacementFrom(v3.Vec{}, GlobalY, GlobalX)
	if !p.IsValid(OrthoTol) {
		t.Fatal("derived placement not valid")
	}
	// z cross x = X cross Y = Z.
	if !p.YDir.Equals(GlobalZ, 1e-9) {
		t.Errorf("YDir = %v, want global Z", p.YDir)
	}
}

func TestPlacementIsValidRejectsSkewBasis(t *testing.T) {
	p := NewPlacement()
	p.YDir = v3.Vec{X: 0.5, Y: 1, Z: 0}
	if p.IsValid(OrthoTol) {
		t.Error("skew basis reported valid")
	}
}

func TestPlacementAbsoluteComposesParentChain(t *testing.T) {
	parent := Placement{
		Origin: v3.Vec{X: 10, Y: 0, Z: 0},
		// Rotated 90 degrees about Z: local x is global Y.
		XDir: GlobalY,
		YDir: v3.Vec{X: -1, Y: 0, Z: 0},
		ZDir: GlobalZ,
	}
	child := Placement{
		Origin: v3.Vec{X: 1, Y: 0, Z: 0},
		XDir:   GlobalX, YDir: GlobalY, ZDir: GlobalZ,
		Parent: &parent,
	}
	abs := child.Absolute()
	if !abs.Origin.Equals(v3.Vec{X: 10, Y: 1, Z: 0}, 1e-9) {
		t.Errorf("absolute origin = %v, want (10,1,0)", abs.Origin)
	}
	if !abs.XDir.Equals(GlobalY, 1e-9) {
		t.Errorf("absolute XDir = %v, want global Y", abs.XDir)
	}
	if !abs.IsValid(OrthoTol) {
		t.Error("composed placement not valid")
	}
}

func TestNodeFromCoordsPads2D(t *testing.T) {
	n, err := NewNodeFromCoords([]float64{1, 2}, units.M)
	if err != nil {
		t.Fatalf("NewNodeFromCoords: %v", err)
	}
	if n.P.Z != 0 {
		t.Errorf("2D node Z = %g, want 0", n.P.Z)
	}
	if _, err := NewNodeFromCoords([]float64{1, 2, 3, 4}, units.M); err == nil {
		t.Error("expected error for 4 components")
	}
}

func TestNodeSetUnits(t *testing.T) {
	n := NewNode(v3.Vec{X: 1, Y: 0, Z: 2}, units.M)
	n.SetUnits(units.MM)
	if n.P.X != 1000 || n.P.Z != 2000 {
		t.Errorf("node not rescaled: %v", n.P)
	}
	// Idempotent when the unit already matches.
	n.SetUnits(units.MM)
	if n.P.X != 1000 {
		t.Errorf("repeated SetUnits rescaled again: %v", n.P)
	}
}
