package model

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

func buildTestAssembly(t *testing.T) *Assembly {
	t.Helper()
	a := NewAssembly("site", units.M)

	b1 := buildBeam(t, "bm1", []float64{0, 0, 0}, []float64{4, 0, 0})
	b2 := buildBeam(t, "bm2", []float64{0, 2, 0}, []float64{4, 2, 0})
	if _, err := a.AddBeam(b1); err != nil {
		t.Fatalf("AddBeam: %v", err)
	}
	if _, err := a.AddBeam(b2); err != nil {
		t.Fatalf("AddBeam: %v", err)
	}
	return a
}

func TestPartDeduplicatesSharedSection(t *testing.T) {
	a := buildTestAssembly(t)
	if len(a.Sections) != 1 {
		t.Fatalf("got %d sections, want 1 (identical sections deduplicated)", len(a.Sections))
	}
	if a.Beams[0].Section() != a.Beams[1].Section() {
		t.Error("members do not share the deduplicated section")
	}
	if len(a.Sections[0].Refs) != 2 {
		t.Errorf("shared section has %d refs, want 2", len(a.Sections[0].Refs))
	}
	if len(a.Materials) != 1 {
		t.Errorf("got %d materials, want 1", len(a.Materials))
	}
}

func TestPartRemoveBeam(t *testing.T) {
	a := buildTestAssembly(t)
	b1 := a.Beams[0]
	if err := a.Remove(b1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(a.Beams) != 1 {
		t.Fatalf("got %d beams after removal, want 1", len(a.Beams))
	}
	if len(a.Sections[0].Refs) != 1 {
		t.Errorf("section refs = %d after removal, want 1", len(a.Sections[0].Refs))
	}
	if b1.Parent() != nil {
		t.Error("removed beam still points at the container")
	}
	if err := a.Remove(b1); err == nil {
		t.Error("removing twice should fail")
	}
}

func TestPartRemoveNestedPart(t *testing.T) {
	a := NewAssembly("site", units.M)
	child := NewPart("deck", units.M)
	if _, err := a.AddPart(child); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	if err := a.Remove(child); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(a.Parts) != 0 {
		t.Error("sub-part not removed")
	}
}

func TestPartLookup(t *testing.T) {
	a := NewAssembly("site", units.M)
	deck := NewPart("deck", units.M)
	if _, err := a.AddPart(deck); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	b := buildBeam(t, "bm1", []float64{0, 0, 0}, []float64{4, 0, 0})
	if _, err := deck.AddBeam(b); err != nil {
		t.Fatalf("AddBeam: %v", err)
	}
	if a.GetBeam("bm1") != b {
		t.Error("GetBeam did not find the nested member")
	}
	if a.GetPart("deck") != deck {
		t.Error("GetPart did not find the sub-part")
	}
	if a.GetBeam("nope") != nil {
		t.Error("GetBeam found a ghost")
	}
	if len(a.AllBeams()) != 1 {
		t.Errorf("AllBeams = %d, want 1", len(a.AllBeams()))
	}
}

func TestAssemblyUnitRoundTrip(t *testing.T) {
	a := buildTestAssembly(t)
	w, err := NewWall("w1", [][]float64{{0, 0}, {5, 0}}, 3, 0.2, OffsetCenter, units.M)
	if err != nil {
		t.Fatalf("NewWall: %v", err)
	}
	if _, err := a.AddWall(w); err != nil {
		t.Fatalf("AddWall: %v", err)
	}
	pen := NewPrimCyl("pen1", v3.Vec{X: 2, Y: -1, Z: 0}, v3.Vec{X: 2, Y: 1, Z: 0}, 0.2, units.M)
	if _, err := a.AddPenetration(pen); err != nil {
		t.Fatalf("AddPenetration: %v", err)
	}

	if err := a.SetUnits(units.MM); err != nil {
		t.Fatalf("SetUnits(MM): %v", err)
	}
	if math.Abs(a.Beams[0].N2().P.X-4000) > 1e-6 {
		t.Errorf("node in mm = %g, want 4000", a.Beams[0].N2().P.X)
	}
	if math.Abs(a.Sections[0].H()-400) > 1e-6 {
		t.Errorf("section height in mm = %g, want 400", a.Sections[0].H())
	}
	if math.Abs(w.Height()-3000) > 1e-6 {
		t.Errorf("wall height in mm = %g, want 3000", w.Height())
	}
	if math.Abs(pen.R-200) > 1e-6 {
		t.Errorf("penetration radius in mm = %g, want 200", pen.R)
	}

	if err := a.SetUnits(units.M); err != nil {
		t.Fatalf("SetUnits(M): %v", err)
	}
	if math.Abs(a.Beams[0].N2().P.X-4) > 1e-9 {
		t.Errorf("round trip node = %g, want 4", a.Beams[0].N2().P.X)
	}
	if math.Abs(a.Sections[0].H()-0.4) > 1e-9 {
		t.Errorf("round trip section height = %g, want 0.4", a.Sections[0].H())
	}
}

func TestSharedSectionScaledExactlyOnce(t *testing.T) {
	a := buildTestAssembly(t)
	if err := a.SetUnits(units.MM); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	// Both beams and the part-level list reference the same section; the
	// idempotence guard must keep it from scaling twice.
	if math.Abs(a.Sections[0].H()-400) > 1e-6 {
		t.Errorf("shared section height = %g, want 400", a.Sections[0].H())
	}
}

func TestSetUnitsIdempotent(t *testing.T) {
	a := buildTestAssembly(t)
	sec := a.Sections[0]
	props := sec.Properties()
	x := a.Beams[0].N2().P.X
	if err := a.SetUnits(units.M); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	if a.Sections[0] != sec || sec.Properties() != props {
		t.Error("same-unit SetUnits touched cached sub-objects")
	}
	if a.Beams[0].N2().P.X != x {
		t.Error("same-unit SetUnits moved a node")
	}
}

func TestPartResolveConnections(t *testing.T) {
	a := buildTestAssembly(t)
	b := a.Beams[0]
	NewJoint("j1", v3.Vec{X: 2}, []*Beam{b}, nil)
	a.ResolveConnections()
	if len(b.ConnectionPoints()) != 1 {
		t.Errorf("got %d connection points, want 1", len(b.ConnectionPoints()))
	}
}
