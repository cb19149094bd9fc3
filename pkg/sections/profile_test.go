package sections

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

func buildIPE400(t *testing.T) *Section {
	t.Helper()
	sec, _, err := FromString("IPE400", units.M)
	if err != nil {
		t.Fatalf("FromString(IPE400): %v", err)
	}
	return sec
}

func TestIProfileShellThicknessMap(t *testing.T) {
	sec := buildIPE400(t)
	p, err := Build(sec, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.Disconnected {
		t.Fatal("I-profile shell must be disconnected")
	}
	want := []ThicknessEntry{
		{PartWeb, 0.0086},
		{PartTopFlange, 0.0135},
		{PartBtnFlange, 0.0135},
	}
	if len(p.ShellThicknessMap) != len(want) {
		t.Fatalf("thickness map has %d entries, want %d", len(p.ShellThicknessMap), len(want))
	}
	for i, w := range want {
		got := p.ShellThicknessMap[i]
		if got.Part != w.Part || !near(got.Thickness, w.Thickness) {
			t.Errorf("entry %d: got (%s, %g), want (%s, %g)", i, got.Part, got.Thickness, w.Part, w.Thickness)
		}
	}
	if len(p.OuterDisconnected()) != 3 {
		t.Errorf("got %d shell curves, want 3", len(p.OuterDisconnected()))
	}
}

func TestDisconnectedOuterAccess(t *testing.T) {
	sec := buildIPE400(t)
	p, err := Build(sec, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := p.Outer(); !errors.Is(err, ErrDisconnectedProfile) {
		t.Errorf("Outer on disconnected profile: got %v, want ErrDisconnectedProfile", err)
	}
}

func TestIProfileSolidOuter(t *testing.T) {
	sec := buildIPE400(t)
	p, err := Build(sec, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Disconnected {
		t.Fatal("solid I-profile must be a single closed loop")
	}
	outer, err := p.Outer()
	if err != nil {
		t.Fatalf("Outer: %v", err)
	}
	if !outer.Closed {
		t.Error("outer boundary not closed")
	}
	if len(outer.Points2D) != 12 {
		t.Errorf("I-profile outline has %d points, want 12", len(outer.Points2D))
	}
}

func TestBoxSolidHasInner(t *testing.T) {
	sec := NewBox("BG1", 0.5, 0.3, 0.02, 0.025, units.M)
	p, err := Build(sec, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	inner, err := p.Inner()
	if err != nil {
		t.Fatalf("Inner: %v", err)
	}
	if inner == nil {
		t.Fatal("box solid profile missing inner boundary")
	}
	if len(inner.Points2D) != 4 {
		t.Errorf("inner boundary has %d points, want 4", len(inner.Points2D))
	}
}

func TestTubularProfileEmpty(t *testing.T) {
	sec := NewTubular("TUB1", 0.375, 0.035, units.M)
	p, err := Build(sec, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if outer, err := p.Outer(); err != nil || outer != nil {
		t.Errorf("tubular profile should have no curves, got %v, %v", outer, err)
	}
}

func TestMatchPatchSubParts(t *testing.T) {
	sec := buildIPE400(t)
	p, err := Build(sec, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pl1 := geom.PlacementFrom(v3.Vec{}, geom.GlobalY, geom.GlobalX)
	pl2 := geom.PlacementFrom(v3.Vec{X: 1}, geom.GlobalY, geom.GlobalX)

	// Patches as a solid builder would report them: one quad per shell
	// curve, spanned between the two end frames.
	var patches []COGNormal
	for _, curve := range p.OuterDisconnected() {
		c1 := curve.Copy()
		c2 := curve.Copy()
		c1.Placement = pl1
		c2.Placement = pl2
		patches = append(patches, CurveCOGs(c1, c2)[0])
	}

	got, err := p.ThicknessAssignments(patches, pl1, pl2, 1e-2)
	if err != nil {
		t.Fatalf("ThicknessAssignments: %v", err)
	}
	wantParts := []string{PartWeb, PartTopFlange, PartBtnFlange}
	if len(got) != len(wantParts) {
		t.Fatalf("got %d assignments, want %d", len(got), len(wantParts))
	}
	for i, w := range wantParts {
		if got[i].Entry.Part != w {
			t.Errorf("patch %d assigned %q, want %q", i, got[i].Entry.Part, w)
		}
	}
	if !near(got[0].Entry.Thickness, 0.0086) {
		t.Errorf("web thickness = %g, want 0.0086", got[0].Entry.Thickness)
	}
}
