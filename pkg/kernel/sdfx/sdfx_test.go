package sdfx

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/geom"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 {
		t.Fatal("expected non-zero vertex count")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10)
	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}

	// Centered on the origin with the axis along Z.
	min, max := cyl.BoundingBox()
	const tol = 0.5
	if math.Abs(min[2]+25) > tol || math.Abs(max[2]-25) > tol {
		t.Errorf("cylinder z bounds = [%f, %f], expected ~[-25, 25]", min[2], max[2])
	}
}

func TestExtrudePoly(t *testing.T) {
	k := New()
	// 40x20 rectangle extruded 10 along Z, starting at z=0.
	points := []v2.Vec{
		{X: 0, Y: 0},
		{X: 40, Y: 0},
		{X: 40, Y: 20},
		{X: 0, Y: 20},
	}
	solid, err := k.ExtrudePoly(points, 10)
	if err != nil {
		t.Fatalf("ExtrudePoly failed: %v", err)
	}

	min, max := solid.BoundingBox()
	const tol = 0.5
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{40, 20, 10}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("extrusion mesh is empty")
	}
}

func TestExtrudePolyTooFewPoints(t *testing.T) {
	k := New()
	points := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}}
	if _, err := k.ExtrudePoly(points, 5); err == nil {
		t.Fatal("expected error for a two-point polygon")
	}
}

func TestDifference(t *testing.T) {
	k := New()

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	// Drill a vertical hole through the middle of the box.
	cyl := k.Translate(k.Cylinder(120, 20), 50, 50, 50)
	diff := k.Difference(box, cyl)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}

	min, max := u.BoundingBox()
	const tol = 0.5
	if math.Abs(min[0]) > tol || math.Abs(max[0]-80) > tol {
		t.Errorf("union x bounds = [%f, %f], expected ~[0, 80]", min[0], max[0])
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Box(10,10,10) has its minimum corner at the origin, so after the
	// translation the bounds run from (100,200,300) to (110,210,310).
	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}

	min, max := inter.BoundingBox()
	const tol = 0.5
	if math.Abs(min[0]-50) > tol || math.Abs(max[0]-100) > tol {
		t.Errorf("intersection x bounds = [%f, %f], expected ~[50, 100]", min[0], max[0])
	}
}

func TestOrient(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// Map the box's local frame onto a placement whose normal is global X:
	// the long local x direction swings onto Y and local z onto X, so the
	// extents swap accordingly.
	pl := geom.PlacementFrom(v3.Vec{}, geom.GlobalY, geom.GlobalX)
	oriented := k.Orient(box, pl)
	min, max := oriented.BoundingBox()

	const tol = 1.0
	if got := max[0] - min[0]; math.Abs(got-10) > tol {
		t.Errorf("oriented X extent = %f, expected ~10", got)
	}
	if got := max[1] - min[1]; math.Abs(got-100) > tol {
		t.Errorf("oriented Y extent = %f, expected ~100", got)
	}
	if got := max[2] - min[2]; math.Abs(got-10) > tol {
		t.Errorf("oriented Z extent = %f, expected ~10", got)
	}
}

func TestOrientOrigin(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)

	// The identity basis with a shifted origin reduces to a translation.
	pl := geom.NewPlacement()
	pl.Origin = v3.Vec{X: 5, Y: 6, Z: 7}
	oriented := k.Orient(box, pl)
	min, max := oriented.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{5, 6, 7}
	expectMax := [3]float64{15, 16, 17}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}
