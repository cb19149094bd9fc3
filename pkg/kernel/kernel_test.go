package kernel

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/ferrite-dev/ferrite/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the
// interface is satisfiable and lets builder tests count the boolean
// operations performed.
type stubKernel struct {
	differences int
	extrusions  int
}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{0, 0, 0},
		maxBB: [3]float64{x, y, z},
	}
}

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -height / 2},
		maxBB: [3]float64{radius, radius, height / 2},
	}
}

func (k *stubKernel) ExtrudePoly(points []v2.Vec, depth float64) (Solid, error) {
	k.extrusions++
	min := [3]float64{points[0].X, points[0].Y, 0}
	max := [3]float64{points[0].X, points[0].Y, depth}
	for _, p := range points[1:] {
		if p.X < min[0] {
			min[0] = p.X
		}
		if p.Y < min[1] {
			min[1] = p.Y
		}
		if p.X > max[0] {
			max[0] = p.X
		}
		if p.Y > max[1] {
			max[1] = p.Y
		}
	}
	return &stubSolid{minBB: min, maxBB: max}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid { return a }

func (k *stubKernel) Difference(a, _ Solid) Solid {
	k.differences++
	return a
}

func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, x, y, z float64) Solid {
	bb := s.(*stubSolid)
	return &stubSolid{
		minBB: [3]float64{bb.minBB[0] + x, bb.minBB[1] + y, bb.minBB[2] + z},
		maxBB: [3]float64{bb.maxBB[0] + x, bb.maxBB[1] + y, bb.maxBB[2] + z},
	}
}

func (k *stubKernel) Orient(s Solid, _ geom.Placement) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{Vertices: []float32{0, 0, 0}, Indices: []uint32{0, 0, 0}}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelExtrudeBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.ExtrudePoly([]v2.Vec{{X: -1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 3}}, 5)
	if err != nil {
		t.Fatalf("ExtrudePoly() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-1, 0, 0} {
		t.Errorf("extrude min = %v, want [-1 0 0]", min)
	}
	if max != [3]float64{2, 3, 5} {
		t.Errorf("extrude max = %v, want [2 3 5]", max)
	}
}
