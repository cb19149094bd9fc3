// Package kernel defines the abstract geometry kernel interface and the
// builders that turn structural entities into solids and meshes.
// Implementations (sdfx) provide solid modeling and boolean operations
// behind this interface, so the parametric core stays free of any
// particular CAD backend.
package kernel

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/ferrite-dev/ferrite/pkg/geom"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box has its min corner at the origin; Cylinder is
	// centered on the origin with its axis along Z.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// ExtrudePoly sweeps a closed 2D polygon from z=0 to z=depth.
	ExtrudePoly(points []v2.Vec, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms. Orient maps local axes onto a placement: local x to
	// pl.XDir, local y to pl.YDir, local z to pl.ZDir, and moves the
	// origin to pl.Origin.
	Translate(s Solid, x, y, z float64) Solid
	Orient(s Solid, pl geom.Placement) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
