package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

// Node is the indivisible geometric primitive: a 3D coordinate with an
// associated unit. Two nodes at the same coordinate remain distinct
// entities unless explicitly merged.
type Node struct {
	ID   int
	P    v3.Vec
	Unit units.Unit
}

// NewNode creates a node at the given position.
func NewNode(p v3.Vec, unit units.Unit) *Node {
	return &Node{P: p, Unit: unit}
}

// NewNodeFromCoords creates a node from a raw coordinate slice. 2D input
// is padded with a zero Z component; more than 3 components is an error.
func NewNodeFromCoords(coords []float64, unit units.Unit) (*Node, error) {
	switch len(coords) {
	case 2:
		return &Node{P: v3.Vec{X: coords[0], Y: coords[1]}, Unit: unit}, nil
	case 3:
		return &Node{P: v3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}, Unit: unit}, nil
	}
	return nil, fmt.Errorf("node coordinates must have 2 or 3 components, got %d", len(coords))
}

// SetUnits rescales the node position to the new unit. No-op when the
// node already carries the target unit.
func (n *Node) SetUnits(u units.Unit) {
	if n.Unit == u {
		return
	}
	scale := units.ScaleFactor(n.Unit, u)
	n.P = n.P.MulScalar(scale)
	n.Unit = u
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%g, %g, %g)", n.P.X, n.P.Y, n.P.Z)
}
