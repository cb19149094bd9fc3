package geom

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segment is a straight piece of a boundary curve in 3D.
type Segment struct {
	P1 v3.Vec
	P2 v3.Vec
}

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() v3.Vec {
	return s.P1.Add(s.P2).MulScalar(0.5)
}

// CurvePoly is a polyline boundary curve: 2D control points local to a
// placement (origin, xdir, normal). Closed curves represent section and
// plate boundaries; open curves represent shell centerlines.
type CurvePoly struct {
	Points2D  []v2.Vec
	Placement Placement
	Closed    bool
}

// NewCurvePoly builds a curve from 2D points in the plane defined by
// origin, xdir and normal. Closed curves need at least 3 points and must
// not repeat the first point within the closure tolerance.
func NewCurvePoly(points2d []v2.Vec, origin, xdir, normal v3.Vec, closed bool, tol float64) (*CurvePoly, error) {
	if closed && len(points2d) < 3 {
		return nil, fmt.Errorf("closed curve needs at least 3 points, got %d", len(points2d))
	}
	if len(points2d) < 2 {
		return nil, fmt.Errorf("curve needs at least 2 points, got %d", len(points2d))
	}
	pts := make([]v2.Vec, len(points2d))
	copy(pts, points2d)
	if closed {
		// Drop an explicit closing point; closure is implicit.
		first, last := pts[0], pts[len(pts)-1]
		if first.Sub(last).Length() < tol && len(pts) > 3 {
			pts = pts[:len(pts)-1]
		}
	}
	return &CurvePoly{
		Points2D:  pts,
		Placement: PlacementFrom(origin, xdir, normal),
		Closed:    closed,
	}, nil
}

// NewCurvePolyFrom3D builds a closed curve directly from coplanar 3D
// points, deriving the plane normal from the points themselves.
func NewCurvePolyFrom3D(points3d []v3.Vec) (*CurvePoly, error) {
	if len(points3d) < 3 {
		return nil, fmt.Errorf("closed curve needs at least 3 points, got %d", len(points3d))
	}
	origin := points3d[0]
	normal := NormalToPoints(points3d)
	if normal.Length() == 0 {
		return nil, fmt.Errorf("%w: curve points are collinear", ErrDegenerateGeometry)
	}
	xdir := UnitVector(points3d[1].Sub(origin))
	pl := PlacementFrom(origin, xdir, normal)

	pts := make([]v2.Vec, len(points3d))
	for i, p := range points3d {
		d := p.Sub(origin)
		pts[i] = v2.Vec{X: d.Dot(pl.XDir), Y: d.Dot(pl.YDir)}
	}
	return &CurvePoly{Points2D: pts, Placement: pl, Closed: true}, nil
}

// Normal returns the plane normal of the curve.
func (c *CurvePoly) Normal() v3.Vec {
	return c.Placement.ZDir
}

// Points3D maps the 2D control points to global coordinates.
func (c *CurvePoly) Points3D() []v3.Vec {
	out := make([]v3.Vec, len(c.Points2D))
	for i, p := range c.Points2D {
		out[i] = c.Placement.ToGlobal(v3.Vec{X: p.X, Y: p.Y})
	}
	return out
}

// Segments returns the 3D segment list of the curve. Closed curves
// include the wrap-around segment.
func (c *CurvePoly) Segments() []Segment {
	pts := c.Points3D()
	if len(pts) < 2 {
		return nil
	}
	n := len(pts) - 1
	if c.Closed {
		n = len(pts)
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, Segment{P1: pts[i], P2: pts[(i+1)%len(pts)]})
	}
	return segs
}

// Scale rescales the curve control points and placement origin by factor,
// then revalidates closure against the unit-appropriate tolerance.
func (c *CurvePoly) Scale(factor, tol float64) error {
	for i, p := range c.Points2D {
		c.Points2D[i] = p.MulScalar(factor)
	}
	c.Placement.Scale(factor)
	if c.Closed {
		first, last := c.Points2D[0], c.Points2D[len(c.Points2D)-1]
		if d := first.Sub(last).Length(); d != 0 && d < tol && len(c.Points2D) > 3 {
			return fmt.Errorf("curve closure degenerated after scaling: endpoint gap %g < tol %g", d, tol)
		}
	}
	return nil
}

// BBox returns the axis-aligned extents of the curve's 3D points.
func (c *CurvePoly) BBox() (min, max v3.Vec) {
	pts := c.Points3D()
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// Copy returns a deep copy of the curve. The placement parent reference
// is shared, not copied.
func (c *CurvePoly) Copy() *CurvePoly {
	pts := make([]v2.Vec, len(c.Points2D))
	copy(pts, c.Points2D)
	return &CurvePoly{Points2D: pts, Placement: c.Placement, Closed: c.Closed}
}
