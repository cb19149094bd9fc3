package model

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/ferrite-dev/ferrite/pkg/geom"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

// WallOffset positions the wall body relative to its centerline points.
type WallOffset int

const (
	OffsetCenter WallOffset = iota
	OffsetLeft
	OffsetRight
)

// Wall is a vertical panel extruded from a horizontal centerline
// polyline to a height, with a thickness and an offset rule.
type Wall struct {
	Name string
	GUID string

	points    []v3.Vec
	height    float64
	thickness float64
	offset    float64

	unit   units.Unit
	parent *Part
	bbox   *[2]v3.Vec

	Penetrations []*Penetration
}

// NewWall creates a wall from centerline points. 2D points are lifted to
// z = 0.
func NewWall(name string, points [][]float64, height, thickness float64, offset WallOffset, unit units.Unit) (*Wall, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("wall %q needs at least 2 centerline points, got %d", name, len(points))
	}
	w := &Wall{
		Name: name, GUID: uuid.NewString(),
		height: height, thickness: thickness, unit: unit,
	}
	for _, p := range points {
		n, err := geom.NewNodeFromCoords(p, unit)
		if err != nil {
			return nil, fmt.Errorf("wall %q: %w", name, err)
		}
		w.points = append(w.points, n.P)
	}
	switch offset {
	case OffsetCenter:
		w.offset = 0
	case OffsetLeft:
		w.offset = -thickness / 2
	case OffsetRight:
		w.offset = thickness / 2
	default:
		return nil, fmt.Errorf("wall %q: unknown offset rule %d", name, offset)
	}
	return w, nil
}

func (w *Wall) Points() []v3.Vec   { return w.points }
func (w *Wall) Height() float64    { return w.height }
func (w *Wall) Thickness() float64 { return w.thickness }
func (w *Wall) Offset() float64    { return w.offset }
func (w *Wall) Unit() units.Unit   { return w.unit }
func (w *Wall) Parent() *Part      { return w.parent }

// SegmentProps returns the local directions of a centerline segment:
// along, transverse and vertical.
func (w *Wall) SegmentProps(segment int) (xvec, yvec, zvec v3.Vec, err error) {
	if segment < 0 || segment >= len(w.points)-1 {
		return xvec, yvec, zvec, fmt.Errorf("wall %q: segment index %d out of range [0, %d)", w.Name, segment, len(w.points)-1)
	}
	xvec = geom.UnitVector(w.points[segment+1].Sub(w.points[segment]))
	zvec = geom.GlobalZ
	yvec = geom.UnitVector(zvec.Cross(xvec))
	return xvec, yvec, zvec, nil
}

// offsetLine shifts the centerline sideways by dist, intersecting
// adjacent segment lines at the corners.
func (w *Wall) offsetLine(dist float64) []v3.Vec {
	out := make([]v3.Vec, 0, len(w.points))
	var prevXvec v3.Vec
	var lastYvec v3.Vec
	for i := 0; i < len(w.points)-1; i++ {
		p1 := w.points[i]
		p2 := w.points[i+1]
		xvec := p2.Sub(p1)
		yvec := geom.UnitVector(geom.GlobalZ.Cross(xvec))
		np := p1.Add(yvec.MulScalar(dist))
		if i > 0 && !geom.IsParallel(xvec, prevXvec, 1e-9) {
			prev := out[len(out)-1]
			s, _ := geom.IntersectCalc(prev, np, prevXvec, xvec)
			np = prev.Add(prevXvec.MulScalar(s))
		}
		out = append(out, np)
		prevXvec = xvec
		lastYvec = yvec
	}
	last := w.points[len(w.points)-1]
	out = append(out, last.Add(lastYvec.MulScalar(dist)))
	return out
}

// ExtrusionArea returns the closed footprint polygon of the wall body:
// the centerline offset to both faces, corners resolved by line
// intersection.
func (w *Wall) ExtrusionArea() []v3.Vec {
	left := w.offsetLine(w.offset + w.thickness/2)
	right := w.offsetLine(w.offset - w.thickness/2)
	area := make([]v3.Vec, 0, len(left)+len(right))
	area = append(area, left...)
	for i := len(right) - 1; i >= 0; i-- {
		area = append(area, right[i])
	}
	return area
}

// FootprintPoly returns the extrusion area as a closed boundary curve.
func (w *Wall) FootprintPoly() (*geom.CurvePoly, error) {
	poly, err := geom.NewCurvePolyFrom3D(w.ExtrusionArea())
	if err != nil {
		return nil, fmt.Errorf("wall %q: %w", w.Name, err)
	}
	return poly, nil
}

// AddPenetration attaches a primitive cut-out to this wall.
func (w *Wall) AddPenetration(pen *Penetration) {
	w.Penetrations = append(w.Penetrations, pen)
	w.bbox = nil
}

// BoundingBox returns the extents of the extrusion area swept up to the
// wall height. Lazily cached.
func (w *Wall) BoundingBox() (min, max v3.Vec) {
	if w.bbox != nil {
		return w.bbox[0], w.bbox[1]
	}
	area := w.ExtrusionArea()
	mn, mx := area[0], area[0]
	for _, p := range area[1:] {
		mn = mn.Min(p)
		mx = mx.Max(p)
	}
	mx = mx.Add(v3.Vec{Z: w.height})
	w.bbox = &[2]v3.Vec{mn, mx}
	return mn, mx
}

// SetUnits rescales the centerline, height, thickness and offset.
func (w *Wall) SetUnits(u units.Unit) error {
	if w.unit == u {
		return nil
	}
	scale := units.ScaleFactor(w.unit, u)
	for i := range w.points {
		w.points[i] = w.points[i].MulScalar(scale)
	}
	w.height *= scale
	w.thickness *= scale
	w.offset *= scale
	for _, pen := range w.Penetrations {
		if err := pen.SetUnits(u); err != nil {
			return err
		}
	}
	w.bbox = nil
	w.unit = u
	return nil
}

func (w *Wall) String() string {
	return fmt.Sprintf("Wall(%s)", w.Name)
}
