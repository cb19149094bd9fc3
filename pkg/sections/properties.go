package sections

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// GeneralProperties holds the derived cross-section quantities consumed
// by analysis exporters. Iy is the strong-axis bending moment, Iz the
// weak axis, Ix the torsional constant. Computed on demand and cached on
// the section; any dimension setter invalidates the cache.
type GeneralProperties struct {
	Ax  float64
	Ix  float64
	Iy  float64
	Iz  float64
	Iyz float64

	Wxmin float64
	Wymin float64
	Wzmin float64

	Sfy float64
	Sfz float64

	// Centroid offset from the section local origin.
	Cy float64
	Cz float64

	parent *Section
}

// rect is an axis-aligned rectangle in section-local (y,z) coordinates:
// center plus full width/height. Categories decompose into
// non-overlapping rects for area and inertia sums.
type rect struct {
	cy, cz float64
	b, h   float64
}

func (r rect) area() float64 { return r.b * r.h }

func calculateGeneralProperties(s *Section) *GeneralProperties {
	p := &GeneralProperties{Sfy: 1, Sfz: 1, parent: s}

	switch s.baseType {
	case Circular:
		p.Ax = math.Pi * s.r * s.r
		p.Iy = math.Pi * math.Pow(s.r, 4) / 4
		p.Iz = p.Iy
		p.Ix = 2 * p.Iy
		p.Wymin = p.Iy / s.r
		p.Wzmin = p.Wymin
		p.Wxmin = p.Ix / s.r
		return p
	case Tubular:
		ri := s.r - s.wt
		p.Ax = math.Pi * (s.r*s.r - ri*ri)
		p.Iy = math.Pi * (math.Pow(s.r, 4) - math.Pow(ri, 4)) / 4
		p.Iz = p.Iy
		p.Ix = 2 * p.Iy
		p.Wymin = p.Iy / s.r
		p.Wzmin = p.Wymin
		p.Wxmin = p.Ix / s.r
		return p
	case Poly:
		return polyProperties(s, p)
	case General:
		return p
	}

	rects := s.decompose()
	if len(rects) == 0 {
		return p
	}
	fromRects(p, rects)
	p.Ix = torsionConstant(s)
	return p
}

// decompose splits a parametric category into non-overlapping rectangles
// in local (y,z) coordinates centered on the section origin.
func (s *Section) decompose() []rect {
	hw := s.h - s.tFtop - s.tFbtn
	webZ := (s.tFbtn - s.tFtop) / 2
	switch s.baseType {
	case IProfile:
		return []rect{
			{0, s.h/2 - s.tFtop/2, s.wTop, s.tFtop},
			{0, -s.h/2 + s.tFbtn/2, s.wBtn, s.tFbtn},
			{0, webZ, s.tW, hw},
		}
	case TProfile:
		return []rect{
			{0, s.h/2 - s.tFtop/2, s.wTop, s.tFtop},
			{0, -s.tFtop / 2, s.tW, s.h - s.tFtop},
		}
	case Box:
		return []rect{
			{0, s.h/2 - s.tFtop/2, s.wTop, s.tFtop},
			{0, -s.h/2 + s.tFbtn/2, s.wBtn, s.tFbtn},
			{-s.wTop/2 + s.tW/2, webZ, s.tW, hw},
			{s.wTop/2 - s.tW/2, webZ, s.tW, hw},
		}
	case Channel:
		return []rect{
			{0, s.h/2 - s.tFtop/2, s.wTop, s.tFtop},
			{0, -s.h/2 + s.tFbtn/2, s.wBtn, s.tFbtn},
			{-s.wTop/2 + s.tW/2, webZ, s.tW, hw},
		}
	case Angular:
		return []rect{
			{0, -s.h/2 + s.tFtop/2, s.wTop, s.tFtop},
			{-s.wTop/2 + s.tW/2, s.tFtop / 2, s.tW, s.h - s.tFtop},
		}
	case Flatbar:
		return []rect{{0, 0, s.wTop, s.h}}
	}
	return nil
}

func fromRects(p *GeneralProperties, rects []rect) {
	var a, sy, sz float64
	for _, r := range rects {
		a += r.area()
		sy += r.area() * r.cy
		sz += r.area() * r.cz
	}
	p.Ax = a
	p.Cy = sy / a
	p.Cz = sz / a

	var ymax, zmax float64
	for _, r := range rects {
		dy := r.cy - p.Cy
		dz := r.cz - p.Cz
		p.Iy += r.b*math.Pow(r.h, 3)/12 + r.area()*dz*dz
		p.Iz += r.h*math.Pow(r.b, 3)/12 + r.area()*dy*dy
		p.Iyz += r.area() * dy * dz
		ymax = math.Max(ymax, math.Abs(dy)+r.b/2)
		zmax = math.Max(zmax, math.Abs(dz)+r.h/2)
	}
	if zmax > 0 {
		p.Wymin = p.Iy / zmax
	}
	if ymax > 0 {
		p.Wzmin = p.Iz / ymax
	}
}

// torsionConstant returns the St. Venant constant: thin-walled open
// formula sum(l*t^3)/3, or the Bredt formula for the closed box.
func torsionConstant(s *Section) float64 {
	switch s.baseType {
	case Box:
		bm := s.wTop - s.tW
		hm := s.h - (s.tFtop+s.tFbtn)/2
		am := bm * hm
		den := bm/((s.tFtop+s.tFbtn)/2) + hm/s.tW
		if den == 0 {
			return 0
		}
		return 2 * am * am / den
	default:
		var j float64
		for _, r := range s.decompose() {
			l := math.Max(r.b, r.h)
			t := math.Min(r.b, r.h)
			j += l * math.Pow(t, 3) / 3
		}
		return j
	}
}

// polyProperties computes area and second moments of an arbitrary
// polygon boundary with the shoelace-based closed-polygon formulas,
// subtracting the inner boundary when present.
func polyProperties(s *Section, p *GeneralProperties) *GeneralProperties {
	a, sy, sz, iy, iz, iyz := polygonMoments(s.polyOuter.Points2D)
	if s.polyInner != nil {
		a2, sy2, sz2, iy2, iz2, iyz2 := polygonMoments(s.polyInner.Points2D)
		a -= a2
		sy -= sy2
		sz -= sz2
		iy -= iy2
		iz -= iz2
		iyz -= iyz2
	}
	if a == 0 {
		return p
	}
	p.Ax = a
	p.Cy = sy / a
	p.Cz = sz / a
	// Transfer origin moments to the centroid.
	p.Iy = iy - a*p.Cz*p.Cz
	p.Iz = iz - a*p.Cy*p.Cy
	p.Iyz = iyz - a*p.Cy*p.Cz
	return p
}

// polygonMoments returns area, first moments and origin-referenced second
// moments of a closed polygon given counter-clockwise. Clockwise input
// comes out with consistent signs and cancels in the caller's sums.
func polygonMoments(pts []v2.Vec) (a, sy, sz, iy, iz, iyz float64) {
	n := len(pts)
	for i := 0; i < n; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%n]
		cross := p0.X*p1.Y - p1.X*p0.Y
		a += cross
		sy += (p0.X + p1.X) * cross
		sz += (p0.Y + p1.Y) * cross
		iy += (p0.Y*p0.Y + p0.Y*p1.Y + p1.Y*p1.Y) * cross
		iz += (p0.X*p0.X + p0.X*p1.X + p1.X*p1.X) * cross
		iyz += (p0.X*p1.Y + 2*p0.X*p0.Y + 2*p1.X*p1.Y + p1.X*p0.Y) * cross
	}
	a /= 2
	sy /= 6
	sz /= 6
	iy /= 12
	iz /= 12
	iyz /= 24
	if a < 0 {
		a, sy, sz, iy, iz, iyz = -a, -sy, -sz, -iy, -iz, -iyz
	}
	return a, sy, sz, iy, iz, iyz
}
