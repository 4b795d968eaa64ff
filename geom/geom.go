// Package geom is the 2D computational-geometry kernel for the sector
// engine: point-in-polygon, convexity, segment and ray intersection.
// Everything here is pure and stateless.
package geom

import "math"

// Eps rejects near-parallel intersection determinants and guards
// degenerate (zero-length) edges.
const Eps = 1e-9

// Point is a 2D point in world units.
type Point struct {
	X, Y float64
}

// Vec is a 2D direction or displacement.
type Vec struct {
	X, Y float64
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{p.X - q.X, p.Y - q.Y}
}

// Add offsets a point by a vector.
func (p Point) Add(v Vec) Point {
	return Point{p.X + v.X, p.Y + v.Y}
}

// DistTo returns the euclidean distance between two points.
func (p Point) DistTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec) Cross(w Vec) float64 {
	return v.X*w.Y - v.Y*w.X
}

func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Norm returns a unit-length copy of v, or the zero vector if v is zero.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Extend grows the box to include p.
func (b *AABB) Extend(p Point) {
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsBox reports whether o lies entirely inside or on b.
func (b AABB) ContainsBox(o AABB) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// BoundsOf computes the bounding box of a vertex list.
// The zero box is returned for an empty list.
func BoundsOf(poly []Point) AABB {
	if len(poly) == 0 {
		return AABB{}
	}
	b := AABB{poly[0].X, poly[0].Y, poly[0].X, poly[0].Y}
	for _, p := range poly[1:] {
		b.Extend(p)
	}
	return b
}

// PointInPolygon runs the even-odd ray-cast test.
//
// Boundary rule (half-open): crossings strictly to the right of the probe
// count, crossings at the probe's own X do not, and an edge contributes
// only when exactly one endpoint lies strictly above the probe. A point
// exactly on an edge shared by two adjacent polygons therefore lands
// inside exactly one of them, not both and not neither.
func PointInPolygon(p Point, poly []Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// PolygonConvex reports whether the polygon turns in a single direction.
// Collinear runs are tolerated; fewer than 3 vertices is never convex.
// This is a load-time sanity check, not a hot-path test.
func PolygonConvex(poly []Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sign := 0.0
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		c := poly[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) <= Eps {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// SignedArea is positive for counter-clockwise winding.
func SignedArea(poly []Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	area := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return area / 2
}

// EnsureCCW returns the polygon with counter-clockwise winding,
// reversing the vertex order if needed.
func EnsureCCW(poly []Point) []Point {
	if SignedArea(poly) >= 0 {
		return poly
	}
	n := len(poly)
	reversed := make([]Point, n)
	for i := range poly {
		reversed[i] = poly[n-1-i]
	}
	return reversed
}

// SegmentIntersect intersects segments a1-a2 and b1-b2 parametrically.
// It reports the intersection point and the interpolation parameter along
// the first segment. Both parameters must lie in [0,1]; near-parallel
// segments (determinant below Eps) report no intersection.
func SegmentIntersect(a1, a2, b1, b2 Point) (Point, float64, bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	den := d1.Cross(d2)
	if math.Abs(den) < Eps {
		return Point{}, 0, false
	}
	w := b1.Sub(a1)
	t := w.Cross(d2) / den
	u := w.Cross(d1) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, 0, false
	}
	return a1.Add(d1.Scale(t)), t, true
}

// RaySegment intersects the ray origin+t*dir (t >= 0) with the segment
// p1-p2 (u in [0,1]). dir is expected to be unit length so that t is a
// world-unit distance. Degenerate segments report no intersection.
func RaySegment(origin Point, dir Vec, p1, p2 Point) (Point, float64, bool) {
	seg := p2.Sub(p1)
	den := dir.Cross(seg)
	if math.Abs(den) < Eps {
		return Point{}, 0, false
	}
	w := p1.Sub(origin)
	t := w.Cross(seg) / den
	u := w.Cross(dir) / den
	if t < 0 || u < 0 || u > 1 {
		return Point{}, 0, false
	}
	return origin.Add(dir.Scale(t)), t, true
}
