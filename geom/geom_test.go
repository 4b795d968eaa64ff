package geom

import (
	"math"
	"testing"
)

func square(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func TestPointInPolygon(t *testing.T) {
	box := square(0, 0, 256, 256)

	tests := []struct {
		name   string
		p      Point
		poly   []Point
		inside bool
	}{
		{"center", Point{128, 128}, box, true},
		{"outside left", Point{-10, 128}, box, false},
		{"outside above", Point{128, 300}, box, false},
		{"far outside", Point{1e6, 1e6}, box, false},
		{"degenerate two vertices", Point{0, 0}, []Point{{0, 0}, {1, 1}}, false},
		{"near left edge inside", Point{0.001, 128}, box, true},
		{"near right edge outside", Point{256.001, 128}, box, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.poly); got != tt.inside {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.inside)
			}
		})
	}
}

// A point exactly on an edge shared by two adjacent polygons must resolve
// to exactly one of them (half-open rule).
func TestPointInPolygonSharedEdge(t *testing.T) {
	left := square(0, 0, 256, 256)
	right := square(256, 0, 512, 256)

	p := Point{256, 128}
	inLeft := PointInPolygon(p, left)
	inRight := PointInPolygon(p, right)
	if inLeft == inRight {
		t.Fatalf("shared-edge point in left=%v right=%v, want exactly one", inLeft, inRight)
	}
}

func TestPolygonConvex(t *testing.T) {
	tests := []struct {
		name   string
		poly   []Point
		convex bool
	}{
		{"square ccw", square(0, 0, 10, 10), true},
		{"square cw", []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}, true},
		{"triangle", []Point{{0, 0}, {10, 0}, {5, 8}}, true},
		{"too few vertices", []Point{{0, 0}, {1, 0}}, false},
		{"L shape", []Point{{0, 0}, {10, 0}, {10, 10}, {5, 10}, {5, 5}, {0, 5}}, false},
		{"collinear run", []Point{{0, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonConvex(tt.poly); got != tt.convex {
				t.Errorf("PolygonConvex = %v, want %v", got, tt.convex)
			}
		})
	}
}

func TestEnsureCCW(t *testing.T) {
	cw := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if SignedArea(cw) >= 0 {
		t.Fatal("test polygon should be clockwise")
	}
	fixed := EnsureCCW(cw)
	if SignedArea(fixed) <= 0 {
		t.Error("EnsureCCW did not flip winding")
	}
	ccw := square(0, 0, 10, 10)
	if got := EnsureCCW(ccw); &got[0] != &ccw[0] {
		t.Error("EnsureCCW should return CCW input unchanged")
	}
}

func TestSegmentIntersect(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Point
		want           Point
		wantT          float64
		hit            bool
	}{
		{
			name: "perpendicular cross",
			a1:   Point{0, 0}, a2: Point{10, 0},
			b1: Point{5, -5}, b2: Point{5, 5},
			want: Point{5, 0}, wantT: 0.5, hit: true,
		},
		{
			name: "miss beyond segment end",
			a1:   Point{0, 0}, a2: Point{10, 0},
			b1: Point{15, -5}, b2: Point{15, 5},
			hit: false,
		},
		{
			name: "parallel",
			a1:   Point{0, 0}, a2: Point{10, 0},
			b1: Point{0, 1}, b2: Point{10, 1},
			hit: false,
		},
		{
			name: "degenerate zero-length",
			a1:   Point{0, 0}, a2: Point{10, 0},
			b1: Point{5, 5}, b2: Point{5, 5},
			hit: false,
		},
		{
			name: "touch at endpoint",
			a1:   Point{0, 0}, a2: Point{10, 0},
			b1: Point{10, -5}, b2: Point{10, 5},
			want: Point{10, 0}, wantT: 1, hit: true,
		},
	}

	const tol = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotT, hit := SegmentIntersect(tt.a1, tt.a2, tt.b1, tt.b2)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if !hit {
				return
			}
			if math.Abs(got.X-tt.want.X) > tol || math.Abs(got.Y-tt.want.Y) > tol {
				t.Errorf("point = %v, want %v", got, tt.want)
			}
			if math.Abs(gotT-tt.wantT) > tol {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
		})
	}
}

func TestRaySegment(t *testing.T) {
	tests := []struct {
		name   string
		origin Point
		dir    Vec
		p1, p2 Point
		wantT  float64
		hit    bool
	}{
		{
			name:   "straight ahead",
			origin: Point{0, 0}, dir: Vec{1, 0},
			p1: Point{100, -50}, p2: Point{100, 50},
			wantT: 100, hit: true,
		},
		{
			name:   "behind the origin",
			origin: Point{0, 0}, dir: Vec{1, 0},
			p1: Point{-100, -50}, p2: Point{-100, 50},
			hit: false,
		},
		{
			name:   "parallel wall",
			origin: Point{0, 0}, dir: Vec{1, 0},
			p1: Point{0, 10}, p2: Point{100, 10},
			hit: false,
		},
		{
			name:   "diagonal",
			origin: Point{0, 0}, dir: Vec{math.Sqrt2 / 2, math.Sqrt2 / 2},
			p1: Point{0, 20}, p2: Point{20, 0},
			wantT: math.Sqrt(200), hit: true,
		},
	}

	const tol = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotT, hit := RaySegment(tt.origin, tt.dir, tt.p1, tt.p2)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && math.Abs(gotT-tt.wantT) > tol {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Point{{3, 7}, {-2, 4}, {9, -1}})
	want := AABB{-2, -1, 9, 7}
	if b != want {
		t.Errorf("BoundsOf = %+v, want %+v", b, want)
	}
	if !b.Contains(Point{0, 0}) {
		t.Error("Contains(origin) = false, want true")
	}
	if b.Contains(Point{10, 0}) {
		t.Error("Contains(10,0) = true, want false")
	}
	if (BoundsOf(nil) != AABB{}) {
		t.Error("BoundsOf(nil) should be the zero box")
	}
}
