package world

import (
	"testing"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/logger"
)

func init() {
	logger.Silence()
}

func boxRecord(id int32, x0, y0, x1, y1, floor, ceil float64, parent int32, kind string) SectorRecord {
	return SectorRecord{
		ID:      id,
		Floor:   floor,
		Ceiling: ceil,
		Parent:  parent,
		Kind:    kind,
		Vertices: []VertexRecord{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		},
	}
}

// testWorld builds the canonical two-rooms-plus-box fixture: room A
// (0..256), room B (256..512) sharing the x=256 edge, and C, a solid box
// nested in A with footprint 32..96 and ceiling 64.
func testWorld(t *testing.T) *World {
	t.Helper()
	m := &MapFile{
		Name: "fixture",
		Sectors: []SectorRecord{
			boxRecord(0, 0, 0, 256, 256, 0, 256, -1, "root"),
			boxRecord(1, 256, 0, 512, 256, 0, 256, -1, "root"),
			boxRecord(2, 32, 32, 96, 96, 0, 64, 0, "box"),
		},
	}
	w := m.Build(0)
	if w.NumSectors() != 3 {
		t.Fatalf("fixture loaded %d sectors, want 3", w.NumSectors())
	}
	return w
}

func TestAddSectorValidation(t *testing.T) {
	tests := []struct {
		name string
		s    *Sector
	}{
		{"negative id", &Sector{ID: -2, CeilZ: 10, Vertices: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}},
		{"too few vertices", &Sector{ID: 1, CeilZ: 10, Vertices: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
		{"non-convex", &Sector{ID: 1, CeilZ: 10, Vertices: []geom.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 10}, {X: 5, Y: 5}, {X: 0, Y: 5},
		}}},
		{"ceiling below floor", &Sector{ID: 1, FloorZ: 10, CeilZ: 5, Vertices: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			if err := w.AddSector(tt.s); err == nil {
				t.Error("AddSector accepted an invalid sector")
			}
		})
	}

	w := New()
	ok := &Sector{ID: 7, CeilZ: 128, Vertices: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, Parent: NoSector}
	if err := w.AddSector(ok); err != nil {
		t.Fatalf("AddSector rejected a valid sector: %v", err)
	}
	if err := w.AddSector(ok); err == nil {
		t.Error("AddSector accepted a duplicate id")
	}
	if w.Sector(7) == nil {
		t.Error("Sector(7) = nil after add")
	}
	if w.Sector(NoSector) != nil {
		t.Error("Sector(NoSector) should be nil")
	}
}

func TestFinalizeNesting(t *testing.T) {
	w := testWorld(t)

	a, c := w.Sector(0), w.Sector(2)
	if len(a.Children) != 1 || a.Children[0] != 2 {
		t.Errorf("A.Children = %v, want [2]", a.Children)
	}
	if c.Depth != 1 || a.Depth != 0 {
		t.Errorf("depths: A=%d C=%d, want 0 and 1", a.Depth, c.Depth)
	}
	if a.Solid() {
		t.Error("A has a child and a portal, must not be solid")
	}
	if !c.Solid() {
		t.Error("C has no portals and no children, must be solid")
	}
}

func TestFinalizeBadParentDetaches(t *testing.T) {
	m := &MapFile{Sectors: []SectorRecord{
		boxRecord(0, 0, 0, 100, 100, 0, 128, 99, "room"),
	}}
	w := m.Build(0)
	s := w.Sector(0)
	if s == nil {
		t.Fatal("sector with broken parent was dropped, want detached to root")
	}
	if s.Parent != NoSector || s.Kind != KindRoot || s.Depth != 0 {
		t.Errorf("detached sector: parent=%d kind=%v depth=%d", s.Parent, s.Kind, s.Depth)
	}
}

func TestDetectPortals(t *testing.T) {
	w := testWorld(t)

	if w.NumPortals() != 1 {
		t.Fatalf("NumPortals = %d, want exactly 1", w.NumPortals())
	}
	p := w.Portal(0)
	if p.Other(0) != 1 || p.Other(1) != 0 {
		t.Errorf("portal endpoints %d<->%d, want 0<->1", p.SectorA, p.SectorB)
	}
	if p.Other(2) != NoSector {
		t.Error("Other on an untouched sector should be NoSector")
	}

	// Both walls reference the same portal, and the sector lists mirror
	// the wall stamps.
	for _, id := range []SectorID{0, 1} {
		s := w.Sector(id)
		if !s.HasPortal(0) {
			t.Errorf("sector %d portal list missing portal 0", id)
		}
		stamped := 0
		for _, wall := range s.Walls {
			if wall.Portal == 0 {
				stamped++
			}
		}
		if stamped != 1 {
			t.Errorf("sector %d has %d stamped walls, want 1", id, stamped)
		}
	}

	if got := w.PortalBetween(0, 1); got != 0 {
		t.Errorf("PortalBetween(0,1) = %d, want 0", got)
	}
	if got := w.PortalBetween(0, 2); got != NoPortal {
		t.Errorf("PortalBetween(0,2) = %d, want NoPortal", got)
	}
	if got := w.Neighbor(0, 1); got != 0 {
		t.Errorf("Neighbor(portal 0, from 1) = %d, want 0", got)
	}
}

func TestDetectPortalsIdempotent(t *testing.T) {
	w := testWorld(t)
	first := w.NumPortals()
	if n := w.DetectPortals(0); n != first {
		t.Errorf("second detection found %d portals, want %d", n, first)
	}
	if !w.Sector(0).HasPortal(0) {
		t.Error("portal stamp lost after re-detection")
	}
}

func TestDetectPortalsEpsilonGap(t *testing.T) {
	// The shared edge is offset by more than the weld epsilon, so the
	// boundary stays solid.
	m := &MapFile{Sectors: []SectorRecord{
		boxRecord(0, 0, 0, 256, 256, 0, 256, -1, "root"),
		boxRecord(1, 257, 0, 512, 256, 0, 256, -1, "root"),
	}}
	w := m.Build(0.1)
	if w.NumPortals() != 0 {
		t.Errorf("NumPortals = %d, want 0 across a 1-unit gap", w.NumPortals())
	}
}

func TestSectorAt(t *testing.T) {
	w := testWorld(t)

	tests := []struct {
		name string
		p    geom.Point
		want SectorID
	}{
		{"inside A", geom.Point{X: 200, Y: 128}, 0},
		{"inside B", geom.Point{X: 300, Y: 128}, 1},
		{"inside nested box", geom.Point{X: 64, Y: 64}, 2},
		{"outside everything", geom.Point{X: -50, Y: -50}, NoSector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.SectorAt(tt.p); got != tt.want {
				t.Errorf("SectorAt(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestSectorAtZ(t *testing.T) {
	w := testWorld(t)

	tests := []struct {
		name string
		p    geom.Point
		z    float64
		want SectorID
	}{
		{"inside box span", geom.Point{X: 64, Y: 64}, 32, 2},
		{"above box ceiling", geom.Point{X: 64, Y: 64}, 100, 0},
		{"exactly on box ceiling", geom.Point{X: 64, Y: 64}, 64, 0},
		{"inside plain room", geom.Point{X: 200, Y: 128}, 100, 0},
		{"inside B", geom.Point{X: 300, Y: 128}, 10, 1},
		{"outside the map", geom.Point{X: 600, Y: 600}, 10, NoSector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.SectorAtZ(tt.p, tt.z); got != tt.want {
				t.Errorf("SectorAtZ(%v, %g) = %d, want %d", tt.p, tt.z, got, tt.want)
			}
		})
	}
}

func TestFloorHeightAt(t *testing.T) {
	w := testWorld(t)

	if h, id := w.FloorHeightAt(geom.Point{X: 64, Y: 64}, 100); h != 64 || id != 0 {
		t.Errorf("on top of box: floor=%g sector=%d, want 64 in sector 0", h, id)
	}
	if h, id := w.FloorHeightAt(geom.Point{X: 200, Y: 128}, 100); h != 0 || id != 0 {
		t.Errorf("open room: floor=%g sector=%d, want 0 in sector 0", h, id)
	}
	if _, id := w.FloorHeightAt(geom.Point{X: 600, Y: 600}, 0); id != NoSector {
		t.Errorf("outside map: sector=%d, want NoSector", id)
	}
}

func TestHooks(t *testing.T) {
	w := testWorld(t)

	var crossed, blocked, baked int
	w.SetHooks(Hooks{
		PortalCrossed: func(from, to SectorID, portal PortalID) { crossed++ },
		MoveBlocked:   func(from, to SectorID, reason BlockReason) { blocked++ },
		BakeFinished:  func(sectors, portals, visiblePairs int) { baked++ },
	})

	w.EmitPortalCrossed(0, 1, 0)
	w.EmitMoveBlocked(0, 2, BlockSolid)
	w.EmitBakeFinished(3, 1, 9)
	if crossed != 1 || blocked != 1 || baked != 1 {
		t.Errorf("hook counts = %d/%d/%d, want 1/1/1", crossed, blocked, baked)
	}

	// Nil hooks must be safe.
	w.SetHooks(Hooks{})
	w.EmitPortalCrossed(0, 1, 0)
	w.EmitMoveBlocked(0, 2, BlockSolid)
	w.EmitBakeFinished(0, 0, 0)
}
