package world

import "github.com/duskforge/grimwall/geom"

// ZEpsilon shrinks the top of a sector's vertical span when testing
// containment, so a point resting exactly on a prism's ceiling counts as
// above it, not inside it.
const ZEpsilon = 0.01

// SectorAt resolves the sector containing a 2D point. With nesting, a
// point can lie inside several stacked footprints; the candidate with the
// greatest nesting depth wins. NoSector when the point is outside every
// sector.
func (w *World) SectorAt(p geom.Point) SectorID {
	best := NoSector
	bestDepth := -1
	for _, s := range w.sectors {
		if !s.Bounds.Contains(p) {
			continue
		}
		if !geom.PointInPolygon(p, s.Vertices) {
			continue
		}
		if s.Depth > bestDepth {
			best = s.ID
			bestDepth = s.Depth
		}
	}
	return best
}

// SectorAtZ resolves the sector containing a 3D position. The 2D
// candidate set is filtered by height: a solid candidate whose vertical
// span [FloorZ, CeilZ-ZEpsilon) excludes z is dropped, so standing on top
// of a solid box resolves to the enclosing room while standing inside a
// hollow nested room resolves to that room. If the height filter kills
// every candidate the plain 2D answer is returned.
func (w *World) SectorAtZ(p geom.Point, z float64) SectorID {
	best := NoSector
	bestDepth := -1
	fallback := NoSector
	fallbackDepth := -1

	for _, s := range w.sectors {
		if !s.Bounds.Contains(p) {
			continue
		}
		if !geom.PointInPolygon(p, s.Vertices) {
			continue
		}
		if s.Depth > fallbackDepth {
			fallback = s.ID
			fallbackDepth = s.Depth
		}
		if s.Solid() && (z < s.FloorZ || z >= s.CeilZ-ZEpsilon) {
			continue
		}
		if s.Depth > bestDepth {
			best = s.ID
			bestDepth = s.Depth
		}
	}

	if best == NoSector {
		return fallback
	}
	return best
}

// FloorHeightAt returns the floor height governing a 3D position together
// with the owning sector. Falling bodies rest on this height. The
// sentinel (0, NoSector) means the point is outside the map.
func (w *World) FloorHeightAt(p geom.Point, z float64) (float64, SectorID) {
	id := w.SectorAtZ(p, z)
	s := w.Sector(id)
	if s == nil {
		return 0, NoSector
	}
	// On top of a solid prism the resolved sector is the enclosing room;
	// the prism's ceiling is the effective floor when we are above it.
	for _, cid := range s.Children {
		c := w.Sector(cid)
		if c == nil || !c.Solid() {
			continue
		}
		if geom.PointInPolygon(p, c.Vertices) && z >= c.CeilZ-ZEpsilon {
			return c.CeilZ, s.ID
		}
	}
	return s.FloorZ, s.ID
}
