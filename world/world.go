package world

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/logger"
)

// MaxSectorVertices bounds the vertex count of a single sector polygon.
const MaxSectorVertices = 64

// maxNestingDepth guards the parent-chain walk against cyclic parent ids.
const maxNestingDepth = 32

// World is the spatial model: the sector arena, the portal array, and the
// event hooks. It replaces any notion of a process-wide engine singleton;
// every query takes the World it operates on, so tests and parallel
// column workers can hold independent worlds.
type World struct {
	sectors []*Sector
	byID    map[SectorID]int
	portals []Portal

	hooks Hooks
}

// New returns an empty world.
func New() *World {
	return &World{byID: make(map[SectorID]int)}
}

// AddSector validates and stores a sector. The sector's vertex winding is
// normalized to counter-clockwise and its bounds are computed here; the
// nesting relation is resolved later by Finalize. Structural errors
// (duplicate id, vertex count, non-convex polygon) reject only this
// sector, per the best-effort load policy.
func (w *World) AddSector(s *Sector) error {
	if s.ID < 0 {
		return fmt.Errorf("sector id %d: negative ids are reserved", s.ID)
	}
	if _, dup := w.byID[s.ID]; dup {
		return fmt.Errorf("sector id %d: already present", s.ID)
	}
	if len(s.Vertices) < 3 || len(s.Vertices) > MaxSectorVertices {
		return fmt.Errorf("sector id %d: vertex count %d outside [3,%d]", s.ID, len(s.Vertices), MaxSectorVertices)
	}
	if !geom.PolygonConvex(s.Vertices) {
		return fmt.Errorf("sector id %d: polygon is not convex", s.ID)
	}
	if s.CeilZ <= s.FloorZ {
		return fmt.Errorf("sector id %d: ceiling %g not above floor %g", s.ID, s.CeilZ, s.FloorZ)
	}

	s.Vertices = geom.EnsureCCW(s.Vertices)
	s.Bounds = geom.BoundsOf(s.Vertices)
	s.Children = nil
	s.Depth = 0

	w.byID[s.ID] = len(w.sectors)
	w.sectors = append(w.sectors, s)
	return nil
}

// Sector is the canonical id-to-sector lookup. It returns nil for unknown
// ids, including NoSector.
func (w *World) Sector(id SectorID) *Sector {
	idx, ok := w.byID[id]
	if !ok {
		return nil
	}
	return w.sectors[idx]
}

// Sectors returns the live sector slice in insertion order. Callers must
// treat it as read-only.
func (w *World) Sectors() []*Sector {
	return w.sectors
}

// NumSectors returns the sector count.
func (w *World) NumSectors() int {
	return len(w.sectors)
}

// Portal returns the portal with the given dense id, or nil.
func (w *World) Portal(id PortalID) *Portal {
	if id < 0 || int(id) >= len(w.portals) {
		return nil
	}
	return &w.portals[id]
}

// Portals returns the live portal slice. Read-only for callers.
func (w *World) Portals() []Portal {
	return w.portals
}

// NumPortals returns the portal count.
func (w *World) NumPortals() int {
	return len(w.portals)
}

// Finalize resolves the nesting relation after all sectors are added:
// child lists are rebuilt from parent ids, nesting depth is computed along
// the parent chain, and each child's footprint is checked against its
// parent. Sectors with a broken parent reference are detached to root
// rather than dropped; the map stays usable. Call once after load, before
// DetectPortals.
func (w *World) Finalize() {
	for _, s := range w.sectors {
		s.Children = s.Children[:0]
	}

	for _, s := range w.sectors {
		if s.Parent == NoSector {
			continue
		}
		parent := w.Sector(s.Parent)
		if parent == nil || parent == s {
			logger.Log.WithFields(logrus.Fields{
				"sector": s.ID,
				"parent": s.Parent,
			}).Warn("sector references unknown parent, detaching to root")
			s.Parent = NoSector
			s.Kind = KindRoot
			continue
		}
		if !parent.Bounds.ContainsBox(s.Bounds) {
			logger.Log.WithFields(logrus.Fields{
				"sector": s.ID,
				"parent": s.Parent,
			}).Warn("child footprint leaves parent bounds")
		}
		parent.Children = append(parent.Children, s.ID)
	}

	for _, s := range w.sectors {
		s.Depth = w.depthOf(s)
	}
}

// depthOf walks the parent chain. The walk is capped so a cyclic parent
// reference cannot hang the load.
func (w *World) depthOf(s *Sector) int {
	depth := 0
	for cur := s; cur.Parent != NoSector && depth < maxNestingDepth; depth++ {
		next := w.Sector(cur.Parent)
		if next == nil {
			break
		}
		cur = next
	}
	return depth
}

// Neighbor resolves the sector on the far side of a portal as seen from
// the given sector. NoSector when the portal id is invalid or does not
// touch the sector.
func (w *World) Neighbor(id PortalID, from SectorID) SectorID {
	p := w.Portal(id)
	if p == nil {
		return NoSector
	}
	return p.Other(from)
}

// PortalBetween returns the portal directly connecting two sectors, or
// NoPortal. Only a's portal list is scanned; detection keeps both sides
// symmetric.
func (w *World) PortalBetween(a, b SectorID) PortalID {
	sa := w.Sector(a)
	if sa == nil {
		return NoPortal
	}
	for _, pid := range sa.Portals {
		if w.Neighbor(pid, a) == b {
			return pid
		}
	}
	return NoPortal
}
