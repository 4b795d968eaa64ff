package world

import (
	"github.com/sirupsen/logrus"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/logger"
)

// DefaultWeldEpsilon is the absolute endpoint distance within which two
// wall endpoints are considered coincident for portal detection.
const DefaultWeldEpsilon = 0.1

func closeEnough(a, b geom.Point, eps float64) bool {
	return a.DistTo(b) <= eps
}

// wallsCoincide reports whether two wall segments share both endpoints,
// in either orientation, within eps.
func wallsCoincide(a, b *Wall, eps float64) bool {
	if closeEnough(a.P1, b.P1, eps) && closeEnough(a.P2, b.P2, eps) {
		return true
	}
	return closeEnough(a.P1, b.P2, eps) && closeEnough(a.P2, b.P1, eps)
}

// DetectPortals rebuilds the portal graph from wall adjacency. All
// existing portals and portal stamps are discarded first, so the pass is
// idempotent. Every cross-sector wall pair whose endpoints coincide
// within eps (either orientation) becomes exactly one bidirectional
// Portal with the next dense id, stamped on both walls. A boundary that
// is not shared within eps simply stays solid; that is a map-authoring
// choice, not an error.
//
// Sector portal lists are rebuilt from the wall stamps afterwards, so the
// sector view and the wall view of connectivity are consistent by
// construction.
func (w *World) DetectPortals(eps float64) int {
	if eps <= 0 {
		eps = DefaultWeldEpsilon
	}

	w.portals = w.portals[:0]
	for _, s := range w.sectors {
		s.Portals = s.Portals[:0]
		for i := range s.Walls {
			s.Walls[i].Portal = NoPortal
		}
	}

	for ai, sa := range w.sectors {
		for _, sb := range w.sectors[ai+1:] {
			w.weldSectorPair(sa, sb, eps)
		}
	}

	for _, s := range w.sectors {
		for i := range s.Walls {
			if pid := s.Walls[i].Portal; pid != NoPortal {
				s.Portals = append(s.Portals, pid)
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"sectors": len(w.sectors),
		"portals": len(w.portals),
	}).Info("portal detection complete")
	return len(w.portals)
}

func (w *World) weldSectorPair(sa, sb *Sector, eps float64) {
	for i := range sa.Walls {
		wa := &sa.Walls[i]
		if wa.Portal != NoPortal {
			continue
		}
		for j := range sb.Walls {
			wb := &sb.Walls[j]
			if wb.Portal != NoPortal {
				continue
			}
			if !wallsCoincide(wa, wb, eps) {
				continue
			}

			id := PortalID(len(w.portals))
			w.portals = append(w.portals, Portal{
				ID:      id,
				SectorA: sa.ID,
				SectorB: sb.ID,
				WallA:   wa.ID,
				WallB:   wb.ID,
				P1:      wa.P1,
				P2:      wa.P2,
			})
			wa.Portal = id
			wb.Portal = id
			break
		}
	}
}
