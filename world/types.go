// Package world owns the spatial model of a map: sectors, walls, portals,
// the nesting relation between sectors, and the queries that resolve which
// sector contains a point. A World is built once at load time and is
// read-only for the rest of the session; a reload builds a fresh World.
package world

import "github.com/duskforge/grimwall/geom"

// SectorID is a stable loader-assigned sector handle.
type SectorID int32

// PortalID is a dense index into the world's portal array.
type PortalID int32

const (
	// NoSector is the "outside the map" sentinel.
	NoSector SectorID = -1
	// NoPortal marks a solid wall.
	NoPortal PortalID = -1
)

// SectorKind classifies a sector's role in the nesting hierarchy.
type SectorKind uint8

const (
	// KindRoot is a top-level room.
	KindRoot SectorKind = iota
	// KindRoom is a hollow room nested inside another sector.
	KindRoom
	// KindColumn is a nested solid column.
	KindColumn
	// KindBox is a nested solid box.
	KindBox
)

func (k SectorKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindRoom:
		return "room"
	case KindColumn:
		return "column"
	case KindBox:
		return "box"
	}
	return "unknown"
}

// Wall is one boundary edge of a sector. A wall is solid unless a portal
// id has been stamped on it by portal detection. The three texture slots
// cover the ranges below SplitLow, between the splits, and above SplitHigh.
type Wall struct {
	ID     int32 // unique within the owning sector
	P1, P2 geom.Point
	Portal PortalID

	Lower, Middle, Upper int32
	SplitLow, SplitHigh  float64
}

// Sector is a convex vertical prism with a constant floor and ceiling.
type Sector struct {
	ID     SectorID
	FloorZ float64
	CeilZ  float64
	Light  uint8

	FloorTex int32
	CeilTex  int32

	Vertices []geom.Point
	Walls    []Wall

	// Portals is derived from the walls' portal stamps by DetectPortals;
	// the two views cannot diverge.
	Portals []PortalID

	Parent   SectorID
	Children []SectorID
	Depth    int
	Kind     SectorKind

	Bounds geom.AABB
}

// Solid reports whether the sector blocks traversal: no portals and no
// children. This is a structural property of the live graph, never a
// stored flag, so it tracks connectivity changes automatically.
func (s *Sector) Solid() bool {
	return len(s.Portals) == 0 && len(s.Children) == 0
}

// HasPortal reports whether the given portal id is on this sector's list.
func (s *Sector) HasPortal(id PortalID) bool {
	for _, p := range s.Portals {
		if p == id {
			return true
		}
	}
	return false
}

// Portal joins two walls in two sectors. It duplicates the shared segment
// endpoints so traversal code does not have to chase wall references.
type Portal struct {
	ID               PortalID
	SectorA, SectorB SectorID
	WallA, WallB     int32
	P1, P2           geom.Point
}

// Other returns the sector on the far side of the portal from the given
// sector, or NoSector if the portal does not touch it.
func (p *Portal) Other(from SectorID) SectorID {
	switch from {
	case p.SectorA:
		return p.SectorB
	case p.SectorB:
		return p.SectorA
	}
	return NoSector
}

// Camera is a viewpoint inside the world. Sector caches the containing
// sector and is refreshed by the caller on every successful move.
type Camera struct {
	X, Y, Z    float64
	Yaw, Pitch float64
	Sector     SectorID
}

// Pos returns the camera's 2D position.
func (c *Camera) Pos() geom.Point {
	return geom.Point{X: c.X, Y: c.Y}
}

// Entity is a dynamic body owned by the host application. The engine only
// reads it for collision and billboard queries; entities hold no sector
// state of their own.
type Entity struct {
	X, Y, Z float64
	Radius  float64
	Height  float64
}
