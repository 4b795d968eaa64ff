// Package collide decides whether a proposed move through the sector
// graph is legal. It leans on the world's sector locator and the
// solid/nesting/portal rules; it does no force or impulse integration,
// that belongs to the physics layer calling in.
package collide

import (
	"math"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/world"
)

// Params are the mover's clearance tunables, overridable from the engine
// config file.
type Params struct {
	// StepHeight is how far above the current z a destination floor may
	// sit and still be climbed.
	StepHeight float64
	// PlayerHeight is the vertical clearance the mover needs.
	PlayerHeight float64
}

// DefaultParams returns the stock mover clearances.
func DefaultParams() Params {
	return Params{StepHeight: 24, PlayerHeight: 56}
}

// Result is the outcome of a TryMove.
type Result struct {
	Allowed bool
	// Reason is meaningful only when the move was blocked.
	Reason world.BlockReason
	// Sector is the sector the mover occupies after the move.
	Sector world.SectorID
	// FloorZ is the floor height the mover rests on after the move;
	// callers snap z up to it when stepping onto a solid prism.
	FloorZ float64
}

// TryMove resolves whether a mover at (x,y,z) may move to (nx,ny).
//
// The origin and destination sectors come from the locator. No
// destination sector means the move leaves the map and is blocked; no
// origin sector means the mover is already in a broken spot, and the
// move is allowed as a recovery path.
func TryMove(w *world.World, x, y, z, nx, ny float64, p Params) Result {
	from := geom.Point{X: x, Y: y}
	to := geom.Point{X: nx, Y: ny}

	dstID := w.SectorAtZ(to, z)
	srcID := w.SectorAtZ(from, z)

	if dstID == world.NoSector {
		w.EmitMoveBlocked(srcID, dstID, world.BlockOutsideMap)
		return Result{Reason: world.BlockOutsideMap, Sector: world.NoSector}
	}
	dst := w.Sector(dstID)

	if srcID == world.NoSector {
		return allow(w, to, z, dst)
	}
	src := w.Sector(srcID)

	// Movement inside the current sector is never blocked, even when the
	// locator resolves it solid: a mover wedged inside a prism can still
	// shuffle its way out.
	if dstID == srcID {
		return allow(w, to, z, dst)
	}

	if dst.Solid() {
		return tryEnterSolid(w, src, dst, to, z, p)
	}

	// Hollow destination: the z-span must be enterable first.
	if dst.FloorZ-z > p.StepHeight {
		w.EmitMoveBlocked(srcID, dstID, world.BlockStepTooHigh)
		return Result{Reason: world.BlockStepTooHigh, Sector: dstID}
	}
	if dst.CeilZ-z < p.PlayerHeight {
		w.EmitMoveBlocked(srcID, dstID, world.BlockNoHeadroom)
		return Result{Reason: world.BlockNoHeadroom, Sector: dstID}
	}

	// A mover whose origin resolved solid is wedged inside a prism;
	// letting it out is always the right call.
	if src.Solid() {
		return allow(w, to, z, dst)
	}
	if nested(src, dst) || w.PortalBetween(srcID, dstID) != world.NoPortal {
		return allow(w, to, z, dst)
	}

	w.EmitMoveBlocked(srcID, dstID, world.BlockNoPortal)
	return Result{Reason: world.BlockNoPortal, Sector: dstID}
}

// tryEnterSolid applies the solid-destination rules. A solid prism is
// never entered; "moving into" one means climbing onto its top surface.
// A direct nesting edge or an explicit portal admits the mover subject
// to step and headroom checks against that surface; without a relation
// the mover may only already be on top, step up onto it, or pass
// beneath its floor.
func tryEnterSolid(w *world.World, src, dst *world.Sector, to geom.Point, z float64, p Params) Result {
	if nested(src, dst) || w.PortalBetween(src.ID, dst.ID) != world.NoPortal {
		if z >= dst.CeilZ-world.ZEpsilon {
			// Walking across the top.
			return allow(w, to, z, dst)
		}
		if dst.CeilZ-z > p.StepHeight {
			w.EmitMoveBlocked(src.ID, dst.ID, world.BlockStepTooHigh)
			return Result{Reason: world.BlockStepTooHigh, Sector: dst.ID}
		}
		if headroomAbove(w, dst) < p.PlayerHeight {
			w.EmitMoveBlocked(src.ID, dst.ID, world.BlockNoHeadroom)
			return Result{Reason: world.BlockNoHeadroom, Sector: dst.ID}
		}
		// Climbing onto the prism; the caller snaps z to FloorZ.
		return allow(w, to, dst.CeilZ, dst)
	}

	switch {
	case z >= dst.CeilZ-world.ZEpsilon:
		// Already on top of the prism.
		return allow(w, to, z, dst)
	case dst.CeilZ-z <= p.StepHeight && headroomAbove(w, dst) >= p.PlayerHeight:
		// Stepping up onto the prism.
		return allow(w, to, dst.CeilZ, dst)
	case z+p.PlayerHeight <= dst.FloorZ:
		// Passing beneath a floating prism.
		return allow(w, to, z, dst)
	}

	w.EmitMoveBlocked(src.ID, dst.ID, world.BlockSolid)
	return Result{Reason: world.BlockSolid, Sector: dst.ID}
}

// headroomAbove measures the open space above a solid prism's top: the
// enclosing sector's ceiling minus the prism top. A prism with no parent
// has no cap above it.
func headroomAbove(w *world.World, dst *world.Sector) float64 {
	parent := w.Sector(dst.Parent)
	if parent == nil {
		return math.Inf(1)
	}
	return parent.CeilZ - dst.CeilZ
}

// nested reports a direct parent<->child edge between two sectors.
func nested(a, b *world.Sector) bool {
	return a.Parent == b.ID || b.Parent == a.ID
}

// allow finalizes a permitted move: the occupied sector and resting floor
// are re-resolved at the destination so stepping onto a solid prism
// reports the prism top as the new floor and the enclosing room as the
// new sector.
func allow(w *world.World, to geom.Point, z float64, dst *world.Sector) Result {
	floor, _ := w.FloorHeightAt(to, z)
	sector := w.SectorAtZ(to, maxf(z, floor))
	if sector == world.NoSector {
		sector = dst.ID
	}
	return Result{Allowed: true, Sector: sector, FloorZ: floor}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
