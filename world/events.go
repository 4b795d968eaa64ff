package world

// BlockReason says why a proposed move was rejected.
type BlockReason uint8

const (
	BlockOutsideMap BlockReason = iota
	BlockSolid
	BlockStepTooHigh
	BlockNoHeadroom
	BlockNoPortal
)

func (r BlockReason) String() string {
	switch r {
	case BlockOutsideMap:
		return "outside map"
	case BlockSolid:
		return "solid sector"
	case BlockStepTooHigh:
		return "step too high"
	case BlockNoHeadroom:
		return "no headroom"
	case BlockNoPortal:
		return "no portal"
	}
	return "unknown"
}

// Hooks are structured event callbacks at the engine's decision points.
// They replace interleaved debug printing: tests and tools observe
// decisions instead of parsing log text. All fields are optional.
type Hooks struct {
	// PortalCrossed fires when a ray traversal hops through a portal.
	PortalCrossed func(from, to SectorID, portal PortalID)
	// MoveBlocked fires when the collision resolver rejects a move.
	MoveBlocked func(from, to SectorID, reason BlockReason)
	// BakeFinished fires when a PVS bake completes.
	BakeFinished func(sectors, portals, visiblePairs int)
}

// SetHooks installs the event hooks. Not safe to call while queries run.
func (w *World) SetHooks(h Hooks) {
	w.hooks = h
}

// EmitPortalCrossed invokes the PortalCrossed hook if installed.
func (w *World) EmitPortalCrossed(from, to SectorID, portal PortalID) {
	if w.hooks.PortalCrossed != nil {
		w.hooks.PortalCrossed(from, to, portal)
	}
}

// EmitMoveBlocked invokes the MoveBlocked hook if installed.
func (w *World) EmitMoveBlocked(from, to SectorID, reason BlockReason) {
	if w.hooks.MoveBlocked != nil {
		w.hooks.MoveBlocked(from, to, reason)
	}
}

// EmitBakeFinished invokes the BakeFinished hook if installed.
func (w *World) EmitBakeFinished(sectors, portals, visiblePairs int) {
	if w.hooks.BakeFinished != nil {
		w.hooks.BakeFinished(sectors, portals, visiblePairs)
	}
}
