// Package vis bakes the static sector-to-sector visibility table (PVS).
// The table is a conservative reachability hint for occlusion culling:
// runtime traversal always walks the live portal graph, never this table.
package vis

import (
	"github.com/sirupsen/logrus"

	"github.com/duskforge/grimwall/logger"
	"github.com/duskforge/grimwall/world"
)

// DefaultDepth is the portal-hop bound of a bake. Malformed or cyclic
// portal graphs terminate at this bound instead of erroring.
const DefaultDepth = 32

// Matrix is the baked N x N visibility table. Cells are bytes rather than
// bits so render backends can scan rows directly.
type Matrix struct {
	n     int
	ids   []world.SectorID
	index map[world.SectorID]int
	cells []uint8
}

// Visible reports whether dst is potentially visible from src. Unknown
// ids are never visible.
func (m *Matrix) Visible(src, dst world.SectorID) bool {
	si, ok := m.index[src]
	if !ok {
		return false
	}
	di, ok := m.index[dst]
	if !ok {
		return false
	}
	return m.cells[si*m.n+di] != 0
}

// Raw exposes the backing row-major table for backends that scan it
// wholesale. Treat as read-only.
func (m *Matrix) Raw() []uint8 {
	return m.cells
}

// IDs returns the sector ids in row order, aligned with Raw, so backends
// scanning the raw table can map rows back to sectors. Treat as read-only.
func (m *Matrix) IDs() []world.SectorID {
	return m.ids
}

// Index returns the row/column of a sector id in the raw table, or -1.
func (m *Matrix) Index(id world.SectorID) int {
	i, ok := m.index[id]
	if !ok {
		return -1
	}
	return i
}

// Len returns the table dimension.
func (m *Matrix) Len() int {
	return m.n
}

// VisibleCount returns the number of sectors visible from src, including
// src itself.
func (m *Matrix) VisibleCount(src world.SectorID) int {
	si, ok := m.index[src]
	if !ok {
		return 0
	}
	count := 0
	for _, c := range m.cells[si*m.n : (si+1)*m.n] {
		if c != 0 {
			count++
		}
	}
	return count
}

func (m *Matrix) mark(a, b int) {
	m.cells[a*m.n+b] = 1
	m.cells[b*m.n+a] = 1
}

// Bake computes the PVS for a finalized world. depth <= 0 selects
// DefaultDepth.
//
// Phase one runs a depth-bounded walk over the portal graph from every
// sector. The walk uses an explicit work list and a per-root visited
// scratch set, so diamond-shaped graphs are re-explored from each root
// and cyclic graphs terminate at the hop bound.
//
// Phase two promotes nesting: every ancestor/descendant pair is marked
// mutually visible regardless of portal connectivity. A root always sees
// everything nested inside it, and a nested room always sees out.
func Bake(w *world.World, depth int) *Matrix {
	if depth <= 0 {
		depth = DefaultDepth
	}

	sectors := w.Sectors()
	n := len(sectors)
	m := &Matrix{
		n:     n,
		ids:   make([]world.SectorID, n),
		index: make(map[world.SectorID]int, n),
		cells: make([]uint8, n*n),
	}
	for i, s := range sectors {
		m.ids[i] = s.ID
		m.index[s.ID] = i
	}

	type item struct {
		idx  int
		hops int
	}
	visited := make([]bool, n)
	stack := make([]item, 0, n)

	for root := 0; root < n; root++ {
		for i := range visited {
			visited[i] = false
		}
		stack = append(stack[:0], item{root, 0})
		visited[root] = true
		m.cells[root*n+root] = 1

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m.mark(root, cur.idx)
			if cur.hops >= depth {
				continue
			}
			for _, pid := range sectors[cur.idx].Portals {
				next := w.Neighbor(pid, sectors[cur.idx].ID)
				ni, ok := m.index[next]
				if !ok || visited[ni] {
					continue
				}
				visited[ni] = true
				stack = append(stack, item{ni, cur.hops + 1})
			}
		}
	}

	for i, s := range sectors {
		cur := s
		for hops := 0; cur.Parent != world.NoSector && hops < DefaultDepth; hops++ {
			parent := w.Sector(cur.Parent)
			if parent == nil {
				break
			}
			pi, ok := m.index[parent.ID]
			if !ok {
				break
			}
			m.mark(i, pi)
			cur = parent
		}
	}

	pairs := 0
	for _, c := range m.cells {
		if c != 0 {
			pairs++
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"sectors": n,
		"portals": w.NumPortals(),
		"depth":   depth,
		"visible": pairs,
	}).Info("pvs bake complete")
	w.EmitBakeFinished(n, w.NumPortals(), pairs)
	return m
}
