// Package grid provides the read-only 2D cell model underlying the
// hierarchical pathfinding engine. It supports:
//
//   - Four- or eight-connectivity (Conn4 or Conn8)
//   - Per-step movement costs (cardinal / diagonal)
//   - Corner-cutting control for diagonal steps
//   - Line-of-sight tests and straight-line cell chains for smoothing
//
// Cells are passable (true) or blocked (false); the Grid never mutates
// after construction.
package grid

import "math"

// cardinalOffsets lists the 4 orthogonal neighbor offsets: N, E, S, W.
var cardinalOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// diagonalOffsets lists the 4 diagonal neighbor offsets: NE, SE, SW, NW.
var diagonalOffsets = [4][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}

// New constructs a Grid from a non-empty, rectangular 2D passability
// slice. It deep-copies the input to ensure immutability.
// Returns ErrEmptyGrid if the slice has no rows or no columns,
// ErrNonRectangular if any row length differs, and ErrBadCost if
// either step cost is non-positive.
// Algorithmic complexity: O(W×H) time and memory.
func New(passable [][]bool, opts Options) (*Grid, error) {
	if len(passable) == 0 || len(passable[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(passable), len(passable[0])
	for _, row := range passable {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	if opts.CardinalCost <= 0 || opts.DiagonalCost <= 0 {
		return nil, ErrBadCost
	}
	// Deep copy into a row-major bitmap to prevent external mutation.
	cells := make([]bool, w*h)
	for y := 0; y < h; y++ {
		copy(cells[y*w:(y+1)*w], passable[y])
	}

	return &Grid{
		Width:    w,
		Height:   h,
		passable: cells,
		opts:     opts,
		version:  1,
	}, nil
}

// From2D constructs a Grid with DefaultOptions. Convenience wrapper
// around New for the common "walkable map, diagonals allowed" case.
func From2D(passable [][]bool) (*Grid, error) {
	return New(passable, DefaultOptions())
}

// InBounds reports whether c lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Passable reports whether c is inside the grid and traversable.
// Complexity: O(1).
func (g *Grid) Passable(c Cell) bool {
	return g.InBounds(c) && g.passable[g.index(c)]
}

// Options returns the movement rules the grid was built with.
func (g *Grid) Options() Options { return g.opts }

// Bounds returns the Rect covering the whole grid.
func (g *Grid) Bounds() Rect {
	return Rect{MinX: 0, MinY: 0, MaxX: g.Width - 1, MaxY: g.Height - 1}
}

// Version returns the grid's identity stamp for caching purposes.
// Engines compare stamps to decide whether cached structures built for
// this grid are still valid; the grid itself never changes.
func (g *Grid) Version() uint64 { return g.version }

// Bump increments and returns the version stamp. Callers that rebuild
// their world in place and reuse the Grid value must Bump so engine
// caches keyed by version detect the change. The passability data is
// still immutable; Bump only changes identity.
func (g *Grid) Bump() uint64 {
	g.version++

	return g.version
}

// index maps a cell to its row-major index: y*Width + x.
func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

// StepCost returns the cost of the single step a→b: CardinalCost for
// orthogonal moves, DiagonalCost for diagonal moves. The cells must be
// adjacent; non-adjacent pairs return +Inf so misuse surfaces in any
// cost comparison rather than silently looking cheap.
func (g *Grid) StepCost(a, b Cell) float64 {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	switch {
	case dx+dy == 1:
		return g.opts.CardinalCost
	case dx == 1 && dy == 1:
		return g.opts.DiagonalCost
	default:
		return math.Inf(1)
	}
}

// Neighbors appends every admissible step out of c to buf and returns
// the extended slice. Passing a reused buf avoids per-call allocation
// in search hot loops. Rules applied, in order:
//
//  1. Cardinal moves into passable, in-bounds cells are always admissible.
//  2. Diagonal moves require Conn8.
//  3. With DiagonalOnlyWhenClear, a diagonal move additionally requires
//     both flanking cardinal cells to be passable (no corner cutting).
//
// Complexity: O(1) (at most 8 candidate cells).
func (g *Grid) Neighbors(c Cell, buf []Step) []Step {
	return g.NeighborsIn(g.Bounds(), c, buf)
}

// NeighborsIn is Neighbors restricted to the sub-rectangle r: cells
// outside r are treated as impassable for this call. Local searches
// confined to one cluster use this to keep the sub-query inside the
// cluster bounds.
func (g *Grid) NeighborsIn(r Rect, c Cell, buf []Step) []Step {
	var n Cell
	for _, d := range cardinalOffsets {
		n = Cell{X: c.X + d[0], Y: c.Y + d[1]}
		if r.Contains(n) && g.Passable(n) {
			buf = append(buf, Step{To: n, Cost: g.opts.CardinalCost})
		}
	}
	if g.opts.Conn != Conn8 {
		return buf
	}
	for _, d := range diagonalOffsets {
		n = Cell{X: c.X + d[0], Y: c.Y + d[1]}
		if !r.Contains(n) || !g.Passable(n) {
			continue
		}
		if g.opts.DiagonalOnlyWhenClear {
			// Both flanking cardinals must be passable (and inside r).
			sideA := Cell{X: c.X + d[0], Y: c.Y}
			sideB := Cell{X: c.X, Y: c.Y + d[1]}
			if !r.Contains(sideA) || !g.Passable(sideA) ||
				!r.Contains(sideB) || !g.Passable(sideB) {
				continue
			}
		}
		buf = append(buf, Step{To: n, Cost: g.opts.DiagonalCost})
	}

	return buf
}

// Octile returns the octile distance between a and b under the given
// step costs: the exact cost of an obstacle-free 8-connected walk.
// Admissible (never overestimates) for grids using those costs.
func Octile(a, b Cell, cardinal, diagonal float64) float64 {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	if dx < dy {
		dx, dy = dy, dx
	}

	return cardinal*float64(dx-dy) + diagonal*float64(dy)
}

// Manhattan returns the 4-connected distance |dx|+|dy| scaled by the
// cardinal step cost. Admissible for Conn4 grids.
func Manhattan(a, b Cell, cardinal float64) float64 {
	return cardinal * float64(abs(b.X-a.X)+abs(b.Y-a.Y))
}

// Euclidean returns the straight-line distance between a and b scaled
// by the cardinal step cost. Admissible for both connectivities.
func Euclidean(a, b Cell, cardinal float64) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)

	return cardinal * math.Sqrt(dx*dx+dy*dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
