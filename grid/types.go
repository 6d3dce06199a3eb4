// Package grid defines core types, options, and sentinel errors
// for the grid subpackage of github.com/katalvlaran/hpastar.
package grid

import (
	"errors"
	"math"
)

// Sentinel errors for grid construction.
var (
	// ErrEmptyGrid indicates the input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrBadCost indicates a non-positive cardinal or diagonal step cost.
	ErrBadCost = errors.New("grid: step costs must be positive")
)

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

// Cell is a single grid coordinate. X grows rightward, Y grows downward.
type Cell struct {
	X, Y int
}

// Step is one admissible move out of a cell together with its cost.
type Step struct {
	To   Cell
	Cost float64
}

// Rect is an inclusive axis-aligned sub-rectangle of a grid.
// Cluster bounds and local-search restrictions are expressed as Rects.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether c lies inside r (inclusive on all sides).
// Complexity: O(1).
func (r Rect) Contains(c Cell) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// Width returns the number of columns covered by r.
func (r Rect) Width() int { return r.MaxX - r.MinX + 1 }

// Height returns the number of rows covered by r.
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// Area returns the number of cells covered by r.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Options contains tunable movement parameters for a Grid.
//
// Conn chooses 4- or 8-directional movement.
// DiagonalOnlyWhenClear, when Conn8 is selected, admits a diagonal step
// only if both flanking cardinal cells are passable (no corner cutting).
// CardinalCost and DiagonalCost are the per-step traversal costs; both
// must be positive (ErrBadCost otherwise).
type Options struct {
	Conn                  Connectivity
	DiagonalOnlyWhenClear bool
	CardinalCost          float64
	DiagonalCost          float64
}

// DefaultOptions returns an Options with default settings:
// Conn8 movement, corner cutting forbidden, unit cardinal cost and
// √2 diagonal cost.
func DefaultOptions() Options {
	return Options{
		Conn:                  Conn8,
		DiagonalOnlyWhenClear: true,
		CardinalCost:          1,
		DiagonalCost:          math.Sqrt2,
	}
}

// Grid is an immutable 2D passability map with movement rules attached.
// Width and Height define dimensions; passability is deep-copied on
// construction and never changes afterwards. The version stamp is the
// grid's identity for caching purposes (see Bump).
type Grid struct {
	Width, Height int
	passable      []bool // row-major, true = traversable
	opts          Options
	version       uint64
}
