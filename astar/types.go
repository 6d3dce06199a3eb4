// Package astar defines core types and configuration options for the
// rectangle-confined grid A* search.
//
// Search computes a minimum-cost path between two cells of a grid.Grid,
// restricted to an inclusive sub-rectangle: cells outside the rectangle
// are treated as impassable for the duration of the query. This is the
// "local search" capability the hierarchical engine uses to measure
// intra-cluster distances, but it is equally usable standalone as a
// plain grid A*.
//
// Complexity:
//
//	– Time:  O(N log N) with N = cells inside the rectangle
//	   • Each cell is expanded at most once: up to N pops.
//	   • Each admissible step may push a heap entry: up to 8·N pushes.
//	– Space: O(N) for score, predecessor, and closed maps.
//
// Options:
//
//	– Heuristic:     closed enum of admissible distance estimates.
//	– MaxExpansions: cap on node expansions; exceeding it yields Found=false.
//
// A query with no path is a normal outcome: Search returns Result with
// Found=false and never panics or errors for unreachable targets.
package astar

import (
	"math"

	"github.com/katalvlaran/hpastar/grid"
)

// Heuristic is a closed enum of distance estimates for the A* search.
// Dispatch happens via switch in the hot loop, keeping it monomorphic.
type Heuristic int

const (
	// HeuristicOctile estimates with the octile distance under the grid's
	// configured step costs. Exact on obstacle-free Conn8 grids; the
	// recommended default.
	HeuristicOctile Heuristic = iota
	// HeuristicEuclidean estimates with straight-line distance scaled by
	// the cardinal cost. Admissible for both connectivities.
	HeuristicEuclidean
	// HeuristicManhattan estimates with |dx|+|dy| scaled by the cardinal
	// cost. Admissible only for Conn4 grids; tighter there than octile.
	HeuristicManhattan
)

// Options configures a single Search call.
type Options struct {
	// Heuristic selects the distance estimate. Default HeuristicOctile.
	Heuristic Heuristic
	// MaxExpansions bounds the number of cells popped from the open set.
	// Default math.MaxInt (no cap). Must be positive when set.
	MaxExpansions int
}

// Option is a functional option for configuring Search.
type Option func(*Options)

// WithHeuristic selects the heuristic kind. Panics on an unknown value:
// a bad heuristic is a programming defect, not a query-time failure.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h != HeuristicOctile && h != HeuristicEuclidean && h != HeuristicManhattan {
			panic("astar: unknown heuristic kind")
		}
		o.Heuristic = h
	}
}

// WithMaxExpansions caps the number of node expansions. Panics if n is
// not positive.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("astar: MaxExpansions must be positive")
		}
		o.MaxExpansions = n
	}
}

// DefaultOptions returns the Options used when no overrides are given:
// octile heuristic, no expansion cap.
func DefaultOptions() Options {
	return Options{
		Heuristic:     HeuristicOctile,
		MaxExpansions: math.MaxInt,
	}
}

// Result is the outcome of one Search call.
//
// Cells holds the full cell sequence from start to goal inclusive when
// Found is true, and is nil otherwise. Cost is the summed step cost of
// that sequence. Expanded counts open-set pops, a useful effort metric
// regardless of success.
type Result struct {
	Cells    []grid.Cell
	Cost     float64
	Found    bool
	Expanded int
}
