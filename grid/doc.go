// Package grid models a 2D occupancy map as the substrate for
// hierarchical pathfinding.
//
// What:
//
//   - Grid wraps a rectangular [][]bool passability map, deep-copied and
//     immutable after construction.
//   - Movement rules (Conn4/Conn8, corner-cutting control, per-step
//     costs) are fixed at construction and honored by Neighbors.
//   - Rect-restricted adjacency (NeighborsIn) confines a search to a
//     sub-rectangle, the building block for intra-cluster queries.
//   - LinePath/LineOfSight/LineCost provide straight-segment chains and
//     traversability tests for string-pulling smoothing.
//   - A version stamp (Version/Bump) gives caching layers an explicit
//     identity; the engine never observes the grid for silent changes.
//
// Why:
//
//   - Game maps and simulations: occupancy grids with unit move costs.
//   - Hierarchical search: clusters and local searches both need cheap
//     rectangular restriction of the same shared map.
//
// Complexity:
//
//   - New/From2D:     O(W×H) time and memory.
//   - Neighbors:      O(1) (at most 8 candidates).
//   - LinePath/LineOfSight: O(max(|dx|,|dy|)).
//
// Options:
//
//   - Options.Conn: Conn4 (orthogonal) or Conn8 (with diagonals).
//   - Options.DiagonalOnlyWhenClear: forbid corner cutting.
//   - Options.CardinalCost / DiagonalCost: per-step costs (must be > 0).
//
// Errors:
//
//   - ErrEmptyGrid: input has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrBadCost: non-positive step cost.
package grid
