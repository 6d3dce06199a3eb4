// Package astar implements A* shortest-path search on a grid.Grid,
// confined to an inclusive sub-rectangle.
//
// Notes on implementation choices:
//
//   - The open set is a min-heap ordered by f-score with insertion
//     sequence as tie-breaker, so equal-f expansions happen in push
//     order and results are deterministic for a fixed grid and query.
//   - We use a "lazy" decrease-key strategy: improved cells are pushed
//     again and stale heap entries are skipped via the closed map.
//   - Unreachable targets are a normal outcome (Found=false), never an
//     error: callers probe reachability between entrance points
//     routinely and must not pay an error-handling path for it.
package astar

import (
	"container/heap"

	"github.com/katalvlaran/hpastar/grid"
)

// Search computes a minimum-cost path from→to over the cells of g that
// lie inside bounds. Cells outside bounds are treated as impassable for
// this sub-query. It accepts functional options to customize behavior
// (WithHeuristic, WithMaxExpansions).
//
// Preconditions handled as normal failures (Found=false, no panic):
//
//  1. from or to outside bounds or outside the grid.
//  2. from or to impassable.
//  3. No path inside bounds (interior split by obstacles).
//  4. Expansion cap reached before the goal was popped.
//
// Complexity: O(N log N) time, O(N) memory, N = bounds.Area().
func Search(g *grid.Grid, bounds grid.Rect, from, to grid.Cell, opts ...Option) Result {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Endpoint validation: both cells must be inside the rectangle
	//    and passable. Failing either is an unreachable query.
	if !bounds.Contains(from) || !bounds.Contains(to) ||
		!g.Passable(from) || !g.Passable(to) {
		return Result{}
	}

	// 3) Trivial query: start equals goal.
	if from == to {
		return Result{Cells: []grid.Cell{from}, Found: true}
	}

	// 4) Prepare the runner state sized to the rectangle.
	r := &runner{
		g:      g,
		bounds: bounds,
		goal:   to,
		cfg:    cfg,
		gScore: make(map[grid.Cell]float64, bounds.Area()),
		prev:   make(map[grid.Cell]grid.Cell, bounds.Area()),
		closed: make(map[grid.Cell]bool, bounds.Area()),
	}
	heap.Init(&r.open)
	r.gScore[from] = 0
	r.push(from, 0)

	return r.process(from)
}

// runner holds the mutable state for a single Search execution.
type runner struct {
	g      *grid.Grid
	bounds grid.Rect
	goal   grid.Cell
	cfg    Options

	gScore map[grid.Cell]float64  // best known cost from start
	prev   map[grid.Cell]grid.Cell // predecessor on the best path
	closed map[grid.Cell]bool      // expansion finalized
	open   cellPQ
	seq    int // monotonically increasing push counter for stable ties
	buf    []grid.Step
}

// push inserts cell c with the given g-score into the open set,
// stamping it with the next insertion sequence number.
func (r *runner) push(c grid.Cell, gCost float64) {
	r.seq++
	heap.Push(&r.open, &cellItem{
		cell: c,
		f:    gCost + r.estimate(c),
		seq:  r.seq,
	})
}

// estimate returns the heuristic distance from c to the goal. The
// switch keeps the hot loop monomorphic; Heuristic is a closed enum.
func (r *runner) estimate(c grid.Cell) float64 {
	o := r.g.Options()
	switch r.cfg.Heuristic {
	case HeuristicEuclidean:
		return grid.Euclidean(c, r.goal, o.CardinalCost)
	case HeuristicManhattan:
		return grid.Manhattan(c, r.goal, o.CardinalCost)
	default:
		return grid.Octile(c, r.goal, o.CardinalCost, o.DiagonalCost)
	}
}

// process is the core A* loop: pop the cheapest open cell, finalize it,
// stop if it is the goal, otherwise relax its admissible steps.
func (r *runner) process(start grid.Cell) Result {
	expanded := 0
	for r.open.Len() > 0 {
		item := heap.Pop(&r.open).(*cellItem)
		u := item.cell

		// Skip stale heap entries left behind by lazy decrease-key.
		if r.closed[u] {
			continue
		}
		r.closed[u] = true
		expanded++

		if u == r.goal {
			return Result{
				Cells:    r.reconstruct(start),
				Cost:     r.gScore[u],
				Found:    true,
				Expanded: expanded,
			}
		}
		if expanded >= r.cfg.MaxExpansions {
			break
		}

		// Relax every admissible step out of u, confined to bounds.
		r.buf = r.g.NeighborsIn(r.bounds, u, r.buf[:0])
		for _, s := range r.buf {
			if r.closed[s.To] {
				continue
			}
			cand := r.gScore[u] + s.Cost
			if best, ok := r.gScore[s.To]; ok && cand >= best {
				continue
			}
			r.gScore[s.To] = cand
			r.prev[s.To] = u
			r.push(s.To, cand)
		}
	}

	return Result{Expanded: expanded}
}

// reconstruct walks the predecessor map from the goal back to start and
// reverses the chain in place.
func (r *runner) reconstruct(start grid.Cell) []grid.Cell {
	path := []grid.Cell{r.goal}
	for cur := r.goal; cur != start; {
		cur = r.prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// cellItem is one open-set entry: a cell, its f-score, and the push
// sequence number used to break f ties deterministically.
type cellItem struct {
	cell grid.Cell
	f    float64
	seq  int
}

// cellPQ is a min-heap of *cellItem ordered by f ascending, then by
// insertion sequence ascending (stable ties).
type cellPQ []*cellItem

func (pq cellPQ) Len() int { return len(pq) }

func (pq cellPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}

	return pq[i].seq < pq[j].seq
}

func (pq cellPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *cellPQ) Push(x interface{}) { *pq = append(*pq, x.(*cellItem)) }

func (pq *cellPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
