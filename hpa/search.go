package hpa

import (
	"container/heap"
	"math"

	"github.com/katalvlaran/hpastar/astar"
	"github.com/katalvlaran/hpastar/grid"
)

// abstractResult is the outcome of one abstract search.
type abstractResult struct {
	nodes      []int // node index sequence, start → goal
	cost       float64
	found      bool
	iterations int
	reason     FailReason
}

// searchAbstract runs A* over the abstract graph from one or more
// start nodes to one or more goal nodes, returning the cheapest goal.
//
// The heuristic is the minimum admissible distance from a node's cell
// to any goal cell, so multiple simultaneous goals stay admissible and
// the first goal popped from the open set is the cheapest of the set
// (not necessarily the nearest by Euclidean distance).
//
// Determinism: the open set is a min-heap ordered by f-score with
// insertion sequence as tie-breaker, so equal-f nodes expand in push
// order and a fixed graph and query always yield the same path.
//
// Bounds: maxIter caps finalized expansions (ReasonIterationCap when
// hit); maxCost, when positive, prunes pushes whose admissible f-score
// already exceeds the budget (goal bounding). With earlyStop=false the
// search drains the open set and keeps the cheapest goal encountered
// instead of stopping at the first goal pop.
//
// Complexity: O((V + E) log V) time, O(V + E) space.
func (e *Engine) searchAbstract(ag *AbstractGraph, starts, goals []int, maxIter int, maxCost float64, earlyStop bool) abstractResult {
	n := len(ag.nodes)
	goalSet := make(map[int]bool, len(goals))
	goalCells := make([]grid.Cell, 0, len(goals))
	for _, gi := range goals {
		goalSet[gi] = true
		goalCells = append(goalCells, ag.nodes[gi].cell)
	}

	// 1) Dense per-node state: g-scores, predecessors, closed flags.
	gScore := make([]float64, n)
	prev := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		prev[i] = -1
	}

	// 2) Seed the open set with every start node at cost zero.
	pq := make(absPQ, 0, n)
	heap.Init(&pq)
	seq := 0
	push := func(idx int, g float64) {
		seq++
		heap.Push(&pq, &absItem{node: idx, f: g + e.estimateToSet(ag.nodes[idx].cell, goalCells), seq: seq})
	}
	for _, si := range starts {
		if gScore[si] == 0 {
			continue // duplicate start
		}
		gScore[si] = 0
		push(si, 0)
	}

	if maxIter <= 0 {
		maxIter = math.MaxInt
	}

	// 3) Main loop: pop, finalize, stop on goal, relax neighbors.
	iterations := 0
	bestGoal, bestCost := -1, math.Inf(1)
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*absItem)
		u := item.node
		if closed[u] {
			continue
		}
		closed[u] = true
		iterations++

		if goalSet[u] {
			if gScore[u] < bestCost {
				bestGoal, bestCost = u, gScore[u]
			}
			if earlyStop {
				break
			}
		}
		if iterations >= maxIter {
			// Cap hit. A goal already finalized still counts as success.
			if bestGoal < 0 {
				return abstractResult{iterations: iterations, reason: ReasonIterationCap}
			}

			break
		}

		for _, ed := range ag.adj[u] {
			if closed[ed.to] {
				continue
			}
			cand := gScore[u] + ed.cost
			if cand >= gScore[ed.to] {
				continue
			}
			if maxCost > 0 && cand+e.estimateToSet(ag.nodes[ed.to].cell, goalCells) > maxCost {
				continue // goal bounding: cannot meet the budget
			}
			gScore[ed.to] = cand
			prev[ed.to] = u
			push(ed.to, cand)
		}
	}

	if bestGoal < 0 {
		return abstractResult{iterations: iterations, reason: ReasonNoPath}
	}

	// 4) Reconstruct the node sequence start → goal.
	var seqNodes []int
	for cur := bestGoal; cur >= 0; cur = prev[cur] {
		seqNodes = append(seqNodes, cur)
	}
	for i, j := 0, len(seqNodes)-1; i < j; i, j = i+1, j-1 {
		seqNodes[i], seqNodes[j] = seqNodes[j], seqNodes[i]
	}

	return abstractResult{
		nodes:      seqNodes,
		cost:       bestCost,
		found:      true,
		iterations: iterations,
	}
}

// estimateToSet returns the minimum admissible distance from c to any
// goal cell, under the engine's configured heuristic and step costs.
func (e *Engine) estimateToSet(c grid.Cell, goals []grid.Cell) float64 {
	best := math.Inf(1)
	var d float64
	for _, gc := range goals {
		switch e.cfg.Heuristic {
		case astar.HeuristicEuclidean:
			d = grid.Euclidean(c, gc, e.cfg.CardinalCost)
		case astar.HeuristicManhattan:
			d = grid.Manhattan(c, gc, e.cfg.CardinalCost)
		default:
			d = grid.Octile(c, gc, e.cfg.CardinalCost, e.cfg.DiagonalCost)
		}
		if d < best {
			best = d
		}
	}

	return best
}

// absItem is one abstract open-set entry.
type absItem struct {
	node int
	f    float64
	seq  int
}

// absPQ is a min-heap of *absItem ordered by f ascending, then by
// insertion sequence ascending (stable ties).
type absPQ []*absItem

func (pq absPQ) Len() int { return len(pq) }

func (pq absPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}

	return pq[i].seq < pq[j].seq
}

func (pq absPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *absPQ) Push(x interface{}) { *pq = append(*pq, x.(*absItem)) }

func (pq *absPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
