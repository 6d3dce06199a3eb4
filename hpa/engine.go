package hpa

import (
	"math"
	"time"

	"github.com/katalvlaran/hpastar/astar"
	"github.com/katalvlaran/hpastar/grid"
)

// Engine is a hierarchical pathfinding instance. It owns all mutable
// state exclusively: the intra-cluster path cache, the cached cluster
// partition, and the cached abstract graph. One engine serves one
// logical world; concurrent calls to the same instance require
// external synchronization (one engine per worker, or a mutex around
// FindPath/ClearCache).
type Engine struct {
	cfg   Config
	stats Snapshot
	cache *pathCache

	// part and graph are reused across queries on the same grid version
	// when EnableCaching is set.
	part  *Partition
	graph *AbstractGraph
}

// New constructs an Engine from cfg. Malformed configuration
// (ClusterSize < 2, non-positive costs, out-of-range SmoothingFactor)
// is a constructor error; query-time conditions never are.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, cache: newPathCache()}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// NewGrid builds a grid.Grid from a passability map using the engine's
// configured movement rules, keeping the grid and the abstraction's
// cost assumptions consistent.
func (e *Engine) NewGrid(passable [][]bool) (*grid.Grid, error) {
	conn := grid.Conn4
	if e.cfg.AllowDiagonal {
		conn = grid.Conn8
	}

	return grid.New(passable, grid.Options{
		Conn:                  conn,
		DiagonalOnlyWhenClear: e.cfg.DiagonalOnlyWhenClear,
		CardinalCost:          e.cfg.CardinalCost,
		DiagonalCost:          e.cfg.DiagonalCost,
	})
}

// ClearCache discards the intra-cluster path cache, the cluster
// partition, and the abstract graph. Callers must invoke it whenever
// the grid's traversability changes (or present a new grid version);
// the engine never observes the grid for changes itself.
func (e *Engine) ClearCache() {
	e.cache.clear()
	e.part = nil
	e.graph = nil
}

// Statistics returns a point-in-time copy of the engine counters.
func (e *Engine) Statistics() Snapshot { return e.stats }

// AbstractGraphSize reports the cached abstract graph's permanent node
// and edge counts, or zeros when no graph is cached.
func (e *Engine) AbstractGraphSize() (nodes, edges int) {
	if e.graph == nil {
		return 0, 0
	}

	return e.graph.NodeCount(), e.graph.EdgeCount()
}

// FindPath finds a cheapest route from start to any of the goal cells.
//
// State machine per call:
//
//	VALIDATE → ENSURE_ABSTRACT_GRAPH → SPLICE_TEMP_NODES →
//	ABSTRACT_SEARCH → REFINE → (SMOOTH) → RETURN
//
// All goals are spliced as temporary goal nodes and the single
// cheapest path among them is returned. Out-of-bounds or impassable
// start/goal cells yield Success=false with ReasonInvalidInput, never
// a panic: pathfinding queries are expected to fail routinely. Any
// unexpected internal panic past graph construction degrades to
// Success=false with ReasonInternal (graph construction itself stays
// outside the recovery scope so invariant violations fail loudly).
//
// The result is near-optimal, not guaranteed shortest: the abstraction
// trades exactness for scale. WithoutAbstraction() runs plain grid A*
// when ground truth is needed.
func (e *Engine) FindPath(start grid.Cell, goals []grid.Cell, g *grid.Grid, opts ...QueryOption) Result {
	began := time.Now()
	e.stats.TotalQueries++

	qo := DefaultQueryOptions()
	for _, opt := range opts {
		opt(&qo)
	}

	// VALIDATE: dimensions, bounds, passability, non-empty goal set.
	if g == nil ||
		(e.cfg.Width > 0 && g.Width != e.cfg.Width) ||
		(e.cfg.Height > 0 && g.Height != e.cfg.Height) ||
		!g.Passable(start) || len(goals) == 0 {
		return e.fail(ReasonInvalidInput, 0, began)
	}
	for _, goal := range goals {
		if !g.Passable(goal) {
			return e.fail(ReasonInvalidInput, 0, began)
		}
		if goal == start {
			// Trivial success: already standing on a goal.
			return e.succeed(Result{Path: []grid.Cell{start}}, began)
		}
	}

	if !qo.UseHierarchicalAbstraction {
		return e.findFlat(start, goals, g, qo, began)
	}

	// ENSURE_ABSTRACT_GRAPH: build once per grid version, reuse across
	// calls. With caching disabled every query rebuilds from scratch.
	if !e.cfg.EnableCaching || e.part == nil || e.graph == nil ||
		e.part.GridVersion != g.Version() {
		// The intra-cluster cache keys carry no version, so any entry
		// computed against the previous grid must go before rebuilding;
		// otherwise refinement would splice in paths crossing cells that
		// the new grid blocks.
		e.cache.clear()
		e.part = e.GenerateClusters(g)
		e.graph = e.BuildAbstractGraph(e.part, g)
	}

	return e.runAbstractQuery(start, goals, g, qo, began)
}

// runAbstractQuery performs the splice/search/refine stages under a
// recover barrier: an unexpected panic here degrades to a failed
// result instead of propagating into the caller's frame loop.
func (e *Engine) runAbstractQuery(start grid.Cell, goals []grid.Cell, g *grid.Grid, qo QueryOptions, began time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = e.fail(ReasonInternal, 0, began)
		}
	}()

	ag, part := e.graph, e.part
	defer ag.release()

	// SPLICE_TEMP_NODES: inject start first, then every goal, so goals
	// sharing the start's cluster connect directly to it.
	startIdx := e.spliceTemporaryNode(ag, part, g, start)
	goalIdx := make([]int, 0, len(goals))
	for _, goal := range goals {
		goalIdx = append(goalIdx, e.spliceTemporaryNode(ag, part, g, goal))
	}

	// ABSTRACT_SEARCH.
	maxCost := e.goalBoundBudget(qo)
	ares := e.searchAbstract(ag, []int{startIdx}, goalIdx, qo.MaxIterations, maxCost, e.cfg.UseEarlyTermination)
	if !ares.found {
		return e.fail(ares.reason, ares.iterations, began)
	}

	res = Result{Cost: ares.cost, Iterations: ares.iterations}
	if qo.ReturnAbstractPath {
		res.AbstractPath = make([]grid.Cell, len(ares.nodes))
		for i, idx := range ares.nodes {
			res.AbstractPath[i] = ag.nodes[idx].cell
		}
	}

	if !qo.ReturnRefinedPath {
		return e.succeed(res, began)
	}

	// REFINE: expand abstract hops into the concrete cell path.
	refined, ok := e.refineNodes(ag, part, g, ares.nodes)
	if !ok {
		return e.fail(ReasonInternal, ares.iterations, began)
	}
	if e.cfg.MaxPathLength > 0 && len(refined) > e.cfg.MaxPathLength {
		return e.fail(ReasonPathTooLong, ares.iterations, began)
	}

	// SMOOTH: optional string pulling, never increasing cost.
	if e.cfg.UsePathSmoothing {
		refined = e.smooth(g, refined)
	}
	res.Path = refined
	res.Cost = pathCost(g, refined)

	return e.succeed(res, began)
}

// findFlat is the non-hierarchical mode: plain grid A* from start to
// each goal, keeping the cheapest hit. Used for ground truth and tiny
// grids where the abstraction cannot pay for itself.
func (e *Engine) findFlat(start grid.Cell, goals []grid.Cell, g *grid.Grid, qo QueryOptions, began time.Time) Result {
	opts := []astar.Option{astar.WithHeuristic(e.cfg.Heuristic)}
	if qo.MaxIterations > 0 {
		opts = append(opts, astar.WithMaxExpansions(qo.MaxIterations))
	}

	best := astar.Result{Cost: math.Inf(1)}
	iterations := 0
	capped := false
	for _, goal := range goals {
		r := astar.Search(g, g.Bounds(), start, goal, opts...)
		iterations += r.Expanded
		// Each per-goal search is capped individually; only a search
		// that actually ran out of expansions counts toward the cap
		// reason (the summed total says nothing about any one search).
		if !r.Found && qo.MaxIterations > 0 && r.Expanded >= qo.MaxIterations {
			capped = true
		}
		if r.Found && (!best.Found || r.Cost < best.Cost) {
			best = r
		}
	}
	if !best.Found {
		reason := ReasonNoPath
		if capped {
			reason = ReasonIterationCap
		}

		return e.fail(reason, iterations, began)
	}

	path := best.Cells
	if e.cfg.MaxPathLength > 0 && len(path) > e.cfg.MaxPathLength {
		return e.fail(ReasonPathTooLong, iterations, began)
	}
	if e.cfg.UsePathSmoothing {
		path = e.smooth(g, path)
	}
	res := Result{Path: path, Cost: pathCost(g, path), Iterations: iterations}
	if !qo.ReturnRefinedPath {
		res.Path = nil
		res.Cost = best.Cost
	}

	return e.succeed(res, began)
}

// goalBoundBudget converts MaxPathLength into a conservative cost
// budget for goal bounding: a path within the length cap can cost at
// most (MaxPathLength-1) of the dearest step, so pruning above that
// bound never discards an admissible candidate. Returns 0 (disabled)
// when goal bounding is off or no length cap is configured.
func (e *Engine) goalBoundBudget(qo QueryOptions) float64 {
	if !qo.UseGoalBounding || e.cfg.MaxPathLength <= 0 {
		return 0
	}
	step := e.cfg.CardinalCost
	if e.cfg.AllowDiagonal && e.cfg.DiagonalCost > step {
		step = e.cfg.DiagonalCost
	}

	return float64(e.cfg.MaxPathLength-1) * step
}

// fail finalizes a failed Result, updating the failure counters.
func (e *Engine) fail(reason FailReason, iterations int, began time.Time) Result {
	e.stats.TotalFailures++
	switch reason {
	case ReasonIterationCap:
		e.stats.IterationCapHits++
	case ReasonPathTooLong:
		e.stats.PathLengthCapHits++
	}

	return Result{
		Reason:     reason,
		Iterations: iterations,
		Elapsed:    time.Since(began),
	}
}

// succeed finalizes a successful Result.
func (e *Engine) succeed(res Result, began time.Time) Result {
	e.stats.TotalPathsFound++
	res.Success = true
	res.Reason = ReasonNone
	res.Elapsed = time.Since(began)

	return res
}
