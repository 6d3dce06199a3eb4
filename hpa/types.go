// Package hpa defines core types, configuration, sentinel errors, and
// statistics for the hierarchical pathfinding engine.
package hpa

import (
	"errors"
	"math"
	"time"

	"github.com/katalvlaran/hpastar/astar"
	"github.com/katalvlaran/hpastar/grid"
)

// Sentinel errors returned by the Engine constructor. Query-time
// failures are never errors: they are Result values with Success=false
// (pathfinding queries fail routinely and must stay cheap to fail).
var (
	// ErrBadClusterSize indicates ClusterSize < 2. A 1-cell cluster
	// degenerates the abstraction into the flat grid.
	ErrBadClusterSize = errors.New("hpa: ClusterSize must be at least 2")

	// ErrBadDimensions indicates a negative configured Width or Height.
	ErrBadDimensions = errors.New("hpa: Width and Height must be non-negative")

	// ErrBadCost indicates a non-positive cardinal or diagonal step cost.
	ErrBadCost = errors.New("hpa: step costs must be positive")

	// ErrBadMaxPathLength indicates a negative MaxPathLength.
	ErrBadMaxPathLength = errors.New("hpa: MaxPathLength must be non-negative")

	// ErrBadSmoothingFactor indicates SmoothingFactor outside (0, 1].
	ErrBadSmoothingFactor = errors.New("hpa: SmoothingFactor must be in (0, 1]")

	// ErrBadTolerance indicates a negative Tolerance.
	ErrBadTolerance = errors.New("hpa: Tolerance must be non-negative")
)

// ErrNegativeEdgeCost is the panic value raised when graph construction
// observes a negative edge cost. A negative cached path cost means the
// cache or the local search produced an unsound structure; this is a
// programming defect and fails loudly instead of being tolerated.
var ErrNegativeEdgeCost = errors.New("hpa: negative abstract edge cost")

// FailReason classifies why a query returned Success=false. All
// reasons share the same caller-visible shape (empty path, no error);
// the reason exists so statistics and tests can tell bound failures
// from genuine no-path outcomes.
type FailReason int

const (
	// ReasonNone means the query succeeded.
	ReasonNone FailReason = iota
	// ReasonInvalidInput covers out-of-bounds or impassable start/goal
	// cells, empty goal sets, and grids that do not match the engine's
	// configured dimensions.
	ReasonInvalidInput
	// ReasonNoPath means the search space was exhausted without reaching
	// any goal.
	ReasonNoPath
	// ReasonIterationCap means the abstract search hit MaxIterations.
	ReasonIterationCap
	// ReasonPathTooLong means the refined path exceeded MaxPathLength.
	ReasonPathTooLong
	// ReasonInternal means an unexpected panic was recovered during the
	// query and degraded into a failed result.
	ReasonInternal
)

// String returns a short stable label for the reason.
func (r FailReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInvalidInput:
		return "invalid-input"
	case ReasonNoPath:
		return "no-path"
	case ReasonIterationCap:
		return "iteration-cap"
	case ReasonPathTooLong:
		return "path-too-long"
	case ReasonInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Config configures an Engine instance. All fields are read once by
// New; the engine owns no other configuration state (no globals).
//
// Width and Height, when non-zero, pin the engine to grids of exactly
// those dimensions; zero accepts any grid. ClusterSize is the square
// cluster side (boundary clusters are truncated, never padded).
type Config struct {
	// Width and Height of the grids this engine serves. 0 = any.
	Width, Height int
	// ClusterSize is the cluster side length in cells. Must be ≥ 2.
	ClusterSize int
	// AllowDiagonal selects 8-connectivity for grids built via NewGrid
	// and for the movement assumptions of the abstraction.
	AllowDiagonal bool
	// DiagonalOnlyWhenClear forbids corner cutting on diagonal steps.
	DiagonalOnlyWhenClear bool
	// CardinalCost and DiagonalCost are per-step movement costs.
	CardinalCost, DiagonalCost float64
	// MaxPathLength caps the refined path length in cells; a longer
	// result fails with ReasonPathTooLong. 0 = unlimited.
	MaxPathLength int
	// UsePathSmoothing enables line-of-sight string pulling on the
	// refined path.
	UsePathSmoothing bool
	// SmoothingFactor in (0, 1] scales the smoothing look-ahead window
	// as a fraction of the remaining path. 1 = full-path look-ahead.
	SmoothingFactor float64
	// UseEarlyTermination stops the abstract search at the first goal
	// popped from the open set (optimal under an admissible heuristic).
	// When false the search drains the open set and keeps the cheapest
	// goal seen, a slower paranoid-exact mode.
	UseEarlyTermination bool
	// EnableCaching reuses the cluster partition, abstract graph, and
	// intra-cluster path cache across queries on the same grid version.
	// When false every query rebuilds from scratch.
	EnableCaching bool
	// Tolerance is the float slack used in cost comparisons (smoothing
	// monotonicity checks). Must be ≥ 0.
	Tolerance float64
	// Heuristic selects the distance estimate for both the abstract
	// search and the intra-cluster local searches.
	Heuristic astar.Heuristic
}

// DefaultConfig returns a Config with sensible defaults: 10-cell
// clusters, diagonal movement without corner cutting, unit/√2 step
// costs, caching and early termination on, smoothing off.
func DefaultConfig() Config {
	return Config{
		ClusterSize:           10,
		AllowDiagonal:         true,
		DiagonalOnlyWhenClear: true,
		CardinalCost:          1,
		DiagonalCost:          math.Sqrt2,
		SmoothingFactor:       1,
		UseEarlyTermination:   true,
		EnableCaching:         true,
		Tolerance:             1e-9,
		Heuristic:             astar.HeuristicOctile,
	}
}

// validate checks structural config invariants in declaration order.
func (c Config) validate() error {
	if c.ClusterSize < 2 {
		return ErrBadClusterSize
	}
	if c.Width < 0 || c.Height < 0 {
		return ErrBadDimensions
	}
	if c.CardinalCost <= 0 || c.DiagonalCost <= 0 {
		return ErrBadCost
	}
	if c.MaxPathLength < 0 {
		return ErrBadMaxPathLength
	}
	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		return ErrBadSmoothingFactor
	}
	if c.Tolerance < 0 {
		return ErrBadTolerance
	}

	return nil
}

// QueryOptions tune one FindPath call without touching engine state.
type QueryOptions struct {
	// MaxIterations caps abstract-search expansions. 0 = no explicit
	// cap (the search is still bounded by the finite node count).
	MaxIterations int
	// ReturnAbstractPath includes the abstract node cells in the result.
	ReturnAbstractPath bool
	// ReturnRefinedPath controls whether the concrete cell path is
	// produced. Disabling it turns FindPath into a cost/reachability
	// probe that skips refinement entirely.
	ReturnRefinedPath bool
	// UseGoalBounding prunes abstract expansions whose admissible
	// estimate already exceeds the MaxPathLength cost budget.
	UseGoalBounding bool
	// UseHierarchicalAbstraction selects the abstract two-level search.
	// When false the query runs plain grid A* over the whole grid, the
	// ground-truth mode used by tests and tiny maps.
	UseHierarchicalAbstraction bool
}

// QueryOption is a functional option for one FindPath call.
type QueryOption func(*QueryOptions)

// WithMaxIterations caps the abstract-search expansion count. Panics
// if n is not positive.
func WithMaxIterations(n int) QueryOption {
	return func(o *QueryOptions) {
		if n <= 0 {
			panic("hpa: MaxIterations must be positive")
		}
		o.MaxIterations = n
	}
}

// WithAbstractPath requests the abstract node sequence in the result.
func WithAbstractPath() QueryOption {
	return func(o *QueryOptions) { o.ReturnAbstractPath = true }
}

// WithoutRefinedPath skips refinement; the result carries cost and the
// (optional) abstract path only.
func WithoutRefinedPath() QueryOption {
	return func(o *QueryOptions) { o.ReturnRefinedPath = false }
}

// WithGoalBounding enables pruning of abstract expansions that cannot
// meet the MaxPathLength budget. No effect when MaxPathLength is 0.
func WithGoalBounding() QueryOption {
	return func(o *QueryOptions) { o.UseGoalBounding = true }
}

// WithoutAbstraction runs the query as plain grid A* instead of the
// hierarchical search.
func WithoutAbstraction() QueryOption {
	return func(o *QueryOptions) { o.UseHierarchicalAbstraction = false }
}

// DefaultQueryOptions returns the per-query defaults: refined path on,
// abstract path off, hierarchical search on, no explicit caps.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		ReturnRefinedPath:          true,
		UseHierarchicalAbstraction: true,
	}
}

// Result is the immutable outcome of one FindPath call.
type Result struct {
	// Success reports whether a path satisfying all bounds was found.
	Success bool
	// Reason classifies the failure; ReasonNone on success.
	Reason FailReason
	// Path is the refined grid-cell sequence from start to the chosen
	// goal, inclusive. Empty on failure or with WithoutRefinedPath.
	Path []grid.Cell
	// AbstractPath is the cell sequence of the abstract nodes traversed,
	// populated only with WithAbstractPath.
	AbstractPath []grid.Cell
	// Cost is the total movement cost of Path (or, when refinement was
	// skipped, the abstract path cost).
	Cost float64
	// Iterations counts abstract-search expansions (grid A* expansions
	// in the non-hierarchical mode).
	Iterations int
	// Elapsed is the wall-clock duration of the call.
	Elapsed time.Duration
}

// Snapshot is a point-in-time copy of engine counters, returned by
// Statistics. All counters are cumulative since engine construction.
type Snapshot struct {
	TotalQueries      uint64 // FindPath calls
	TotalPathsFound   uint64 // successful queries
	TotalFailures     uint64 // failed queries, any reason
	CacheHits         uint64 // intra-cluster path cache hits
	CacheMisses       uint64 // intra-cluster path cache misses
	GraphBuilds       uint64 // abstract graph constructions
	ClusterBuilds     uint64 // cluster partition constructions
	IterationCapHits  uint64 // queries failed on ReasonIterationCap
	PathLengthCapHits uint64 // queries failed on ReasonPathTooLong
	TempNodesSpliced  uint64 // temporary start/goal nodes injected
}
