package hpa_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hpastar/grid"
	"github.com/katalvlaran/hpastar/hpa"
)

// containsCell reports whether path passes through c.
func containsCell(path []grid.Cell, c grid.Cell) bool {
	for _, p := range path {
		if p == c {
			return true
		}
	}

	return false
}

// assertSoundPath checks refinement soundness: every cell passable,
// every consecutive pair grid-adjacent under the grid's movement rules.
func assertSoundPath(t *testing.T, g *grid.Grid, path []grid.Cell) {
	t.Helper()
	require.NotEmpty(t, path)
	for i, c := range path {
		require.True(t, g.Passable(c), "cell %v impassable", c)
		if i > 0 {
			require.False(t, math.IsInf(g.StepCost(path[i-1], c), 1),
				"cells %v and %v not adjacent", path[i-1], c)
		}
	}
}

// ------------------------------------------------------------------------
// End-to-end routing scenarios.
// ------------------------------------------------------------------------

func TestFindPath_SingleClusterOpenGrid(t *testing.T) {
	// 5×5 fully open grid with a 5-cell cluster: the whole grid is one
	// cluster, no abstract entrances exist, and the query still
	// succeeds through the spliced start/goal pair.
	e := newEngine(t, 5)
	g, err := e.NewGrid(openCells(5, 5))
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 4, Y: 4}}, g)
	require.True(t, res.Success, "reason: %v", res.Reason)
	assert.GreaterOrEqual(t, len(res.Path), 5)
	assert.Equal(t, grid.Cell{X: 0, Y: 0}, res.Path[0])
	assert.Equal(t, grid.Cell{X: 4, Y: 4}, res.Path[len(res.Path)-1])
	assertSoundPath(t, g, res.Path)

	nodes, edges := e.AbstractGraphSize()
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}

func TestFindPath_ThroughWallGap(t *testing.T) {
	// 10×10 grid, solid wall at column 5 except a gap at row 5: every
	// successful route must pass the gap cell (5,5).
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g)
	require.True(t, res.Success, "reason: %v", res.Reason)
	assert.True(t, containsCell(res.Path, grid.Cell{X: 5, Y: 5}),
		"path %v does not pass the gap (5,5)", res.Path)
	assertSoundPath(t, g, res.Path)
}

func TestFindPath_EnclosedCornersFail(t *testing.T) {
	// 3×3 grid with isolated corners: no path between them, reported
	// as a failed result with an empty path, never a panic.
	e := newEngine(t, 3)
	cells := [][]bool{
		{true, false, true},
		{false, false, false},
		{true, false, true},
	}
	g, err := e.NewGrid(cells)
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 2, Y: 2}}, g)
	assert.False(t, res.Success)
	assert.Equal(t, hpa.ReasonNoPath, res.Reason)
	assert.Empty(t, res.Path)
}

func TestFindPath_MultiGoalPicksCheapest(t *testing.T) {
	// The multi-goal result must cost exactly the minimum of the
	// individually-queried single-goal paths.
	e := newEngine(t, 5)
	g := wallGrid(t, e)
	start := grid.Cell{X: 0, Y: 0}
	goals := []grid.Cell{{X: 9, Y: 9}, {X: 4, Y: 0}, {X: 0, Y: 9}}

	best := math.Inf(1)
	for _, goal := range goals {
		solo := e.FindPath(start, []grid.Cell{goal}, g)
		require.True(t, solo.Success)
		if solo.Cost < best {
			best = solo.Cost
		}
	}

	multi := e.FindPath(start, goals, g)
	require.True(t, multi.Success)
	assert.InDelta(t, best, multi.Cost, 1e-9)
}

// ------------------------------------------------------------------------
// Testable properties.
// ------------------------------------------------------------------------

func TestFindPath_Deterministic(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 9, Y: 9}

	a := e.FindPath(start, []grid.Cell{goal}, g)
	b := e.FindPath(start, []grid.Cell{goal}, g)
	require.True(t, a.Success)
	assert.Equal(t, a.Path, b.Path)
	assert.Equal(t, a.Cost, b.Cost)
	assert.Equal(t, a.Success, b.Success)
}

func TestFindPath_CacheEquivalence(t *testing.T) {
	// ClearCache followed by the same query returns an identically
	// costed path (possibly a different equally-costed route).
	e := newEngine(t, 5)
	g := wallGrid(t, e)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 9, Y: 9}

	warm := e.FindPath(start, []grid.Cell{goal}, g)
	require.True(t, warm.Success)

	e.ClearCache()
	cold := e.FindPath(start, []grid.Cell{goal}, g)
	require.True(t, cold.Success)
	assert.InDelta(t, warm.Cost, cold.Cost, 1e-9)
}

func TestFindPath_SecondQueryHitsCache(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 9, Y: 9}

	_ = e.FindPath(start, []grid.Cell{goal}, g)
	afterFirst := e.Statistics()
	_ = e.FindPath(start, []grid.Cell{goal}, g)
	afterSecond := e.Statistics()

	// The graph is reused (no extra build) and the temporary-node
	// edges are served from the intra-cluster cache.
	assert.Equal(t, afterFirst.GraphBuilds, afterSecond.GraphBuilds)
	assert.Greater(t, afterSecond.CacheHits, afterFirst.CacheHits)
	assert.Equal(t, afterFirst.CacheMisses, afterSecond.CacheMisses)
}

func TestFindPath_SmoothingNeverIncreasesCost(t *testing.T) {
	rough := newEngine(t, 5)
	smooth := newEngine(t, 5, func(c *hpa.Config) { c.UsePathSmoothing = true })

	cells := openCells(20, 20)
	for y := 2; y < 18; y++ {
		cells[y][7] = false
	}
	for y := 0; y < 15; y++ {
		cells[y][13] = false
	}
	gr, err := rough.NewGrid(cells)
	require.NoError(t, err)
	gs, err := smooth.NewGrid(cells)
	require.NoError(t, err)

	start, goal := grid.Cell{X: 0, Y: 10}, grid.Cell{X: 19, Y: 10}
	a := rough.FindPath(start, []grid.Cell{goal}, gr)
	b := smooth.FindPath(start, []grid.Cell{goal}, gs)
	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.LessOrEqual(t, b.Cost, a.Cost+1e-9)
	assertSoundPath(t, gs, b.Path)
}

func TestFindPath_RefinementSoundnessOnRandomWalls(t *testing.T) {
	// A lattice of partial walls exercises multi-cluster refinement;
	// every produced cell must be passable and adjacent to its
	// predecessor.
	e := newEngine(t, 4)
	cells := openCells(16, 16)
	for _, x := range []int{3, 7, 11} {
		for y := 0; y < 16; y++ {
			if y%5 != 2 {
				cells[y][x] = false
			}
		}
	}
	g, err := e.NewGrid(cells)
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 15, Y: 15}}, g)
	require.True(t, res.Success, "reason: %v", res.Reason)
	assertSoundPath(t, g, res.Path)
}

// ------------------------------------------------------------------------
// Validation and bounds.
// ------------------------------------------------------------------------

func TestFindPath_InvalidInputs(t *testing.T) {
	e := newEngine(t, 5)
	g, err := e.NewGrid(openCells(10, 10))
	require.NoError(t, err)
	ok := grid.Cell{X: 1, Y: 1}

	for name, tc := range map[string]struct {
		start grid.Cell
		goals []grid.Cell
	}{
		"out-of-bounds goal":   {ok, []grid.Cell{{X: 42, Y: 1}}},
		"out-of-bounds start":  {grid.Cell{X: -1, Y: 0}, []grid.Cell{ok}},
		"empty goal set":       {ok, nil},
		"one bad goal of many": {ok, []grid.Cell{{X: 2, Y: 2}, {X: 99, Y: 99}}},
	} {
		res := e.FindPath(tc.start, tc.goals, g)
		assert.False(t, res.Success, name)
		assert.Equal(t, hpa.ReasonInvalidInput, res.Reason, name)
		assert.Empty(t, res.Path, name)
	}

	// Impassable goal.
	cells := openCells(10, 10)
	cells[3][3] = false
	g2, err := e.NewGrid(cells)
	require.NoError(t, err)
	res := e.FindPath(ok, []grid.Cell{{X: 3, Y: 3}}, g2)
	assert.False(t, res.Success)
	assert.Equal(t, hpa.ReasonInvalidInput, res.Reason)
}

func TestFindPath_StartIsGoal(t *testing.T) {
	e := newEngine(t, 5)
	g, err := e.NewGrid(openCells(10, 10))
	require.NoError(t, err)
	c := grid.Cell{X: 3, Y: 3}
	res := e.FindPath(c, []grid.Cell{c}, g)
	require.True(t, res.Success)
	assert.Equal(t, []grid.Cell{c}, res.Path)
	assert.Zero(t, res.Cost)
}

func TestFindPath_IterationCap(t *testing.T) {
	e := newEngine(t, 4)
	g, err := e.NewGrid(openCells(32, 32))
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 31, Y: 31}}, g,
		hpa.WithMaxIterations(1))
	assert.False(t, res.Success)
	assert.Equal(t, hpa.ReasonIterationCap, res.Reason)
	assert.Equal(t, uint64(1), e.Statistics().IterationCapHits)
}

func TestFindPath_MaxPathLengthExceeded(t *testing.T) {
	e := newEngine(t, 5, func(c *hpa.Config) { c.MaxPathLength = 3 })
	g, err := e.NewGrid(openCells(10, 10))
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g)
	assert.False(t, res.Success)
	assert.Equal(t, hpa.ReasonPathTooLong, res.Reason)
	assert.Equal(t, uint64(1), e.Statistics().PathLengthCapHits)
}

func TestFindPath_DimensionPinning(t *testing.T) {
	e := newEngine(t, 5, func(c *hpa.Config) { c.Width, c.Height = 10, 10 })
	small, err := e.NewGrid(openCells(5, 5))
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 4, Y: 4}}, small)
	assert.False(t, res.Success)
	assert.Equal(t, hpa.ReasonInvalidInput, res.Reason)
}

// ------------------------------------------------------------------------
// Query options and modes.
// ------------------------------------------------------------------------

func TestFindPath_AbstractPathOption(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g,
		hpa.WithAbstractPath())
	require.True(t, res.Success)
	require.NotEmpty(t, res.AbstractPath)
	assert.Equal(t, grid.Cell{X: 0, Y: 0}, res.AbstractPath[0])
	assert.Equal(t, grid.Cell{X: 9, Y: 9}, res.AbstractPath[len(res.AbstractPath)-1])

	// Without the option the abstract path stays empty.
	plain := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g)
	assert.Empty(t, plain.AbstractPath)
}

func TestFindPath_CostProbeWithoutRefinedPath(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	probe := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g,
		hpa.WithoutRefinedPath())
	require.True(t, probe.Success)
	assert.Empty(t, probe.Path)
	assert.Positive(t, probe.Cost)
}

func TestFindPath_FlatModeIsGroundTruth(t *testing.T) {
	// Flat mode finds the octile-optimal cost; the hierarchical result
	// is near-optimal — never cheaper, and within a modest detour
	// factor on an open grid (paths are forced through entrance
	// representative points).
	e := newEngine(t, 5)
	g, err := e.NewGrid(openCells(20, 20))
	require.NoError(t, err)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 19, Y: 19}

	flat := e.FindPath(start, []grid.Cell{goal}, g, hpa.WithoutAbstraction())
	hier := e.FindPath(start, []grid.Cell{goal}, g)
	require.True(t, flat.Success)
	require.True(t, hier.Success)
	assert.InDelta(t, 19*math.Sqrt2, flat.Cost, 1e-9)
	assert.GreaterOrEqual(t, hier.Cost, flat.Cost-1e-9)
	assert.LessOrEqual(t, hier.Cost, flat.Cost*1.3)
}

func TestFindPath_FlatModeExhaustionIsNoPathNotCap(t *testing.T) {
	// The start is walled into its corner, so each per-goal search
	// exhausts its tiny open set after a single expansion without
	// hitting the cap. The summed expansions across both goals do reach
	// the cap, which must not relabel the genuine no-path outcome.
	e := newEngine(t, 5)
	cells := openCells(5, 5)
	cells[0][1] = false
	cells[1][0] = false
	cells[1][1] = false
	g, err := e.NewGrid(cells)
	require.NoError(t, err)

	res := e.FindPath(grid.Cell{X: 0, Y: 0},
		[]grid.Cell{{X: 4, Y: 0}, {X: 4, Y: 4}}, g,
		hpa.WithoutAbstraction(), hpa.WithMaxIterations(2))
	require.False(t, res.Success)
	assert.Equal(t, hpa.ReasonNoPath, res.Reason)
	assert.Zero(t, e.Statistics().IterationCapHits)
}

func TestFindPath_GoalBoundingStillFindsPathInBudget(t *testing.T) {
	e := newEngine(t, 5, func(c *hpa.Config) { c.MaxPathLength = 64 })
	g := wallGrid(t, e)

	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g,
		hpa.WithGoalBounding())
	require.True(t, res.Success, "reason: %v", res.Reason)
	assertSoundPath(t, g, res.Path)
}

func TestFindPath_GridVersionBumpRebuilds(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 9, Y: 9}

	_ = e.FindPath(start, []grid.Cell{goal}, g)
	builds := e.Statistics().GraphBuilds
	g.Bump()
	_ = e.FindPath(start, []grid.Cell{goal}, g)
	assert.Equal(t, builds+1, e.Statistics().GraphBuilds)
}

func TestFindPath_VersionBumpInvalidatesCachedPaths(t *testing.T) {
	// Warm the caches on an open grid, then present a grid whose
	// traversability changed under a newer version stamp. The rebuilt
	// route must respect the new grid: a stale intra-cluster entry
	// would send the path straight through the freshly blocked cell.
	e := newEngine(t, 5)
	open, err := e.NewGrid(openCells(10, 10))
	require.NoError(t, err)

	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 4, Y: 4}
	warm := e.FindPath(start, []grid.Cell{goal}, open)
	require.True(t, warm.Success)
	require.True(t, containsCell(warm.Path, grid.Cell{X: 2, Y: 2}),
		"warmup should route through the diagonal")

	cells := openCells(10, 10)
	cells[2][2] = false
	changed, err := e.NewGrid(cells)
	require.NoError(t, err)
	changed.Bump()

	res := e.FindPath(start, []grid.Cell{goal}, changed)
	require.True(t, res.Success, "reason: %v", res.Reason)
	assert.False(t, containsCell(res.Path, grid.Cell{X: 2, Y: 2}),
		"path crosses a cell blocked in the new grid version")
	assertSoundPath(t, changed, res.Path)
}

func TestFindPath_CachingDisabledRebuildsEveryQuery(t *testing.T) {
	e := newEngine(t, 5, func(c *hpa.Config) { c.EnableCaching = false })
	g := wallGrid(t, e)
	start, goal := grid.Cell{X: 0, Y: 0}, grid.Cell{X: 9, Y: 9}

	_ = e.FindPath(start, []grid.Cell{goal}, g)
	_ = e.FindPath(start, []grid.Cell{goal}, g)
	assert.Equal(t, uint64(2), e.Statistics().GraphBuilds)
}

func TestStatistics_Counters(t *testing.T) {
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	require.True(t, e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g).Success)
	res := e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 42, Y: 0}}, g)
	require.False(t, res.Success)

	s := e.Statistics()
	assert.Equal(t, uint64(2), s.TotalQueries)
	assert.Equal(t, uint64(1), s.TotalPathsFound)
	assert.Equal(t, uint64(1), s.TotalFailures)
	assert.NotZero(t, s.TempNodesSpliced)
}

func TestFindPath_RepeatedQueriesLeaveGraphClean(t *testing.T) {
	// Temporary nodes must be discarded after every query: the
	// permanent node count stays constant no matter how many queries run.
	e := newEngine(t, 5)
	g := wallGrid(t, e)

	_ = e.FindPath(grid.Cell{X: 0, Y: 0}, []grid.Cell{{X: 9, Y: 9}}, g)
	nodes, edges := e.AbstractGraphSize()
	for i := 0; i < 5; i++ {
		_ = e.FindPath(grid.Cell{X: 1, Y: 2}, []grid.Cell{{X: 8, Y: 7}, {X: 9, Y: 9}}, g)
	}
	n2, e2 := e.AbstractGraphSize()
	assert.Equal(t, nodes, n2)
	assert.Equal(t, edges, e2)
}
