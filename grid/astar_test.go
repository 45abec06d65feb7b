package grid

import (
	"context"
	"math"
	"testing"

	"github.com/gorustyt/navcore/common"
)

func assertTrue(t *testing.T, value bool, msg string) {
	t.Helper()
	if !value {
		t.Error(msg)
	}
}

// checkPath verifies endpoints, adjacency of consecutive cells and that no cell is solid.
func checkPath(t *testing.T, path []Cell, start, goal Cell, solid IsSolidFunc) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("empty path")
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path runs %v -> %v, want %v -> %v", path[0], path[len(path)-1], start, goal)
	}
	for i, c := range path {
		if solid != nil && solid(c) {
			t.Errorf("path enters solid cell %v", c)
		}
		if i == 0 {
			continue
		}
		dx, dy := common.Abs(c.X-path[i-1].X), common.Abs(c.Y-path[i-1].Y)
		if dx > 1 || dy > 1 || dx+dy == 0 {
			t.Errorf("step %d %v -> %v is not a single move", i, path[i-1], c)
		}
	}
}

func pathCost(path []Cell) float64 {
	var cost float64
	for i := 1; i < len(path); i++ {
		cost += float64(EuclideanDistance(path[i-1], path[i]))
	}
	return cost
}

type solidSet map[Cell]bool

func (s solidSet) isSolid(c Cell) bool { return s[c] }

func TestAStarFourWayMoves(t *testing.T) {
	a := NewAStar(10, WithConnectivity(FourWay))
	r := a.ComputeAStar(Cell{0, 0}, Cell{9, 9})
	assertTrue(t, r.Outcome() == common.Complete, "path should be complete")
	checkPath(t, r.Path, Cell{0, 0}, Cell{9, 9}, nil)
	if moves := len(r.Path) - 1; moves != 18 {
		t.Errorf("got %d moves, want 18", moves)
	}
}

func TestAStarEightWayDiagonal(t *testing.T) {
	a := NewAStar(10, WithConnectivity(EightWay))
	r := a.ComputeAStar(Cell{0, 0}, Cell{5, 5})
	assertTrue(t, r.Outcome() == common.Complete, "path should be complete")
	checkPath(t, r.Path, Cell{0, 0}, Cell{5, 5}, nil)
	if moves := len(r.Path) - 1; moves != 5 {
		t.Fatalf("got %d moves, want 5", moves)
	}
	for i := 1; i < len(r.Path); i++ {
		if r.Path[i].X == r.Path[i-1].X || r.Path[i].Y == r.Path[i-1].Y {
			t.Errorf("move %d is not diagonal", i)
		}
	}
}

func TestStartEqualsGoal(t *testing.T) {
	for alg := range algorithmNames {
		p, err := NewPlanner(alg, 8)
		if err != nil {
			t.Fatalf("%v: %v", alg, err)
		}
		var out []Cell
		status := p.ComputePath(Cell{3, 3}, Cell{3, 3}, &out)
		if status.Outcome() != common.Complete || len(out) != 1 || out[0] != (Cell{3, 3}) {
			t.Errorf("%v: got %v %v, want [start] complete", alg, out, status)
		}
	}
}

func TestAStarOutOfRange(t *testing.T) {
	a := NewAStar(10)
	for _, q := range [][2]Cell{
		{{-1, 0}, {5, 5}},
		{{0, 0}, {10, 5}},
		{{0, 0}, {5, -3}},
	} {
		r := a.ComputeAStar(q[0], q[1])
		assertTrue(t, len(r.Path) == 0, "out of range query returns no path")
		assertTrue(t, r.Outcome() == common.InvalidInput, "out of range query is invalid input")
	}
}

func TestAStarUnreachable(t *testing.T) {
	wall := solidSet{}
	for y := 0; y < 10; y++ {
		wall[Cell{5, y}] = true
	}
	a := NewAStar(10, WithIsSolid(wall.isSolid))
	r := a.ComputeAStar(Cell{0, 0}, Cell{9, 9})
	assertTrue(t, len(r.Path) == 0, "unreachable goal returns no path")
	assertTrue(t, r.Outcome() == common.Unreachable, "outcome is unreachable")
}

func TestAStarPredicateChange(t *testing.T) {
	a := NewAStar(10, WithConnectivity(FourWay))
	first := a.ComputeAStar(Cell{0, 0}, Cell{9, 0})
	checkPath(t, first.Path, Cell{0, 0}, Cell{9, 0}, nil)
	assertTrue(t, len(first.Path) == 10, "straight path along the edge")

	wall := solidSet{}
	for y := 0; y < 9; y++ {
		wall[Cell{5, y}] = true
	}
	a.SetIsSolid(wall.isSolid)
	second := a.ComputeAStar(Cell{0, 0}, Cell{9, 0})
	assertTrue(t, second.Outcome() == common.Complete, "detour exists")
	checkPath(t, second.Path, Cell{0, 0}, Cell{9, 0}, wall.isSolid)
	assertTrue(t, len(second.Path) > len(first.Path), "detour is longer")
}

func TestAStarCornerCutting(t *testing.T) {
	wall := solidSet{{1, 0}: true}
	a := NewAStar(3, WithIsSolid(wall.isSolid))
	r := a.ComputeAStar(Cell{0, 0}, Cell{1, 1})
	checkPath(t, r.Path, Cell{0, 0}, Cell{1, 1}, wall.isSolid)
	assertTrue(t, len(r.Path) == 3, "diagonal past a solid corner is refused")

	a.SetCanMoveDiagonal(func(from, to Cell) bool { return true })
	r = a.ComputeAStar(Cell{0, 0}, Cell{1, 1})
	assertTrue(t, len(r.Path) == 2, "permissive policy cuts the corner")
}

func TestAStarAbortDistance(t *testing.T) {
	a := NewAStar(100)
	r := a.ComputeAStar(Cell{0, 0}, Cell{99, 99})
	assertTrue(t, r.Outcome() == common.Partial, "far goal yields a partial path")
	assertTrue(t, r.Status.Detail(common.StatusBudgetExceeded), "budget flag set")
	if len(r.Path) < 2 {
		t.Fatalf("partial path too short: %v", r.Path)
	}
	assertTrue(t, r.Path[0] == Cell{0, 0}, "partial path starts at start")
	last := r.Path[len(r.Path)-1]
	assertTrue(t, SquaredDistance(last, Cell{99, 99}) < SquaredDistance(Cell{0, 0}, Cell{99, 99}),
		"partial path ends closer to goal")

	unbounded := NewAStar(100, WithAbortDistance(0))
	r = unbounded.ComputeAStar(Cell{0, 0}, Cell{99, 99})
	assertTrue(t, r.Outcome() == common.Complete, "no abort distance reaches the goal")
}

func TestAStarEuclideanIsOptimal(t *testing.T) {
	wall := solidSet{}
	for y := 2; y < 12; y++ {
		wall[Cell{6, y}] = true
	}
	a := NewAStar(12, WithIsSolid(wall.isSolid), WithCostModel(CostEuclidean))
	d := mustPlanner(t, Dijkstra, 12, WithIsSolid(wall.isSolid), WithCostModel(CostEuclidean))
	r := a.ComputeAStar(Cell{0, 11}, Cell{11, 11})
	var ref []Cell
	d.ComputePath(Cell{0, 11}, Cell{11, 11}, &ref)
	checkPath(t, r.Path, Cell{0, 11}, Cell{11, 11}, wall.isSolid)
	if math.Abs(pathCost(r.Path)-pathCost(ref)) > 1e-4 {
		t.Errorf("astar cost %v, dijkstra cost %v", pathCost(r.Path), pathCost(ref))
	}
}

func TestAStarGenerationWrap(t *testing.T) {
	a := NewAStar(10, WithConnectivity(FourWay))
	a.gen = math.MaxUint32 - 1
	for i := 0; i < 3; i++ {
		r := a.ComputeAStar(Cell{0, 0}, Cell{9, 9})
		checkPath(t, r.Path, Cell{0, 0}, Cell{9, 9}, nil)
		assertTrue(t, len(r.Path) == 19, "same path length across wrap")
	}
	assertTrue(t, a.gen == 2, "generation restarted after wrap")
}

func TestAStarCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewAStar(10)
	r := a.ComputeAStarContext(ctx, Cell{0, 0}, Cell{9, 9})
	assertTrue(t, r.Outcome() == common.Canceled, "canceled context")
	assertTrue(t, len(r.Path) == 0, "canceled query returns no path")
}

func mustPlanner(t *testing.T, alg Algorithm, side int, opts ...Option) Planner {
	t.Helper()
	p, err := NewPlanner(alg, side, opts...)
	if err != nil {
		t.Fatalf("NewPlanner(%v): %v", alg, err)
	}
	return p
}
