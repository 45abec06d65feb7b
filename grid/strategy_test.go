package grid

import (
	"testing"

	"github.com/gorustyt/navcore/common"
)

func TestPlannersAgreeOnReachability(t *testing.T) {
	wall := solidSet{}
	for x := 0; x < 9; x++ {
		wall[Cell{x, 5}] = true
	}
	start, goal := Cell{1, 1}, Cell{1, 8}
	for alg := range algorithmNames {
		p := mustPlanner(t, alg, 10, WithIsSolid(wall.isSolid), WithMaxIterations(0))
		var out []Cell
		status := p.ComputePath(start, goal, &out)
		if status.Outcome() != common.Complete {
			t.Errorf("%v: outcome %v", alg, status.Outcome())
			continue
		}
		checkPath(t, out, start, goal, wall.isSolid)
	}
}

func TestPlannersReportUnreachable(t *testing.T) {
	wall := solidSet{}
	for x := 0; x < 10; x++ {
		wall[Cell{x, 5}] = true
	}
	for alg := range algorithmNames {
		p := mustPlanner(t, alg, 10, WithIsSolid(wall.isSolid), WithMaxIterations(0))
		out := []Cell{{7, 7}}
		status := p.ComputePath(Cell{1, 1}, Cell{1, 8}, &out)
		assertTrue(t, status.Outcome() == common.Unreachable, alg.String()+": sealed wall is unreachable")
		assertTrue(t, len(out) == 0, alg.String()+": output path cleared")
	}
}

func TestParseAlgorithm(t *testing.T) {
	for alg, name := range algorithmNames {
		got, err := ParseAlgorithm(name)
		if err != nil || got != alg {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", name, got, err)
		}
	}
	if got, _ := ParseAlgorithm("D-Star-Lite"); got != DStarLiteAlgorithm {
		t.Errorf("case and separators are ignored")
	}
	if _, err := ParseAlgorithm("theta"); err == nil {
		t.Errorf("unknown algorithm accepted")
	}
	if _, err := NewPlanner(AStarAlgorithm, 0); err == nil {
		t.Errorf("zero side accepted")
	}
}

func TestSetHeuristic(t *testing.T) {
	calls := 0
	p := mustPlanner(t, AStarAlgorithm, 10)
	p.SetHeuristic(func(a, b Cell) float32 {
		calls++
		return ManhattanDistance(a, b)
	})
	var out []Cell
	p.ComputePath(Cell{0, 0}, Cell{9, 9}, &out)
	assertTrue(t, calls > 0, "custom heuristic used")
	checkPath(t, out, Cell{0, 0}, Cell{9, 9}, nil)
}
