package grid

import (
	"testing"

	"github.com/gorustyt/navcore/common"
)

func TestFlowFieldValues(t *testing.T) {
	f := NewFlowField(8, WithCostModel(CostEuclidean))
	assertTrue(t, f.Build(Cell{0, 0}), "build")
	assertTrue(t, f.Value(Cell{0, 0}) == 0, "goal is zero")
	assertTrue(t, f.Value(Cell{3, 0}) == 3, "orthogonal distance")
	if v := f.Value(Cell{2, 2}); common.Abs(v-2*1.4142135) > 1e-4 {
		t.Errorf("diagonal distance %v", v)
	}
	assertTrue(t, common.IsInf(f.Value(Cell{9, 9})), "out of range is infinite")
}

func TestDistanceFieldCountsMoves(t *testing.T) {
	f := NewDistanceField(8, WithConnectivity(FourWay))
	f.Build(Cell{0, 0})
	assertTrue(t, f.Value(Cell{3, 4}) == 7, "manhattan hop count")
	r := f.Descend(Cell{3, 4}, Cell{0, 0})
	checkPath(t, r.Path, Cell{3, 4}, Cell{0, 0}, nil)
	assertTrue(t, len(r.Path) == 8, "descent follows the field")
}

func TestFieldRebuildsOnPredicateChange(t *testing.T) {
	f := NewFlowField(10)
	var out []Cell
	f.ComputePath(Cell{0, 0}, Cell{9, 0}, &out)
	assertTrue(t, len(out) == 10, "straight path")

	wall := solidSet{}
	for y := 0; y < 9; y++ {
		wall[Cell{5, y}] = true
	}
	f.SetIsSolid(wall.isSolid)
	status := f.ComputePath(Cell{0, 0}, Cell{9, 0}, &out)
	assertTrue(t, status.Outcome() == common.Complete, "detour found")
	checkPath(t, out, Cell{0, 0}, Cell{9, 0}, wall.isSolid)

	wall[Cell{5, 9}] = true
	f.ComputePath(Cell{0, 0}, Cell{9, 0}, &out)
	assertTrue(t, len(out) > 0, "stale field is reused until invalidated")
	f.Invalidate()
	status = f.ComputePath(Cell{0, 0}, Cell{9, 0}, &out)
	assertTrue(t, status.Outcome() == common.Unreachable, "rebuilt field sees the sealed wall")
}

func TestBFSFewestMoves(t *testing.T) {
	b := NewBFS(10, WithConnectivity(FourWay))
	r := b.Search(Cell{0, 0}, Cell{9, 9})
	checkPath(t, r.Path, Cell{0, 0}, Cell{9, 9}, nil)
	assertTrue(t, len(r.Path) == 19, "18 moves")
}
