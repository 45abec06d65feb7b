package navquery

import (
	"testing"

	"github.com/gorustyt/navcore/common"
)

func TestPruneIdempotent(t *testing.T) {
	q := NewQuery(wallMesh(t, 15))
	raw := q.FindCorridor(common.Vec3{5, 0, 5}, common.Vec3{15, 0, 5}).Path
	once := q.Prune(raw)
	twice := q.Prune(once)
	assertTrue(t, len(once) < len(raw), "pruning removes waypoints")
	if len(once) != len(twice) {
		t.Fatalf("prune changed a pruned path: %v -> %v", once, twice)
	}
	for i := range once {
		if !common.Vequal(once[i], twice[i]) {
			t.Errorf("point %d changed: %v -> %v", i, once[i], twice[i])
		}
	}
	assertTrue(t, common.Vequal(once[0], raw[0]) && common.Vequal(once[len(once)-1], raw[len(raw)-1]),
		"pruning keeps endpoints")
}

func TestFunnelStraightensOpenCorridor(t *testing.T) {
	q := NewQuery(buildMesh(t, 21, nil))
	start, goal := common.Vec3{2.5, 0, 3.1}, common.Vec3{17.2, 0, 12.8}
	r := q.FindCorridor(start, goal)
	assertTrue(t, len(r.Corridor) > 10, "long corridor")
	path := q.Funnel(start, goal, r.Corridor)
	assertTrue(t, len(path) == 2, "open corridor pulls to a straight line")
}

func TestFunnelTurnsAtCorners(t *testing.T) {
	q := NewQuery(wallMesh(t, 15))
	start, goal := common.Vec3{5, 0, 5}, common.Vec3{15, 0, 5}
	r := q.FindCorridor(start, goal)
	path := q.Funnel(start, goal, r.Corridor)
	assertTrue(t, len(path) >= 4, "path bends around both wall corners")
	assertTrue(t, common.Vequal(path[0], start) && common.Vequal(path[len(path)-1], goal), "endpoints kept")
	checkOnMesh(t, q, path)

	// shortest way round touches (9,15) and (11,15)
	optimum := 2*common.Vdist2D(start, common.Vec3{9, 0, 15}) + 2
	got := pathLength(path)
	assertTrue(t, got >= optimum-1e-3, "funnel path cannot beat the geometric optimum")
	assertTrue(t, got <= pathLength(r.Path)+1e-3, "funnel never lengthens the corridor path")
}

func TestHasLineOfSight(t *testing.T) {
	q := NewQuery(wallMesh(t, 15))
	assertTrue(t, q.HasLineOfSight(common.Vec3{1, 0, 1}, common.Vec3{8, 0, 14}), "open side")
	assertTrue(t, !q.HasLineOfSight(common.Vec3{5, 0, 5}, common.Vec3{15, 0, 5}), "wall blocks")
	assertTrue(t, q.HasLineOfSight(common.Vec3{5, 0, 18}, common.Vec3{15, 0, 18}), "gap above the wall")
	assertTrue(t, q.HasLineOfSight(common.Vec3{3, 0, 3}, common.Vec3{3, 0, 3}), "single point")
}

func TestResample(t *testing.T) {
	q := NewQuery(buildMesh(t, 11, nil), WithResampleSpacing(1))
	out := q.Resample([]common.Vec3{{0, 0, 0}, {3, 0, 0}, {3, 0, 0.5}})
	want := []common.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {3, 0, 0.5}}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if !common.Vequal(out[i], want[i]) {
			t.Errorf("point %d = %v, want %v", i, out[i], want[i])
		}
	}

	off := NewQuery(buildMesh(t, 11, nil), WithResampleSpacing(0))
	assertTrue(t, len(off.Resample(want)) == len(want), "zero spacing disables resampling")
}

func TestSnapHeights(t *testing.T) {
	slope := func(x, z int) float32 { return float32(z) }
	q := NewQuery(buildMesh(t, 11, slope))
	out := q.SnapHeights([]common.Vec3{{2.5, 100, 3.25}, {-4, 7, -4}})
	if common.Abs(out[0][1]-3.25) > 1e-4 {
		t.Errorf("snapped height %v, want 3.25", out[0][1])
	}
	assertTrue(t, out[1][1] == 7, "off mesh point keeps its height")
}
