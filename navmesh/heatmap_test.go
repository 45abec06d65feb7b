package navmesh

import (
	"testing"

	"github.com/gorustyt/navcore/common"
)

func TestHeatmapDistances(t *testing.T) {
	m := mustBuild(t, newHeightmap(t, 12, 12, nil))
	assertTrue(t, !m.HeatmapStale(), "Build computes the heatmap")
	maxHeat := int32(0)
	for i, tri := range m.Tris {
		h := m.Heat(int32(i))
		if tri.IsBoundary() != (h == 0) {
			t.Errorf("triangle %d: boundary %v heat %d", i, tri.IsBoundary(), h)
		}
		for _, n := range tri.Neighbors {
			if n >= 0 && common.Abs(m.Heat(n)-h) > 1 {
				t.Errorf("neighbours %d and %d differ by more than one hop", i, n)
			}
		}
		maxHeat = max(maxHeat, h)
	}
	assertTrue(t, maxHeat > 3, "centre is several hops from the edge")
	assertTrue(t, m.Heat(-1) == HeatUnreached && m.Heat(int32(m.TriangleCount())) == HeatUnreached,
		"out of range is unreached")
}

func TestHeatmapStaleAfterEdit(t *testing.T) {
	m := mustBuild(t, newHeightmap(t, 12, 12, nil))
	centre, _ := m.FindTriangle(common.Vec3{5.6, 0, 5.3})
	before := m.Heat(centre)
	assertTrue(t, before > 0, "centre triangle is interior")
	n := m.Tris[centre].Neighbors[0]
	m.RemoveTriangle(n)
	assertTrue(t, m.HeatmapStale(), "edit marks heatmap stale")
	m.ComputeHeatmap()
	assertTrue(t, !m.HeatmapStale(), "recompute clears stale flag")
	centre, _ = m.FindTriangle(common.Vec3{5.6, 0, 5.3})
	assertTrue(t, m.Heat(centre) == 0, "triangle next to a hole is boundary")
}

func TestHeatmapUnreached(t *testing.T) {
	// closed tetrahedron surface: no boundary edge anywhere
	m := NewMesh()
	a, b, c, d := common.Vec3{0, 0, 0}, common.Vec3{1, 0, 0}, common.Vec3{0, 0, 1}, common.Vec3{0, 1, 0}
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, b, d)
	m.AddTriangle(a, c, d)
	m.AddTriangle(b, c, d)
	m.ComputeAdjacency()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	m.ComputeHeatmap()
	for i := int32(0); i < 4; i++ {
		assertTrue(t, m.Heat(i) == HeatUnreached, "no boundary means unreached")
	}
}
