package navmesh

import (
	"math/rand"
	"testing"

	"github.com/gorustyt/navcore/common"
)

func randomInteriorPoint(rng *rand.Rand, a, b, c common.Vec3) common.Vec3 {
	u := 0.05 + rng.Float32()
	v := 0.05 + rng.Float32()
	w := 0.05 + rng.Float32()
	s := u + v + w
	return a.Mul(u / s).Add(b.Mul(v / s)).Add(c.Mul(w / s))
}

func TestBVHContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := mustBuild(t, newHeightmap(t, 40, 40, hills), WithLeafSize(8))
	assertTrue(t, len(m.BVH().Nodes) > 1, "tree has inner nodes")
	for k := 0; k < 2000; k++ {
		i := int32(rng.Intn(m.TriangleCount()))
		a, b, c := m.TriangleVerts(i)
		p := randomInteriorPoint(rng, a, b, c)
		got, ok := m.FindTriangle(p)
		if !ok {
			t.Fatalf("no triangle for %v inside %d", p, i)
		}
		ga, gb, gc := m.TriangleVerts(got)
		if !common.PointInTriangle2D(p, ga, gb, gc) {
			t.Fatalf("triangle %d does not contain %v", got, p)
		}
	}
	_, ok := m.FindTriangle(common.Vec3{-5, 0, -5})
	assertTrue(t, !ok, "point off the mesh")
}

func TestBVHStructure(t *testing.T) {
	m := mustBuild(t, newHeightmap(t, 30, 30, hills), WithLeafSize(16), WithMaxDepth(5))
	bvh := m.BVH()
	seen := make([]int, m.TriangleCount())
	var walk func(n int32, depth int)
	walk = func(n int32, depth int) {
		node := &bvh.Nodes[n]
		if node.IsLeaf() {
			if int(node.Count) > 16 && depth < 5 {
				t.Errorf("leaf at depth %d holds %d triangles", depth, node.Count)
			}
			for _, i := range bvh.Indices[node.First : node.First+node.Count] {
				seen[i]++
				tmin, tmax := m.triBounds(i)
				for k := 0; k < 3; k++ {
					if tmin[k] < node.Min[k] || tmax[k] > node.Max[k] {
						t.Errorf("triangle %d escapes its leaf", i)
					}
				}
			}
			return
		}
		if depth >= 5 {
			t.Errorf("inner node below max depth")
		}
		for _, ch := range []int32{node.Left, node.Right} {
			c := &bvh.Nodes[ch]
			for k := 0; k < 3; k++ {
				if c.Min[k] < node.Min[k] || c.Max[k] > node.Max[k] {
					t.Errorf("child %d escapes parent %d", ch, n)
				}
			}
			walk(ch, depth+1)
		}
	}
	walk(bvh.Root(), 0)
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("triangle %d appears in %d leaves", i, n)
		}
	}

	flat := mustBuild(t, newHeightmap(t, 10, 10, nil), WithMaxDepth(0))
	assertTrue(t, len(flat.BVH().Nodes) == 1, "max depth 0 makes a single leaf")
}

func TestNearestTriangleMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := mustBuild(t, newHeightmap(t, 25, 25, hills), WithLeafSize(4))
	for k := 0; k < 300; k++ {
		p := common.Vec3{rng.Float32()*40 - 8, rng.Float32()*10 - 5, rng.Float32()*40 - 8}
		_, q, ok := m.NearestTriangle(p)
		if !ok {
			t.Fatalf("no nearest triangle")
		}
		want := common.Inf
		for i := range m.Tris {
			a, b, c := m.TriangleVerts(int32(i))
			want = min(want, common.VdistSqr(p, common.ClosestPointOnTriangle(p, a, b, c)))
		}
		if got := common.VdistSqr(p, q); common.Abs(got-want) > 1e-3 {
			t.Errorf("nearest to %v: %v, linear scan %v", p, got, want)
		}
	}
}

func TestStaleBVHFallsBackToScan(t *testing.T) {
	m := mustBuild(t, newHeightmap(t, 8, 8, nil))
	m.RemoveTriangle(0)
	assertTrue(t, m.BVHStale(), "edit marks bvh stale")
	a, b, c := m.TriangleVerts(3)
	p := a.Add(b).Add(c).Mul(1.0 / 3.0)
	got, ok := m.FindTriangle(p)
	assertTrue(t, ok && got == 3, "linear scan finds the triangle")
	m.BuildBVH()
	assertTrue(t, !m.BVHStale(), "rebuild clears stale flag")
	got, ok = m.FindTriangle(p)
	assertTrue(t, ok && got == 3, "rebuilt bvh finds the triangle")
}

func TestQueryBounds(t *testing.T) {
	m := mustBuild(t, newHeightmap(t, 10, 10, nil), WithLeafSize(4))
	got := m.QueryBounds(common.Vec3{2.2, -1, 2.2}, common.Vec3{2.8, 1, 2.8}, nil)
	assertTrue(t, len(got) == 2, "box inside one quad touches its two triangles")
	m.RemoveTriangle(0)
	all := m.QueryBounds(common.Vec3{-1, -1, -1}, common.Vec3{20, 1, 20}, nil)
	assertTrue(t, len(all) == m.TriangleCount(), "stale query scans everything")
}
