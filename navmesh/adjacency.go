package navmesh

import (
	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

// sharedVertexCount counts the positions of triangle i that also occur in triangle j.
func (m *Mesh) sharedVertexCount(i, j int32) int {
	ai, bi, ci := m.TriangleVerts(i)
	aj, bj, cj := m.TriangleVerts(j)
	n := 0
	for _, p := range [3]common.Vec3{ai, bi, ci} {
		if p == aj || p == bj || p == cj {
			n++
		}
	}
	return n
}

func (m *Mesh) resetAdjacency() {
	for i := range m.Tris {
		m.Tris[i].Neighbors = [3]int32{-1, -1, -1}
	}
	m.heatStale = true
}

// link makes i and j neighbours in their first free slots. A triangle without a free
// slot is left untouched on both sides so adjacency stays symmetric.
func (m *Mesh) link(i, j int32) bool {
	ti, tj := &m.Tris[i], &m.Tris[j]
	if ti.hasNeighbor(j) {
		return false
	}
	if !ti.hasNeighbor(-1) || !tj.hasNeighbor(-1) {
		m.log.Warn("navmesh neighbour slots full", zap.Int32("a", i), zap.Int32("b", j))
		return false
	}
	ti.replaceNeighbor(-1, j)
	tj.replaceNeighbor(-1, i)
	return true
}

// ComputeAdjacency links triangles sharing exactly two vertex positions. Triangles are
// bucketed by vertex position so each one is compared only against triangles touching
// one of its corners.
func (m *Mesh) ComputeAdjacency() {
	m.resetAdjacency()
	buckets := make(map[common.Vec3][]int32, len(m.Verts)/2)
	for i := range m.Tris {
		t := &m.Tris[i]
		for k, vi := range t.Verts {
			p := m.Verts[vi]
			// degenerate triangles may repeat a position
			if k > 0 && p == m.Verts[t.Verts[0]] || k > 1 && p == m.Verts[t.Verts[1]] {
				continue
			}
			buckets[p] = append(buckets[p], int32(i))
		}
	}
	links := 0
	for i := range m.Tris {
		ii := int32(i)
		for _, vi := range m.Tris[i].Verts {
			for _, j := range buckets[m.Verts[vi]] {
				if j <= ii || m.Tris[i].hasNeighbor(j) {
					continue
				}
				if m.sharedVertexCount(ii, j) == 2 && m.link(ii, j) {
					links++
				}
			}
		}
	}
	m.log.Debug("navmesh adjacency computed",
		zap.Int("triangles", len(m.Tris)), zap.Int("buckets", len(buckets)), zap.Int("links", links))
}

// ComputeAdjacencyBruteForce compares every pair of triangles.
func (m *Mesh) ComputeAdjacencyBruteForce() {
	m.resetAdjacency()
	for i := range m.Tris {
		for j := i + 1; j < len(m.Tris); j++ {
			if m.sharedVertexCount(int32(i), int32(j)) == 2 {
				m.link(int32(i), int32(j))
			}
		}
	}
}

// SharedEdge returns the two positions triangles a and b have in common, in a's vertex
// order. ok is false unless they share exactly two.
func (m *Mesh) SharedEdge(a, b int32) (p, q common.Vec3, ok bool) {
	if !m.valid(a) || !m.valid(b) || a == b {
		return p, q, false
	}
	aa, ab, ac := m.TriangleVerts(a)
	ba, bb, bc := m.TriangleVerts(b)
	var shared [3]common.Vec3
	n := 0
	for _, v := range [3]common.Vec3{aa, ab, ac} {
		if v == ba || v == bb || v == bc {
			shared[n] = v
			n++
		}
	}
	if n != 2 {
		return p, q, false
	}
	return shared[0], shared[1], true
}
