package navmesh

import (
	"math/rand"
	"slices"

	"go.uber.org/zap"
)

// RemoveTriangle deletes triangle i. Its neighbours drop their link to it, then the
// last triangle is moved into slot i and every reference to the moved triangle is
// patched. The BVH and heatmap are stale afterwards.
func (m *Mesh) RemoveTriangle(i int32) bool {
	if !m.valid(i) {
		return false
	}
	// (a) unlink
	for _, n := range m.Tris[i].Neighbors {
		if m.valid(n) {
			m.Tris[n].replaceNeighbor(i, -1)
		}
	}
	// (b) swap-remove
	last := int32(len(m.Tris) - 1)
	if i != last {
		moved := m.Tris[last]
		for k := 0; k < 3; k++ {
			m.Verts[3*i+int32(k)] = m.Verts[moved.Verts[k]]
			moved.Verts[k] = 3*i + int32(k)
		}
		m.Tris[i] = moved
		for _, n := range moved.Neighbors {
			if m.valid(n) {
				m.Tris[n].replaceNeighbor(last, i)
			}
		}
	}
	m.Tris = m.Tris[:last]
	m.Verts = m.Verts[:3*last]
	// (c) derived structures wait for an explicit rebuild
	m.markStale()
	return true
}

// RemoveTriangles deletes a set of triangles and returns how many were removed.
// Indices are processed in descending order so pending indices never move.
func (m *Mesh) RemoveTriangles(indices []int32) int {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	removed := 0
	for k := len(sorted) - 1; k >= 0; k-- {
		if m.RemoveTriangle(sorted[k]) {
			removed++
		}
	}
	return removed
}

// RemoveRandomClusters carves clusters of up to size connected triangles, each grown
// breadth-first from a random seed. It needs current adjacency.
func (m *Mesh) RemoveRandomClusters(rng *rand.Rand, clusters, size int) int {
	if len(m.Tris) == 0 || clusters <= 0 || size <= 0 {
		return 0
	}
	picked := make(map[int32]struct{})
	var queue []int32
	for c := 0; c < clusters; c++ {
		seed := int32(rng.Intn(len(m.Tris)))
		queue = append(queue[:0], seed)
		grown := 0
		for head := 0; head < len(queue) && grown < size; head++ {
			t := queue[head]
			if _, ok := picked[t]; ok {
				continue
			}
			picked[t] = struct{}{}
			grown++
			for _, n := range m.Tris[t].Neighbors {
				if n >= 0 {
					queue = append(queue, n)
				}
			}
		}
	}
	set := make([]int32, 0, len(picked))
	for t := range picked {
		set = append(set, t)
	}
	removed := m.RemoveTriangles(set)
	m.log.Debug("navmesh clusters removed",
		zap.Int("clusters", clusters), zap.Int("size", size), zap.Int("removed", removed))
	return removed
}
