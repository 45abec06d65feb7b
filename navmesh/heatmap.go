package navmesh

import "go.uber.org/zap"

// HeatUnreached marks triangles no boundary triangle can reach.
const HeatUnreached int32 = -1

// ComputeHeatmap stores, for every triangle, the number of adjacency hops to the
// nearest triangle with a boundary edge. Boundary triangles are 0.
func (m *Mesh) ComputeHeatmap() {
	n := len(m.Tris)
	if cap(m.heat) < n {
		m.heat = make([]int32, n)
	}
	m.heat = m.heat[:n]
	queue := make([]int32, 0, n)
	for i := range m.heat {
		m.heat[i] = HeatUnreached
		if m.Tris[i].IsBoundary() {
			m.heat[i] = 0
			queue = append(queue, int32(i))
		}
	}
	sources := len(queue)
	for head := 0; head < len(queue); head++ {
		t := queue[head]
		for _, nb := range m.Tris[t].Neighbors {
			if nb < 0 || m.heat[nb] != HeatUnreached {
				continue
			}
			m.heat[nb] = m.heat[t] + 1
			queue = append(queue, nb)
		}
	}
	m.heatStale = false
	m.log.Debug("navmesh heatmap computed",
		zap.Int("triangles", n), zap.Int("sources", sources), zap.Int("reached", len(queue)))
}

// Heat returns the hop distance of triangle i to the mesh boundary, or HeatUnreached
// when i is out of range or unreached. Values are meaningless while HeatmapStale.
func (m *Mesh) Heat(i int32) int32 {
	if i < 0 || int(i) >= len(m.heat) || int(i) >= len(m.Tris) {
		return HeatUnreached
	}
	return m.heat[i]
}
