package navmesh

import (
	"sort"

	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

// BVHNode is an entry of the flat BVH arena. Inner nodes have two children; a leaf has
// Left == Right == -1 and owns BVH.Indices[First:First+Count].
type BVHNode struct {
	Min, Max    common.Vec3
	Left, Right int32
	First       int32
	Count       int32
}

func (n *BVHNode) IsLeaf() bool { return n.Left < 0 }

type BVH struct {
	Nodes   []BVHNode
	Indices []int32
}

// Root is the index of the root node, -1 for an empty tree.
func (b *BVH) Root() int32 {
	if len(b.Nodes) == 0 {
		return -1
	}
	return 0
}

func longestAxis(x, y, z float32) int {
	axis := 0
	maxVal := x
	if y > maxVal {
		axis = 1
		maxVal = y
	}
	if z > maxVal {
		axis = 2
	}
	return axis
}

type bvhBuilder struct {
	m         *Mesh
	centroids []common.Vec3
	bmins     []common.Vec3
	bmaxs     []common.Vec3
	bvh       *BVH
	depth     int
}

// BuildBVH rebuilds the hierarchy over all triangles and clears the stale flag.
func (m *Mesh) BuildBVH() {
	n := len(m.Tris)
	b := bvhBuilder{
		m:         m,
		centroids: make([]common.Vec3, n),
		bmins:     make([]common.Vec3, n),
		bmaxs:     make([]common.Vec3, n),
		bvh:       &BVH{Indices: make([]int32, n)},
	}
	for i := 0; i < n; i++ {
		b.bvh.Indices[i] = int32(i)
		b.centroids[i] = m.Centroid(int32(i))
		b.bmins[i], b.bmaxs[i] = m.triBounds(int32(i))
	}
	if n > 0 {
		b.subdivide(0, int32(n), 0)
	}
	m.bvh = *b.bvh
	m.bvhStale = false
	m.log.Debug("navmesh bvh built",
		zap.Int("triangles", n), zap.Int("nodes", len(m.bvh.Nodes)), zap.Int("depth", b.depth))
}

func (b *bvhBuilder) subdivide(first, count int32, depth int) int32 {
	idx := b.bvh.Indices[first : first+count]
	node := BVHNode{Left: -1, Right: -1, First: first, Count: count}
	node.Min, node.Max = b.bmins[idx[0]], b.bmaxs[idx[0]]
	cmin, cmax := b.centroids[idx[0]], b.centroids[idx[0]]
	for _, i := range idx[1:] {
		for k := 0; k < 3; k++ {
			node.Min[k] = min(node.Min[k], b.bmins[i][k])
			node.Max[k] = max(node.Max[k], b.bmaxs[i][k])
			cmin[k] = min(cmin[k], b.centroids[i][k])
			cmax[k] = max(cmax[k], b.centroids[i][k])
		}
	}
	cur := int32(len(b.bvh.Nodes))
	b.bvh.Nodes = append(b.bvh.Nodes, node)
	b.depth = max(b.depth, depth)
	if int(count) <= b.m.opts.leafSize || depth >= b.m.opts.maxDepth {
		return cur
	}

	// Split at the median centroid along the longest axis of the centroid bounds.
	axis := longestAxis(cmax[0]-cmin[0], cmax[1]-cmin[1], cmax[2]-cmin[2])
	sort.Slice(idx, func(i, j int) bool {
		return b.centroids[idx[i]][axis] < b.centroids[idx[j]][axis]
	})
	half := count / 2
	left := b.subdivide(first, half, depth+1)
	right := b.subdivide(first+half, count-half, depth+1)
	b.bvh.Nodes[cur].Left = left
	b.bvh.Nodes[cur].Right = right
	b.bvh.Nodes[cur].Count = 0
	return cur
}

// BVH returns the current hierarchy, which may be stale.
func (m *Mesh) BVH() *BVH { return &m.bvh }

func (m *Mesh) useBVH(op string) bool {
	if m.bvhStale || len(m.bvh.Nodes) == 0 {
		if len(m.Tris) > 0 {
			m.log.Warn("navmesh bvh stale, scanning all triangles", zap.String("query", op))
		}
		return false
	}
	return true
}

// containment scores how well triangle i explains p; lower is better, ok false when
// p is outside its xz footprint.
func (m *Mesh) containment(i int32, p common.Vec3) (float32, bool) {
	a, b, c := m.TriangleVerts(i)
	h, ok := common.ClosestHeightPointTriangle(p, a, b, c)
	if !ok {
		return 0, false
	}
	return common.Abs(h - p[1]), true
}

// FindTriangle returns the triangle containing p on the xz-plane. When several
// triangles overlap p, the one whose surface is vertically closest wins.
func (m *Mesh) FindTriangle(p common.Vec3) (int32, bool) {
	best, bestD := int32(-1), common.Inf
	if !m.useBVH("find") {
		for i := range m.Tris {
			if d, ok := m.containment(int32(i), p); ok && d < bestD {
				best, bestD = int32(i), d
			}
		}
		return best, best >= 0
	}
	stack := make([]int32, 1, 2*m.opts.maxDepth+2)
	for len(stack) > 0 {
		node := &m.bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !common.PointInBounds2D(p, node.Min, node.Max) {
			continue
		}
		if node.IsLeaf() {
			for _, i := range m.bvh.Indices[node.First : node.First+node.Count] {
				if d, ok := m.containment(i, p); ok && d < bestD {
					best, bestD = i, d
				}
			}
			continue
		}
		stack = append(stack, node.Left, node.Right)
	}
	return best, best >= 0
}

// NearestTriangle returns the triangle whose surface point is closest to p, and that point.
func (m *Mesh) NearestTriangle(p common.Vec3) (int32, common.Vec3, bool) {
	best, bestD := int32(-1), common.Inf
	var bestP common.Vec3
	try := func(i int32) {
		a, b, c := m.TriangleVerts(i)
		q := common.ClosestPointOnTriangle(p, a, b, c)
		if d := common.VdistSqr(p, q); d < bestD {
			best, bestD, bestP = i, d, q
		}
	}
	if !m.useBVH("nearest") {
		for i := range m.Tris {
			try(int32(i))
		}
		return best, bestP, best >= 0
	}
	stack := make([]int32, 1, 2*m.opts.maxDepth+2)
	for len(stack) > 0 {
		node := &m.bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if common.PointBoxDistSqr(p, node.Min, node.Max) >= bestD {
			continue
		}
		if node.IsLeaf() {
			for _, i := range m.bvh.Indices[node.First : node.First+node.Count] {
				try(i)
			}
			continue
		}
		// visit the nearer child first
		l, r := node.Left, node.Right
		if common.PointBoxDistSqr(p, m.bvh.Nodes[l].Min, m.bvh.Nodes[l].Max) <
			common.PointBoxDistSqr(p, m.bvh.Nodes[r].Min, m.bvh.Nodes[r].Max) {
			l, r = r, l
		}
		stack = append(stack, l, r)
	}
	return best, bestP, best >= 0
}

// QueryBounds appends to dst every triangle whose bounds overlap the box.
func (m *Mesh) QueryBounds(bmin, bmax common.Vec3, dst []int32) []int32 {
	if !m.useBVH("bounds") {
		for i := range m.Tris {
			tmin, tmax := m.triBounds(int32(i))
			if common.OverlapBounds(bmin, bmax, tmin, tmax) {
				dst = append(dst, int32(i))
			}
		}
		return dst
	}
	stack := make([]int32, 1, 2*m.opts.maxDepth+2)
	for len(stack) > 0 {
		node := &m.bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !common.OverlapBounds(bmin, bmax, node.Min, node.Max) {
			continue
		}
		if node.IsLeaf() {
			for _, i := range m.bvh.Indices[node.First : node.First+node.Count] {
				tmin, tmax := m.triBounds(i)
				if common.OverlapBounds(bmin, bmax, tmin, tmax) {
					dst = append(dst, i)
				}
			}
			continue
		}
		stack = append(stack, node.Left, node.Right)
	}
	return dst
}
