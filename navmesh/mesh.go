// Package navmesh builds a triangle navigation mesh from a heightmap and maintains its
// derived structures: triangle adjacency, a BVH over the triangles, a distance-to-
// boundary field and the obstacle index used for carving.
package navmesh

import (
	"fmt"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/common/logger"
	"go.uber.org/zap"
)

// Triangle references three entries of Mesh.Verts. Neighbors holds adjacent triangle
// indices, -1 for a boundary edge. Slots are filled first-free, not per edge.
type Triangle struct {
	Verts     [3]int32
	Neighbors [3]int32
}

func (t *Triangle) hasNeighbor(j int32) bool {
	return t.Neighbors[0] == j || t.Neighbors[1] == j || t.Neighbors[2] == j
}

// replaceNeighbor swaps the first slot equal to from for to.
func (t *Triangle) replaceNeighbor(from, to int32) bool {
	for k, n := range t.Neighbors {
		if n == from {
			t.Neighbors[k] = to
			return true
		}
	}
	return false
}

// IsBoundary reports whether the triangle has fewer than three neighbours.
func (t *Triangle) IsBoundary() bool {
	return t.hasNeighbor(-1)
}

type AdjacencyMode int

const (
	AdjacencyHashed AdjacencyMode = iota
	AdjacencyBruteForce
)

func (m AdjacencyMode) String() string {
	if m == AdjacencyBruteForce {
		return "bruteforce"
	}
	return "hashed"
}

func ParseAdjacencyMode(s string) (AdjacencyMode, error) {
	switch strings.ToLower(s) {
	case "hashed", "":
		return AdjacencyHashed, nil
	case "bruteforce", "brute-force":
		return AdjacencyBruteForce, nil
	}
	return 0, fmt.Errorf("navmesh: unknown adjacency mode %q", s)
}

type options struct {
	leafSize  int
	maxDepth  int
	adjacency AdjacencyMode
	logger    *zap.Logger
}

type Option func(*options)

// WithLeafSize sets the largest triangle count of a BVH leaf.
func WithLeafSize(n int) Option {
	return func(o *options) { o.leafSize = n }
}

func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

func WithAdjacency(mode AdjacencyMode) Option {
	return func(o *options) { o.adjacency = mode }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Mesh is a triangle navigation mesh. Every triangle owns three duplicated vertices:
// triangle i uses Verts[3i:3i+3]. Adjacency is derived from vertex positions.
//
// Structural edits leave the BVH and the heatmap stale until BuildBVH and
// ComputeHeatmap are called again. Edits must not run concurrently with queries.
type Mesh struct {
	Verts []common.Vec3
	Tris  []Triangle

	bvh      BVH
	bvhStale bool

	heat      []int32
	heatStale bool

	obstacles *rtreego.Rtree

	opts options
	log  *zap.Logger
}

func NewMesh(opts ...Option) *Mesh {
	o := options{leafSize: 256, maxDepth: 20}
	for _, fn := range opts {
		fn(&o)
	}
	if o.leafSize < 1 {
		o.leafSize = 1
	}
	if o.maxDepth < 0 {
		o.maxDepth = 0
	}
	return &Mesh{
		opts:      o,
		log:       logger.OrNop(o.logger),
		bvhStale:  true,
		heatStale: true,
		obstacles: rtreego.NewTree(3, 25, 50),
	}
}

// AddTriangle appends a triangle with no neighbours and returns its index.
func (m *Mesh) AddTriangle(a, b, c common.Vec3) int32 {
	i := int32(len(m.Tris))
	base := int32(len(m.Verts))
	m.Verts = append(m.Verts, a, b, c)
	m.Tris = append(m.Tris, Triangle{
		Verts:     [3]int32{base, base + 1, base + 2},
		Neighbors: [3]int32{-1, -1, -1},
	})
	m.bvhStale = true
	m.heatStale = true
	return i
}

// Triangulate emits two triangles for every heightmap quad whose four corners are valid.
func Triangulate(hm *Heightmap, opts ...Option) (*Mesh, error) {
	if hm == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidHeightmap)
	}
	if err := hm.check(); err != nil {
		return nil, err
	}
	m := NewMesh(opts...)
	quads := (hm.Width - 1) * (hm.Depth - 1)
	m.Tris = make([]Triangle, 0, quads*2)
	m.Verts = make([]common.Vec3, 0, quads*6)
	for z := 0; z < hm.Depth-1; z++ {
		for x := 0; x < hm.Width-1; x++ {
			if !hm.Valid(x, z) || !hm.Valid(x+1, z) || !hm.Valid(x, z+1) || !hm.Valid(x+1, z+1) {
				continue
			}
			p00 := hm.Position(x, z)
			p10 := hm.Position(x+1, z)
			p01 := hm.Position(x, z+1)
			p11 := hm.Position(x+1, z+1)
			m.AddTriangle(p00, p01, p10)
			m.AddTriangle(p10, p01, p11)
		}
	}
	m.log.Debug("heightmap triangulated",
		zap.Int("width", hm.Width), zap.Int("depth", hm.Depth), zap.Int("triangles", len(m.Tris)))
	return m, nil
}

// Build triangulates hm and derives adjacency, the BVH and the heatmap.
func Build(hm *Heightmap, opts ...Option) (*Mesh, error) {
	m, err := Triangulate(hm, opts...)
	if err != nil {
		return nil, err
	}
	if m.opts.adjacency == AdjacencyBruteForce {
		m.ComputeAdjacencyBruteForce()
	} else {
		m.ComputeAdjacency()
	}
	m.BuildBVH()
	m.ComputeHeatmap()
	return m, nil
}

func (m *Mesh) TriangleCount() int { return len(m.Tris) }

func (m *Mesh) valid(i int32) bool { return common.InRange(i, len(m.Tris)) }

// TriangleVerts returns the three vertex positions of triangle i.
func (m *Mesh) TriangleVerts(i int32) (a, b, c common.Vec3) {
	t := &m.Tris[i]
	return m.Verts[t.Verts[0]], m.Verts[t.Verts[1]], m.Verts[t.Verts[2]]
}

func (m *Mesh) Centroid(i int32) common.Vec3 {
	a, b, c := m.TriangleVerts(i)
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// Neighbors returns the neighbour slots of triangle i, all -1 when i is out of range.
func (m *Mesh) Neighbors(i int32) [3]int32 {
	if !m.valid(i) {
		return [3]int32{-1, -1, -1}
	}
	return m.Tris[i].Neighbors
}

func (m *Mesh) triBounds(i int32) (common.Vec3, common.Vec3) {
	a, b, c := m.TriangleVerts(i)
	return common.TriangleBounds(a, b, c)
}

// Bounds returns the bounds of all vertices.
func (m *Mesh) Bounds() (bmin, bmax common.Vec3) {
	if len(m.Verts) == 0 {
		return
	}
	bmin, bmax = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		for k := 0; k < 3; k++ {
			bmin[k] = min(bmin[k], v[k])
			bmax[k] = max(bmax[k], v[k])
		}
	}
	return bmin, bmax
}

// AverageEdgeLength is the mean length of all triangle edges, counting shared edges twice.
func (m *Mesh) AverageEdgeLength() float32 {
	if len(m.Tris) == 0 {
		return 0
	}
	var sum float64
	for i := range m.Tris {
		a, b, c := m.TriangleVerts(int32(i))
		sum += float64(common.Vdist(a, b) + common.Vdist(b, c) + common.Vdist(c, a))
	}
	return float32(sum / float64(3*len(m.Tris)))
}

func (m *Mesh) markStale() {
	m.bvhStale = true
	m.heatStale = true
}

// BVHStale reports whether an edit happened since the last BuildBVH.
func (m *Mesh) BVHStale() bool { return m.bvhStale }

// HeatmapStale reports whether an edit happened since the last ComputeHeatmap.
func (m *Mesh) HeatmapStale() bool { return m.heatStale }
