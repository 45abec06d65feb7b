// Package navquery finds paths over a navmesh.Mesh: A* across triangles produces a
// corridor, which is then string-pulled, pruned by line of sight, resampled and
// snapped to the terrain.
package navquery

import (
	"context"

	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/common/logger"
	"github.com/gorustyt/navcore/navmesh"
	"go.uber.org/zap"
)

type node struct {
	pos       common.Vec3 // where the path enters the triangle
	parent    int32
	g, h, f   float32
	openGen   uint32
	closedGen uint32
	heapIndex int32
}

type options struct {
	resampleSpacing float32
	losStepFactor   float32
	logger          *zap.Logger
}

type Option func(*options)

// WithResampleSpacing sets the largest gap between resampled points. Zero disables
// resampling.
func WithResampleSpacing(d float32) Option {
	return func(o *options) { o.resampleSpacing = d }
}

// WithLineOfSightStep sets the visibility sampling step as a fraction of the mesh's
// average edge length.
func WithLineOfSightStep(factor float32) Option {
	return func(o *options) { o.losStepFactor = factor }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Result of a mesh query. Path holds surface points from start to goal, Corridor the
// triangles crossed.
type Result struct {
	Path     []common.Vec3
	Corridor []int32
	Status   common.Status
}

func (r Result) Outcome() common.Outcome { return r.Status.Outcome() }

// Query plans over one mesh. It keeps a node per triangle between calls and is not
// safe for concurrent use; run one Query per goroutine.
type Query struct {
	mesh  *navmesh.Mesh
	opts  options
	log   *zap.Logger
	nodes []node
	open  *common.NodeQueue
	gen   uint32

	losStep float32
}

func NewQuery(mesh *navmesh.Mesh, opts ...Option) *Query {
	o := options{resampleSpacing: 1, losStepFactor: 0.25}
	for _, fn := range opts {
		fn(&o)
	}
	q := &Query{mesh: mesh, opts: o, log: logger.OrNop(o.logger)}
	q.open = common.NewNodeQueue(q.less, func(h, i int32) { q.nodes[h].heapIndex = i })
	q.Sync()
	return q
}

// Sync resizes the node array and recomputes the sampling step after mesh edits.
func (q *Query) Sync() {
	n := q.mesh.TriangleCount()
	if cap(q.nodes) < n {
		q.nodes = make([]node, n)
		q.gen = 0
	} else {
		q.nodes = q.nodes[:n]
	}
	for i := range q.nodes {
		q.nodes[i].heapIndex = -1
	}
	q.open.Reset()
	q.losStep = q.mesh.AverageEdgeLength() * q.opts.losStepFactor
	if q.losStep <= 0 {
		q.losStep = 0.1
	}
}

func (q *Query) less(a, b int32) bool {
	na, nb := &q.nodes[a], &q.nodes[b]
	if na.f != nb.f {
		return na.f < nb.f
	}
	return na.h < nb.h
}

func (q *Query) nextGen() {
	if len(q.nodes) != q.mesh.TriangleCount() {
		q.Sync()
	}
	q.gen++
	if q.gen == 0 {
		for i := range q.nodes {
			q.nodes[i].openGen = 0
			q.nodes[i].closedGen = 0
		}
		q.gen = 1
	}
	q.open.Reset()
}

// resolve maps start and goal onto triangles. An off-mesh start snaps to the nearest
// triangle; an off-mesh goal fails.
func (q *Query) resolve(start, goal common.Vec3) (si, gi int32, s, g common.Vec3, ok bool) {
	s, g = start, goal
	si, found := q.mesh.FindTriangle(start)
	if found {
		s = q.snap(si, start)
	} else if si, s, found = q.mesh.NearestTriangle(start); !found {
		q.log.Debug("navquery start unresolved", zap.Any("start", start))
		return -1, -1, s, g, false
	}
	gi, found = q.mesh.FindTriangle(goal)
	if !found {
		q.log.Debug("navquery goal off mesh", zap.Any("goal", goal))
		return -1, -1, s, g, false
	}
	return si, gi, s, q.snap(gi, goal), true
}

func (q *Query) snap(tri int32, p common.Vec3) common.Vec3 {
	a, b, c := q.mesh.TriangleVerts(tri)
	if h, ok := common.PlaneHeight(p, a, b, c); ok {
		p[1] = h
	}
	return p
}

// crossing returns where the line from -> goal crosses edge pq, clamped onto the edge.
func crossing(from, goal, p, q common.Vec3) common.Vec3 {
	_, t, ok := common.IntersectSegSeg2D(from, goal, p, q)
	if !ok {
		return common.Vlerp(p, q, 0.5)
	}
	return common.Vlerp(p, q, common.Clamp(t, 0, 1))
}

func (q *Query) FindCorridor(start, goal common.Vec3) Result {
	return q.FindCorridorContext(context.Background(), start, goal)
}

// FindCorridorContext runs A* over triangle adjacency. Result.Path holds the taut
// routing points: start, one crossing per shared edge, goal.
func (q *Query) FindCorridorContext(ctx context.Context, start, goal common.Vec3) Result {
	si, gi, s, g, ok := q.resolve(start, goal)
	if !ok {
		return Result{Status: common.StatusFailure | common.StatusInvalidParam}
	}
	if si == gi {
		path := []common.Vec3{s}
		if !common.Vequal(s, g) {
			path = append(path, g)
		}
		return Result{Path: path, Corridor: []int32{si}, Status: common.StatusSuccess}
	}
	q.nextGen()
	sn := &q.nodes[si]
	sn.pos = s
	sn.parent = -1
	sn.g = 0
	sn.h = common.Vdist(s, g)
	sn.f = sn.h
	sn.openGen = q.gen
	q.open.Offer(si)

	expanded := 0
	for !q.open.Empty() {
		if err := ctx.Err(); err != nil {
			return Result{Status: common.StatusFailure | common.StatusCanceled}
		}
		cur := q.open.Poll()
		n := &q.nodes[cur]
		n.closedGen = q.gen
		expanded++
		if cur == gi {
			return q.reconstruct(gi, s, g, expanded)
		}
		for _, nb := range q.mesh.Neighbors(cur) {
			if nb < 0 {
				continue
			}
			nn := &q.nodes[nb]
			if nn.closedGen == q.gen {
				continue
			}
			ep, eq, ok := q.mesh.SharedEdge(cur, nb)
			if !ok {
				continue
			}
			pos := crossing(n.pos, g, ep, eq)
			cost := n.g + common.Vdist(n.pos, pos)
			h := common.Vdist(pos, g)
			if nb == gi {
				cost += h
				h = 0
			}
			if nn.openGen != q.gen {
				nn.pos = pos
				nn.parent = cur
				nn.g = cost
				nn.h = h
				nn.f = cost + h
				nn.openGen = q.gen
				q.open.Offer(nb)
			} else if cost < nn.g {
				nn.pos = pos
				nn.parent = cur
				nn.g = cost
				nn.h = h
				nn.f = cost + h
				q.open.Update(nn.heapIndex)
			}
		}
	}
	q.log.Debug("navquery goal unreachable", zap.Int32("start", si), zap.Int32("goal", gi),
		zap.Int("expanded", expanded))
	return Result{Status: common.StatusFailure | common.StatusUnreachable}
}

func (q *Query) reconstruct(gi int32, s, g common.Vec3, expanded int) Result {
	var corridor []int32
	var path []common.Vec3
	for i := gi; i != -1; i = q.nodes[i].parent {
		corridor = append(corridor, i)
		path = append(path, q.nodes[i].pos)
	}
	common.Reverse(corridor)
	common.Reverse(path)
	path[0] = s
	path = append(path, g)
	q.log.Debug("navquery corridor found", zap.Int("triangles", len(corridor)), zap.Int("expanded", expanded))
	return Result{Path: path, Corridor: corridor, Status: common.StatusSuccess}
}

func (q *Query) FindPath(start, goal common.Vec3) Result {
	return q.FindPathContext(context.Background(), start, goal)
}

// FindPathContext runs the full pipeline: corridor search, funnel, prune, resample and
// height snap.
func (q *Query) FindPathContext(ctx context.Context, start, goal common.Vec3) Result {
	if common.Vequal(start, goal) {
		if si, _, s, _, ok := q.resolve(start, goal); ok {
			return Result{Path: []common.Vec3{s}, Corridor: []int32{si}, Status: common.StatusSuccess}
		}
	}
	r := q.FindCorridorContext(ctx, start, goal)
	if !r.Status.Succeeded() {
		return r
	}
	s, g := r.Path[0], r.Path[len(r.Path)-1]
	path := q.Funnel(s, g, r.Corridor)
	path = q.Prune(path)
	path = q.Resample(path)
	path = q.SnapHeights(path)
	return Result{Path: path, Corridor: r.Corridor, Status: r.Status}
}
