package grid

import (
	"context"

	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

type astarNode struct {
	parent    int32
	g, h, f   float32
	openGen   uint32
	closedGen uint32
	heapIndex int32
}

// AStar searches a square grid. An instance keeps its node array between queries and
// is not safe for concurrent use.
type AStar struct {
	base
	nodes []astarNode
	open  *common.NodeQueue
	gen   uint32
}

func NewAStar(side int, opts ...Option) *AStar {
	a := &AStar{base: newBase(side, opts)}
	a.nodes = make([]astarNode, a.side*a.side)
	for i := range a.nodes {
		a.nodes[i].heapIndex = -1
	}
	a.open = common.NewNodeQueue(a.less, a.setHeapIndex)
	return a
}

func (a *AStar) less(x, y int32) bool {
	nx, ny := &a.nodes[x], &a.nodes[y]
	if nx.f != ny.f {
		return nx.f < ny.f
	}
	return nx.h < ny.h
}

func (a *AStar) setHeapIndex(h, i int32) { a.nodes[h].heapIndex = i }

// nextGen starts a new search. Tags from earlier searches become stale; on counter
// wrap-around they are cleared once.
func (a *AStar) nextGen() {
	a.gen++
	if a.gen == 0 {
		for i := range a.nodes {
			a.nodes[i].openGen = 0
			a.nodes[i].closedGen = 0
		}
		a.gen = 1
	}
}

// ComputePath implements Planner.
func (a *AStar) ComputePath(start, goal Cell, out *[]Cell) common.Status {
	return copyPath(out, a.ComputeAStar(start, goal))
}

func (a *AStar) ComputeAStar(start, goal Cell) Result {
	return a.ComputeAStarContext(context.Background(), start, goal)
}

// ComputeAStarContext is ComputeAStar with cancellation checked once per expansion.
func (a *AStar) ComputeAStarContext(ctx context.Context, start, goal Cell) Result {
	if r, ok := a.validate(start, goal); !ok {
		return r
	}
	a.nextGen()
	a.open.Reset()

	si, gi := a.index(start), a.index(goal)
	sn := &a.nodes[si]
	sn.parent = -1
	sn.g = 0
	sn.h = a.heuristic(start, goal)
	sn.f = sn.h
	sn.openGen = a.gen
	a.open.Offer(si)

	best, bestDist := si, SquaredDistance(start, goal)
	limit := common.Sqr(a.opts.abortDistance)
	expanded := 0
	for !a.open.Empty() {
		if err := ctx.Err(); err != nil {
			a.log.Debug("astar canceled", zap.Int("expanded", expanded), zap.Error(err))
			return Result{Status: common.StatusFailure | common.StatusCanceled, Expanded: expanded}
		}
		cur := a.open.Poll()
		n := &a.nodes[cur]
		n.closedGen = a.gen
		expanded++
		if cur == gi {
			return Result{Path: a.reconstruct(gi), Status: common.StatusSuccess, Expanded: expanded}
		}
		cc := a.cell(cur)
		if d := SquaredDistance(cc, goal); d < bestDist {
			best, bestDist = cur, d
		}
		if limit > 0 && SquaredDistance(cc, start) > float32(limit) {
			a.log.Debug("astar abort distance reached",
				zap.Stringer("start", start), zap.Stringer("goal", goal),
				zap.Stringer("best", a.cell(best)), zap.Int("expanded", expanded))
			return Result{
				Path:     a.reconstruct(best),
				Status:   common.StatusSuccess | common.StatusPartialResult | common.StatusBudgetExceeded,
				Expanded: expanded,
			}
		}
		for _, d := range a.dirs() {
			nc := Cell{cc.X + d.X, cc.Y + d.Y}
			if !a.canStep(cc, nc) {
				continue
			}
			ni := a.index(nc)
			nn := &a.nodes[ni]
			if nn.closedGen == a.gen {
				continue
			}
			g := n.g + a.edgeCost(cc, nc)
			if nn.openGen != a.gen {
				nn.parent = cur
				nn.g = g
				nn.h = a.heuristic(nc, goal)
				nn.f = g + nn.h
				nn.openGen = a.gen
				a.open.Offer(ni)
			} else if g < nn.g {
				nn.parent = cur
				nn.g = g
				nn.f = g + nn.h
				a.open.Update(nn.heapIndex)
			}
		}
	}
	a.log.Debug("astar open set exhausted",
		zap.Stringer("start", start), zap.Stringer("goal", goal), zap.Int("expanded", expanded))
	return Result{Status: common.StatusFailure | common.StatusUnreachable, Expanded: expanded}
}

func (a *AStar) reconstruct(i int32) []Cell {
	var path []Cell
	for ; i != -1; i = a.nodes[i].parent {
		path = append(path, a.cell(i))
	}
	common.Reverse(path)
	return path
}
