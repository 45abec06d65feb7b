package grid

import (
	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

type dstarNode struct {
	g, rhs    float32
	k1, k2    float32
	gen       uint32
	heapIndex int32
}

// DStarLite plans from a moving start toward a fixed goal and repairs its solution
// locally when the start moves or cell costs change. Costs are propagated backward
// from the goal; g is the best known cost-to-goal and rhs its one-step lookahead.
type DStarLite struct {
	base
	nodes []dstarNode
	open  *common.NodeQueue
	gen   uint32

	start, goal, last Cell
	km                float32
	initialized       bool
	initVersion       uint32
	converged         bool
	lastExpanded      int
}

func NewDStarLite(side int, opts ...Option) *DStarLite {
	d := &DStarLite{base: newBase(side, opts)}
	d.nodes = make([]dstarNode, d.side*d.side)
	for i := range d.nodes {
		d.nodes[i].heapIndex = -1
	}
	d.open = common.NewNodeQueue(d.less, func(h, i int32) { d.nodes[h].heapIndex = i })
	return d
}

func keyLess(a1, a2, b1, b2 float32) bool {
	return a1 < b1 || (a1 == b1 && a2 < b2)
}

func (d *DStarLite) less(x, y int32) bool {
	nx, ny := &d.nodes[x], &d.nodes[y]
	return keyLess(nx.k1, nx.k2, ny.k1, ny.k2)
}

// node returns the state of i for the current generation, lazily resetting it.
func (d *DStarLite) node(i int32) *dstarNode {
	n := &d.nodes[i]
	if n.gen != d.gen {
		n.gen = d.gen
		n.g = common.Inf
		n.rhs = common.Inf
		n.heapIndex = -1
	}
	return n
}

func (d *DStarLite) calcKey(i int32) (float32, float32) {
	n := d.node(i)
	m := min(n.g, n.rhs)
	return m + d.consistentHeuristic(d.start, d.cell(i)) + d.km, m
}

// Initialize discards all prior state and seeds the goal.
func (d *DStarLite) Initialize(start, goal Cell) bool {
	if !d.inBounds(start) || !d.inBounds(goal) {
		return false
	}
	d.gen++
	if d.gen == 0 {
		for i := range d.nodes {
			d.nodes[i].gen = 0
		}
		d.gen = 1
	}
	d.open.Reset()
	d.start, d.last, d.goal = start, start, goal
	d.km = 0
	d.converged = false
	d.initialized = true
	d.initVersion = d.version

	gi := d.index(goal)
	gn := d.node(gi)
	gn.rhs = 0
	gn.k1, gn.k2 = d.calcKey(gi)
	d.open.Offer(gi)
	return true
}

// RecalculateNode moves the start. Queued keys stay valid because km grows by the
// distance travelled.
func (d *DStarLite) RecalculateNode(newStart Cell) {
	if !d.initialized || !d.inBounds(newStart) {
		return
	}
	d.km += d.consistentHeuristic(d.last, newStart)
	d.last = newStart
	d.start = newStart
	d.updateVertex(d.index(newStart))
}

// UpdateCell notifies a cost change at c, for example a cell turning solid. The cell
// and its neighbours are re-evaluated; the next ComputeShortestPath repairs the rest.
func (d *DStarLite) UpdateCell(c Cell) {
	if !d.initialized || !d.inBounds(c) {
		return
	}
	d.updateVertex(d.index(c))
	for _, dir := range dirs8 {
		nc := Cell{c.X + dir.X, c.Y + dir.Y}
		if d.inBounds(nc) {
			d.updateVertex(d.index(nc))
		}
	}
	d.converged = false
}

func (d *DStarLite) updateVertex(u int32) {
	n := d.node(u)
	uc := d.cell(u)
	if uc != d.goal {
		rhs := common.Inf
		for _, dir := range d.dirs() {
			sc := Cell{uc.X + dir.X, uc.Y + dir.Y}
			if !d.canStep(uc, sc) {
				continue
			}
			if v := d.edgeCost(uc, sc) + d.node(d.index(sc)).g; v < rhs {
				rhs = v
			}
		}
		n.rhs = rhs
	}
	inOpen := n.heapIndex >= 0
	switch {
	case n.g != n.rhs:
		n.k1, n.k2 = d.calcKey(u)
		if inOpen {
			d.open.Update(n.heapIndex)
		} else {
			d.open.Offer(u)
		}
	case inOpen:
		d.open.Remove(n.heapIndex)
	}
}

func (d *DStarLite) updatePredecessors(u int32) {
	uc := d.cell(u)
	for _, dir := range d.dirs() {
		pc := Cell{uc.X - dir.X, uc.Y - dir.Y}
		if d.inBounds(pc) && d.canStep(pc, uc) {
			d.updateVertex(d.index(pc))
		}
	}
}

// ComputeShortestPath expands until the start is locally consistent or the iteration
// cap is hit. It reports the number of expansions and whether it converged.
func (d *DStarLite) ComputeShortestPath() (int, bool) {
	if !d.initialized {
		return 0, false
	}
	si := d.index(d.start)
	expanded := 0
	d.converged = false
	for {
		if d.open.Empty() {
			d.converged = true
			break
		}
		u := d.open.Peek()
		un := d.node(u)
		sk1, sk2 := d.calcKey(si)
		sn := d.node(si)
		if !keyLess(un.k1, un.k2, sk1, sk2) && sn.rhs == sn.g {
			d.converged = true
			break
		}
		if d.opts.maxIterations > 0 && expanded >= d.opts.maxIterations {
			break
		}
		expanded++
		k1, k2 := d.calcKey(u)
		switch {
		case keyLess(un.k1, un.k2, k1, k2):
			un.k1, un.k2 = k1, k2
			d.open.Update(un.heapIndex)
		case un.g > un.rhs:
			un.g = un.rhs
			d.open.Remove(un.heapIndex)
			d.updatePredecessors(u)
		default:
			un.g = common.Inf
			d.updateVertex(u)
			d.updatePredecessors(u)
		}
	}
	d.lastExpanded = expanded
	if !d.converged {
		d.log.Debug("dstar iteration cap reached",
			zap.Stringer("start", d.start), zap.Stringer("goal", d.goal), zap.Int("expanded", expanded))
	}
	return expanded, d.converged
}

// LastExpanded reports the expansions of the most recent ComputeShortestPath.
func (d *DStarLite) LastExpanded() int { return d.lastExpanded }

// ExtractPath descends greedily from the start, stepping to the neighbour minimizing
// edge cost plus g.
func (d *DStarLite) ExtractPath() Result {
	if !d.initialized {
		return Result{Status: common.StatusFailure | common.StatusInvalidParam}
	}
	budget := common.Status(0)
	if !d.converged {
		budget = common.StatusBudgetExceeded
	}
	si := d.index(d.start)
	if d.start == d.goal {
		return Result{Path: []Cell{d.start}, Status: common.StatusSuccess, Expanded: d.lastExpanded}
	}
	if common.IsInf(d.node(si).g) && d.converged {
		return Result{Status: common.StatusFailure | common.StatusUnreachable, Expanded: d.lastExpanded}
	}
	path := []Cell{d.start}
	cur := d.start
	for cur != d.goal {
		best, bestCost := Cell{}, common.Inf
		for _, dir := range d.dirs() {
			nc := Cell{cur.X + dir.X, cur.Y + dir.Y}
			if !d.canStep(cur, nc) {
				continue
			}
			if v := d.edgeCost(cur, nc) + d.node(d.index(nc)).g; v < bestCost {
				best, bestCost = nc, v
			}
		}
		if common.IsInf(bestCost) || len(path) > len(d.nodes) {
			return Result{
				Path:     path,
				Status:   common.StatusSuccess | common.StatusPartialResult | budget,
				Expanded: d.lastExpanded,
			}
		}
		cur = best
		path = append(path, cur)
	}
	return Result{Path: path, Status: common.StatusSuccess | budget, Expanded: d.lastExpanded}
}

// ComputePath implements Planner. A new goal or changed predicate reinitializes the
// search; a moved start replans incrementally. One call runs at most one capped
// ComputeShortestPath.
func (d *DStarLite) ComputePath(start, goal Cell, out *[]Cell) common.Status {
	if r, ok := d.validate(start, goal); !ok {
		return copyPath(out, r)
	}
	switch {
	case !d.initialized || goal != d.goal || d.version != d.initVersion:
		d.Initialize(start, goal)
	case start != d.start:
		d.RecalculateNode(start)
	}
	d.ComputeShortestPath()
	return copyPath(out, d.ExtractPath())
}
