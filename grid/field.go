package grid

import (
	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

// BFS finds the path with the fewest moves, ignoring move costs.
type BFS struct {
	base
	parent  []int32
	visited []uint32
	gen     uint32
	queue   []int32
}

func NewBFS(side int, opts ...Option) *BFS {
	b := &BFS{base: newBase(side, opts)}
	b.parent = make([]int32, b.side*b.side)
	b.visited = make([]uint32, b.side*b.side)
	return b
}

func (b *BFS) nextGen() {
	b.gen++
	if b.gen == 0 {
		clear(b.visited)
		b.gen = 1
	}
}

// ComputePath implements Planner. The heuristic is not used.
func (b *BFS) ComputePath(start, goal Cell, out *[]Cell) common.Status {
	return copyPath(out, b.Search(start, goal))
}

func (b *BFS) Search(start, goal Cell) Result {
	if r, ok := b.validate(start, goal); !ok {
		return r
	}
	b.nextGen()
	si, gi := b.index(start), b.index(goal)
	b.visited[si] = b.gen
	b.parent[si] = -1
	b.queue = append(b.queue[:0], si)
	expanded := 0
	for head := 0; head < len(b.queue); head++ {
		cur := b.queue[head]
		expanded++
		if cur == gi {
			var path []Cell
			for i := gi; i != -1; i = b.parent[i] {
				path = append(path, b.cell(i))
			}
			common.Reverse(path)
			return Result{Path: path, Status: common.StatusSuccess, Expanded: expanded}
		}
		cc := b.cell(cur)
		for _, d := range b.dirs() {
			nc := Cell{cc.X + d.X, cc.Y + d.Y}
			if !b.canStep(cc, nc) {
				continue
			}
			ni := b.index(nc)
			if b.visited[ni] == b.gen {
				continue
			}
			b.visited[ni] = b.gen
			b.parent[ni] = cur
			b.queue = append(b.queue, ni)
		}
	}
	return Result{Status: common.StatusFailure | common.StatusUnreachable, Expanded: expanded}
}

// Field is a cost-to-goal value per cell, integrated backward from a goal. Paths are
// read from it by steepest descent, so one field serves any number of starts.
type Field struct {
	base
	weighted bool
	values   []float32
	open     *common.NodeQueue
	heapIdx  []int32
	queue    []int32

	goal    Cell
	valid   bool
	version uint32
}

// NewFlowField integrates move costs with Dijkstra from the goal.
func NewFlowField(side int, opts ...Option) *Field {
	return newField(side, true, opts)
}

// NewDistanceField counts moves to the goal with a breadth-first search.
func NewDistanceField(side int, opts ...Option) *Field {
	return newField(side, false, opts)
}

func newField(side int, weighted bool, opts []Option) *Field {
	f := &Field{base: newBase(side, opts), weighted: weighted}
	n := f.side * f.side
	f.values = make([]float32, n)
	f.heapIdx = make([]int32, n)
	f.open = common.NewNodeQueue(
		func(a, b int32) bool { return f.values[a] < f.values[b] },
		func(h, i int32) { f.heapIdx[h] = i },
	)
	return f
}

// Invalidate forces the next query to rebuild the field, for worlds whose predicates
// read mutable state.
func (f *Field) Invalidate() { f.valid = false }

// Value returns the field value at c, common.Inf when unreachable or out of range.
func (f *Field) Value(c Cell) float32 {
	if !f.valid || !f.inBounds(c) {
		return common.Inf
	}
	return f.values[f.index(c)]
}

func (f *Field) stepCost(from, to Cell) float32 {
	if f.weighted {
		return f.edgeCost(from, to)
	}
	return 1
}

// Build integrates the field toward goal.
func (f *Field) Build(goal Cell) bool {
	if !f.inBounds(goal) {
		return false
	}
	for i := range f.values {
		f.values[i] = common.Inf
		f.heapIdx[i] = -1
	}
	gi := f.index(goal)
	f.values[gi] = 0
	if f.weighted {
		f.integrateDijkstra(gi)
	} else {
		f.integrateBFS(gi)
	}
	f.goal = goal
	f.valid = true
	f.version = f.base.version
	f.log.Debug("grid field built", zap.Stringer("goal", goal), zap.Bool("weighted", f.weighted))
	return true
}

func (f *Field) integrateDijkstra(gi int32) {
	f.open.Reset()
	f.open.Offer(gi)
	for !f.open.Empty() {
		u := f.open.Poll()
		uc := f.cell(u)
		for _, d := range f.dirs() {
			pc := Cell{uc.X - d.X, uc.Y - d.Y}
			if !f.inBounds(pc) || !f.canStep(pc, uc) {
				continue
			}
			pi := f.index(pc)
			v := f.values[u] + f.stepCost(pc, uc)
			if v >= f.values[pi] {
				continue
			}
			f.values[pi] = v
			if f.heapIdx[pi] >= 0 {
				f.open.Update(f.heapIdx[pi])
			} else {
				f.open.Offer(pi)
			}
		}
	}
}

func (f *Field) integrateBFS(gi int32) {
	f.queue = append(f.queue[:0], gi)
	for head := 0; head < len(f.queue); head++ {
		u := f.queue[head]
		uc := f.cell(u)
		for _, d := range f.dirs() {
			pc := Cell{uc.X - d.X, uc.Y - d.Y}
			if !f.inBounds(pc) || !f.canStep(pc, uc) {
				continue
			}
			pi := f.index(pc)
			if !common.IsInf(f.values[pi]) {
				continue
			}
			f.values[pi] = f.values[u] + 1
			f.queue = append(f.queue, pi)
		}
	}
}

// ComputePath implements Planner. The field is rebuilt only when the goal or a
// predicate changed. The heuristic is not used.
func (f *Field) ComputePath(start, goal Cell, out *[]Cell) common.Status {
	return copyPath(out, f.Descend(start, goal))
}

func (f *Field) Descend(start, goal Cell) Result {
	if r, ok := f.validate(start, goal); !ok {
		return r
	}
	if !f.valid || f.goal != goal || f.version != f.base.version {
		f.Build(goal)
	}
	if common.IsInf(f.values[f.index(start)]) {
		return Result{Status: common.StatusFailure | common.StatusUnreachable}
	}
	path := []Cell{start}
	cur := start
	for cur != goal {
		curV := f.values[f.index(cur)]
		best, bestCost := Cell{}, common.Inf
		for _, d := range f.dirs() {
			nc := Cell{cur.X + d.X, cur.Y + d.Y}
			if !f.canStep(cur, nc) {
				continue
			}
			v := f.values[f.index(nc)]
			if v >= curV {
				continue
			}
			if c := f.stepCost(cur, nc) + v; c < bestCost {
				best, bestCost = nc, c
			}
		}
		if common.IsInf(bestCost) || len(path) > len(f.values) {
			return Result{Path: path, Status: common.StatusSuccess | common.StatusPartialResult}
		}
		cur = best
		path = append(path, cur)
	}
	return Result{Path: path, Status: common.StatusSuccess}
}
