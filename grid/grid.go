// Package grid implements planners over a dense square grid: A*, D* Lite and the
// uninformed field planners, all behind the Planner interface.
package grid

import (
	"fmt"
	"math"
	"strings"

	"github.com/gorustyt/navcore/common"
	"github.com/gorustyt/navcore/common/logger"
	"go.uber.org/zap"
)

type Cell struct {
	X, Y int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

type Connectivity int

const (
	FourWay  Connectivity = 4
	EightWay Connectivity = 8
)

func ParseConnectivity(s string) (Connectivity, error) {
	switch strings.ToLower(s) {
	case "4", "four", "4-way":
		return FourWay, nil
	case "8", "eight", "8-way":
		return EightWay, nil
	}
	return 0, fmt.Errorf("grid: unknown connectivity %q", s)
}

// CostModel selects the edge cost and default heuristic of the weighted planners.
type CostModel int

const (
	// CostSquared uses squared euclidean distance for edges and heuristic. It pulls the
	// search hard toward the goal; paths are not guaranteed optimal.
	CostSquared CostModel = iota
	// CostEuclidean uses true distance and an admissible heuristic.
	CostEuclidean
)

func (m CostModel) String() string {
	if m == CostEuclidean {
		return "euclidean"
	}
	return "squared"
}

func ParseCostModel(s string) (CostModel, error) {
	switch strings.ToLower(s) {
	case "squared", "":
		return CostSquared, nil
	case "euclidean":
		return CostEuclidean, nil
	}
	return 0, fmt.Errorf("grid: unknown cost model %q", s)
}

type (
	IsSolidFunc         func(c Cell) bool
	CanMoveDiagonalFunc func(from, to Cell) bool
	HeuristicFunc       func(a, b Cell) float32
)

// NoCornerCutting allows a diagonal move only when both orthogonal cells it passes are open.
func NoCornerCutting(isSolid IsSolidFunc) CanMoveDiagonalFunc {
	return func(from, to Cell) bool {
		return !isSolid(Cell{to.X, from.Y}) && !isSolid(Cell{from.X, to.Y})
	}
}

// ZeroHeuristic turns A* into Dijkstra.
func ZeroHeuristic(a, b Cell) float32 { return 0 }

func SquaredDistance(a, b Cell) float32 {
	return float32(common.Sqr(a.X-b.X) + common.Sqr(a.Y-b.Y))
}

func EuclideanDistance(a, b Cell) float32 {
	return common.Sqrt(SquaredDistance(a, b))
}

func ManhattanDistance(a, b Cell) float32 {
	return float32(common.Abs(a.X-b.X) + common.Abs(a.Y-b.Y))
}

func OctileDistance(a, b Cell) float32 {
	dx := common.Abs(a.X - b.X)
	dy := common.Abs(a.Y - b.Y)
	return float32(max(dx, dy)-min(dx, dy)) + math.Sqrt2*float32(min(dx, dy))
}

type options struct {
	connectivity    Connectivity
	isSolid         IsSolidFunc
	canMoveDiagonal CanMoveDiagonalFunc
	heuristic       HeuristicFunc
	costModel       CostModel
	abortDistance   int
	maxIterations   int
	logger          *zap.Logger
}

type Option func(*options)

func defaultOptions() options {
	return options{
		connectivity:  EightWay,
		costModel:     CostSquared,
		abortDistance: 32,
		maxIterations: 20,
	}
}

func WithConnectivity(c Connectivity) Option {
	return func(o *options) { o.connectivity = c }
}

func WithIsSolid(fn IsSolidFunc) Option {
	return func(o *options) { o.isSolid = fn }
}

// WithCanMoveDiagonal overrides the corner-cutting policy. The default is NoCornerCutting.
func WithCanMoveDiagonal(fn CanMoveDiagonalFunc) Option {
	return func(o *options) { o.canMoveDiagonal = fn }
}

func WithHeuristic(fn HeuristicFunc) Option {
	return func(o *options) { o.heuristic = fn }
}

func WithCostModel(m CostModel) Option {
	return func(o *options) { o.costModel = m }
}

// WithAbortDistance bounds A*: a search stops once it pops a cell farther than d from
// the start. Zero disables the bound.
func WithAbortDistance(d int) Option {
	return func(o *options) { o.abortDistance = d }
}

// WithMaxIterations caps the expansions of one D* Lite ComputeShortestPath call. Zero
// means unbounded.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Result of a grid query. Path runs from start to goal, or to the best cell reached
// when Status carries StatusPartialResult.
type Result struct {
	Path     []Cell
	Status   common.Status
	Expanded int
}

func (r Result) Outcome() common.Outcome { return r.Status.Outcome() }

var (
	dirs4 = []Cell{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	dirs8 = []Cell{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// base holds what every grid planner shares: bounds, predicates and the cost model.
type base struct {
	side    int
	opts    options
	log     *zap.Logger
	version uint32 // bumped when a predicate changes
}

func newBase(side int, opts []Option) base {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if side < 0 {
		side = 0
	}
	return base{side: side, opts: o, log: logger.OrNop(o.logger)}
}

func (b *base) Side() int { return b.side }

func (b *base) SetIsSolid(fn IsSolidFunc) {
	b.opts.isSolid = fn
	b.version++
}

func (b *base) SetCanMoveDiagonal(fn CanMoveDiagonalFunc) {
	b.opts.canMoveDiagonal = fn
	b.version++
}

// SetHeuristic replaces the heuristic; nil restores the cost model's default.
func (b *base) SetHeuristic(fn HeuristicFunc) {
	b.opts.heuristic = fn
}

func (b *base) inBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.side && c.Y < b.side
}

func (b *base) index(c Cell) int32 { return int32(c.Y*b.side + c.X) }

func (b *base) cell(i int32) Cell {
	return Cell{int(i) % b.side, int(i) / b.side}
}

func (b *base) solid(c Cell) bool {
	if !b.inBounds(c) {
		return true
	}
	return b.opts.isSolid != nil && b.opts.isSolid(c)
}

func (b *base) dirs() []Cell {
	if b.opts.connectivity == FourWay {
		return dirs4
	}
	return dirs8
}

// canStep reports whether an agent may move from one cell to an adjacent one.
func (b *base) canStep(from, to Cell) bool {
	if b.solid(to) {
		return false
	}
	if from.X == to.X || from.Y == to.Y {
		return true
	}
	if b.opts.canMoveDiagonal != nil {
		return b.opts.canMoveDiagonal(from, to)
	}
	return !b.solid(Cell{to.X, from.Y}) && !b.solid(Cell{from.X, to.Y})
}

func (b *base) edgeCost(from, to Cell) float32 {
	if b.opts.costModel == CostEuclidean {
		return EuclideanDistance(from, to)
	}
	return SquaredDistance(from, to)
}

func (b *base) heuristic(a, c Cell) float32 {
	if b.opts.heuristic != nil {
		return b.opts.heuristic(a, c)
	}
	if b.opts.costModel == CostEuclidean {
		return EuclideanDistance(a, c)
	}
	return SquaredDistance(a, c)
}

// consistentHeuristic never overestimates the cost of a move sequence under the active
// cost model. With squared costs a diagonal costs two orthogonal moves.
func (b *base) consistentHeuristic(a, c Cell) float32 {
	if b.opts.heuristic != nil {
		return b.opts.heuristic(a, c)
	}
	if b.opts.costModel == CostEuclidean && b.opts.connectivity == EightWay {
		return OctileDistance(a, c)
	}
	return ManhattanDistance(a, c)
}

func (b *base) validate(start, goal Cell) (Result, bool) {
	if !b.inBounds(start) || !b.inBounds(goal) {
		b.log.Debug("grid query out of range",
			zap.Stringer("start", start), zap.Stringer("goal", goal), zap.Int("side", b.side))
		return Result{Status: common.StatusFailure | common.StatusInvalidParam}, false
	}
	if start == goal {
		return Result{Path: []Cell{start}, Status: common.StatusSuccess}, false
	}
	if b.solid(goal) {
		return Result{Status: common.StatusFailure | common.StatusUnreachable}, false
	}
	return Result{}, true
}

func copyPath(out *[]Cell, r Result) common.Status {
	if out != nil {
		*out = append((*out)[:0], r.Path...)
	}
	return r.Status
}
