package grid

import (
	"fmt"
	"strings"

	"github.com/gorustyt/navcore/common"
)

// Planner is the capability shared by every grid planner.
type Planner interface {
	ComputePath(start, goal Cell, out *[]Cell) common.Status
	SetHeuristic(fn HeuristicFunc)
}

type Algorithm int

const (
	Dijkstra Algorithm = iota
	AStarAlgorithm
	DStarLiteAlgorithm
	BFSAlgorithm
	FlowFieldAlgorithm
	DistanceFieldAlgorithm
)

var algorithmNames = map[Algorithm]string{
	Dijkstra:               "dijkstra",
	AStarAlgorithm:         "astar",
	DStarLiteAlgorithm:     "dstarlite",
	BFSAlgorithm:           "bfs",
	FlowFieldAlgorithm:     "flowfield",
	DistanceFieldAlgorithm: "distancefield",
}

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ReplaceAll(strings.ToLower(s), "-", "")
	name = strings.ReplaceAll(name, "_", "")
	for a, n := range algorithmNames {
		if n == name {
			return a, nil
		}
	}
	switch name {
	case "a*":
		return AStarAlgorithm, nil
	case "d*lite":
		return DStarLiteAlgorithm, nil
	}
	return 0, fmt.Errorf("grid: unknown algorithm %q", s)
}

// NewPlanner returns a planner for alg over a side x side grid.
func NewPlanner(alg Algorithm, side int, opts ...Option) (Planner, error) {
	if side <= 0 {
		return nil, fmt.Errorf("grid: side must be positive, got %d", side)
	}
	switch alg {
	case Dijkstra:
		return NewAStar(side, append(opts, WithHeuristic(ZeroHeuristic))...), nil
	case AStarAlgorithm:
		return NewAStar(side, opts...), nil
	case DStarLiteAlgorithm:
		return NewDStarLite(side, opts...), nil
	case BFSAlgorithm:
		return NewBFS(side, opts...), nil
	case FlowFieldAlgorithm:
		return NewFlowField(side, opts...), nil
	case DistanceFieldAlgorithm:
		return NewDistanceField(side, opts...), nil
	}
	return nil, fmt.Errorf("grid: unsupported algorithm %v", alg)
}
