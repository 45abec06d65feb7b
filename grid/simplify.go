package grid

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyPath drops waypoints within tolerance cells of the line through their
// neighbours (Douglas-Peucker). Endpoints are always kept. A zero tolerance removes
// only collinear cells, which keeps every segment on the original path.
func SimplifyPath(path []Cell, tolerance float64) []Cell {
	if len(path) < 3 {
		return append([]Cell(nil), path...)
	}
	ls := make(orb.LineString, len(path))
	for i, c := range path {
		ls[i] = orb.Point{float64(c.X), float64(c.Y)}
	}
	simplified, ok := simplify.DouglasPeucker(tolerance).Simplify(ls).(orb.LineString)
	if !ok {
		return append([]Cell(nil), path...)
	}
	out := make([]Cell, len(simplified))
	for i, p := range simplified {
		out[i] = Cell{int(p[0]), int(p[1])}
	}
	return out
}
