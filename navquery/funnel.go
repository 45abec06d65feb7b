package navquery

import (
	"github.com/gorustyt/navcore/common"
)

type portal struct {
	left, right common.Vec3
}

// portals returns the shared edges along corridor, oriented by the direction of travel,
// framed by degenerate start and goal portals.
func (q *Query) portals(start, goal common.Vec3, corridor []int32) []portal {
	out := make([]portal, 0, len(corridor)+1)
	out = append(out, portal{start, start})
	for k := 0; k+1 < len(corridor); k++ {
		p, r, ok := q.mesh.SharedEdge(corridor[k], corridor[k+1])
		if !ok {
			continue
		}
		mid := common.Vlerp(p, r, 0.5)
		// points left of the travel direction have negative area
		if common.TriArea2D(q.mesh.Centroid(corridor[k]), mid, p) < 0 {
			out = append(out, portal{left: p, right: r})
		} else {
			out = append(out, portal{left: r, right: p})
		}
	}
	return append(out, portal{goal, goal})
}

func appendPoint(path []common.Vec3, p common.Vec3) []common.Vec3 {
	if len(path) > 0 && common.Vequal(path[len(path)-1], p) {
		return path
	}
	return append(path, p)
}

// Funnel pulls the corridor taut: it keeps a funnel of left and right edges from the
// apex and emits a corner whenever one side would cross the other.
func (q *Query) Funnel(start, goal common.Vec3, corridor []int32) []common.Vec3 {
	portals := q.portals(start, goal, corridor)
	path := []common.Vec3{start}

	apex, left, right := start, start, start
	apexIndex, leftIndex, rightIndex := 0, 0, 0
	for i := 1; i < len(portals); i++ {
		pl, pr := portals[i].left, portals[i].right

		// Right vertex.
		if common.TriArea2D(apex, right, pr) <= 0 {
			if common.Vequal(apex, right) || common.TriArea2D(apex, left, pr) > 0 {
				right = pr
				rightIndex = i
			} else {
				// Right over left, left becomes the new apex.
				apex = left
				apexIndex = leftIndex
				path = appendPoint(path, apex)
				left, right = apex, apex
				leftIndex, rightIndex = apexIndex, apexIndex
				i = apexIndex
				continue
			}
		}

		// Left vertex.
		if common.TriArea2D(apex, left, pl) >= 0 {
			if common.Vequal(apex, left) || common.TriArea2D(apex, right, pl) < 0 {
				left = pl
				leftIndex = i
			} else {
				// Left over right, right becomes the new apex.
				apex = right
				apexIndex = rightIndex
				path = appendPoint(path, apex)
				left, right = apex, apex
				leftIndex, rightIndex = apexIndex, apexIndex
				i = apexIndex
				continue
			}
		}
	}
	return appendPoint(path, goal)
}
