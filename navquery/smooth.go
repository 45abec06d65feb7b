package navquery

import (
	"math"

	"github.com/gorustyt/navcore/common"
)

// HasLineOfSight samples the xz segment ab at a fixed step and requires every sample
// to lie on some triangle. It is conservative and approximate.
func (q *Query) HasLineOfSight(a, b common.Vec3) bool {
	d := common.Vdist2D(a, b)
	n := int(math.Ceil(float64(d / q.losStep)))
	for k := 0; k <= n; k++ {
		t := float32(0)
		if n > 0 {
			t = float32(k) / float32(n)
		}
		if _, ok := q.mesh.FindTriangle(common.Vlerp(a, b, t)); !ok {
			return false
		}
	}
	return true
}

// Prune drops waypoints: from each kept point it jumps to the farthest later point it
// can see. Pruning a pruned path changes nothing.
func (q *Query) Prune(path []common.Vec3) []common.Vec3 {
	if len(path) < 3 {
		return append([]common.Vec3(nil), path...)
	}
	out := []common.Vec3{path[0]}
	for i := 0; i < len(path)-1; {
		j := len(path) - 1
		for j > i+1 && !q.HasLineOfSight(path[i], path[j]) {
			j--
		}
		out = append(out, path[j])
		i = j
	}
	return out
}

// Resample inserts evenly spaced points on segments longer than the resample spacing.
func (q *Query) Resample(path []common.Vec3) []common.Vec3 {
	spacing := q.opts.resampleSpacing
	if spacing <= 0 || len(path) < 2 {
		return append([]common.Vec3(nil), path...)
	}
	out := []common.Vec3{path[0]}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if l := common.Vdist2D(a, b); l > spacing {
			steps := int(math.Ceil(float64(l / spacing)))
			for k := 1; k < steps; k++ {
				out = append(out, common.Vlerp(a, b, float32(k)/float32(steps)))
			}
		}
		out = append(out, b)
	}
	return out
}

// SnapHeights moves every point onto the plane of the triangle containing it. Points
// off the mesh keep their height.
func (q *Query) SnapHeights(path []common.Vec3) []common.Vec3 {
	out := make([]common.Vec3, len(path))
	for i, p := range path {
		if tri, ok := q.mesh.FindTriangle(p); ok {
			p = q.snap(tri, p)
		}
		out[i] = p
	}
	return out
}
