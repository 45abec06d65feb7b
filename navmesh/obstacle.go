package navmesh

import (
	"github.com/dhconnelly/rtreego"
	"github.com/gorustyt/navcore/common"
	"go.uber.org/zap"
)

// Obstacle is a blocking volume used when carving the mesh. Bounds places it in the
// mesh's R-tree; BlocksTriangle makes the exact decision for a candidate triangle.
type Obstacle interface {
	rtreego.Spatial
	BlocksTriangle(a, b, c common.Vec3) bool
}

const rectPad = 1e-4

// boundsRect converts a box to an R-tree rect. rtreego rejects zero extents, so flat
// boxes are padded.
func boundsRect(bmin, bmax common.Vec3) rtreego.Rect {
	p := rtreego.Point{float64(bmin[0]), float64(bmin[1]), float64(bmin[2])}
	lengths := []float64{
		max(float64(bmax[0]-bmin[0]), rectPad),
		max(float64(bmax[1]-bmin[1]), rectPad),
		max(float64(bmax[2]-bmin[2]), rectPad),
	}
	r, err := rtreego.NewRect(p, lengths)
	if err != nil {
		return rtreego.Point{0, 0, 0}.ToRect(rectPad)
	}
	return r
}

type AABBObstacle struct {
	Min, Max common.Vec3
}

func (o *AABBObstacle) Bounds() rtreego.Rect { return boundsRect(o.Min, o.Max) }

func (o *AABBObstacle) BlocksTriangle(a, b, c common.Vec3) bool {
	return IsTriangleBlockedByAABB3D(a, b, c, o.Min, o.Max)
}

// CylinderObstacle is an upright cylinder standing on Base.
type CylinderObstacle struct {
	Base   common.Vec3
	Radius float32
	Height float32
}

func (o *CylinderObstacle) Bounds() rtreego.Rect {
	return boundsRect(
		common.Vec3{o.Base[0] - o.Radius, o.Base[1], o.Base[2] - o.Radius},
		common.Vec3{o.Base[0] + o.Radius, o.Base[1] + o.Height, o.Base[2] + o.Radius},
	)
}

func (o *CylinderObstacle) BlocksTriangle(a, b, c common.Vec3) bool {
	return IsTriangleBlockedByCylinder3D(a, b, c, o.Base, o.Radius, o.Height)
}

func yOverlap(a, b, c common.Vec3, ymin, ymax float32) bool {
	return min(a[1], b[1], c[1]) <= ymax && max(a[1], b[1], c[1]) >= ymin
}

// projectAxis returns the range of the projections of pts on axis (x, z).
func projectAxis(ax, az float32, pts ...common.Vec3) (lo, hi float32) {
	lo, hi = common.Inf, -common.Inf
	for _, p := range pts {
		d := p[0]*ax + p[2]*az
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

// IsTriangleBlockedByAABB3D reports whether triangle abc intersects the box: the
// vertical ranges overlap and the xz footprints intersect (separating axis test).
func IsTriangleBlockedByAABB3D(a, b, c, bmin, bmax common.Vec3) bool {
	if !yOverlap(a, b, c, bmin[1], bmax[1]) {
		return false
	}
	rect := [4]common.Vec3{
		{bmin[0], 0, bmin[2]},
		{bmax[0], 0, bmin[2]},
		{bmax[0], 0, bmax[2]},
		{bmin[0], 0, bmax[2]},
	}
	// box axes
	if max(a[0], b[0], c[0]) < bmin[0] || min(a[0], b[0], c[0]) > bmax[0] ||
		max(a[2], b[2], c[2]) < bmin[2] || min(a[2], b[2], c[2]) > bmax[2] {
		return false
	}
	// triangle edge normals
	tri := [3]common.Vec3{a, b, c}
	for i, j := 0, 2; i < 3; j, i = i, i+1 {
		ex := tri[i][0] - tri[j][0]
		ez := tri[i][2] - tri[j][2]
		nx, nz := -ez, ex
		tlo, thi := projectAxis(nx, nz, a, b, c)
		rlo, rhi := projectAxis(nx, nz, rect[:]...)
		if thi < rlo || rhi < tlo {
			return false
		}
	}
	return true
}

// IsTriangleBlockedByCylinder3D reports whether triangle abc intersects the upright
// cylinder standing on base.
func IsTriangleBlockedByCylinder3D(a, b, c, base common.Vec3, radius, height float32) bool {
	if !yOverlap(a, b, c, base[1], base[1]+height) {
		return false
	}
	if common.PointInTriangle2D(base, a, b, c) {
		return true
	}
	r2 := radius * radius
	for _, e := range [3][2]common.Vec3{{a, b}, {b, c}, {c, a}} {
		if _, d := common.DistancePtSegSqr2D(base, e[0], e[1]); d <= r2 {
			return true
		}
	}
	return false
}

// AddObstacle registers a blocking volume for the next CarveObstacles.
func (m *Mesh) AddObstacle(o Obstacle) {
	m.obstacles.Insert(o)
}

func (m *Mesh) RemoveObstacle(o Obstacle) bool {
	return m.obstacles.Delete(o)
}

func (m *Mesh) ObstacleCount() int { return m.obstacles.Size() }

// CarveObstacles removes every triangle blocked by a registered obstacle and returns
// the number removed. The BVH and heatmap are stale afterwards.
func (m *Mesh) CarveObstacles() int {
	if m.obstacles.Size() == 0 {
		return 0
	}
	var blocked []int32
	for i := range m.Tris {
		a, b, c := m.TriangleVerts(int32(i))
		tmin, tmax := common.TriangleBounds(a, b, c)
		for _, s := range m.obstacles.SearchIntersect(boundsRect(tmin, tmax)) {
			if s.(Obstacle).BlocksTriangle(a, b, c) {
				blocked = append(blocked, int32(i))
				break
			}
		}
	}
	removed := m.RemoveTriangles(blocked)
	m.log.Debug("navmesh obstacles carved",
		zap.Int("obstacles", m.obstacles.Size()), zap.Int("removed", removed))
	return removed
}
