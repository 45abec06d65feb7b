package common

import (
	"cmp"
	"math"
)

// / Returns the square of the value.
func Sqr[T IT](a T) T {
	return a * a
}

func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// / Returns the absolute value.
func Abs[T IT](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// / Clamps the value to the specified range.
// / @param[in]		value			The value to clamp.
// / @param[in]		minInclusive	The minimum permitted return value.
// / @param[in]		maxInclusive	The maximum permitted return value.
// / @return The value, clamped to the specified range.
func Clamp[T cmp.Ordered](value, minInclusive, maxInclusive T) T {
	if value < minInclusive {
		return minInclusive
	}
	if value > maxInclusive {
		return maxInclusive
	}
	return value
}

var Inf = float32(math.Inf(1))

func IsInf(v float32) bool {
	return math.IsInf(float64(v), 1)
}

// / Returns the distance between two points.
func Vdist(v1, v2 Vec3) float32 {
	return Sqrt(VdistSqr(v1, v2))
}

// / Returns the square of the distance between two points.
func VdistSqr(v1, v2 Vec3) float32 {
	dx := v2[0] - v1[0]
	dy := v2[1] - v1[1]
	dz := v2[2] - v1[2]
	return dx*dx + dy*dy + dz*dz
}

// / Derives the distance between the specified points on the xz-plane.
// /
// / The vectors are projected onto the xz-plane, so the y-values are ignored.
func Vdist2D(v1, v2 Vec3) float32 {
	return Sqrt(Vdist2DSqr(v1, v2))
}

// / Derives the square of the distance between the specified points on the xz-plane.
func Vdist2DSqr(v1, v2 Vec3) float32 {
	dx := v2[0] - v1[0]
	dz := v2[2] - v1[2]
	return dx*dx + dz*dz
}

// / Performs a 'sloppy' colocation check of the specified points.
// /
// / Basically, this function will return true if the specified points are
// / close enough to eachother to be considered colocated.
func Vequal(p0, p1 Vec3) bool {
	thr := Sqr(float32(1.0 / 16384.0))
	return VdistSqr(p0, p1) < thr
}

// / Performs a linear interpolation between two vectors. (@p v1 toward @p v2)
func Vlerp(v1, v2 Vec3, t float32) Vec3 {
	return Vec3{
		v1[0] + (v2[0]-v1[0])*t,
		v1[1] + (v2[1]-v1[1])*t,
		v1[2] + (v2[2]-v1[2])*t,
	}
}

// / Derives the signed xz-plane area of the triangle ABC, or the relationship of line AB to point C.
// /  @param[in]		a		Vertex A. [(x, y, z)]
// /  @param[in]		b		Vertex B. [(x, y, z)]
// /  @param[in]		c		Vertex C. [(x, y, z)]
// / @return The signed xz-plane area of the triangle.
func TriArea2D(a, b, c Vec3) float32 {
	abx := b[0] - a[0]
	abz := b[2] - a[2]
	acx := c[0] - a[0]
	acz := c[2] - a[2]
	return acx*abz - abx*acz
}

// DistancePtSegSqr2D returns the parameter of the closest point on pq to pt and the
// squared xz distance to it.
func DistancePtSegSqr2D(pt, p, q Vec3) (t float32, d float32) {
	pqx := q[0] - p[0]
	pqz := q[2] - p[2]
	dx := pt[0] - p[0]
	dz := pt[2] - p[2]
	l := pqx*pqx + pqz*pqz
	t = pqx*dx + pqz*dz
	if l > 0 {
		t /= l
	}
	t = Clamp(t, 0, 1)
	dx = p[0] + t*pqx - pt[0]
	dz = p[2] + t*pqz - pt[2]
	return t, dx*dx + dz*dz
}

func vperpXZ(a, b Vec3) float32 { return a[0]*b[2] - a[2]*b[0] }

// IntersectSegSeg2D intersects the lines through ap-aq and bp-bq on the xz-plane.
// s and t are the parameters along each line; ok is false for parallel lines.
func IntersectSegSeg2D(ap, aq, bp, bq Vec3) (s, t float32, ok bool) {
	u := aq.Sub(ap)
	v := bq.Sub(bp)
	w := ap.Sub(bp)
	d := vperpXZ(u, v)
	if math.Abs(float64(d)) < 1e-6 {
		return 0, 0, false
	}
	s = vperpXZ(v, w) / d
	t = vperpXZ(u, w) / d
	return s, t, true
}

const triEps = 1e-5

func barycentric2D(p, a, b, c Vec3) (u, v, denom float32, ok bool) {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)

	// Compute scaled barycentric coordinates
	denom = v0[0]*v1[2] - v0[2]*v1[0]
	if math.Abs(float64(denom)) < 1e-6 {
		return 0, 0, 0, false
	}
	u = v1[2]*v2[0] - v1[0]*v2[2]
	v = v0[0]*v2[2] - v0[2]*v2[0]
	if denom < 0 {
		denom = -denom
		u = -u
		v = -v
	}
	return u, v, denom, true
}

// PointInTriangle2D reports whether p lies inside abc on the xz-plane. Points on an
// edge count as inside.
func PointInTriangle2D(p, a, b, c Vec3) bool {
	u, v, denom, ok := barycentric2D(p, a, b, c)
	if !ok {
		return false
	}
	eps := triEps * denom
	return u >= -eps && v >= -eps && (u+v) <= denom+eps
}

// ClosestHeightPointTriangle returns the height of the plane through abc below or above p.
func ClosestHeightPointTriangle(p, a, b, c Vec3) (h float32, ok bool) {
	u, v, denom, ok := barycentric2D(p, a, b, c)
	if !ok {
		return 0, false
	}
	eps := triEps * denom
	// If point lies inside the triangle, return interpolated ycoord.
	if u >= -eps && v >= -eps && (u+v) <= denom+eps {
		v0 := c.Sub(a)
		v1 := b.Sub(a)
		return a[1] + (v0[1]*u+v1[1]*v)/denom, true
	}
	return 0, false
}

// PlaneHeight evaluates the plane through abc at p without an inside test.
func PlaneHeight(p, a, b, c Vec3) (float32, bool) {
	u, v, denom, ok := barycentric2D(p, a, b, c)
	if !ok {
		return 0, false
	}
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	return a[1] + (v0[1]*u+v1[1]*v)/denom, true
}

// ClosestPointOnTriangle projects p onto abc: inside the xz footprint the point keeps
// its x/z and takes the plane height, outside it snaps to the nearest edge.
func ClosestPointOnTriangle(p, a, b, c Vec3) Vec3 {
	if h, ok := ClosestHeightPointTriangle(p, a, b, c); ok {
		return Vec3{p[0], h, p[2]}
	}
	verts := [3]Vec3{a, b, c}
	best := Vec3{}
	bestD := Inf
	for i, j := 0, 2; i < 3; j, i = i, i+1 {
		t, d := DistancePtSegSqr2D(p, verts[j], verts[i])
		if d < bestD {
			bestD = d
			best = Vlerp(verts[j], verts[i], t)
		}
	}
	return best
}

// TriangleBounds returns the axis-aligned bounds of abc.
func TriangleBounds(a, b, c Vec3) (bmin, bmax Vec3) {
	for i := 0; i < 3; i++ {
		bmin[i] = min(a[i], b[i], c[i])
		bmax[i] = max(a[i], b[i], c[i])
	}
	return bmin, bmax
}

// / Determines if two axis-aligned bounding boxes overlap.
func OverlapBounds(amin, amax, bmin, bmax Vec3) bool {
	return !(amin[0] > bmax[0] || amax[0] < bmin[0] ||
		amin[1] > bmax[1] || amax[1] < bmin[1] ||
		amin[2] > bmax[2] || amax[2] < bmin[2])
}

// PointBoxDistSqr is the squared distance from p to the box, zero inside it.
func PointBoxDistSqr(p, bmin, bmax Vec3) float32 {
	var d float32
	for i := 0; i < 3; i++ {
		if p[i] < bmin[i] {
			d += Sqr(bmin[i] - p[i])
		} else if p[i] > bmax[i] {
			d += Sqr(p[i] - bmax[i])
		}
	}
	return d
}

// PointInBounds2D reports whether p lies in the xz footprint of the box.
func PointInBounds2D(p, bmin, bmax Vec3) bool {
	return p[0] >= bmin[0] && p[0] <= bmax[0] && p[2] >= bmin[2] && p[2] <= bmax[2]
}
