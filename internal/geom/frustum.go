package geom

import "math"

// Plane is an infinite plane in Hessian normal form.
// Points with positive signed distance lie on the side the normal faces.
type Plane struct {
	Normal Vec3
	D      float64
}

// PlaneFromPointNormal builds a plane through p with the given normal.
func PlaneFromPointNormal(p, normal Vec3) Plane {
	n := normal.Normalized()
	return Plane{Normal: n, D: -n.Dot(p)}
}

// SignedDistance returns the signed distance from p to the plane.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Frustum is a camera viewing volume expressed as six inward-facing planes.
type Frustum [6]Plane

// Frustum plane indices.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

// PerspectiveFrustum builds the six planes of a perspective camera.
// forward and up define the camera orientation, fovY is the vertical field
// of view in radians, aspect is width/height.
func PerspectiveFrustum(pos, forward, up Vec3, fovY, aspect, near, far float64) Frustum {
	f := forward.Normalized()
	r := up.Cross(f).Normalized()
	u := f.Cross(r)

	tanY := math.Tan(fovY / 2)
	tanX := tanY * aspect

	dirTop := f.Add(u.Scale(tanY)).Normalized()
	dirBottom := f.Sub(u.Scale(tanY)).Normalized()
	dirRight := f.Add(r.Scale(tanX)).Normalized()
	dirLeft := f.Sub(r.Scale(tanX)).Normalized()

	var fr Frustum
	fr[PlaneNear] = PlaneFromPointNormal(pos.Add(f.Scale(near)), f)
	fr[PlaneFar] = PlaneFromPointNormal(pos.Add(f.Scale(far)), f.Neg())
	fr[PlaneTop] = PlaneFromPointNormal(pos, r.Cross(dirTop))
	fr[PlaneBottom] = PlaneFromPointNormal(pos, dirBottom.Cross(r))
	fr[PlaneRight] = PlaneFromPointNormal(pos, dirRight.Cross(u))
	fr[PlaneLeft] = PlaneFromPointNormal(pos, u.Cross(dirLeft))
	return fr
}

// ContainsAABB reports whether the box is at least partially inside the
// frustum. Uses the positive-vertex test: a box is outside iff its farthest
// corner along some plane normal is behind that plane.
func (fr Frustum) ContainsAABB(b AABB) bool {
	for _, pl := range fr {
		pv := Vec3{
			pick(pl.Normal.X, b.Min.X, b.Max.X),
			pick(pl.Normal.Y, b.Min.Y, b.Max.Y),
			pick(pl.Normal.Z, b.Min.Z, b.Max.Z),
		}
		if pl.SignedDistance(pv) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside the frustum.
func (fr Frustum) ContainsPoint(p Vec3) bool {
	for _, pl := range fr {
		if pl.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

func pick(n, lo, hi float64) float64 {
	if n >= 0 {
		return hi
	}
	return lo
}
