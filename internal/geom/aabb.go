package geom

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// NewAABB returns the AABB spanning min and max, swapping components as needed.
func NewAABB(min, max Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(min.X, max.X), math.Min(min.Y, max.Y), math.Min(min.Z, max.Z)},
		Max: Vec3{math.Max(min.X, max.X), math.Max(min.Y, max.Y), math.Max(min.Z, max.Z)},
	}
}

// AABBFromCenter returns an AABB centered at c with the given half-extents.
func AABBFromCenter(c, extents Vec3) AABB {
	return AABB{Min: c.Sub(extents), Max: c.Add(extents)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the half-size of the box along each axis.
func (b AABB) Extents() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Translated returns the box moved by v.
func (b AABB) Translated(v Vec3) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Contains reports whether p is inside or on the boundary of the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// ClosestPoint returns the point on or inside the box nearest to p.
func (b AABB) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		clamp(p.X, b.Min.X, b.Max.X),
		clamp(p.Y, b.Min.Y, b.Max.Y),
		clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// DistanceSqTo returns the squared distance from p to the box surface,
// zero when p is inside.
func (b AABB) DistanceSqTo(p Vec3) float64 {
	return b.ClosestPoint(p).DistanceSqTo(p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SegmentHit computes the intersection of the segment from→to with the box
// using the slab method. Returns the parametric entry point t in [0,1] and
// whether the segment hits the box at all. A segment starting inside the box
// hits at t = 0.
func (b AABB) SegmentHit(from, to Vec3) (float64, bool) {
	d := to.Sub(from)
	tMin := 0.0
	tMax := 1.0

	for _, axis := range [3][3]float64{
		{from.X, d.X, 0}, {from.Y, d.Y, 1}, {from.Z, d.Z, 2},
	} {
		o, dir := axis[0], axis[1]
		lo, hi := axisBounds(b, int(axis[2]))
		if dir == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / dir
		t2 := (hi - o) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

func axisBounds(b AABB, axis int) (float64, float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}
