// Package vision decides whether a viewer can currently see a target volume.
//
// A query runs up to four gates: eye state, frustum containment, range and
// raycast occlusion. Frustum planes are memoized per simulation frame so
// that any number of agents can query the same viewer in one tick at the
// cost of a single plane recomputation.
package vision

import (
	"github.com/noctua-games/duskfall/internal/geom"
)

// Mask is a bit set of occluder layers. The zero mask disables occlusion
// testing entirely.
type Mask uint32

// Hit describes the nearest geometry struck by an occlusion ray.
type Hit struct {
	OwnerID  uint32 // entity the struck geometry belongs to
	Point    geom.Vec3
	Distance float64
}

// Raycaster is the physics boundary used for occlusion checks.
// Implementations return the nearest hit within maxDist whose layers
// intersect mask, or ok=false when nothing is struck.
type Raycaster interface {
	Raycast(origin, dir geom.Vec3, maxDist float64, mask Mask) (Hit, bool)
}

// Viewer supplies the per-query state of the observing entity.
type Viewer interface {
	// EyesOpen reports whether the viewer can see at all this tick.
	EyesOpen() bool
	// EyePosition is the world-space ray origin for occlusion checks.
	EyePosition() geom.Vec3
	// ViewFrustum computes the current viewing volume.
	ViewFrustum() geom.Frustum
}

// Target is the volume being looked for.
type Target struct {
	ID     uint32
	Bounds geom.AABB
}

// FrustumCache memoizes a viewer's frustum planes keyed by the global frame
// counter. Safe without locking under the single-threaded tick model: the
// first query of a frame computes, later queries in the same frame reuse.
type FrustumCache struct {
	viewer Viewer
	frame  uint64
	valid  bool
	planes geom.Frustum
}

// NewFrustumCache creates a cache bound to one viewer.
func NewFrustumCache(viewer Viewer) *FrustumCache {
	return &FrustumCache{viewer: viewer}
}

// Planes returns the frustum for the given frame, recomputing at most once
// per frame value.
func (c *FrustumCache) Planes(frame uint64) geom.Frustum {
	if !c.valid || c.frame != frame {
		c.planes = c.viewer.ViewFrustum()
		c.frame = frame
		c.valid = true
	}
	return c.planes
}

// Tester performs visibility queries for a single viewer.
type Tester struct {
	viewer Viewer
	cache  *FrustumCache

	// MaxDistance limits detection range in world units. Zero disables
	// the range gate.
	MaxDistance float64

	// OcclusionMask selects which occluder layers block sight. The zero
	// mask skips raycasting.
	OcclusionMask Mask

	// Caster is the occlusion raycast source. May be nil, in which case
	// occlusion is skipped regardless of mask.
	Caster Raycaster
}

// NewTester creates a visibility tester for viewer.
func NewTester(viewer Viewer) *Tester {
	return &Tester{
		viewer: viewer,
		cache:  NewFrustumCache(viewer),
	}
}

// sampleOffsets are the 19 probe directions around a target's extents used
// to approximate line of sight through partial cover: the center, the six
// face directions and the twelve edge directions.
var sampleOffsets = func() [19]geom.Vec3 {
	var out [19]geom.Vec3
	i := 0
	out[i] = geom.Vec3{}
	i++
	for _, v := range []geom.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	} {
		out[i] = v
		i++
	}
	for _, v := range []geom.Vec3{
		{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
		{X: 1, Z: 1}, {X: 1, Z: -1}, {X: -1, Z: 1}, {X: -1, Z: -1},
		{Y: 1, Z: 1}, {Y: 1, Z: -1}, {Y: -1, Z: 1}, {Y: -1, Z: -1},
	} {
		out[i] = v
		i++
	}
	return out
}()

// CanSee reports whether the viewer sees the target on the given frame.
func (t *Tester) CanSee(frame uint64, target Target) bool {
	if !t.viewer.EyesOpen() {
		return false
	}

	if !t.cache.Planes(frame).ContainsAABB(target.Bounds) {
		return false
	}

	if t.MaxDistance > 0 {
		distSq := target.Bounds.DistanceSqTo(t.viewer.EyePosition())
		if distSq > t.MaxDistance*t.MaxDistance {
			return false
		}
	}

	if t.OcclusionMask == 0 || t.Caster == nil {
		return true
	}
	return t.anySampleClear(target)
}

// anySampleClear probes the 19 sample points around the target bounds.
// A sample counts as clear when the ray reaches it unobstructed or is
// obstructed only by the target's own geometry.
func (t *Tester) anySampleClear(target Target) bool {
	origin := t.viewer.EyePosition()
	center := target.Bounds.Center()
	extents := target.Bounds.Extents()

	for _, off := range sampleOffsets {
		sample := geom.Vec3{
			X: center.X + off.X*extents.X,
			Y: center.Y + off.Y*extents.Y,
			Z: center.Z + off.Z*extents.Z,
		}
		delta := sample.Sub(origin)
		dist := delta.Length()
		if dist == 0 {
			// Viewer sits exactly on the sample point.
			return true
		}

		hit, blocked := t.Caster.Raycast(origin, delta.Scale(1/dist), dist, t.OcclusionMask)
		if !blocked || hit.OwnerID == target.ID {
			return true
		}
	}
	return false
}
