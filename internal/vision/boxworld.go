package vision

import "github.com/noctua-games/duskfall/internal/geom"

// Occluder is a static box of sight-blocking geometry.
type Occluder struct {
	OwnerID uint32
	Bounds  geom.AABB
	Layers  Mask
}

// BoxWorld is a deterministic Raycaster over a fixed set of box occluders.
// It stands in for the engine's physics raycast: the simulation uses it for
// level geometry and tests use it as a controllable double.
type BoxWorld struct {
	occluders []Occluder
}

// NewBoxWorld creates a raycast world from the given occluders.
func NewBoxWorld(occluders ...Occluder) *BoxWorld {
	return &BoxWorld{occluders: occluders}
}

// Add appends an occluder to the world.
func (w *BoxWorld) Add(o Occluder) {
	w.occluders = append(w.occluders, o)
}

// Raycast returns the nearest occluder hit along the ray whose layers
// intersect mask, within maxDist.
func (w *BoxWorld) Raycast(origin, dir geom.Vec3, maxDist float64, mask Mask) (Hit, bool) {
	end := origin.Add(dir.Scale(maxDist))

	best := Hit{}
	bestT := 2.0 // segment parameters live in [0,1]
	found := false

	for _, o := range w.occluders {
		if o.Layers&mask == 0 {
			continue
		}
		t, ok := o.Bounds.SegmentHit(origin, end)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		found = true
		best = Hit{
			OwnerID:  o.OwnerID,
			Point:    origin.Add(end.Sub(origin).Scale(t)),
			Distance: t * maxDist,
		}
	}
	return best, found
}
