// Package player holds the survivor entity: position, view pose, the
// eye-wetness blink resource, and the kill sink monsters fire on contact.
package player

import (
	"log/slog"
	"math"

	"github.com/noctua-games/duskfall/internal/geom"
)

// View tuning defaults, matching a typical first-person camera.
const (
	DefaultFOVY      = math.Pi / 3
	DefaultAspect    = 16.0 / 9.0
	DefaultNearPlane = 0.1
	DefaultFarPlane  = 120.0
	DefaultEyeHeight = 1.7
	DefaultWalkSpeed = 3.0
)

// KilledFunc is notified once when the player dies. Fire-and-forget: the
// usual sink requests a scene restart.
type KilledFunc func(p *Player)

// Player is the viewer and the monsters' target.
type Player struct {
	ID uint32

	Eyes *Eyes

	FOVY      float64
	Aspect    float64
	NearPlane float64
	FarPlane  float64
	EyeHeight float64
	WalkSpeed float64

	position geom.Vec3
	forward  geom.Vec3
	extents  geom.Vec3
	dead     bool
	onKilled KilledFunc
}

// New creates a player at pos facing forward with the given body half-extents.
func New(id uint32, pos geom.Vec3, extents geom.Vec3) *Player {
	return &Player{
		ID:        id,
		Eyes:      NewEyes(),
		FOVY:      DefaultFOVY,
		Aspect:    DefaultAspect,
		NearPlane: DefaultNearPlane,
		FarPlane:  DefaultFarPlane,
		EyeHeight: DefaultEyeHeight,
		WalkSpeed: DefaultWalkSpeed,
		position:  pos,
		forward:   geom.Vec3{Z: 1},
		extents:   extents,
	}
}

// SetKilledFunc injects the death sink.
func (p *Player) SetKilledFunc(fn KilledFunc) {
	p.onKilled = fn
}

// Position returns the player's feet position.
func (p *Player) Position() geom.Vec3 {
	return p.position
}

// SetPosition teleports the player.
func (p *Player) SetPosition(pos geom.Vec3) {
	p.position = pos
}

// Bounds returns the player's collision volume.
func (p *Player) Bounds() geom.AABB {
	center := p.position.Add(geom.Vec3{Y: p.extents.Y})
	return geom.AABBFromCenter(center, p.extents)
}

// Facing returns the normalized view direction.
func (p *Player) Facing() geom.Vec3 {
	return p.forward
}

// SetFacing orients the view. Zero vectors are ignored.
func (p *Player) SetFacing(forward geom.Vec3) {
	if forward.LengthSq() == 0 {
		return
	}
	p.forward = forward.Normalized()
}

// Walk moves the player along dir (horizontal plane) for one tick.
func (p *Player) Walk(dir geom.Vec3, dt float64) {
	flat := dir.Flat()
	if flat.LengthSq() == 0 {
		return
	}
	p.position = p.position.Add(flat.Normalized().Scale(p.WalkSpeed * dt))
}

// Tick advances per-frame player state.
func (p *Player) Tick(dt float64) {
	p.Eyes.Tick(dt)
}

// Dead reports whether the player has been killed.
func (p *Player) Dead() bool {
	return p.dead
}

// Kill marks the player dead and notifies the sink once. Further calls are
// no-ops.
func (p *Player) Kill() {
	if p.dead {
		return
	}
	p.dead = true
	slog.Info("player killed", "playerID", p.ID)
	if p.onKilled != nil {
		p.onKilled(p)
	}
}

// Revive clears the dead flag, used when a scene restart rebuilds state in
// place.
func (p *Player) Revive() {
	p.dead = false
}

// EyesOpen implements vision.Viewer.
func (p *Player) EyesOpen() bool {
	return !p.dead && p.Eyes.Open()
}

// EyePosition implements vision.Viewer.
func (p *Player) EyePosition() geom.Vec3 {
	return p.position.Add(geom.Vec3{Y: p.EyeHeight})
}

// ViewFrustum implements vision.Viewer.
func (p *Player) ViewFrustum() geom.Frustum {
	return geom.PerspectiveFrustum(
		p.EyePosition(), p.forward, geom.Vec3{Y: 1},
		p.FOVY, p.Aspect, p.NearPlane, p.FarPlane,
	)
}
