package ai

import "github.com/noctua-games/duskfall/internal/geom"

// Monster is the antagonist entity body: identity, spawn anchor, position
// and collision volume. Behavior lives in Controller; the split keeps the
// body usable as a motor.Body and a vision target.
type Monster struct {
	ID      uint32
	Extents geom.Vec3

	spawn    geom.Vec3
	position geom.Vec3
}

// NewMonster creates a monster standing at its spawn point.
func NewMonster(id uint32, spawn, extents geom.Vec3) *Monster {
	return &Monster{
		ID:       id,
		Extents:  extents,
		spawn:    spawn,
		position: spawn,
	}
}

// Position returns the monster's feet position.
func (m *Monster) Position() geom.Vec3 {
	return m.position
}

// SetPosition moves the monster. Implements motor.Body.
func (m *Monster) SetPosition(p geom.Vec3) {
	m.position = p
}

// Spawn returns the spawn anchor position.
func (m *Monster) Spawn() geom.Vec3 {
	return m.spawn
}

// Bounds returns the monster's collision volume.
func (m *Monster) Bounds() geom.AABB {
	center := m.position.Add(geom.Vec3{Y: m.Extents.Y})
	return geom.AABBFromCenter(center, m.Extents)
}

// DistanceToSpawnSq returns the squared distance from the current position
// to the spawn anchor.
func (m *Monster) DistanceToSpawnSq() float64 {
	return m.position.DistanceSqTo(m.spawn)
}
