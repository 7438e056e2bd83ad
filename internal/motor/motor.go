// Package motor moves agents toward targets. It prefers an engine steering
// agent when one is available and on walkable ground, and otherwise falls
// back to direct horizontal translation with waypoint following.
package motor

import "github.com/noctua-games/duskfall/internal/geom"

// DefaultWaypointTolerance is the arrival radius for path waypoints.
const DefaultWaypointTolerance = 0.25

// Body is the transform the motor drives.
type Body interface {
	Position() geom.Vec3
	SetPosition(geom.Vec3)
}

// Steering is the engine navmesh-agent boundary. When present and on a
// walkable surface, it owns position planning and the motor only feeds it
// destination and speed each tick.
type Steering interface {
	SetDestination(geom.Vec3)
	Warp(geom.Vec3)
	OnWalkableSurface() bool
	SetSpeed(float64)
	SetStopped(bool)
	RemainingDistance() float64
}

// Motor steers one body. Not safe for concurrent use; driven from the
// single simulation tick.
type Motor struct {
	body     Body
	steering Steering // nil when the agent has no steering backend

	tolerance float64
	path      []geom.Vec3
	pathIndex int
	stopped   bool
}

// New creates a motor for body. steering may be nil.
func New(body Body, steering Steering) *Motor {
	return &Motor{
		body:      body,
		steering:  steering,
		tolerance: DefaultWaypointTolerance,
	}
}

// SetWaypointTolerance overrides the waypoint arrival radius.
func (m *Motor) SetWaypointTolerance(tol float64) {
	if tol > 0 {
		m.tolerance = tol
	}
}

// SetPath replaces the current waypoint path. The motor walks the waypoints
// in order and falls through to the ultimate MoveToward target once they are
// exhausted.
func (m *Motor) SetPath(path []geom.Vec3) {
	m.path = path
	m.pathIndex = 0
}

// ClearPath drops any pending waypoints.
func (m *Motor) ClearPath() {
	m.path = nil
	m.pathIndex = 0
}

// HasPath reports whether unconsumed waypoints remain.
func (m *Motor) HasPath() bool {
	return m.pathIndex < len(m.path)
}

// Stop zeroes velocity and cancels any pending path.
func (m *Motor) Stop() {
	m.stopped = true
	m.ClearPath()
	if m.steering != nil {
		m.steering.SetStopped(true)
		m.steering.SetSpeed(0)
	}
}

// Resume re-primes movement after a Stop without teleporting.
func (m *Motor) Resume() {
	m.stopped = false
	if m.steering != nil {
		m.steering.SetStopped(false)
	}
}

// Stopped reports whether the motor is halted.
func (m *Motor) Stopped() bool {
	return m.stopped
}

// Warp snaps the body (and steering agent, if any) to p and cancels the path.
func (m *Motor) Warp(p geom.Vec3) {
	m.ClearPath()
	m.body.SetPosition(p)
	if m.steering != nil {
		m.steering.Warp(p)
	}
}

// MoveToward advances the body toward target for one tick. With a steering
// backend on walkable ground the target is delegated wholesale; otherwise
// the motor follows its waypoint path (advancing on arrival within the
// tolerance) and finally walks straight at the target on the horizontal
// plane.
func (m *Motor) MoveToward(target geom.Vec3, speed, dt float64) {
	if m.stopped || speed <= 0 || dt <= 0 {
		return
	}

	if m.steering != nil && m.steering.OnWalkableSurface() {
		m.steering.SetStopped(false)
		m.steering.SetSpeed(speed)
		m.steering.SetDestination(target)
		return
	}

	pos := m.body.Position()

	// Consume any waypoints already within reach.
	for m.pathIndex < len(m.path) {
		wp := m.path[m.pathIndex]
		if horizontal(pos, wp).DistanceTo(pos) <= m.tolerance {
			m.pathIndex++
			continue
		}
		break
	}

	dest := target
	if m.pathIndex < len(m.path) {
		dest = m.path[m.pathIndex]
	}
	m.body.SetPosition(pos.MoveToward(horizontal(pos, dest), speed*dt))
}

// horizontal projects dest onto the body's current height so ground agents
// never accumulate vertical drift.
func horizontal(pos, dest geom.Vec3) geom.Vec3 {
	return geom.Vec3{X: dest.X, Y: pos.Y, Z: dest.Z}
}
