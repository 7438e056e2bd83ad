package motor

import (
	"math"
	"testing"

	"github.com/noctua-games/duskfall/internal/geom"
)

type testBody struct {
	pos geom.Vec3
}

func (b *testBody) Position() geom.Vec3     { return b.pos }
func (b *testBody) SetPosition(p geom.Vec3) { b.pos = p }

type fakeSteering struct {
	walkable    bool
	destination geom.Vec3
	speed       float64
	stopped     bool
	warped      *geom.Vec3
	destSet     int
}

func (s *fakeSteering) SetDestination(p geom.Vec3) { s.destination = p; s.destSet++ }
func (s *fakeSteering) Warp(p geom.Vec3)           { s.warped = &p }
func (s *fakeSteering) OnWalkableSurface() bool    { return s.walkable }
func (s *fakeSteering) SetSpeed(v float64)         { s.speed = v }
func (s *fakeSteering) SetStopped(v bool)          { s.stopped = v }
func (s *fakeSteering) RemainingDistance() float64 { return s.destination.DistanceTo(geom.Vec3{}) }

func TestDirectMovementHorizontal(t *testing.T) {
	body := &testBody{pos: geom.Vec3{Y: 1.5}}
	m := New(body, nil)

	// Target above the agent: only the horizontal components move.
	m.MoveToward(geom.Vec3{X: 10, Y: 8, Z: 0}, 2, 0.5)

	if body.pos.Y != 1.5 {
		t.Errorf("vertical component must stay fixed, got %v", body.pos.Y)
	}
	if math.Abs(body.pos.X-1) > 1e-9 {
		t.Errorf("expected x=1 after one tick, got %v", body.pos.X)
	}
}

func TestPathFollowingAdvancesWaypoints(t *testing.T) {
	body := &testBody{}
	m := New(body, nil)
	m.SetPath([]geom.Vec3{{X: 1}, {X: 2}})

	target := geom.Vec3{X: 5}
	// Long enough ticks to walk the whole path and beyond.
	for i := 0; i < 100; i++ {
		m.MoveToward(target, 1, 0.1)
	}

	if m.HasPath() {
		t.Error("path should be exhausted")
	}
	if body.pos.DistanceTo(target) > 1e-9 {
		t.Errorf("body should fall through to the ultimate target, got %+v", body.pos)
	}
}

func TestWaypointToleranceSkipsReachedPoints(t *testing.T) {
	body := &testBody{pos: geom.Vec3{X: 0.9}}
	m := New(body, nil)
	m.SetPath([]geom.Vec3{{X: 1}, {X: 3}})

	// First waypoint is within the 0.25 default tolerance: one tick should
	// already be walking toward the second.
	m.MoveToward(geom.Vec3{X: 5}, 1, 0.1)
	if body.pos.X <= 0.9 {
		t.Errorf("expected forward progress toward the next waypoint, got %v", body.pos.X)
	}
	if m.pathIndex != 1 {
		t.Errorf("expected first waypoint consumed, index=%d", m.pathIndex)
	}
}

func TestStopCancelsPathAndResumeContinues(t *testing.T) {
	body := &testBody{}
	m := New(body, nil)
	m.SetPath([]geom.Vec3{{X: 1}})

	m.Stop()
	if m.HasPath() {
		t.Error("stop must cancel the pending path")
	}
	m.MoveToward(geom.Vec3{X: 5}, 1, 1)
	if body.pos != (geom.Vec3{}) {
		t.Errorf("stopped motor must not move the body, got %+v", body.pos)
	}

	m.Resume()
	m.MoveToward(geom.Vec3{X: 5}, 1, 1)
	if body.pos.X != 1 {
		t.Errorf("resumed motor should move again without teleporting, got %+v", body.pos)
	}
}

func TestSteeringDelegation(t *testing.T) {
	body := &testBody{}
	st := &fakeSteering{walkable: true}
	m := New(body, st)
	m.SetPath([]geom.Vec3{{X: 1}})

	target := geom.Vec3{X: 7, Z: 3}
	m.MoveToward(target, 2.5, 0.016)

	if st.destination != target {
		t.Errorf("steering should receive the ultimate target, got %+v", st.destination)
	}
	if st.speed != 2.5 {
		t.Errorf("steering should receive the speed, got %v", st.speed)
	}
	if st.stopped {
		t.Error("steering should be unstopped while moving")
	}
	if body.pos != (geom.Vec3{}) {
		t.Error("body position is owned by the steering agent while delegating")
	}
}

func TestSteeringFallbackWhenOffMesh(t *testing.T) {
	body := &testBody{}
	st := &fakeSteering{walkable: false}
	m := New(body, st)

	m.MoveToward(geom.Vec3{X: 10}, 1, 1)

	if st.destSet != 0 {
		t.Error("off-mesh steering must not receive destinations")
	}
	if body.pos.X != 1 {
		t.Errorf("expected direct fallback movement, got %+v", body.pos)
	}
}

func TestStopHaltsSteering(t *testing.T) {
	st := &fakeSteering{walkable: true}
	m := New(&testBody{}, st)

	m.Stop()
	if !st.stopped || st.speed != 0 {
		t.Errorf("stop must halt the steering agent, stopped=%v speed=%v", st.stopped, st.speed)
	}
}

func TestWarpSnapsBodyAndSteering(t *testing.T) {
	body := &testBody{}
	st := &fakeSteering{walkable: true}
	m := New(body, st)
	m.SetPath([]geom.Vec3{{X: 1}})

	p := geom.Vec3{X: 4, Y: 2, Z: -1}
	m.Warp(p)

	if body.pos != p {
		t.Errorf("warp must snap the body, got %+v", body.pos)
	}
	if st.warped == nil || *st.warped != p {
		t.Error("warp must propagate to the steering agent")
	}
	if m.HasPath() {
		t.Error("warp must cancel the pending path")
	}
}
