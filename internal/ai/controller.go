package ai

import (
	"log/slog"

	"github.com/noctua-games/duskfall/internal/geom"
	"github.com/noctua-games/duskfall/internal/motor"
	"github.com/noctua-games/duskfall/internal/nav"
	"github.com/noctua-games/duskfall/internal/worldstate"
)

// Config holds the designer tunables for one monster.
type Config struct {
	// DesiredSpeed is the movement speed in units per second when unfrozen.
	DesiredSpeed float64

	// VisionHoldDuration is how long after last being seen the monster
	// still counts as watched. Chase begins only once the target has not
	// seen the monster for at least this long.
	VisionHoldDuration float64

	// ChaseActivationRadius gates chase start: the target must be within
	// this radius of the monster's spawn point. Zero disables the check.
	ChaseActivationRadius float64

	// ChaseLeashRadius forces a return once the monster itself strays this
	// far from spawn while chasing. Zero disables the check.
	ChaseLeashRadius float64

	// ReturnDistance is the arrival threshold around spawn that completes
	// a return.
	ReturnDistance float64

	// DisablerFreezeDuration is how long a disabler effect pins the
	// monster in place.
	DisablerFreezeDuration float64

	// ReturningIgnoresVision makes the monster ignore being watched while
	// walking home.
	ReturningIgnoresVision bool
}

// DefaultConfig returns the consolidated monster tuning.
func DefaultConfig() Config {
	return Config{
		DesiredSpeed:           4.5,
		VisionHoldDuration:     1.5,
		ChaseActivationRadius:  30,
		ChaseLeashRadius:       45,
		ReturnDistance:         0.5,
		DisablerFreezeDuration: 6,
		ReturningIgnoresVision: true,
	}
}

// Target is the entity the monster hunts.
type Target interface {
	Position() geom.Vec3
	Bounds() geom.AABB
	// Kill is the fire-and-forget contact sink.
	Kill()
}

// WatchedFunc reports whether the target currently sees the monster on the
// given frame. Injected by the level builder to keep the controller
// decoupled from the vision package.
type WatchedFunc func(frame uint64) bool

// ResetFunc is notified when a monster re-anchors at its spawn, for
// observers such as audio threat systems that cache pursuit state.
type ResetFunc func(monsterID uint32)

// AnimationDriver is the engine animation boundary. The controller only
// snapshots and restores the (enabled, speed) pair around freezes.
type AnimationDriver interface {
	Enabled() bool
	SetEnabled(bool)
	Speed() float64
	SetSpeed(float64)
}

type animSnapshot struct {
	enabled bool
	speed   float64
}

// Controller drives one monster through the Stationary / Chasing /
// Returning state machine. All collaborators are injected at construction;
// the controller performs no global lookups.
type Controller struct {
	monster *Monster
	cfg     Config
	motor   *motor.Motor
	target  Target
	watched WatchedFunc

	graph   *nav.Graph      // optional waypoint graph
	anim    AnimationDriver // optional
	resetFn ResetFunc

	running       bool
	state         State
	worldAbnormal bool
	timeSinceSeen float64
	currentSpeed  float64

	// Two independent freeze sources; the agent unfreezes only when both
	// have released.
	gazeFrozen        bool
	disablerFrozen    bool
	disablerRemaining float64
	frozenApplied     bool
	savedAnim         *animSnapshot

	unsubscribe func()
}

// NewController wires up a monster behavior controller.
func NewController(m *Monster, cfg Config, mot *motor.Motor, target Target, watched WatchedFunc) *Controller {
	return &Controller{
		monster: m,
		cfg:     cfg,
		motor:   mot,
		target:  target,
		watched: watched,
		state:   StateStationary,
		// Never-seen monsters pass the hold-window gate immediately.
		timeSinceSeen: cfg.VisionHoldDuration,
		currentSpeed:  cfg.DesiredSpeed,
	}
}

// SetConfig swaps the tuning in place, for tunables reload at a frame
// boundary. The desired speed takes effect immediately unless a freeze
// currently pins it at zero.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	if !c.frozenApplied {
		c.currentSpeed = cfg.DesiredSpeed
	}
}

// SetGraph attaches a waypoint graph for chase pathing. Without one the
// controller chases in a direct line.
func (c *Controller) SetGraph(g *nav.Graph) {
	c.graph = g
}

// SetAnimationDriver attaches the visual freeze boundary.
func (c *Controller) SetAnimationDriver(a AnimationDriver) {
	c.anim = a
}

// SetResetFunc attaches the monster-reset observer.
func (c *Controller) SetResetFunc(fn ResetFunc) {
	c.resetFn = fn
}

// BindWorldState subscribes the controller to the abnormal flag with an
// immediate notification, so a controller built mid-game starts in the
// right state. Stop releases the subscription.
func (c *Controller) BindWorldState(b *worldstate.Broadcaster) {
	c.unsubscribe = b.Subscribe(c.OnWorldAbnormal, true)
}

// OnWorldAbnormal receives abnormal flag changes. A lowered flag snaps the
// monster home at once: state must read Stationary on every tick the world
// is normal.
func (c *Controller) OnWorldAbnormal(v bool) {
	c.worldAbnormal = v
	if !v {
		c.snapHome()
	}
}

// Start activates ticking.
func (c *Controller) Start() {
	c.running = true
	if IsDebugEnabled() {
		slog.Debug("monster controller started",
			"monsterID", c.monster.ID,
			"spawn", c.monster.Spawn())
	}
}

// Stop deactivates the controller, cancels any pending freeze timer and
// restores whatever the freeze captured. A controller torn down mid-effect
// must not leak a permanently frozen agent.
func (c *Controller) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if !c.running {
		return
	}
	c.running = false
	c.disablerRemaining = 0
	c.setFreeze(&c.disablerFrozen, false)
	c.setFreeze(&c.gazeFrozen, false)
}

// State returns the current behavior state.
func (c *Controller) State() State {
	return c.state
}

// Frozen reports whether any freeze source is active.
func (c *Controller) Frozen() bool {
	return c.gazeFrozen || c.disablerFrozen
}

// CurrentSpeed returns the effective movement speed this tick.
func (c *Controller) CurrentSpeed() float64 {
	return c.currentSpeed
}

// DisablerRemaining returns the seconds left on the disabler freeze.
func (c *Controller) DisablerRemaining() float64 {
	return c.disablerRemaining
}

// Monster returns the controlled body.
func (c *Controller) Monster() *Monster {
	return c.monster
}

// BeginReturn sends the monster back to its spawn point. A monster
// already anchored there is left alone.
func (c *Controller) BeginReturn() {
	c.beginReturn()
}

// ApplyDisabler starts (or restarts) the disabler freeze and requests a
// return to spawn. Re-applying restarts the timer; durations never stack.
func (c *Controller) ApplyDisabler() {
	c.disablerRemaining = c.cfg.DisablerFreezeDuration
	c.setFreeze(&c.disablerFrozen, true)
	c.beginReturn()

	if IsDebugEnabled() {
		slog.Debug("disabler applied",
			"monsterID", c.monster.ID,
			"duration", c.cfg.DisablerFreezeDuration)
	}
}

// Tick advances the controller by one simulation step. Vision is evaluated
// before any movement so the freshly computed watched state drives this
// tick's decisions.
func (c *Controller) Tick(frame uint64, dt float64) {
	if !c.running {
		return
	}

	isWatched := false
	if c.watched != nil && c.target != nil {
		isWatched = c.watched(frame)
	}
	if isWatched {
		c.timeSinceSeen = 0
	} else {
		c.timeSinceSeen += dt
	}

	gaze := isWatched
	if c.state == StateReturning && c.cfg.ReturningIgnoresVision {
		gaze = false
	}
	c.setFreeze(&c.gazeFrozen, gaze)

	if c.disablerFrozen {
		c.disablerRemaining -= dt
		if c.disablerRemaining <= 0 {
			c.disablerRemaining = 0
			c.setFreeze(&c.disablerFrozen, false)
		}
	}

	switch c.state {
	case StateStationary:
		c.tickStationary()
	case StateChasing:
		c.tickChasing(dt)
	case StateReturning:
		c.tickReturning(dt)
	}
}

func (c *Controller) tickStationary() {
	if !c.worldAbnormal || c.target == nil || c.Frozen() {
		return
	}
	if c.timeSinceSeen < c.cfg.VisionHoldDuration {
		return
	}
	if !c.activationAllows() {
		return
	}

	c.transition(StateChasing)
}

func (c *Controller) tickChasing(dt float64) {
	// Seen again within the hold window: disengage.
	if c.timeSinceSeen < c.cfg.VisionHoldDuration {
		if c.atSpawn() {
			c.snapHome()
		} else {
			c.beginReturn()
		}
		return
	}

	if r := c.cfg.ChaseLeashRadius; r > 0 && c.monster.DistanceToSpawnSq() > r*r {
		c.beginReturn()
		return
	}
	if !c.activationAllows() {
		c.beginReturn()
		return
	}

	targetPos := c.target.Position()
	if c.graph != nil {
		if path, ok := c.graph.FindPath(c.monster.Position(), targetPos); ok {
			c.motor.SetPath(path)
		} else {
			// Disconnected this tick; chase straight at the target.
			c.motor.ClearPath()
		}
	}
	c.motor.MoveToward(targetPos, c.currentSpeed, dt)

	// Contact kill while chasing.
	if c.monster.Bounds().Intersects(c.target.Bounds()) {
		c.target.Kill()
	}
}

func (c *Controller) tickReturning(dt float64) {
	if c.atSpawn() {
		c.snapHome()
		return
	}
	if c.Frozen() {
		return
	}
	c.motor.MoveToward(c.monster.Spawn(), c.currentSpeed, dt)
}

// activationAllows checks the target-to-spawn activation radius.
func (c *Controller) activationAllows() bool {
	r := c.cfg.ChaseActivationRadius
	if r <= 0 {
		return true
	}
	return c.target.Position().DistanceSqTo(c.monster.Spawn()) <= r*r
}

func (c *Controller) atSpawn() bool {
	d := c.cfg.ReturnDistance
	return c.monster.DistanceToSpawnSq() <= d*d
}

// beginReturn redirects the monster toward spawn unless it is already
// anchored there.
func (c *Controller) beginReturn() {
	if c.state == StateStationary && c.atSpawn() {
		return
	}
	if c.state != StateReturning {
		c.motor.ClearPath()
		c.transition(StateReturning)
	}
}

// snapHome anchors the monster at its exact spawn coordinates with zero
// velocity. Fires the reset notification when the monster was not already
// stationary.
func (c *Controller) snapHome() {
	wasAway := c.state != StateStationary
	c.motor.Warp(c.monster.Spawn())
	if wasAway {
		c.transition(StateStationary)
		if c.resetFn != nil {
			c.resetFn(c.monster.ID)
		}
	}
}

func (c *Controller) transition(to State) {
	if c.state == to {
		return
	}
	if IsDebugEnabled() {
		slog.Debug("monster state changed",
			"monsterID", c.monster.ID,
			"from", c.state.String(),
			"to", to.String())
	}
	c.state = to
}

// setFreeze flips one freeze source and reapplies the combined freeze
// state. The agent is frozen while either source holds; releasing one
// source does not release the other.
func (c *Controller) setFreeze(source *bool, active bool) {
	if *source == active {
		return
	}
	*source = active
	c.applyFreezeState()
}

func (c *Controller) applyFreezeState() {
	should := c.gazeFrozen || c.disablerFrozen
	switch {
	case should && !c.frozenApplied:
		c.frozenApplied = true
		c.currentSpeed = 0
		c.motor.Stop()
		if c.anim != nil {
			c.savedAnim = &animSnapshot{enabled: c.anim.Enabled(), speed: c.anim.Speed()}
			c.anim.SetEnabled(false)
			c.anim.SetSpeed(0)
		}
	case !should && c.frozenApplied:
		c.frozenApplied = false
		c.currentSpeed = c.cfg.DesiredSpeed
		c.motor.Resume()
		if c.anim != nil && c.savedAnim != nil {
			c.anim.SetEnabled(c.savedAnim.enabled)
			c.anim.SetSpeed(c.savedAnim.speed)
			c.savedAnim = nil
		}
	}
}
