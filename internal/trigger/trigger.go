// Package trigger holds the level scripting primitives: volumes that fire
// on entry and exit, one-shot pickups, and ordered lock puzzles. Effects
// are injected callbacks so the package stays independent of what a
// trigger actually does.
package trigger

import (
	"log/slog"

	"github.com/noctua-games/duskfall/internal/geom"
)

// Volume is a region that fires edge-triggered callbacks as a tracked
// point enters and leaves it.
type Volume struct {
	Name    string
	Bounds  geom.AABB
	OnEnter func()
	OnExit  func()

	inside bool
}

// Update advances the volume against the tracked position.
func (v *Volume) Update(p geom.Vec3) {
	now := v.Bounds.Contains(p)
	if now == v.inside {
		return
	}
	v.inside = now
	if now {
		slog.Debug("trigger volume entered", "name", v.Name)
		if v.OnEnter != nil {
			v.OnEnter()
		}
	} else {
		slog.Debug("trigger volume exited", "name", v.Name)
		if v.OnExit != nil {
			v.OnExit()
		}
	}
}

// Inside reports whether the tracked point was inside at the last Update.
func (v *Volume) Inside() bool {
	return v.inside
}

// Pickup is a one-shot interactable: the first time the tracked point
// enters its bounds the callback fires and the pickup is consumed.
type Pickup struct {
	Name     string
	Bounds   geom.AABB
	OnPickup func()

	consumed bool
}

// Update consumes the pickup when the tracked point is inside its bounds.
func (p *Pickup) Update(pos geom.Vec3) {
	if p.consumed || !p.Bounds.Contains(pos) {
		return
	}
	p.consumed = true
	slog.Debug("pickup consumed", "name", p.Name)
	if p.OnPickup != nil {
		p.OnPickup()
	}
}

// Consumed reports whether the pickup has been taken.
func (p *Pickup) Consumed() bool {
	return p.consumed
}

// LockPuzzle accepts key items in a fixed order. A wrong key resets
// progress; the full sequence unlocks it once, firing the callback.
type LockPuzzle struct {
	sequence []string
	progress int
	unlocked bool

	OnUnlock func()
}

// NewLockPuzzle creates a puzzle requiring keys in the given order. An
// empty sequence is already unlocked.
func NewLockPuzzle(sequence []string) *LockPuzzle {
	return &LockPuzzle{
		sequence: sequence,
		unlocked: len(sequence) == 0,
	}
}

// Insert feeds one key. It returns true when the key advanced the
// sequence. Inserting into an unlocked puzzle is a no-op.
func (l *LockPuzzle) Insert(key string) bool {
	if l.unlocked {
		return false
	}
	if key != l.sequence[l.progress] {
		// Restart, crediting the key if it matches the first slot.
		l.progress = 0
		if key == l.sequence[0] {
			l.progress = 1
		}
		if l.progress == 0 {
			return false
		}
	} else {
		l.progress++
	}

	if l.progress == len(l.sequence) {
		l.unlocked = true
		slog.Info("lock puzzle solved")
		if l.OnUnlock != nil {
			l.OnUnlock()
		}
	}
	return true
}

// Unlocked reports whether the full sequence has been entered.
func (l *LockPuzzle) Unlocked() bool {
	return l.unlocked
}

// System ticks every registered trigger against one tracked position.
type System struct {
	volumes []*Volume
	pickups []*Pickup
}

// AddVolume registers a volume.
func (s *System) AddVolume(v *Volume) {
	s.volumes = append(s.volumes, v)
}

// AddPickup registers a pickup.
func (s *System) AddPickup(p *Pickup) {
	s.pickups = append(s.pickups, p)
}

// Update advances every trigger with the tracked position, in
// registration order.
func (s *System) Update(pos geom.Vec3) {
	for _, v := range s.volumes {
		v.Update(pos)
	}
	for _, p := range s.pickups {
		p.Update(pos)
	}
}
