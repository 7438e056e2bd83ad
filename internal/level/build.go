package level

import (
	"fmt"
	"log/slog"

	"github.com/noctua-games/duskfall/internal/ai"
	"github.com/noctua-games/duskfall/internal/config"
	"github.com/noctua-games/duskfall/internal/geom"
	"github.com/noctua-games/duskfall/internal/motor"
	"github.com/noctua-games/duskfall/internal/nav"
	"github.com/noctua-games/duskfall/internal/player"
	"github.com/noctua-games/duskfall/internal/sim"
	"github.com/noctua-games/duskfall/internal/trigger"
	"github.com/noctua-games/duskfall/internal/vision"
	"github.com/noctua-games/duskfall/internal/worldstate"
)

const playerID = 1

var (
	defaultPlayerExtents  = geom.Vec3{X: 0.35, Y: 0.9, Z: 0.35}
	defaultMonsterExtents = geom.Vec3{X: 0.5, Y: 1, Z: 0.5}
)

// Scene is one assembled level: every live system plus the loop driving
// them.
type Scene struct {
	Name     string
	World    *worldstate.Broadcaster
	Player   *player.Player
	Vision   *vision.Tester
	Graph    *nav.Graph
	Manager  *ai.Manager
	Triggers *trigger.System
	Lock     *trigger.LockPuzzle
	Loop     *sim.Loop

	doorOpen bool
	tunables *config.Tunables
	file     File
}

// DoorOpen reports whether the exit door has been unlocked by solving the
// lock puzzle. Like consumed pickups, an opened door survives scene resets.
func (s *Scene) DoorOpen() bool {
	return s.doorOpen
}

// Build assembles a scene from its description. tun supplies the live
// designer tunables; tickRate drives the loop.
func Build(f File, tun *config.Tunables, tickRate int) (*Scene, error) {
	s := &Scene{
		Name:     f.Name,
		World:    worldstate.NewBroadcaster(),
		Manager:  ai.NewManager(),
		Triggers: &trigger.System{},
		tunables: tun,
		file:     f,
	}

	s.Player = player.New(playerID, f.Player.Spawn.vec(), orDefault(f.Player.Extents.vec(), defaultPlayerExtents))
	s.Player.SetKilledFunc(func(p *player.Player) {
		slog.Info("player caught", "playerID", p.ID)
		s.Loop.RequestRestart()
	})

	occluders := make([]vision.Occluder, 0, len(f.Occluders))
	for _, o := range f.Occluders {
		occluders = append(occluders, vision.Occluder{
			OwnerID: o.OwnerID,
			Bounds:  geom.NewAABB(o.Min.vec(), o.Max.vec()),
			Layers:  vision.Mask(o.Layers),
		})
	}

	s.Vision = vision.NewTester(s.Player)
	s.Vision.MaxDistance = f.Vision.MaxDistance
	s.Vision.OcclusionMask = vision.Mask(f.Vision.OcclusionMask)
	s.Vision.Caster = vision.NewBoxWorld(occluders...)

	if f.NavGraphPath != "" {
		g, err := nav.LoadGraph(f.NavGraphPath)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", f.Name, err)
		}
		s.Graph = g
	}

	cfg := monsterConfig(tun)
	for _, m := range f.Monsters {
		mon := ai.NewMonster(m.ID, m.Spawn.vec(), orDefault(m.Extents.vec(), defaultMonsterExtents))
		mot := motor.New(mon, nil)
		watched := func(frame uint64) bool {
			return s.Vision.CanSee(frame, vision.Target{ID: mon.ID, Bounds: mon.Bounds()})
		}
		ctrl := ai.NewController(mon, cfg, mot, s.Player, watched)
		ctrl.SetGraph(s.Graph)
		ctrl.SetResetFunc(func(monsterID uint32) {
			slog.Info("monster re-anchored", "monsterID", monsterID)
		})
		ctrl.BindWorldState(s.World)
		s.Manager.Register(m.ID, ctrl)
	}

	if err := s.buildTriggers(f); err != nil {
		return nil, err
	}

	loop := sim.NewLoop(tickRate)
	loop.Register(sim.TickerFunc(func(frame uint64, dt float64) {
		s.Player.Tick(dt)
	}))
	loop.Register(sim.TickerFunc(func(frame uint64, dt float64) {
		s.Triggers.Update(s.Player.Position())
	}))
	loop.Register(sim.TickerFunc(s.Manager.TickAll))
	loop.SetSnapshotFunc(s.snapshot)
	loop.SetRestartFunc(s.reset)
	s.Loop = loop

	slog.Info("level built",
		"name", f.Name,
		"monsters", s.Manager.Count(),
		"occluders", len(occluders))
	return s, nil
}

func (s *Scene) buildTriggers(f File) error {
	for _, v := range f.Triggers.AbnormalVolumes {
		value := v.Value
		s.Triggers.AddVolume(&trigger.Volume{
			Name:    v.Name,
			Bounds:  geom.NewAABB(v.Min.vec(), v.Max.vec()),
			OnEnter: func() { s.World.Set(value) },
		})
	}

	for _, p := range f.Triggers.DisablerPickups {
		ctrl, err := s.Manager.Get(p.MonsterID)
		if err != nil {
			return fmt.Errorf("level %s: disabler pickup %q: %w", f.Name, p.Name, err)
		}
		s.Triggers.AddPickup(&trigger.Pickup{
			Name:     p.Name,
			Bounds:   geom.NewAABB(p.Min.vec(), p.Max.vec()),
			OnPickup: ctrl.ApplyDisabler,
		})
	}

	s.Lock = trigger.NewLockPuzzle(f.Triggers.LockSequence)
	s.Lock.OnUnlock = func() {
		s.doorOpen = true
		slog.Info("exit door unlocked", "level", f.Name)
	}
	for _, k := range f.Triggers.KeyPickups {
		key := k.Key
		if key == "" {
			key = k.Name
		}
		s.Triggers.AddPickup(&trigger.Pickup{
			Name:     k.Name,
			Bounds:   geom.NewAABB(k.Min.vec(), k.Max.vec()),
			OnPickup: func() { s.Lock.Insert(key) },
		})
	}
	return nil
}

// ApplyTunables re-reads the tunables into every live agent. Runs on the
// loop goroutine at a frame boundary.
func (s *Scene) ApplyTunables() {
	if s.tunables == nil {
		return
	}
	cfg := monsterConfig(s.tunables)
	s.Manager.ForEach(func(c *ai.Controller) {
		c.SetConfig(cfg)
	})
	s.Player.WalkSpeed = s.tunables.Float("player.walk_speed", player.DefaultWalkSpeed)
	s.Player.Eyes.DrainPerSecond = s.tunables.Float("eyes.drain_per_second", player.DefaultWetnessDrainPerSecond)
	s.Player.Eyes.BlinkDuration = s.tunables.Float("eyes.blink_duration", player.DefaultBlinkDuration)
	slog.Info("tunables applied", "monsters", s.Manager.Count())
}

// reset restores the scene after a player death or a panel restart:
// world back to normal (which re-anchors every monster) and the player
// revived at spawn. Consumed pickups stay consumed.
func (s *Scene) reset() {
	s.World.Set(false)
	s.Player.SetPosition(s.file.Player.Spawn.vec())
	s.Player.Revive()
	slog.Info("scene reset", "name", s.Name)
}

func (s *Scene) snapshot(frame uint64, elapsed float64) sim.Snapshot {
	snap := sim.Snapshot{
		Frame:    frame,
		Elapsed:  elapsed,
		Abnormal: s.World.Abnormal(),
		DoorOpen: s.doorOpen,
		Player: sim.PlayerSnapshot{
			ID:       s.Player.ID,
			Position: s.Player.Position(),
			Wetness:  s.Player.Eyes.Wetness(),
			EyesOpen: s.Player.EyesOpen(),
			Dead:     s.Player.Dead(),
		},
	}
	s.Manager.ForEach(func(c *ai.Controller) {
		snap.Monsters = append(snap.Monsters, sim.MonsterSnapshot{
			ID:                c.Monster().ID,
			Position:          c.Monster().Position(),
			State:             c.State().String(),
			Frozen:            c.Frozen(),
			DisablerRemaining: c.DisablerRemaining(),
		})
	})
	return snap
}

// monsterConfig reads the monster tuning from the tunables blob, falling
// back to the consolidated defaults key by key.
func monsterConfig(tun *config.Tunables) ai.Config {
	def := ai.DefaultConfig()
	if tun == nil {
		return def
	}
	return ai.Config{
		DesiredSpeed:           tun.Float("monster.desired_speed", def.DesiredSpeed),
		VisionHoldDuration:     tun.Float("monster.vision_hold_duration", def.VisionHoldDuration),
		ChaseActivationRadius:  tun.Float("monster.chase_activation_radius", def.ChaseActivationRadius),
		ChaseLeashRadius:       tun.Float("monster.chase_leash_radius", def.ChaseLeashRadius),
		ReturnDistance:         tun.Float("monster.return_distance", def.ReturnDistance),
		DisablerFreezeDuration: tun.Float("monster.disabler_freeze_duration", def.DisablerFreezeDuration),
		ReturningIgnoresVision: tun.Bool("monster.returning_ignores_vision", def.ReturningIgnoresVision),
	}
}

func orDefault(v, def geom.Vec3) geom.Vec3 {
	if v == (geom.Vec3{}) {
		return def
	}
	return v
}
