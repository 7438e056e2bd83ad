// Package level loads the scene description and assembles the running
// simulation from it: world state, player, monsters, triggers and the
// tick loop, all wired through constructors.
package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noctua-games/duskfall/internal/geom"
)

// File mirrors the level YAML authoring format.
type File struct {
	Name string `yaml:"name"`

	Player PlayerDef `yaml:"player"`
	Vision VisionDef `yaml:"vision"`

	Monsters []MonsterDef `yaml:"monsters"`

	// Optional waypoint graph file. Empty means direct-line pursuit only.
	NavGraphPath string `yaml:"nav_graph_path"`

	Occluders []OccluderDef `yaml:"occluders"`
	Triggers  TriggersDef   `yaml:"triggers"`
}

// PlayerDef places the player. Zero extents fall back to defaults.
type PlayerDef struct {
	Spawn   vec3F `yaml:"spawn"`
	Extents vec3F `yaml:"extents"`
}

// VisionDef tunes the player's detection envelope.
type VisionDef struct {
	MaxDistance   float64 `yaml:"max_distance"`
	OcclusionMask uint32  `yaml:"occlusion_mask"`
}

// MonsterDef places one monster. Zero extents fall back to defaults.
type MonsterDef struct {
	ID      uint32 `yaml:"id"`
	Spawn   vec3F  `yaml:"spawn"`
	Extents vec3F  `yaml:"extents"`
}

// OccluderDef is one sight-blocking box.
type OccluderDef struct {
	OwnerID uint32 `yaml:"owner_id"`
	Min     vec3F  `yaml:"min"`
	Max     vec3F  `yaml:"max"`
	Layers  uint32 `yaml:"layers"`
}

// TriggersDef holds the level scripting.
type TriggersDef struct {
	AbnormalVolumes []VolumeDef `yaml:"abnormal_volumes"`
	DisablerPickups []PickupDef `yaml:"disabler_pickups"`
	KeyPickups      []KeyDef    `yaml:"key_pickups"`
	LockSequence    []string    `yaml:"lock_sequence"`
}

// VolumeDef sets the world-abnormal flag on entry.
type VolumeDef struct {
	Name  string `yaml:"name"`
	Min   vec3F  `yaml:"min"`
	Max   vec3F  `yaml:"max"`
	Value bool   `yaml:"value"`
}

// PickupDef applies the disabler effect to one monster on pickup.
type PickupDef struct {
	Name      string `yaml:"name"`
	Min       vec3F  `yaml:"min"`
	Max       vec3F  `yaml:"max"`
	MonsterID uint32 `yaml:"monster_id"`
}

// KeyDef places one lock-puzzle key item. An empty Key falls back to the
// pickup name.
type KeyDef struct {
	Name string `yaml:"name"`
	Min  vec3F  `yaml:"min"`
	Max  vec3F  `yaml:"max"`
	Key  string `yaml:"key"`
}

type vec3F struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v vec3F) vec() geom.Vec3 {
	return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// LoadFile reads a level description from a YAML file.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading level %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing level %s: %w", path, err)
	}
	if len(f.Monsters) == 0 {
		return f, fmt.Errorf("level %s: no monsters defined", path)
	}
	return f, nil
}
