package sim

import "github.com/noctua-games/duskfall/internal/geom"

// Snapshot is the immutable per-frame state capture published to
// observers such as the debug panel. Slices are freshly built each frame
// and never shared with live state.
type Snapshot struct {
	Frame    uint64  `json:"frame"`
	Elapsed  float64 `json:"elapsed"`
	Abnormal bool    `json:"abnormal"`
	DoorOpen bool    `json:"doorOpen"`

	Player   PlayerSnapshot    `json:"player"`
	Monsters []MonsterSnapshot `json:"monsters"`
}

// PlayerSnapshot is the observable player state.
type PlayerSnapshot struct {
	ID       uint32    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Wetness  float64   `json:"wetness"`
	EyesOpen bool      `json:"eyesOpen"`
	Dead     bool      `json:"dead"`
}

// MonsterSnapshot is the observable monster state.
type MonsterSnapshot struct {
	ID                uint32    `json:"id"`
	Position          geom.Vec3 `json:"position"`
	State             string    `json:"state"`
	Frozen            bool      `json:"frozen"`
	DisablerRemaining float64   `json:"disablerRemaining"`
}
