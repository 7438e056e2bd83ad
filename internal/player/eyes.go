package player

// Eye resource defaults, in seconds of open time and blink length.
const (
	DefaultWetnessDrainPerSecond = 0.08
	DefaultBlinkDuration         = 0.2
)

// Eyes models the blink resource. Wetness drains while the eyes are held
// open; a blink closes them for a short beat and restores wetness. Hitting
// zero wetness forces a blink. While closed the player sees nothing, which
// feeds the first gate of every visibility query.
type Eyes struct {
	DrainPerSecond float64
	BlinkDuration  float64

	wetness        float64 // 0..1
	blinkRemaining float64 // seconds of closure left
}

// NewEyes returns fully wet, open eyes with default tuning.
func NewEyes() *Eyes {
	return &Eyes{
		DrainPerSecond: DefaultWetnessDrainPerSecond,
		BlinkDuration:  DefaultBlinkDuration,
		wetness:        1,
	}
}

// Open reports whether the eyes are open this tick.
func (e *Eyes) Open() bool {
	return e.blinkRemaining <= 0
}

// Wetness returns the remaining resource in [0,1].
func (e *Eyes) Wetness() float64 {
	return e.wetness
}

// Blink voluntarily closes the eyes. A blink already in progress restarts
// rather than extends.
func (e *Eyes) Blink() {
	e.blinkRemaining = e.BlinkDuration
}

// Tick advances the resource by dt seconds.
func (e *Eyes) Tick(dt float64) {
	if e.blinkRemaining > 0 {
		e.blinkRemaining -= dt
		if e.blinkRemaining <= 0 {
			e.blinkRemaining = 0
			e.wetness = 1
		}
		return
	}

	e.wetness -= e.DrainPerSecond * dt
	if e.wetness <= 0 {
		e.wetness = 0
		// Dry eyes blink on their own.
		e.Blink()
	}
}
