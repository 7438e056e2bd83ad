// Package sim runs the fixed-tick simulation loop. All game state is
// owned by the loop goroutine; outside callers reach it only through
// enqueued commands and published snapshots.
package sim

import (
	"context"
	"log/slog"
	"time"
)

// Ticker is one simulation subsystem advanced every frame.
type Ticker interface {
	Tick(frame uint64, dt float64)
}

// TickerFunc adapts a function to the Ticker interface.
type TickerFunc func(frame uint64, dt float64)

// Tick implements Ticker.
func (f TickerFunc) Tick(frame uint64, dt float64) { f(frame, dt) }

// commandQueueSize bounds pending cross-goroutine commands; enqueue never
// blocks the caller.
const commandQueueSize = 64

// Loop drives registered tickers at a fixed rate and publishes one
// snapshot per frame.
type Loop struct {
	dt      float64
	rate    int
	frame   uint64
	elapsed float64

	tickers  []Ticker
	commands chan func()

	snapshotFn func(frame uint64, elapsed float64) Snapshot
	publishFn  func(Snapshot)
	restartFn  func()
}

// NewLoop creates a loop running at tickRate frames per second.
func NewLoop(tickRate int) *Loop {
	if tickRate <= 0 {
		tickRate = 30
	}
	return &Loop{
		dt:       1.0 / float64(tickRate),
		rate:     tickRate,
		commands: make(chan func(), commandQueueSize),
	}
}

// Register appends a ticker. Tickers run every frame in registration
// order.
func (l *Loop) Register(t Ticker) {
	l.tickers = append(l.tickers, t)
}

// SetSnapshotFunc installs the per-frame state capture.
func (l *Loop) SetSnapshotFunc(fn func(frame uint64, elapsed float64) Snapshot) {
	l.snapshotFn = fn
}

// SetPublishFunc installs the snapshot consumer. It runs on the loop
// goroutine and must not block.
func (l *Loop) SetPublishFunc(fn func(Snapshot)) {
	l.publishFn = fn
}

// SetRestartFunc installs the scene-restart handler.
func (l *Loop) SetRestartFunc(fn func()) {
	l.restartFn = fn
}

// Enqueue schedules fn to run on the loop goroutine at the next frame
// boundary. It never blocks; when the queue is full the command is
// dropped with a warning.
func (l *Loop) Enqueue(fn func()) {
	select {
	case l.commands <- fn:
	default:
		slog.Warn("sim command queue full, dropping command")
	}
}

// RequestRestart schedules a scene restart at the next frame boundary.
func (l *Loop) RequestRestart() {
	l.Enqueue(func() {
		if l.restartFn != nil {
			slog.Info("scene restart requested")
			l.restartFn()
		}
	})
}

// Frame returns the last completed frame number.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Step advances exactly one frame: pending commands first, then every
// ticker, then the snapshot. Exposed so tests can drive the loop
// deterministically.
func (l *Loop) Step() {
	for {
		select {
		case fn := <-l.commands:
			fn()
			continue
		default:
		}
		break
	}

	l.frame++
	l.elapsed += l.dt
	for _, t := range l.tickers {
		t.Tick(l.frame, l.dt)
	}

	if l.snapshotFn != nil && l.publishFn != nil {
		l.publishFn(l.snapshotFn(l.frame, l.elapsed))
	}
}

// Run blocks stepping the loop at the configured rate until ctx is
// canceled.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / float64(l.rate))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation loop started", "tickRate", l.rate)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping")
			return ctx.Err()

		case <-ticker.C:
			l.Step()
		}
	}
}
