package ai

import (
	"fmt"
	"log/slog"
)

// Manager owns every monster controller in a level and ticks them in
// registration order, so runs with the same inputs produce the same
// sequence of decisions. The simulation loop drives it; the manager has
// no clock of its own.
type Manager struct {
	byID  map[uint32]*Controller
	order []uint32
}

// NewManager creates an empty controller manager.
func NewManager() *Manager {
	return &Manager{byID: make(map[uint32]*Controller)}
}

// Register adds a controller and starts it. Registering the same monster
// ID twice replaces the old controller after stopping it.
func (m *Manager) Register(monsterID uint32, c *Controller) {
	if old, ok := m.byID[monsterID]; ok {
		old.Stop()
		m.byID[monsterID] = c
		c.Start()
		return
	}
	m.byID[monsterID] = c
	m.order = append(m.order, monsterID)
	c.Start()

	slog.Debug("monster controller registered", "monsterID", monsterID)
}

// Unregister stops and removes a controller.
func (m *Manager) Unregister(monsterID uint32) {
	c, ok := m.byID[monsterID]
	if !ok {
		return
	}
	c.Stop()
	delete(m.byID, monsterID)
	for i, id := range m.order {
		if id == monsterID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	slog.Debug("monster controller unregistered", "monsterID", monsterID)
}

// TickAll advances every controller by one simulation step.
func (m *Manager) TickAll(frame uint64, dt float64) {
	for _, id := range m.order {
		m.byID[id].Tick(frame, dt)
	}
}

// Count returns the number of registered controllers.
func (m *Manager) Count() int {
	return len(m.order)
}

// Get returns the controller for a monster.
func (m *Manager) Get(monsterID uint32) (*Controller, error) {
	c, ok := m.byID[monsterID]
	if !ok {
		return nil, fmt.Errorf("no controller for monster %d", monsterID)
	}
	return c, nil
}

// ForEach visits every controller in registration order.
func (m *Manager) ForEach(fn func(*Controller)) {
	for _, id := range m.order {
		fn(m.byID[id])
	}
}

// StopAll stops every controller, releasing timers and subscriptions.
func (m *Manager) StopAll() {
	for _, id := range m.order {
		m.byID[id].Stop()
	}
}
