// Package status provides a thread-safe status tracker for the climate
// controller. It is read by the HTTP handlers and used to build MQTT
// status events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/climate-controller/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Backend     string
	DwellMs     int64
	HoldMs      int64
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Reading       logic.Reading
	Thresholds    logic.Thresholds
	Actuators     logic.ActuatorState
	Mode          logic.Mode
	Selection     logic.Selection
	Ready         bool // a sensor reading has been taken
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetClock replaces the time source used to stamp snapshots.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// Update records the controller state and event counts.
// Called from the control loop after every evaluation and menu step.
func (t *Tracker) Update(state logic.ControllerState, ready bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Reading = state.Reading
	t.snap.Thresholds = state.Thresholds
	t.snap.Actuators = state.Actuators
	t.snap.Mode = state.Mode
	t.snap.Selection = state.Selection
	t.snap.Ready = ready
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set from the tracker's clock at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	now := t.now
	t.mu.RUnlock()
	s.Now = now()
	return s
}
