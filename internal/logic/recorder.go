package logic

import "time"

// Recorder turns successive actuator states into transition events and
// keeps counts for heartbeats. All outputs are assumed off at start.
type Recorder struct {
	last          ActuatorState
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewRecorder creates a Recorder. The startTime is used for calculating
// uptime in heartbeat events.
func NewRecorder(startTime time.Time) *Recorder {
	return &Recorder{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process compares state with the previous one and returns an event per
// actuator that changed, in the order irrigation, cooling, heating.
func (r *Recorder) Process(state ActuatorState, reading Reading, now time.Time) []Event {
	var events []Event

	emit := func(was, is bool, on, off EventType) {
		if was == is {
			return
		}
		t := off
		if is {
			t = on
		}
		events = append(events, Event{
			Timestamp: now,
			Type:      t,
			Reading:   reading,
			Actuators: state,
		})
	}

	emit(r.last.Irrigate, state.Irrigate, EventIrrigationOn, EventIrrigationOff)
	emit(r.last.Cool, state.Cool, EventCoolingOn, EventCoolingOff)
	emit(r.last.Heat, state.Heat, EventHeatingOn, EventHeatingOff)
	r.last = state

	// Count events
	for _, e := range events {
		switch e.Type {
		case EventIrrigationOn:
			r.eventCounts.IrrigationOn++
		case EventIrrigationOff:
			r.eventCounts.IrrigationOff++
		case EventCoolingOn:
			r.eventCounts.CoolingOn++
		case EventCoolingOff:
			r.eventCounts.CoolingOff++
		case EventHeatingOn:
			r.eventCounts.HeatingOn++
		case EventHeatingOff:
			r.eventCounts.HeatingOff++
		}
	}

	return events
}

// EventCountsSnapshot returns a copy of the counts.
func (r *Recorder) EventCountsSnapshot() EventCounts {
	return r.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (r *Recorder) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(r.lastHeartbeat) < interval {
		return nil
	}

	r.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(r.startTime),
		Counts:    r.eventCounts,
	}
}
