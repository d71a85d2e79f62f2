// Package logic contains the pure control logic of the climate controller.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Sensor ranges. Thresholds are held inside these.
const (
	TemperatureMin = -40
	TemperatureMax = 125
	HumidityMin    = 0
	HumidityMax    = 100
)

// Reading is one sample of both probes.
type Reading struct {
	Temperature int // °C
	Humidity    int // %RH
}

// Thresholds are the four user-editable set points.
type Thresholds struct {
	TempMin  int
	TempMax  int
	HumidMin int
	HumidMax int
}

// DefaultThresholds returns the factory set points.
func DefaultThresholds() Thresholds {
	return Thresholds{TempMin: 13, TempMax: 26, HumidMin: 60, HumidMax: 80}
}

// ActuatorState is the commanded state of the three outputs.
type ActuatorState struct {
	Irrigate bool
	Cool     bool
	Heat     bool
}

// Selection is the menu function chosen on the 3-bit selector.
type Selection int

const (
	SelectMonitor Selection = iota
	SelectTempMin
	SelectTempMax
	SelectHumidMin
	SelectHumidMax
)

func (s Selection) String() string {
	switch s {
	case SelectMonitor:
		return "monitor"
	case SelectTempMin:
		return "temp_min"
	case SelectTempMax:
		return "temp_max"
	case SelectHumidMin:
		return "humid_min"
	case SelectHumidMax:
		return "humid_max"
	}
	return "unknown"
}

// Mode is the top-level controller state.
type Mode string

const (
	ModeMonitoring Mode = "MONITORING"
	ModeEditing    Mode = "EDITING"
)

// State represents the logical state of an actuator.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// StateOf converts an actuator flag to a State.
func StateOf(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}

// EventType represents an actuator transition.
type EventType string

const (
	EventIrrigationOn  EventType = "IRRIGATION_ON"
	EventIrrigationOff EventType = "IRRIGATION_OFF"
	EventCoolingOn     EventType = "COOLING_ON"
	EventCoolingOff    EventType = "COOLING_OFF"
	EventHeatingOn     EventType = "HEATING_ON"
	EventHeatingOff    EventType = "HEATING_OFF"
)

// Event represents an actuator transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Reading   Reading
	Actuators ActuatorState
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	IrrigationOn  int
	IrrigationOff int
	CoolingOn     int
	CoolingOff    int
	HeatingOn     int
	HeatingOff    int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// ControllerState is everything the control loop carries between
// iterations. Thresholds is the only part shared between monitoring and
// editing.
type ControllerState struct {
	Thresholds Thresholds
	Actuators  ActuatorState
	Reading    Reading
	Mode       Mode
	Selection  Selection
}

// NewControllerState starts in monitoring mode with all actuators off.
func NewControllerState(th Thresholds) *ControllerState {
	th.Normalize()
	return &ControllerState{
		Thresholds: th,
		Mode:       ModeMonitoring,
		Selection:  SelectMonitor,
	}
}
