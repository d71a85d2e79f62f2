// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/climate-controller/internal/logic"
)

// Topic is the MQTT topic for actuator events.
const Topic = "climate/controller/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "climate/controller/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an actuator event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown,
// heartbeat, thresholds).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Controller ControllerPayload `json:"controller"`
}

// ControllerPayload contains the actuator event details.
type ControllerPayload struct {
	Timestamp   string        `json:"timestamp"`
	Event       string        `json:"event"`
	Temperature int           `json:"temperature"`
	Humidity    int           `json:"humidity"`
	Irrigation  ActuatorState `json:"irrigation"`
	Cooling     ActuatorState `json:"cooling"`
	Heating     ActuatorState `json:"heating"`
}

// ActuatorState represents a single output's state.
type ActuatorState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for an actuator event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Controller: ControllerPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			Temperature: event.Reading.Temperature,
			Humidity:    event.Reading.Humidity,
			Irrigation:  ActuatorState{State: string(logic.StateOf(event.Actuators.Irrigate))},
			Cooling:     ActuatorState{State: string(logic.StateOf(event.Actuators.Cool))},
			Heating:     ActuatorState{State: string(logic.StateOf(event.Actuators.Heat))},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the payload for simple system events (LWT, SHUTDOWN)
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}
