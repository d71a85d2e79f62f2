package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/climate-controller/internal/logic"
)

func sampleEvent() logic.Event {
	return logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      logic.EventIrrigationOn,
		Reading:   logic.Reading{Temperature: 24, Humidity: 55},
		Actuators: logic.ActuatorState{Irrigate: true},
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	c := parsed.Controller
	if c.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", c.Timestamp)
	}
	if c.Event != "IRRIGATION_ON" {
		t.Errorf("unexpected event: %s", c.Event)
	}
	if c.Temperature != 24 || c.Humidity != 55 {
		t.Errorf("unexpected reading: %d / %d", c.Temperature, c.Humidity)
	}
	if c.Irrigation.State != "ON" || c.Cooling.State != "OFF" || c.Heating.State != "OFF" {
		t.Errorf("unexpected states: %+v", c)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	payload, err := FormatPayload(sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"controller":{"timestamp":"2026-02-02T22:18:12Z","event":"IRRIGATION_ON","temperature":24,"humidity":55,` +
		`"irrigation":{"state":"ON"},"cooling":{"state":"OFF"},"heating":{"state":"OFF"}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadAllEventTypes(t *testing.T) {
	tests := []struct {
		eventType logic.EventType
		state     logic.ActuatorState
		wantIrr   string
		wantCool  string
		wantHeat  string
	}{
		{logic.EventIrrigationOn, logic.ActuatorState{Irrigate: true}, "ON", "OFF", "OFF"},
		{logic.EventIrrigationOff, logic.ActuatorState{Heat: true}, "OFF", "OFF", "ON"},
		{logic.EventCoolingOn, logic.ActuatorState{Cool: true}, "OFF", "ON", "OFF"},
		{logic.EventCoolingOff, logic.ActuatorState{Irrigate: true}, "ON", "OFF", "OFF"},
		{logic.EventHeatingOn, logic.ActuatorState{Heat: true, Irrigate: true}, "ON", "OFF", "ON"},
		{logic.EventHeatingOff, logic.ActuatorState{}, "OFF", "OFF", "OFF"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			event := logic.Event{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				Actuators: tt.state,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			c := parsed.Controller
			if c.Event != string(tt.eventType) {
				t.Errorf("event: got %s, want %s", c.Event, tt.eventType)
			}
			if c.Irrigation.State != tt.wantIrr {
				t.Errorf("irrigation: got %s, want %s", c.Irrigation.State, tt.wantIrr)
			}
			if c.Cooling.State != tt.wantCool {
				t.Errorf("cooling: got %s, want %s", c.Cooling.State, tt.wantCool)
			}
			if c.Heating.State != tt.wantHeat {
				t.Errorf("heating: got %s, want %s", c.Heating.State, tt.wantHeat)
			}
		})
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != logic.EventIrrigationOn {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(sampleEvent()); err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherSystem(t *testing.T) {
	f := NewFakePublisher()

	err := f.PublishSystem(SystemEvent{Event: "THRESHOLDS", RawPayload: []byte(`{"x":1}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "THRESHOLDS" {
		t.Fatalf("unexpected system events: %+v", f.SystemEvents)
	}
	if string(f.SystemPayloads[0]) != `{"x":1}` {
		t.Errorf("raw payload not passed through: %s", f.SystemPayloads[0])
	}
	if got := f.SystemEventNames(); len(got) != 1 || got[0] != "THRESHOLDS" {
		t.Errorf("unexpected names: %v", got)
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(sampleEvent())
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.PublishError = errors.New("test")
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed || f.Connected {
		t.Error("flags should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
}

func TestTopics(t *testing.T) {
	if Topic != "climate/controller/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "climate/controller/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadAllSignals(t *testing.T) {
	for _, reason := range []string{"SIGTERM", "SIGINT", "UNKNOWN"} {
		t.Run(reason, func(t *testing.T) {
			payload, err := FormatSystemPayload(SystemEvent{
				Timestamp: time.Now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed SystemPayload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.System.Reason != reason {
				t.Errorf("reason: got %s, want %s", parsed.System.Reason, reason)
			}
		})
	}
}

// The last will is formatted at connect time, long before it is sent,
// so it carries no timestamp.
func TestFormatSystemPayloadWillOmitsTimestamp(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"event":"OFFLINE"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}
