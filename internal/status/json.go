package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/climate-controller/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Mode          string         `json:"mode"`
	Selection     string         `json:"selection"`
	Ready         bool           `json:"ready"`
	Temperature   int            `json:"temperature"`
	Humidity      int            `json:"humidity"`
	Thresholds    ThresholdsJSON `json:"thresholds"`
	Irrigation    string         `json:"irrigation"`
	Cooling       string         `json:"cooling"`
	Heating       string         `json:"heating"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Config        ConfigJSON     `json:"config"`
}

// ThresholdsJSON is the JSON representation of the editable thresholds.
type ThresholdsJSON struct {
	TempMin  int `json:"temp_min"`
	TempMax  int `json:"temp_max"`
	HumidMin int `json:"humid_min"`
	HumidMax int `json:"humid_max"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	IrrigationOn  int `json:"irrigation_on"`
	IrrigationOff int `json:"irrigation_off"`
	CoolingOn     int `json:"cooling_on"`
	CoolingOff    int `json:"cooling_off"`
	HeatingOn     int `json:"heating_on"`
	HeatingOff    int `json:"heating_off"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Backend     string `json:"backend"`
	DwellMs     int64  `json:"dwell_ms"`
	HoldMs      int64  `json:"hold_ms"`
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Mode)
	if mode == "" {
		mode = string(logic.ModeMonitoring)
	}

	return StatusInner{
		Mode:        mode,
		Selection:   snap.Selection.String(),
		Ready:       snap.Ready,
		Temperature: snap.Reading.Temperature,
		Humidity:    snap.Reading.Humidity,
		Thresholds: ThresholdsJSON{
			TempMin:  snap.Thresholds.TempMin,
			TempMax:  snap.Thresholds.TempMax,
			HumidMin: snap.Thresholds.HumidMin,
			HumidMax: snap.Thresholds.HumidMax,
		},
		Irrigation:    string(logic.StateOf(snap.Actuators.Irrigate)),
		Cooling:       string(logic.StateOf(snap.Actuators.Cool)),
		Heating:       string(logic.StateOf(snap.Actuators.Heat)),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			IrrigationOn:  snap.Counts.IrrigationOn,
			IrrigationOff: snap.Counts.IrrigationOff,
			CoolingOn:     snap.Counts.CoolingOn,
			CoolingOff:    snap.Counts.CoolingOff,
			HeatingOn:     snap.Counts.HeatingOn,
			HeatingOff:    snap.Counts.HeatingOff,
		},
		Config: ConfigJSON{
			Backend:     snap.Config.Backend,
			DwellMs:     snap.Config.DwellMs,
			HoldMs:      snap.Config.HoldMs,
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
