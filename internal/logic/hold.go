package logic

import "time"

// HoldDetector reports when a button has been held down continuously for
// a fixed duration. It fires once per press, and only after the button
// has been seen released at least once, so a button stuck at boot (or
// still held when the detector is reset) cannot trigger it.
type HoldDetector struct {
	hold         time.Duration
	armed        bool
	pressed      bool
	pressedSince time.Time
	fired        bool
}

// NewHoldDetector creates a detector for the given hold duration.
// A zero duration fires on the first pressed sample.
func NewHoldDetector(hold time.Duration) *HoldDetector {
	return &HoldDetector{hold: hold}
}

// Process takes a new sample and returns true exactly once per qualifying
// press, at the first sample where the hold duration has been reached.
func (d *HoldDetector) Process(pressed bool, now time.Time) bool {
	if !pressed {
		d.armed = true
		d.pressed = false
		d.fired = false
		return false
	}

	if !d.armed {
		return false
	}

	if !d.pressed {
		// Start observing
		d.pressed = true
		d.pressedSince = now
	}

	if d.fired {
		return false
	}

	if now.Sub(d.pressedSince) >= d.hold {
		d.fired = true
		return true
	}
	return false
}

// Reset disarms the detector until the button is next seen released.
func (d *HoldDetector) Reset() {
	d.armed = false
	d.pressed = false
	d.fired = false
}

// Pressing reports whether a press is currently being timed.
func (d *HoldDetector) Pressing() bool {
	return d.armed && d.pressed && !d.fired
}
