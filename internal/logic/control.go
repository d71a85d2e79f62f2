package logic

// IrrigationOff returns the humidity at or above which irrigation stops:
// three quarters of the way from HumidMin to HumidMax.
func (t Thresholds) IrrigationOff() int {
	return t.HumidMin + (t.HumidMax-t.HumidMin)*3/4
}

// Evaluate computes the actuator state for a reading.
//
// Irrigation starts at or below HumidMin and stops at or above
// IrrigationOff; in between it keeps prev.Irrigate. Cooling runs at or
// above TempMax and heating at or below TempMin. If both would run (only
// possible when TempMin == TempMax), neither does.
func Evaluate(prev ActuatorState, r Reading, t Thresholds) ActuatorState {
	next := ActuatorState{Irrigate: prev.Irrigate}

	if r.Humidity <= t.HumidMin {
		next.Irrigate = true
	} else if r.Humidity >= t.IrrigationOff() {
		next.Irrigate = false
	}

	next.Cool = r.Temperature >= t.TempMax
	next.Heat = r.Temperature <= t.TempMin
	if next.Cool && next.Heat {
		next.Cool, next.Heat = false, false
	}

	return next
}

// Apply evaluates r against the current thresholds and stores the result.
func (s *ControllerState) Apply(r Reading) ActuatorState {
	s.Reading = r
	s.Actuators = Evaluate(s.Actuators, r, s.Thresholds)
	return s.Actuators
}
