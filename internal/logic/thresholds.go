package logic

// Normalize clamps every threshold into its sensor range and then raises
// each maximum to at least its minimum.
func (t *Thresholds) Normalize() {
	t.TempMin = clamp(t.TempMin, TemperatureMin, TemperatureMax)
	t.TempMax = clamp(t.TempMax, TemperatureMin, TemperatureMax)
	t.HumidMin = clamp(t.HumidMin, HumidityMin, HumidityMax)
	t.HumidMax = clamp(t.HumidMax, HumidityMin, HumidityMax)

	if t.TempMax < t.TempMin {
		t.TempMax = t.TempMin
	}
	if t.HumidMax < t.HumidMin {
		t.HumidMax = t.HumidMin
	}
}

// Get returns the threshold chosen by sel. ok is false for SelectMonitor.
func (t Thresholds) Get(sel Selection) (v int, ok bool) {
	switch sel {
	case SelectTempMin:
		return t.TempMin, true
	case SelectTempMax:
		return t.TempMax, true
	case SelectHumidMin:
		return t.HumidMin, true
	case SelectHumidMax:
		return t.HumidMax, true
	}
	return 0, false
}

// Adjust adds delta to the threshold chosen by sel and normalizes.
// It reports whether any threshold changed.
func (t *Thresholds) Adjust(sel Selection, delta int) bool {
	before := *t
	switch sel {
	case SelectTempMin:
		t.TempMin += delta
	case SelectTempMax:
		t.TempMax += delta
	case SelectHumidMin:
		t.HumidMin += delta
	case SelectHumidMax:
		t.HumidMax += delta
	default:
		return false
	}
	t.Normalize()
	return *t != before
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
