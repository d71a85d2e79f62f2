package logic

// DecodeSelector decodes the 3-line binary selector, most significant
// line first. Codes 5..7 select nothing and ok is false; callers keep
// the previous selection.
func DecodeSelector(b2, b1, b0 bool) (sel Selection, ok bool) {
	code := 0
	if b2 {
		code |= 4
	}
	if b1 {
		code |= 2
	}
	if b0 {
		code |= 1
	}
	if code > int(SelectHumidMax) {
		return SelectMonitor, false
	}
	return Selection(code), true
}
