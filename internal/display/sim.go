package display

import (
	"github.com/sweeney/climate-controller/internal/segment"
	"github.com/sweeney/climate-controller/internal/shiftreg"
)

// Text decodes what simulated displays show, left to right.
// Patterns that are not a digit, blank or indicator letter show as '?'.
func Text(sims ...*shiftreg.Sim) string {
	out := make([]rune, len(sims))
	for i, s := range sims {
		out[i], _ = segment.Decode(s.Value())
	}
	return string(out)
}
