// Package segment encodes glyphs for a common-cathode 7-segment display.
//
// Bit 0 drives segment A through bit 6 driving segment G; bit 7 (the
// decimal point) is never lit.
package segment

import (
	"errors"
	"fmt"
)

// Glyph is a digit 0..9 or Blank.
type Glyph int

// Blank turns every segment off.
const Blank Glyph = 10

// Indicator letters shown on the left display while monitoring.
const (
	LetterT byte = 120 // temperature
	LetterU byte = 28  // humidity
)

// ErrInvalidGlyph is returned for values outside 0..10.
var ErrInvalidGlyph = errors.New("invalid glyph")

var patterns = [...]byte{
	0:     63,
	1:     6,
	2:     91,
	3:     79,
	4:     102,
	5:     109,
	6:     125,
	7:     7,
	8:     127,
	9:     111,
	Blank: 0,
}

// Pattern returns the segment bits for g.
func Pattern(g Glyph) (byte, error) {
	if g < 0 || int(g) >= len(patterns) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGlyph, int(g))
	}
	return patterns[g], nil
}

// Split returns the tens and units digits of v, clamped to 0..99.
func Split(v int) (tens, units Glyph) {
	if v < 0 {
		v = 0
	}
	if v > 99 {
		v = 99
	}
	return Glyph(v / 10), Glyph(v % 10)
}

// Decode maps segment bits back to a printable rune.
// Unknown patterns decode to '?' and false.
func Decode(p byte) (rune, bool) {
	switch p {
	case LetterT:
		return 't', true
	case LetterU:
		return 'u', true
	case 0:
		return ' ', true
	}
	for d := 0; d <= 9; d++ {
		if patterns[d] == p {
			return rune('0' + d), true
		}
	}
	return '?', false
}
