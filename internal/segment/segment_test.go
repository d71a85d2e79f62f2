package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternTable(t *testing.T) {
	want := map[Glyph]byte{
		0: 63, 1: 6, 2: 91, 3: 79, 4: 102,
		5: 109, 6: 125, 7: 7, 8: 127, 9: 111,
		Blank: 0,
	}
	for g, p := range want {
		got, err := Pattern(g)
		require.NoError(t, err, "glyph %d", g)
		assert.Equal(t, p, got, "glyph %d", g)
	}
}

func TestPatternRejectsOutOfRange(t *testing.T) {
	for _, g := range []Glyph{-1, 11, 99} {
		_, err := Pattern(g)
		assert.ErrorIs(t, err, ErrInvalidGlyph, "glyph %d", g)
	}
}

func TestPatternNeverLightsDecimalPoint(t *testing.T) {
	for g := Glyph(0); g <= Blank; g++ {
		p, err := Pattern(g)
		require.NoError(t, err)
		assert.Zero(t, p&0x80, "glyph %d", g)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		v           int
		tens, units Glyph
	}{
		{0, 0, 0},
		{7, 0, 7},
		{27, 2, 7},
		{99, 9, 9},
		{125, 9, 9},
		{-12, 0, 0},
	}
	for _, tt := range tests {
		tens, units := Split(tt.v)
		assert.Equal(t, tt.tens, tens, "tens of %d", tt.v)
		assert.Equal(t, tt.units, units, "units of %d", tt.v)
	}
}

func TestDecode(t *testing.T) {
	for d := Glyph(0); d <= 9; d++ {
		p, _ := Pattern(d)
		r, ok := Decode(p)
		assert.True(t, ok)
		assert.Equal(t, rune('0'+int(d)), r)
	}

	r, ok := Decode(LetterT)
	assert.True(t, ok)
	assert.Equal(t, 't', r)

	r, ok = Decode(LetterU)
	assert.True(t, ok)
	assert.Equal(t, 'u', r)

	r, ok = Decode(0)
	assert.True(t, ok)
	assert.Equal(t, ' ', r)

	_, ok = Decode(0xFF)
	assert.False(t, ok)
}
