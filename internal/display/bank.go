// Package display drives the three 7-segment displays of the controller.
//
// The left display carries an indicator letter or the menu selection; the
// middle and right displays carry the tens and units of a value.
package display

import (
	"fmt"

	"github.com/sweeney/climate-controller/internal/segment"
	"github.com/sweeney/climate-controller/internal/shiftreg"
)

// Bank is the set of three display channels. Each channel has its own
// shift register and lines.
type Bank struct {
	Left   *shiftreg.Register
	Middle *shiftreg.Register
	Right  *shiftreg.Register
}

// NewBank creates a Bank from three registers, left to right.
func NewBank(left, middle, right *shiftreg.Register) *Bank {
	return &Bank{Left: left, Middle: middle, Right: right}
}

// Render shows glyph g on the given channel.
func Render(r *shiftreg.Register, g segment.Glyph) error {
	p, err := segment.Pattern(g)
	if err != nil {
		return err
	}
	return r.Send(p)
}

// ShowIndicator writes a raw letter pattern to the left display.
func (b *Bank) ShowIndicator(letter byte) error {
	if err := b.Left.Send(letter); err != nil {
		return fmt.Errorf("left display: %w", err)
	}
	return nil
}

// ShowLeft renders a digit on the left display.
func (b *Bank) ShowLeft(g segment.Glyph) error {
	if err := Render(b.Left, g); err != nil {
		return fmt.Errorf("left display: %w", err)
	}
	return nil
}

// ShowValue renders v as two digits on the middle and right displays.
func (b *Bank) ShowValue(v int) error {
	tens, units := segment.Split(v)
	if err := Render(b.Middle, tens); err != nil {
		return fmt.Errorf("middle display: %w", err)
	}
	if err := Render(b.Right, units); err != nil {
		return fmt.Errorf("right display: %w", err)
	}
	return nil
}

// ShowReading renders an indicator letter followed by a two-digit value.
func (b *Bank) ShowReading(letter byte, v int) error {
	if err := b.ShowIndicator(letter); err != nil {
		return err
	}
	return b.ShowValue(v)
}

// BlankValue turns off the middle and right displays.
func (b *Bank) BlankValue() error {
	if err := Render(b.Middle, segment.Blank); err != nil {
		return fmt.Errorf("middle display: %w", err)
	}
	if err := Render(b.Right, segment.Blank); err != nil {
		return fmt.Errorf("right display: %w", err)
	}
	return nil
}

// Clear turns off all three displays.
func (b *Bank) Clear() error {
	if err := b.ShowLeft(segment.Blank); err != nil {
		return err
	}
	return b.BlankValue()
}
