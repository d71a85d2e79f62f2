// Package shiftreg drives a 74HC595-class serial-in/parallel-out register
// over three digital lines.
//
// Loading is two-phase: ShiftBit clocks one bit into the shift stage on the
// rising edge of the clock line, and Commit raises the latch line, which
// copies the shift stage onto the visible outputs. The latch is held low
// for the whole byte so the outputs never show a partially shifted value.
package shiftreg

import (
	"fmt"

	"github.com/sweeney/climate-controller/internal/gpio"
)

// Register is one shift register wired to clock, data and latch lines.
type Register struct {
	Clock gpio.Output // shifts the data bit in on its rising edge
	Data  gpio.Output
	Latch gpio.Output // transfers the shift stage to the outputs on its rising edge
}

// New creates a Register over the given lines.
func New(clock, data, latch gpio.Output) *Register {
	return &Register{Clock: clock, Data: data, Latch: latch}
}

// seq sequences line writes and keeps the first error.
type seq struct {
	err error
}

func (s *seq) set(o gpio.Output, high bool) {
	if s.err == nil {
		s.err = o.Set(high)
	}
}

// Begin drops the latch so bits shifted afterwards stay off the outputs.
func (r *Register) Begin() error {
	if err := r.Latch.Set(false); err != nil {
		return fmt.Errorf("latch low: %w", err)
	}
	return nil
}

// ShiftBit clocks a single bit into the shift stage.
func (r *Register) ShiftBit(bit bool) error {
	var s seq
	s.set(r.Clock, false)
	s.set(r.Data, bit)
	s.set(r.Clock, true)
	if s.err != nil {
		return fmt.Errorf("shift bit: %w", s.err)
	}
	return nil
}

// Commit makes the shift stage visible on the outputs.
func (r *Register) Commit() error {
	var s seq
	s.set(r.Clock, false)
	s.set(r.Latch, true)
	if s.err != nil {
		return fmt.Errorf("commit: %w", s.err)
	}
	return nil
}

// Send shifts value out least-significant bit first and commits it.
func (r *Register) Send(value byte) error {
	if err := r.Begin(); err != nil {
		return err
	}

	var s seq
	s.set(r.Clock, false)
	s.set(r.Data, false)
	if s.err != nil {
		return fmt.Errorf("idle lines: %w", s.err)
	}

	for i := 0; i < 8; i++ {
		if err := r.ShiftBit(value&(1<<i) != 0); err != nil {
			return fmt.Errorf("bit %d: %w", i, err)
		}
	}

	return r.Commit()
}
