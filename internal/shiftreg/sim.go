package shiftreg

import (
	"math/bits"

	"github.com/sweeney/climate-controller/internal/gpio"
)

// Sim models a 74HC595 attached to three fake output lines.
// Output pin Qn is bit n of Outputs. A rising clock moves Qn to Qn+1 and
// loads the data line into Q0, so the first bit shifted ends up on Q7.
type Sim struct {
	clock bool
	data  bool
	latch bool

	stage byte
	out   byte

	// Shifts and Latches count rising edges on the clock and latch lines.
	Shifts  int
	Latches int

	// OnLatch, if set, is called with the new outputs on every latch.
	OnLatch func(outputs byte)
}

// Attach wires the Sim to the given lines.
func (s *Sim) Attach(clock, data, latch *gpio.FakeOutput) {
	clock.OnSet = s.setClock
	data.OnSet = func(high bool) { s.data = high }
	latch.OnSet = s.setLatch
}

// NewSimRegister creates a Register over fresh fake lines and a Sim
// listening on them.
func NewSimRegister() (*Register, *Sim) {
	clock, data, latch := &gpio.FakeOutput{}, &gpio.FakeOutput{}, &gpio.FakeOutput{}
	sim := &Sim{}
	sim.Attach(clock, data, latch)
	return New(clock, data, latch), sim
}

func (s *Sim) setClock(high bool) {
	if high && !s.clock {
		s.stage <<= 1
		if s.data {
			s.stage |= 1
		}
		s.Shifts++
	}
	s.clock = high
}

func (s *Sim) setLatch(high bool) {
	if high && !s.latch {
		s.out = s.stage
		s.Latches++
		if s.OnLatch != nil {
			s.OnLatch(s.out)
		}
	}
	s.latch = high
}

// Outputs returns the latched output pins, Q0 in bit 0.
func (s *Sim) Outputs() byte {
	return s.out
}

// Value reads the latched outputs back in shift order: the first bit
// shifted (Q7) becomes bit 0.
func (s *Sim) Value() byte {
	return bits.Reverse8(s.out)
}
