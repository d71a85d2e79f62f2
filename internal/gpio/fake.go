package gpio

import (
	"errors"
	"fmt"
)

// FakeOutput is a test double that records the levels it is driven to.
type FakeOutput struct {
	// High is the current level.
	High bool

	// History contains every level written, in order, when Record is set.
	History []bool
	Record  bool

	// SetError, if set, will be returned by Set and the level is left unchanged.
	SetError error

	// OnSet, if set, is called after every successful Set.
	OnSet func(high bool)
}

// NewFakeOutput creates a FakeOutput that records its history.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{Record: true}
}

// Set stores the level.
func (f *FakeOutput) Set(high bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.High = high
	if f.Record {
		f.History = append(f.History, high)
	}
	if f.OnSet != nil {
		f.OnSet(high)
	}
	return nil
}

// Rising returns the number of low-to-high transitions in History,
// starting from a low line.
func (f *FakeOutput) Rising() int {
	n := 0
	prev := false
	for _, h := range f.History {
		if h && !prev {
			n++
		}
		prev = h
	}
	return n
}

// FakeInput is a test double that returns scripted levels.
type FakeInput struct {
	// Samples contains scripted levels to return. Each call to Get
	// consumes the next sample. With no samples, High is returned.
	Samples []bool
	High    bool

	// index tracks current position in Samples
	index int

	// ReadError, if set, will be returned by Get.
	ReadError error
}

// NewFakeInput creates a FakeInput with the given samples.
func NewFakeInput(samples ...bool) *FakeInput {
	return &FakeInput{Samples: samples}
}

// Get returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeInput) Get() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return f.High, nil
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Reset rewinds the input to the first sample.
func (f *FakeInput) Reset() {
	f.index = 0
}

// FakePins hands out fake lines and remembers them by pin number.
type FakePins struct {
	Outputs map[int]*FakeOutput
	Inputs  map[int]*FakeInput

	// Record is copied to every FakeOutput created.
	Record bool

	Closed bool
}

// NewFakePins creates an empty FakePins.
func NewFakePins() *FakePins {
	return &FakePins{
		Outputs: make(map[int]*FakeOutput),
		Inputs:  make(map[int]*FakeInput),
	}
}

// Output returns the fake output for pin, creating it on first use.
// Requesting a pin already used as an input is an error.
func (p *FakePins) Output(pin int) (Output, error) {
	if _, ok := p.Inputs[pin]; ok {
		return nil, fmt.Errorf("pin %d already requested as input", pin)
	}
	o, ok := p.Outputs[pin]
	if !ok {
		o = &FakeOutput{Record: p.Record}
		p.Outputs[pin] = o
	}
	return o, nil
}

// Input returns the fake input for pin, creating it on first use.
func (p *FakePins) Input(pin int) (Input, error) {
	if _, ok := p.Outputs[pin]; ok {
		return nil, fmt.Errorf("pin %d already requested as output", pin)
	}
	in, ok := p.Inputs[pin]
	if !ok {
		in = &FakeInput{}
		p.Inputs[pin] = in
	}
	return in, nil
}

// Close marks the pins as closed.
func (p *FakePins) Close() error {
	if p.Closed {
		return errors.New("already closed")
	}
	p.Closed = true
	return nil
}
