// Package adc provides analog input channels with hardware abstraction.
// The real implementation reads a microcontroller front-end over serial.
package adc

import "errors"

// Max is the full-scale raw reading of a 10-bit converter.
const Max = 1023

// Channel reads a single analog input.
type Channel interface {
	// Read returns the latest raw conversion (0..Max).
	Read() (int, error)
}

// FakeChannel is a test double that returns scripted raw readings.
type FakeChannel struct {
	// Samples contains scripted readings. Each call to Read consumes the
	// next sample; the last one repeats.
	Samples []int

	index int

	// ReadError, if set, will be returned by Read.
	ReadError error
}

// NewFakeChannel creates a FakeChannel with the given samples.
func NewFakeChannel(samples ...int) *FakeChannel {
	return &FakeChannel{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeChannel) Read() (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	v := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return v, nil
}
