package gpio

import (
	"fmt"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphPins hands out lines through the periph.io host drivers.
// It works on boards where the character device is unavailable.
type PeriphPins struct {
	pins []pgpio.PinIO
}

// OpenPeriph initializes the periph.io host drivers.
func OpenPeriph() (*PeriphPins, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph: %w", err)
	}
	return &PeriphPins{}, nil
}

func (p *PeriphPins) lookup(pin int) (pgpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", pin)
	io := gpioreg.ByName(name)
	if io == nil {
		return nil, fmt.Errorf("no such pin %s", name)
	}
	return io, nil
}

// Output configures pin as an output, initially low.
func (p *PeriphPins) Output(pin int) (Output, error) {
	io, err := p.lookup(pin)
	if err != nil {
		return nil, err
	}
	if err := io.Out(pgpio.Low); err != nil {
		return nil, fmt.Errorf("configure output %s: %w", io.Name(), err)
	}
	p.pins = append(p.pins, io)
	return periphLine{io}, nil
}

// Input configures pin as an input with pull-down.
func (p *PeriphPins) Input(pin int) (Input, error) {
	io, err := p.lookup(pin)
	if err != nil {
		return nil, err
	}
	if err := io.In(pgpio.PullDown, pgpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure input %s: %w", io.Name(), err)
	}
	p.pins = append(p.pins, io)
	return periphLine{io}, nil
}

// Close returns every configured pin to input with pull-down.
func (p *PeriphPins) Close() error {
	var errs []error
	for _, io := range p.pins {
		if err := io.In(pgpio.PullDown, pgpio.NoEdge); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", io.Name(), err))
		}
	}
	p.pins = nil
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type periphLine struct {
	io pgpio.PinIO
}

func (l periphLine) Set(high bool) error {
	if err := l.io.Out(pgpio.Level(high)); err != nil {
		return fmt.Errorf("set %s: %w", l.io.Name(), err)
	}
	return nil
}

func (l periphLine) Get() (bool, error) {
	return l.io.Read() == pgpio.High, nil
}
