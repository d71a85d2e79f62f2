package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sweeney/climate-controller/internal/adc"
	"github.com/sweeney/climate-controller/internal/clock"
	"github.com/sweeney/climate-controller/internal/config"
	"github.com/sweeney/climate-controller/internal/controller"
	"github.com/sweeney/climate-controller/internal/display"
	"github.com/sweeney/climate-controller/internal/gpio"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/sensor"
	"github.com/sweeney/climate-controller/internal/shiftreg"
)

// board is the opened hardware for one backend.
type board struct {
	pins   gpio.Pins
	bridge *adc.Bridge
	sims   []*shiftreg.Sim // sim backend only
	hw     controller.Hardware
}

func openPins(cfg *config.Config) (gpio.Pins, error) {
	switch cfg.Backend {
	case config.BackendGPIOCDev:
		chip, err := gpio.OpenChip(cfg.Chip)
		if err != nil {
			return nil, err
		}
		return chip, nil
	case config.BackendPeriph:
		p, err := gpio.OpenPeriph()
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.BackendSim:
		return gpio.NewFakePins(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// claimer requests lines and keeps the first error.
type claimer struct {
	pins gpio.Pins
	err  error
}

func (c *claimer) out(pin int) gpio.Output {
	if c.err != nil {
		return nil
	}
	o, err := c.pins.Output(pin)
	if err != nil {
		c.err = fmt.Errorf("output pin %d: %w", pin, err)
	}
	return o
}

func (c *claimer) in(pin int) gpio.Input {
	if c.err != nil {
		return nil
	}
	in, err := c.pins.Input(pin)
	if err != nil {
		c.err = fmt.Errorf("input pin %d: %w", pin, err)
	}
	return in
}

// openBoard requests every line in cfg.Pins and opens the analog source.
// The config must have passed Validate.
func openBoard(cfg *config.Config) (*board, error) {
	pins, err := openPins(cfg)
	if err != nil {
		return nil, err
	}
	b := &board{pins: pins}

	c := &claimer{pins: pins}
	var regs [3]*shiftreg.Register
	for i, d := range cfg.Pins.Displays {
		regs[i] = shiftreg.New(c.out(d.Clock), c.out(d.Data), c.out(d.Latch))
	}
	b.hw = controller.Hardware{
		Display:    display.NewBank(regs[0], regs[1], regs[2]),
		Selector:   [3]gpio.Input{c.in(cfg.Pins.Selector[0]), c.in(cfg.Pins.Selector[1]), c.in(cfg.Pins.Selector[2])},
		Increment:  c.in(cfg.Pins.Increment),
		Decrement:  c.in(cfg.Pins.Decrement),
		Function:   c.in(cfg.Pins.Function),
		Irrigation: c.out(cfg.Pins.Irrigation),
		Heater:     c.out(cfg.Pins.Heater),
		Cooler:     c.out(cfg.Pins.Cooler),
	}
	if c.err != nil {
		b.Close()
		return nil, c.err
	}

	var temp, humid adc.Channel
	if fp, ok := pins.(*gpio.FakePins); ok {
		for _, d := range cfg.Pins.Displays {
			sim := &shiftreg.Sim{}
			sim.Attach(fp.Outputs[d.Clock], fp.Outputs[d.Data], fp.Outputs[d.Latch])
			b.sims = append(b.sims, sim)
		}
		temp = adc.NewFakeChannel(cfg.Sim.TemperatureRaw)
		humid = adc.NewFakeChannel(cfg.Sim.HumidityRaw)
	} else {
		bridge, err := adc.OpenBridge(cfg.ADC.Port, cfg.ADC.Baud)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.bridge = bridge
		temp, humid = bridge.Temperature(), bridge.Humidity()
	}
	b.hw.Sensors = sensor.NewReader(temp, humid, cfg.TemperatureScale(), cfg.HumidityScale())

	return b, nil
}

// waitForSample blocks until the analog bridge has a sample.
func (b *board) waitForSample(timeout time.Duration) error {
	if b.bridge == nil {
		return nil
	}
	select {
	case <-b.bridge.Ready():
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("no analog sample within %v", timeout)
	}
}

// Close releases the analog link and the lines.
func (b *board) Close() error {
	var errs []error
	if b.bridge != nil {
		errs = append(errs, b.bridge.Close())
	}
	errs = append(errs, b.pins.Close())
	return errors.Join(errs...)
}

// printReading writes one reading and the outputs th would produce.
func printReading(w io.Writer, b *board, th logic.Thresholds) error {
	r, err := b.hw.Sensors.Read()
	if err != nil {
		return fmt.Errorf("read sensors: %w", err)
	}
	a := logic.Evaluate(logic.ActuatorState{}, r, th)
	fmt.Fprintf(w, "TEMP: %d, HUMID: %d, IRRIGATION: %s, COOLING: %s, HEATING: %s\n",
		r.Temperature, r.Humidity, logic.StateOf(a.Irrigate), logic.StateOf(a.Cool), logic.StateOf(a.Heat))
	return nil
}

// displayLogger logs what the simulated displays show whenever it has
// changed. The displays are settled whenever the loop pauses.
type displayLogger struct {
	clock.Clock
	sims []*shiftreg.Sim
	last string
}

func (d *displayLogger) Sleep(ctx context.Context, dur time.Duration) error {
	if txt := display.Text(d.sims...); txt != d.last {
		log.Printf("display: [%s]", txt)
		d.last = txt
	}
	return d.Clock.Sleep(ctx, dur)
}
