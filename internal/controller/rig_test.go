package controller

import (
	"time"

	"github.com/sweeney/climate-controller/internal/adc"
	"github.com/sweeney/climate-controller/internal/clock"
	"github.com/sweeney/climate-controller/internal/display"
	"github.com/sweeney/climate-controller/internal/gpio"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/mqtt"
	"github.com/sweeney/climate-controller/internal/sensor"
	"github.com/sweeney/climate-controller/internal/shiftreg"
	"github.com/sweeney/climate-controller/internal/status"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Raw values for 27 C and 50 %RH.
const (
	raw27C = 157
	raw50  = 438
)

// switchInput is a button whose level is set directly by the test or
// computed from the fake clock.
type switchInput struct {
	on bool
	fn func() bool
}

func (s *switchInput) Get() (bool, error) {
	if s.fn != nil {
		return s.fn(), nil
	}
	return s.on, nil
}

type rig struct {
	clk  *clock.Fake
	sims [3]*shiftreg.Sim

	selector [3]*switchInput
	inc, dec *switchInput
	fn       *switchInput

	irr, heat, cool *gpio.FakeOutput
	temp, humid     *adc.FakeChannel

	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	ctrl    *Controller
}

func newRig(timing Timing, tempRaw, humidRaw int) *rig {
	r := &rig{
		clk:   clock.NewFake(t0),
		inc:   &switchInput{},
		dec:   &switchInput{},
		fn:    &switchInput{},
		irr:   gpio.NewFakeOutput(),
		heat:  gpio.NewFakeOutput(),
		cool:  gpio.NewFakeOutput(),
		temp:  adc.NewFakeChannel(tempRaw),
		humid: adc.NewFakeChannel(humidRaw),
		pub:   mqtt.NewFakePublisher(),
	}
	for i := range r.selector {
		r.selector[i] = &switchInput{}
	}

	left, ls := shiftreg.NewSimRegister()
	middle, ms := shiftreg.NewSimRegister()
	right, rs := shiftreg.NewSimRegister()
	r.sims = [3]*shiftreg.Sim{ls, ms, rs}

	r.tracker = status.NewTracker(t0, status.Config{})
	r.tracker.SetClock(r.clk.Now)

	hw := Hardware{
		Display:    display.NewBank(left, middle, right),
		Sensors:    sensor.NewReader(r.temp, r.humid, sensor.TemperatureScale, sensor.HumidityScale),
		Selector:   [3]gpio.Input{r.selector[0], r.selector[1], r.selector[2]},
		Increment:  r.inc,
		Decrement:  r.dec,
		Function:   r.fn,
		Irrigation: r.irr,
		Heater:     r.heat,
		Cooler:     r.cool,
	}
	r.ctrl = New(hw, logic.NewControllerState(logic.DefaultThresholds()), timing, r.clk, Options{
		Publisher: r.pub,
		Tracker:   r.tracker,
	})
	return r
}

func (r *rig) text() string {
	return display.Text(r.sims[:]...)
}

// selectCode sets the selector lines to a 3-bit code.
func (r *rig) selectCode(code int) {
	r.selector[0].on = code&4 != 0
	r.selector[1].on = code&2 != 0
	r.selector[2].on = code&1 != 0
}

func (r *rig) elapsed() time.Duration {
	return r.clk.Now().Sub(t0)
}

// pressedBetween makes fn report pressed while from <= elapsed < until.
func (r *rig) pressedBetween(from, until time.Duration) func() bool {
	return func() bool {
		e := r.elapsed()
		return e >= from && e < until
	}
}

func eventTypes(events []logic.Event) []logic.EventType {
	out := make([]logic.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
