// Package controller runs the climate controller: a two-phase monitor
// loop that shows readings and drives the actuators, and a menu for
// editing thresholds entered by holding the function button.
//
// Everything runs on one goroutine. All pauses go through an injected
// clock.Clock so tests can run the loop without waiting.
package controller

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/climate-controller/internal/clock"
	"github.com/sweeney/climate-controller/internal/display"
	"github.com/sweeney/climate-controller/internal/gpio"
	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/mqtt"
	"github.com/sweeney/climate-controller/internal/sensor"
	"github.com/sweeney/climate-controller/internal/status"
)

// Timing holds the fixed pauses of the loop.
type Timing struct {
	Dwell    time.Duration // each monitor phase
	MenuTick time.Duration // between showing a value and reading inc/dec
	Debounce time.Duration // after an inc/dec press
	Settle   time.Duration // before decoding the selector
	Hold     time.Duration // function button hold to enter the menu; 0 samples the level once per phase
	Poll     time.Duration // function button poll interval during a dwell
}

// DefaultTiming returns the stock timings.
func DefaultTiming() Timing {
	return Timing{
		Dwell:    2 * time.Second,
		MenuTick: 200 * time.Millisecond,
		Debounce: 50 * time.Millisecond,
		Settle:   200 * time.Millisecond,
		Hold:     4 * time.Second,
		Poll:     100 * time.Millisecond,
	}
}

// Hardware is the controller's I/O boundary.
type Hardware struct {
	Display *display.Bank
	Sensors *sensor.Reader

	Selector  [3]gpio.Input // most significant line first
	Increment gpio.Input
	Decrement gpio.Input
	Function  gpio.Input

	Irrigation gpio.Output
	Heater     gpio.Output
	Cooler     gpio.Output
}

// Options are the optional telemetry sinks. Nil fields are skipped.
type Options struct {
	Publisher mqtt.Publisher
	Tracker   *status.Tracker
	Heartbeat time.Duration // 0 disables
}

// Controller owns the hardware and the controller state.
type Controller struct {
	hw     Hardware
	state  *logic.ControllerState
	timing Timing
	clock  clock.Clock
	opts   Options

	hold     *logic.HoldDetector
	recorder *logic.Recorder
	ready    bool // a reading has been taken
}

// New creates a Controller. state is owned by the controller from here on.
func New(hw Hardware, state *logic.ControllerState, timing Timing, clk clock.Clock, opts Options) *Controller {
	return &Controller{
		hw:       hw,
		state:    state,
		timing:   timing,
		clock:    clk,
		opts:     opts,
		hold:     logic.NewHoldDetector(timing.Hold),
		recorder: logic.NewRecorder(clk.Now()),
	}
}

// State returns a copy of the current controller state.
func (c *Controller) State() logic.ControllerState {
	return *c.state
}

// Counts returns the actuator event counts since start.
func (c *Controller) Counts() logic.EventCounts {
	return c.recorder.EventCountsSnapshot()
}

// Run alternates between monitoring and the menu until ctx is done.
// It returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := c.Monitor(ctx); err != nil {
			return err
		}
		if err := c.Menu(ctx); err != nil {
			return err
		}
	}
}

// Startup drives every output to a known state and announces the start.
func (c *Controller) Startup() {
	c.writeOutputs(logic.ActuatorState{})
	c.check("clear display", c.hw.Display.Clear())
	c.track()
	c.publishStatus("STARTUP", "", true)
}

// Shutdown turns every actuator off, blanks the displays and announces the
// stop with the given reason (e.g. "SIGTERM").
func (c *Controller) Shutdown(reason string) {
	c.state.Actuators = logic.ActuatorState{}
	c.state.Mode = logic.ModeMonitoring
	c.writeOutputs(c.state.Actuators)
	c.check("clear display", c.hw.Display.Clear())
	c.track()
	c.publishStatus("SHUTDOWN", reason, true)
}

func (c *Controller) check(what string, err error) {
	if err != nil {
		log.Printf("%s: %v", what, err)
	}
}

// pressed reads a button. Read errors count as released.
func (c *Controller) pressed(name string, in gpio.Input) bool {
	high, err := in.Get()
	if err != nil {
		log.Printf("read %s: %v", name, err)
		return false
	}
	return high
}

func (c *Controller) writeOutputs(a logic.ActuatorState) {
	c.check("irrigation", c.hw.Irrigation.Set(a.Irrigate))
	c.check("cooler", c.hw.Cooler.Set(a.Cool))
	c.check("heater", c.hw.Heater.Set(a.Heat))
}

func (c *Controller) track() {
	if c.opts.Tracker == nil {
		return
	}
	c.opts.Tracker.Update(*c.state, c.ready, c.recorder.EventCountsSnapshot())
	if cs, ok := c.opts.Publisher.(mqtt.ConnectionStatus); ok {
		c.opts.Tracker.SetMQTTConnected(cs.IsConnected())
	}
}
