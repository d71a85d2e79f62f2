package controller

import (
	"context"
	"log"

	"github.com/sweeney/climate-controller/internal/segment"
)

// Monitor runs monitor cycles until the function button asks for the
// menu (returns nil) or ctx is done (returns ctx.Err()).
func (c *Controller) Monitor(ctx context.Context) error {
	for {
		enter, err := c.MonitorCycle(ctx)
		if err != nil {
			return err
		}
		if enter {
			return nil
		}
	}
}

// MonitorCycle reads the sensors once and runs the temperature phase
// followed by the humidity phase. Each phase shows its indicator and
// value, evaluates the actuators and dwells. It reports whether the
// function button asked for the menu, in which case the remaining phase
// is skipped.
func (c *Controller) MonitorCycle(ctx context.Context) (bool, error) {
	c.readSensors()

	phases := []struct {
		letter byte
		value  func() int
	}{
		{segment.LetterT, func() int { return c.state.Reading.Temperature }},
		{segment.LetterU, func() int { return c.state.Reading.Humidity }},
	}

	for _, p := range phases {
		c.check("display", c.hw.Display.ShowReading(p.letter, p.value()))
		c.control()

		enter, err := c.dwell(ctx)
		if err != nil {
			return false, err
		}
		if enter {
			return true, nil
		}
	}
	return false, nil
}

// readSensors takes a new reading. On failure the previous reading stays.
func (c *Controller) readSensors() {
	r, err := c.hw.Sensors.Read()
	if err != nil {
		log.Printf("sensors: %v", err)
		return
	}
	c.state.Reading = r
	c.ready = true
}

// control evaluates the thresholds against the current reading, drives
// the actuators and reports any changes.
func (c *Controller) control() {
	if !c.ready {
		return
	}

	now := c.clock.Now()
	act := c.state.Apply(c.state.Reading)
	c.writeOutputs(act)

	for _, e := range c.recorder.Process(act, c.state.Reading, now) {
		log.Printf("event: %s (temp=%d humid=%d)", e.Type, e.Reading.Temperature, e.Reading.Humidity)
		if c.opts.Publisher != nil {
			if err := c.opts.Publisher.Publish(e); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
	}

	if hb := c.recorder.CheckHeartbeat(now, c.opts.Heartbeat); hb != nil {
		log.Printf("heartbeat: uptime=%v irrigation_on=%d cooling_on=%d heating_on=%d",
			hb.Uptime, hb.Counts.IrrigationOn, hb.Counts.CoolingOn, hb.Counts.HeatingOn)
		c.track()
		c.publishStatus("HEARTBEAT", "", false)
	}

	c.track()
}

// dwell waits out one monitor phase while watching the function button.
//
// With a hold duration the button is polled every Poll and the menu is
// requested as soon as it has been held that long; the dwell is cut
// short. Without one the button level is sampled once at the end.
func (c *Controller) dwell(ctx context.Context) (bool, error) {
	if c.timing.Hold <= 0 {
		if err := c.clock.Sleep(ctx, c.timing.Dwell); err != nil {
			return false, err
		}
		return c.pressed("function", c.hw.Function), nil
	}

	deadline := c.clock.Now().Add(c.timing.Dwell)
	for {
		now := c.clock.Now()
		if c.hold.Process(c.pressed("function", c.hw.Function), now) {
			return true, nil
		}

		remaining := deadline.Sub(now)
		if remaining <= 0 {
			return false, nil
		}
		step := c.timing.Poll
		if step <= 0 || step > remaining {
			step = remaining
		}
		if err := c.clock.Sleep(ctx, step); err != nil {
			return false, err
		}
	}
}
