package controller

import (
	"context"
	"log"

	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/segment"
)

// Menu runs the threshold editor until the selector is back on Monitor
// with neither inc nor dec pressed (returns nil) or ctx is done (returns
// ctx.Err()). Actuators keep their last state while editing.
func (c *Controller) Menu(ctx context.Context) error {
	before := c.state.Thresholds
	c.state.Mode = logic.ModeEditing
	log.Printf("menu: entered")

	for {
		done, err := c.MenuStep(ctx)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	c.state.Mode = logic.ModeMonitoring
	c.state.Selection = logic.SelectMonitor
	c.hold.Reset()
	c.track()

	th := c.state.Thresholds
	log.Printf("menu: exited (temp=%d..%d humid=%d..%d)", th.TempMin, th.TempMax, th.HumidMin, th.HumidMax)
	if th != before {
		c.publishStatus("THRESHOLDS", "", true)
	}
	return nil
}

// MenuStep runs one menu iteration: settle, decode the selector and show
// it on the left display, then either show and edit the selected
// threshold or, on Monitor, blank the value and report whether to leave.
func (c *Controller) MenuStep(ctx context.Context) (bool, error) {
	if err := c.clock.Sleep(ctx, c.timing.Settle); err != nil {
		return false, err
	}

	if sel, ok := logic.DecodeSelector(
		c.pressed("selector2", c.hw.Selector[0]),
		c.pressed("selector1", c.hw.Selector[1]),
		c.pressed("selector0", c.hw.Selector[2]),
	); ok {
		c.state.Selection = sel
	}
	c.check("display", c.hw.Display.ShowLeft(segment.Glyph(c.state.Selection)))
	defer c.track()

	if c.state.Selection == logic.SelectMonitor {
		c.check("display", c.hw.Display.BlankValue())
		inc := c.pressed("increment", c.hw.Increment)
		dec := c.pressed("decrement", c.hw.Decrement)
		return !inc && !dec, nil
	}

	v, _ := c.state.Thresholds.Get(c.state.Selection)
	c.check("display", c.hw.Display.ShowValue(v))
	if err := c.clock.Sleep(ctx, c.timing.MenuTick); err != nil {
		return false, err
	}

	if c.pressed("increment", c.hw.Increment) {
		c.state.Thresholds.Adjust(c.state.Selection, +1)
		if err := c.clock.Sleep(ctx, c.timing.Debounce); err != nil {
			return false, err
		}
	}
	if c.pressed("decrement", c.hw.Decrement) {
		c.state.Thresholds.Adjust(c.state.Selection, -1)
		if err := c.clock.Sleep(ctx, c.timing.Debounce); err != nil {
			return false, err
		}
	}
	return false, nil
}
