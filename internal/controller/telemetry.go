package controller

import (
	"log"

	"github.com/sweeney/climate-controller/internal/mqtt"
	"github.com/sweeney/climate-controller/internal/status"
)

// publishStatus sends a system event carrying a full status snapshot, or
// a bare system payload when there is no tracker.
func (c *Controller) publishStatus(event, reason string, retained bool) {
	if c.opts.Publisher == nil {
		return
	}

	e := mqtt.SystemEvent{
		Timestamp: c.clock.Now(),
		Event:     event,
		Reason:    reason,
		Retained:  retained,
	}
	if c.opts.Tracker != nil {
		e.RawPayload = status.FormatStatusEvent(c.opts.Tracker.Snapshot(), event, reason)
	}

	if err := c.opts.Publisher.PublishSystem(e); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}
