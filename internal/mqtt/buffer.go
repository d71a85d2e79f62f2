package mqtt

import "log"

// bufferedMsg is a serialized MQTT message held until the broker is reachable.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds messages published while disconnected, oldest first.
//
// A retained message replaces any earlier retained message on the same
// topic, since the broker would only keep the last one. When full, the
// oldest non-retained message is dropped, so STARTUP and THRESHOLDS
// state survives a long outage of actuator events.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type outbox struct {
	msgs     []bufferedMsg
	capacity int
	dropped  int // since last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{capacity: capacity}
}

func (o *outbox) push(msg bufferedMsg) {
	if msg.retained {
		for i, m := range o.msgs {
			if m.retained && m.topic == msg.topic {
				o.msgs = append(o.msgs[:i], o.msgs[i+1:]...)
				break
			}
		}
	}

	if len(o.msgs) >= o.capacity {
		victim := 0
		for i, m := range o.msgs {
			if !m.retained {
				victim = i
				break
			}
		}
		o.msgs = append(o.msgs[:victim], o.msgs[victim+1:]...)
		if o.dropped == 0 {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", o.capacity)
		}
		o.dropped++
	}

	o.msgs = append(o.msgs, msg)
}

// drain returns the held messages oldest first and empties the outbox.
func (o *outbox) drain() []bufferedMsg {
	if len(o.msgs) == 0 {
		return nil
	}
	if o.dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while offline", o.dropped)
	}
	out := o.msgs
	o.msgs = nil
	o.dropped = 0
	return out
}

func (o *outbox) len() int {
	return len(o.msgs)
}
