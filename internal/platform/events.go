package platform

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	lcadapter "github.com/aretw0/notely/pkg/adapters/lifecycle"
	"github.com/aretw0/notely/pkg/core"
)

// DefaultEventBuffer is the transition buffer used when Transitions gets a
// non-positive size.
const DefaultEventBuffer = 16

// Transitions exposes session transitions as a lifecycle.Source, optionally
// limited to kinds. Events that arrive while the buffer is full are dropped
// and logged. The returned stop func detaches the source from the session
// and ends its event stream.
func (c *Client) Transitions(buffer int, kinds ...core.SessionEventType) (lifecycle.Source, func()) {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	ch := make(chan core.SessionEvent, buffer)

	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := c.Session.OnTransition(func(_ context.Context, event core.SessionEvent) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- event:
		default:
			if c.logger != nil {
				c.logger.Warn("session event dropped, buffer full", "event", event.String())
			}
		}
	})

	stop := func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
	return lcadapter.NewSource(ch, kinds...), stop
}
