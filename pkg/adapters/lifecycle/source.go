// Package lifecycle exposes session transitions as a lifecycle.Source so a
// host application can react to sign-in and sign-out from its event loop.
package lifecycle

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notely/pkg/core"
)

// ErrAlreadyStarted is returned by Start on a source that is already running.
var ErrAlreadyStarted = errors.New("session source already started")

// SessionSource forwards core.SessionEvent values, which satisfy
// lifecycle.Event through their String method.
type SessionSource struct {
	in      <-chan core.SessionEvent
	out     chan lifecycle.Event
	kinds   []core.SessionEventType
	started atomic.Bool
}

// NewSource creates a source reading from in. With kinds, only transitions
// of those types are forwarded. The stream ends when in is closed or the
// Start context is cancelled.
func NewSource(in <-chan core.SessionEvent, kinds ...core.SessionEventType) *SessionSource {
	return &SessionSource{
		in:    in,
		out:   make(chan lifecycle.Event),
		kinds: kinds,
	}
}

// Events implements lifecycle.Source.
func (s *SessionSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start implements lifecycle.Source. The forwarding loop runs under
// lifecycle.Go so it is tracked by the host's lifecycle.
func (s *SessionSource) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *SessionSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		var (
			event core.SessionEvent
			ok    bool
		)
		select {
		case <-ctx.Done():
			return nil
		case event, ok = <-s.in:
		}
		if !ok {
			return nil
		}
		if !s.wants(event.Type) {
			continue
		}
		select {
		case s.out <- event:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *SessionSource) wants(kind core.SessionEventType) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, kind)
}

var _ lifecycle.Source = (*SessionSource)(nil)
