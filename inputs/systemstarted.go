package inputs

import (
	"context"
	"time"

	"torc/bus"
	"torc/device"
	"torc/types"
)

// SystemStarted mirrors the process lifecycle onto the graph: value=1 after
// a Start event, value=0 on WillStop/Stop. Grounded on original_source's
// TorcSystemStarted input and supplemented per spec.md §4.B with the
// optional shutdown-delay extension (§6 collaborator #4, "lifecycle bus").
type SystemStarted struct {
	*Base

	delay time.Duration
}

// NewSystemStarted constructs the input. delaySeconds, if > 0, is recorded
// and returned by ShutdownDelay; nothing else reads it, and the process
// shutdown delay is the one passed to lifecycle.New.
func NewSystemStarted(conn *bus.Connection, cfg device.Config, delaySeconds float64) *SystemStarted {
	s := &SystemStarted{Base: NewBase(conn, cfg, types.InputSystemStarted, 0, 1, nil)}
	if delaySeconds > 0 {
		s.delay = time.Duration(delaySeconds * float64(time.Second))
	}
	return s
}

// ShutdownDelay returns the configured extension, zero if none.
func (s *SystemStarted) ShutdownDelay() time.Duration { return s.delay }

// Run subscribes to the lifecycle bus and drives this input's value until
// the terminal Stop event arrives or ctx is cancelled, whichever comes
// first. startTopic/willStopTopic/stopTopic are published by torc/lifecycle.
//
// Callers should run this against a context that outlives the graph's own
// shutdown signal: torc/lifecycle.Service.Run publishes WillStop, waits its
// own configured delay, then publishes Stop, all after that shutdown signal has
// already fired — a Run tied to the same signal would observe ctx.Done()
// and return before WillStop/Stop were ever published, leaving the value
// stuck at 1. Returning on the Stop event itself (rather than looping
// forever) is what lets Run terminate on its own once the lifecycle bus has
// nothing further to say.
func (s *SystemStarted) Run(ctx context.Context, startTopic, willStopTopic, stopTopic bus.Topic) {
	conn := s.Connection()
	startSub := conn.Subscribe(startTopic)
	willStopSub := conn.Subscribe(willStopTopic)
	stopSub := conn.Subscribe(stopTopic)
	defer startSub.Unsubscribe()
	defer willStopSub.Unsubscribe()
	defer stopSub.Unsubscribe()

	s.SetValue(0)
	s.SetValid(true)

	for {
		select {
		case <-ctx.Done():
			return
		case <-startSub.Channel():
			s.SetValue(1)
		case <-willStopSub.Channel():
			s.SetValue(0)
		case <-stopSub.Channel():
			s.SetValue(0)
			return
		}
	}
}
