// Package lifecycle publishes the process Start/WillStop/Stop events that
// inputs.SystemStarted subscribes to. Adapted from the teacher's
// services/heartbeat (same ctx-driven service-loop shape, same
// conn *bus.Connection injection) generalized from a periodic tick to a
// one-shot start/stop announcement, and supplemented with spec.md §4.B's
// shutdown-delay extension.
package lifecycle

import (
	"context"
	"time"

	"torc/bus"
)

var (
	topicStart    = bus.Topic{"lifecycle", "start"}
	topicWillStop = bus.Topic{"lifecycle", "willstop"}
	topicStop     = bus.Topic{"lifecycle", "stop"}
)

// StartTopic, WillStopTopic and StopTopic are the bus topics
// inputs.SystemStarted.Run subscribes to.
func StartTopic() bus.Topic    { return topicStart }
func WillStopTopic() bus.Topic { return topicWillStop }
func StopTopic() bus.Topic     { return topicStop }

// Service announces process lifecycle transitions on the bus.
type Service struct {
	conn  *bus.Connection
	delay time.Duration
}

// New returns a Service that, once Run, waits delay after WillStop before
// announcing Stop — giving an in-flight Transition time to settle before
// the graph actually tears down (spec.md §4.B).
func New(conn *bus.Connection, delay time.Duration) *Service {
	return &Service{conn: conn, delay: delay}
}

// Run publishes Start immediately, then blocks until ctx is cancelled, at
// which point it publishes WillStop, waits delay, and publishes Stop before
// returning. Callers should Run this before starting the rest of the graph
// so SystemStarted inputs built before it see a retained Start message.
func (s *Service) Run(ctx context.Context) {
	s.publish(topicStart)

	<-ctx.Done()

	s.publish(topicWillStop)
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		<-t.C
		t.Stop()
	}
	s.publish(topicStop)
}

// publish sends a non-nil payload: the bus treats a retained message with a
// nil payload as a request to delete the retained value, not to keep one.
func (s *Service) publish(topic bus.Topic) {
	s.conn.Publish(s.conn.NewMessage(topic, true, true))
}
