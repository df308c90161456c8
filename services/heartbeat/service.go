// Package heartbeat publishes a periodic liveness tick on the bus and logs
// it through telemetry.Logger, adapted from the teacher's own
// services/heartbeat (same ctx-driven service-loop shape, same
// conn *bus.Connection injection, same reconfigurable-tick-via-bus-message
// idea) swapped from println and a bare map payload onto torc/telemetry and
// a typed Config topic. Where torc/lifecycle announces the one-shot
// Start/WillStop/Stop transitions, Service gives an operator a continuous
// signal that the process is still alive and, optionally, how many devices
// the engine is currently carrying.
package heartbeat

import (
	"context"
	"strconv"
	"time"

	"torc/bus"
	"torc/telemetry"
)

// ConfigTopic is where a runtime reconfiguration message — a *Config value —
// can be published to change the tick interval without restarting the
// process.
func ConfigTopic() bus.Topic { return bus.Topic{"heartbeat", "config"} }

// Config carries the reconfigurable parameters of Service.
type Config struct {
	Interval time.Duration
}

// Counts is supplied by the caller (typically graph.Engine) so each tick can
// report how many inputs/controls/outputs are currently live.
type Counts func() (inputs, controls, outputs int)

// Service ticks at a configurable interval and logs a liveness line each
// time, reconfigurable at runtime via ConfigTopic.
type Service struct {
	conn   *bus.Connection
	log    telemetry.Logger
	counts Counts
}

// New returns a Service that logs through log and, if counts is non-nil,
// reports device counts alongside each tick.
func New(conn *bus.Connection, log telemetry.Logger, counts Counts) *Service {
	return &Service{conn: conn, log: log, counts: counts}
}

// Run ticks every interval until ctx is cancelled, logging a liveness line
// and responding to Config messages published on ConfigTopic.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	cfgSub := s.conn.Subscribe(ConfigTopic())
	defer s.conn.Unsubscribe(cfgSub)

	if interval <= 0 {
		interval = time.Minute
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("heartbeat: stopping")
			return
		case t := <-tick.C:
			s.log.Infof("heartbeat: alive at %s%s", t.Format("15:04:05"), s.countsSuffix())
		case m := <-cfgSub.Channel():
			cfg, ok := m.Payload.(*Config)
			if !ok || cfg.Interval <= 0 {
				continue
			}
			tick.Reset(cfg.Interval)
			s.log.Infof("heartbeat: interval set to %s", cfg.Interval)
		}
	}
}

func (s *Service) countsSuffix() string {
	if s.counts == nil {
		return ""
	}
	in, ctl, out := s.counts()
	return fmtCounts(in, ctl, out)
}

func fmtCounts(in, ctl, out int) string {
	return " (" + strconv.Itoa(in) + " inputs, " + strconv.Itoa(ctl) + " controls, " + strconv.Itoa(out) + " outputs)"
}
