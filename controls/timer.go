package controls

import (
	"context"
	"sync"
	"time"

	"torc/bus"
	"torc/device"
	"torc/errcode"
	"torc/types"
)

// fixedPeriod maps every TimerType but Custom to its period in seconds
// (spec.md §4.D.3).
var fixedPeriod = map[types.TimerType]int64{
	types.TimerMinutely: 60,
	types.TimerHourly:   3600,
	types.TimerDaily:    86400,
	types.TimerWeekly:   604800,
}

// noopCalc satisfies the Control.Calculator contract for a source control:
// Timer never reacts to input events (it has none), so Calculate is never
// invoked in practice.
type noopCalc struct{}

func (noopCalc) Calculate(Snapshot, float64) float64 { return 0 }

// Timer is a wall-clock-anchored periodic source (spec.md §4.D.3), grounded
// on original_source's control/torctimercontrol.h field layout (no .cpp body
// was available in the retrieval pack, so the scheduling algorithm below is
// this implementation's own derivation from the header's fields and the
// worked example in spec.md §8 scenario 5 — see DESIGN.md).
type Timer struct {
	*Control

	timerType    types.TimerType
	period       int64 // seconds
	duration     int64 // seconds
	anchorOffset int64 // seconds into the period where the rising edge falls

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewTimer constructs a Timer control. customPeriod is only used when
// timerType is Custom. startDay is the weekly anchor (time.Sunday==0..
// time.Saturday==6); ignored except for TimerWeekly. startOfDaySeconds is
// the seconds-since-midnight component of startTime.
func NewTimer(conn *bus.Connection, cfg device.Config, timerType types.TimerType, durationSeconds, customPeriodSeconds, startOfDaySeconds int64, startDay time.Weekday) (*Timer, error) {
	period, ok := fixedPeriod[timerType]
	if !ok {
		if timerType != types.TimerCustom {
			return nil, errcode.New(errcode.ErrConfig, "Timer %q has unknown timerType %q", cfg.UniqueID, timerType)
		}
		if customPeriodSeconds <= 0 {
			return nil, errcode.New(errcode.ErrConfig, "Timer %q is Custom but has no positive period", cfg.UniqueID)
		}
		period = customPeriodSeconds
	}
	if durationSeconds <= 0 || durationSeconds > period {
		return nil, errcode.New(errcode.ErrConfig, "Timer %q duration %ds must be in (0, period=%ds]", cfg.UniqueID, durationSeconds, period)
	}

	anchor := startOfDaySeconds
	if timerType == types.TimerWeekly {
		anchor += int64(startDay) * 86400
	}
	anchor = ((anchor % period) + period) % period

	t := &Timer{
		timerType:    timerType,
		period:       period,
		duration:     durationSeconds,
		anchorOffset: anchor,
	}
	t.Control = New(conn, cfg, types.ControlTimer, noopCalc{})
	return t, nil
}

// Start wires the shared output-forwarding machinery (Timer declares no
// inputs, so there is nothing for the generic pump/recompute path to do) and
// then launches the wall-clock scheduler (spec.md §4.D.3: "Timers have no
// inputs; they are sources").
func (t *Timer) Start(ctx context.Context, sources map[string]Source) {
	t.Control.wire(ctx, sources)
	t.Run(ctx)
}

func (t *Timer) Validate() error {
	if t.OutputCount() < 1 {
		return errcode.New(errcode.ErrValidation, "Timer %q has no outputs", t.GetUniqueID())
	}
	return nil
}

func referenceEpoch(now time.Time, weekly bool) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if !weekly {
		return day
	}
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// cyclePosition returns how many seconds into the current period `now`
// falls, after subtracting the configured anchor.
func (t *Timer) cyclePosition(now time.Time) int64 {
	ref := referenceEpoch(now, t.timerType == types.TimerWeekly)
	elapsed := int64(now.Sub(ref).Seconds())
	pos := (elapsed - t.anchorOffset) % t.period
	if pos < 0 {
		pos += t.period
	}
	return pos
}

// valueAt is the pure function the scheduler and TimeSinceLastTransition
// both read from.
func (t *Timer) valueAt(now time.Time) (value float64, secondsSinceEdge int64, secondsToNextEdge int64) {
	pos := t.cyclePosition(now)
	if pos < t.duration {
		return 1, pos, t.duration - pos
	}
	return 0, pos - t.duration, t.period - pos
}

// TimeSinceLastTransition returns the elapsed time since the current
// sub-interval (on or off) began — the value a Transition control resumes
// its animation from at startup (spec.md §4.D.4).
func (t *Timer) TimeSinceLastTransition() time.Duration {
	_, since, _ := t.valueAt(time.Now())
	return time.Duration(since) * time.Second
}

// Run starts the wall-clock scheduling loop: emit the value for "now",
// schedule a wake-up at the next boundary, and on each wake-up flip and
// reschedule. Call after Start has wired the output subscribers.
func (t *Timer) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	v, _, toNext := t.valueAt(time.Now())
	t.Device.SetValid(true)
	t.Device.SetValue(v)
	t.scheduleNext(runCtx, toNext)
}

func (t *Timer) scheduleNext(ctx context.Context, in int64) {
	if in <= 0 {
		in = 1
	}
	tm := time.AfterFunc(time.Duration(in)*time.Second, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		v, _, toNext := t.valueAt(time.Now())
		t.Device.SetValue(v)
		t.scheduleNext(ctx, toNext)
	})
	t.mu.Lock()
	t.timer = tm
	t.mu.Unlock()
}

// Stop cancels the scheduling loop in addition to the base Control's
// unsubscribe/wait.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
	t.Control.Stop()
}
