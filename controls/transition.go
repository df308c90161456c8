package controls

import (
	"context"
	"sync"
	"time"

	"torc/bus"
	"torc/device"
	"torc/errcode"
	"torc/types"
	"torc/x/easing"
	"torc/x/mathx"
)

// animTick is the animation sampling interval: fine enough that a 60 s
// transition looks smooth, coarse enough not to flood the bus.
const animTick = 20 * time.Millisecond

// ElapsedProvider is implemented by Timer; a Transition whose sole input
// satisfies it uses the resume-at-startup protocol of spec.md §4.D.4.
type ElapsedProvider interface {
	TimeSinceLastTransition() time.Duration
}

// Transition drives its outputs through one of 41 easing curves between 0
// and 1 in response to its single input's value, grounded on
// original_source's control/torctransitioncontrol.cpp CalculateOutput: the
// rising shape plays forward, falling plays the same shape backward, a
// mid-flight reversal continues smoothly rather than snapping, and
// re-entrant calls with an unchanged (fuzzy) target are ignored.
type Transition struct {
	*Control

	curve    types.EasingCurve
	fn       easing.Func
	duration time.Duration

	mu                 sync.Mutex
	animStart          time.Time
	forward            bool
	animating          bool
	transitionValue    float64
	hasTransitionValue bool
	animCancel         context.CancelFunc
}

func NewTransition(conn *bus.Connection, cfg device.Config, curve types.EasingCurve, durationSeconds float64) (*Transition, error) {
	fn, ok := easing.Lookup(curve)
	if !ok {
		return nil, errcode.New(errcode.ErrConfig, "Transition %q has unknown easingCurve %q", cfg.UniqueID, curve)
	}
	if durationSeconds <= 0 {
		return nil, errcode.New(errcode.ErrConfig, "Transition %q duration must be positive", cfg.UniqueID)
	}
	tr := &Transition{
		curve:    curve,
		fn:       fn,
		duration: time.Duration(durationSeconds * float64(time.Second)),
	}
	tr.Control = New(conn, cfg, types.ControlTransition, tr)
	return tr, nil
}

// Validate enforces "exactly one input, >=1 outputs" (spec.md §4.D.4).
func (t *Transition) Validate() error {
	if t.InputCount() != 1 {
		return errcode.New(errcode.ErrValidation, "Transition %q needs exactly 1 input, got %d", t.GetUniqueID(), t.InputCount())
	}
	if t.OutputCount() < 1 {
		return errcode.New(errcode.ErrValidation, "Transition %q has no outputs", t.GetUniqueID())
	}
	return nil
}

// Start wires the shared pump/output-forwarding machinery and then performs
// the initial calculation: if the sole input is a Timer (satisfies
// ElapsedProvider), the resume-at-startup protocol runs instead of the
// generic recompute, per spec.md §4.D.4's "Startup protocol when the sole
// input is a Timer". Any other input shape falls back to the common
// control's ordinary initial recompute.
func (t *Transition) Start(ctx context.Context, sources map[string]Source) {
	t.Control.wire(ctx, sources)

	if len(t.Control.order) == 1 {
		id := t.Control.order[0]
		if src, ok := sources[id]; ok {
			if provider, ok := src.(ElapsedProvider); ok {
				t.Resume(provider, src.GetValue())
				return
			}
		}
	}
	t.Control.recompute()
}

// isRising treats a fuzzy-nonzero target as "rising" (play forward) and
// fuzzy-zero as "falling" (play backward), matching Logic's isOn test.
func isRising(v float64) bool { return !types.FuzzyEqual(v+1, 1) }

// Calculate is the common-control entry point for every input change. It
// applies the edge filter, then kicks off (or redirects) the background
// animation; the control's own published value is advanced by that
// goroutine via Device.SetValue, not by this return value, so Calculate
// simply echoes `current` back to the caller.
func (t *Transition) Calculate(s Snapshot, current float64) float64 {
	in := s.Single()

	t.mu.Lock()
	if t.hasTransitionValue && types.FuzzyEqual(in+1, t.transitionValue+1) {
		t.mu.Unlock()
		return current
	}
	t.transitionValue = in
	t.hasTransitionValue = true
	t.mu.Unlock()

	t.startAnimation(in, nil)
	return current
}

// Resume implements the startup protocol for a Transition fed by a Timer
// (spec.md §4.D.4): if the timer's current sub-interval is already older
// than this transition's duration, the animation is over — jump straight to
// the input's value. Otherwise start from the opposite value and fast-
// forward to the elapsed offset.
func (t *Transition) Resume(provider ElapsedProvider, inputCurrent float64) {
	elapsed := provider.TimeSinceLastTransition()

	t.mu.Lock()
	t.transitionValue = inputCurrent
	t.hasTransitionValue = true
	t.mu.Unlock()

	if elapsed > t.duration {
		t.Device.SetValid(true)
		t.Device.SetValue(inputCurrent)
		return
	}

	opposite := 1.0
	if isRising(inputCurrent) {
		opposite = 0.0
	}
	t.Device.SetValid(true)
	t.Device.SetValue(opposite)
	t.startAnimation(inputCurrent, &elapsed)
}

// startAnimation begins (or redirects) the ticking goroutine toward target.
// presetOffset, when non-nil, fast-forwards the animation to that elapsed
// position (the Resume path); otherwise, if an animation is already in
// flight, the new one picks up from the mirrored point of the old one's
// progress so the output does not snap (spec.md §9's reversal note).
func (t *Transition) startAnimation(target float64, presetOffset *time.Duration) {
	forward := isRising(target)
	now := time.Now()

	t.mu.Lock()
	var offset time.Duration
	switch {
	case presetOffset != nil:
		offset = *presetOffset
	case t.animating:
		p := t.progressLocked(now)
		offset = time.Duration(float64(t.duration) * (1 - p))
	}
	t.forward = forward
	t.animStart = now.Add(-offset)
	t.animating = true
	if t.animCancel != nil {
		t.animCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.animCancel = cancel
	t.mu.Unlock()

	go t.animate(ctx)
}

func (t *Transition) progressLocked(now time.Time) float64 {
	elapsed := now.Sub(t.animStart)
	return mathx.Clamp(float64(elapsed)/float64(t.duration), 0, 1)
}

func (t *Transition) animate(ctx context.Context) {
	ticker := time.NewTicker(animTick)
	defer ticker.Stop()
	for {
		t.mu.Lock()
		p := t.progressLocked(time.Now())
		forward := t.forward
		t.mu.Unlock()

		x := p
		if !forward {
			x = 1 - p
		}
		t.Device.SetValue(t.fn(x))

		if p >= 1 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels any in-flight animation in addition to the base Control's
// unsubscribe/wait.
func (t *Transition) Stop() {
	t.mu.Lock()
	if t.animCancel != nil {
		t.animCancel()
	}
	t.mu.Unlock()
	t.Control.Stop()
}
