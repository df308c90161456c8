// Package controls implements the three control families — Logic, Timer,
// Transition — and the common wiring every control shares: a per-control
// inbox goroutine that serializes input-change events and recomputation.
//
// spec.md §9 calls this out explicitly as a redesign target: "Observer/
// callback graph -> typed event channels... model each device as an
// actor-like entity with a typed inbox" and "Recursive mutexes -> rethink
// lock scope... prefer short critical sections that snapshot state under
// lock, release, then emit." Control reproduces exactly that shape: each
// control owns a single goroutine draining its inbox channel, so two inputs
// racing to update the same control serialize naturally at the channel
// rather than via a recursive mutex (spec.md §5's "two inputs feeding the
// same control serialize their updates at the control").
//
// Grounded on the teacher's services/hal internal/core loop.go (the
// HAL.Run/applyConfig/handleControl/handleEvent single-goroutine event-loop
// pattern) generalized from one hardware-abstraction loop to one loop per
// control instance.
package controls

import (
	"context"
	"sync"

	"torc/bus"
	"torc/device"
	"torc/types"
)

// Source is anything a control can read an upstream value/valid pair from
// and subscribe to changes on — an Input, another Control, or (for test
// doubles) any device-shaped type.
type Source interface {
	GetUniqueID() string
	GetValue() float64
	GetValid() bool
	Subscribe(topic bus.Topic) *bus.Subscription
}

// Sink is anything a control can drive — an Output or another Control.
type Sink interface {
	GetUniqueID() string
	SetValue(float64)
}

type inputEvent struct {
	id    string
	value float64
	valid bool
	kind  byte // 'v' value changed, 'a' valid changed
}

// Snapshot is the per-input state a Calculator reads to produce the
// control's next value. Values/Last are keyed by the upstream device's
// uniqueId and AllValid reports whether every input is valid; Order preserves config declaration order, since several
// Logic operations are defined over "the single input" or care about
// positional ordering.
type Snapshot struct {
	Order    []string
	Values   map[string]float64
	Last     map[string]float64
	AllValid bool
}

// Calculator is the type-specific recomputation hook — CalculateOutput in
// spec.md §4.D.1 — invoked only when every input is currently valid. current
// is the control's own value before this recompute, needed by stateful ops
// like Toggle.
type Calculator interface {
	Calculate(s Snapshot, current float64) float64
}

// Control is the common base embedded by Logic, Timer and Transition.
type Control struct {
	*device.Device

	kind types.ControlType
	conn *bus.Connection
	calc Calculator

	mu     sync.Mutex
	order  []string
	values map[string]float64
	valids map[string]bool
	last   map[string]float64

	outputs     []Sink
	passThrough bool

	subs   []*bus.Subscription
	inbox  chan inputEvent
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Control with no inputs/outputs wired yet; call AddInput/
// AddOutput, then Validate, then Start.
func New(conn *bus.Connection, cfg device.Config, kind types.ControlType, calc Calculator) *Control {
	return &Control{
		Device: device.New(conn, cfg),
		kind:   kind,
		conn:   conn,
		calc:   calc,
		values: make(map[string]float64),
		valids: make(map[string]bool),
		last:   make(map[string]float64),
	}
}

func (c *Control) Kind() types.ControlType { return c.kind }

// AddInput registers an upstream source. Must be called before Start.
func (c *Control) AddInput(src Source) {
	id := src.GetUniqueID()
	c.mu.Lock()
	c.order = append(c.order, id)
	c.values[id] = src.GetValue()
	c.valids[id] = src.GetValid()
	c.last[id] = src.GetValue()
	c.mu.Unlock()
}

// AddOutput registers a downstream sink. Must be called before Start.
func (c *Control) AddOutput(sink Sink) {
	c.outputs = append(c.outputs, sink)
}

// InputCount and OutputCount back the cardinality checks Validate performs
// (spec.md §4.D.1).
func (c *Control) InputCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func (c *Control) OutputCount() int { return len(c.outputs) }

// MarkPassThrough records the pass-through optimization hint (spec.md
// §4.D.2); it changes no runtime behavior.
func (c *Control) MarkPassThrough() { c.passThrough = true }

func (c *Control) PassThrough() bool { return c.passThrough }

// Start subscribes to every input's value/valid topics, wires this control's
// own value changes to every output, launches the inbox goroutine that
// serializes recomputation, and then performs one initial recompute from the
// current input snapshot, exactly as the common control protocol requires
// after Finish (spec.md §4.D.1). Timer and Transition override Start: Timer
// has no inputs to recompute from and instead drives its own wall-clock
// scheduler (Run); Transition, when fed by a Timer, replaces the generic
// initial recompute with the resume-at-startup protocol (spec.md §4.D.4).
// Both still call wire first to get the shared pump/output-forwarding
// machinery below.
func (c *Control) Start(ctx context.Context, sources map[string]Source) {
	c.wire(ctx, sources)
	c.recompute()
}

// wire sets up the input pumps, output forwarding and inbox loop without
// performing the initial recompute — split out so Timer and Transition can
// substitute their own startup step after the plumbing is in place.
func (c *Control) wire(ctx context.Context, sources map[string]Source) {
	c.inbox = make(chan inputEvent, 16)
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for _, id := range c.order {
		src := sources[id]
		valueSub := src.Subscribe(device.ValueTopic(id))
		validSub := src.Subscribe(device.ValidTopic(id))
		c.subs = append(c.subs, valueSub, validSub)
		c.wg.Add(2)
		go c.pump(runCtx, valueSub, 'v')
		go c.pump(runCtx, validSub, 'a')
	}

	for _, sink := range c.outputs {
		sink := sink
		outSub := c.Subscribe(device.ValueTopic(c.GetUniqueID()))
		c.subs = append(c.subs, outSub)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case m, ok := <-outSub.Channel():
					if !ok {
						return
					}
					if vc, ok := m.Payload.(device.ValueChange); ok {
						sink.SetValue(vc.Value)
					}
				}
			}
		}()
	}

	c.wg.Add(1)
	go c.loop(runCtx)
}

func (c *Control) pump(ctx context.Context, sub *bus.Subscription, kind byte) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			switch kind {
			case 'v':
				if vc, ok := m.Payload.(device.ValueChange); ok {
					select {
					case c.inbox <- inputEvent{id: vc.UniqueID, value: vc.Value, kind: 'v'}:
					case <-ctx.Done():
						return
					}
				}
			case 'a':
				if vc, ok := m.Payload.(device.ValidChange); ok {
					select {
					case c.inbox <- inputEvent{id: vc.UniqueID, valid: vc.Valid, kind: 'a'}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}
}

func (c *Control) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.inbox:
			c.mu.Lock()
			switch ev.kind {
			case 'v':
				c.last[ev.id] = c.values[ev.id]
				c.values[ev.id] = ev.value
			case 'a':
				c.valids[ev.id] = ev.valid
			}
			c.mu.Unlock()
			c.recompute()
		}
	}
}

// recompute is the common control protocol's steps 2-4 (spec.md §4.D.1):
// recompute allInputsValid; if any input is invalid, mark this control
// invalid (which itself propagates to outputs via the normal SetValid path);
// otherwise invoke Calculate and publish the result through SetValue.
func (c *Control) recompute() {
	snap := c.snapshot()
	if !snap.AllValid {
		c.Device.SetValid(false)
		return
	}
	v := c.calc.Calculate(snap, c.Device.GetValue())
	c.Device.SetValue(v)
}

func (c *Control) snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	order := make([]string, len(c.order))
	copy(order, c.order)
	values := make(map[string]float64, len(c.values))
	last := make(map[string]float64, len(c.last))
	allValid := true
	for _, id := range order {
		values[id] = c.values[id]
		last[id] = c.last[id]
		if !c.valids[id] {
			allValid = false
		}
	}
	return Snapshot{Order: order, Values: values, Last: last, AllValid: allValid}
}

// Stop cancels the inbox/pump goroutines and unsubscribes everything. Source
// controls (Timer) that run their own scheduling loop override Stop to also
// cancel that loop.
func (c *Control) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	for _, s := range c.subs {
		s.Unsubscribe()
	}
	c.wg.Wait()
}

// Single returns the lone input's current value — used by Logic ops with
// exactly-one-input cardinality and by Transition.
func (s Snapshot) Single() float64 {
	if len(s.Order) == 0 {
		return 0
	}
	return s.Values[s.Order[0]]
}

func (s Snapshot) SingleLast() float64 {
	if len(s.Order) == 0 {
		return 0
	}
	return s.Last[s.Order[0]]
}
