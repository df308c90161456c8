// Package graph assembles a decoded config tree into a running device graph:
// constructs every input, control and output, links each control's declared
// input/output ids to the actual device objects, validates cardinality, and
// drives the Start/Stop lifecycle in the order spec.md §5 requires.
//
// Grounded on the teacher's services/hal internal/core engine (applyConfig's
// build-then-link-then-start shape) and, for the id table itself, on
// internal/core/registry.go's RegisterBuilder/lookupBuilder pattern and
// original_source/torcdevice.cpp's gDeviceList.
package graph

import (
	"context"
	"fmt"

	"torc/bus"
	"torc/controls"
	"torc/errcode"
	"torc/lifecycle"
	"torc/telemetry"
	"torc/types"
)

// lifecycleSource is satisfied by inputs.SystemStarted: an input that drives
// its own value from the process lifecycle bus (spec.md §4.B, §6
// collaborator #4) rather than from the generic initial-emit every other
// input gets from Start. Engine.Start type-asserts for it the same way
// Engine.Stop type-asserts for the optional interface{ Stop() }.
type lifecycleSource interface {
	Run(ctx context.Context, startTopic, willStopTopic, stopTopic bus.Topic)
}

// Engine owns one fully assembled device graph: every constructed input,
// control and output device, the id registry they're addressable through,
// and the running context that Stop tears down.
type Engine struct {
	conn *bus.Connection
	log  telemetry.Logger

	reg *idRegistry

	inputs   []InputDevice
	controls []ControlDevice
	outputs  []OutputDevice

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns an Engine with nothing built yet; call Build then Start.
func New(conn *bus.Connection, log telemetry.Logger) *Engine {
	return &Engine{conn: conn, log: log, reg: newIDRegistry()}
}

// errList collects per-device build/link/validate errors without aborting
// the whole build — spec.md §7 kind 1/2: a bad device definition is logged
// and the device is skipped, the rest of the graph still comes up.
type errList []error

func (e *errList) add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

// Build walks cfg's three sections, constructs every device through its
// registered factory, links control input/output id-lists to the
// constructed objects, and validates every control. It does not Start
// anything. Errors encountered along the way are logged and also returned,
// and the offending device is dropped; Build never panics or aborts on a
// single bad entry.
func (e *Engine) Build(cfg types.GraphConfig) errList {
	var errs errList

	for tag, byID := range cfg.Inputs {
		factory, ok := lookupInputFactory(tag)
		if !ok {
			errs.add(errcode.New(errcode.ErrConfig, "unknown input type %q", tag))
			continue
		}
		for id, detail := range byID {
			dev, err := factory(e.conn, id, detail)
			if err != nil {
				errs.add(errcode.New(errcode.ErrConfig, "input %q (%s): %v", id, tag, err))
				continue
			}
			if err := e.reg.add(id, dev); err != nil {
				errs.add(err)
				continue
			}
			e.inputs = append(e.inputs, dev)
		}
	}

	for tag, byID := range cfg.Outputs {
		factory, ok := lookupOutputFactory(tag)
		if !ok {
			errs.add(errcode.New(errcode.ErrConfig, "unknown output type %q", tag))
			continue
		}
		for id, detail := range byID {
			dev, err := factory(e.conn, id, detail)
			if err != nil {
				errs.add(errcode.New(errcode.ErrConfig, "output %q (%s): %v", id, tag, err))
				continue
			}
			if err := e.reg.add(id, dev); err != nil {
				errs.add(err)
				continue
			}
			e.outputs = append(e.outputs, dev)
		}
	}

	for tag, byID := range cfg.Controls {
		factory, ok := lookupControlFactory(tag)
		if !ok {
			errs.add(errcode.New(errcode.ErrConfig, "unknown control type %q", tag))
			continue
		}
		for id, detail := range byID {
			ctrl, err := factory(e.conn, id, detail)
			if err != nil {
				errs.add(errcode.New(errcode.ErrConfig, "control %q (%s): %v", id, tag, err))
				continue
			}
			if err := e.link(ctrl, detail); err != nil {
				errs.add(errcode.New(errcode.ErrValidation, "control %q (%s): %v", id, tag, err))
				continue
			}
			if err := ctrl.Validate(); err != nil {
				errs.add(errcode.New(errcode.ErrValidation, "control %q (%s): %v", id, tag, err))
				continue
			}
			if err := e.reg.add(id, ctrl); err != nil {
				errs.add(err)
				continue
			}
			e.markPassThrough(ctrl)
			e.controls = append(e.controls, ctrl)
		}
	}

	for _, err := range errs {
		e.log.Error(err.Error())
	}
	return errs
}

// link resolves a control's configured "inputs"/"outputs" id-lists into the
// actual Source/Sink objects registered under those ids. Either list may
// name another control as well as an input/output, since controls.Source
// and controls.Sink are satisfied by *device.Device regardless of family
// (spec.md §4.D.3: control chaining).
func (e *Engine) link(ctrl ControlDevice, cfg types.DeviceConfig) error {
	type linker interface {
		AddInput(controls.Source)
		AddOutput(controls.Sink)
	}
	lk, ok := ctrl.(linker)
	if !ok {
		return fmt.Errorf("control does not implement linking")
	}

	for _, id := range cfg.StringList("inputs") {
		obj, found := e.reg.get(id)
		if !found {
			return fmt.Errorf("input reference %q not found", id)
		}
		src, ok := obj.(controls.Source)
		if !ok {
			return fmt.Errorf("referenced device %q is not a valid input source", id)
		}
		lk.AddInput(src)
	}

	for _, id := range cfg.StringList("outputs") {
		obj, found := e.reg.get(id)
		if !found {
			return fmt.Errorf("output reference %q not found", id)
		}
		sink, ok := obj.(controls.Sink)
		if !ok {
			return fmt.Errorf("referenced device %q is not a valid output sink", id)
		}
		lk.AddOutput(sink)
	}
	return nil
}

// markPassThrough sets the pass-through flag on any control that has exactly
// one input. It does not look at the control's type or operation, nor at
// whether its input and outputs are raw devices or other controls. The flag
// is only recorded: nothing reads it, and a marked control recomputes
// exactly like an unmarked one.
func (e *Engine) markPassThrough(ctrl ControlDevice) {
	if ctrl.InputCount() == 1 {
		ctrl.MarkPassThrough()
	}
}

// Start launches the whole graph: inputs first (so their retained initial
// state is on the bus before anything subscribes), then controls (which
// subscribe to inputs and to each other), then outputs last — the reverse
// of Stop's order, per spec.md §5. Any input satisfying lifecycleSource
// (inputs.SystemStarted) also gets its Run loop launched against
// torc/lifecycle's topics, so it tracks Start/WillStop/Stop instead of
// sitting at its zero default for the life of the process. That loop runs
// against context.Background(), not ctx/e.ctx: the calling composition root
// typically cancels ctx to *signal* shutdown and then publishes
// lifecycle's WillStop/Stop some time after, so a Run tied to ctx would
// already have exited by the time those events arrive. Run returns on its
// own once it observes the terminal Stop event (see its doc comment).
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)

	for _, in := range e.inputs {
		in.Start()
		if ls, ok := in.(lifecycleSource); ok {
			go ls.Run(context.Background(), lifecycle.StartTopic(), lifecycle.WillStopTopic(), lifecycle.StopTopic())
		}
	}
	sources := e.sourceTable()
	for _, c := range e.controls {
		c.Start(e.ctx, sources)
	}
	for _, out := range e.outputs {
		out.Start()
	}
}

// sourceTable exposes every registered device as a controls.Source keyed by
// id, the map Control.Start needs to resolve its own AddInput-registered ids
// back to live subscribable objects.
func (e *Engine) sourceTable() map[string]controls.Source {
	out := make(map[string]controls.Source, len(e.inputs)+len(e.controls))
	for _, id := range e.reg.ids() {
		obj, _ := e.reg.get(id)
		if src, ok := obj.(controls.Source); ok {
			out[id] = src
		}
	}
	return out
}

// Stop tears the graph down in the order spec.md §5 mandates: outputs first
// (nothing left to drive hardware), then controls (their inboxes drain and
// stop emitting), then inputs last.
func (e *Engine) Stop() {
	for _, out := range e.outputs {
		if s, ok := out.(interface{ Stop() }); ok {
			s.Stop()
		}
	}
	for _, c := range e.controls {
		c.Stop()
	}
	for _, in := range e.inputs {
		if s, ok := in.(interface{ Stop() }); ok {
			s.Stop()
		}
	}
	if e.cancel != nil {
		e.cancel()
	}
}

// Lookup returns the device registered under id, for callers (lifecycle,
// notify) that need to reach a specific device by its config-declared id.
func (e *Engine) Lookup(id string) (any, bool) {
	return e.reg.get(id)
}

// Counts reports how many inputs, controls and outputs are currently built,
// the shape heartbeat.Counts expects for its periodic liveness line.
func (e *Engine) Counts() (inputs, controls, outputs int) {
	return len(e.inputs), len(e.controls), len(e.outputs)
}
