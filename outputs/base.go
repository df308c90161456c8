// Package outputs implements the sink half of the device graph: constant and
// network-reflected outputs, the typed hardware adapters (Switch, PWM,
// Temperature, pH, Integer, Button, Camera), and the owner-claim protocol
// that keeps at most one writer bound to a given output. Grounded on
// original_source's torcoutput.h/torcoutputs.cpp (SetOwner, program-on-change)
// adapted onto torc/device.
package outputs

import (
	"sync"

	"torc/bus"
	"torc/device"
	"torc/types"
)

// Program, when non-nil, drives the physical/logical sink. It runs only when
// SetValue registers an actual change (fuzzy-filtered), mirroring spec.md
// §4.C's "program the underlying device on change only".
type Program func(float64) error

// Base is the common Output: a Device plus the single-owner claim and an
// optional hardware Program hook.
type Base struct {
	*device.Device

	kind    types.OutputType
	program Program

	mu    sync.Mutex
	owner any
}

func NewBase(conn *bus.Connection, cfg device.Config, kind types.OutputType, program Program) *Base {
	return &Base{
		Device:  device.New(conn, cfg),
		kind:    kind,
		program: program,
	}
}

func (b *Base) Kind() types.OutputType { return b.kind }

// SetOwner claims write ownership. It succeeds if the output is unowned or
// already owned by the same claimant; a different claimant is rejected
// (spec.md §3, §7 error kind 3 — the caller is expected to log the
// rejection).
func (b *Base) SetOwner(owner any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.owner == nil || b.owner == owner {
		b.owner = owner
		return true
	}
	return false
}

func (b *Base) Owner() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// SetValue applies v, running Program only when the change clears the fuzzy
// filter — re-announcing an unchanged command to hardware is wasted I/O and,
// for some actuators, visibly disruptive.
func (b *Base) SetValue(v float64) {
	old := b.Device.GetValue()
	changed := !types.FuzzyEqual(v+1, old+1)
	b.Device.SetValue(v)
	if changed && b.program != nil {
		if err := b.program(v); err != nil {
			b.Device.SetValid(false)
		}
	}
}

// Start satisfies the common Output contract: republish current state.
func (b *Base) Start() {
	b.Device.EmitCurrentState()
}
