package outputs

import (
	"sync"
	"time"

	"torc/bus"
	"torc/device"
	"torc/types"
)

const pulseWidth = 5 * time.Millisecond

// Button is an output with the same pulse semantics as the Button input:
// any SetValue call ignores its argument, toggles the current value, and
// auto-reverts after 5 ms; calls arriving during a pulse are dropped.
//
// spec.md §9's open question ("Button output with no owner") is deliberately
// left unenforced here: SetValue does not check Owner() at all, reproducing
// original_source's behavior of never rejecting a write from a non-owning
// control.
type Button struct {
	*Base

	mu      sync.Mutex
	pulsing bool
}

func NewButton(conn *bus.Connection, cfg device.Config, program Program) *Button {
	return &Button{Base: NewBase(conn, cfg, types.OutputButton, program)}
}

func (b *Button) SetValue(_ float64) {
	b.mu.Lock()
	if b.pulsing {
		b.mu.Unlock()
		return
	}
	b.pulsing = true
	cur := b.GetValue()
	next := 1.0
	if cur >= 1.0 {
		next = 0.0
	}
	time.AfterFunc(pulseWidth, b.revert)
	b.mu.Unlock()

	b.Base.SetValue(next)
}

func (b *Button) revert() {
	b.mu.Lock()
	b.pulsing = false
	cur := b.GetValue()
	next := 1.0
	if cur >= 1.0 {
		next = 0.0
	}
	b.mu.Unlock()
	b.Base.SetValue(next)
}
