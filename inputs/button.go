package inputs

import (
	"sync"
	"time"

	"torc/bus"
	"torc/device"
	"torc/types"
)

// pulseWidth is the 5 ms Button pulse duration spec.md §4.B and §5 both name.
const pulseWidth = 5 * time.Millisecond

// Button is a switch-range input that ignores its SetValue argument and
// instead toggles the current value, auto-reverting after pulseWidth.
// Further SetValue calls while a pulse is in flight are dropped. Grounded on
// original_source's TorcButtonInput pulse/debounce pattern (spec.md §5 names
// a 20 ms debounce and 5 ms pulse width as the platform driver's concern;
// the pulse-and-revert itself lives here).
type Button struct {
	*Base

	mu      sync.Mutex
	pulsing bool
	timer   *time.Timer
}

func NewButton(conn *bus.Connection, cfg device.Config) *Button {
	return &Button{Base: NewBase(conn, cfg, types.InputButton, 0, 1, nil)}
}

// SetValue ignores its argument and starts a pulse exactly as Trigger does.
func (b *Button) SetValue(_ float64) { b.Trigger() }

// Trigger is what a platform driver (or the Button output's owning control,
// for a loopback wiring spec.md §4.B warns against) calls on every raw edge.
// Each call is one edge; it carries no value.
func (b *Button) Trigger() {
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
	b.timer = time.AfterFunc(pulseWidth, b.revert)
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
