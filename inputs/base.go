// Package inputs implements the source half of the device graph: constant
// and network-settable sources, the SystemStarted lifecycle source, and the
// thin per-type adapters (Temperature, pH, Switch, PWM, Integer, Button) that
// platform drivers feed raw readings into. Grounded on original_source's
// inputs/torcinput.h (range/ScaleValue contract) and torcswitchinput.cpp,
// adapted onto torc/device.
package inputs

import (
	"sync"

	"torc/bus"
	"torc/device"
	"torc/types"
)

// ScaleFunc converts a raw reading from a platform driver into the device's
// stored value, mirroring TorcInput::ScaleValue.
type ScaleFunc func(float64) float64

// Base is the common Input: a Device plus the operating range and the
// out-of-range flags spec.md §3 names. Concrete input types embed Base and
// supply a ScaleFunc through Ingest.
type Base struct {
	*device.Device

	kind  types.InputType
	scale ScaleFunc

	mu            sync.Mutex
	rangeMin      float64
	rangeMax      float64
	outOfRangeLow bool
	outOfRangeHi  bool
}

// NewBase constructs an Input. If rangeMax does not exceed rangeMin, rangeMax
// is bumped to rangeMin+1 (spec.md §3: "max > min, enforced by bumping max by
// 1 if violated").
func NewBase(conn *bus.Connection, cfg device.Config, kind types.InputType, rangeMin, rangeMax float64, scale ScaleFunc) *Base {
	if rangeMax <= rangeMin {
		rangeMax = rangeMin + 1
	}
	if scale == nil {
		scale = func(v float64) float64 { return v }
	}
	return &Base{
		Device:   device.New(conn, cfg),
		kind:     kind,
		scale:    scale,
		rangeMin: rangeMin,
		rangeMax: rangeMax,
	}
}

func (b *Base) Kind() types.InputType { return b.kind }

func (b *Base) Range() (min, max float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rangeMin, b.rangeMax
}

// OutOfRangeLow and OutOfRangeHigh report the derived flags last computed by
// Ingest/SetValue. Endpoints count as out of range: value<=min is low,
// value>=max is high (spec.md §6 units convention), so the two can never
// both be true for a well-formed range.
func (b *Base) OutOfRangeLow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outOfRangeLow
}

func (b *Base) OutOfRangeHigh() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outOfRangeHi
}

func (b *Base) updateRangeFlags(v float64) {
	b.mu.Lock()
	b.outOfRangeLow = v <= b.rangeMin
	b.outOfRangeHi = v >= b.rangeMax
	b.mu.Unlock()
}

// Ingest applies the type's ScaleFunc to a raw reading and pushes the result
// through SetValue, updating the range flags first so a subscriber woken by
// the value change already sees consistent flags.
func (b *Base) Ingest(raw float64) {
	v := b.scale(raw)
	b.updateRangeFlags(v)
	b.Device.SetValue(v)
}

// SetValue bypasses ScaleFunc for callers that already hold a scaled value
// (e.g. a NetworkSettable input receiving a value over the service).
func (b *Base) SetValue(v float64) {
	b.updateRangeFlags(v)
	b.Device.SetValue(v)
}

// Start satisfies the common Input contract: emit current value then current
// valid so downstream controls align (spec.md §4.B).
func (b *Base) Start() {
	b.Device.EmitCurrentState()
}
