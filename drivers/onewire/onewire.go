// Package onewire drives a DS18B20 1-wire temperature sensor and feeds its
// readings into an inputs.Temperature, standing in for original_source's
// platform temperature inputs (spec.md §1's "physical sensors" half of the
// purpose statement, left as a collaborator in §6). Grounded on
// google-periph's devices/ds18b20 (New/Temperature/LastTemp shape,
// conversion-then-sleep protocol) ported from the deprecated
// periph.io/x/periph module layout to the split periph.io/x/conn/v3 +
// periph.io/x/host/v3 modules.
package onewire

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/onewire"
	"periph.io/x/host/v3"

	"torc/errcode"
	"torc/inputs"
	"torc/types"
)

// Sensor wraps a single DS18B20 on a 1-wire bus, resolution fixed at
// construction exactly as google-periph's ds18b20.New requires (9..12
// bits, 94ms..750ms conversion time).
type Sensor struct {
	bus        onewire.Bus
	addr       onewire.Address
	resolution int
}

// NewSensor calls host.Init() to register the platform's 1-wire drivers
// (periph.io/x/host/v3's standard bring-up call), then wraps addr on bus at
// the given resolution.
func NewSensor(bus onewire.Bus, addr onewire.Address, resolutionBits int) (*Sensor, error) {
	if resolutionBits < 9 || resolutionBits > 12 {
		return nil, fmt.Errorf("onewire: invalid resolutionBits %d", resolutionBits)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("onewire: host.Init: %w", err)
	}
	return &Sensor{bus: bus, addr: addr, resolution: resolutionBits}, nil
}

// conversionDelay mirrors google-periph's conversionSleep table: resolution
// in bits maps to a fixed conversion time the datasheet specifies.
func conversionDelay(resolutionBits int) time.Duration {
	switch resolutionBits {
	case 9:
		return 94 * time.Millisecond
	case 10:
		return 188 * time.Millisecond
	case 11:
		return 375 * time.Millisecond
	default:
		return 750 * time.Millisecond
	}
}

// Read performs one conversion and returns the result in degrees Celsius,
// the sensor's native unit.
func (s *Sensor) Read() (float64, error) {
	dev := onewire.Dev{Bus: s.bus, Addr: s.addr}
	if err := dev.TxPower([]byte{0x44}, nil); err != nil {
		return 0, fmt.Errorf("onewire: start conversion: %w", err)
	}
	time.Sleep(conversionDelay(s.resolution))

	scratchpad := make([]byte, 9)
	if err := dev.Tx([]byte{0xbe}, scratchpad); err != nil {
		return 0, fmt.Errorf("onewire: read scratchpad: %w", err)
	}
	raw := int16(scratchpad[0]) | int16(scratchpad[1])<<8
	return float64(raw) / 16, nil
}

// Poll reads s every interval and ingests the result into t, converting to
// t's configured unit first (spec.md §4.B: Temperature inputs store values
// in the process-wide configured unit, not necessarily the sensor's
// native Celsius). A read failure marks t invalid rather than propagating
// the error across the device boundary (spec.md §7 kind 4, ErrRuntimeIO).
func Poll(ctx context.Context, s *Sensor, t *inputs.Temperature, interval time.Duration, onErr func(*errcode.E)) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			c, err := s.Read()
			if err != nil {
				t.SetValid(false)
				if onErr != nil {
					onErr(errcode.New(errcode.ErrRuntimeIO, "onewire read failed: %v", err))
				}
				continue
			}
			v := c
			if t.Unit() == types.Fahrenheit {
				v = types.CelsiusToFahrenheit(c)
			}
			t.Ingest(v)
		}
	}
}
