package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
	"torc/x/mathx"
)

// PWM quantizes the incoming [0,1] float to the device's native duty-cycle
// resolution before it reaches the caller-supplied raw program function, and
// short-circuits the "fully off"/"fully on" cases to exact 0/resolution —
// spec.md §4.C: "quantize ... before emitting the hardware command, and
// short-circuit 'fully off'/'fully on' paths."
type PWM struct {
	*Base
	resolution uint32
}

// NewPWM constructs a PWM output. resolution is the hardware's native duty
// step count (e.g. 255 for an 8-bit channel); raw receives the quantized
// duty count in [0, resolution].
func NewPWM(conn *bus.Connection, cfg device.Config, resolution uint32, raw func(duty uint32) error) *PWM {
	p := &PWM{resolution: resolution}
	var program Program
	if raw != nil {
		program = func(v float64) error { return raw(p.quantize(v)) }
	}
	p.Base = NewBase(conn, cfg, types.OutputPWM, program)
	return p
}

func (p *PWM) quantize(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return p.resolution
	}
	clamped := mathx.Clamp(v, 0, 1)
	return uint32(clamped*float64(p.resolution) + 0.5)
}
