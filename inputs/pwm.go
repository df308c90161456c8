package inputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// PWM is a [0,1] analog input whose ScaleValue is the identity — the raw
// driver reading already is the stored value (spec.md §4.B).
type PWM struct {
	*Base
}

func NewPWM(conn *bus.Connection, cfg device.Config) *PWM {
	return &PWM{Base: NewBase(conn, cfg, types.InputPWM, 0, 1, nil)}
}
