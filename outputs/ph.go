package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// PH commands a pH dosing setpoint, range [0,14].
type PH struct {
	*Base
}

func NewPH(conn *bus.Connection, cfg device.Config, program Program) *PH {
	return &PH{Base: NewBase(conn, cfg, types.OutputPH, program)}
}
