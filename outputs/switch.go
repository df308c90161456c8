package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Switch commands a binary sink. program, if non-nil, receives 0 or 1.
type Switch struct {
	*Base
}

func NewSwitch(conn *bus.Connection, cfg device.Config, program Program) *Switch {
	return &Switch{Base: NewBase(conn, cfg, types.OutputSwitch, program)}
}
