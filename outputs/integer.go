package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Integer commands a non-negative integer-valued setpoint.
type Integer struct {
	*Base
}

func NewInteger(conn *bus.Connection, cfg device.Config, program Program) *Integer {
	return &Integer{Base: NewBase(conn, cfg, types.OutputInteger, program)}
}
