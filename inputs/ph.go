package inputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// PH is a pH-probe input, range [0,14] (spec.md §4.B).
type PH struct {
	*Base
}

func NewPH(conn *bus.Connection, cfg device.Config) *PH {
	return &PH{Base: NewBase(conn, cfg, types.InputPH, 0, 14, nil)}
}
