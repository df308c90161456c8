package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Temperature commands a setpoint in the process-wide configured unit.
type Temperature struct {
	*Base
	unit types.TemperatureUnit
}

func NewTemperature(conn *bus.Connection, cfg device.Config, unit types.TemperatureUnit, program Program) *Temperature {
	return &Temperature{
		Base: NewBase(conn, cfg, types.OutputTemperature, program),
		unit: unit,
	}
}

func (t *Temperature) Unit() types.TemperatureUnit { return t.unit }
