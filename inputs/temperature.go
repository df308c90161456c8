package inputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Temperature stores readings in the process-wide configured unit; the
// caller (a platform driver reading °C from hardware) is responsible for
// converting via types.CelsiusToFahrenheit/FahrenheitToCelsius before
// calling Ingest if the configured unit differs from the sensor's native
// unit (spec.md §4.B).
type Temperature struct {
	*Base
	unit types.TemperatureUnit
}

func NewTemperature(conn *bus.Connection, cfg device.Config, unit types.TemperatureUnit, rangeMin, rangeMax float64) *Temperature {
	return &Temperature{
		Base: NewBase(conn, cfg, types.InputTemperature, rangeMin, rangeMax, nil),
		unit: unit,
	}
}

func (t *Temperature) Unit() types.TemperatureUnit { return t.unit }
