package inputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Constant is a configuration-only input: Start asserts the configured
// defaultValue as valid. It adds no guard against later writes; a SetValue
// call after Start still changes the value. Grounded on original_source's
// TorcConstantInput, which simply asserts defaultValue as valid at Start
// (spec.md §4.B).
type Constant struct {
	*Base
}

func NewConstant(conn *bus.Connection, cfg device.Config, kind types.InputType, rangeMin, rangeMax float64) *Constant {
	return &Constant{Base: NewBase(conn, cfg, kind, rangeMin, rangeMax, nil)}
}

// Start asserts valid=true, value=defaultValue, then republishes per the
// common Input contract — the "Constant/network inputs additionally set
// valid=true and value=defaultValue at Start" clause of spec.md §4.B.
func (c *Constant) Start() {
	c.Base.SetValue(c.GetDefaultValue())
	c.Base.SetValid(true)
	c.Base.Start()
}
