package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// constantOwner is the sentinel a Constant output claims for itself at
// construction, permanently blocking any other claimant (spec.md §4.C:
// "Constant outputs self-own at construction to block external writes").
type constantOwner struct{ id string }

// Constant reports a fixed value; no control may claim it.
type Constant struct {
	*Base
}

func NewConstant(conn *bus.Connection, cfg device.Config, kind types.OutputType) *Constant {
	c := &Constant{Base: NewBase(conn, cfg, kind, nil)}
	c.SetOwner(&constantOwner{id: cfg.UniqueID})
	return c
}

func (c *Constant) Start() {
	c.Base.SetValue(c.GetDefaultValue())
	c.Base.SetValid(true)
	c.Base.Start()
}
