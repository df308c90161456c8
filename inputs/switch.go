package inputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Switch is a binary-range input backed by a platform driver (GPIO, relay
// sense, …). ScaleValue collapses any fuzzy-zero reading to 0, anything else
// to 1, reproducing original_source's TorcSwitchInput::ScaleValue bit for
// bit, "+1" trick included.
type Switch struct {
	*Base
}

func NewSwitch(conn *bus.Connection, cfg device.Config) *Switch {
	s := &Switch{}
	s.Base = NewBase(conn, cfg, types.InputSwitch, 0, 1, s.scale)
	return s
}

func (s *Switch) scale(v float64) float64 {
	if types.FuzzyEqual(v+1.0, 1.0) {
		return 0
	}
	return 1
}
