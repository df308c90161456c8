package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// NetworkReflected is an output with no physical sink: it just reflects its
// owning control's value over the bus for the (out-of-scope) HTTP/WebSocket
// service to report. Functionally a plain Base with no Program.
type NetworkReflected struct {
	*Base
}

func NewNetworkReflected(conn *bus.Connection, cfg device.Config, kind types.OutputType) *NetworkReflected {
	return &NetworkReflected{Base: NewBase(conn, cfg, kind, nil)}
}
