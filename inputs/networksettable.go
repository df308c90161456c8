package inputs

import (
	"sync"

	"torc/bus"
	"torc/device"
	"torc/errcode"
	"torc/types"
)

// NetworkSettable is an input whose value arrives from a remote collaborator
// (the out-of-scope HTTP/WebSocket service) rather than a local sensor.
// Grounded on original_source's TorcNetworkInput: it behaves like Constant at
// Start, then accepts SetValueFromNetwork calls once running.
//
// spec.md §7 error kind 5 ("remote update rejection... arriving while the
// process is not yet started") is implemented here: updates that arrive
// before Start are rejected and logged rather than silently applied.
type NetworkSettable struct {
	*Base

	mu      sync.Mutex
	started bool
	log     func(errcode.E)
}

// NewNetworkSettable constructs a NetworkSettable input. log receives a
// structured error whenever an update is rejected; pass nil to discard.
func NewNetworkSettable(conn *bus.Connection, cfg device.Config, kind types.InputType, rangeMin, rangeMax float64, log func(errcode.E)) *NetworkSettable {
	return &NetworkSettable{
		Base: NewBase(conn, cfg, kind, rangeMin, rangeMax, nil),
		log:  log,
	}
}

func (n *NetworkSettable) Start() {
	n.Base.SetValue(n.GetDefaultValue())
	n.Base.SetValid(true)
	n.mu.Lock()
	n.started = true
	n.mu.Unlock()
	n.Base.Start()
}

func (n *NetworkSettable) Stop() {
	n.mu.Lock()
	n.started = false
	n.mu.Unlock()
}

// SetValueFromNetwork is the entry point a service handler calls on behalf
// of a remote client. It is rejected (not applied) until Start has run.
func (n *NetworkSettable) SetValueFromNetwork(v float64) {
	n.mu.Lock()
	ready := n.started
	n.mu.Unlock()
	if !ready {
		if n.log != nil {
			n.log(*errcode.New(errcode.ErrRemoteRejected, "network update for %q arrived before start", n.GetUniqueID()))
		}
		return
	}
	n.Base.SetValue(v)
}
