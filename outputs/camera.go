package outputs

import (
	"torc/bus"
	"torc/device"
	"torc/types"
)

// Camera's value is 1 while the underlying capture pipeline runs, 0
// otherwise. The pipeline itself — the ffmpeg segmented ring buffer and
// OpenMAX encoder chain — is out of scope (spec.md §1); Camera here is the
// opaque handle a collaborator drives via SetRunning.
type Camera struct {
	*Base
}

func NewCamera(conn *bus.Connection, cfg device.Config) *Camera {
	return &Camera{Base: NewBase(conn, cfg, types.OutputCamera, nil)}
}

func (c *Camera) SetRunning(running bool) {
	if running {
		c.Base.SetValue(1)
	} else {
		c.Base.SetValue(0)
	}
}
