package inputs

import (
	"math"

	"torc/bus"
	"torc/device"
	"torc/types"
	"torc/x/mathx"
)

const maxUint32Value = float64(^uint32(0)) // 2^32 - 1

// Integer stores a non-negative integer-valued reading as a double, range
// [0, 2^32-1], rounding and saturating incoming values (spec.md §4.B, §8
// boundary behavior).
type Integer struct {
	*Base
}

func NewInteger(conn *bus.Connection, cfg device.Config) *Integer {
	i := &Integer{}
	i.Base = NewBase(conn, cfg, types.InputInteger, 0, maxUint32Value, i.scale)
	return i
}

func (i *Integer) scale(v float64) float64 {
	return mathx.Clamp(math.Round(v), 0, maxUint32Value)
}
