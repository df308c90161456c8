package controls

import (
	"context"
	"testing"
	"time"

	"torc/bus"
	"torc/device"
)

func newWiringConn() *bus.Connection {
	return bus.NewBus(4).NewConnection("test")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// TestControlRecomputesOnInputChange exercises the shared inbox/pump
// machinery end to end: a Logic "Any" control wired to two plain devices
// recomputes and forwards to its sink whenever either input changes.
func TestControlRecomputesOnInputChange(t *testing.T) {
	conn := newWiringConn()

	a := device.New(conn, device.Config{UniqueID: "a", ModelID: "Test"})
	b := device.New(conn, device.Config{UniqueID: "b", ModelID: "Test"})
	a.SetValid(true)
	b.SetValid(true)

	sink := device.New(conn, device.Config{UniqueID: "sink", ModelID: "Test"})

	l := NewLogic(conn, device.Config{UniqueID: "any1", ModelID: "Logic"}, "Any", 0, false)
	l.AddInput(a)
	l.AddInput(b)
	l.AddOutput(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sources := map[string]Source{"a": a, "b": b}
	l.Start(ctx, sources)
	defer l.Stop()

	waitFor(t, func() bool { return sink.GetValue() == 0 })

	a.SetValue(1)
	waitFor(t, func() bool { return sink.GetValue() == 1 })

	a.SetValue(0)
	waitFor(t, func() bool { return sink.GetValue() == 0 })
}

// TestControlGoesInvalidWhenAnyInputInvalid checks the common recompute
// protocol's invalid-input short circuit (spec.md §4.D.1): a control never
// calls Calculate while any input is invalid, and instead propagates its own
// invalidity.
func TestControlGoesInvalidWhenAnyInputInvalid(t *testing.T) {
	conn := newWiringConn()

	a := device.New(conn, device.Config{UniqueID: "a", ModelID: "Test"})
	b := device.New(conn, device.Config{UniqueID: "b", ModelID: "Test"})
	a.SetValid(true)
	// b stays invalid.

	l := NewLogic(conn, device.Config{UniqueID: "any2", ModelID: "Logic"}, "Any", 0, false)
	l.AddInput(a)
	l.AddInput(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l.Start(ctx, map[string]Source{"a": a, "b": b})
	defer l.Stop()

	waitFor(t, func() bool { return !l.GetValid() })

	b.SetValid(true)
	waitFor(t, func() bool { return l.GetValid() })
}
