package graph

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"torc/bus"
	"torc/config"
	"torc/inputs"
	"torc/lifecycle"
	"torc/outputs"
	"torc/telemetry"
)

var registerOnce sync.Once

func registerFactoriesOnce() { registerOnce.Do(RegisterDefaultFactories) }

const sampleGraph = `
inputs:
  Switch:
    sw1:
      name: Front door switch
outputs:
  Switch:
    relay1:
      name: Door relay
controls:
  Logic:
    logic1:
      name: Door logic
      operation: NoOperation
      inputs: [sw1]
      outputs: [relay1]
`

func newTestEngine(t *testing.T) (*Engine, *bus.Connection) {
	t.Helper()
	registerFactoriesOnce()
	conn := bus.NewBus(4).NewConnection("test")
	return New(conn, telemetry.New(nil, zerolog.Disabled)), conn
}

func TestEngineBuildLinksInputsThroughLogicToOutputs(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleGraph))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e, _ := newTestEngine(t)
	if errs := e.Build(cfg); len(errs) != 0 {
		t.Fatalf("Build errors: %v", errs)
	}

	sw, ok := e.Lookup("sw1")
	if !ok {
		t.Fatal("sw1 not registered")
	}
	relay, ok := e.Lookup("relay1")
	if !ok {
		t.Fatal("relay1 not registered")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.Start(ctx)
	defer e.Stop()

	in := sw.(*inputs.Switch)
	out := relay.(*outputs.Switch)

	deadline := time.Now().Add(time.Second)
	in.SetValue(1)
	for time.Now().Before(deadline) {
		if out.GetValue() == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("relay1 value = %v, want 1 after sw1 -> 1", out.GetValue())
}

func TestEngineBuildReportsUnknownTag(t *testing.T) {
	cfg, err := config.Parse([]byte(`
inputs:
  NoSuchTag:
    x1:
      name: bogus
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e, _ := newTestEngine(t)
	errs := e.Build(cfg)
	if len(errs) != 1 {
		t.Fatalf("Build errors = %v, want exactly 1 unknown-tag error", errs)
	}
}

// TestEngineWiresSystemStartedToLifecycleBus exercises spec.md §4.B end to
// end: a configured SystemStarted input must track the process lifecycle
// bus (value=1 on Start, 0 on WillStop/Stop) once the engine is running,
// not sit frozen at its zero default.
func TestEngineWiresSystemStartedToLifecycleBus(t *testing.T) {
	cfg, err := config.Parse([]byte(`
inputs:
  SystemStarted:
    sys1:
      name: Process lifecycle
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e, conn := newTestEngine(t)
	if errs := e.Build(cfg); len(errs) != 0 {
		t.Fatalf("Build errors: %v", errs)
	}

	sys, ok := e.Lookup("sys1")
	if !ok {
		t.Fatal("sys1 not registered")
	}
	in := sys.(*inputs.SystemStarted)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	life := lifecycle.New(conn, 0)
	go life.Run(ctx)

	e.Start(ctx)
	defer e.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && in.GetValue() != 1 {
		time.Sleep(time.Millisecond)
	}
	if in.GetValue() != 1 {
		t.Fatalf("sys1 value = %v after lifecycle Start, want 1", in.GetValue())
	}

	cancel()

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) && in.GetValue() != 0 {
		time.Sleep(time.Millisecond)
	}
	if in.GetValue() != 0 {
		t.Fatalf("sys1 value = %v after lifecycle WillStop/Stop, want 0", in.GetValue())
	}
}

func TestEngineCounts(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleGraph))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e, _ := newTestEngine(t)
	if errs := e.Build(cfg); len(errs) != 0 {
		t.Fatalf("Build errors: %v", errs)
	}
	in, ctl, out := e.Counts()
	if in != 1 || ctl != 1 || out != 1 {
		t.Fatalf("Counts() = %d,%d,%d, want 1,1,1", in, ctl, out)
	}
}
