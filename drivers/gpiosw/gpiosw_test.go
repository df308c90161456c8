package gpiosw

import (
	"context"
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"torc/bus"
	"torc/device"
	"torc/inputs"
)

// fakePin implements the pin.Pin/gpio.PinIn/gpio.PinOut surface InputPin and
// OutputPin actually call, grounded on google-periph's gpiotest.Pin (level
// held behind a mutex, WaitForEdge driven by a buffered edge channel).
type fakePin struct {
	mu    sync.Mutex
	level gpio.Level
	edges chan struct{}

	outCalls []gpio.Level
}

func newFakePin(initial gpio.Level) *fakePin {
	return &fakePin{level: initial, edges: make(chan struct{}, 4)}
}

func (p *fakePin) String() string    { return "fakepin" }
func (p *fakePin) Name() string      { return "fakepin" }
func (p *fakePin) Number() int       { return 1 }
func (p *fakePin) Function() string  { return "In/Out" }
func (p *fakePin) Halt() error       { return nil }
func (p *fakePin) Pull() gpio.Pull   { return gpio.PullNoChange }
func (p *fakePin) DefaultPull() gpio.Pull { return gpio.PullNoChange }

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error { return nil }

func (p *fakePin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *fakePin) WaitForEdge(timeout time.Duration) bool {
	select {
	case <-p.edges:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *fakePin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = l
	p.outCalls = append(p.outCalls, l)
	return nil
}

func (p *fakePin) PWM(gpio.Duty, physic.Frequency) error { return nil }

// set changes the pin's level and signals one edge, the way a real driver's
// interrupt handler would wake WaitForEdge.
func (p *fakePin) set(l gpio.Level) {
	p.mu.Lock()
	p.level = l
	p.mu.Unlock()
	p.edges <- struct{}{}
}

func newConn() *bus.Connection {
	return bus.NewBus(4).NewConnection("test")
}

func TestInputPinRunIngestsInitialState(t *testing.T) {
	pin := newFakePin(gpio.High)
	ip, err := NewInputPin(pin, gpio.PullNoChange, false)
	if err != nil {
		t.Fatalf("NewInputPin: %v", err)
	}
	sw := inputs.NewSwitch(newConn(), device.Config{UniqueID: "sw1", ModelID: "Switch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ip.Run(ctx, sw)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && sw.GetValue() != 1 {
		time.Sleep(time.Millisecond)
	}
	if sw.GetValue() != 1 {
		t.Fatalf("switch value = %v, want 1 for initial High level", sw.GetValue())
	}
}

func TestInputPinRunTracksEdges(t *testing.T) {
	pin := newFakePin(gpio.Low)
	ip, err := NewInputPin(pin, gpio.PullNoChange, false)
	if err != nil {
		t.Fatalf("NewInputPin: %v", err)
	}
	sw := inputs.NewSwitch(newConn(), device.Config{UniqueID: "sw1", ModelID: "Switch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ip.Run(ctx, sw)

	pin.set(gpio.High)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && sw.GetValue() != 1 {
		time.Sleep(time.Millisecond)
	}
	if sw.GetValue() != 1 {
		t.Fatalf("switch value = %v after edge to High, want 1", sw.GetValue())
	}
}

func TestInputPinRunHonorsInvert(t *testing.T) {
	pin := newFakePin(gpio.High)
	ip, err := NewInputPin(pin, gpio.PullNoChange, true)
	if err != nil {
		t.Fatalf("NewInputPin: %v", err)
	}
	sw := inputs.NewSwitch(newConn(), device.Config{UniqueID: "sw1", ModelID: "Switch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ip.Run(ctx, sw)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && sw.GetValue() != 0 {
		time.Sleep(time.Millisecond)
	}
	if sw.GetValue() != 0 {
		t.Fatalf("switch value = %v, want 0 (inverted High == inactive)", sw.GetValue())
	}
}

func TestOutputPinProgramDrivesLevel(t *testing.T) {
	pin := newFakePin(gpio.Low)
	op := NewOutputPin(pin, false)

	if err := op.Program(1); err != nil {
		t.Fatalf("Program(1): %v", err)
	}
	if pin.Read() != gpio.High {
		t.Fatalf("pin level = %v, want High after Program(1)", pin.Read())
	}

	if err := op.Program(0); err != nil {
		t.Fatalf("Program(0): %v", err)
	}
	if pin.Read() != gpio.Low {
		t.Fatalf("pin level = %v, want Low after Program(0)", pin.Read())
	}
}

func TestOutputPinProgramHonorsInvert(t *testing.T) {
	pin := newFakePin(gpio.Low)
	op := NewOutputPin(pin, true)

	if err := op.Program(1); err != nil {
		t.Fatalf("Program(1): %v", err)
	}
	if pin.Read() != gpio.Low {
		t.Fatalf("pin level = %v, want Low (inverted) after Program(1)", pin.Read())
	}
}
