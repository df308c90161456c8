// Package gpiosw drives a GPIO pin as a Torc Switch input or output,
// standing in for original_source's platform switch devices. Grounded on
// seedhammer-seedhammer's driver/wshat (gpio.PinIn.In/WaitForEdge/Read
// debounce-loop shape) for the input side, and on periph.io/x/conn/v3's
// gpio.PinOut for the output side.
package gpiosw

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"

	"torc/inputs"
)

// debounceTimeout mirrors the wshat driver's edge-debounce window.
const debounceTimeout = 10 * time.Millisecond

// Init brings up the platform's GPIO drivers. Call once before constructing
// any InputPin/OutputPin.
func Init() error {
	_, err := host.Init()
	return err
}

// InputPin watches a gpio.PinIn for edges and ingests its state into a
// Switch input, debounced exactly as wshat's setupButtons loop does: wait
// forever for an edge, then wait out debounceTimeout before accepting it as
// settled.
type InputPin struct {
	pin    gpio.PinIn
	invert bool
}

// NewInputPin configures pin with an internal pull and registers it for
// both-edge interrupts. invert flips the active-low convention seedhammer's
// buttons use (Low == pressed) to whatever polarity this switch's config
// expects.
func NewInputPin(pin gpio.PinIn, pull gpio.Pull, invert bool) (*InputPin, error) {
	if err := pin.In(pull, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("gpiosw: configure %s: %w", pin, err)
	}
	return &InputPin{pin: pin, invert: invert}, nil
}

// Run drives sw's value from pin state changes until ctx is cancelled.
func (p *InputPin) Run(ctx context.Context, sw *inputs.Switch) {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()

	active := p.read()
	sw.Ingest(boolToRaw(active))

	for {
		if !p.pin.WaitForEdge(debounceTimeout) {
			select {
			case <-done:
				return
			default:
			}
			continue
		}
		time.Sleep(debounceTimeout)
		active = p.read()
		sw.Ingest(boolToRaw(active))

		select {
		case <-done:
			return
		default:
		}
	}
}

func (p *InputPin) read() bool {
	lvl := p.pin.Read() == gpio.High
	if p.invert {
		return !lvl
	}
	return lvl
}

func boolToRaw(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// OutputPin drives a gpio.PinOut from a Switch output's Program hook.
type OutputPin struct {
	pin    gpio.PinOut
	invert bool
}

func NewOutputPin(pin gpio.PinOut, invert bool) *OutputPin {
	return &OutputPin{pin: pin, invert: invert}
}

// Program is passed to outputs.NewSwitch as its Program hook.
func (p *OutputPin) Program(v float64) error {
	on := v >= 1
	if p.invert {
		on = !on
	}
	lvl := gpio.Low
	if on {
		lvl = gpio.High
	}
	return p.pin.Out(lvl)
}
