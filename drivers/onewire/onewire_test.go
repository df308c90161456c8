package onewire

import (
	"context"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/onewire"

	"torc/bus"
	"torc/device"
	"torc/errcode"
	"torc/inputs"
	"torc/types"
)

// fakeBus implements onewire.Bus with a canned scratchpad response, grounded
// on google-periph's onewiretest.Record (Tx copies a fixed reply into r,
// Search returns nothing).
type fakeBus struct {
	scratchpad []byte
	txErr      error
	calls      int
}

func (f *fakeBus) String() string { return "fakebus" }

func (f *fakeBus) Tx(w, r []byte, pull onewire.Pullup) error {
	f.calls++
	if f.txErr != nil {
		return f.txErr
	}
	if r != nil {
		copy(r, f.scratchpad)
	}
	return nil
}

func (f *fakeBus) Search(alarmOnly bool) ([]onewire.Address, error) {
	return nil, nil
}

// scratchpadFor encodes a DS18B20 scratchpad for celsius degrees, matching
// Sensor.Read's raw int16 / 16.0 decode (the datasheet's 1/16 degree LSB,
// i.e. 0.0625 °C per count).
func scratchpadFor(celsius float64) []byte {
	raw := int16(celsius * 16)
	pad := make([]byte, 9)
	pad[0] = byte(raw)
	pad[1] = byte(raw >> 8)
	return pad
}

func TestSensorReadDecodesScratchpad(t *testing.T) {
	bus := &fakeBus{scratchpad: scratchpadFor(21.5)}
	s := &Sensor{bus: bus, addr: onewire.Address(1), resolution: 9}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := got - 21.5; diff < -0.01 || diff > 0.01 {
		t.Fatalf("Read() = %v, want ~21.5", got)
	}
	if bus.calls != 2 {
		t.Fatalf("Tx called %d times, want 2 (convert + read scratchpad)", bus.calls)
	}
}

func TestSensorReadPropagatesTxError(t *testing.T) {
	bus := &fakeBus{txErr: errors.New("bus fault")}
	s := &Sensor{bus: bus, addr: onewire.Address(1), resolution: 9}

	if _, err := s.Read(); err == nil {
		t.Fatal("expected error from faulty bus, got nil")
	}
}

func TestConversionDelayTable(t *testing.T) {
	cases := map[int]time.Duration{
		9:  94 * time.Millisecond,
		10: 188 * time.Millisecond,
		11: 375 * time.Millisecond,
		12: 750 * time.Millisecond,
	}
	for bits, want := range cases {
		if got := conversionDelay(bits); got != want {
			t.Errorf("conversionDelay(%d) = %v, want %v", bits, got, want)
		}
	}
}

func newTestTemperature() *inputs.Temperature {
	conn := bus.NewBus(4).NewConnection("test")
	return inputs.NewTemperature(conn, device.Config{UniqueID: "t1", ModelID: "Temperature"}, types.Celsius, -40, 125)
}

func TestPollIngestsSuccessfulReading(t *testing.T) {
	bus := &fakeBus{scratchpad: scratchpadFor(18)}
	s := &Sensor{bus: bus, addr: onewire.Address(1), resolution: 9}
	temp := newTestTemperature()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Poll(ctx, s, temp, time.Millisecond, nil)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && temp.GetValue() == 0 {
		time.Sleep(time.Millisecond)
	}
	if diff := temp.GetValue() - 18; diff < -0.01 || diff > 0.01 {
		t.Fatalf("temperature value = %v, want ~18", temp.GetValue())
	}
	if !temp.GetValid() {
		t.Fatal("expected temperature to be valid after successful read")
	}
}

func TestPollMarksInvalidOnReadError(t *testing.T) {
	bus := &fakeBus{txErr: errors.New("bus fault")}
	s := &Sensor{bus: bus, addr: onewire.Address(1), resolution: 9}
	temp := newTestTemperature()
	temp.SetValid(true)

	done := make(chan struct{})
	onErr := func(e *errcode.E) {
		select {
		case <-done:
		default:
			close(done)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Poll(ctx, s, temp, time.Millisecond, onErr)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for read error callback")
	}
	if temp.GetValid() {
		t.Fatal("expected temperature to be invalid after failed read")
	}
}
