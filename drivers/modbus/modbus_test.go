package modbus

import (
	"context"
	"errors"
	"testing"
	"time"

	gomodbus "github.com/goburrow/modbus"

	"torc/errcode"
)

// fakeClient implements gomodbus.Client, returning a canned register
// response or a canned error, the same "fake the transport, exercise the
// adapter" shape onewire_test.go and gpiosw_test.go use for their own
// hardware boundaries.
type fakeClient struct {
	holdingRegs []byte
	readErr     error
	writeErr    error

	lastWriteAddr  uint16
	lastWriteValue uint16
}

func (f *fakeClient) ReadCoils(address, quantity uint16) ([]byte, error) { return nil, nil }
func (f *fakeClient) ReadDiscreteInputs(address, quantity uint16) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) WriteSingleCoil(address, value uint16) ([]byte, error) { return nil, nil }
func (f *fakeClient) WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) ReadInputRegisters(address, quantity uint16) ([]byte, error) { return nil, nil }

func (f *fakeClient) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.holdingRegs, nil
}

func (f *fakeClient) WriteSingleRegister(address, value uint16) ([]byte, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.lastWriteAddr = address
	f.lastWriteValue = value
	return nil, nil
}

func (f *fakeClient) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) ReadWriteMultipleRegisters(readAddress, readQuantity, writeAddress, writeQuantity uint16, value []byte) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) MaskWriteRegister(address, andMask, orMask uint16) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) ReadFIFOQueue(address uint16) ([]byte, error) { return nil, nil }

var _ gomodbus.Client = (*fakeClient)(nil)

func TestRegisterReadScalesValue(t *testing.T) {
	client := &fakeClient{holdingRegs: []byte{0x00, 0x96}} // 150
	r := &Register{client: client, address: 10, count: 1, scale: 0.1}

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 15 {
		t.Fatalf("Read() = %v, want 15 (150 * 0.1)", got)
	}
}

func TestRegisterReadWidesMultiRegisterBigEndian(t *testing.T) {
	client := &fakeClient{holdingRegs: []byte{0x00, 0x01, 0x00, 0x00}} // 0x00010000
	r := &Register{client: client, address: 10, count: 2, scale: 1}

	got, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 65536 {
		t.Fatalf("Read() = %v, want 65536", got)
	}
}

func TestRegisterReadPropagatesClientError(t *testing.T) {
	client := &fakeClient{readErr: errors.New("modbus exception")}
	r := &Register{client: client, address: 10, count: 1, scale: 1}

	if _, err := r.Read(); err == nil {
		t.Fatal("expected error from faulty client, got nil")
	}
}

func TestRegisterWriteSendsValue(t *testing.T) {
	client := &fakeClient{}
	r := &Register{client: client, address: 20, count: 1, scale: 1}

	if err := r.Write(42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if client.lastWriteAddr != 20 || client.lastWriteValue != 42 {
		t.Fatalf("client recorded addr=%d value=%d, want 20,42", client.lastWriteAddr, client.lastWriteValue)
	}
}

func TestRegisterWritePropagatesClientError(t *testing.T) {
	client := &fakeClient{writeErr: errors.New("modbus exception")}
	r := &Register{client: client, address: 20, count: 1, scale: 1}

	if err := r.Write(1); err == nil {
		t.Fatal("expected error from faulty client, got nil")
	}
}

type fakeIngestor struct {
	value float64
	valid bool
}

func (f *fakeIngestor) Ingest(raw float64) { f.value = raw; f.valid = true }
func (f *fakeIngestor) SetValid(v bool)    { f.valid = v }

func TestPollIngestsSuccessfulReading(t *testing.T) {
	client := &fakeClient{holdingRegs: []byte{0x00, 0x0a}} // 10
	r := &Register{client: client, address: 1, count: 1, scale: 1}
	target := &fakeIngestor{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Poll(ctx, r, target, time.Millisecond, nil)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && target.value == 0 {
		time.Sleep(time.Millisecond)
	}
	if target.value != 10 {
		t.Fatalf("target.value = %v, want 10", target.value)
	}
	if !target.valid {
		t.Fatal("expected target to be valid after successful read")
	}
}

func TestPollMarksInvalidOnReadError(t *testing.T) {
	client := &fakeClient{readErr: errors.New("modbus exception")}
	r := &Register{client: client, address: 1, count: 1, scale: 1}
	target := &fakeIngestor{valid: true}

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
	go Poll(ctx, r, target, time.Millisecond, onErr)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for read error callback")
	}
	if target.valid {
		t.Fatal("expected target to be invalid after failed read")
	}
}
