package outputs

import (
	"testing"

	"torc/bus"
	"torc/device"
	"torc/types"
)

func newConn() *bus.Connection {
	return bus.NewBus(4).NewConnection("test")
}

func TestOwnerClaimRejectsSecondClaimant(t *testing.T) {
	o := NewSwitch(newConn(), device.Config{UniqueID: "o1", ModelID: "Switch"}, nil)
	ownerA, ownerB := "controlA", "controlB"

	if !o.SetOwner(ownerA) {
		t.Fatal("first claim should succeed")
	}
	if !o.SetOwner(ownerA) {
		t.Fatal("same owner reclaiming should succeed")
	}
	if o.SetOwner(ownerB) {
		t.Fatal("a different claimant should be rejected")
	}
	if o.Owner() != ownerA {
		t.Fatalf("owner = %v, want %v", o.Owner(), ownerA)
	}
}

func TestConstantSelfOwnsAtConstruction(t *testing.T) {
	c := NewConstant(newConn(), device.Config{UniqueID: "c1", ModelID: "Constant", DefaultValue: 0.42}, types.OutputPWM)
	if c.SetOwner("anyone") {
		t.Fatal("Constant output must reject every external claim")
	}
	c.Start()
	if c.GetValue() != 0.42 {
		t.Fatalf("GetValue() = %v, want defaultValue 0.42", c.GetValue())
	}
}

func TestPWMQuantizesAndShortCircuits(t *testing.T) {
	var got []uint32
	raw := func(duty uint32) error {
		got = append(got, duty)
		return nil
	}
	p := NewPWM(newConn(), device.Config{UniqueID: "pwm1", ModelID: "PWM"}, 255, raw)

	p.SetValue(1)
	p.SetValue(0)
	p.SetValue(0.5)

	want := []uint32{255, 0, 128}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("duty[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestProgramRunsOnlyOnChange(t *testing.T) {
	calls := 0
	program := func(float64) error { calls++; return nil }
	s := NewSwitch(newConn(), device.Config{UniqueID: "s1", ModelID: "Switch"}, program)

	s.SetValue(1)
	s.SetValue(1)
	s.SetValue(1)
	s.SetValue(0)

	if calls != 2 {
		t.Fatalf("program called %d times, want 2", calls)
	}
}
