// Package device implements the base entity shared by every input, control
// and output: identity, valid/value state, and the change-notification
// semantics that drive the rest of the graph. Grounded on the teacher's
// services/hal internal/core device-state handling (value snapshot under a
// per-device mutex, publish after unlock) and on original_source/torcdevice.cpp
// (SetValid/SetValue edge semantics, the wasInvalid flag).
package device

import (
	"sync"

	"torc/bus"
	"torc/types"
)

// Topic segments. Every device publishes on "device/<uniqueId>/<field>",
// retained, so a subscriber that attaches after Start still receives the
// current state as its first message — the Go equivalent of the teacher's
// retained-message bus role applied to spec.md's "Start emits initial value
// and valid" requirement.
const (
	fieldValue           = "value"
	fieldValid           = "valid"
	fieldUserName        = "username"
	fieldUserDescription = "userdescription"
)

// ValueTopic, ValidTopic, etc. are the bus topics a given device publishes
// and that dependents subscribe to.
func ValueTopic(uniqueID string) bus.Topic { return bus.T("device", uniqueID, fieldValue) }
func ValidTopic(uniqueID string) bus.Topic { return bus.T("device", uniqueID, fieldValid) }
func UserNameTopic(uniqueID string) bus.Topic {
	return bus.T("device", uniqueID, fieldUserName)
}
func UserDescriptionTopic(uniqueID string) bus.Topic {
	return bus.T("device", uniqueID, fieldUserDescription)
}

// ValueChange and ValidChange are the payloads carried on the Value/Valid
// topics. Carrying the uniqueId alongside the new value lets a control fed by
// several inputs tell them apart without a second map lookup (spec.md
// §4.D.1's inputValues[id] := newValue step).
type ValueChange struct {
	UniqueID string
	Value    float64
}

type ValidChange struct {
	UniqueID string
	Valid    bool
}

// Device is the embeddable base every Input, Control and Output wraps.
// Exported only through the methods below: callers never reach into the
// fields directly, mirroring torcdevice.cpp's private-field-plus-accessor
// shape.
type Device struct {
	conn *bus.Connection

	// write-once after construction.
	uniqueID     string
	modelID      string
	defaultValue float64

	mu              sync.Mutex
	userName        string
	userDescription string
	value           float64
	valid           bool
	wasInvalid      bool
}

// Config is the set of write-once fields a device is constructed with.
type Config struct {
	UniqueID        string
	ModelID         string
	DefaultValue    float64
	UserName        string
	UserDescription string
}

// New constructs a Device in its initial state: invalid, value=defaultValue.
// Registration into a shared id->Device table (spec.md §3's "process-wide
// id->device map") is the graph assembler's job, not the device's own —
// see graph.Registry.
func New(conn *bus.Connection, cfg Config) *Device {
	return &Device{
		conn:            conn,
		uniqueID:        cfg.UniqueID,
		modelID:         cfg.ModelID,
		defaultValue:    cfg.DefaultValue,
		userName:        cfg.UserName,
		userDescription: cfg.UserDescription,
		value:           cfg.DefaultValue,
		valid:           false,
	}
}

func (d *Device) GetUniqueID() string     { return d.uniqueID }
func (d *Device) GetModelID() string      { return d.modelID }
func (d *Device) GetDefaultValue() float64 { return d.defaultValue }

func (d *Device) GetValue() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

func (d *Device) GetValid() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.valid
}

func (d *Device) GetUserName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.userName
}

func (d *Device) GetUserDescription() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.userDescription
}

func (d *Device) SetUserName(s string) {
	d.mu.Lock()
	changed := s != d.userName
	d.userName = s
	d.mu.Unlock()
	if changed {
		d.publish(UserNameTopic(d.uniqueID), s)
	}
}

func (d *Device) SetUserDescription(s string) {
	d.mu.Lock()
	changed := s != d.userDescription
	d.userDescription = s
	d.mu.Unlock()
	if changed {
		d.publish(UserDescriptionTopic(d.uniqueID), s)
	}
}

// setValueLocked applies v to d.value and reports whether a change
// notification is owed: value changed beyond fuzzy tolerance, or the device
// just recovered from invalid (wasInvalid forces one unconditional pulse).
// Caller must hold d.mu.
func (d *Device) setValueLocked(v float64) bool {
	old := d.value
	emit := !types.FuzzyEqual(v+1, old+1) || d.wasInvalid
	d.value = v
	d.wasInvalid = false
	return emit
}

// SetValue sets the device's current value. If the device was invalid, it is
// first made valid (itself emitting a ValidChanged), then the value update is
// applied. A value change is only published when it differs from the
// previous value by more than fuzzy tolerance, unless wasInvalid forces an
// unconditional pulse (spec.md §4.A, §8 invariant on SetValid/SetValue
// sequences).
func (d *Device) SetValue(v float64) {
	d.mu.Lock()
	recoveredFromInvalid := !d.valid
	if recoveredFromInvalid {
		d.valid = true
	}
	changed := d.setValueLocked(v)
	d.mu.Unlock()

	if recoveredFromInvalid {
		d.publish(ValidTopic(d.uniqueID), ValidChange{UniqueID: d.uniqueID, Valid: true})
	}
	if changed {
		d.publish(ValueTopic(d.uniqueID), ValueChange{UniqueID: d.uniqueID, Value: v})
	}
}

// SetValid changes the valid flag. A true->false transition drives value back
// to defaultValue (through the same change-filtering as SetValue) before the
// valid notification escapes. A false->true transition sets wasInvalid so the
// very next SetValue call emits unconditionally, even if the incoming value
// happens to equal what was already there.
func (d *Device) SetValid(valid bool) {
	d.mu.Lock()
	if d.valid == valid {
		d.mu.Unlock()
		return
	}

	if !valid {
		d.valid = false
		dv := d.defaultValue
		changed := d.setValueLocked(dv)
		d.mu.Unlock()

		d.publish(ValidTopic(d.uniqueID), ValidChange{UniqueID: d.uniqueID, Valid: false})
		if changed {
			d.publish(ValueTopic(d.uniqueID), ValueChange{UniqueID: d.uniqueID, Value: dv})
		}
		return
	}

	d.valid = true
	d.wasInvalid = true
	d.mu.Unlock()
	d.publish(ValidTopic(d.uniqueID), ValidChange{UniqueID: d.uniqueID, Valid: true})
}

// EmitCurrentState republishes value then valid without changing either,
// the "Start emits the initial value and valid signals" contract every
// device family's Start() delegates to.
func (d *Device) EmitCurrentState() {
	d.mu.Lock()
	v, ok := d.value, d.valid
	d.mu.Unlock()
	d.publish(ValueTopic(d.uniqueID), ValueChange{UniqueID: d.uniqueID, Value: v})
	d.publish(ValidTopic(d.uniqueID), ValidChange{UniqueID: d.uniqueID, Valid: ok})
}

// publish never runs while d.mu is held — every call site above unlocks
// first — so a subscriber invoked synchronously by the bus can safely call
// back into this device without deadlocking (spec.md §4.A's re-entrancy
// requirement, §5's propagation-ordering rule).
func (d *Device) publish(topic bus.Topic, payload any) {
	d.conn.Publish(d.conn.NewMessage(topic, payload, true))
}

// Subscribe attaches to another device's value or valid topic. Returned
// subscriptions are retained-aware: a subscriber that attaches after the
// publisher's last change still receives that last value immediately.
func (d *Device) Subscribe(topic bus.Topic) *bus.Subscription {
	return d.conn.Subscribe(topic)
}

func (d *Device) Connection() *bus.Connection { return d.conn }
