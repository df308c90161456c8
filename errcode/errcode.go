package errcode

import "fmt"

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK                Code = "ok"
	Busy              Code = "busy"
	Unsupported       Code = "unsupported"
	InvalidParams     Code = "invalid_params"
	InvalidPayload    Code = "invalid_payload"
	UnknownCapability Code = "unknown_capability"
	HALNotReady       Code = "hal_not_ready"
	InvalidTopic      Code = "invalid_topic"

	UnknownBus Code = "unknown_bus"
	BusInUse   Code = "bus_in_use"
	UnknownPin Code = "unknown_pin"
	PinInUse   Code = "pin_in_use"
	Timeout    Code = "timeout"

	// Graph error kinds (spec §7).
	ErrConfig         Code = "config_error"         // missing/unparseable field, skip device
	ErrValidation     Code = "validation_error"     // bad cardinality, unresolved ref, drop device
	ErrOwnership      Code = "ownership_conflict"   // output already claimed by another writer
	ErrRuntimeIO      Code = "runtime_io_error"     // hardware read/CRC/open failure, set invalid
	ErrRemoteRejected Code = "remote_rejected"      // network update arrived while not ready / owner mismatch
	ErrDuplicateID    Code = "duplicate_unique_id"  // uniqueId collides with an existing device

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E with a formatted message, the constructor every graph
// component uses to produce a logged, absorbed error (spec.md §7: the core
// never panics or returns an error across a device boundary).
func New(c Code, format string, args ...any) *E {
	return &E{C: c, Msg: fmt.Sprintf(format, args...)}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code.
// Extend the heuristics per platform/driver.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	return Error
}
