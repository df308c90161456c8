package controls

import (
	"torc/bus"
	"torc/device"
	"torc/errcode"
	"torc/types"
)

// Logic implements the ten operations of spec.md §4.D.2, grounded line for
// line on original_source's control/torclogiccontrol.cpp.
type Logic struct {
	*Control
	op                types.LogicOperation
	operationValue    float64
	hasOperationValue bool
}

// NewLogic constructs a Logic control. hasOperationValue distinguishes "not
// present in config" from "present and equal to zero"; it must be true for
// the five comparison ops (spec.md §7 kind 1: missing operationValue is a
// configuration error).
func NewLogic(conn *bus.Connection, cfg device.Config, op types.LogicOperation, operationValue float64, hasOperationValue bool) *Logic {
	l := &Logic{op: op, operationValue: operationValue, hasOperationValue: hasOperationValue}
	l.Control = New(conn, cfg, types.ControlLogic, l)
	return l
}

// Validate enforces the per-operation cardinality table in spec.md §4.D.2.
func (l *Logic) Validate() error {
	n := l.InputCount()
	switch l.op {
	case types.OpPassthrough:
		if n < 1 {
			return errcode.New(errcode.ErrValidation, "Logic/NoOperation %q needs at least 1 input, got %d", l.GetUniqueID(), n)
		}
	case types.OpEqual, types.OpLessThan, types.OpLessThanOrEqual, types.OpGreaterThan, types.OpGreaterThanOrEqual, types.OpToggle:
		if n != 1 {
			return errcode.New(errcode.ErrValidation, "Logic/%s %q needs exactly 1 input, got %d", l.op, l.GetUniqueID(), n)
		}
	case types.OpAny, types.OpAll, types.OpAverage:
		if n < 2 {
			return errcode.New(errcode.ErrValidation, "Logic/%s %q needs at least 2 inputs, got %d", l.op, l.GetUniqueID(), n)
		}
	default:
		return errcode.New(errcode.ErrValidation, "Logic %q has unknown operation %q", l.GetUniqueID(), l.op)
	}
	if l.OutputCount() < 1 {
		return errcode.New(errcode.ErrValidation, "Logic %q has no outputs", l.GetUniqueID())
	}
	if (l.op == types.OpEqual || l.op == types.OpLessThan || l.op == types.OpLessThanOrEqual ||
		l.op == types.OpGreaterThan || l.op == types.OpGreaterThanOrEqual) && !l.hasOperationValue {
		return errcode.New(errcode.ErrConfig, "Logic/%s %q is missing operationValue", l.op, l.GetUniqueID())
	}

	// Logic never sets the pass-through flag itself; graph assembly marks any
	// control with exactly one input, whatever its operation (see
	// graph.Engine.markPassThrough), and the flag changes nothing here.
	return nil
}

// Calculate applies the configured operation to the current input snapshot.
// Toggle is the only stateful op: it flips `current` on a strict (non-fuzzy)
// rising edge and otherwise holds.
func (l *Logic) Calculate(s Snapshot, current float64) float64 {
	switch l.op {
	case types.OpPassthrough:
		if len(s.Order) == 1 {
			return s.Single()
		}
		// N>1 inputs: product of all values. Reproduces original_source's
		// documented-as-odd behavior verbatim; see DESIGN.md Open Questions.
		product := 1.0
		for _, id := range s.Order {
			product *= s.Values[id]
		}
		return product

	case types.OpEqual:
		if types.FuzzyEqual(s.Single()+1, l.operationValue+1) {
			return 1
		}
		return 0
	case types.OpLessThan:
		return boolFloat(s.Single() < l.operationValue)
	case types.OpLessThanOrEqual:
		return boolFloat(s.Single() <= l.operationValue)
	case types.OpGreaterThan:
		return boolFloat(s.Single() > l.operationValue)
	case types.OpGreaterThanOrEqual:
		return boolFloat(s.Single() >= l.operationValue)

	case types.OpAny:
		for _, id := range s.Order {
			if isOn(s.Values[id]) {
				return 1
			}
		}
		return 0
	case types.OpAll:
		for _, id := range s.Order {
			if !isOn(s.Values[id]) {
				return 0
			}
		}
		return 1
	case types.OpAverage:
		sum := 0.0
		for _, id := range s.Order {
			sum += s.Values[id]
		}
		return sum / float64(len(s.Order))

	case types.OpToggle:
		prev, cur := s.SingleLast(), s.Single()
		if prev < 1.0 && cur >= 1.0 {
			if current >= 1.0 {
				return 0
			}
			return 1
		}
		return current
	}
	return current
}

// isOn is the All/Any input test: fuzzy-zero is "off", everything else is
// "on" (original_source, NOT a strict >=1 test).
func isOn(v float64) bool { return !types.FuzzyEqual(v+1, 1) }

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
