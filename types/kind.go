// Package types holds the shared enums and config-decode shapes that cross
// package boundaries: input/output/control type tags, logic operations,
// timer types, easing curve names, and the graph configuration tree the
// assembler consumes. Grounded on the teacher's types/types.go and
// types/hal.go (Kind, HALConfig, HALDevice) — same role, Torc's domain.
package types

// InputType enumerates the concrete Input subclasses (spec.md §3).
type InputType string

const (
	InputTemperature   InputType = "Temperature"
	InputPH            InputType = "pH"
	InputSwitch        InputType = "Switch"
	InputPWM           InputType = "PWM"
	InputButton        InputType = "Button"
	InputSystemStarted InputType = "SystemStarted"
	InputInteger       InputType = "Integer"
)

// OutputType enumerates the concrete Output subclasses.
type OutputType string

const (
	OutputSwitch      OutputType = "Switch"
	OutputPWM         OutputType = "PWM"
	OutputTemperature OutputType = "Temperature"
	OutputPH          OutputType = "pH"
	OutputButton      OutputType = "Button"
	OutputCamera      OutputType = "Camera"
	OutputInteger     OutputType = "Integer"
)

// ControlType enumerates the concrete Control subclasses.
type ControlType string

const (
	ControlLogic      ControlType = "Logic"
	ControlTimer      ControlType = "Timer"
	ControlTransition ControlType = "Transition"
)

// LogicOperation is the operator a Logic control applies to its inputs.
type LogicOperation string

const (
	OpPassthrough        LogicOperation = "NoOperation"
	OpEqual              LogicOperation = "Equal"
	OpLessThan           LogicOperation = "LessThan"
	OpLessThanOrEqual    LogicOperation = "LessThanOrEqual"
	OpGreaterThan        LogicOperation = "GreaterThan"
	OpGreaterThanOrEqual LogicOperation = "GreaterThanOrEqual"
	OpAny                LogicOperation = "Any"
	OpAll                LogicOperation = "All"
	OpAverage            LogicOperation = "Average"
	OpToggle             LogicOperation = "Toggle"
)

// StringToOperation parses a config operation tag, case-insensitively.
// Mirrors TorcLogicControl::StringToOperation (original_source), including
// its NONE/PASSTHROUGH aliasing to NoOperation.
func StringToOperation(s string) (LogicOperation, bool) {
	switch upper(s) {
	case "EQUAL":
		return OpEqual, true
	case "LESSTHAN":
		return OpLessThan, true
	case "LESSTHANOREQUAL":
		return OpLessThanOrEqual, true
	case "GREATERTHAN":
		return OpGreaterThan, true
	case "GREATERTHANOREQUAL":
		return OpGreaterThanOrEqual, true
	case "ANY":
		return OpAny, true
	case "ALL":
		return OpAll, true
	case "AVERAGE":
		return OpAverage, true
	case "NOOPERATION", "NONE", "PASSTHROUGH":
		return OpPassthrough, true
	case "TOGGLE":
		return OpToggle, true
	default:
		return OpPassthrough, false
	}
}

// TimerType fixes a Timer control's period.
type TimerType string

const (
	TimerCustom   TimerType = "Custom"
	TimerMinutely TimerType = "Minutely"
	TimerHourly   TimerType = "Hourly"
	TimerDaily    TimerType = "Daily"
	TimerWeekly   TimerType = "Weekly"
)

// StringToTimerType parses a config timer-type tag, case-insensitively.
func StringToTimerType(s string) (TimerType, bool) {
	switch upper(s) {
	case "CUSTOM":
		return TimerCustom, true
	case "MINUTELY":
		return TimerMinutely, true
	case "HOURLY":
		return TimerHourly, true
	case "DAILY":
		return TimerDaily, true
	case "WEEKLY":
		return TimerWeekly, true
	default:
		return "", false
	}
}

// EasingCurve names one of the 41 Transition interpolation shapes (spec.md
// §3, §4.D.4), matching original_source's EasingCurveFromString/
// StringFromEasingCurve (control/torctransitioncontrol.cpp) — a linear curve
// plus ten families (Quad, Cubic, Quart, Quint, Sine, Expo, Circ, Elastic,
// Back, Bounce) each in In/Out/InOut/OutIn variants.
type EasingCurve string

const (
	Linear EasingCurve = "Linear"

	InQuad  EasingCurve = "InQuad"
	OutQuad EasingCurve = "OutQuad"
	InOutQuad EasingCurve = "InOutQuad"
	OutInQuad EasingCurve = "OutInQuad"

	InCubic  EasingCurve = "InCubic"
	OutCubic EasingCurve = "OutCubic"
	InOutCubic EasingCurve = "InOutCubic"
	OutInCubic EasingCurve = "OutInCubic"

	InQuart  EasingCurve = "InQuart"
	OutQuart EasingCurve = "OutQuart"
	InOutQuart EasingCurve = "InOutQuart"
	OutInQuart EasingCurve = "OutInQuart"

	InQuint  EasingCurve = "InQuint"
	OutQuint EasingCurve = "OutQuint"
	InOutQuint EasingCurve = "InOutQuint"
	OutInQuint EasingCurve = "OutInQuint"

	InSine  EasingCurve = "InSine"
	OutSine EasingCurve = "OutSine"
	InOutSine EasingCurve = "InOutSine"
	OutInSine EasingCurve = "OutInSine"

	InExpo  EasingCurve = "InExpo"
	OutExpo EasingCurve = "OutExpo"
	InOutExpo EasingCurve = "InOutExpo"
	OutInExpo EasingCurve = "OutInExpo"

	InCirc  EasingCurve = "InCirc"
	OutCirc EasingCurve = "OutCirc"
	InOutCirc EasingCurve = "InOutCirc"
	OutInCirc EasingCurve = "OutInCirc"

	InElastic  EasingCurve = "InElastic"
	OutElastic EasingCurve = "OutElastic"
	InOutElastic EasingCurve = "InOutElastic"
	OutInElastic EasingCurve = "OutInElastic"

	InBack  EasingCurve = "InBack"
	OutBack EasingCurve = "OutBack"
	InOutBack EasingCurve = "InOutBack"
	OutInBack EasingCurve = "OutInBack"

	InBounce  EasingCurve = "InBounce"
	OutBounce EasingCurve = "OutBounce"
	InOutBounce EasingCurve = "InOutBounce"
	OutInBounce EasingCurve = "OutInBounce"
)

// AllEasingCurves lists all 41 names, for config validation and tests.
var AllEasingCurves = []EasingCurve{
	Linear,
	InQuad, OutQuad, InOutQuad, OutInQuad,
	InCubic, OutCubic, InOutCubic, OutInCubic,
	InQuart, OutQuart, InOutQuart, OutInQuart,
	InQuint, OutQuint, InOutQuint, OutInQuint,
	InSine, OutSine, InOutSine, OutInSine,
	InExpo, OutExpo, InOutExpo, OutInExpo,
	InCirc, OutCirc, InOutCirc, OutInCirc,
	InElastic, OutElastic, InOutElastic, OutInElastic,
	InBack, OutBack, InOutBack, OutInBack,
	InBounce, OutBounce, InOutBounce, OutInBounce,
}

// StringToEasingCurve parses a config easing-curve tag, case-insensitively
// against the canonical names above.
func StringToEasingCurve(s string) (EasingCurve, bool) {
	up := upper(s)
	for _, c := range AllEasingCurves {
		if upper(string(c)) == up {
			return c, true
		}
	}
	return "", false
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
