package graph

import (
	"fmt"
	"time"

	"torc/bus"
	"torc/controls"
	"torc/device"
	"torc/inputs"
	"torc/outputs"
	"torc/types"
	"torc/x/strx"
)

// RegisterDefaultFactories wires the reference input/control/output
// constructors into the tag-keyed registries builders.go exposes. It is the
// "factory registry" collaborator spec.md §6 names (collaborator #2): for
// each of the fourteen device tags spec.md's data model enumerates, it
// registers a closure that decodes the one device's detail map and
// constructs the concrete torc/inputs, torc/outputs or torc/controls type.
//
// Platform-specific binding (attaching a torc/drivers/onewire sensor, a
// torc/drivers/gpiosw pin or a torc/drivers/modbus register to the device
// these factories construct) is deliberately left to the caller, looked up
// afterwards through Engine.Lookup — exactly as spec.md §4.B describes
// platform inputs as external collaborators that call SetValue/SetValid on
// an already-constructed Input, not as something the assembler wires itself.
//
// Call this once from the composition root before Engine.Build; calling it
// twice panics (RegisterInputFactory's duplicate-tag guard), the same
// contract builders.go's Register* funcs already state.
func RegisterDefaultFactories() {
	RegisterInputFactory(string(types.InputTemperature), buildTemperatureInput)
	RegisterInputFactory(string(types.InputPH), buildPHInput)
	RegisterInputFactory(string(types.InputSwitch), buildSwitchInput)
	RegisterInputFactory(string(types.InputPWM), buildPWMInput)
	RegisterInputFactory(string(types.InputInteger), buildIntegerInput)
	RegisterInputFactory(string(types.InputButton), buildButtonInput)
	RegisterInputFactory(string(types.InputSystemStarted), buildSystemStartedInput)
	RegisterInputFactory("Constant", buildConstantInput)
	RegisterInputFactory("Network", buildNetworkInput)

	RegisterOutputFactory(string(types.OutputSwitch), buildSwitchOutput)
	RegisterOutputFactory(string(types.OutputPWM), buildPWMOutput)
	RegisterOutputFactory(string(types.OutputTemperature), buildTemperatureOutput)
	RegisterOutputFactory(string(types.OutputPH), buildPHOutput)
	RegisterOutputFactory(string(types.OutputInteger), buildIntegerOutput)
	RegisterOutputFactory(string(types.OutputButton), buildButtonOutput)
	RegisterOutputFactory(string(types.OutputCamera), buildCameraOutput)
	RegisterOutputFactory("Constant", buildConstantOutput)
	RegisterOutputFactory("Network", buildNetworkOutput)

	RegisterControlFactory(string(types.ControlLogic), buildLogicControl)
	RegisterControlFactory(string(types.ControlTimer), buildTimerControl)
	RegisterControlFactory(string(types.ControlTransition), buildTransitionControl)
}

// baseConfig decodes the fields every device family shares (spec.md §3:
// uniqueId, userName, userDescription, defaultValue) out of a detail map.
// model defaults to the factory's own tag but a detail map may override it
// with an explicit "model" field (spec.md §3's modelId, e.g. "ds18b20"
// rather than the generic "Temperature" tag).
func baseConfig(id, model string, cfg types.DeviceConfig) device.Config {
	return device.Config{
		UniqueID:        id,
		ModelID:         strx.Coalesce(cfg.String("model", ""), model),
		DefaultValue:    cfg.FloatOr("defaultvalue", 0),
		UserName:        strx.Coalesce(cfg.String("username", ""), strx.Coalesce(cfg.String("name", ""), id)),
		UserDescription: cfg.String("userdescription", ""),
	}
}

// inputKindFromString validates a "type" field against spec.md §3's Input
// type enum, used by the Constant/Network factories that apply to any kind.
func inputKindFromString(s string) (types.InputType, bool) {
	switch types.InputType(s) {
	case types.InputTemperature, types.InputPH, types.InputSwitch, types.InputPWM,
		types.InputButton, types.InputSystemStarted, types.InputInteger:
		return types.InputType(s), true
	default:
		return "", false
	}
}

func outputKindFromString(s string) (types.OutputType, bool) {
	switch types.OutputType(s) {
	case types.OutputSwitch, types.OutputPWM, types.OutputTemperature, types.OutputPH,
		types.OutputButton, types.OutputCamera, types.OutputInteger:
		return types.OutputType(s), true
	default:
		return "", false
	}
}

// inputRangeDefaults returns the operating range a given input kind uses
// when the detail map doesn't override it, matching each concrete type's
// own fixed range (spec.md §4.B) except Temperature, whose range is
// configuration-defined.
func inputRangeDefaults(kind types.InputType, cfg types.DeviceConfig) (min, max float64) {
	switch kind {
	case types.InputPH:
		return 0, 14
	case types.InputInteger:
		return 0, float64(^uint32(0))
	case types.InputTemperature:
		return cfg.FloatOr("rangemin", 0), cfg.FloatOr("rangemax", 100)
	default: // Switch, PWM, Button, SystemStarted
		return 0, 1
	}
}

func temperatureUnit(cfg types.DeviceConfig) types.TemperatureUnit {
	if cfg.String("unit", "C") == string(types.Fahrenheit) {
		return types.Fahrenheit
	}
	return types.Celsius
}

// ---- input factories ----

func buildTemperatureInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	min, max := inputRangeDefaults(types.InputTemperature, cfg)
	return inputs.NewTemperature(conn, baseConfig(id, "Temperature", cfg), temperatureUnit(cfg), min, max), nil
}

func buildPHInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewPH(conn, baseConfig(id, "pH", cfg)), nil
}

func buildSwitchInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewSwitch(conn, baseConfig(id, "Switch", cfg)), nil
}

func buildPWMInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewPWM(conn, baseConfig(id, "PWM", cfg)), nil
}

func buildIntegerInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewInteger(conn, baseConfig(id, "Integer", cfg)), nil
}

func buildButtonInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewButton(conn, baseConfig(id, "Button", cfg)), nil
}

func buildSystemStartedInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	return inputs.NewSystemStarted(conn, baseConfig(id, "SystemStarted", cfg), cfg.FloatOr("delay", 0)), nil
}

func buildConstantInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	kind, ok := inputKindFromString(cfg.String("type", ""))
	if !ok {
		return nil, fmt.Errorf("constant input %q: missing or unknown \"type\"", id)
	}
	min, max := inputRangeDefaults(kind, cfg)
	return inputs.NewConstant(conn, baseConfig(id, "Constant", cfg), kind, min, max), nil
}

// buildNetworkInput decodes a "Network" input tag into a
// inputs.NetworkSettable. Rejection logging for updates arriving before
// Start (spec.md §7 kind 5) is left to the caller that actually owns a
// telemetry.Logger — this reference factory discards those events.
func buildNetworkInput(conn *bus.Connection, id string, cfg types.DeviceConfig) (InputDevice, error) {
	kind, ok := inputKindFromString(cfg.String("type", ""))
	if !ok {
		return nil, fmt.Errorf("network input %q: missing or unknown \"type\"", id)
	}
	min, max := inputRangeDefaults(kind, cfg)
	return inputs.NewNetworkSettable(conn, baseConfig(id, "Network", cfg), kind, min, max, nil), nil
}

// ---- output factories ----

func buildSwitchOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewSwitch(conn, baseConfig(id, "Switch", cfg), nil), nil
}

func buildPWMOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	resolution := uint32(cfg.FloatOr("resolution", 255))
	return outputs.NewPWM(conn, baseConfig(id, "PWM", cfg), resolution, nil), nil
}

func buildTemperatureOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewTemperature(conn, baseConfig(id, "Temperature", cfg), temperatureUnit(cfg), nil), nil
}

func buildPHOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewPH(conn, baseConfig(id, "pH", cfg), nil), nil
}

func buildIntegerOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewInteger(conn, baseConfig(id, "Integer", cfg), nil), nil
}

func buildButtonOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewButton(conn, baseConfig(id, "Button", cfg), nil), nil
}

func buildCameraOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	return outputs.NewCamera(conn, baseConfig(id, "Camera", cfg)), nil
}

func buildConstantOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	kind, ok := outputKindFromString(cfg.String("type", ""))
	if !ok {
		return nil, fmt.Errorf("constant output %q: missing or unknown \"type\"", id)
	}
	return outputs.NewConstant(conn, baseConfig(id, "Constant", cfg), kind), nil
}

func buildNetworkOutput(conn *bus.Connection, id string, cfg types.DeviceConfig) (OutputDevice, error) {
	kind, ok := outputKindFromString(cfg.String("type", ""))
	if !ok {
		return nil, fmt.Errorf("network output %q: missing or unknown \"type\"", id)
	}
	return outputs.NewNetworkReflected(conn, baseConfig(id, "Network", cfg), kind), nil
}

// ---- control factories ----

func buildLogicControl(conn *bus.Connection, id string, cfg types.DeviceConfig) (ControlDevice, error) {
	opStr := cfg.String("operation", "NoOperation")
	op, ok := types.StringToOperation(opStr)
	if !ok {
		return nil, fmt.Errorf("logic %q: unknown operation %q", id, opStr)
	}
	val, hasVal := cfg.Float("operationvalue")
	return controls.NewLogic(conn, baseConfig(id, "Logic", cfg), op, val, hasVal), nil
}

// weekdayNames maps a config "startday" string to time.Weekday, used only
// by TimerWeekly.
var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

func buildTimerControl(conn *bus.Connection, id string, cfg types.DeviceConfig) (ControlDevice, error) {
	timerTypeStr := cfg.String("timertype", "Custom")
	tt, ok := types.StringToTimerType(timerTypeStr)
	if !ok {
		return nil, fmt.Errorf("timer %q: unknown timerType %q", id, timerTypeStr)
	}

	durationSeconds, ok := types.ParseDuration(cfg.String("duration", ""))
	if !ok {
		return nil, fmt.Errorf("timer %q: unparseable duration %q", id, cfg.String("duration", ""))
	}
	customPeriodSeconds, _ := types.ParseDuration(cfg.String("period", "0"))
	startOfDaySeconds, ok := types.ParseDuration(cfg.String("starttime", "0"))
	if !ok {
		return nil, fmt.Errorf("timer %q: unparseable startTime %q", id, cfg.String("starttime", ""))
	}
	startDay := weekdayNames[lower(cfg.String("startday", "Sunday"))]

	return controls.NewTimer(conn, baseConfig(id, "Timer", cfg), tt, int64(durationSeconds),
		int64(customPeriodSeconds), int64(startOfDaySeconds), startDay)
}

func buildTransitionControl(conn *bus.Connection, id string, cfg types.DeviceConfig) (ControlDevice, error) {
	curveStr := cfg.String("easingcurve", "Linear")
	curve, ok := types.StringToEasingCurve(curveStr)
	if !ok {
		return nil, fmt.Errorf("transition %q: unknown easingCurve %q", id, curveStr)
	}
	duration := cfg.FloatOr("duration", 0)
	return controls.NewTransition(conn, baseConfig(id, "Transition", cfg), curve, duration)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
