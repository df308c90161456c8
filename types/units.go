package types

// CelsiusToFahrenheit and FahrenheitToCelsius are the two helper conversions
// spec.md §4.B names for Temperature inputs/outputs: F = C*1.8+32,
// C = (F-32)/1.8. Round-trip within 1e-9 per spec.md §8.
func CelsiusToFahrenheit(c float64) float64 { return c*1.8 + 32 }

func FahrenheitToCelsius(f float64) float64 { return (f - 32) / 1.8 }

// TemperatureUnit is the process-wide unit fixed at startup by
// configuration (spec.md §4.B): all Temperature devices store their value
// in this unit.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)
