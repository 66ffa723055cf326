package temperature

import "strconv"

// FahrenheitToCelsius converts a Fahrenheit reading to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// FormatDegrees renders v with the fewest digits that round-trip.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
