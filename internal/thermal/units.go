package thermal

// absoluteZeroCelsius is 0 K expressed in °C, negated.
const absoluteZeroCelsius = 273.15

// CelsiusToKelvin converts °C to K.
func CelsiusToKelvin(tc float64) float64 {
	return tc + absoluteZeroCelsius
}

// KelvinToCelsius converts K to °C.
func KelvinToCelsius(tk float64) float64 {
	return tk - absoluteZeroCelsius
}

// KelvinToFahrenheit converts K to °F.
func KelvinToFahrenheit(tk float64) float64 {
	return (tk-absoluteZeroCelsius)*9.0/5.0 + 32.0
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(tf float64) float64 {
	return (tf - 32.0) * 5.0 / 9.0
}

// FahrenheitToKelvin converts °F to K via the Rankine offset.
func FahrenheitToKelvin(tf float64) float64 {
	return (tf + 459.67) * 5.0 / 9.0
}
