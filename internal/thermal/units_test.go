package thermal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-6

func TestTemperatureConversions(t *testing.T) {
	assert.InDelta(t, 273.15, CelsiusToKelvin(0), tolerance)
	assert.InDelta(t, -273.15, KelvinToCelsius(0), tolerance)
	assert.InDelta(t, 32.0, KelvinToFahrenheit(273.15), tolerance)
	assert.InDelta(t, 212.0, KelvinToFahrenheit(373.15), tolerance)
	assert.InDelta(t, 100.0, FahrenheitToCelsius(212), tolerance)
	assert.InDelta(t, 273.15, FahrenheitToKelvin(32), tolerance)
	assert.InDelta(t, 0.0, FahrenheitToKelvin(-459.67), tolerance)
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, k := range []float64{180, 233.15, 273.15, 300, 330.5} {
		assert.InDelta(t, k, CelsiusToKelvin(KelvinToCelsius(k)), 1e-9)
		assert.InDelta(t, k, FahrenheitToKelvin(KelvinToFahrenheit(k)), 1e-9)
	}
}
