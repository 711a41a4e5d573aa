package thermal

import (
	"fmt"
	"math"
)

// Phase selects the saturation curve used near and below freezing.
type Phase int

const (
	// Liquid selects saturation over a plane surface of liquid water.
	Liquid Phase = iota
	// Ice selects saturation over a plane surface of ice.
	Ice
)

func (p Phase) String() string {
	switch p {
	case Liquid:
		return "liquid"
	case Ice:
		return "ice"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// triplePointK is the triple point of water (0.01 °C at 611.73 Pa).
const triplePointK = 273.16

// hardyCoefficients are the ITS-90 coefficients g0..g6 for powers T^-2..T^4,
// followed by g7 for the ln(T) term.
var hardyCoefficients = [8]float64{
	-2.8365744e3,
	-6.028076559e3,
	1.954263612e1,
	-2.737830188e-2,
	1.6261698e-5,
	7.0229056e-10,
	-1.8680009e-13,
	2.7150305,
}

// RelativeHumidityPercent returns relative humidity (%) from air temperature
// and dew point, both in K, using the Magnus form with (6.11, 7.5, 237.3).
// Physically inconsistent inputs (dew point above air temperature) yield
// values above 100; the result is not clamped.
//
// Reference: https://www.theweatherprediction.com/habyhints/186/
func RelativeHumidityPercent(airTempK, dewPointK float64) float64 {
	tc := KelvinToCelsius(airTempK)
	tdc := KelvinToCelsius(dewPointK)

	es := 6.11 * math.Pow(10.0, 7.5*tc/(237.3+tc))
	e := 6.11 * math.Pow(10.0, 7.5*tdc/(237.3+tdc))
	return (e / es) * 100.0
}

// SaturationVapourPressure returns the saturation vapour pressure over pure
// liquid water in hPa for an air temperature in K.
//
// Reference: Hardy (1998), ITS-90 formulations for vapor pressure.
func SaturationVapourPressure(airTempK float64) float64 {
	g := hardyCoefficients

	ess := g[7] * math.Log(airTempK)
	for i := 0; i < len(g)-1; i++ {
		ess += g[i] * math.Pow(airTempK, float64(i-2))
	}

	return math.Exp(ess) * 0.01 // Pa -> hPa
}

// SaturationVapourPressureMultiphase returns the saturation vapour pressure in
// hPa over liquid water or ice. An unknown phase yields NaN.
//
// Reference: ECMWF IFS Documentation CY45R1, Part IV: Physical processes (2018), p. 116.
func SaturationVapourPressureMultiphase(airTempK float64, phase Phase) float64 {
	switch phase {
	case Liquid:
		y := (airTempK - triplePointK) / (airTempK - 32.19)
		return 6.1121 * math.Exp(17.502*y)
	case Ice:
		y := (airTempK - triplePointK) / (airTempK + 0.7)
		return 6.1121 * math.Exp(22.587*y)
	default:
		return math.NaN()
	}
}

// NonSaturationVapourPressure returns the actual vapour pressure in hPa for an
// air temperature in K and a relative humidity in percent.
//
// Reference: Bureau of Meteorology (2010), thermal stress approximations.
func NonSaturationVapourPressure(airTempK, rh float64) float64 {
	tc := KelvinToCelsius(airTempK)
	return rh / 100.0 * 6.105 * math.Exp(17.27*tc/(237.7+tc))
}

// DewPointFromRelativeHumidity inverts the Magnus formula (17.625, 243.04) to
// recover the dew point in K. The denominator is unguarded: RH at or above
// 100 % combined with extreme temperatures can drive it to zero or below.
//
// Reference: Alduchov and Eskridge (1996), doi:10.1175/1520-0450(1996)035<0601:IMFAOS>2.0.CO;2
func DewPointFromRelativeHumidity(rh, airTempK float64) float64 {
	tc := KelvinToCelsius(airTempK)
	lnRH := math.Log(rh / 100.0)
	magnus := (17.625 * tc) / (243.04 + tc)

	tdc := 243.04 * (lnRH + magnus) / (17.625 - lnRH - magnus)
	return CelsiusToKelvin(tdc)
}
