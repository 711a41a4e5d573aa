package thermal

import "errors"

// ErrMissingHumidityInput is returned when a formula needs a moisture measure
// and the caller supplied neither a dew point nor a vapour pressure.
var ErrMissingHumidityInput = errors.New("missing required humidity input: dew point or vapour pressure")

// Humidity is the moisture input of [UniversalThermalClimateIndex]. At least one
// field must be set; VapourPressure takes precedence when both are.
type Humidity struct {
	DewPoint       *float64 // K
	VapourPressure *float64 // hPa
}

// FromDewPoint builds a Humidity from a dew point in K.
func FromDewPoint(dewPointK float64) Humidity {
	return Humidity{DewPoint: &dewPointK}
}

// FromVapourPressure builds a Humidity from a water vapour pressure in hPa.
func FromVapourPressure(hPa float64) Humidity {
	return Humidity{VapourPressure: &hPa}
}

// vapourPressureKPa resolves the humidity input to kPa for the regression.
func (h Humidity) vapourPressureKPa(airTempK float64) (float64, error) {
	if h.VapourPressure != nil {
		return *h.VapourPressure / 10.0, nil
	}
	if h.DewPoint != nil {
		rh := RelativeHumidityPercent(airTempK, *h.DewPoint)
		ehPa := SaturationVapourPressure(airTempK) * rh / 100.0
		return ehPa / 10.0, nil
	}
	return 0, ErrMissingHumidityInput
}

// UniversalThermalClimateIndex returns UTCI in K from air temperature, 10 m
// wind speed, mean radiant temperature and a humidity input. It fails only
// with [ErrMissingHumidityInput].
//
// The regression is the 6th-order operational approximation, valid for
// Ta -50–50 °C, va 0.5–17 m/s, Tmrt-Ta -30–70 K and RH 5–100 %.
//
// Reference: Bröde et al. (2012), doi:10.1007/s00484-011-0454-1
func UniversalThermalClimateIndex(airTempK, wind10m, mrtK float64, h Humidity) (float64, error) {
	pa, err := h.vapourPressureKPa(airTempK)
	if err != nil {
		return 0, err
	}

	ta := KelvinToCelsius(airTempK)
	tmrt := KelvinToCelsius(mrtK)

	return CelsiusToKelvin(utciPolynomial(ta, tmrt, wind10m, pa)), nil
}

// utciPolynomial evaluates the regression with ta and tmrt in °C, va in m/s
// and pa in kPa, returning UTCI in °C.
func utciPolynomial(ta, tmrt, va, pa float64) float64 {
	tp := powers(ta)
	vp := powers(va)
	mp := powers(tmrt - ta)
	pp := powers(pa)

	utci := ta
	for _, t := range utciTerms {
		utci += t.coef * tp[t.ta] * vp[t.va] * mp[t.dmrt] * pp[t.pa]
	}
	return utci
}

// powers returns x⁰ through x⁶ by repeated multiplication.
func powers(x float64) [7]float64 {
	var p [7]float64
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * x
	}
	return p
}
