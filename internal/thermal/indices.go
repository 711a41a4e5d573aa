package thermal

import "math"

// netWindHeightM is the height at which Normal Effective Temperature expects wind.
const netWindHeightM = 1.2

// WetBulbGlobeTemperatureSimple approximates WBGT in K from air temperature and
// relative humidity alone, assuming moderate radiation and light wind.
//
// Reference: ACSM (1984), doi:10.1080/00913847.1984.11701899
func WetBulbGlobeTemperatureSimple(airTempK, rh float64) float64 {
	tc := KelvinToCelsius(airTempK)
	e := NonSaturationVapourPressure(airTempK, rh)
	return CelsiusToKelvin(0.567*tc + 0.393*e + 3.94)
}

// WetBulbTemperature returns the psychrometric wet bulb temperature in K using
// Stull's arctangent fit, valid for RH 5–99 % and -20–50 °C.
//
// Reference: Stull (2011), doi:10.1175/JAMC-D-11-0143.1
func WetBulbTemperature(airTempK, rh float64) float64 {
	tc := KelvinToCelsius(airTempK)
	tw := tc*math.Atan(0.151977*math.Sqrt(rh+8.313659)) + math.Atan(tc+rh) -
		math.Atan(rh-1.676331) +
		0.00391838*math.Pow(rh, 3.0/2.0)*math.Atan(0.023101*rh) -
		4.686035
	return CelsiusToKelvin(tw)
}

// WetBulbGlobeTemperature returns WBGT in K as 0.7·Tw + 0.2·Tg + 0.1·Ta, with
// the globe temperature solved from mean radiant temperature and 10 m wind.
//
// Reference: Stull (2011); Bureau of Meteorology thermal stress guide.
func WetBulbGlobeTemperature(airTempK, mrtK, wind10m, dewPointK float64) float64 {
	bgtC := KelvinToCelsius(BlackGlobeTemperature(airTempK, mrtK, wind10m))

	rh := RelativeHumidityPercent(airTempK, dewPointK)
	tc := KelvinToCelsius(airTempK)
	twC := KelvinToCelsius(WetBulbTemperature(airTempK, rh))

	return CelsiusToKelvin(0.7*twC + 0.2*bgtC + 0.1*tc)
}

// ApparentTemperature returns Steadman's non-radiative apparent temperature in K.
//
// Reference: Steadman (1984), doi:10.1175/1520-0450(1984)023<1674:AUSOAT>2.0.CO;2
func ApparentTemperature(airTempK, wind10m, rh float64) float64 {
	tc := KelvinToCelsius(airTempK)
	e := NonSaturationVapourPressure(airTempK, rh)
	return CelsiusToKelvin(tc + 0.33*e - 0.7*wind10m - 4.0)
}

// WindChill returns the wind chill temperature in K. The regression is only
// meaningful for -50–5 °C and 5–80 km/h; outside that window a number is still
// returned. Use [WindChillInRange] to tell the two apart.
//
// Reference: Blazejczyk et al. (2012), doi:10.1007/s00484-011-0453-2
func WindChill(airTempK, wind10m float64) float64 {
	tc := KelvinToCelsius(airTempK)
	v := wind10m * 3.6 // km/h
	wc := 13.12 + 0.6215*tc - 11.37*math.Pow(v, 0.16) + 0.3965*tc*math.Pow(v, 0.16)
	return CelsiusToKelvin(wc)
}

// WindChillInRange reports whether the inputs fall inside the validity window
// of [WindChill]: -50–5 °C air temperature and 5–80 km/h wind, inclusive.
func WindChillInRange(airTempK, wind10m float64) bool {
	tc := KelvinToCelsius(airTempK)
	kmh := wind10m * 3.6
	return tc >= -50 && tc <= 5 && kmh >= 5 && kmh <= 80
}

// Humidex returns the Canadian humidex in K from air temperature and dew point.
//
// Reference: Blazejczyk et al. (2012), doi:10.1007/s00484-011-0453-2
func Humidex(airTempK, dewPointK float64) float64 {
	vp := 6.11 * math.Exp(5417.7530*((1.0/triplePointK)-(1.0/dewPointK))) // hPa
	h := 0.5555 * (vp - 10.0)
	return airTempK + h
}

// NormalEffectiveTemperature returns NET in K. Wind is rescaled to 1.2 m.
//
// Reference: Li and Chan (2006), doi:10.1017/S1350482700001602
func NormalEffectiveTemperature(airTempK, wind10m, rh float64) float64 {
	tc := KelvinToCelsius(airTempK)
	v := ScaleWindspeed(wind10m, netWindHeightM)
	windTerm := 1.0 / (1.76 + 1.4*math.Pow(v, 0.75))
	net := 37.0 - ((37.0 - tc) / (0.68 - 0.0014*rh + windTerm)) - 0.29*tc*(1.0-0.01*rh)
	return CelsiusToKelvin(net)
}
