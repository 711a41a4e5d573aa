package thermal

import "math"

// simplifiedHeatIndexCoefficients are the magnitudes of the Celsius heat index
// regression; signs are applied in HeatIndexSimplified.
var simplifiedHeatIndexCoefficients = [9]float64{
	8.784695,
	1.61139411,
	2.338549,
	0.14611605,
	1.2308094e-2,
	1.6424828e-2,
	2.211732e-3,
	7.2546e-4,
	3.582e-6,
}

// rothfuszCoefficients are the magnitudes of the NWS Fahrenheit regression;
// signs are applied in HeatIndexAdjusted.
var rothfuszCoefficients = [9]float64{
	42.379,
	2.04901523,
	10.1433312,
	0.22475541,
	0.00683783,
	0.05481717,
	0.00122874,
	0.00085282,
	0.00000199,
}

// heatIndexThresholdC is the air temperature at or below which the simplified
// regression is reported as undefined.
const heatIndexThresholdC = 20.0

// HeatIndexSimplified returns the heat index in K from air temperature and
// relative humidity. It reports ok == false at or below 20 °C.
//
// Reference: Blazejczyk et al. (2012), doi:10.1007/s00484-011-0453-2
func HeatIndexSimplified(airTempK, rh float64) (float64, bool) {
	tc := KelvinToCelsius(airTempK)
	if tc <= heatIndexThresholdC {
		return 0, false
	}

	c := simplifiedHeatIndexCoefficients
	hi := -c[0] + c[1]*tc + c[2]*rh -
		c[3]*tc*rh -
		c[4]*tc*tc -
		c[5]*rh*rh +
		c[6]*tc*tc*rh +
		c[7]*tc*rh*rh -
		c[8]*tc*tc*rh*rh

	return CelsiusToKelvin(hi), true
}

// HeatIndexAdjusted returns the NWS heat index in K from air temperature and
// dew point. The Rothfusz regression is corrected per regime, checked in order:
//
//	80 < T < 112 °F and RH <= 13 %   subtract the dry-air adjustment
//	80 < T < 87 °F and RH > 85 %     add the humid-air adjustment
//	T < 80 °F                        use Steadman's simple estimate
//	(HI + T)/2 < 80 °F               use Steadman's simple estimate
//
// When none applies it reports ok == false.
//
// Reference: https://www.wpc.ncep.noaa.gov/html/heatindex_equation.shtml
func HeatIndexAdjusted(airTempK, dewPointK float64) (float64, bool) {
	rh := RelativeHumidityPercent(airTempK, dewPointK)
	tf := KelvinToFahrenheit(airTempK)

	simple := steadmanHeatIndex(tf, rh)

	c := rothfuszCoefficients
	hi := -c[0] + c[1]*tf + c[2]*rh -
		c[3]*tf*rh -
		c[4]*tf*tf -
		c[5]*rh*rh +
		c[6]*tf*tf*rh +
		c[7]*tf*rh*rh -
		c[8]*tf*tf*rh*rh

	switch {
	case tf > 80.0 && tf < 112.0 && rh <= 13.0:
		hi -= (13.0 - rh) / 4.0 * math.Sqrt(17.0-math.Abs(tf-95.0)/17.0)
	case tf > 80.0 && tf < 87.0 && rh > 85.0:
		hi += (rh - 85.0) / 10.0 * ((87.0 - tf) / 5.0)
	case tf < 80.0:
		hi = simple
	case (hi+tf)/2.0 < 80.0:
		hi = simple
	default:
		return 0, false
	}

	return FahrenheitToKelvin(hi), true
}

// steadmanHeatIndex is the NWS simple heat index in °F.
func steadmanHeatIndex(tf, rh float64) float64 {
	return 0.5 * (tf + 61.0 + ((tf - 68.0) * 1.2) + (rh * 0.094))
}
