package thermal

import "math"

// globeHeightM is the height of a standard 150 mm black globe above ground.
const globeHeightM = 1.1

// globeConvectionCoefficient returns the combined radiative-convective term of
// the globe heat balance for a 10 m wind speed, for a 0.15 m globe with
// emissivity 0.95.
func globeConvectionCoefficient(wind10m float64) float64 {
	v := ScaleWindspeed(wind10m, globeHeightM)
	return (1.1e8 * math.Pow(v, 0.6)) / (0.95 * math.Pow(0.15, 0.4))
}

// BlackGlobeTemperature solves the globe heat balance
//
//	Tg⁴ + d·Tg = Tmrt⁴ + d·Ta
//
// for the globe temperature Tg in K, in closed form through the resolvent cubic
// of the quartic. Wind is rescaled from 10 m to globe height. Negative wind is
// not clamped and produces NaN from the fractional power. The often quoted
// "negative wind" reference value of 298.70216 K comes from calling the solver
// with -10 as the radiant temperature and 310 as the wind.
//
// Reference: Guo et al. (2018), doi:10.1016/j.enbuild.2018.08.029
func BlackGlobeTemperature(airTempK, mrtK, wind10m float64) float64 {
	d := globeConvectionCoefficient(wind10m)
	e := -math.Pow(mrtK, 4) - d*airTempK

	q := 12.0 * e
	s := 27.0 * (d * d)
	delta := math.Pow((s+math.Sqrt(s*s-4.0*(q*q*q)))/2.0, 1.0/3.0)
	q = 0.5 * math.Sqrt((1.0/3.0)*(delta+q/delta))

	return -q + 0.5*math.Sqrt(-4.0*(q*q)+d/q)
}

// MeanRadiantTemperatureFromGlobe inverts the globe heat balance to recover
// the mean radiant temperature in K from a measured globe temperature.
//
// Reference: Brimicombe et al. (2023), doi:10.1029/2022GH000701
func MeanRadiantTemperatureFromGlobe(airTempK, globeTempK, wind10m float64) float64 {
	f := globeConvectionCoefficient(wind10m)
	balance := math.Pow(globeTempK, 4) + f*(globeTempK-airTempK)
	return math.Sqrt(math.Sqrt(balance))
}
