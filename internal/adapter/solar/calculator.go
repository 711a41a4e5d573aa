// Package solar computes solar geometry for observations that lack a
// cos(zenith) field.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// j2000 is the Julian day of the J2000.0 epoch.
const j2000 = 2451545.0

// Calculator evaluates the NOAA low-precision solar position. It is accurate
// to about 0.01° for dates within a few centuries of J2000.
type Calculator struct{}

// NewCalculator returns a solar position calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CosSolarZenith returns the cosine of the solar zenith angle at the given
// WGS-84 coordinates (degrees, east positive) and instant. Negative values
// mean the sun is below the horizon.
func (c *Calculator) CosSolarZenith(lat, lon float64, at time.Time) float64 {
	at = at.UTC()
	jd := julian.TimeToJD(at)
	T := (jd - j2000) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289

	omega := 125.04 - 1934.136*T
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	decl := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	utcMin := float64(at.Hour()*60+at.Minute()) + float64(at.Second())/60.0
	trueSolarTime := utcMin + 4*lon + eqTimeMin
	hourAngle := degToRad(trueSolarTime/4 - 180)

	latRad := degToRad(lat)
	return math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(hourAngle)
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }
