package domain

import "github.com/couchcryptid/thermal-comfort-etl/internal/thermal"

// UTCIStressCategory maps a UTCI value in K to its thermal stress category.
// Band edges in °C, lower bound exclusive:
//
//	> 46           extreme heat stress
//	38 .. 46       very strong heat stress
//	32 .. 38       strong heat stress
//	26 .. 32       moderate heat stress
//	9 .. 26        no thermal stress
//	0 .. 9         slight cold stress
//	-13 .. 0       moderate cold stress
//	-27 .. -13     strong cold stress
//	-40 .. -27     very strong cold stress
//	<= -40         extreme cold stress
func UTCIStressCategory(utciK float64) string {
	c := thermal.KelvinToCelsius(utciK)
	switch {
	case c > 46:
		return "extreme heat stress"
	case c > 38:
		return "very strong heat stress"
	case c > 32:
		return "strong heat stress"
	case c > 26:
		return "moderate heat stress"
	case c > 9:
		return "no thermal stress"
	case c > 0:
		return "slight cold stress"
	case c > -13:
		return "moderate cold stress"
	case c > -27:
		return "strong cold stress"
	case c > -40:
		return "very strong cold stress"
	default:
		return "extreme cold stress"
	}
}

// HeatIndexCategory maps a heat index in K to the NWS risk category.
// Values below 80 °F return "".
func HeatIndexCategory(heatIndexK float64) string {
	f := thermal.KelvinToFahrenheit(heatIndexK)
	switch {
	case f >= 125:
		return "extreme danger"
	case f >= 103:
		return "danger"
	case f >= 90:
		return "extreme caution"
	case f >= 80:
		return "caution"
	default:
		return ""
	}
}
