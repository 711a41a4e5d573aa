package domain

import "time"

// SolarGeometry supplies the cosine of the solar zenith angle for
// observations that carry coordinates but no cossza field.
type SolarGeometry interface {
	CosSolarZenith(lat, lon float64, at time.Time) float64
}
