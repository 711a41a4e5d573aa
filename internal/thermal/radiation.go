package thermal

import "math"

// minCosSolarZenith is the accuracy guard for the direct-beam approximation.
// Dividing by smaller cosines amplifies flux noise beyond usefulness.
const minCosSolarZenith = 0.1

// stefanBoltzmann is σ in W m⁻² K⁻⁴ as used by the reference formulation.
const stefanBoltzmann = 0.0000000567

// Fluxes holds the surface radiation inputs of the mean radiant temperature
// balance. All fluxes are in W/m²; accumulated fields (J/m²) must be divided by
// their accumulation period first.
type Fluxes struct {
	SolarDownward       float64 // ssrd: surface solar radiation downwards
	SolarNet            float64 // ssr: surface net solar radiation
	DirectSolar         float64 // dsrp: direct solar radiation on a plane normal to the beam
	ThermalDownward     float64 // strd: surface thermal radiation downwards
	TotalSkyDirectSolar float64 // fdir: total sky direct solar radiation at surface
	ThermalNet          float64 // strr: surface net thermal radiation
	CosSolarZenith      float64 // cossza: dimensionless, valid in (0.1, 1]
}

// ApproximateDirectSolarRadiation estimates direct radiation on a plane normal
// to the sun from the horizontal total-sky direct flux. It reports ok == false
// when cosSolarZenith <= 0.1. Prefer a measured dsrp field when one exists.
func ApproximateDirectSolarRadiation(totalSkyDirect, cosSolarZenith float64) (float64, bool) {
	if cosSolarZenith <= minCosSolarZenith {
		return 0, false
	}
	return totalSkyDirect / cosSolarZenith, true
}

// MeanRadiantTemperature returns the mean radiant temperature in K from the
// surface radiation budget and solar geometry.
//
// Reference: Di Napoli et al. (2020), doi:10.1007/s00484-020-01900-5
func MeanRadiantTemperature(f Fluxes) float64 {
	dsw := f.SolarDownward - f.TotalSkyDirectSolar
	rsw := f.SolarDownward - f.SolarNet
	lur := f.ThermalDownward - f.ThermalNet

	gamma := math.Asin(f.CosSolarZenith) * 180.0 / math.Pi
	fp := 0.308 * math.Cos((math.Pi/180.0)*gamma*(0.998-gamma*gamma/50000.0))

	balance := 0.5*f.ThermalDownward + 0.5*lur + (0.7/0.97)*(0.5*dsw+0.5*rsw+fp*f.DirectSolar)
	return math.Pow((1.0/stefanBoltzmann)*balance, 0.25)
}
