package domain

import (
	"math"

	"github.com/couchcryptid/thermal-comfort-etl/internal/thermal"
)

// MRT provenance labels.
const (
	MRTObserved  = "observed"
	MRTRadiation = "radiation"
	MRTGlobe     = "globe"
)

// ComputeIndices resolves the derived inputs of obs and evaluates every index
// whose inputs are available. solar is consulted for cos(zenith) only when the
// observation has coordinates and no cossza of its own; it may be nil.
//
// Out-of-domain inputs (rh or vp of zero, negative wind) make some formulas
// return NaN or ±Inf. Those results are reported as absent, and anything
// derived from them is not evaluated.
func ComputeIndices(obs Observation, solar SolarGeometry) ThermalIndices {
	var ti ThermalIndices
	t2m := obs.AirTemperature

	rh := resolveRelativeHumidity(obs)
	td := obs.DewPoint
	if td == nil && rh != nil {
		td = ptr(thermal.DewPointFromRelativeHumidity(*rh, t2m))
	}
	ti.RelativeHumidity = rh
	ti.DewPoint = td

	wind := resolveWind(obs)
	ti.Wind10m = wind

	cossza := obs.CosSolarZenith
	if cossza == nil && solar != nil && obs.Geo != nil {
		cossza = ptr(solar.CosSolarZenith(obs.Geo.Lat, obs.Geo.Lon, obs.Time))
	}
	ti.CosSolarZenith = cossza

	ti.MeanRadiant, ti.MeanRadiantFrom = resolveMeanRadiant(obs, cossza, wind)

	ti.GlobeTemperature = obs.GlobeTemperature
	if ti.GlobeTemperature == nil && ti.MeanRadiant != nil && wind != nil {
		ti.GlobeTemperature = ptr(thermal.BlackGlobeTemperature(t2m, *ti.MeanRadiant, *wind))
	}

	if rh != nil {
		ti.WetBulbGlobeSimple = ptr(thermal.WetBulbGlobeTemperatureSimple(t2m, *rh))
		ti.WetBulb = ptr(thermal.WetBulbTemperature(t2m, *rh))
		ti.HeatIndexSimplified = optional(thermal.HeatIndexSimplified(t2m, *rh))
		if wind != nil {
			ti.ApparentTemperature = ptr(thermal.ApparentTemperature(t2m, *wind, *rh))
			ti.NormalEffectiveTemperature = ptr(thermal.NormalEffectiveTemperature(t2m, *wind, *rh))
		}
	}

	if td != nil {
		ti.Humidex = ptr(thermal.Humidex(t2m, *td))
		ti.HeatIndexAdjusted = optional(thermal.HeatIndexAdjusted(t2m, *td))
		if ti.MeanRadiant != nil && wind != nil {
			ti.WetBulbGlobe = ptr(thermal.WetBulbGlobeTemperature(t2m, *ti.MeanRadiant, *wind, *td))
		}
	}

	if wind != nil && thermal.WindChillInRange(t2m, *wind) {
		ti.WindChill = ptr(thermal.WindChill(t2m, *wind))
	}

	if ti.MeanRadiant != nil && wind != nil {
		h := thermal.Humidity{DewPoint: td, VapourPressure: obs.VapourPressure}
		if utci, err := thermal.UniversalThermalClimateIndex(t2m, *wind, *ti.MeanRadiant, h); err == nil {
			ti.UTCI = ptr(utci)
		}
	}

	if ti.UTCI != nil {
		ti.UTCIStress = UTCIStressCategory(*ti.UTCI)
	}
	if ti.HeatIndexAdjusted != nil {
		ti.HeatIndexCategory = HeatIndexCategory(*ti.HeatIndexAdjusted)
	}

	return ti
}

// resolveRelativeHumidity prefers an observed RH, then derives it from the
// dew point, then from the vapour pressure.
func resolveRelativeHumidity(obs Observation) *float64 {
	switch {
	case obs.RelativeHumidity != nil:
		return obs.RelativeHumidity
	case obs.DewPoint != nil:
		return ptr(thermal.RelativeHumidityPercent(obs.AirTemperature, *obs.DewPoint))
	case obs.VapourPressure != nil:
		es := thermal.SaturationVapourPressure(obs.AirTemperature)
		return ptr(100.0 * *obs.VapourPressure / es)
	default:
		return nil
	}
}

// resolveWind uses the scalar 10 m wind if present, else the vector magnitude.
func resolveWind(obs Observation) *float64 {
	if obs.WindSpeed != nil {
		return obs.WindSpeed
	}
	if obs.WindU != nil && obs.WindV != nil {
		return ptr(math.Hypot(*obs.WindU, *obs.WindV))
	}
	return nil
}

// resolveMeanRadiant returns the MRT and where it came from. The radiation
// balance needs cos(zenith) and a direct-beam flux; when the direct-beam
// approximation is rejected by its zenith guard, or the balance is not
// finite, an observed globe temperature is inverted instead.
func resolveMeanRadiant(obs Observation, cossza, wind *float64) (*float64, string) {
	if obs.MeanRadiant != nil {
		return obs.MeanRadiant, MRTObserved
	}

	if rad := obs.Radiation; rad != nil && cossza != nil {
		dsrp, ok := directSolar(rad, *cossza)
		if ok {
			mrt := thermal.MeanRadiantTemperature(thermal.Fluxes{
				SolarDownward:       rad.SolarDownward,
				SolarNet:            rad.SolarNet,
				DirectSolar:         dsrp,
				ThermalDownward:     rad.ThermalDownward,
				TotalSkyDirectSolar: rad.TotalSkyDirect,
				ThermalNet:          rad.ThermalNet,
				CosSolarZenith:      *cossza,
			})
			if v := ptr(mrt); v != nil {
				return v, MRTRadiation
			}
		}
	}

	if obs.GlobeTemperature != nil && wind != nil {
		mrt := thermal.MeanRadiantTemperatureFromGlobe(obs.AirTemperature, *obs.GlobeTemperature, *wind)
		if v := ptr(mrt); v != nil {
			return v, MRTGlobe
		}
	}

	return nil, ""
}

func directSolar(rad *Radiation, cossza float64) (float64, bool) {
	if rad.DirectSolar != nil {
		return *rad.DirectSolar, true
	}
	return thermal.ApproximateDirectSolarRadiation(rad.TotalSkyDirect, cossza)
}

// ptr returns nil for NaN and ±Inf.
func ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return ptr(v)
}
