package domain

import (
	"context"
	"time"
)

// RawObservation represents the flat JSON structure produced by the collector.
// Every measurement except air temperature is optional; absent fields decode
// to nil pointers so zero values stay distinguishable from missing ones.
type RawObservation struct {
	StationID string   `json:"station_id"`
	Time      string   `json:"time,omitempty"` // RFC 3339
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`

	AirTemperature   *float64 `json:"t2m"`              // K
	DewPoint         *float64 `json:"td,omitempty"`     // K
	RelativeHumidity *float64 `json:"rh,omitempty"`     // %
	VapourPressure   *float64 `json:"vp,omitempty"`     // hPa
	WindSpeed        *float64 `json:"va,omitempty"`     // m/s at 10 m
	WindU            *float64 `json:"u10,omitempty"`    // m/s
	WindV            *float64 `json:"v10,omitempty"`    // m/s
	MeanRadiant      *float64 `json:"mrt,omitempty"`    // K
	GlobeTemperature *float64 `json:"bgt,omitempty"`    // K
	CosSolarZenith   *float64 `json:"cossza,omitempty"` // dimensionless

	// Surface radiation. Values are W/m² unless AccumulationSeconds is set, in
	// which case they are J/m² accumulated over that many seconds.
	SolarDownward       *float64 `json:"ssrd,omitempty"`
	SolarNet            *float64 `json:"ssr,omitempty"`
	TotalSkyDirect      *float64 `json:"fdir,omitempty"`
	ThermalDownward     *float64 `json:"strd,omitempty"`
	ThermalNet          *float64 `json:"strr,omitempty"`
	DirectSolar         *float64 `json:"dsrp,omitempty"`
	AccumulationSeconds float64  `json:"accumulation_seconds,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Radiation is the surface radiation budget in W/m².
type Radiation struct {
	SolarDownward   float64  `json:"ssrd"`
	SolarNet        float64  `json:"ssr"`
	TotalSkyDirect  float64  `json:"fdir"`
	ThermalDownward float64  `json:"strd"`
	ThermalNet      float64  `json:"strr"`
	DirectSolar     *float64 `json:"dsrp,omitempty"`
}

// Observation is the validated, unit-normalized form of a RawObservation.
type Observation struct {
	ID        string    `json:"id"`
	StationID string    `json:"station_id"`
	Time      time.Time `json:"time"`
	Geo       *Geo      `json:"geo,omitempty"`

	AirTemperature   float64    `json:"t2m"`
	DewPoint         *float64   `json:"td,omitempty"`
	RelativeHumidity *float64   `json:"rh,omitempty"`
	VapourPressure   *float64   `json:"vp,omitempty"`
	WindSpeed        *float64   `json:"va,omitempty"`
	WindU            *float64   `json:"u10,omitempty"`
	WindV            *float64   `json:"v10,omitempty"`
	MeanRadiant      *float64   `json:"mrt,omitempty"`
	GlobeTemperature *float64   `json:"bgt,omitempty"`
	CosSolarZenith   *float64   `json:"cossza,omitempty"`
	Radiation        *Radiation `json:"radiation,omitempty"`

	RawPayload []byte `json:"-"`
}

// ThermalIndices holds the resolved inputs and every index that could be
// evaluated for an observation. All temperatures are in K. Nil fields were
// not computable from the available inputs.
type ThermalIndices struct {
	// Resolved inputs.
	RelativeHumidity *float64 `json:"rh,omitempty"`
	DewPoint         *float64 `json:"td,omitempty"`
	Wind10m          *float64 `json:"va,omitempty"`
	CosSolarZenith   *float64 `json:"cossza,omitempty"`
	MeanRadiant      *float64 `json:"mrt,omitempty"`
	MeanRadiantFrom  string   `json:"mrt_source,omitempty"` // "observed", "radiation", "globe"
	GlobeTemperature *float64 `json:"bgt,omitempty"`

	UTCI                       *float64 `json:"utci,omitempty"`
	UTCIStress                 string   `json:"utci_stress,omitempty"`
	HeatIndexSimplified        *float64 `json:"heat_index_simplified,omitempty"`
	HeatIndexAdjusted          *float64 `json:"heat_index_adjusted,omitempty"`
	HeatIndexCategory          string   `json:"heat_index_category,omitempty"`
	WetBulbGlobeSimple         *float64 `json:"wbgt_simple,omitempty"`
	WetBulbGlobe               *float64 `json:"wbgt,omitempty"`
	WetBulb                    *float64 `json:"wet_bulb,omitempty"`
	ApparentTemperature        *float64 `json:"apparent_temperature,omitempty"`
	WindChill                  *float64 `json:"wind_chill,omitempty"`
	Humidex                    *float64 `json:"humidex,omitempty"`
	NormalEffectiveTemperature *float64 `json:"net,omitempty"`
}

// EnrichedObservation is the observation together with its computed indices.
type EnrichedObservation struct {
	Observation Observation    `json:"observation"`
	Indices     ThermalIndices `json:"indices"`
	ProcessedAt time.Time      `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
