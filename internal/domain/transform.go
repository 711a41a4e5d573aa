package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidObservation marks observations that decode but cannot be used.
var ErrInvalidObservation = errors.New("invalid observation")

// ParseRawEvent deserializes a RawEvent's value into an Observation.
// It expects the flat JSON produced by the collector service. The message
// timestamp stands in for a missing observation time.
func ParseRawEvent(raw RawEvent) (Observation, error) {
	var rec RawObservation
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Observation{}, fmt.Errorf("parse raw event: %w", err)
	}

	obs, err := ParseObservation(rec, raw.Timestamp)
	if err != nil {
		return Observation{}, fmt.Errorf("parse raw event: %w", err)
	}
	obs.RawPayload = raw.Value
	return obs, nil
}

// ParseObservation validates a RawObservation and normalizes it. fallback is
// used as the observation time when rec.Time is empty; a zero fallback means
// the current time.
func ParseObservation(rec RawObservation, fallback time.Time) (Observation, error) {
	if rec.AirTemperature == nil {
		return Observation{}, fmt.Errorf("%w: t2m is required", ErrInvalidObservation)
	}
	if *rec.AirTemperature <= 0 {
		return Observation{}, fmt.Errorf("%w: t2m must be positive kelvin, got %g", ErrInvalidObservation, *rec.AirTemperature)
	}

	obsTime, err := parseObservationTime(rec.Time, fallback)
	if err != nil {
		return Observation{}, err
	}

	geo, err := parseGeo(rec.Lat, rec.Lon)
	if err != nil {
		return Observation{}, err
	}

	stationID := strings.TrimSpace(rec.StationID)
	obs := Observation{
		ID:               generateID(stationID, obsTime, geo),
		StationID:        stationID,
		Time:             obsTime,
		Geo:              geo,
		AirTemperature:   *rec.AirTemperature,
		DewPoint:         rec.DewPoint,
		RelativeHumidity: rec.RelativeHumidity,
		VapourPressure:   rec.VapourPressure,
		WindSpeed:        rec.WindSpeed,
		WindU:            rec.WindU,
		WindV:            rec.WindV,
		MeanRadiant:      rec.MeanRadiant,
		GlobeTemperature: rec.GlobeTemperature,
		CosSolarZenith:   rec.CosSolarZenith,
		Radiation:        parseRadiation(rec),
	}
	return obs, nil
}

// parseObservationTime parses an RFC 3339 time, returning fallback in UTC
// when the string is empty.
func parseObservationTime(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if fallback.IsZero() {
			fallback = clock.Now()
		}
		return fallback.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q: %w", ErrInvalidObservation, value, err)
	}
	return t.UTC(), nil
}

// parseGeo returns nil unless both coordinates are present.
func parseGeo(lat, lon *float64) (*Geo, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	if *lat < -90 || *lat > 90 {
		return nil, fmt.Errorf("%w: lat %g out of range", ErrInvalidObservation, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return nil, fmt.Errorf("%w: lon %g out of range", ErrInvalidObservation, *lon)
	}
	return &Geo{Lat: *lat, Lon: *lon}, nil
}

// parseRadiation collects the radiation budget when all five flux components
// are present, converting accumulated J/m² to W/m².
func parseRadiation(rec RawObservation) *Radiation {
	if rec.SolarDownward == nil || rec.SolarNet == nil || rec.TotalSkyDirect == nil ||
		rec.ThermalDownward == nil || rec.ThermalNet == nil {
		return nil
	}

	period := 1.0
	if rec.AccumulationSeconds > 0 {
		period = rec.AccumulationSeconds
	}

	rad := &Radiation{
		SolarDownward:   *rec.SolarDownward / period,
		SolarNet:        *rec.SolarNet / period,
		TotalSkyDirect:  *rec.TotalSkyDirect / period,
		ThermalDownward: *rec.ThermalDownward / period,
		ThermalNet:      *rec.ThermalNet / period,
	}
	if rec.DirectSolar != nil {
		dsrp := *rec.DirectSolar / period
		rad.DirectSolar = &dsrp
	}
	return rad
}

// generateID produces a deterministic ID from the observation's key fields.
// Reprocessing the same raw observation produces the same ID.
func generateID(stationID string, t time.Time, geo *Geo) string {
	coords := "-|-"
	if geo != nil {
		coords = fmt.Sprintf("%.4f|%.4f", geo.Lat, geo.Lon)
	}
	input := fmt.Sprintf("%s|%s|%s", stationID, t.UTC().Format(time.RFC3339), coords)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if stationID == "" {
		return short
	}
	return stationID + "-" + short
}

// EnrichObservation computes thermal indices for obs and stamps the
// processing time. solar may be nil.
func EnrichObservation(obs Observation, solar SolarGeometry) EnrichedObservation {
	return EnrichedObservation{
		Observation: obs,
		Indices:     ComputeIndices(obs, solar),
		ProcessedAt: clock.Now(),
	}
}
