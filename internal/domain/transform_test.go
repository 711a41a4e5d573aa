package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStation = "KAUS"

func TestParseRawEvent(t *testing.T) {
	msgTime := time.Date(2024, 7, 14, 18, 0, 0, 0, time.UTC)

	t.Run("station record", func(t *testing.T) {
		data := []byte(`{"station_id":"KAUS","time":"2024-07-14T15:00:00-05:00","lat":30.19,"lon":-97.67,"t2m":303.15,"td":293.15,"va":3,"mrt":313.15}`)
		raw := RawEvent{Value: data, Timestamp: msgTime}
		result, err := ParseRawEvent(raw)

		require.NoError(t, err)
		assert.Equal(t, testStation, result.StationID)
		assert.Equal(t, time.Date(2024, 7, 14, 20, 0, 0, 0, time.UTC), result.Time)
		require.NotNil(t, result.Geo)
		assert.Equal(t, Geo{Lat: 30.19, Lon: -97.67}, *result.Geo)
		assert.Equal(t, 303.15, result.AirTemperature)
		require.NotNil(t, result.DewPoint)
		assert.Equal(t, 293.15, *result.DewPoint)
		assert.Nil(t, result.RelativeHumidity)
		assert.Nil(t, result.Radiation)
		assert.True(t, strings.HasPrefix(result.ID, "KAUS-"))
		assert.Equal(t, data, result.RawPayload)
	})

	t.Run("missing time uses message timestamp", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"station_id":"KAUS","t2m":290}`), Timestamp: msgTime}
		result, err := ParseRawEvent(raw)

		require.NoError(t, err)
		assert.Equal(t, msgTime, result.Time)
		assert.Nil(t, result.Geo)
	})

	t.Run("accumulated radiation", func(t *testing.T) {
		data := []byte(`{"station_id":"grid","t2m":290,"ssrd":60000,"ssr":471818,"fdir":374150,"strd":1061213,"strr":-182697,"dsrp":7200,"accumulation_seconds":3600}`)
		result, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		require.NotNil(t, result.Radiation)
		assert.InDelta(t, 60000.0/3600, result.Radiation.SolarDownward, 1e-9)
		assert.InDelta(t, -182697.0/3600, result.Radiation.ThermalNet, 1e-9)
		require.NotNil(t, result.Radiation.DirectSolar)
		assert.InDelta(t, 2.0, *result.Radiation.DirectSolar, 1e-9)
	})

	t.Run("partial radiation is dropped", func(t *testing.T) {
		data := []byte(`{"t2m":290,"ssrd":100,"ssr":80}`)
		result, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Nil(t, result.Radiation)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
	})

	t.Run("missing air temperature", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"station_id":"KAUS"}`)})
		require.ErrorIs(t, err, ErrInvalidObservation)
		assert.Contains(t, err.Error(), "t2m")
	})

	t.Run("non-positive air temperature", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"t2m":-3}`)})
		require.ErrorIs(t, err, ErrInvalidObservation)
	})

	t.Run("bad time", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"t2m":290,"time":"yesterday"}`)})
		require.ErrorIs(t, err, ErrInvalidObservation)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"t2m":290,"lat":95,"lon":0}`)})
		require.ErrorIs(t, err, ErrInvalidObservation)
	})

	t.Run("deterministic ID", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"station_id":"KAUS","time":"2024-07-14T20:00:00Z","lat":30.19,"lon":-97.67,"t2m":303.15}`)}
		result1, err := ParseRawEvent(raw)
		require.NoError(t, err)
		result2, err := ParseRawEvent(raw)
		require.NoError(t, err)

		assert.Equal(t, result1.ID, result2.ID)
	})
}

func TestParseObservation_ZeroFallbackUsesClock(t *testing.T) {
	now := time.Date(2024, 7, 14, 21, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	t2m := 300.0
	obs, err := ParseObservation(RawObservation{StationID: testStation, AirTemperature: &t2m}, time.Time{})
	require.NoError(t, err)
	assert.True(t, now.Equal(obs.Time))
}

func TestGenerateID(t *testing.T) {
	at := time.Date(2024, 7, 14, 20, 0, 0, 0, time.UTC)
	geo := &Geo{Lat: 30.19, Lon: -97.67}

	t.Run("includes station prefix", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(generateID(testStation, at, geo), "KAUS-"))
	})

	t.Run("time zone does not matter", func(t *testing.T) {
		local := at.In(time.FixedZone("CDT", -5*3600))
		assert.Equal(t, generateID(testStation, at, geo), generateID(testStation, local, geo))
	})

	t.Run("different inputs produce different IDs", func(t *testing.T) {
		assert.NotEqual(t, generateID(testStation, at, geo), generateID(testStation, at.Add(time.Minute), geo))
		assert.NotEqual(t, generateID(testStation, at, geo), generateID(testStation, at, nil))
	})

	t.Run("empty station", func(t *testing.T) {
		id := generateID("", at, geo)
		assert.Len(t, id, 16)
	})
}

func TestEnrichObservation(t *testing.T) {
	fixedTime := time.Date(2024, 7, 14, 20, 5, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	obs := Observation{ID: "KAUS-1", StationID: testStation, AirTemperature: 290}
	got := EnrichObservation(obs, nil)

	want := EnrichedObservation{
		Observation: obs,
		Indices:     ComputeIndices(obs, nil),
		ProcessedAt: fixedTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EnrichObservation mismatch (-want +got):\n%s", diff)
	}
}
