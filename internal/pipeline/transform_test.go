package pipeline_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/pipeline"
)

type fixedGeometry struct {
	cos   float64
	calls int
}

func (g *fixedGeometry) CosSolarZenith(_, _ float64, _ time.Time) float64 {
	g.calls++
	return g.cos
}

func f64(v float64) *float64 { return &v }

func TestObservationTransformer_Transform(t *testing.T) {
	metrics := newTestMetrics()
	tr := pipeline.NewTransformer(nil, slog.Default(), metrics)

	raw := domain.RawEvent{
		Value:     []byte(`{"station_id":"KAUS","time":"2024-07-14T20:00:00Z","lat":30.19,"lon":-97.67,"t2m":303.15,"td":293.15,"va":3,"mrt":313.15}`),
		Timestamp: time.Date(2024, 7, 14, 20, 0, 5, 0, time.UTC),
	}

	out, err := tr.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "KAUS", out.Observation.StationID)
	require.NotNil(t, out.Indices.UTCI)
	assert.InDelta(t, 304.6171601770124, *out.Indices.UTCI, 1e-6)
	assert.Equal(t, "moderate heat stress", out.Indices.UTCIStress)
	assert.Equal(t, domain.MRTObserved, out.Indices.MeanRadiantFrom)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.IndexOutcomes.WithLabelValues("utci", "computed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.IndexOutcomes.WithLabelValues("heat_index_adjusted", "absent")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MRTSource.WithLabelValues(domain.MRTObserved)), 0)
}

func TestObservationTransformer_TransformInvalid(t *testing.T) {
	tr := pipeline.NewTransformer(nil, slog.Default(), newTestMetrics())

	_, err := tr.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"station_id":"X"}`)})
	require.ErrorIs(t, err, domain.ErrInvalidObservation)

	_, err = tr.Transform(context.Background(), domain.RawEvent{Value: []byte(`not json`)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidObservation)
}

func TestObservationTransformer_CalculateUsesSolarGeometry(t *testing.T) {
	geometry := &fixedGeometry{cos: 0.4}
	metrics := newTestMetrics()
	tr := pipeline.NewTransformer(geometry, slog.Default(), metrics)

	rec := domain.RawObservation{
		StationID:           "ERA5-3",
		Time:                "2024-06-21T12:00:00Z",
		Lat:                 f64(45),
		Lon:                 f64(7),
		AirTemperature:      f64(298.15),
		DewPoint:            f64(288.15),
		WindSpeed:           f64(3.5),
		SolarDownward:       f64(60000),
		SolarNet:            f64(471818),
		TotalSkyDirect:      f64(374150),
		ThermalDownward:     f64(1061213),
		ThermalNet:          f64(-182697),
		AccumulationSeconds: 3600,
	}

	out, err := tr.Calculate(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 1, geometry.calls)
	require.NotNil(t, out.Indices.CosSolarZenith)
	assert.InDelta(t, 0.4, *out.Indices.CosSolarZenith, 0)
	require.NotNil(t, out.Indices.MeanRadiant)
	assert.InDelta(t, 269.80254478733025, *out.Indices.MeanRadiant, 1e-6)
	assert.Equal(t, domain.MRTRadiation, out.Indices.MeanRadiantFrom)
	assert.NotNil(t, out.Indices.UTCI)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MRTSource.WithLabelValues(domain.MRTRadiation)), 0)
}

func TestObservationTransformer_CalculateWithoutMRT(t *testing.T) {
	metrics := newTestMetrics()
	tr := pipeline.NewTransformer(nil, slog.Default(), metrics)

	out, err := tr.Calculate(context.Background(), domain.RawObservation{
		StationID:        "BUOY-7",
		AirTemperature:   f64(300.15),
		RelativeHumidity: f64(80),
		WindSpeed:        f64(7),
	})
	require.NoError(t, err)

	assert.Nil(t, out.Indices.UTCI)
	assert.Nil(t, out.Indices.MeanRadiant)
	assert.NotNil(t, out.Indices.ApparentTemperature)
	assert.False(t, out.Observation.Time.IsZero())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MRTSource.WithLabelValues("none")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.IndexOutcomes.WithLabelValues("utci", "absent")), 0)
}
