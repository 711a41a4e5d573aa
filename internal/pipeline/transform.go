package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/observability"
	"github.com/couchcryptid/thermal-comfort-etl/internal/thermal"
)

// ObservationTransformer implements Transformer using domain parse and
// enrichment functions with optional solar geometry.
type ObservationTransformer struct {
	solar   domain.SolarGeometry
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates an ObservationTransformer. Pass a nil solar geometry
// to use only the cos(zenith) carried by observations.
func NewTransformer(solar domain.SolarGeometry, logger *slog.Logger, metrics *observability.Metrics) *ObservationTransformer {
	return &ObservationTransformer{
		solar:   solar,
		logger:  logger,
		metrics: metrics,
	}
}

// Transform parses a source message and computes its thermal indices.
func (t *ObservationTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.EnrichedObservation, error) {
	obs, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.EnrichedObservation{}, err
	}
	return t.enrich(obs), nil
}

// Calculate computes thermal indices for a single decoded observation. A
// missing observation time defaults to now.
func (t *ObservationTransformer) Calculate(_ context.Context, rec domain.RawObservation) (domain.EnrichedObservation, error) {
	obs, err := domain.ParseObservation(rec, time.Time{})
	if err != nil {
		return domain.EnrichedObservation{}, err
	}
	return t.enrich(obs), nil
}

func (t *ObservationTransformer) enrich(obs domain.Observation) domain.EnrichedObservation {
	enriched := domain.EnrichObservation(obs, t.solar)
	t.record(enriched)
	return enriched
}

// record updates index metrics for one enriched observation.
func (t *ObservationTransformer) record(e domain.EnrichedObservation) {
	ti := e.Indices
	for _, idx := range indexValues(ti) {
		outcome := "computed"
		if idx.value == nil {
			outcome = "absent"
		}
		t.metrics.IndexOutcomes.WithLabelValues(idx.name, outcome).Inc()
	}

	source := ti.MeanRadiantFrom
	if source == "" {
		source = "none"
	}
	t.metrics.MRTSource.WithLabelValues(source).Inc()

	if ti.UTCI != nil {
		t.metrics.UTCI.Observe(thermal.KelvinToCelsius(*ti.UTCI))
	} else {
		t.logger.Debug("utci not computable",
			"station_id", e.Observation.StationID,
			"observation_id", e.Observation.ID,
			"has_mrt", ti.MeanRadiant != nil,
			"has_wind", ti.Wind10m != nil,
		)
	}
}

type indexValue struct {
	name  string
	value *float64
}

func indexValues(ti domain.ThermalIndices) []indexValue {
	return []indexValue{
		{"utci", ti.UTCI},
		{"heat_index_simplified", ti.HeatIndexSimplified},
		{"heat_index_adjusted", ti.HeatIndexAdjusted},
		{"wbgt_simple", ti.WetBulbGlobeSimple},
		{"wbgt", ti.WetBulbGlobe},
		{"wet_bulb", ti.WetBulb},
		{"bgt", ti.GlobeTemperature},
		{"mrt", ti.MeanRadiant},
		{"apparent_temperature", ti.ApparentTemperature},
		{"wind_chill", ti.WindChill},
		{"humidex", ti.Humidex},
		{"net", ti.NormalEffectiveTemperature},
	}
}
