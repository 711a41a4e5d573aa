package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/codec"
	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/observability"
	"github.com/couchcryptid/thermal-comfort-etl/internal/pipeline"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type failingCalculator struct{}

func (failingCalculator) Calculate(context.Context, domain.RawObservation) (domain.EnrichedObservation, error) {
	return domain.EnrichedObservation{}, errors.New("boom")
}

type nonFiniteCalculator struct{}

func (nonFiniteCalculator) Calculate(_ context.Context, rec domain.RawObservation) (domain.EnrichedObservation, error) {
	return domain.EnrichedObservation{
		Observation: domain.Observation{StationID: rec.StationID, AirTemperature: math.NaN()},
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(readyErr error) *httpadapter.Server {
	calc := pipeline.NewTransformer(nil, discardLogger(), observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, calc, discardLogger())
}

const kausBody = `{"station_id":"KAUS","time":"2024-07-14T20:00:00Z","lat":30.19,"lon":-97.67,"t2m":303.15,"td":293.15,"va":3,"mrt":313.15}`

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(errors.New("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIndicesReturnsJSON(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/indices", strings.NewReader(kausBody))

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out domain.EnrichedObservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "KAUS", out.Observation.StationID)
	require.NotNil(t, out.Indices.UTCI)
	assert.InDelta(t, 304.6171601770124, *out.Indices.UTCI, 1e-6)
	assert.Equal(t, "moderate heat stress", out.Indices.UTCIStress)
}

func TestIndicesReturnsMsgpack(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/indices?format=msgpack", strings.NewReader(kausBody))

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	var out domain.EnrichedObservation
	require.NoError(t, codec.Msgpack{}.Decode(bytes.NewReader(rec.Body.Bytes()), &out))
	require.NotNil(t, out.Indices.UTCI)
	assert.InDelta(t, 304.6171601770124, *out.Indices.UTCI, 1e-6)
}

func TestIndicesErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"malformed json", "/v1/indices", `{"t2m":`, http.StatusBadRequest},
		{"unknown format", "/v1/indices?format=xml", kausBody, http.StatusBadRequest},
		{"missing air temperature", "/v1/indices", `{"station_id":"KAUS","td":293.15}`, http.StatusUnprocessableEntity},
		{"latitude out of range", "/v1/indices", `{"t2m":300,"lat":91,"lon":0}`, http.StatusUnprocessableEntity},
	}

	srv := newTestServer(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body))

			srv.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestIndicesCalculatorFailure(t *testing.T) {
	srv := httpadapter.NewServer(":0", &mockReadiness{}, failingCalculator{}, discardLogger())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/indices", strings.NewReader(kausBody))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIndicesRejectsGet(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/indices", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIndicesOutOfDomainInputs(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		absent func(domain.ThermalIndices) *float64
	}{
		{"zero relative humidity", `{"t2m":300,"rh":0,"va":3,"mrt":310}`, func(ti domain.ThermalIndices) *float64 { return ti.DewPoint }},
		{"zero vapour pressure", `{"t2m":300,"vp":0,"va":3,"mrt":310}`, func(ti domain.ThermalIndices) *float64 { return ti.DewPoint }},
		{"negative wind", `{"t2m":300,"td":290,"va":-2,"mrt":310}`, func(ti domain.ThermalIndices) *float64 { return ti.GlobeTemperature }},
	}

	srv := newTestServer(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/indices", strings.NewReader(tc.body))

			srv.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.NotZero(t, rec.Body.Len())

			var out domain.EnrichedObservation
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Nil(t, tc.absent(out.Indices))
			assert.NotNil(t, out.Indices.WetBulbGlobeSimple)
		})
	}
}

func TestIndicesEncodeFailureReturns500(t *testing.T) {
	srv := httpadapter.NewServer(":0", &mockReadiness{}, nonFiniteCalculator{}, discardLogger())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/indices", strings.NewReader(kausBody))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
