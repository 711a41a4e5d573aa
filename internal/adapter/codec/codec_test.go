package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
)

func sampleObservation() domain.EnrichedObservation {
	utci := 304.6171601770124
	rh := 55.1
	return domain.EnrichedObservation{
		Observation: domain.Observation{
			ID:             "KAUS-0123456789abcdef",
			StationID:      "KAUS",
			Time:           time.Date(2024, 7, 14, 20, 0, 0, 0, time.UTC),
			Geo:            &domain.Geo{Lat: 30.19, Lon: -97.67},
			AirTemperature: 303.15,
		},
		Indices: domain.ThermalIndices{
			RelativeHumidity: &rh,
			UTCI:             &utci,
			UTCIStress:       "moderate heat stress",
		},
		ProcessedAt: time.Date(2024, 7, 14, 20, 5, 0, 0, time.UTC),
	}
}

func TestForName(t *testing.T) {
	c, err := ForName("json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = ForName("")
	require.NoError(t, err)
	assert.Equal(t, "application/json", c.ContentType())

	c, err = ForName("msgpack")
	require.NoError(t, err)
	assert.Equal(t, "application/x-msgpack", c.ContentType())

	_, err = ForName("xml")
	require.Error(t, err)
}

func TestJSON_OmitsAbsentIndices(t *testing.T) {
	data, err := Marshal(JSON{}, sampleObservation())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"utci":304.6171601770124`)
	assert.Contains(t, string(data), `"utci_stress":"moderate heat stress"`)
	assert.NotContains(t, string(data), "wind_chill")
	assert.NotContains(t, string(data), "heat_index_adjusted")
}

func TestMsgpack_UsesJSONFieldNames(t *testing.T) {
	data, err := Marshal(Msgpack{}, sampleObservation())
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, msgpack.Unmarshal(data, &generic))
	indices, ok := generic["indices"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 304.6171601770124, indices["utci"], 1e-12)
	assert.NotContains(t, indices, "wind_chill")
}

func TestCodecs_Decode(t *testing.T) {
	want := sampleObservation()

	for _, c := range []Codec{JSON{}, Msgpack{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := Marshal(c, want)
			require.NoError(t, err)

			var got domain.EnrichedObservation
			require.NoError(t, c.Decode(bytes.NewReader(data), &got))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
