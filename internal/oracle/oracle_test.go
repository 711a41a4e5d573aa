package oracle

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/thermal-comfort-etl/internal/thermal"
)

var fixtureDir = filepath.Join("..", "thermal", "testdata")

func TestRunAgainstFixtures(t *testing.T) {
	results, err := Run(fixtureDir, 1e-6)
	require.NoError(t, err)
	require.Len(t, results, len(Checks()))

	for _, res := range results {
		t.Run(res.Check.Name, func(t *testing.T) {
			assert.Positive(t, res.Compared)
			for _, m := range res.Mismatches {
				t.Error(m.String())
			}
		})
	}
}

func TestLoadCases(t *testing.T) {
	cases, err := LoadCases(filepath.Join(fixtureDir, CasesFile))
	require.NoError(t, err)
	require.Len(t, cases, 10)

	first := cases[0]
	assert.InDelta(t, 303.15, first.AirTemperature, 0)
	assert.InDelta(t, 293.15, first.DewPoint, 0)
	assert.InDelta(t, 0.4, first.CosSolarZenith, 0)
	assert.Equal(t, thermal.Liquid, first.Phase)
	assert.Equal(t, thermal.Ice, cases[2].Phase)
}

func TestLoadColumnNaN(t *testing.T) {
	values, err := LoadColumn(filepath.Join(fixtureDir, "mrtr.csv"))
	require.NoError(t, err)
	require.Len(t, values, 10)
	assert.True(t, math.IsNaN(values[3]), "cos zenith 0.05 is below the direct-beam guard")
	assert.False(t, math.IsNaN(values[0]))
}

func TestRunReportsMismatch(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join(fixtureDir, CasesFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CasesFile), src, 0o600))

	for _, chk := range Checks() {
		data, err := os.ReadFile(filepath.Join(fixtureDir, chk.File))
		require.NoError(t, err)
		if chk.File == "humidex.csv" {
			data = []byte("0\n0\n0\n0\n0\n0\n0\n0\n0\n0\n")
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, chk.File), data, 0o600))
	}

	results, err := Run(dir, 1e-6)
	require.NoError(t, err)
	for _, res := range results {
		if res.Check.File == "humidex.csv" {
			assert.Len(t, res.Mismatches, 10)
			continue
		}
		assert.Empty(t, res.Mismatches, res.Check.Name)
	}
}

func TestRunRowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join(fixtureDir, CasesFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CasesFile), src, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rh.csv"), []byte("50\n"), 0o600))

	_, err = Run(dir, 1e-6)
	require.ErrorContains(t, err, "rh.csv")
}
