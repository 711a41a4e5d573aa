// Package oracle checks the thermal formulas against precomputed fixtures.
//
// A fixture directory holds one case table, thermofeel_testcases.csv, and one
// single-column CSV of expected values per formula, row-aligned with the case
// table. NaN marks a row where the formula has no result.
package oracle

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/couchcryptid/thermal-comfort-etl/internal/thermal"
)

// CasesFile is the case table inside a fixture directory.
const CasesFile = "thermofeel_testcases.csv"

// Case is one row of the case table. Radiation fluxes are accumulated J/m²
// over one hour.
type Case struct {
	AirTemperature  float64 // t2m, K
	SolarNet        float64 // ssr
	DewPoint        float64 // td, K
	Wind10m         float64 // va, m/s
	MeanRadiant     float64 // mrt, K
	SolarDownward   float64 // ssrd
	ThermalDownward float64 // strd
	TotalSkyDirect  float64 // fdir
	ThermalNet      float64 // strr
	CosSolarZenith  float64 // cossza
	Phase           thermal.Phase
	WindHeight      float64 // va_height, m
}

func (c Case) relativeHumidity() float64 {
	return thermal.RelativeHumidityPercent(c.AirTemperature, c.DewPoint)
}

// Check evaluates one formula for a case. ok is false when the formula has
// no result for that case.
type Check struct {
	Name string
	File string
	Eval func(c Case) (v float64, ok bool)
}

func always(f func(Case) float64) func(Case) (float64, bool) {
	return func(c Case) (float64, bool) { return f(c), true }
}

const accumulationSeconds = 3600.0

// Checks returns every formula check in fixture order.
func Checks() []Check {
	return []Check{
		{"relative humidity", "rh.csv", always(Case.relativeHumidity)},
		{"saturation vapour pressure", "es.csv", always(func(c Case) float64 {
			return thermal.SaturationVapourPressure(c.AirTemperature)
		})},
		{"saturation vapour pressure (multiphase)", "es_multiphase.csv", always(func(c Case) float64 {
			return thermal.SaturationVapourPressureMultiphase(c.AirTemperature, c.Phase)
		})},
		{"non-saturation vapour pressure", "ens.csv", always(func(c Case) float64 {
			return thermal.NonSaturationVapourPressure(c.AirTemperature, c.relativeHumidity())
		})},
		{"scaled wind speed", "va_scaled.csv", always(func(c Case) float64 {
			return thermal.ScaleWindspeed(c.Wind10m, c.WindHeight)
		})},
		{"mean radiant temperature", "mrtr.csv", meanRadiant},
		{"utci", "utci.csv", func(c Case) (float64, bool) {
			ehPa := thermal.SaturationVapourPressure(c.AirTemperature) * c.relativeHumidity() / 100.0
			v, err := thermal.UniversalThermalClimateIndex(c.AirTemperature, c.Wind10m, c.MeanRadiant, thermal.FromVapourPressure(ehPa))
			return v, err == nil
		}},
		{"wbgt (simple)", "wbgts.csv", always(func(c Case) float64 {
			return thermal.WetBulbGlobeTemperatureSimple(c.AirTemperature, c.relativeHumidity())
		})},
		{"wet bulb temperature", "wbt.csv", always(func(c Case) float64 {
			return thermal.WetBulbTemperature(c.AirTemperature, c.relativeHumidity())
		})},
		{"globe temperature", "bgt.csv", always(func(c Case) float64 {
			return thermal.BlackGlobeTemperature(c.AirTemperature, c.MeanRadiant, c.Wind10m)
		})},
		{"wbgt", "wbgt.csv", always(func(c Case) float64 {
			return thermal.WetBulbGlobeTemperature(c.AirTemperature, c.MeanRadiant, c.Wind10m, c.DewPoint)
		})},
		{"mrt from globe", "mrt_from_bgt.csv", always(func(c Case) float64 {
			bgt := thermal.BlackGlobeTemperature(c.AirTemperature, c.MeanRadiant, c.Wind10m)
			return thermal.MeanRadiantTemperatureFromGlobe(c.AirTemperature, bgt, c.Wind10m)
		})},
		{"humidex", "humidex.csv", always(func(c Case) float64 {
			return thermal.Humidex(c.AirTemperature, c.DewPoint)
		})},
		{"normal effective temperature", "net.csv", always(func(c Case) float64 {
			return thermal.NormalEffectiveTemperature(c.AirTemperature, c.Wind10m, c.relativeHumidity())
		})},
		{"apparent temperature", "at.csv", always(func(c Case) float64 {
			return thermal.ApparentTemperature(c.AirTemperature, c.Wind10m, c.relativeHumidity())
		})},
		{"wind chill", "windchill.csv", always(func(c Case) float64 {
			return thermal.WindChill(c.AirTemperature, c.Wind10m)
		})},
		{"heat index (simplified)", "heatindex.csv", func(c Case) (float64, bool) {
			return thermal.HeatIndexSimplified(c.AirTemperature, c.relativeHumidity())
		}},
		{"heat index (adjusted)", "hia.csv", func(c Case) (float64, bool) {
			return thermal.HeatIndexAdjusted(c.AirTemperature, c.DewPoint)
		}},
	}
}

func meanRadiant(c Case) (float64, bool) {
	fdir := c.TotalSkyDirect / accumulationSeconds
	dsrp, ok := thermal.ApproximateDirectSolarRadiation(fdir, c.CosSolarZenith)
	if !ok {
		return 0, false
	}
	return thermal.MeanRadiantTemperature(thermal.Fluxes{
		SolarDownward:       c.SolarDownward / accumulationSeconds,
		SolarNet:            c.SolarNet / accumulationSeconds,
		DirectSolar:         dsrp,
		ThermalDownward:     c.ThermalDownward / accumulationSeconds,
		TotalSkyDirectSolar: fdir,
		ThermalNet:          c.ThermalNet / accumulationSeconds,
		CosSolarZenith:      c.CosSolarZenith,
	}), true
}

// Mismatch is a row where the computed value disagrees with the fixture.
type Mismatch struct {
	Row      int
	Expected float64
	Actual   float64
	Present  bool // whether the formula produced a value
}

func (m Mismatch) String() string {
	if !m.Present {
		return fmt.Sprintf("row %d: expected %v, got no result", m.Row, m.Expected)
	}
	return fmt.Sprintf("row %d: expected %v, got %v (diff %.3g)", m.Row, m.Expected, m.Actual, math.Abs(m.Expected-m.Actual))
}

// Result summarizes one check over every case.
type Result struct {
	Check      Check
	Compared   int
	Mismatches []Mismatch
}

// Run evaluates every check against the fixtures in dir. Values agree when
// they are within tol of each other, or both absent.
func Run(dir string, tol float64) ([]Result, error) {
	cases, err := LoadCases(filepath.Join(dir, CasesFile))
	if err != nil {
		return nil, err
	}

	checks := Checks()
	results := make([]Result, 0, len(checks))
	for _, chk := range checks {
		expected, err := LoadColumn(filepath.Join(dir, chk.File))
		if err != nil {
			return nil, err
		}
		if len(expected) != len(cases) {
			return nil, fmt.Errorf("%s: %d rows, want %d", chk.File, len(expected), len(cases))
		}
		results = append(results, compare(chk, cases, expected, tol))
	}
	return results, nil
}

func compare(chk Check, cases []Case, expected []float64, tol float64) Result {
	res := Result{Check: chk}
	for i, c := range cases {
		want := expected[i]
		got, ok := chk.Eval(c)
		switch {
		case math.IsNaN(want) && !ok:
			continue
		case math.IsNaN(want):
			res.Mismatches = append(res.Mismatches, Mismatch{Row: i, Expected: want, Actual: got, Present: true})
		case !ok:
			res.Mismatches = append(res.Mismatches, Mismatch{Row: i, Expected: want})
		case !scalar.EqualWithinAbs(want, got, tol):
			res.Mismatches = append(res.Mismatches, Mismatch{Row: i, Expected: want, Actual: got, Present: true})
		}
		res.Compared++
	}
	return res
}

// LoadCases reads the case table. Columns are matched by header name.
func LoadCases(path string) ([]Case, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}

	cases := make([]Case, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := rowParser{row: row, idx: idx}
		c := Case{
			AirTemperature:  p.float("t2m"),
			SolarNet:        p.float("ssr"),
			DewPoint:        p.float("td"),
			Wind10m:         p.float("va"),
			MeanRadiant:     p.float("mrt"),
			SolarDownward:   p.float("ssrd"),
			ThermalDownward: p.float("strd"),
			TotalSkyDirect:  p.float("fdir"),
			ThermalNet:      p.float("strr"),
			CosSolarZenith:  p.float("cossza"),
			Phase:           thermal.Phase(p.float("phase")),
			WindHeight:      p.float("va_height"),
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+2, p.err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// LoadColumn reads a headerless single-column CSV of floats.
func LoadColumn(path string) ([]float64, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rows))
	for n, row := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// rowParser reads required float columns and keeps the first error.
type rowParser struct {
	row []string
	idx map[string]int
	err error
}

func (p *rowParser) float(col string) float64 {
	if p.err != nil {
		return 0
	}
	i, ok := p.idx[col]
	if !ok || i >= len(p.row) {
		p.err = fmt.Errorf("missing column %s", col)
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.row[i]), 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
		return 0
	}
	return v
}
