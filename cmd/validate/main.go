// Command validate performs data integrity checks for the thermal comfort
// pipeline: every formula against the oracle fixtures, the raw observation
// fixture against the domain parser, and the enriched fixture against a fresh
// recomputation.
//
// Usage:
//
//	go run ./cmd/validate \
//	  --oracle-dir internal/thermal/testdata \
//	  --raw-json data/mock/raw_observations.json \
//	  --enriched-json data/mock/enriched_observations.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/solar"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/oracle"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	oracleDir    string
	rawJSON      string
	enrichedJSON string
	tolerance    float64
	solar        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.oracleDir, "oracle-dir", "internal/thermal/testdata", "directory containing oracle CSV fixtures")
	flag.StringVar(&opts.rawJSON, "raw-json", "", "path to raw observation JSON fixture")
	flag.StringVar(&opts.enrichedJSON, "enriched-json", "", "path to enriched observation JSON fixture")
	flag.Float64Var(&opts.tolerance, "tolerance", 1e-6, "absolute tolerance for numeric comparisons")
	flag.BoolVar(&opts.solar, "solar", true, "recompute with solar geometry, matching genmock")
	flag.Parse()

	if opts.oracleDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(opts))
}

func run(opts options) int {
	// Set a fixed clock matching genmock for ProcessedAt reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.July, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Thermal Comfort Data Validation ===")
	fmt.Println()

	results, err := oracle.Run(opts.oracleDir, opts.tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load oracle fixtures: %v\n", err)
		return 1
	}
	phases := oraclePhases(results)

	var raw []domain.RawObservation
	if opts.rawJSON != "" {
		raw, err = loadJSON[domain.RawObservation](opts.rawJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
			return 1
		}
		phases = append(phases, validateRawFixture(raw))
	}

	if opts.enrichedJSON != "" {
		enriched, err := loadJSON[domain.EnrichedObservation](opts.enrichedJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load enriched JSON: %v\n", err)
			return 1
		}
		var geometry domain.SolarGeometry
		if opts.solar {
			geometry = solar.NewCalculator()
		}
		phases = append(phases,
			validateEnrichedFixture(enriched, raw, geometry, opts.tolerance),
			validateCategories(enriched),
		)
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Phases ──

func oraclePhases(results []oracle.Result) []*phase {
	phases := make([]*phase, 0, len(results))
	for _, res := range results {
		p := &phase{name: fmt.Sprintf("Oracle: %s (%d rows)", res.Check.Name, res.Compared)}
		for _, m := range res.Mismatches {
			p.errorf("%s", m)
		}
		phases = append(phases, p)
	}
	return phases
}

// validateRawFixture checks that every raw observation parses and that the
// derived IDs are unique.
func validateRawFixture(raw []domain.RawObservation) *phase {
	p := &phase{name: fmt.Sprintf("Raw fixture parses (%d records)", len(raw))}
	seen := make(map[string]int, len(raw))
	for i, rec := range raw {
		obs, err := domain.ParseObservation(rec, time.Time{})
		if err != nil {
			p.errorf("record %d (%s): %v", i, rec.StationID, err)
			continue
		}
		if j, dup := seen[obs.ID]; dup {
			p.errorf("record %d (%s): duplicate id %s (first at %d)", i, rec.StationID, obs.ID, j)
		}
		seen[obs.ID] = i
	}
	return p
}

// validateEnrichedFixture recomputes every raw observation and compares the
// result with the enriched fixture.
func validateEnrichedFixture(enriched []domain.EnrichedObservation, raw []domain.RawObservation, geometry domain.SolarGeometry, tol float64) *phase {
	p := &phase{name: fmt.Sprintf("Enriched fixture matches pipeline (%d records)", len(enriched))}
	if raw == nil {
		p.errorf("--raw-json is required to recompute the enriched fixture")
		return p
	}
	if len(raw) != len(enriched) {
		p.errorf("record count: raw=%d enriched=%d", len(raw), len(enriched))
		return p
	}

	opts := cmp.Options{
		cmpopts.EquateApprox(0, tol),
		cmpopts.IgnoreFields(domain.Observation{}, "RawPayload"),
	}
	for i, rec := range raw {
		obs, err := domain.ParseObservation(rec, time.Time{})
		if err != nil {
			p.errorf("record %d: %v", i, err)
			continue
		}
		want := domain.EnrichObservation(obs, geometry)
		if diff := cmp.Diff(want, enriched[i], opts); diff != "" {
			p.errorf("record %d (%s) mismatch (-recomputed +fixture):\n%s", i, rec.StationID, diff)
		}
	}
	return p
}

// validateCategories checks that stored category labels agree with the
// stored index values.
func validateCategories(enriched []domain.EnrichedObservation) *phase {
	p := &phase{name: "Category labels match index values"}
	for i := range enriched {
		ti := &enriched[i].Indices
		id := enriched[i].Observation.ID
		switch {
		case ti.UTCI == nil && ti.UTCIStress != "":
			p.errorf("%s: utci_stress %q without utci", id, ti.UTCIStress)
		case ti.UTCI != nil && domain.UTCIStressCategory(*ti.UTCI) != ti.UTCIStress:
			p.errorf("%s: utci %.3f labelled %q, want %q", id, *ti.UTCI, ti.UTCIStress, domain.UTCIStressCategory(*ti.UTCI))
		}
		if ti.HeatIndexAdjusted != nil && domain.HeatIndexCategory(*ti.HeatIndexAdjusted) != ti.HeatIndexCategory {
			p.errorf("%s: heat index %.3f labelled %q", id, *ti.HeatIndexAdjusted, ti.HeatIndexCategory)
		}
	}
	return p
}
