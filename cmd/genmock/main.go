// Command genmock reads a station observation CSV and generates mock data
// fixtures: the raw JSON consumed from the source topic and the enriched JSON
// the pipeline produces from it. It uses the actual domain package so the
// enriched output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  --csv data/mock/stations.csv \
//	  --raw-out data/mock/raw_observations.json \
//	  --enriched-out data/mock/enriched_observations.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/solar"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "data/mock/stations.csv", "station observation CSV")
	rawOut := flag.String("raw-out", "", "output path for raw JSON fixture")
	enrichedOut := flag.String("enriched-out", "", "output path for enriched JSON fixture")
	useSolar := flag.Bool("solar", true, "fill missing cos(zenith) from solar geometry")
	flag.Parse()

	if *rawOut == "" && *enrichedOut == "" {
		flag.Usage()
		return fmt.Errorf("at least one of --raw-out, --enriched-out is required")
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.July, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records, err := readStations(*csvPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *csvPath, err)
	}
	log.Printf("read %d observations", len(records))

	var geometry domain.SolarGeometry
	if *useSolar {
		geometry = solar.NewCalculator()
	}

	enriched := make([]domain.EnrichedObservation, 0, len(records))
	for i, rec := range records {
		obs, err := domain.ParseObservation(rec, time.Time{})
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i+2, rec.StationID, err)
		}
		enriched = append(enriched, domain.EnrichObservation(obs, geometry))
	}

	if *rawOut != "" {
		if err := writeJSON(*rawOut, records); err != nil {
			return fmt.Errorf("writing raw fixture: %w", err)
		}
		log.Printf("wrote raw fixture: %s", *rawOut)
	}
	if *enrichedOut != "" {
		if err := writeJSON(*enrichedOut, enriched); err != nil {
			return fmt.Errorf("writing enriched fixture: %w", err)
		}
		log.Printf("wrote enriched fixture: %s", *enrichedOut)
	}

	printStats(enriched)
	return nil
}

// readStations parses the CSV into raw observations. Empty cells are left nil.
func readStations(path string) ([]domain.RawObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	recs := make([]domain.RawObservation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := &cellParser{row: row, idx: colIdx}
		rec := domain.RawObservation{
			StationID:        get(row, colIdx, "station_id"),
			Time:             get(row, colIdx, "time"),
			Lat:              p.float("lat"),
			Lon:              p.float("lon"),
			AirTemperature:   p.float("t2m"),
			DewPoint:         p.float("td"),
			RelativeHumidity: p.float("rh"),
			VapourPressure:   p.float("vp"),
			WindSpeed:        p.float("va"),
			WindU:            p.float("u10"),
			WindV:            p.float("v10"),
			MeanRadiant:      p.float("mrt"),
			GlobeTemperature: p.float("bgt"),
			CosSolarZenith:   p.float("cossza"),
			SolarDownward:    p.float("ssrd"),
			SolarNet:         p.float("ssr"),
			TotalSkyDirect:   p.float("fdir"),
			ThermalDownward:  p.float("strd"),
			ThermalNet:       p.float("strr"),
			DirectSolar:      p.float("dsrp"),
		}
		if acc := p.float("accumulation_seconds"); acc != nil {
			rec.AccumulationSeconds = *acc
		}
		if p.err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, p.err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// cellParser reads optional float cells and keeps the first parse error.
type cellParser struct {
	row []string
	idx map[string]int
	err error
}

func (p *cellParser) float(col string) *float64 {
	s := get(p.row, p.idx, col)
	if s == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
		return nil
	}
	return &v
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// statsResult holds aggregated counts for printStats reporting.
type statsResult struct {
	stressCounts map[string]int
	mrtSources   map[string]int
	withUTCI     int
	withChill    int
	withHeat     int
}

func collectStats(observations []domain.EnrichedObservation) statsResult {
	s := statsResult{
		stressCounts: map[string]int{},
		mrtSources:   map[string]int{},
	}
	for i := range observations {
		ti := &observations[i].Indices
		if ti.UTCI != nil {
			s.withUTCI++
			s.stressCounts[ti.UTCIStress]++
		}
		if ti.WindChill != nil {
			s.withChill++
		}
		if ti.HeatIndexAdjusted != nil {
			s.withHeat++
		}
		source := ti.MeanRadiantFrom
		if source == "" {
			source = "none"
		}
		s.mrtSources[source]++
	}
	return s
}

func printStats(observations []domain.EnrichedObservation) {
	stats := collectStats(observations)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(observations))
	fmt.Printf("With UTCI: %d, wind chill: %d, adjusted heat index: %d\n",
		stats.withUTCI, stats.withChill, stats.withHeat)

	printCounts("MRT source", stats.mrtSources)
	printCounts("UTCI stress", stats.stressCounts)

	fmt.Println("\nPer station:")
	for i := range observations {
		o := &observations[i]
		utci := "-"
		if o.Indices.UTCI != nil {
			utci = strconv.FormatFloat(*o.Indices.UTCI, 'f', -1, 64)
		}
		fmt.Printf("  %-8s utci=%s %s\n", o.Observation.StationID, utci, o.Indices.UTCIStress)
	}
}

func printCounts(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, counts[k])
	}
}
