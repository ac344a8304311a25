// Command analyze reads a NOAA storm database CSV and produces a ranked
// harm summary offline, using the same domain package as the streaming
// service. Useful for validating a snapshot against the historical dataset
// and for generating ranking fixtures.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -csv data/repdata_StormData.csv \
//	  -out data/rankings.json \
//	  -top-k 10
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/stephleif/reproducibleresearchproj2/internal/domain"
)

// columns holds the CSV column indexes the analysis needs, resolved from the
// header row so column order and extra columns don't matter.
type columns struct {
	evtype     int
	fatalities int
	injuries   int
	propDmg    int
	propExp    int
	cropDmg    int
	cropExp    int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the NOAA storm database CSV")
	outPath := flag.String("out", "", "output path for the ranked summary JSON (optional)")
	topK := flag.Int("top-k", 10, "leading categories per metric anchoring the dominance threshold")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}
	if *topK <= 0 {
		return fmt.Errorf("-top-k must be positive")
	}

	agg, skipped, err := aggregateCSV(*csvPath)
	if err != nil {
		return err
	}
	log.Printf("aggregated %d records across %d categories (%d harmless rows skipped)",
		agg.Count(), agg.Categories(), skipped)

	summary := domain.BuildSummary(agg.Rows(), agg.Count(), *topK)

	if *outPath != "" {
		if err := writeSummary(*outPath, summary); err != nil {
			return err
		}
		log.Printf("wrote %s", *outPath)
	}

	printSummary(os.Stdout, summary)
	return nil
}

// aggregateCSV streams the CSV row by row, folding every harmful record into
// an aggregate. Returns the aggregate and the number of harmless rows skipped.
func aggregateCSV(path string) (*domain.Aggregator, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // the NOAA dump has ragged remark columns

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, 0, err
	}

	agg := domain.NewAggregator()
	skipped := 0
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}

		rec := domain.NormalizeRecord(rowToRecord(row, cols))
		if !rec.HasHarm() {
			skipped++
			continue
		}
		agg.Add(domain.Classify(rec.EventLabel), rec)
	}
	return agg, skipped, nil
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	cols := columns{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{"EVTYPE", &cols.evtype},
		{"FATALITIES", &cols.fatalities},
		{"INJURIES", &cols.injuries},
		{"PROPDMG", &cols.propDmg},
		{"PROPDMGEXP", &cols.propExp},
		{"CROPDMG", &cols.cropDmg},
		{"CROPDMGEXP", &cols.cropExp},
	} {
		i, ok := index[want.name]
		if !ok {
			return columns{}, fmt.Errorf("CSV header missing column %s", want.name)
		}
		*want.dst = i
	}
	return cols, nil
}

func rowToRecord(row []string, cols columns) domain.RawDamageRecord {
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return domain.RawDamageRecord{
		EventType:        field(cols.evtype),
		Fatalities:       field(cols.fatalities),
		Injuries:         field(cols.injuries),
		PropertyDamage:   field(cols.propDmg),
		PropertyExponent: field(cols.propExp),
		CropDamage:       field(cols.cropDmg),
		CropExponent:     field(cols.cropExp),
	}
}

func writeSummary(path string, summary domain.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// printSummary writes the dominant categories as an aligned text table, with
// shares rendered as percentages and undefined shares as a dash.
func printSummary(w io.Writer, summary domain.Summary) {
	fmt.Fprintf(w, "\nDominant categories (top %d per metric, ties included):\n\n", summary.TopK)
	fmt.Fprintf(w, "  %-24s %12s %12s %16s %16s\n",
		"CATEGORY", "FATALITIES", "INJURIES", "PROPERTY ($)", "CROP ($)")

	for _, row := range summary.Dominant {
		fmt.Fprintf(w, "  %-24s %5.0f (%s) %5.0f (%s) %9.0f (%s) %9.0f (%s)\n",
			row.Category,
			row.Fatalities, pct(row.FatalityShare),
			row.Injuries, pct(row.InjuryShare),
			row.PropertyDamage, pct(row.PropertyShare),
			row.CropDamage, pct(row.CropShare),
		)
	}
	fmt.Fprintf(w, "\n%d categories total, %d records analyzed\n",
		len(summary.Rankings), summary.Records)
}

// pct formats a share pointer as a percentage, or a dash when the share is
// undefined because the metric summed to zero.
func pct(share *float64) string {
	if share == nil {
		return "   -  "
	}
	return fmt.Sprintf("%5.1f%%", *share*100)
}
