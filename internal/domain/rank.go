package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RankedRow is an AggregateRow plus each metric's share of the working set
// total. A nil share means the metric summed to zero across the denominator
// set, so the share is undefined; callers must check before display instead
// of reading it as "no contribution".
type RankedRow struct {
	AggregateRow
	FatalityShare *float64 `json:"fatality_share"`
	InjuryShare   *float64 `json:"injury_share"`
	PropertyShare *float64 `json:"property_share"`
	CropShare     *float64 `json:"crop_share"`
}

// Floors holds the per-metric inclusive dominance thresholds.
type Floors map[Metric]float64

// TopKFloor returns the value of the K-th largest entry for the metric, used
// as an inclusive threshold for dominant-category selection. With fewer than
// k rows the smallest value present is the floor; an empty row set or k <= 0
// yields 0.
func TopKFloor(rows []AggregateRow, metric Metric, k int) float64 {
	if len(rows) == 0 || k <= 0 {
		return 0
	}
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.MetricValue(metric)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if k > len(values) {
		k = len(values)
	}
	return values[k-1]
}

// TopKFloors computes the floor of every metric over the same row set.
func TopKFloors(rows []AggregateRow, k int) Floors {
	floors := make(Floors, len(Metrics))
	for _, m := range Metrics {
		floors[m] = TopKFloor(rows, m, k)
	}
	return floors
}

// FilterDominant returns the rows whose value for at least one metric meets
// or exceeds that metric's floor. The floor is inclusive, so ties at the
// boundary are kept and the result may hold more than K rows per metric; the
// union across metrics is the dominant working set. Relative row order is
// preserved.
func FilterDominant(rows []AggregateRow, floors Floors) []AggregateRow {
	dominant := make([]AggregateRow, 0, len(rows))
	for _, row := range rows {
		for _, m := range Metrics {
			if row.MetricValue(m) >= floors[m] && row.MetricValue(m) > 0 {
				dominant = append(dominant, row)
				break
			}
		}
	}
	return dominant
}

// Percentages converts absolute sums into shares of each metric's total over
// the rows passed in. The caller chooses the denominator set: pass the full
// aggregate table for global shares, or an already-filtered subset for
// shares within the dominant set. Metrics totalling zero produce nil shares
// for every row.
func Percentages(rows []AggregateRow) []RankedRow {
	totals := make(map[Metric]float64, len(Metrics))
	for _, row := range rows {
		for _, m := range Metrics {
			totals[m] += row.MetricValue(m)
		}
	}

	ranked := make([]RankedRow, len(rows))
	for i, row := range rows {
		ranked[i] = RankedRow{
			AggregateRow:  row,
			FatalityShare: share(row, MetricFatalities, totals),
			InjuryShare:   share(row, MetricInjuries, totals),
			PropertyShare: share(row, MetricPropertyDamage, totals),
			CropShare:     share(row, MetricCropDamage, totals),
		}
	}
	return ranked
}

func share(row AggregateRow, m Metric, totals map[Metric]float64) *float64 {
	if totals[m] == 0 {
		return nil
	}
	s := row.MetricValue(m) / totals[m]
	return &s
}

// Summary is the externally observable ranking snapshot: the full ranked
// table plus the threshold-filtered dominant subset. Shares in both tables
// use the full category set as denominator, so a dominant row's share reads
// as "of all recorded harm", not "of harm among dominant categories"; the
// numerator set legitimately differs from the denominator set.
type Summary struct {
	ID          string      `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Records     int64       `json:"records"`
	TopK        int         `json:"top_k"`
	Rankings    []RankedRow `json:"rankings"`
	Dominant    []RankedRow `json:"dominant"`
}

// BuildSummary ranks the aggregate table: computes shares over the full row
// set, derives top-K floors per metric, and extracts the dominant subset.
// The snapshot timestamp comes from the package clock so tests can freeze it.
func BuildSummary(rows []AggregateRow, records int64, k int) Summary {
	ranked := Percentages(rows)
	floors := TopKFloors(rows, k)

	dominantSet := make(map[string]bool)
	for _, row := range FilterDominant(rows, floors) {
		dominantSet[row.Category] = true
	}
	dominant := make([]RankedRow, 0, len(dominantSet))
	for _, row := range ranked {
		if dominantSet[row.Category] {
			dominant = append(dominant, row)
		}
	}

	return Summary{
		ID:          uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
		Records:     records,
		TopK:        k,
		Rankings:    ranked,
		Dominant:    dominant,
	}
}
