package domain

import "sort"

// Metric identifies one of the four harm metrics tracked per category.
type Metric int

const (
	MetricFatalities Metric = iota
	MetricInjuries
	MetricPropertyDamage
	MetricCropDamage
)

// Metrics lists all harm metrics in display order.
var Metrics = [...]Metric{MetricFatalities, MetricInjuries, MetricPropertyDamage, MetricCropDamage}

func (m Metric) String() string {
	switch m {
	case MetricFatalities:
		return "fatalities"
	case MetricInjuries:
		return "injuries"
	case MetricPropertyDamage:
		return "property_damage"
	case MetricCropDamage:
		return "crop_damage"
	default:
		return "unknown"
	}
}

// AggregateRow holds the per-category sums of the four harm metrics.
type AggregateRow struct {
	Category       string  `json:"category"`
	Fatalities     float64 `json:"fatalities"`
	Injuries       float64 `json:"injuries"`
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
}

// MetricValue returns the row's sum for the given metric.
func (r AggregateRow) MetricValue(m Metric) float64 {
	switch m {
	case MetricFatalities:
		return r.Fatalities
	case MetricInjuries:
		return r.Injuries
	case MetricPropertyDamage:
		return r.PropertyDamage
	case MetricCropDamage:
		return r.CropDamage
	default:
		return 0
	}
}

// Aggregator folds categorized damage records into per-category metric sums.
// The fold is commutative and associative: input order does not affect the
// result, and partial aggregates built on separate shards combine via Merge.
// The zero value is not usable; construct with NewAggregator.
type Aggregator struct {
	rows map[string]*AggregateRow
	n    int64
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{rows: make(map[string]*AggregateRow)}
}

// Add folds one record into the category's sums.
func (a *Aggregator) Add(category string, rec DamageRecord) {
	row, ok := a.rows[category]
	if !ok {
		row = &AggregateRow{Category: category}
		a.rows[category] = row
	}
	row.Fatalities += rec.Fatalities
	row.Injuries += rec.Injuries
	row.PropertyDamage += rec.PropertyDamage
	row.CropDamage += rec.CropDamage
	a.n++
}

// Merge folds another aggregator's sums into this one, summing rows that
// share a category. The other aggregator is left unchanged.
func (a *Aggregator) Merge(other *Aggregator) {
	for cat, src := range other.rows {
		row, ok := a.rows[cat]
		if !ok {
			copied := *src
			a.rows[cat] = &copied
			continue
		}
		row.Fatalities += src.Fatalities
		row.Injuries += src.Injuries
		row.PropertyDamage += src.PropertyDamage
		row.CropDamage += src.CropDamage
	}
	a.n += other.n
}

// Count returns the number of records folded in.
func (a *Aggregator) Count() int64 { return a.n }

// Categories returns the number of distinct categories seen.
func (a *Aggregator) Categories() int { return len(a.rows) }

// Rows returns the aggregate table ordered by fatalities descending, with
// injuries, property damage, crop damage, and finally category name as
// tie-breakers. Sorting makes the output deterministic for snapshots and
// tests; the sums themselves are order-independent.
func (a *Aggregator) Rows() []AggregateRow {
	rows := make([]AggregateRow, 0, len(a.rows))
	for _, row := range a.rows {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Fatalities != rows[j].Fatalities {
			return rows[i].Fatalities > rows[j].Fatalities
		}
		if rows[i].Injuries != rows[j].Injuries {
			return rows[i].Injuries > rows[j].Injuries
		}
		if rows[i].PropertyDamage != rows[j].PropertyDamage {
			return rows[i].PropertyDamage > rows[j].PropertyDamage
		}
		if rows[i].CropDamage != rows[j].CropDamage {
			return rows[i].CropDamage > rows[j].CropDamage
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
