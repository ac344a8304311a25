package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Add(t *testing.T) {
	agg := NewAggregator()
	agg.Add(CategoryTornado, DamageRecord{Fatalities: 5, PropertyDamage: 10000})
	agg.Add(CategoryTornado, DamageRecord{Injuries: 3, PropertyDamage: 2500})
	agg.Add(CategoryFlood, DamageRecord{Injuries: 2, CropDamage: 1000})

	require.Equal(t, 2, agg.Categories())
	require.Equal(t, int64(3), agg.Count())

	rows := agg.Rows()
	require.Len(t, rows, 2)

	// Tornado sorts first on fatalities.
	assert.Equal(t, CategoryTornado, rows[0].Category)
	assert.Equal(t, 5.0, rows[0].Fatalities)
	assert.Equal(t, 3.0, rows[0].Injuries)
	assert.Equal(t, 12500.0, rows[0].PropertyDamage)
	assert.Equal(t, 0.0, rows[0].CropDamage)

	assert.Equal(t, CategoryFlood, rows[1].Category)
	assert.Equal(t, 1000.0, rows[1].CropDamage)
}

func TestAggregator_Empty(t *testing.T) {
	agg := NewAggregator()
	assert.Empty(t, agg.Rows())
	assert.Equal(t, int64(0), agg.Count())
	assert.Equal(t, 0, agg.Categories())
}

// The fold is commutative: shuffling the input does not change the sums.
func TestAggregator_OrderIndependent(t *testing.T) {
	records := make([]DamageRecord, 0, 100)
	categories := make([]string, 0, 100)
	rng := rand.New(rand.NewSource(42))
	cats := []string{CategoryTornado, CategoryFlood, CategoryHeat, CategoryWind}
	for i := 0; i < 100; i++ {
		records = append(records, DamageRecord{
			Fatalities:     float64(rng.Intn(5)),
			Injuries:       float64(rng.Intn(20)),
			PropertyDamage: float64(rng.Intn(100000)),
			CropDamage:     float64(rng.Intn(5000)),
		})
		categories = append(categories, cats[rng.Intn(len(cats))])
	}

	ordered := NewAggregator()
	for i, rec := range records {
		ordered.Add(categories[i], rec)
	}

	shuffled := NewAggregator()
	perm := rng.Perm(len(records))
	for _, i := range perm {
		shuffled.Add(categories[i], records[i])
	}

	assert.Equal(t, ordered.Rows(), shuffled.Rows())
}

// Sharded aggregation merged shard-by-shard matches a single sequential fold.
func TestAggregator_Merge(t *testing.T) {
	recs := []struct {
		category string
		rec      DamageRecord
	}{
		{CategoryTornado, DamageRecord{Fatalities: 2, PropertyDamage: 500}},
		{CategoryFlood, DamageRecord{Injuries: 4, CropDamage: 300}},
		{CategoryTornado, DamageRecord{Fatalities: 1, Injuries: 7}},
		{CategoryHeat, DamageRecord{Fatalities: 9}},
	}

	sequential := NewAggregator()
	for _, r := range recs {
		sequential.Add(r.category, r.rec)
	}

	shardA, shardB := NewAggregator(), NewAggregator()
	shardA.Add(recs[0].category, recs[0].rec)
	shardA.Add(recs[1].category, recs[1].rec)
	shardB.Add(recs[2].category, recs[2].rec)
	shardB.Add(recs[3].category, recs[3].rec)

	merged := NewAggregator()
	merged.Merge(shardA)
	merged.Merge(shardB)

	assert.Equal(t, sequential.Rows(), merged.Rows())
	assert.Equal(t, sequential.Count(), merged.Count())
}

func TestAggregateRow_MetricValue(t *testing.T) {
	row := AggregateRow{Fatalities: 1, Injuries: 2, PropertyDamage: 3, CropDamage: 4}
	assert.Equal(t, 1.0, row.MetricValue(MetricFatalities))
	assert.Equal(t, 2.0, row.MetricValue(MetricInjuries))
	assert.Equal(t, 3.0, row.MetricValue(MetricPropertyDamage))
	assert.Equal(t, 4.0, row.MetricValue(MetricCropDamage))
	assert.Equal(t, 0.0, row.MetricValue(Metric(99)))
}
