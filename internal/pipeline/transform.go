package pipeline

import (
	"context"
	"log/slog"

	"github.com/stephleif/reproducibleresearchproj2/internal/domain"
	"github.com/stephleif/reproducibleresearchproj2/internal/observability"
)

// CategorizedRecord is a normalized damage record paired with its canonical
// category, ready to be folded into the aggregate.
type CategorizedRecord struct {
	Category string
	Record   domain.DamageRecord
}

// DamageTransformer implements Transformer using the domain normalization
// and classification functions, with an LRU memo over label classification.
type DamageTransformer struct {
	cache   *labelCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a DamageTransformer with a classification memo
// cache of the given size.
func NewTransformer(cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *DamageTransformer {
	return &DamageTransformer{
		cache:   newLabelCache(cacheSize),
		metrics: metrics,
		logger:  logger,
	}
}

// Transform parses a raw message into a categorized damage record. The
// second return value is false when the record decoded cleanly but carries
// no harm signal and should be dropped rather than aggregated.
func (t *DamageTransformer) Transform(_ context.Context, raw domain.RawEvent) (CategorizedRecord, bool, error) {
	row, err := domain.ParseRawEvent(raw)
	if err != nil {
		return CategorizedRecord{}, false, err
	}

	if n := domain.DiscardedMagnitudes(row); n > 0 {
		t.metrics.DecodeFallbacks.Add(float64(n))
	}

	rec := domain.NormalizeRecord(row)
	if !rec.HasHarm() {
		return CategorizedRecord{}, false, nil
	}

	return CategorizedRecord{Category: t.classify(rec.EventLabel), Record: rec}, true, nil
}

// classify memoizes domain.Classify through the LRU cache and records
// observability around cache behavior and rule-table misses.
func (t *DamageTransformer) classify(label string) string {
	if category, ok := t.cache.get(label); ok {
		t.metrics.ClassifierCache.WithLabelValues("hit").Inc()
		return category
	}
	t.metrics.ClassifierCache.WithLabelValues("miss").Inc()

	category := domain.Classify(label)
	if !domain.IsCanonicalCategory(category) {
		t.metrics.ClassifierFallbacks.Inc()
		t.logger.Debug("label matched no rule, using singleton category",
			"label", label, "category", category)
	}
	t.cache.put(label, category)
	return category
}
