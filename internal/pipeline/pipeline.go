package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stephleif/reproducibleresearchproj2/internal/domain"
	"github.com/stephleif/reproducibleresearchproj2/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into a categorized damage record. The
// boolean is false when the record is valid but carries no harm signal.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (CategorizedRecord, bool, error)
}

// SummaryPublisher writes a ranking snapshot to the destination.
type SummaryPublisher interface {
	Publish(ctx context.Context, summary domain.Summary) error
}

// Pipeline orchestrates the extract-transform-fold loop and periodically
// publishes ranked summary snapshots of the live aggregate.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	publisher   SummaryPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	batchSize     int
	flushInterval time.Duration
	topK          int

	mu         sync.Mutex
	aggregator *domain.Aggregator
	latest     *domain.Summary
	dirty      bool // records folded since the last snapshot

	ready atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, p SummaryPublisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, topK int) *Pipeline {
	return &Pipeline{
		extractor:     e,
		transformer:   t,
		publisher:     p,
		logger:        logger,
		metrics:       metrics,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		topK:          topK,
		aggregator:    domain.NewAggregator(),
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// summary snapshot, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published a summary yet")
	}
	return nil
}

// LatestSummary returns the most recently published snapshot, or false when
// none exists yet.
func (p *Pipeline) LatestSummary() (domain.Summary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return domain.Summary{}, false
	}
	return *p.latest, true
}

// Run executes the fold-and-publish loop until the context is cancelled. A
// final snapshot is published on shutdown if unflushed records remain.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"batch_size", p.batchSize,
		"flush_interval", p.flushInterval,
		"top_k", p.topK,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	lastFlush := time.Now()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			p.flushFinal()
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			p.flushFinal()
			return nil
		}

		if time.Since(lastFlush) >= p.flushInterval {
			if p.publishSnapshot(ctx) {
				lastFlush = time.Now()
			}
		}
	}
}

// processBatch runs one extract-transform-fold cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.RecordsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	folded := p.transformAndFold(ctx, rawBatch)
	if folded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	}
	return true
}

// transformAndFold transforms each message in the batch, folds the survivors
// into the aggregate, and commits offsets. Malformed messages are skipped
// and committed so they are not redelivered. Returns the number of records
// folded.
func (p *Pipeline) transformAndFold(ctx context.Context, rawBatch []domain.RawEvent) int {
	folded := 0
	for _, raw := range rawBatch {
		rec, ok, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		if !ok {
			p.metrics.RecordsDiscarded.Inc()
			p.commitOffset(ctx, raw)
			continue
		}

		p.mu.Lock()
		p.aggregator.Add(rec.Category, rec.Record)
		p.dirty = true
		categories := p.aggregator.Categories()
		p.mu.Unlock()

		p.metrics.Categories.Set(float64(categories))
		p.commitOffset(ctx, raw)
		folded++
	}
	return folded
}

// publishSnapshot builds a summary from the live aggregate and publishes it.
// Returns true when a snapshot was published (or nothing was pending).
func (p *Pipeline) publishSnapshot(ctx context.Context) bool {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return true
	}
	summary := domain.BuildSummary(p.aggregator.Rows(), p.aggregator.Count(), p.topK)
	p.mu.Unlock()

	if err := p.publisher.Publish(ctx, summary); err != nil {
		p.logger.Error("publish summary failed", "error", err, "snapshot_id", summary.ID)
		return false
	}

	p.mu.Lock()
	p.latest = &summary
	p.dirty = false
	p.mu.Unlock()

	p.metrics.SummariesPublished.Inc()
	p.ready.Store(true)
	p.logger.Info("summary published",
		"snapshot_id", summary.ID,
		"records", summary.Records,
		"categories", len(summary.Rankings),
		"dominant", len(summary.Dominant),
	)
	return true
}

// flushFinal publishes any unflushed records during shutdown, detached from
// the cancelled run context.
func (p *Pipeline) flushFinal() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.publishSnapshot(ctx)
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
