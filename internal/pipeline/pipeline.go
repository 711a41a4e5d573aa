package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into an enriched observation.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.EnrichedObservation, error)
}

// BatchLoader writes enriched observations to the destination. dropped counts
// the observations it could not serialize; those are not written and will not
// succeed on a retry either.
type BatchLoader interface {
	LoadBatch(ctx context.Context, observations []domain.EnrichedObservation) (dropped int, err error)
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline moves observations from the source topic through index enrichment
// to the sink topic.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness reports ready once at least one enriched observation has
// reached the sink.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no enriched observation has been produced yet")
	}
	return nil
}

// Run processes batches until the context is cancelled. A failed extract or
// load is retried with exponential backoff, reset by the next clean cycle.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		err := p.step(ctx)
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		if err == nil {
			backoff = initialBackoff
			continue
		}

		p.logger.Error("batch failed", "error", err, "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

// step runs one extract, enrich, load and commit cycle. On error nothing
// past the enrichment stage has been committed, so the batch is redelivered.
func (p *Pipeline) step(ctx context.Context) error {
	start := time.Now()

	events, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if len(events) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(events)))
	p.metrics.BatchSize.Observe(float64(len(events)))

	enriched, accepted := p.enrich(ctx, events)
	if len(enriched) == 0 {
		return nil
	}

	dropped, err := p.loader.LoadBatch(ctx, enriched)
	if err != nil {
		return fmt.Errorf("load %d observations: %w", len(enriched), err)
	}
	produced := len(enriched) - dropped
	p.metrics.EncodeErrors.Add(float64(dropped))
	p.metrics.MessagesProduced.Add(float64(produced))

	// Dropped observations are committed with the rest; redelivery would
	// produce the same unencodable result.
	for _, ev := range accepted {
		p.commit(ctx, ev)
	}

	if produced > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return nil
}

// enrich transforms each event, returning the enriched observations alongside
// the events they came from. Events that fail to transform are committed
// immediately so a malformed payload is not redelivered.
func (p *Pipeline) enrich(ctx context.Context, events []domain.RawEvent) ([]domain.EnrichedObservation, []domain.RawEvent) {
	enriched := make([]domain.EnrichedObservation, 0, len(events))
	accepted := make([]domain.RawEvent, 0, len(events))

	for _, ev := range events {
		obs, err := p.transformer.Transform(ctx, ev)
		if err != nil {
			p.logger.Warn("skipping observation",
				"error", err,
				"key", string(ev.Key),
				"partition", ev.Partition,
				"offset", ev.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, ev)
			continue
		}
		enriched = append(enriched, obs)
		accepted = append(accepted, ev)
	}
	return enriched, accepted
}

func (p *Pipeline) commit(ctx context.Context, ev domain.RawEvent) {
	if ev.Commit == nil {
		return
	}
	if err := ev.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", ev.Topic, "partition", ev.Partition, "offset", ev.Offset)
	}
}
