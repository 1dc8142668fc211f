package outbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parlaybook/engine/internal/infra"
	"github.com/parlaybook/engine/internal/repository"
)

// Publisher is the slice of the Kafka producer the relay needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Relay moves committed outbox events to the broker. Events that reach the
// broker before the delete are at-least-once delivery; consumers dedupe on
// event_id.
type Relay struct {
	repo      repository.OutboxRepository
	publisher Publisher
	topic     string
	batchSize int
	metrics   *infra.Metrics
	logger    *slog.Logger
}

// NewRelay creates an outbox relay.
func NewRelay(repo repository.OutboxRepository, publisher Publisher, topic string, batchSize int, metrics *infra.Metrics, logger *slog.Logger) *Relay {
	return &Relay{repo: repo, publisher: publisher, topic: topic, batchSize: batchSize, metrics: metrics, logger: logger}
}

// Drain publishes one batch of pending events in sequence order. A publish
// failure stops the batch; already-published rows are still deleted so the
// retry resumes at the failed event.
func (r *Relay) Drain(ctx context.Context, db repository.DBTX) error {
	rows, err := r.repo.FetchUnpublished(ctx, db, r.batchSize)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(rows))
	var publishErr error
	for _, row := range rows {
		if err := r.publisher.Publish(ctx, r.topic, []byte(row.PartitionKey), row.Payload); err != nil {
			r.metrics.OutboxPublishFails.Inc()
			publishErr = fmt.Errorf("publish %s: %w", row.EventID, err)
			break
		}
		r.metrics.OutboxPublished.Inc()
		ids = append(ids, row.SeqID)
	}

	if len(ids) > 0 {
		if err := r.repo.MarkPublished(ctx, db, ids); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}
		r.logger.Info("outbox batch published",
			slog.Int("count", len(ids)),
			slog.Int64("head_seq", ids[0]),
			slog.Int64("tail_seq", ids[len(ids)-1]),
		)
	}
	return publishErr
}
