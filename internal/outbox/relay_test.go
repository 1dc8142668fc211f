package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/infra"
	"github.com/parlaybook/engine/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOutboxRepo struct {
	rows    []repository.OutboxRow
	deleted []int64
}

func (s *stubOutboxRepo) Insert(ctx context.Context, db repository.DBTX, draft domain.OutboxDraft) error {
	return nil
}

func (s *stubOutboxRepo) FetchUnpublished(ctx context.Context, db repository.DBTX, limit int) ([]repository.OutboxRow, error) {
	if limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, db repository.DBTX, ids []int64) error {
	s.deleted = append(s.deleted, ids...)
	remaining := s.rows[:0]
	for _, row := range s.rows {
		kept := true
		for _, id := range ids {
			if row.SeqID == id {
				kept = false
				break
			}
		}
		if kept {
			remaining = append(remaining, row)
		}
	}
	s.rows = remaining
	return nil
}

type stubPublisher struct {
	failAfter int
	published int
}

func (p *stubPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	if p.failAfter >= 0 && p.published >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published++
	return nil
}

func outboxRows(n int) []repository.OutboxRow {
	rows := make([]repository.OutboxRow, n)
	for i := range rows {
		rows[i] = repository.OutboxRow{
			SeqID: int64(i + 1),
			OutboxDraft: domain.OutboxDraft{
				EventID:      uuid.New(),
				PartitionKey: "slip-1",
				Payload:      []byte(`{}`),
			},
		}
	}
	return rows
}

func newTestRelay(repo *stubOutboxRepo, pub *stubPublisher) *Relay {
	metrics := infra.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRelay(repo, pub, "events", 100, metrics, logger)
}

func TestDrain_PublishesBatchAndCountsEvents(t *testing.T) {
	repo := &stubOutboxRepo{rows: outboxRows(3)}
	pub := &stubPublisher{failAfter: -1}
	relay := newTestRelay(repo, pub)

	require.NoError(t, relay.Drain(context.Background(), nil))

	assert.Equal(t, 3, pub.published)
	assert.Equal(t, []int64{1, 2, 3}, repo.deleted)
	assert.Empty(t, repo.rows)
	assert.Equal(t, float64(3), testutil.ToFloat64(relay.metrics.OutboxPublished))
	assert.Equal(t, float64(0), testutil.ToFloat64(relay.metrics.OutboxPublishFails))
}

func TestDrain_FailureKeepsUnpublishedTail(t *testing.T) {
	repo := &stubOutboxRepo{rows: outboxRows(3)}
	pub := &stubPublisher{failAfter: 2}
	relay := newTestRelay(repo, pub)

	err := relay.Drain(context.Background(), nil)
	require.Error(t, err)

	// The two delivered events are deleted; the failed one stays for retry.
	assert.Equal(t, []int64{1, 2}, repo.deleted)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, int64(3), repo.rows[0].SeqID)
	assert.Equal(t, float64(2), testutil.ToFloat64(relay.metrics.OutboxPublished))
	assert.Equal(t, float64(1), testutil.ToFloat64(relay.metrics.OutboxPublishFails))
}

func TestDrain_EmptyOutboxIsNoOp(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{failAfter: -1}
	relay := newTestRelay(repo, pub)

	require.NoError(t, relay.Drain(context.Background(), nil))
	assert.Zero(t, pub.published)
	assert.Empty(t, repo.deleted)
}
