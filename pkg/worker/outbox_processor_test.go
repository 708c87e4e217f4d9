package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	if f.failed == nil {
		f.failed = make(map[uuid.UUID]string)
	}
	f.failed[id] = errorMessage
	return nil
}

type fakeBroker struct {
	published []string
	wire      [][]byte
	failures  int
}

// Publish marshals the message the same way the redis broker does, so the
// recorded wire bytes are what a subscriber would actually receive.
func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	f.published = append(f.published, channel)
	f.wire = append(f.wire, payload)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func event(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{"id":"x"}`),
		Status:    model.OutboxStatusPending,
	}
}

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(
		repo,
		broker,
		logger.New(&logger.Config{Level: "error", Output: io.Discard}),
		metrics.New("test", prometheus.NewRegistry()),
		OutboxConfig{BatchSize: 10, PollInterval: time.Second, RetryAttempts: 3, RetryDelay: time.Millisecond},
	)
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{
		event("appointment.created"),
		event("appointment.cancelled"),
	}}
	broker := &fakeBroker{}

	require.NoError(t, newProcessor(repo, broker).ProcessBatch(context.Background()))

	assert.Equal(t, []string{"appointment.created", "appointment.cancelled"}, broker.published)
	assert.Len(t, repo.processed, 2)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchPublishesStoredPayloadVerbatim(t *testing.T) {
	stored := `{"id":"x","status":"pending"}`
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{{
		ID:        uuid.New(),
		EventType: "appointment.created",
		Payload:   []byte(stored),
		Status:    model.OutboxStatusPending,
	}}}
	broker := &fakeBroker{}

	require.NoError(t, newProcessor(repo, broker).ProcessBatch(context.Background()))

	require.Len(t, broker.wire, 1)
	assert.JSONEq(t, stored, string(broker.wire[0]))
}

func TestProcessBatchRetriesTransientFailure(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event("appointment.created")}}
	broker := &fakeBroker{failures: 2}

	require.NoError(t, newProcessor(repo, broker).ProcessBatch(context.Background()))

	assert.Len(t, broker.published, 1)
	assert.Len(t, repo.processed, 1)
}

func TestProcessBatchMarksFailedAfterRetries(t *testing.T) {
	evt := event("appointment.created")
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt}}
	broker := &fakeBroker{failures: 5}

	require.NoError(t, newProcessor(repo, broker).ProcessBatch(context.Background()))

	assert.Empty(t, repo.processed)
	require.Contains(t, repo.failed, evt.ID)
	assert.Equal(t, "broker unavailable", repo.failed[evt.ID])
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for i := 0; i < 15; i++ {
		repo.pending = append(repo.pending, event("appointment.created"))
	}
	broker := &fakeBroker{}

	require.NoError(t, newProcessor(repo, broker).ProcessBatch(context.Background()))
	assert.Len(t, repo.processed, 10)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{}
	p := NewOutboxProcessor(
		repo,
		broker,
		logger.New(&logger.Config{Level: "error", Output: io.Discard}),
		metrics.New("test", prometheus.NewRegistry()),
		OutboxConfig{PollInterval: 5 * time.Millisecond},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after cancel")
	}
}
