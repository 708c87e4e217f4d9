package worker

import (
	"context"
	"time"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/messaging"
	"github.com/meddesk/clinic-api/pkg/metrics"
)

// OutboxProcessor polls pending outbox events and publishes them to the
// broker. Events that fail after the configured retries are marked failed
// and left for operator inspection.
type OutboxProcessor struct {
	repo          repository.OutboxRepository
	broker        messaging.Broker
	logger        *logger.Logger
	metrics       *metrics.Metrics
	batchSize     int
	pollInterval  time.Duration
	retryAttempts int
	retryDelay    time.Duration
}

type OutboxConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, log *logger.Logger, m *metrics.Metrics, cfg OutboxConfig) *OutboxProcessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	return &OutboxProcessor{
		repo:          repo,
		broker:        broker,
		logger:        log,
		metrics:       m,
		batchSize:     cfg.BatchSize,
		pollInterval:  cfg.PollInterval,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}
}

// Run polls until the context is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) error {
	start := time.Now()
	events, err := p.repo.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := p.process(ctx, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error(markErr, "failed to mark outbox event", "event_id", event.ID.String())
			}
			continue
		}
		p.metrics.OutboxEventsProcessed.Inc()
		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark outbox event processed", "event_id", event.ID.String())
		}
	}

	if len(events) > 0 {
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
		p.logger.Debug("outbox batch processed", "count", len(events))
	}
	return nil
}

func (p *OutboxProcessor) process(ctx context.Context, event *model.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < p.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}
		// Payload stays a json.RawMessage so the broker marshals the stored
		// JSON object itself, not a base64 string.
		if err = p.broker.Publish(ctx, event.EventType, event.Payload); err == nil {
			return nil
		}
	}
	return err
}
