package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/internal/infrastructure/metrics"
	"hgigs.backend/pkg/logger"
	"hgigs.backend/pkg/redis"
)

const (
	defaultRelayInterval  = 2 * time.Second
	defaultRelayBatchSize = 100
)

// marketEventOutbox is the part of the event store the relay needs
type marketEventOutbox interface {
	ListUnpublished(ctx context.Context, limit int) ([]*entities.MarketEvent, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

var publishMessage = func(ctx context.Context, channel string, message []byte) error {
	return redis.Publish(ctx, channel, message)
}

// MarketEventRelayJob publishes stored market events to a Redis channel in creation order
type MarketEventRelayJob struct {
	outbox         marketEventOutbox
	channel        string
	interval       time.Duration
	batchSize      int
	maxElapsedTime time.Duration
	stop           chan struct{}
}

func NewMarketEventRelayJob(outbox marketEventOutbox, channel string, interval time.Duration) *MarketEventRelayJob {
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	return &MarketEventRelayJob{
		outbox:         outbox,
		channel:        channel,
		interval:       interval,
		batchSize:      defaultRelayBatchSize,
		maxElapsedTime: 30 * time.Second,
		stop:           make(chan struct{}),
	}
}

func (j *MarketEventRelayJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting market event relay", zap.String("channel", j.channel), zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Market event relay stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Market event relay stopped")
			return
		case <-ticker.C:
			j.relayPending(ctx)
		}
	}
}

func (j *MarketEventRelayJob) Stop() {
	close(j.stop)
}

// relayPending publishes one batch. Publication stops at the first event that still fails
// after retries so that ordering is kept; the rest are picked up on the next tick.
func (j *MarketEventRelayJob) relayPending(ctx context.Context) int {
	events, err := j.outbox.ListUnpublished(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "Failed to load unpublished market events", zap.Error(err))
		return 0
	}
	if len(events) == 0 {
		return 0
	}

	published := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		if err := j.publish(ctx, event); err != nil {
			metrics.EventsPublished.WithLabelValues("error").Inc()
			logger.Error(ctx, "Failed to publish market event",
				zap.String("event_id", event.ID.String()),
				zap.String("type", string(event.Type)),
				zap.Error(err),
			)
			break
		}
		metrics.EventsPublished.WithLabelValues("ok").Inc()
		published = append(published, event.ID)
	}

	if len(published) == 0 {
		return 0
	}
	if err := j.outbox.MarkPublished(ctx, published); err != nil {
		logger.Error(ctx, "Failed to mark market events published", zap.Int("count", len(published)), zap.Error(err))
		return 0
	}

	logger.Debug(ctx, "Relayed market events", zap.Int("count", len(published)))
	return len(published)
}

func (j *MarketEventRelayJob) publish(ctx context.Context, event *entities.MarketEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = j.maxElapsedTime

	return backoff.RetryNotify(func() error {
		return publishMessage(ctx, j.channel, payload)
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn(ctx, "Retrying market event publication",
			zap.String("event_id", event.ID.String()),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}
