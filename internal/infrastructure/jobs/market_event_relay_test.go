package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hgigs.backend/internal/domain/entities"
	"hgigs.backend/pkg/redis"
)

type outboxStub struct {
	events    []*entities.MarketEvent
	listErr   error
	markErr   error
	markCalls int
	marked    []uuid.UUID
}

func (s *outboxStub) ListUnpublished(_ context.Context, limit int) ([]*entities.MarketEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > 0 && len(s.events) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *outboxStub) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.markCalls++
	s.marked = append(s.marked, ids...)
	return s.markErr
}

func newEvents(n int) []*entities.MarketEvent {
	events := make([]*entities.MarketEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, &entities.MarketEvent{
			ID:      uuid.New(),
			Type:    entities.MarketEventOrderPaid,
			OrderID: uint64(i + 1),
			Actor:   common.HexToAddress("0x00000000000000000000000000000000000000b1"),
			Amount:  "10",
		})
	}
	return events
}

func stubPublish(t *testing.T, fn func(ctx context.Context, channel string, message []byte) error) {
	t.Helper()
	orig := publishMessage
	t.Cleanup(func() { publishMessage = orig })
	publishMessage = fn
}

func newTestJob(outbox marketEventOutbox) *MarketEventRelayJob {
	job := NewMarketEventRelayJob(outbox, "market-events", time.Millisecond)
	job.maxElapsedTime = 50 * time.Millisecond
	return job
}

func TestRelayPending_NoEvents(t *testing.T) {
	outbox := &outboxStub{}
	job := newTestJob(outbox)

	require.Equal(t, 0, job.relayPending(context.Background()))
	require.Equal(t, 0, outbox.markCalls)
}

func TestRelayPending_ListError(t *testing.T) {
	outbox := &outboxStub{listErr: errors.New("db down")}
	job := newTestJob(outbox)

	require.Equal(t, 0, job.relayPending(context.Background()))
	require.Equal(t, 0, outbox.markCalls)
}

func TestRelayPending_PublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })
	redis.SetClient(cli)

	ctx := context.Background()
	sub := cli.Subscribe(ctx, "market-events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	events := newEvents(2)
	outbox := &outboxStub{events: events}
	job := newTestJob(outbox)

	require.Equal(t, 2, job.relayPending(ctx))
	require.ElementsMatch(t, []uuid.UUID{events[0].ID, events[1].ID}, outbox.marked)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var got entities.MarketEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, events[0].ID, got.ID)
	assert.Equal(t, entities.MarketEventOrderPaid, got.Type)
}

func TestRelayPending_RetriesTransientFailures(t *testing.T) {
	calls := 0
	stubPublish(t, func(context.Context, string, []byte) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	outbox := &outboxStub{events: newEvents(1)}
	job := newTestJob(outbox)
	job.maxElapsedTime = 5 * time.Second

	require.Equal(t, 1, job.relayPending(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestRelayPending_StopsAtFirstPersistentFailure(t *testing.T) {
	events := newEvents(3)
	stubPublish(t, func(_ context.Context, _ string, message []byte) error {
		var e entities.MarketEvent
		_ = json.Unmarshal(message, &e)
		if e.ID == events[1].ID {
			return errors.New("broker rejected")
		}
		return nil
	})

	outbox := &outboxStub{events: events}
	job := newTestJob(outbox)

	require.Equal(t, 1, job.relayPending(context.Background()))
	require.Equal(t, []uuid.UUID{events[0].ID}, outbox.marked)
}

func TestRelayPending_MarkError(t *testing.T) {
	stubPublish(t, func(context.Context, string, []byte) error { return nil })
	outbox := &outboxStub{events: newEvents(1), markErr: errors.New("db down")}
	job := newTestJob(outbox)

	require.Equal(t, 0, job.relayPending(context.Background()))
	require.Equal(t, 1, outbox.markCalls)
}

func TestMarketEventRelayJob_StartStop(t *testing.T) {
	stubPublish(t, func(context.Context, string, []byte) error { return nil })
	outbox := &outboxStub{}
	job := newTestJob(outbox)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	job.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestMarketEventRelayJob_StopsOnContextCancel(t *testing.T) {
	job := newTestJob(&outboxStub{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestNewMarketEventRelayJob_DefaultInterval(t *testing.T) {
	job := NewMarketEventRelayJob(&outboxStub{}, "c", 0)
	assert.Equal(t, defaultRelayInterval, job.interval)
	assert.Equal(t, defaultRelayBatchSize, job.batchSize)
}
