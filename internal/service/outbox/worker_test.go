package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	outboxsvc "github.com/vladislavdragonenkov/resto/internal/service/outbox"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
)

// stubPublisher считает вызовы и падает заданное число раз.
type stubPublisher struct {
	mu        sync.Mutex
	published []domain.OutboxMessage
	failTimes int
	calls     int
}

func (p *stubPublisher) Publish(msg domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failTimes {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, msg)
	return nil
}

func enqueue(t *testing.T, repo domain.OutboxRepository, eventType string, createdAt time.Time) domain.OutboxMessage {
	t.Helper()
	msg := domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: "order",
		AggregateID:   uuid.NewString(),
		EventType:     eventType,
		Payload:       []byte(`{}`),
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.Enqueue(context.Background(), msg))
	return msg
}

func TestWorker_PublishesPendingAndMarksSent(t *testing.T) {
	repo := memory.NewOutboxRepository(memory.NewStore())
	publisher := &stubPublisher{}
	worker := outboxsvc.NewWorker(repo, publisher, outboxsvc.WithRetryBaseDelay(0))

	msg := enqueue(t, repo, "order.created", time.Now().UTC())
	worker.ProcessOnce(context.Background())

	require.Len(t, publisher.published, 1)
	require.Equal(t, msg.ID, publisher.published[0].ID)

	pending, err := repo.PullPending(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestWorker_RetriesTransientFailure(t *testing.T) {
	repo := memory.NewOutboxRepository(memory.NewStore())
	publisher := &stubPublisher{failTimes: 2}
	worker := outboxsvc.NewWorker(repo, publisher,
		outboxsvc.WithMaxAttempts(3), outboxsvc.WithRetryBaseDelay(0))

	enqueue(t, repo, "order.created", time.Now().UTC())
	worker.ProcessOnce(context.Background())

	require.Len(t, publisher.published, 1)
	require.Equal(t, 3, publisher.calls)
}

func TestWorker_MarksFailedAfterExhaustedRetries(t *testing.T) {
	repo := memory.NewOutboxRepository(memory.NewStore())
	publisher := &stubPublisher{failTimes: 100}
	worker := outboxsvc.NewWorker(repo, publisher,
		outboxsvc.WithMaxAttempts(2), outboxsvc.WithRetryBaseDelay(0))

	enqueue(t, repo, "order.created", time.Now().UTC())
	worker.ProcessOnce(context.Background())

	require.Empty(t, publisher.published)

	// Сообщение помечено failed и не возвращается в pending.
	pending, err := repo.PullPending(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestWorker_PreservesCreationOrder(t *testing.T) {
	repo := memory.NewOutboxRepository(memory.NewStore())
	publisher := &stubPublisher{}
	worker := outboxsvc.NewWorker(repo, publisher, outboxsvc.WithRetryBaseDelay(0))

	base := time.Now().UTC()
	first := enqueue(t, repo, "order.created", base)
	second := enqueue(t, repo, "order.updated", base.Add(time.Second))

	worker.ProcessOnce(context.Background())

	require.Len(t, publisher.published, 2)
	require.Equal(t, first.ID, publisher.published[0].ID)
	require.Equal(t, second.ID, publisher.published[1].ID)
}
