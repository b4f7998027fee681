package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// outboxRepositoryInMemory — in-memory реализация transactional outbox.
type outboxRepositoryInMemory struct {
	store *Store
}

// NewOutboxRepository создаёт in-memory реализацию OutboxRepository.
func NewOutboxRepository(store *Store) domain.OutboxRepository {
	return &outboxRepositoryInMemory{store: store}
}

// Enqueue сохраняет событие как pending. Участвует в снимке unit of work,
// поэтому откат транзакции убирает и событие.
func (r *outboxRepositoryInMemory) Enqueue(_ context.Context, msg domain.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.outbox[msg.ID] = outboxRow{msg: msg, status: outboxStatusPending}
	return nil
}

// PullPending возвращает до limit pending-событий в порядке создания.
func (r *outboxRepositoryInMemory) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	pending := make([]domain.OutboxMessage, 0)
	for _, row := range r.store.outbox {
		if row.status == outboxStatusPending {
			pending = append(pending, row.msg)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// Stats возвращает размер и возраст backlog-а.
func (r *outboxRepositoryInMemory) Stats(_ context.Context) (domain.OutboxStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := domain.OutboxStats{}
	var oldest time.Time
	for _, row := range r.store.outbox {
		if row.status != outboxStatusPending {
			continue
		}
		stats.PendingCount++
		if oldest.IsZero() || row.msg.CreatedAt.Before(oldest) {
			oldest = row.msg.CreatedAt
		}
	}
	stats.OldestPendingAt = oldest
	return stats, nil
}

func (r *outboxRepositoryInMemory) MarkSent(_ context.Context, id string) error {
	return r.mark(id, outboxStatusSent)
}

func (r *outboxRepositoryInMemory) MarkFailed(_ context.Context, id string) error {
	return r.mark(id, outboxStatusFailed)
}

func (r *outboxRepositoryInMemory) mark(id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.outbox[id]
	if !ok {
		return domain.NewNotFoundKey("outbox_message", id)
	}
	row.status = status
	r.store.outbox[id] = row
	return nil
}

var _ domain.OutboxRepository = (*outboxRepositoryInMemory)(nil)
