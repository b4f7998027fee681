package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// timelineRepositoryInMemory хранит события жизненного цикла заказов в памяти.
type timelineRepositoryInMemory struct {
	store *Store
}

// NewTimelineRepository создаёт in-memory реализацию TimelineRepository.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepositoryInMemory{store: store}
}

// Append добавляет событие в таймлайн заказа.
func (r *timelineRepositoryInMemory) Append(_ context.Context, event domain.TimelineEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := event.OrderID.UUID()
	r.store.timeline[key] = append(r.store.timeline[key], event)
	sort.SliceStable(r.store.timeline[key], func(i, j int) bool {
		return r.store.timeline[key][i].Occurred.Before(r.store.timeline[key][j].Occurred)
	})
	return nil
}

// List возвращает события заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(_ context.Context, orderID domain.EntityID) ([]domain.TimelineEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := r.store.timeline[orderID.UUID()]
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
