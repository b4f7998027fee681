package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Заказ возвращается без позиций; их состав гидрирует сервисный слой
// через ProductSaleRepository.GetAllByOrderID.
type orderRepositoryInMemory struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store}
}

func orderToRow(order *domain.Order) orderRow {
	return orderRow{
		id:      order.ID().UUID(),
		number:  order.Number(),
		created: order.Created(),
		price:   order.Price(),
		email:   order.Email(),
		note:    order.Note(),
	}
}

func (r *orderRepositoryInMemory) Add(_ context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.orders[order.ID().UUID()] = orderToRow(order)
	return nil
}

func (r *orderRepositoryInMemory) Update(_ context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[order.ID().UUID()]; !ok {
		return domain.NewNotFound("order", order.ID())
	}
	r.store.orders[order.ID().UUID()] = orderToRow(order)
	return nil
}

func (r *orderRepositoryInMemory) Delete(_ context.Context, id domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[id.UUID()]; !ok {
		return domain.NewNotFound("order", id)
	}
	delete(r.store.orders, id.UUID())
	return nil
}

func (r *orderRepositoryInMemory) GetByID(_ context.Context, id domain.EntityID) (*domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.orders[id.UUID()]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	return restoreOrder(row), nil
}

func (r *orderRepositoryInMemory) GetAll(_ context.Context) ([]*domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Order, 0, len(r.store.orders))
	for _, row := range r.store.orders {
		result = append(result, restoreOrder(row))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Created().Equal(result[j].Created()) {
			return result[i].Created().After(result[j].Created())
		}
		return result[i].ID().String() > result[j].ID().String()
	})
	return result, nil
}

func restoreOrder(row orderRow) *domain.Order {
	id, _ := domain.NewEntityID(row.id)
	return domain.RestoreOrder(id, row.number, row.created, row.price, row.email, row.note, nil)
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
