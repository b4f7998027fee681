package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// additionRepositoryInMemory — in-memory реализация AdditionRepository.
type additionRepositoryInMemory struct {
	store *Store
}

// NewAdditionRepository возвращает in-memory репозиторий добавок.
func NewAdditionRepository(store *Store) domain.AdditionRepository {
	return &additionRepositoryInMemory{store: store}
}

func (r *additionRepositoryInMemory) Add(_ context.Context, addition *domain.Addition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.additions[addition.ID().UUID()] = additionRow{
		id:    addition.ID().UUID(),
		name:  addition.Name(),
		price: addition.Price(),
		kind:  addition.Kind(),
	}
	return nil
}

func (r *additionRepositoryInMemory) Update(_ context.Context, addition *domain.Addition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.additions[addition.ID().UUID()]; !ok {
		return domain.NewNotFound("addition", addition.ID())
	}
	r.store.additions[addition.ID().UUID()] = additionRow{
		id:    addition.ID().UUID(),
		name:  addition.Name(),
		price: addition.Price(),
		kind:  addition.Kind(),
	}
	return nil
}

// Delete удаляет добавку и каскадно — позиции, в которых она участвует.
func (r *additionRepositoryInMemory) Delete(_ context.Context, id domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.additions[id.UUID()]; !ok {
		return domain.NewNotFound("addition", id)
	}
	delete(r.store.additions, id.UUID())
	for saleID, sale := range r.store.sales {
		if sale.additionID != nil && *sale.additionID == id.UUID() {
			delete(r.store.sales, saleID)
		}
	}
	return nil
}

func (r *additionRepositoryInMemory) GetByID(_ context.Context, id domain.EntityID) (*domain.Addition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.additions[id.UUID()]
	if !ok {
		return nil, domain.NewNotFound("addition", id)
	}
	return restoreAddition(row), nil
}

func (r *additionRepositoryInMemory) GetAll(_ context.Context) ([]*domain.Addition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Addition, 0, len(r.store.additions))
	for _, row := range r.store.additions {
		result = append(result, restoreAddition(row))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

func restoreAddition(row additionRow) *domain.Addition {
	id, _ := domain.NewEntityID(row.id)
	return domain.RestoreAddition(id, row.name, row.price, row.kind)
}

var _ domain.AdditionRepository = (*additionRepositoryInMemory)(nil)
