package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	store *Store
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepositoryInMemory{store: store}
}

func (r *productRepositoryInMemory) Add(_ context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products[product.ID().UUID()] = productRow{
		id:    product.ID().UUID(),
		name:  product.Name(),
		price: product.Price(),
		kind:  product.Kind(),
	}
	return nil
}

func (r *productRepositoryInMemory) Update(_ context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[product.ID().UUID()]; !ok {
		return domain.NewNotFound("product", product.ID())
	}
	r.store.products[product.ID().UUID()] = productRow{
		id:    product.ID().UUID(),
		name:  product.Name(),
		price: product.Price(),
		kind:  product.Kind(),
	}
	return nil
}

// Delete удаляет товар и каскадно — позиции, которые на него ссылаются
// (как FK ON DELETE CASCADE в реляционной схеме).
func (r *productRepositoryInMemory) Delete(_ context.Context, id domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id.UUID()]; !ok {
		return domain.NewNotFound("product", id)
	}
	delete(r.store.products, id.UUID())
	for saleID, sale := range r.store.sales {
		if sale.productID == id.UUID() {
			delete(r.store.sales, saleID)
		}
	}
	return nil
}

func (r *productRepositoryInMemory) GetByID(_ context.Context, id domain.EntityID) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.products[id.UUID()]
	if !ok {
		return nil, domain.NewNotFound("product", id)
	}
	return restoreProduct(row), nil
}

func (r *productRepositoryInMemory) GetAll(_ context.Context) ([]*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Product, 0, len(r.store.products))
	for _, row := range r.store.products {
		result = append(result, restoreProduct(row))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

func restoreProduct(row productRow) *domain.Product {
	id, _ := domain.NewEntityID(row.id)
	return domain.RestoreProduct(id, row.name, row.price, row.kind)
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
