package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// productSaleRepositoryInMemory — in-memory реализация ProductSaleRepository.
type productSaleRepositoryInMemory struct {
	store *Store
}

// NewProductSaleRepository возвращает in-memory репозиторий позиций продаж.
func NewProductSaleRepository(store *Store) domain.ProductSaleRepository {
	return &productSaleRepositoryInMemory{store: store}
}

func saleToRow(sale *domain.ProductSale) saleRow {
	row := saleRow{
		id:        sale.ID().UUID(),
		productID: sale.ProductID().UUID(),
		endPrice:  sale.EndPrice(),
		state:     sale.State(),
		email:     sale.Email(),
	}
	if additionID, ok := sale.AdditionID(); ok {
		value := additionID.UUID()
		row.additionID = &value
	}
	if orderID, ok := sale.OrderID(); ok {
		value := orderID.UUID()
		row.orderID = &value
	}
	return row
}

func (r *productSaleRepositoryInMemory) Add(_ context.Context, sale *domain.ProductSale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sales[sale.ID().UUID()] = saleToRow(sale)
	return nil
}

func (r *productSaleRepositoryInMemory) Update(_ context.Context, sale *domain.ProductSale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sales[sale.ID().UUID()]; !ok {
		return domain.NewNotFound("product_sale", sale.ID())
	}
	r.store.sales[sale.ID().UUID()] = saleToRow(sale)
	return nil
}

func (r *productSaleRepositoryInMemory) Delete(_ context.Context, id domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sales[id.UUID()]; !ok {
		return domain.NewNotFound("product_sale", id)
	}
	delete(r.store.sales, id.UUID())
	return nil
}

func (r *productSaleRepositoryInMemory) GetByID(_ context.Context, id domain.EntityID) (*domain.ProductSale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.sales[id.UUID()]
	if !ok {
		return nil, domain.NewNotFound("product_sale", id)
	}
	return r.hydrate(row)
}

func (r *productSaleRepositoryInMemory) GetAll(_ context.Context) ([]*domain.ProductSale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.collect(func(saleRow) bool { return true })
}

func (r *productSaleRepositoryInMemory) GetAllByOrderID(_ context.Context, orderID domain.EntityID) ([]*domain.ProductSale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.collect(func(row saleRow) bool {
		return row.orderID != nil && *row.orderID == orderID.UUID()
	})
}

func (r *productSaleRepositoryInMemory) GetAllInCartByEmail(_ context.Context, email domain.Email) ([]*domain.ProductSale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.collect(func(row saleRow) bool {
		return row.state == domain.ProductSaleStateNew && row.email.Equal(email)
	})
}

func (r *productSaleRepositoryInMemory) DeleteByOrder(_ context.Context, orderID domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, row := range r.store.sales {
		if row.orderID != nil && *row.orderID == orderID.UUID() {
			delete(r.store.sales, id)
		}
	}
	return nil
}

func (r *productSaleRepositoryInMemory) AnyOrderedByProduct(_ context.Context, productID domain.EntityID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.sales {
		if row.productID == productID.UUID() && row.state == domain.ProductSaleStateOrdered {
			return true, nil
		}
	}
	return false, nil
}

func (r *productSaleRepositoryInMemory) AnyOrderedByAddition(_ context.Context, additionID domain.EntityID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.sales {
		if row.additionID != nil && *row.additionID == additionID.UUID() && row.state == domain.ProductSaleStateOrdered {
			return true, nil
		}
	}
	return false, nil
}

// collect вызывается под уже взятой блокировкой.
func (r *productSaleRepositoryInMemory) collect(match func(saleRow) bool) ([]*domain.ProductSale, error) {
	result := make([]*domain.ProductSale, 0)
	for _, row := range r.store.sales {
		if !match(row) {
			continue
		}
		sale, err := r.hydrate(row)
		if err != nil {
			return nil, err
		}
		result = append(result, sale)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// hydrate восстанавливает позицию со ссылками на товар и добавку.
// Вызывается под уже взятой блокировкой.
func (r *productSaleRepositoryInMemory) hydrate(row saleRow) (*domain.ProductSale, error) {
	saleID, _ := domain.NewEntityID(row.id)

	productRow, ok := r.store.products[row.productID]
	if !ok {
		productID, _ := domain.NewEntityID(row.productID)
		return nil, domain.NewNotFound("product", productID)
	}
	product := restoreProduct(productRow)

	var addition *domain.Addition
	if row.additionID != nil {
		additionRow, ok := r.store.additions[*row.additionID]
		if !ok {
			additionID, _ := domain.NewEntityID(*row.additionID)
			return nil, domain.NewNotFound("addition", additionID)
		}
		addition = restoreAddition(additionRow)
	}

	var orderID *domain.EntityID
	if row.orderID != nil {
		value, err := domain.NewEntityID(*row.orderID)
		if err != nil {
			return nil, err
		}
		orderID = &value
	}

	return domain.RestoreProductSale(saleID, product, addition, orderID, row.endPrice, row.state, row.email), nil
}

var _ domain.ProductSaleRepository = (*productSaleRepositoryInMemory)(nil)
