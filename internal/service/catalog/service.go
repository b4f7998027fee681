package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// ProductInput описывает товар каталога при создании или изменении.
type ProductInput struct {
	Name  string
	Price domain.Price
	Kind  domain.ProductKind
}

// AdditionInput описывает добавку каталога при создании или изменении.
type AdditionInput struct {
	Name  string
	Price domain.Price
	Kind  domain.AdditionKind
}

// Service управляет каталогом товаров и добавок. Удаление защищено от
// висячих ссылок: сущность, на которую ссылается заказанная позиция,
// удалить нельзя.
type Service struct {
	products  domain.ProductRepository
	additions domain.AdditionRepository
	sales     domain.ProductSaleRepository
	logger    *log.Entry
}

// NewService конструирует сервис каталога.
func NewService(
	products domain.ProductRepository,
	additions domain.AdditionRepository,
	sales domain.ProductSaleRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog-service")
	}
	return &Service{
		products:  products,
		additions: additions,
		sales:     sales,
		logger:    logger,
	}
}

// AddProduct создаёт новый товар каталога.
func (s *Service) AddProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(domain.NextEntityID(), in.Name, in.Price, in.Kind)
	if err != nil {
		return nil, err
	}
	if err := s.products.Add(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct применяет изменения к товару. Позиции, уже сославшиеся на
// товар, сохраняют замороженный endPrice: смена цены каталога их не трогает.
func (s *Service) UpdateProduct(ctx context.Context, id domain.EntityID, in ProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Rename(in.Name); err != nil {
		return nil, err
	}
	product.ChangePrice(in.Price)
	if err := product.ChangeKind(in.Kind); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct удаляет товар, если на него не ссылается ни одна
// заказанная позиция.
func (s *Service) DeleteProduct(ctx context.Context, id domain.EntityID) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	ordered, err := s.sales.AnyOrderedByProduct(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return domain.NewConflict("product", id, "product is referenced by an ordered sale")
	}
	return s.products.Delete(ctx, id)
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(ctx context.Context, id domain.EntityID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetAllProducts возвращает весь каталог товаров.
func (s *Service) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.GetAll(ctx)
}

// AddAddition создаёт новую добавку каталога.
func (s *Service) AddAddition(ctx context.Context, in AdditionInput) (*domain.Addition, error) {
	addition, err := domain.NewAddition(domain.NextEntityID(), in.Name, in.Price, in.Kind)
	if err != nil {
		return nil, err
	}
	if err := s.additions.Add(ctx, addition); err != nil {
		return nil, err
	}
	return addition, nil
}

// UpdateAddition применяет изменения к добавке.
func (s *Service) UpdateAddition(ctx context.Context, id domain.EntityID, in AdditionInput) (*domain.Addition, error) {
	addition, err := s.additions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := addition.Rename(in.Name); err != nil {
		return nil, err
	}
	addition.ChangePrice(in.Price)
	if err := addition.ChangeKind(in.Kind); err != nil {
		return nil, err
	}
	if err := s.additions.Update(ctx, addition); err != nil {
		return nil, err
	}
	return addition, nil
}

// DeleteAddition удаляет добавку, если на неё не ссылается ни одна
// заказанная позиция.
func (s *Service) DeleteAddition(ctx context.Context, id domain.EntityID) error {
	if _, err := s.additions.GetByID(ctx, id); err != nil {
		return err
	}
	ordered, err := s.sales.AnyOrderedByAddition(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return domain.NewConflict("addition", id, "addition is referenced by an ordered sale")
	}
	return s.additions.Delete(ctx, id)
}

// GetAddition возвращает добавку по идентификатору.
func (s *Service) GetAddition(ctx context.Context, id domain.EntityID) (*domain.Addition, error) {
	return s.additions.GetByID(ctx, id)
}

// GetAllAdditions возвращает весь каталог добавок.
func (s *Service) GetAllAdditions(ctx context.Context) ([]*domain.Addition, error) {
	return s.additions.GetAll(ctx)
}
