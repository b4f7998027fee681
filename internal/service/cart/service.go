package cart

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// AddInput описывает запрос на добавление позиции в корзину.
type AddInput struct {
	ProductID  domain.EntityID
	AdditionID *domain.EntityID
	Email      domain.Email
}

// UpdateInput описывает запрос на изменение позиции корзины. Нулевые
// указатели означают "не менять"; RemoveAddition снимает добавку.
type UpdateInput struct {
	ID             domain.EntityID
	ProductID      *domain.EntityID
	AdditionID     *domain.EntityID
	RemoveAddition bool
	Email          *domain.Email
}

// Service управляет позициями корзины. Итоговая цена позиции замораживается
// в момент привязки товара или добавки и не пересчитывается при последующих
// изменениях цен в каталоге.
type Service struct {
	sales     domain.ProductSaleRepository
	products  domain.ProductRepository
	additions domain.AdditionRepository
	logger    *log.Entry
}

// NewService конструирует сервис корзины.
func NewService(
	sales domain.ProductSaleRepository,
	products domain.ProductRepository,
	additions domain.AdditionRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "cart-service")
	}
	return &Service{
		sales:     sales,
		products:  products,
		additions: additions,
		logger:    logger,
	}
}

// Add разрешает товар и необязательную добавку и создаёт позицию с
// зафиксированной итоговой ценой.
func (s *Service) Add(ctx context.Context, in AddInput) (*domain.ProductSale, error) {
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	var addition *domain.Addition
	if in.AdditionID != nil {
		addition, err = s.additions.GetByID(ctx, *in.AdditionID)
		if err != nil {
			return nil, err
		}
	}

	sale, err := domain.NewProductSale(domain.NextEntityID(), product, addition, in.Email)
	if err != nil {
		return nil, err
	}
	if err := s.sales.Add(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Update применяет запрошенные изменения к позиции и сохраняет её.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.ProductSale, error) {
	sale, err := s.sales.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.ProductID != nil {
		product, err := s.products.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		if err := sale.ChangeProduct(product); err != nil {
			return nil, err
		}
	}
	switch {
	case in.RemoveAddition:
		if err := sale.RemoveAddition(); err != nil {
			return nil, err
		}
	case in.AdditionID != nil:
		addition, err := s.additions.GetByID(ctx, *in.AdditionID)
		if err != nil {
			return nil, err
		}
		if err := sale.ChangeAddition(addition); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		sale.ChangeEmail(*in.Email)
	}

	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Delete удаляет позицию из корзины. Заказанную позицию удалить нельзя:
// сначала её нужно убрать из заказа.
func (s *Service) Delete(ctx context.Context, id domain.EntityID) error {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale.State() == domain.ProductSaleStateOrdered {
		return domain.NewConflict("product_sale", id, "product sale is part of an order")
	}
	return s.sales.Delete(ctx, id)
}

// GetByID возвращает позицию по идентификатору.
func (s *Service) GetByID(ctx context.Context, id domain.EntityID) (*domain.ProductSale, error) {
	return s.sales.GetByID(ctx, id)
}

// GetAll возвращает все позиции.
func (s *Service) GetAll(ctx context.Context) ([]*domain.ProductSale, error) {
	return s.sales.GetAll(ctx)
}

// GetAllInCartByEmail возвращает незаказанные позиции покупателя.
func (s *Service) GetAllInCartByEmail(ctx context.Context, email domain.Email) ([]*domain.ProductSale, error) {
	return s.sales.GetAllInCartByEmail(ctx, email)
}
