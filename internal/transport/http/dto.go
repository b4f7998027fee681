package http

import (
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// Доменные сущности никогда не сериализуются напрямую: наружу уходят
// плоские DTO с ценами в виде десятичных строк и перечислениями по именам.

// ProductDTO — товар каталога.
type ProductDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Kind  string `json:"kind"`
}

// AdditionDTO — добавка каталога.
type AdditionDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Kind  string `json:"kind"`
}

// ProductSaleDTO — позиция корзины или заказа.
type ProductSaleDTO struct {
	ID       string       `json:"id"`
	Product  ProductDTO   `json:"product"`
	Addition *AdditionDTO `json:"addition,omitempty"`
	OrderID  *string      `json:"order_id,omitempty"`
	EndPrice string       `json:"end_price"`
	State    string       `json:"state"`
	Email    string       `json:"email"`
}

// OrderDTO — заказ с составом.
type OrderDTO struct {
	ID          string           `json:"id"`
	OrderNumber string           `json:"order_number"`
	Created     time.Time        `json:"created"`
	Price       string           `json:"price"`
	Email       string           `json:"email"`
	Note        string           `json:"note,omitempty"`
	Products    []ProductSaleDTO `json:"products"`
}

// UserDTO — учётная запись без чувствительных полей.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineEventDTO — событие жизненного цикла заказа.
type TimelineEventDTO struct {
	OrderID  string    `json:"order_id"`
	Type     string    `json:"type"`
	Note     string    `json:"note,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func toProductDTO(product *domain.Product) ProductDTO {
	return ProductDTO{
		ID:    product.ID().String(),
		Name:  product.Name(),
		Price: product.Price().String(),
		Kind:  string(product.Kind()),
	}
}

func toAdditionDTO(addition *domain.Addition) AdditionDTO {
	return AdditionDTO{
		ID:    addition.ID().String(),
		Name:  addition.Name(),
		Price: addition.Price().String(),
		Kind:  string(addition.Kind()),
	}
}

func toProductSaleDTO(sale *domain.ProductSale) ProductSaleDTO {
	dto := ProductSaleDTO{
		ID:       sale.ID().String(),
		Product:  toProductDTO(sale.Product()),
		EndPrice: sale.EndPrice().String(),
		State:    string(sale.State()),
		Email:    sale.Email().String(),
	}
	if addition := sale.Addition(); addition != nil {
		additionDTO := toAdditionDTO(addition)
		dto.Addition = &additionDTO
	}
	if orderID, ok := sale.OrderID(); ok {
		id := orderID.String()
		dto.OrderID = &id
	}
	return dto
}

func toOrderDTO(order *domain.Order) OrderDTO {
	products := make([]ProductSaleDTO, 0, len(order.Products()))
	for _, sale := range order.Products() {
		products = append(products, toProductSaleDTO(sale))
	}
	return OrderDTO{
		ID:          order.ID().String(),
		OrderNumber: order.Number().String(),
		Created:     order.Created(),
		Price:       order.Price().String(),
		Email:       order.Email().String(),
		Note:        order.Note(),
		Products:    products,
	}
}

func toUserDTO(account *domain.User) UserDTO {
	return UserDTO{
		ID:        account.ID().String(),
		Email:     account.Email().String(),
		Role:      string(account.Role()),
		CreatedAt: account.CreatedAt(),
	}
}

func toTimelineEventDTO(event domain.TimelineEvent) TimelineEventDTO {
	return TimelineEventDTO{
		OrderID:  event.OrderID.String(),
		Type:     event.Type,
		Note:     event.Note,
		Occurred: event.Occurred,
	}
}
