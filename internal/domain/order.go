package domain

import (
	"strings"
	"time"
)

// Order — корень агрегата заказа. Заказ не владеет своими позициями
// эксклюзивно: каждая ProductSale хранится и адресуется самостоятельно.
type Order struct {
	id          EntityID
	orderNumber OrderNumber
	created     time.Time
	price       Price
	email       Email
	note        string
	products    []*ProductSale
}

// NewOrder создаёт заказ и привязывает к нему каждую переданную позицию.
// Привязка — побочный эффект конструирования: если какая-то позиция уже
// принадлежит другому заказу, конструирование завершается её конфликтом.
func NewOrder(
	id EntityID,
	orderNumber OrderNumber,
	created time.Time,
	price Price,
	email Email,
	note string,
	sales []*ProductSale,
) (*Order, error) {
	if id.IsZero() {
		return nil, ErrNilEntityID
	}

	order := &Order{
		id:          id,
		orderNumber: orderNumber,
		created:     created,
		price:       price,
		email:       email,
		note:        strings.TrimSpace(note),
		products:    make([]*ProductSale, 0, len(sales)),
	}
	for _, sale := range sales {
		if sale == nil {
			return nil, ErrNilProductSale
		}
		if err := sale.AttachOrder(order); err != nil {
			return nil, err
		}
		order.products = append(order.products, sale)
	}
	return order, nil
}

// RestoreOrder восстанавливает заказ из хранилища без побочных привязок.
func RestoreOrder(
	id EntityID,
	orderNumber OrderNumber,
	created time.Time,
	price Price,
	email Email,
	note string,
	sales []*ProductSale,
) *Order {
	return &Order{
		id:          id,
		orderNumber: orderNumber,
		created:     created,
		price:       price,
		email:       email,
		note:        note,
		products:    sales,
	}
}

func (o *Order) ID() EntityID             { return o.id }
func (o *Order) Number() OrderNumber      { return o.orderNumber }
func (o *Order) Created() time.Time       { return o.created }
func (o *Order) Price() Price             { return o.price }
func (o *Order) Email() Email             { return o.email }
func (o *Order) Note() string             { return o.note }
func (o *Order) Products() []*ProductSale { return o.products }

// Contains сообщает, входит ли позиция с данным идентификатором в заказ.
func (o *Order) Contains(saleID EntityID) bool {
	for _, sale := range o.products {
		if sale.ID().Equal(saleID) {
			return true
		}
	}
	return false
}

// AddProduct добавляет позицию в заказ. Пересчёт цены — отдельный явный
// вызов RecomputePrice, чтобы серия изменений состава завершалась одним
// пересчётом, а не каскадом промежуточных.
func (o *Order) AddProduct(sale *ProductSale) error {
	if sale == nil {
		return ErrNilProductSale
	}
	if o.Contains(sale.ID()) {
		return ErrDuplicateProductSale.WithEntity("product_sale", sale.ID())
	}
	o.products = append(o.products, sale)
	return nil
}

// RemoveProduct удаляет позицию из заказа по идентификатору.
func (o *Order) RemoveProduct(sale *ProductSale) error {
	if sale == nil {
		return ErrNilProductSale
	}
	for i, member := range o.products {
		if member.ID().Equal(sale.ID()) {
			o.products = append(o.products[:i], o.products[i+1:]...)
			return nil
		}
	}
	return ErrProductSaleNotInOrder.WithEntity("product_sale", sale.ID())
}

// RecomputePrice выставляет цену заказа как сумму endPrice текущих позиций.
// Вызывается строго после того, как все изменения состава применены.
func (o *Order) RecomputePrice() {
	total := ZeroPrice()
	for _, sale := range o.products {
		total = total.Add(sale.EndPrice())
	}
	o.price = total
}

// ChangePrice напрямую выставляет цену заказа; используется сервисным слоем.
func (o *Order) ChangePrice(price Price) {
	o.price = price
}

// ChangeNote заменяет примечание к заказу.
func (o *Order) ChangeNote(note string) {
	o.note = strings.TrimSpace(note)
}

// ChangeEmail заменяет адрес заказа.
func (o *Order) ChangeEmail(email Email) {
	o.email = email
}

// ChangeOrderNumber заменяет отображаемый номер заказа.
func (o *Order) ChangeOrderNumber(number OrderNumber) {
	o.orderNumber = number
}
