package domain

// ProductSale — позиция продажи: товар плюс необязательная добавка,
// с замороженной итоговой ценой на момент последнего изменения состава.
// Позиция адресуется независимо от заказа; принадлежность заказу — это
// nullable-ссылка, а не владение.
type ProductSale struct {
	id       EntityID
	product  *Product
	addition *Addition
	orderID  *EntityID
	endPrice Price
	state    ProductSaleState
	email    Email
}

// NewProductSale создаёт позицию в корзине. Итоговая цена складывается
// из цены товара и цены добавки, если та передана.
func NewProductSale(id EntityID, product *Product, addition *Addition, email Email) (*ProductSale, error) {
	if id.IsZero() {
		return nil, ErrNilEntityID
	}
	if product == nil {
		return nil, ErrNilProduct
	}

	sale := &ProductSale{
		id:       id,
		product:  product,
		endPrice: product.Price(),
		state:    ProductSaleStateNew,
		email:    email,
	}
	if addition != nil {
		sale.addition = addition
		sale.endPrice = sale.endPrice.Add(addition.Price())
	}
	return sale, nil
}

// RestoreProductSale восстанавливает позицию из хранилища: ссылки уже
// гидрированы репозиторием, endPrice берётся как записан, без пересчёта.
func RestoreProductSale(
	id EntityID,
	product *Product,
	addition *Addition,
	orderID *EntityID,
	endPrice Price,
	state ProductSaleState,
	email Email,
) *ProductSale {
	return &ProductSale{
		id:       id,
		product:  product,
		addition: addition,
		orderID:  orderID,
		endPrice: endPrice,
		state:    state,
		email:    email,
	}
}

func (s *ProductSale) ID() EntityID            { return s.id }
func (s *ProductSale) Product() *Product       { return s.product }
func (s *ProductSale) ProductID() EntityID     { return s.product.ID() }
func (s *ProductSale) Addition() *Addition     { return s.addition }
func (s *ProductSale) EndPrice() Price         { return s.endPrice }
func (s *ProductSale) State() ProductSaleState { return s.state }
func (s *ProductSale) Email() Email            { return s.email }

// AdditionID возвращает идентификатор добавки, если она привязана.
func (s *ProductSale) AdditionID() (EntityID, bool) {
	if s.addition == nil {
		return EntityID{}, false
	}
	return s.addition.ID(), true
}

// OrderID возвращает идентификатор заказа, если позиция принадлежит заказу.
func (s *ProductSale) OrderID() (EntityID, bool) {
	if s.orderID == nil {
		return EntityID{}, false
	}
	return *s.orderID, true
}

// ChangeProduct заменяет товар позиции. Цена старого товара вычитается из
// endPrice до прибавления цены нового: итог никогда не пересчитывается с нуля.
func (s *ProductSale) ChangeProduct(product *Product) error {
	if product == nil {
		return ErrNilProduct
	}

	if s.product != nil {
		reduced, err := s.endPrice.Sub(s.product.Price())
		if err != nil {
			return err
		}
		s.endPrice = reduced
	}
	s.product = product
	s.endPrice = s.endPrice.Add(product.Price())
	return nil
}

// ChangeAddition заменяет добавку с той же дисциплиной вычесть-старое/прибавить-новое.
func (s *ProductSale) ChangeAddition(addition *Addition) error {
	if addition == nil {
		return ErrNilAddition
	}

	if s.addition != nil {
		reduced, err := s.endPrice.Sub(s.addition.Price())
		if err != nil {
			return err
		}
		s.endPrice = reduced
	}
	s.addition = addition
	s.endPrice = s.endPrice.Add(addition.Price())
	return nil
}

// RemoveAddition снимает добавку, вычитая её цену из endPrice.
func (s *ProductSale) RemoveAddition() error {
	if s.addition == nil {
		return ErrAdditionNotAttached
	}

	reduced, err := s.endPrice.Sub(s.addition.Price())
	if err != nil {
		return err
	}
	s.endPrice = reduced
	s.addition = nil
	return nil
}

// AttachOrder привязывает позицию к заказу и переводит её в состояние ordered.
// Позиция принадлежит максимум одному заказу; повторная привязка к тому же
// заказу — no-op, к другому — конфликт без мутации состояния.
func (s *ProductSale) AttachOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if s.orderID != nil {
		if s.orderID.Equal(order.ID()) {
			return nil
		}
		return ErrOrderAlreadyAttached.WithEntity("product_sale", s.id)
	}

	orderID := order.ID()
	s.orderID = &orderID
	s.state = ProductSaleStateOrdered
	return nil
}

// DetachOrder снимает привязку к заказу и возвращает позицию в состояние new.
func (s *ProductSale) DetachOrder() error {
	if s.orderID == nil {
		return ErrOrderNotAttached.WithEntity("product_sale", s.id)
	}
	s.orderID = nil
	s.state = ProductSaleStateNew
	return nil
}

// ChangeEmail безусловно заменяет адрес; валидность гарантирует сам Email.
func (s *ProductSale) ChangeEmail(email Email) {
	s.email = email
}
