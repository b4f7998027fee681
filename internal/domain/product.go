package domain

import "strings"

// Product — товар меню. Товары разделяются многими позициями и никогда
// не мутируются как побочный эффект изменений ProductSale.
type Product struct {
	id    EntityID
	name  string
	price Price
	kind  ProductKind
}

// NewProduct создаёт товар, проверяя обязательность имени и цены.
func NewProduct(id EntityID, name string, price Price, kind ProductKind) (*Product, error) {
	if id.IsZero() {
		return nil, ErrNilEntityID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProductName
	}
	if _, err := ParseProductKind(string(kind)); err != nil {
		return nil, err
	}
	return &Product{id: id, name: strings.TrimSpace(name), price: price, kind: kind}, nil
}

// RestoreProduct восстанавливает товар из строки хранилища.
// Данные считаются проверенными при записи, повторная валидация не выполняется.
func RestoreProduct(id EntityID, name string, price Price, kind ProductKind) *Product {
	return &Product{id: id, name: name, price: price, kind: kind}
}

func (p *Product) ID() EntityID      { return p.id }
func (p *Product) Name() string      { return p.name }
func (p *Product) Price() Price      { return p.price }
func (p *Product) Kind() ProductKind { return p.kind }

// Rename меняет имя товара с проверкой непустоты.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyProductName
	}
	p.name = strings.TrimSpace(name)
	return nil
}

// ChangePrice меняет цену товара. Уже замороженные endPrice позиций не трогает.
func (p *Product) ChangePrice(price Price) {
	p.price = price
}

// ChangeKind меняет категорию товара.
func (p *Product) ChangeKind(kind ProductKind) error {
	parsed, err := ParseProductKind(string(kind))
	if err != nil {
		return err
	}
	p.kind = parsed
	return nil
}
