package domain

import "strings"

// Addition — добавка к позиции (сыр к пицце, соус к бургеру).
// Та же форма и инварианты, что у Product; разделяется многими позициями.
type Addition struct {
	id    EntityID
	name  string
	price Price
	kind  AdditionKind
}

// NewAddition создаёт добавку, проверяя обязательность имени и цены.
func NewAddition(id EntityID, name string, price Price, kind AdditionKind) (*Addition, error) {
	if id.IsZero() {
		return nil, ErrNilEntityID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyAdditionName
	}
	if _, err := ParseAdditionKind(string(kind)); err != nil {
		return nil, err
	}
	return &Addition{id: id, name: strings.TrimSpace(name), price: price, kind: kind}, nil
}

// RestoreAddition восстанавливает добавку из строки хранилища.
func RestoreAddition(id EntityID, name string, price Price, kind AdditionKind) *Addition {
	return &Addition{id: id, name: name, price: price, kind: kind}
}

func (a *Addition) ID() EntityID       { return a.id }
func (a *Addition) Name() string       { return a.name }
func (a *Addition) Price() Price       { return a.price }
func (a *Addition) Kind() AdditionKind { return a.kind }

// Rename меняет имя добавки с проверкой непустоты.
func (a *Addition) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyAdditionName
	}
	a.name = strings.TrimSpace(name)
	return nil
}

// ChangePrice меняет цену добавки.
func (a *Addition) ChangePrice(price Price) {
	a.price = price
}

// ChangeKind меняет категорию добавки.
func (a *Addition) ChangeKind(kind AdditionKind) error {
	parsed, err := ParseAdditionKind(string(kind))
	if err != nil {
		return err
	}
	a.kind = parsed
	return nil
}
