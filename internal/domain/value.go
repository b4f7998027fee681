package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityID — идентификатор любой сущности домена. Сырые UUID наружу не отдаются.
type EntityID struct {
	value uuid.UUID
}

// NewEntityID оборачивает uuid, отклоняя нулевое значение.
func NewEntityID(id uuid.UUID) (EntityID, error) {
	if id == uuid.Nil {
		return EntityID{}, ErrNilEntityID
	}
	return EntityID{value: id}, nil
}

// ParseEntityID разбирает строковое представление идентификатора.
func ParseEntityID(s string) (EntityID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, ErrNilEntityID
	}
	return NewEntityID(id)
}

// NextEntityID генерирует новый идентификатор.
func NextEntityID() EntityID {
	return EntityID{value: uuid.New()}
}

// IsZero сообщает, что идентификатор не был инициализирован.
func (id EntityID) IsZero() bool {
	return id.value == uuid.Nil
}

// Equal сравнивает идентификаторы по значению.
func (id EntityID) Equal(other EntityID) bool {
	return id.value == other.value
}

func (id EntityID) String() string {
	return id.value.String()
}

// UUID возвращает нижележащий uuid для слоя хранения.
func (id EntityID) UUID() uuid.UUID {
	return id.value
}

// Price — неотрицательная денежная сумма. Арифметика идёт через decimal,
// чтобы не накапливать ошибки плавающей точки при сложении позиций.
type Price struct {
	amount decimal.Decimal
}

// NewPrice создаёт цену, отклоняя отрицательные значения.
func NewPrice(amount decimal.Decimal) (Price, error) {
	if amount.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	return Price{amount: amount}, nil
}

// NewPriceFromString разбирает десятичную строку ("12.50") в цену.
func NewPriceFromString(s string) (Price, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, ErrNegativePrice
	}
	return NewPrice(amount)
}

// ZeroPrice возвращает нулевую цену.
func ZeroPrice() Price {
	return Price{amount: decimal.Zero}
}

// Add возвращает сумму двух цен.
func (p Price) Add(other Price) Price {
	return Price{amount: p.amount.Add(other.amount)}
}

// Sub возвращает разность цен, отклоняя отрицательный результат.
func (p Price) Sub(other Price) (Price, error) {
	result := p.amount.Sub(other.amount)
	if result.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	return Price{amount: result}, nil
}

// Equal сравнивает цены по значению.
func (p Price) Equal(other Price) bool {
	return p.amount.Equal(other.amount)
}

// Decimal возвращает нижележащее десятичное значение для слоя хранения.
func (p Price) Decimal() decimal.Decimal {
	return p.amount
}

func (p Price) String() string {
	return p.amount.String()
}

// Формат почты проверяем без RFC-педантизма: локальная часть, @, домен с точкой.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email — валидированный почтовый адрес.
type Email struct {
	value string
}

// NewEmail проверяет формат адреса и нормализует регистр.
func NewEmail(s string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(normalized) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: normalized}, nil
}

// Equal сравнивает адреса по значению.
func (e Email) Equal(other Email) bool {
	return e.value == other.value
}

func (e Email) String() string {
	return e.value
}

// OrderNumber — отображаемый номер заказа, независимый от EntityID.
type OrderNumber struct {
	value string
}

// NewOrderNumber оборачивает непустой номер заказа.
func NewOrderNumber(s string) (OrderNumber, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return OrderNumber{}, ErrEmptyOrderNumber
	}
	return OrderNumber{value: trimmed}, nil
}

// Equal сравнивает номера по значению.
func (n OrderNumber) Equal(other OrderNumber) bool {
	return n.value == other.value
}

func (n OrderNumber) String() string {
	return n.value
}
