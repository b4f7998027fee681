package domain

import (
	"errors"
	"fmt"
)

// ErrorKind классифицирует доменные ошибки для транспортного слоя.
// Ядро никогда не кодирует HTTP-статусы — только вид ошибки.
type ErrorKind int

const (
	// KindValidation — нарушение инварианта при создании или мутации.
	KindValidation ErrorKind = iota
	// KindNotFound — запрошенная сущность отсутствует в хранилище.
	KindNotFound
	// KindConflict — нарушение бизнес-правила (удаление заказанного товара и т.п.).
	KindConflict
	// KindInfrastructure — сбой инфраструктуры: транзакции, почта, конфигурация.
	KindInfrastructure
)

// Error — доменная ошибка с видом и, где уместно, идентификатором сущности.
type Error struct {
	Kind   ErrorKind
	Entity string
	ID     string
	msg    string
}

func (e *Error) Error() string {
	switch {
	case e.ID != "" && e.Entity != "":
		return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.msg)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s", e.Entity, e.msg)
	default:
		return e.msg
	}
}

// Is позволяет errors.Is сопоставлять экземпляр с идентификатором сущности
// и сентинел того же вида и текста (ErrOrderAlreadyAttached и т.п.).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind || t.msg != e.msg {
		return false
	}
	return t.Entity == "" || t.Entity == e.Entity
}

// WithEntity возвращает копию ошибки, привязанную к конкретной сущности.
func (e *Error) WithEntity(entity string, id EntityID) *Error {
	clone := *e
	clone.Entity = entity
	clone.ID = id.String()
	return &clone
}

// NewNotFound создаёт ошибку отсутствия сущности с её идентификатором.
func NewNotFound(entity string, id EntityID) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id.String(), msg: "not found"}
}

// NewNotFoundKey создаёт ошибку отсутствия сущности, найденной не по EntityID
// (например, пользователя по почте).
func NewNotFoundKey(entity, key string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: key, msg: "not found"}
}

// NewConflict создаёт ошибку нарушения бизнес-правила по конкретной сущности.
func NewConflict(entity string, id EntityID, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: id.String(), msg: msg}
}

// NewValidation создаёт ошибку нарушения инварианта.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, msg: msg}
}

// NewInfrastructure создаёт инфраструктурную ошибку.
func NewInfrastructure(msg string) *Error {
	return &Error{Kind: KindInfrastructure, msg: msg}
}

// KindOf возвращает вид доменной ошибки и признак того, что ошибка доменная.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsNotFound сообщает, является ли ошибка ошибкой отсутствия сущности.
func IsNotFound(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindNotFound
}

// IsConflict сообщает, является ли ошибка конфликтом бизнес-правила.
func IsConflict(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindConflict
}

// IsValidation сообщает, является ли ошибка нарушением инварианта.
func IsValidation(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindValidation
}

// Ошибки value-объектов.
var (
	ErrNilEntityID         = NewValidation("entity id must be a non-nil uuid")
	ErrNegativePrice       = NewValidation("price must be non-negative")
	ErrInvalidEmail        = NewValidation("email has invalid format")
	ErrEmptyOrderNumber    = NewValidation("order number must not be empty")
	ErrUnknownProductKind  = NewValidation("unknown product kind")
	ErrUnknownAdditionKind = NewValidation("unknown addition kind")
	ErrUnknownRole         = NewValidation("unknown user role")
)

// Ошибки инвариантов сущностей.
var (
	ErrEmptyProductName  = NewValidation("product name must not be empty")
	ErrEmptyAdditionName = NewValidation("addition name must not be empty")
	ErrEmptyPassword     = NewValidation("password must not be empty")

	ErrNilProduct          = NewValidation("product cannot be nil")
	ErrNilAddition         = NewValidation("addition cannot be nil")
	ErrAdditionNotAttached = NewValidation("addition does not exist on this sale")
	ErrNilOrder            = NewValidation("order cannot be nil")
	ErrNilProductSale      = NewValidation("product sale cannot be nil")

	// ErrOrderAlreadyAttached возвращается при попытке привязать позицию,
	// уже принадлежащую другому заказу.
	ErrOrderAlreadyAttached = &Error{Kind: KindConflict, msg: "cannot override existing order"}
	// ErrOrderNotAttached возвращается при снятии несуществующей привязки к заказу.
	ErrOrderNotAttached = NewValidation("order does not exist on this sale")
	// ErrDuplicateProductSale возвращается при повторном добавлении позиции в заказ.
	ErrDuplicateProductSale = &Error{Kind: KindConflict, msg: "product sale already added to this order"}
	// ErrProductSaleNotInOrder возвращается при удалении позиции, которой нет в заказе.
	ErrProductSaleNotInOrder = NewValidation("product sale is not part of this order")
)

// Инфраструктурные ошибки.
var (
	// ErrNoActiveTransaction — commit/rollback без предшествующего begin.
	ErrNoActiveTransaction = NewInfrastructure("no active transaction")
	// ErrEmailTaken — почтовый адрес уже занят другим пользователем.
	ErrEmailTaken = &Error{Kind: KindConflict, Entity: "user", msg: "email already taken"}
	// ErrMailTimeout — отправка письма не уложилась в настроенный таймаут.
	ErrMailTimeout = NewInfrastructure("mail send timed out")
)
