package domain

// ProductKind — категория товара в меню.
type ProductKind string

const (
	ProductKindPizza    ProductKind = "pizza"
	ProductKindBurger   ProductKind = "burger"
	ProductKindSandwich ProductKind = "sandwich"
	ProductKindSalad    ProductKind = "salad"
	ProductKindDrink    ProductKind = "drink"
)

// ParseProductKind проверяет принадлежность строки к фиксированному набору категорий.
func ParseProductKind(s string) (ProductKind, error) {
	switch kind := ProductKind(s); kind {
	case ProductKindPizza, ProductKindBurger, ProductKindSandwich, ProductKindSalad, ProductKindDrink:
		return kind, nil
	default:
		return "", ErrUnknownProductKind
	}
}

// AdditionKind — категория добавки к позиции.
type AdditionKind string

const (
	AdditionKindExtra   AdditionKind = "extra"
	AdditionKindSauce   AdditionKind = "sauce"
	AdditionKindTopping AdditionKind = "topping"
)

// ParseAdditionKind проверяет принадлежность строки к набору категорий добавок.
func ParseAdditionKind(s string) (AdditionKind, error) {
	switch kind := AdditionKind(s); kind {
	case AdditionKindExtra, AdditionKindSauce, AdditionKindTopping:
		return kind, nil
	default:
		return "", ErrUnknownAdditionKind
	}
}

// ProductSaleState — состояние позиции: в корзине или в заказе.
// Других состояний нет: new ↔ ordered переключаются привязкой к заказу.
type ProductSaleState string

const (
	ProductSaleStateNew     ProductSaleState = "new"
	ProductSaleStateOrdered ProductSaleState = "ordered"
)

// ParseProductSaleState проверяет строковое представление состояния позиции.
func ParseProductSaleState(s string) (ProductSaleState, error) {
	switch state := ProductSaleState(s); state {
	case ProductSaleStateNew, ProductSaleStateOrdered:
		return state, nil
	default:
		return "", NewValidation("unknown product sale state")
	}
}

// Role — роль пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole проверяет строковое представление роли.
func ParseRole(s string) (Role, error) {
	switch role := Role(s); role {
	case RoleUser, RoleAdmin:
		return role, nil
	default:
		return "", ErrUnknownRole
	}
}
