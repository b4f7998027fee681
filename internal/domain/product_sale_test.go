package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// helper для сборки базовых сущностей сценариев.
func makePizza(t *testing.T, price string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(domain.NextEntityID(), "Pizza", mustPrice(t, price), domain.ProductKindPizza)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	return product
}

func makeCheese(t *testing.T, price string) *domain.Addition {
	t.Helper()
	addition, err := domain.NewAddition(domain.NextEntityID(), "Cheese", mustPrice(t, price), domain.AdditionKindExtra)
	if err != nil {
		t.Fatalf("new addition: %v", err)
	}
	return addition
}

func makeEmail(t *testing.T) domain.Email {
	t.Helper()
	email, err := domain.NewEmail("a@b.com")
	if err != nil {
		t.Fatalf("new email: %v", err)
	}
	return email
}

func makeEmptyOrder(t *testing.T) *domain.Order {
	t.Helper()
	number, _ := domain.NewOrderNumber("ORD-1")
	order, err := domain.NewOrder(
		domain.NextEntityID(), number, time.Now().UTC(), domain.ZeroPrice(), makeEmail(t), "", nil,
	)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func TestNewProductSale_EndPriceSumsComponents(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), makeCheese(t, "5"), makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	if sale.EndPrice().String() != "25" {
		t.Fatalf("expected endPrice 25, got %s", sale.EndPrice())
	}
	if sale.State() != domain.ProductSaleStateNew {
		t.Fatalf("expected state new, got %s", sale.State())
	}
}

func TestNewProductSale_RequiresProduct(t *testing.T) {
	if _, err := domain.NewProductSale(domain.NextEntityID(), nil, nil, makeEmail(t)); !errors.Is(err, domain.ErrNilProduct) {
		t.Fatalf("expected ErrNilProduct, got %v", err)
	}
}

func TestProductSale_ChangeProductRetractsOldPrice(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), makeCheese(t, "5"), makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	burger, err := domain.NewProduct(domain.NextEntityID(), "Burger", mustPrice(t, "12"), domain.ProductKindBurger)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	if err := sale.ChangeProduct(burger); err != nil {
		t.Fatalf("change product: %v", err)
	}

	// 20 + 5 - 20 + 12 = 17: старая цена вычтена, новая прибавлена.
	if sale.EndPrice().String() != "17" {
		t.Fatalf("expected endPrice 17, got %s", sale.EndPrice())
	}

	if err := sale.ChangeProduct(nil); !errors.Is(err, domain.ErrNilProduct) {
		t.Fatalf("expected ErrNilProduct, got %v", err)
	}
}

func TestProductSale_ChangeAndRemoveAddition(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), nil, makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	if err := sale.RemoveAddition(); !errors.Is(err, domain.ErrAdditionNotAttached) {
		t.Fatalf("expected ErrAdditionNotAttached, got %v", err)
	}

	if err := sale.ChangeAddition(makeCheese(t, "5")); err != nil {
		t.Fatalf("change addition: %v", err)
	}
	if sale.EndPrice().String() != "25" {
		t.Fatalf("expected endPrice 25, got %s", sale.EndPrice())
	}

	bacon, err := domain.NewAddition(domain.NextEntityID(), "Bacon", mustPrice(t, "7"), domain.AdditionKindTopping)
	if err != nil {
		t.Fatalf("new addition: %v", err)
	}
	if err := sale.ChangeAddition(bacon); err != nil {
		t.Fatalf("change addition: %v", err)
	}
	if sale.EndPrice().String() != "27" {
		t.Fatalf("expected endPrice 27, got %s", sale.EndPrice())
	}

	if err := sale.RemoveAddition(); err != nil {
		t.Fatalf("remove addition: %v", err)
	}
	if sale.EndPrice().String() != "20" {
		t.Fatalf("expected endPrice 20 after removal, got %s", sale.EndPrice())
	}
	if _, ok := sale.AdditionID(); ok {
		t.Fatal("expected addition reference cleared")
	}

	if err := sale.ChangeAddition(nil); !errors.Is(err, domain.ErrNilAddition) {
		t.Fatalf("expected ErrNilAddition, got %v", err)
	}
}

func TestProductSale_OrderStateMachine(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), nil, makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	if err := sale.AttachOrder(nil); !errors.Is(err, domain.ErrNilOrder) {
		t.Fatalf("expected ErrNilOrder, got %v", err)
	}

	first := makeEmptyOrder(t)
	if err := sale.AttachOrder(first); err != nil {
		t.Fatalf("attach order: %v", err)
	}
	if sale.State() != domain.ProductSaleStateOrdered {
		t.Fatalf("expected state ordered, got %s", sale.State())
	}
	orderID, ok := sale.OrderID()
	if !ok || !orderID.Equal(first.ID()) {
		t.Fatal("expected order reference set")
	}

	// Привязка к другому заказу — конфликт без мутации состояния.
	second := makeEmptyOrder(t)
	if err := sale.AttachOrder(second); !errors.Is(err, domain.ErrOrderAlreadyAttached) {
		t.Fatalf("expected ErrOrderAlreadyAttached, got %v", err)
	}
	orderID, _ = sale.OrderID()
	if !orderID.Equal(first.ID()) || sale.State() != domain.ProductSaleStateOrdered {
		t.Fatal("failed attach must not mutate state")
	}

	if err := sale.DetachOrder(); err != nil {
		t.Fatalf("detach order: %v", err)
	}
	if sale.State() != domain.ProductSaleStateNew {
		t.Fatalf("expected state new after detach, got %s", sale.State())
	}
	if _, ok := sale.OrderID(); ok {
		t.Fatal("expected order reference cleared")
	}
}

func TestProductSale_DetachWithoutOrder(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), nil, makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	err = sale.DetachOrder()
	if !errors.Is(err, domain.ErrOrderNotAttached) {
		t.Fatalf("expected ErrOrderNotAttached, got %v", err)
	}

	// Ошибка ссылается на идентификатор позиции.
	var de *domain.Error
	if !errors.As(err, &de) || de.ID != sale.ID().String() {
		t.Fatalf("expected error to reference sale id %s, got %v", sale.ID(), err)
	}
	if sale.State() != domain.ProductSaleStateNew {
		t.Fatal("failed detach must not mutate state")
	}
}

func TestProductSale_ChangeEmail(t *testing.T) {
	sale, err := domain.NewProductSale(domain.NextEntityID(), makePizza(t, "20"), nil, makeEmail(t))
	if err != nil {
		t.Fatalf("new product sale: %v", err)
	}

	next, _ := domain.NewEmail("c@d.com")
	sale.ChangeEmail(next)
	if !sale.Email().Equal(next) {
		t.Fatal("expected email replaced")
	}
}
