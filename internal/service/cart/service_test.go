package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
)

type fixture struct {
	store     *memory.Store
	products  domain.ProductRepository
	additions domain.AdditionRepository
	sales     domain.ProductSaleRepository
	svc       *cart.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		products:  memory.NewProductRepository(store),
		additions: memory.NewAdditionRepository(store),
		sales:     memory.NewProductSaleRepository(store),
	}
	f.svc = cart.NewService(f.sales, f.products, f.additions, nil)
	return f
}

func mustPrice(t *testing.T, s string) domain.Price {
	t.Helper()
	price, err := domain.NewPriceFromString(s)
	require.NoError(t, err)
	return price
}

func mustEmail(t *testing.T, s string) domain.Email {
	t.Helper()
	email, err := domain.NewEmail(s)
	require.NoError(t, err)
	return email
}

func (f *fixture) addProduct(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(domain.NextEntityID(), name, mustPrice(t, price), domain.ProductKindPizza)
	require.NoError(t, err)
	require.NoError(t, f.products.Add(context.Background(), product))
	return product
}

func (f *fixture) addAddition(t *testing.T, name, price string) *domain.Addition {
	t.Helper()
	addition, err := domain.NewAddition(domain.NextEntityID(), name, mustPrice(t, price), domain.AdditionKindSauce)
	require.NoError(t, err)
	require.NoError(t, f.additions.Add(context.Background(), addition))
	return addition
}

func TestService_AddFreezesEndPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.addProduct(t, "Маргарита", "10.50")
	addition := f.addAddition(t, "Чесночный соус", "1.25")
	additionID := addition.ID()

	sale, err := f.svc.Add(ctx, cart.AddInput{
		ProductID:  product.ID(),
		AdditionID: &additionID,
		Email:      mustEmail(t, "guest@example.com"),
	})
	require.NoError(t, err)
	require.True(t, mustPrice(t, "11.75").Equal(sale.EndPrice()))
	require.Equal(t, domain.ProductSaleStateNew, sale.State())

	got, err := f.svc.GetByID(ctx, sale.ID())
	require.NoError(t, err)
	require.True(t, sale.EndPrice().Equal(got.EndPrice()))
}

func TestService_AddUnknownProductFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(context.Background(), cart.AddInput{
		ProductID: domain.NextEntityID(),
		Email:     mustEmail(t, "guest@example.com"),
	})
	require.Error(t, err)
	require.True(t, domain.IsNotFound(err))
}

func TestService_UpdateSwapsProductWithoutRepricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pizza := f.addProduct(t, "Маргарита", "10.00")
	burger := f.addProduct(t, "Чизбургер", "7.00")

	sale, err := f.svc.Add(ctx, cart.AddInput{
		ProductID: pizza.ID(),
		Email:     mustEmail(t, "guest@example.com"),
	})
	require.NoError(t, err)

	// Поднимаем цену пиццы в каталоге уже после добавления в корзину.
	pizza.ChangePrice(mustPrice(t, "99.00"))
	require.NoError(t, f.products.Update(ctx, pizza))

	burgerID := burger.ID()
	updated, err := f.svc.Update(ctx, cart.UpdateInput{ID: sale.ID(), ProductID: &burgerID})
	require.NoError(t, err)

	// Вычитается замороженная цена старого товара, а не каталожная.
	require.True(t, mustPrice(t, "7.00").Equal(updated.EndPrice()))
}

func TestService_UpdateRemovesAddition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.addProduct(t, "Маргарита", "10.00")
	addition := f.addAddition(t, "Пармезан", "2.00")
	additionID := addition.ID()

	sale, err := f.svc.Add(ctx, cart.AddInput{
		ProductID:  product.ID(),
		AdditionID: &additionID,
		Email:      mustEmail(t, "guest@example.com"),
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, cart.UpdateInput{ID: sale.ID(), RemoveAddition: true})
	require.NoError(t, err)
	require.True(t, mustPrice(t, "10.00").Equal(updated.EndPrice()))
	_, ok := updated.AdditionID()
	require.False(t, ok)
}

func TestService_DeleteRefusesOrderedSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.addProduct(t, "Маргарита", "10.00")
	sale, err := f.svc.Add(ctx, cart.AddInput{
		ProductID: product.ID(),
		Email:     mustEmail(t, "guest@example.com"),
	})
	require.NoError(t, err)

	number, err := domain.NewOrderNumber("A-100")
	require.NoError(t, err)
	_, err = domain.NewOrder(domain.NextEntityID(), number, time.Now().UTC(),
		domain.ZeroPrice(), mustEmail(t, "guest@example.com"), "", []*domain.ProductSale{sale})
	require.NoError(t, err)
	require.NoError(t, f.sales.Update(ctx, sale))

	err = f.svc.Delete(ctx, sale.ID())
	require.Error(t, err)
	require.True(t, domain.IsConflict(err))

	// Позиция осталась в хранилище.
	_, err = f.svc.GetByID(ctx, sale.ID())
	require.NoError(t, err)
}

func TestService_DeleteRemovesCartSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.addProduct(t, "Маргарита", "10.00")
	sale, err := f.svc.Add(ctx, cart.AddInput{
		ProductID: product.ID(),
		Email:     mustEmail(t, "guest@example.com"),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, sale.ID()))

	_, err = f.svc.GetByID(ctx, sale.ID())
	require.True(t, domain.IsNotFound(err))
}

func TestService_GetAllInCartByEmailSkipsOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.addProduct(t, "Маргарита", "10.00")
	email := mustEmail(t, "guest@example.com")

	inCart, err := f.svc.Add(ctx, cart.AddInput{ProductID: product.ID(), Email: email})
	require.NoError(t, err)

	ordered, err := f.svc.Add(ctx, cart.AddInput{ProductID: product.ID(), Email: email})
	require.NoError(t, err)

	number, err := domain.NewOrderNumber("A-101")
	require.NoError(t, err)
	_, err = domain.NewOrder(domain.NextEntityID(), number, time.Now().UTC(),
		domain.ZeroPrice(), email, "", []*domain.ProductSale{ordered})
	require.NoError(t, err)
	require.NoError(t, f.sales.Update(ctx, ordered))

	got, err := f.svc.GetAllInCartByEmail(ctx, email)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, inCart.ID(), got[0].ID())
}
