package integration

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
	"github.com/vladislavdragonenkov/resto/internal/service/mailer"
	"github.com/vladislavdragonenkov/resto/internal/service/order"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// OrderLifecycleTestSuite тестирует полный жизненный цикл заказов
// поверх in-memory хранилища: каталог -> корзина -> заказ.
type OrderLifecycleTestSuite struct {
	suite.Suite
	sales    domain.ProductSaleRepository
	outbox   domain.OutboxRepository
	mailer   *mailer.Mock
	clock    *fixedClock
	catalog  *catalog.Service
	cart     *cart.Service
	orders   *order.Service
	customer domain.Email
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	additions := memory.NewAdditionRepository(store)
	suite.sales = memory.NewProductSaleRepository(store)
	orders := memory.NewOrderRepository(store)
	timeline := memory.NewTimelineRepository(store)
	suite.outbox = memory.NewOutboxRepository(store)

	suite.mailer = mailer.NewMock()
	suite.clock = &fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	suite.catalog = catalog.NewService(products, additions, suite.sales, logger)
	suite.cart = cart.NewService(suite.sales, products, additions, logger)
	suite.orders = order.NewService(
		memory.NewUnitOfWork(store),
		orders,
		suite.sales,
		timeline,
		suite.outbox,
		suite.mailer,
		suite.clock,
		nil,
		time.Second,
		logger,
	)

	email, err := domain.NewEmail("guest@example.com")
	require.NoError(suite.T(), err)
	suite.customer = email
}

func (suite *OrderLifecycleTestSuite) mustPrice(s string) domain.Price {
	price, err := domain.NewPriceFromString(s)
	require.NoError(suite.T(), err)
	return price
}

func (suite *OrderLifecycleTestSuite) mustNumber(s string) domain.OrderNumber {
	number, err := domain.NewOrderNumber(s)
	require.NoError(suite.T(), err)
	return number
}

// fillCart кладёт в корзину пиццу с соусом и напиток.
func (suite *OrderLifecycleTestSuite) fillCart(ctx context.Context) []domain.EntityID {
	pizza, err := suite.catalog.AddProduct(ctx, catalog.ProductInput{
		Name:  "Маргарита",
		Price: suite.mustPrice("10.50"),
		Kind:  domain.ProductKindPizza,
	})
	require.NoError(suite.T(), err)

	sauce, err := suite.catalog.AddAddition(ctx, catalog.AdditionInput{
		Name:  "Чесночный соус",
		Price: suite.mustPrice("1.25"),
		Kind:  domain.AdditionKindSauce,
	})
	require.NoError(suite.T(), err)

	drink, err := suite.catalog.AddProduct(ctx, catalog.ProductInput{
		Name:  "Лимонад",
		Price: suite.mustPrice("3.00"),
		Kind:  domain.ProductKindDrink,
	})
	require.NoError(suite.T(), err)

	sauceID := sauce.ID()
	first, err := suite.cart.Add(ctx, cart.AddInput{
		ProductID:  pizza.ID(),
		AdditionID: &sauceID,
		Email:      suite.customer,
	})
	require.NoError(suite.T(), err)

	second, err := suite.cart.Add(ctx, cart.AddInput{
		ProductID: drink.ID(),
		Email:     suite.customer,
	})
	require.NoError(suite.T(), err)

	return []domain.EntityID{first.ID(), second.ID()}
}

func (suite *OrderLifecycleTestSuite) TestSuccessfulOrderLifecycle() {
	ctx := context.Background()

	// 1. Наполняем корзину и создаём заказ
	saleIDs := suite.fillCart(ctx)
	created, err := suite.orders.Add(ctx, order.AddInput{
		OrderNumber:    suite.mustNumber("A-100"),
		Email:          suite.customer,
		Note:           "без лука",
		ProductSaleIDs: saleIDs,
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), created.Products(), 2)
	// 10.50 + 1.25 + 3.00
	require.True(suite.T(), suite.mustPrice("14.75").Equal(created.Price()))

	// 2. Позиции вышли из корзины
	inCart, err := suite.cart.GetAllInCartByEmail(ctx, suite.customer)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), inCart)

	// 3. Письмо-подтверждение отправлено
	require.Len(suite.T(), suite.mailer.Sent(), 1)
	require.Equal(suite.T(), suite.customer, suite.mailer.Sent()[0].To)

	// 4. Событие заказа лежит в outbox
	pending, err := suite.outbox.PullPending(ctx, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), pending, 1)
	require.Equal(suite.T(), order.EventOrderCreated, pending[0].EventType)

	// 5. Timeline фиксирует создание и запрос письма
	events, err := suite.orders.Timeline(ctx, created.ID())
	require.NoError(suite.T(), err)
	require.GreaterOrEqual(suite.T(), len(events), 2)
	require.Equal(suite.T(), domain.TimelineOrderCreated, events[0].Type)
	require.Equal(suite.T(), domain.TimelineMailRequested, events[1].Type)
}

func (suite *OrderLifecycleTestSuite) TestUpdateReshapesOrder() {
	ctx := context.Background()

	saleIDs := suite.fillCart(ctx)
	created, err := suite.orders.Add(ctx, order.AddInput{
		OrderNumber:    suite.mustNumber("A-101"),
		Email:          suite.customer,
		ProductSaleIDs: saleIDs,
	})
	require.NoError(suite.T(), err)

	// Оставляем только первую позицию
	suite.clock.now = suite.clock.now.Add(time.Minute)
	updated, err := suite.orders.Update(ctx, order.UpdateInput{
		ID:             created.ID(),
		Email:          suite.customer,
		ProductSaleIDs: saleIDs[:1],
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), updated.Products(), 1)
	require.True(suite.T(), suite.mustPrice("11.75").Equal(updated.Price()))

	// Вторая позиция вернулась в корзину
	detached, err := suite.sales.GetByID(ctx, saleIDs[1])
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.ProductSaleStateNew, detached.State())

	events, err := suite.orders.Timeline(ctx, created.ID())
	require.NoError(suite.T(), err)
	last := events[len(events)-1]
	require.Equal(suite.T(), domain.TimelineOrderUpdated, last.Type)
}

func (suite *OrderLifecycleTestSuite) TestDeleteReturnsPositionsToCart() {
	ctx := context.Background()

	saleIDs := suite.fillCart(ctx)
	created, err := suite.orders.Add(ctx, order.AddInput{
		OrderNumber:    suite.mustNumber("A-102"),
		Email:          suite.customer,
		ProductSaleIDs: saleIDs,
	})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.orders.Delete(ctx, created.ID()))

	_, err = suite.orders.GetByID(ctx, created.ID())
	require.True(suite.T(), domain.IsNotFound(err))

	inCart, err := suite.cart.GetAllInCartByEmail(ctx, suite.customer)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), inCart, 2)
}

func (suite *OrderLifecycleTestSuite) TestMailFailureDoesNotBlockOrder() {
	ctx := context.Background()

	suite.mailer.FailWith(domain.ErrMailTimeout)

	saleIDs := suite.fillCart(ctx)
	created, err := suite.orders.Add(ctx, order.AddInput{
		OrderNumber:    suite.mustNumber("A-103"),
		Email:          suite.customer,
		ProductSaleIDs: saleIDs,
	})
	require.NoError(suite.T(), err)

	// Заказ создан несмотря на таймаут письма
	_, err = suite.orders.GetByID(ctx, created.ID())
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), suite.mailer.Sent())
}

func TestOrderLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
