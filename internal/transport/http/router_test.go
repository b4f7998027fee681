package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/resto/internal/service/auth"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
	"github.com/vladislavdragonenkov/resto/internal/service/mailer"
	"github.com/vladislavdragonenkov/resto/internal/service/order"
	"github.com/vladislavdragonenkov/resto/internal/service/user"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
	transport "github.com/vladislavdragonenkov/resto/internal/transport/http"
)

type testClock struct{}

func (testClock) Now() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	additions := memory.NewAdditionRepository(store)
	sales := memory.NewProductSaleRepository(store)
	orders := memory.NewOrderRepository(store)
	timeline := memory.NewTimelineRepository(store)
	outbox := memory.NewOutboxRepository(store)
	users := memory.NewUserRepository(store)

	tokens, err := auth.NewHMACTokenIssuer([]byte("test-secret"), time.Hour, testClock{})
	require.NoError(t, err)

	return transport.NewRouter(transport.RouterDeps{
		Orders: order.NewService(memory.NewUnitOfWork(store), orders, sales, timeline, outbox,
			mailer.NewMock(), testClock{}, nil, time.Second, nil),
		Cart:    cart.NewService(sales, products, additions, nil),
		Catalog: catalog.NewService(products, additions, sales, nil),
		Users:   user.NewService(users, tokens, testClock{}, nil),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProduct(t *testing.T, h http.Handler, name, price string) transport.ProductDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/products", map[string]string{
		"name": name, "price": price, "kind": "pizza",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[transport.ProductDTO](t, rec)
}

func createSale(t *testing.T, h http.Handler, productID, email string) transport.ProductSaleDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/product-sales", map[string]string{
		"product_id": productID, "email": email,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[transport.ProductSaleDTO](t, rec)
}

func TestRouter_ProductCRUD(t *testing.T) {
	h := newAPI(t)

	product := createProduct(t, h, "Маргарита", "10.50")
	require.Equal(t, "10.5", product.Price)
	require.Equal(t, "pizza", product.Kind)

	rec := do(t, h, http.MethodGet, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/products/"+product.ID, map[string]string{
		"name": "Маргарита большая", "price": "12.50", "kind": "pizza",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Маргарита большая", decode[transport.ProductDTO](t, rec).Name)

	rec = do(t, h, http.MethodDelete, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/products/"+product.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ErrorKindsMapToStatuses(t *testing.T) {
	h := newAPI(t)

	// Мусорный идентификатор в пути — 400, не 404.
	rec := do(t, h, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Несуществующий товар — 404.
	rec = do(t, h, http.MethodGet, "/api/v1/products/3b51f2c0-7f5a-4e5f-9fd8-6e20dc6e7f01", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Битое тело запроса — 400.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{"))
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	require.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestRouter_OrderLifecycle(t *testing.T) {
	h := newAPI(t)

	product := createProduct(t, h, "Маргарита", "10.00")
	sale := createSale(t, h, product.ID, "guest@example.com")

	rec := do(t, h, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_number":     "A-100",
		"email":            "guest@example.com",
		"product_sale_ids": []string{sale.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[transport.OrderDTO](t, rec)
	require.Equal(t, "A-100", created.OrderNumber)
	require.Len(t, created.Products, 1)
	require.Equal(t, "10", created.Price)
	require.Equal(t, "ordered", created.Products[0].State)

	// Заказанную позицию нельзя удалить из корзины — 409.
	rec = do(t, h, http.MethodDelete, "/api/v1/product-sales/"+sale.ID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/orders/"+created.ID+"/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]transport.TimelineEventDTO](t, rec)
	require.NotEmpty(t, events)

	rec = do(t, h, http.MethodDelete, "/api/v1/orders/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Позиция вернулась в корзину.
	rec = do(t, h, http.MethodGet, "/api/v1/product-sales/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "new", decode[transport.ProductSaleDTO](t, rec).State)
}

func TestRouter_DeleteOrderWithPositions(t *testing.T) {
	h := newAPI(t)

	product := createProduct(t, h, "Маргарита", "10.00")
	sale := createSale(t, h, product.ID, "guest@example.com")

	rec := do(t, h, http.MethodPost, "/api/v1/orders", map[string]any{
		"order_number":     "A-101",
		"email":            "guest@example.com",
		"product_sale_ids": []string{sale.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[transport.OrderDTO](t, rec)

	rec = do(t, h, http.MethodDelete, "/api/v1/orders/"+created.ID+"/positions", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/product-sales/"+sale.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CartFilterByEmail(t *testing.T) {
	h := newAPI(t)

	product := createProduct(t, h, "Маргарита", "10.00")
	createSale(t, h, product.ID, "first@example.com")
	createSale(t, h, product.ID, "second@example.com")

	rec := do(t, h, http.MethodGet, "/api/v1/product-sales?email=first@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sales := decode[[]transport.ProductSaleDTO](t, rec)
	require.Len(t, sales, 1)
	require.Equal(t, "first@example.com", sales[0].Email)
}

func TestRouter_UserRegisterAndLogin(t *testing.T) {
	h := newAPI(t)

	rec := do(t, h, http.MethodPost, "/api/v1/users/register", map[string]string{
		"email": "user@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	account := decode[transport.UserDTO](t, rec)
	require.Equal(t, "user", account.Role)

	// Повторная регистрация той же почты — 409.
	rec = do(t, h, http.MethodPost, "/api/v1/users/register", map[string]string{
		"email": "user@example.com", "password": "another",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email": "user@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[map[string]string](t, rec)["token"])

	rec = do(t, h, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email": "user@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
