package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/metrics"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
	"github.com/vladislavdragonenkov/resto/internal/service/order"
	"github.com/vladislavdragonenkov/resto/internal/service/user"
)

// RouterDeps — сервисы, которые обслуживает HTTP API.
type RouterDeps struct {
	Orders  *order.Service
	Cart    *cart.Service
	Catalog *catalog.Service
	Users   *user.Service
	Metrics *metrics.OrderMetrics
	Logger  *log.Entry
}

// NewRouter собирает chi-маршрутизатор API.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	products := &productHandler{catalog: deps.Catalog, logger: logger}
	additions := &additionHandler{catalog: deps.Catalog, logger: logger}
	sales := &productSaleHandler{cart: deps.Cart, logger: logger}
	orders := &orderHandler{orders: deps.Orders, logger: logger}
	users := &userHandler{users: deps.Users, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.list)
			r.Post("/", products.create)
			r.Get("/{id}", products.get)
			r.Put("/{id}", products.update)
			r.Delete("/{id}", products.delete)
		})
		r.Route("/additions", func(r chi.Router) {
			r.Get("/", additions.list)
			r.Post("/", additions.create)
			r.Get("/{id}", additions.get)
			r.Put("/{id}", additions.update)
			r.Delete("/{id}", additions.delete)
		})
		r.Route("/product-sales", func(r chi.Router) {
			r.Get("/", sales.list)
			r.Post("/", sales.create)
			r.Get("/{id}", sales.get)
			r.Put("/{id}", sales.update)
			r.Delete("/{id}", sales.delete)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.list)
			r.Post("/", orders.create)
			r.Get("/{id}", orders.get)
			r.Put("/{id}", orders.update)
			r.Delete("/{id}", orders.delete)
			r.Delete("/{id}/positions", orders.deleteWithPositions)
			r.Get("/{id}/timeline", orders.timeline)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.list)
			r.Post("/register", users.register)
			r.Post("/login", users.login)
			r.Get("/{id}", users.get)
			r.Delete("/{id}", users.delete)
		})
	})

	return r
}

// metricsMiddleware наблюдает длительность запросов по шаблону маршрута,
// а не по сырому пути, чтобы не плодить кардинальность меток.
func metricsMiddleware(m *metrics.OrderMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
		})
	}
}
