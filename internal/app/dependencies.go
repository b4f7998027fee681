package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/health"
	"github.com/vladislavdragonenkov/resto/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/resto/internal/metrics"
	"github.com/vladislavdragonenkov/resto/internal/service/auth"
	"github.com/vladislavdragonenkov/resto/internal/service/cart"
	"github.com/vladislavdragonenkov/resto/internal/service/catalog"
	"github.com/vladislavdragonenkov/resto/internal/service/mailer"
	"github.com/vladislavdragonenkov/resto/internal/service/order"
	outboxsvc "github.com/vladislavdragonenkov/resto/internal/service/outbox"
	"github.com/vladislavdragonenkov/resto/internal/service/user"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
	"github.com/vladislavdragonenkov/resto/internal/storage/postgres"
)

// systemClock — доменные часы поверх настенного времени.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Dependencies — собранный граф зависимостей приложения.
type Dependencies struct {
	Orders  *order.Service
	Cart    *cart.Service
	Catalog *catalog.Service
	Users   *user.Service

	Metrics      *metrics.OrderMetrics
	Health       *health.Handler
	OutboxWorker *outboxsvc.Worker

	pgStore  *postgres.Store
	producer *kafka.Producer
}

// BuildDependencies собирает сервисы приложения. Пустой DatabaseDSN
// включает in-memory хранилище; брокеры Kafka и SMTP-релей необязательны.
func BuildDependencies(ctx context.Context, cfg Config, appVersion string) (*Dependencies, error) {
	logger := log.WithField("component", "app")
	deps := &Dependencies{
		Metrics: metrics.NewOrderMetrics(),
		Health:  health.NewHandler(appVersion),
	}

	var (
		uow          domain.UnitOfWork
		productRepo  domain.ProductRepository
		additionRepo domain.AdditionRepository
		saleRepo     domain.ProductSaleRepository
		orderRepo    domain.OrderRepository
		userRepo     domain.UserRepository
		timelineRepo domain.TimelineRepository
		outboxRepo   domain.OutboxRepository
	)

	if cfg.DatabaseDSN != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.pgStore = store

		uow = postgres.NewUnitOfWork(store)
		productRepo = postgres.NewProductRepository(store)
		additionRepo = postgres.NewAdditionRepository(store)
		saleRepo = postgres.NewProductSaleRepository(store)
		orderRepo = postgres.NewOrderRepository(store)
		userRepo = postgres.NewUserRepository(store)
		timelineRepo = postgres.NewTimelineRepository(store)
		outboxRepo = postgres.NewOutboxRepository(store)

		deps.Health.RegisterChecker("postgres", store.Ping)
		logger.Info("postgres storage initialized")
	} else {
		store := memory.NewStore()
		uow = memory.NewUnitOfWork(store)
		productRepo = memory.NewProductRepository(store)
		additionRepo = memory.NewAdditionRepository(store)
		saleRepo = memory.NewProductSaleRepository(store)
		orderRepo = memory.NewOrderRepository(store)
		userRepo = memory.NewUserRepository(store)
		timelineRepo = memory.NewTimelineRepository(store)
		outboxRepo = memory.NewOutboxRepository(store)
		logger.Warn("database_dsn is empty, using in-memory storage")
	}

	var mail domain.Mailer
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, nil, nil)
	} else {
		mail = mailer.NewMock()
		logger.Warn("smtp_addr is empty, confirmation mails are recorded in memory")
	}

	clock := systemClock{}

	secret := cfg.TokenSecret
	if secret == "" {
		secret = "dev-insecure-secret"
		logger.Warn("token_secret is empty, using development secret")
	}
	tokens, err := auth.NewHMACTokenIssuer([]byte(secret), cfg.TokenTTL, clock)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.Orders = order.NewService(
		uow, orderRepo, saleRepo, timelineRepo, outboxRepo,
		mail, clock, deps.Metrics, cfg.MailTimeout, nil,
	)
	deps.Cart = cart.NewService(saleRepo, productRepo, additionRepo, nil)
	deps.Catalog = catalog.NewService(productRepo, additionRepo, saleRepo, nil)
	deps.Users = user.NewService(userRepo, tokens, clock, nil)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.producer = producer
			publisher := kafka.NewOutboxPublisher(producer, cfg.KafkaOrderTopic)
			deps.OutboxWorker = outboxsvc.NewWorker(outboxRepo, publisher)
			logger.WithField("brokers", strings.Join(cfg.KafkaBrokers, ",")).Info("kafka producer initialized")
		}
	}
	if deps.OutboxWorker == nil {
		logger.Warn("kafka is not configured, outbox events stay pending")
	}

	return deps, nil
}

// Close освобождает внешние ресурсы графа зависимостей.
func (d *Dependencies) Close() {
	logger := log.WithField("component", "app")
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		}
	}
	if d.pgStore != nil {
		if err := d.pgStore.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
