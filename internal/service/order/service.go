package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/metrics"
)

const defaultMailTimeout = 5 * time.Second

// События жизненного цикла заказа, публикуемые через outbox.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// AddInput описывает запрос на создание заказа. Цена клиентом не передаётся:
// она всегда выводится на сервере из endPrice привязанных позиций.
type AddInput struct {
	OrderNumber    domain.OrderNumber
	Email          domain.Email
	Note           string
	ProductSaleIDs []domain.EntityID
}

// UpdateInput описывает запрос на изменение заказа. ProductSaleIDs задаёт
// итоговый состав: отсутствующие в списке позиции отвязываются.
type UpdateInput struct {
	ID             domain.EntityID
	Email          domain.Email
	Note           string
	ProductSaleIDs []domain.EntityID
}

// Service — транзакционное ядро заказов. Все мутации идут через unit of
// work: сначала строка заказа, затем зависимые позиции; любая ошибка внутри
// транзакции откатывает её целиком и возвращается вызывающему без перевода.
type Service struct {
	uow         domain.UnitOfWork
	orders      domain.OrderRepository
	sales       domain.ProductSaleRepository
	timeline    domain.TimelineRepository
	outbox      domain.OutboxRepository
	mailer      domain.Mailer
	clock       domain.Clock
	metrics     *metrics.OrderMetrics
	logger      *log.Entry
	mailTimeout time.Duration
}

// NewService конструирует сервис заказов с зависимостями.
func NewService(
	uow domain.UnitOfWork,
	orders domain.OrderRepository,
	sales domain.ProductSaleRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	mailer domain.Mailer,
	clock domain.Clock,
	orderMetrics *metrics.OrderMetrics,
	mailTimeout time.Duration,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	if mailTimeout <= 0 {
		mailTimeout = defaultMailTimeout
	}
	return &Service{
		uow:         uow,
		orders:      orders,
		sales:       sales,
		timeline:    timeline,
		outbox:      outbox,
		mailer:      mailer,
		clock:       clock,
		metrics:     orderMetrics,
		logger:      logger,
		mailTimeout: mailTimeout,
	}
}

// Add создаёт заказ из уже существующих позиций корзины.
// Разрешение идентификаторов выполняется до открытия транзакции: частично
// некорректный запрос не доходит до транзакционной границы.
func (s *Service) Add(ctx context.Context, in AddInput) (*domain.Order, error) {
	resolved, err := s.resolveSales(ctx, in.ProductSaleIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order, err := domain.NewOrder(
		domain.NextEntityID(), in.OrderNumber, now, domain.ZeroPrice(), in.Email, in.Note, resolved,
	)
	if err != nil {
		return nil, err
	}
	order.RecomputePrice()

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.persistCreated(txCtx, order, now); err != nil {
		s.rollback(txCtx)
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.sendConfirmation(order)
	return order, nil
}

func (s *Service) persistCreated(ctx context.Context, order *domain.Order, now time.Time) error {
	if err := s.orders.Add(ctx, order); err != nil {
		return err
	}
	for _, sale := range order.Products() {
		if err := s.sales.Update(ctx, sale); err != nil {
			return err
		}
	}
	if err := s.appendTimeline(ctx, order.ID(), domain.TimelineOrderCreated, "", now); err != nil {
		return err
	}
	if err := s.appendTimeline(ctx, order.ID(), domain.TimelineMailRequested, order.Email().String(), now); err != nil {
		return err
	}
	return s.enqueueEvent(ctx, order, EventOrderCreated, now)
}

// Update применяет изменения почты и примечания и приводит состав заказа к
// запрошенному набору позиций. Пересчёт цены происходит строго после того,
// как все изменения состава применены.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.Order, error) {
	order, err := s.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	order.ChangeEmail(in.Email)
	order.ChangeNote(in.Note)

	added, removed, err := s.diffMembership(ctx, order, in.ProductSaleIDs)
	if err != nil {
		return nil, err
	}
	order.RecomputePrice()

	now := s.clock.Now()
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.persistUpdated(txCtx, order, added, removed, now); err != nil {
		s.rollback(txCtx)
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderUpdated()
	}
	return order, nil
}

// diffMembership сводит состав заказа к запрошенному набору идентификаторов.
// Новые позиции разрешаются через репозиторий и привязываются, выпавшие из
// набора отвязываются; attach/detach не трогает endPrice, поэтому пересчёт
// цены безопасно откладывается до конца всей серии.
func (s *Service) diffMembership(
	ctx context.Context, order *domain.Order, requested []domain.EntityID,
) (added, removed []*domain.ProductSale, err error) {
	want := make(map[uuid.UUID]struct{}, len(requested))
	for _, id := range requested {
		want[id.UUID()] = struct{}{}
	}

	for _, sale := range append([]*domain.ProductSale(nil), order.Products()...) {
		if _, ok := want[sale.ID().UUID()]; ok {
			continue
		}
		if err := sale.DetachOrder(); err != nil {
			return nil, nil, err
		}
		if err := order.RemoveProduct(sale); err != nil {
			return nil, nil, err
		}
		removed = append(removed, sale)
	}

	for _, id := range requested {
		if order.Contains(id) {
			continue
		}
		sale, err := s.sales.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if err := sale.AttachOrder(order); err != nil {
			return nil, nil, err
		}
		if err := order.AddProduct(sale); err != nil {
			return nil, nil, err
		}
		added = append(added, sale)
	}
	return added, removed, nil
}

func (s *Service) persistUpdated(
	ctx context.Context, order *domain.Order, added, removed []*domain.ProductSale, now time.Time,
) error {
	if err := s.orders.Update(ctx, order); err != nil {
		return err
	}
	for _, sale := range added {
		if err := s.sales.Update(ctx, sale); err != nil {
			return err
		}
	}
	for _, sale := range removed {
		if err := s.sales.Update(ctx, sale); err != nil {
			return err
		}
	}
	if err := s.appendTimeline(ctx, order.ID(), domain.TimelineOrderUpdated, "", now); err != nil {
		return err
	}
	return s.enqueueEvent(ctx, order, EventOrderUpdated, now)
}

// Delete удаляет запись заказа, отвязывая его позиции: они возвращаются в
// состояние new и остаются в корзине.
func (s *Service) Delete(ctx context.Context, id domain.EntityID) error {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	detached := order.Products()
	for _, sale := range detached {
		if err := sale.DetachOrder(); err != nil {
			return err
		}
	}

	now := s.clock.Now()
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := s.persistDeleted(txCtx, order, detached, now); err != nil {
		s.rollback(txCtx)
		return err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	return nil
}

func (s *Service) persistDeleted(
	ctx context.Context, order *domain.Order, detached []*domain.ProductSale, now time.Time,
) error {
	if err := s.orders.Delete(ctx, order.ID()); err != nil {
		return err
	}
	for _, sale := range detached {
		if err := s.sales.Update(ctx, sale); err != nil {
			return err
		}
	}
	if err := s.appendTimeline(ctx, order.ID(), domain.TimelineOrderDeleted, "positions detached", now); err != nil {
		return err
	}
	return s.enqueueEvent(ctx, order, EventOrderDeleted, now)
}

// DeleteWithPositions удаляет заказ вместе с его позициями (жёсткое
// удаление, не отвязка).
func (s *Service) DeleteWithPositions(ctx context.Context, id domain.EntityID) error {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := s.persistPurged(txCtx, order, now); err != nil {
		s.rollback(txCtx)
		return err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	return nil
}

func (s *Service) persistPurged(ctx context.Context, order *domain.Order, now time.Time) error {
	if err := s.sales.DeleteByOrder(ctx, order.ID()); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, order.ID()); err != nil {
		return err
	}
	if err := s.appendTimeline(ctx, order.ID(), domain.TimelineOrderDeleted, "positions purged", now); err != nil {
		return err
	}
	return s.enqueueEvent(ctx, order, EventOrderDeleted, now)
}

// GetByID возвращает заказ с гидрированным составом позиций.
func (s *Service) GetByID(ctx context.Context, id domain.EntityID) (*domain.Order, error) {
	header, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.GetAllByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.RestoreOrder(
		header.ID(), header.Number(), header.Created(),
		header.Price(), header.Email(), header.Note(), sales,
	), nil
}

// GetAll возвращает все заказы с составом.
func (s *Service) GetAll(ctx context.Context) ([]*domain.Order, error) {
	headers, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Order, 0, len(headers))
	for _, header := range headers {
		order, err := s.GetByID(ctx, header.ID())
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

// Timeline возвращает события жизненного цикла заказа.
func (s *Service) Timeline(ctx context.Context, id domain.EntityID) ([]domain.TimelineEvent, error) {
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.timeline.List(ctx, id)
}

func (s *Service) resolveSales(ctx context.Context, ids []domain.EntityID) ([]*domain.ProductSale, error) {
	resolved := make([]*domain.ProductSale, 0, len(ids))
	for _, id := range ids {
		sale, err := s.sales.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, sale)
	}
	return resolved, nil
}

func (s *Service) appendTimeline(
	ctx context.Context, orderID domain.EntityID, eventType, note string, now time.Time,
) error {
	return s.timeline.Append(ctx, domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Note:     note,
		Occurred: now,
	})
}

// enqueueEvent записывает событие заказа в outbox той же транзакцией,
// что и бизнес-данные.
func (s *Service) enqueueEvent(ctx context.Context, order *domain.Order, eventType string, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":     order.ID().String(),
		"order_number": order.Number().String(),
		"email":        order.Email().String(),
		"price":        order.Price().String(),
		"positions":    len(order.Products()),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return s.outbox.Enqueue(ctx, domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: "order",
		AggregateID:   order.ID().String(),
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	})
}

// sendConfirmation отправляет письмо подтверждения после коммита. Ошибка
// отправки не отменяет уже зафиксированный заказ; таймаут логируется
// отдельно от прочих сбоев.
func (s *Service) sendConfirmation(order *domain.Order) {
	if s.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
	defer cancel()

	mail := domain.Mail{
		To:      order.Email(),
		Subject: fmt.Sprintf("Order %s confirmed", order.Number().String()),
		Body: fmt.Sprintf("Your order %s for %s has been placed.",
			order.Number().String(), order.Price().String()),
	}
	err := s.mailer.Send(ctx, mail)
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.RecordMailSent()
		}
	case errors.Is(err, domain.ErrMailTimeout):
		if s.metrics != nil {
			s.metrics.RecordMailTimeout()
		}
		s.logger.WithField("order_id", order.ID().String()).Warn("confirmation mail timed out")
	default:
		if s.metrics != nil {
			s.metrics.RecordMailFailed()
		}
		s.logger.WithError(err).WithField("order_id", order.ID().String()).Warn("confirmation mail failed")
	}
}

func (s *Service) rollback(ctx context.Context) {
	if err := s.uow.Rollback(ctx); err != nil && !errors.Is(err, domain.ErrNoActiveTransaction) {
		s.logger.WithError(err).Warn("transaction rollback failed")
	}
}
