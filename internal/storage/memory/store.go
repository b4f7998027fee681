package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// Store — in-memory хранилище для локальной разработки и тестов.
// Явно инжектируется, никакого процесс-глобального состояния.
// Сущности лежат плоскими строками, как в реляционных таблицах;
// репозитории гидрируют доменные объекты через Restore-фабрики.
type Store struct {
	mu        sync.RWMutex
	products  map[uuid.UUID]productRow
	additions map[uuid.UUID]additionRow
	sales     map[uuid.UUID]saleRow
	orders    map[uuid.UUID]orderRow
	users     map[uuid.UUID]userRow
	timeline  map[uuid.UUID][]domain.TimelineEvent
	outbox    map[string]outboxRow
}

type productRow struct {
	id    uuid.UUID
	name  string
	price domain.Price
	kind  domain.ProductKind
}

type additionRow struct {
	id    uuid.UUID
	name  string
	price domain.Price
	kind  domain.AdditionKind
}

type saleRow struct {
	id         uuid.UUID
	productID  uuid.UUID
	additionID *uuid.UUID
	orderID    *uuid.UUID
	endPrice   domain.Price
	state      domain.ProductSaleState
	email      domain.Email
}

type orderRow struct {
	id      uuid.UUID
	number  domain.OrderNumber
	created time.Time
	price   domain.Price
	email   domain.Email
	note    string
}

type userRow struct {
	id        uuid.UUID
	email     domain.Email
	hash      []byte
	role      domain.Role
	createdAt time.Time
}

type outboxRow struct {
	msg    domain.OutboxMessage
	status string
}

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products:  make(map[uuid.UUID]productRow),
		additions: make(map[uuid.UUID]additionRow),
		sales:     make(map[uuid.UUID]saleRow),
		orders:    make(map[uuid.UUID]orderRow),
		users:     make(map[uuid.UUID]userRow),
		timeline:  make(map[uuid.UUID][]domain.TimelineEvent),
		outbox:    make(map[string]outboxRow),
	}
}

// snapshot — полная копия всех таблиц для отката транзакции.
type snapshot struct {
	products  map[uuid.UUID]productRow
	additions map[uuid.UUID]additionRow
	sales     map[uuid.UUID]saleRow
	orders    map[uuid.UUID]orderRow
	users     map[uuid.UUID]userRow
	timeline  map[uuid.UUID][]domain.TimelineEvent
	outbox    map[string]outboxRow
}

func (s *Store) takeSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		products:  make(map[uuid.UUID]productRow, len(s.products)),
		additions: make(map[uuid.UUID]additionRow, len(s.additions)),
		sales:     make(map[uuid.UUID]saleRow, len(s.sales)),
		orders:    make(map[uuid.UUID]orderRow, len(s.orders)),
		users:     make(map[uuid.UUID]userRow, len(s.users)),
		timeline:  make(map[uuid.UUID][]domain.TimelineEvent, len(s.timeline)),
		outbox:    make(map[string]outboxRow, len(s.outbox)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.additions {
		snap.additions[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.timeline {
		events := make([]domain.TimelineEvent, len(v))
		copy(events, v)
		snap.timeline[k] = events
	}
	for k, v := range s.outbox {
		snap.outbox[k] = v
	}
	return snap
}

func (s *Store) restoreSnapshot(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.additions = snap.additions
	s.sales = snap.sales
	s.orders = snap.orders
	s.users = snap.users
	s.timeline = snap.timeline
	s.outbox = snap.outbox
}
