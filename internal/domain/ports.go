package domain

import (
	"context"
	"time"
)

// UnitOfWork координирует транзакцию, разделяемую репозиториями в рамках
// одной логической операции. Begin идемпотентен: контекст с уже открытой
// транзакцией возвращается как есть, поэтому вложенные сервисные вызовы
// разделяют одну транзакцию. Commit и Rollback без открытой транзакции
// завершаются ErrNoActiveTransaction; успешный Commit очищает состояние,
// и следующий Begin начинает новую транзакцию. Один unit of work привязан
// к одному запросу; разделять его между конкурентными запросами нельзя.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Clock абстрагирует настенные часы, чтобы метки времени ядра были
// детерминированы под тестом.
type Clock interface {
	Now() time.Time
}

// ProductRepository описывает требования к хранилищу товаров меню.
type ProductRepository interface {
	Add(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id EntityID) error
	// GetByID возвращает товар или NotFound-ошибку, если его нет.
	GetByID(ctx context.Context, id EntityID) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
}

// AdditionRepository описывает требования к хранилищу добавок.
type AdditionRepository interface {
	Add(ctx context.Context, addition *Addition) error
	Update(ctx context.Context, addition *Addition) error
	Delete(ctx context.Context, id EntityID) error
	GetByID(ctx context.Context, id EntityID) (*Addition, error)
	GetAll(ctx context.Context) ([]*Addition, error)
}

// ProductSaleRepository описывает требования к хранилищу позиций продаж.
// Реализации гидрируют ссылки на товар и добавку при чтении.
type ProductSaleRepository interface {
	Add(ctx context.Context, sale *ProductSale) error
	Update(ctx context.Context, sale *ProductSale) error
	Delete(ctx context.Context, id EntityID) error
	GetByID(ctx context.Context, id EntityID) (*ProductSale, error)
	GetAll(ctx context.Context) ([]*ProductSale, error)
	GetAllByOrderID(ctx context.Context, orderID EntityID) ([]*ProductSale, error)
	GetAllInCartByEmail(ctx context.Context, email Email) ([]*ProductSale, error)
	// DeleteByOrder жёстко удаляет все позиции заказа (не отвязывает).
	DeleteByOrder(ctx context.Context, orderID EntityID) error
	// AnyOrderedByProduct сообщает, ссылается ли на товар хоть одна заказанная позиция.
	AnyOrderedByProduct(ctx context.Context, productID EntityID) (bool, error)
	AnyOrderedByAddition(ctx context.Context, additionID EntityID) (bool, error)
}

// OrderRepository описывает требования к хранилищу заказов.
// Чтение возвращает заказ без позиций; гидрацию состава выполняет сервис
// через ProductSaleRepository.GetAllByOrderID.
type OrderRepository interface {
	Add(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id EntityID) error
	GetByID(ctx context.Context, id EntityID) (*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
}

// UserRepository описывает требования к хранилищу пользователей.
// Add возвращает ErrEmailTaken при нарушении уникальности почты.
type UserRepository interface {
	Add(ctx context.Context, user *User) error
	Delete(ctx context.Context, id EntityID) error
	GetByID(ctx context.Context, id EntityID) (*User, error)
	GetByEmail(ctx context.Context, email Email) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID EntityID) ([]TimelineEvent, error)
}

// OutboxRepository сохраняет события для последующей публикации.
// Enqueue участвует в транзакции активного unit of work, чтобы событие
// фиксировалось атомарно с бизнес-данными.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) error
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxPublisher публикует событие из outbox наружу; должен быть идемпотентным.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}

// Mail — письмо подтверждения заказа.
type Mail struct {
	To      Email
	Subject string
	Body    string
}

// Mailer отправляет письма. Превышение таймаута реализация обязана
// сигнализировать как ErrMailTimeout, отличимый от ошибки отправки.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// TokenIssuer выдаёт подписанные сессионные токены; механика JWT остаётся
// внешним коллаборатором и ядром не специфицируется.
type TokenIssuer interface {
	Issue(userID EntityID, email Email, role Role) (string, error)
	Verify(token string) (EntityID, error)
}
