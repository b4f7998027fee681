package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// orderRepository — PostgreSQL-реализация OrderRepository.
// Репозиторий хранит шапку заказа; позиции живут в product_sales и
// подтягиваются сервисным слоем через ProductSaleRepository.
type orderRepository struct {
	store *Store
}

// NewOrderRepository создаёт PostgreSQL-репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO orders (id, order_number, created_at, price, email, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, order.ID().UUID(), order.Number().String(), order.Created(),
		order.Price().Decimal(), order.Email().String(), order.Note())
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `
		UPDATE orders
		SET order_number = $1, price = $2, email = $3, note = $4
		WHERE id = $5
	`, order.Number().String(), order.Price().Decimal(),
		order.Email().String(), order.Note(), order.ID().UUID())
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return requireAffected(res, "order", order.ID())
}

func (r *orderRepository) Delete(ctx context.Context, id domain.EntityID) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(res, "order", id)
}

func (r *orderRepository) GetByID(ctx context.Context, id domain.EntityID) (*domain.Order, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, order_number, created_at, price, email, note
		FROM orders
		WHERE id = $1
	`, id.UUID())

	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, order_number, created_at, price, email, note
		FROM orders
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return result, nil
}

func scanOrder(scan func(...any) error) (*domain.Order, error) {
	var (
		rawID     string
		rawNumber string
		created   time.Time
		rawPrice  string
		rawEmail  string
		note      string
	)
	if err := scan(&rawID, &rawNumber, &created, &rawPrice, &rawEmail, &note); err != nil {
		return nil, err
	}

	id, err := domain.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	number, err := domain.NewOrderNumber(rawNumber)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewPriceFromString(rawPrice)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	return domain.RestoreOrder(id, number, created, price, email, note, nil), nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
