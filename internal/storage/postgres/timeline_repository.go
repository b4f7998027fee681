package postgres

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// timelineRepository — PostgreSQL-реализация TimelineRepository.
type timelineRepository struct {
	store *Store
}

// NewTimelineRepository создаёт PostgreSQL-репозиторий таймлайна заказов.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{store: store}
}

func (r *timelineRepository) Append(ctx context.Context, event domain.TimelineEvent) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO order_timeline (order_id, event_type, note, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, event.OrderID.UUID(), event.Type, event.Note, event.Occurred)
	if err != nil {
		return fmt.Errorf("append timeline event: %w", err)
	}
	return nil
}

func (r *timelineRepository) List(ctx context.Context, orderID domain.EntityID) ([]domain.TimelineEvent, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT order_id, event_type, note, occurred_at
		FROM order_timeline
		WHERE order_id = $1
		ORDER BY id
	`, orderID.UUID())
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	result := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			rawOrderID string
			event      domain.TimelineEvent
		)
		if err := rows.Scan(&rawOrderID, &event.Type, &event.Note, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan timeline row: %w", err)
		}
		id, err := domain.ParseEntityID(rawOrderID)
		if err != nil {
			return nil, err
		}
		event.OrderID = id
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline rows: %w", err)
	}
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
