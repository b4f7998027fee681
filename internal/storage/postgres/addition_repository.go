package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// additionRepository — PostgreSQL-реализация AdditionRepository.
type additionRepository struct {
	store *Store
}

// NewAdditionRepository создаёт PostgreSQL-репозиторий добавок.
func NewAdditionRepository(store *Store) domain.AdditionRepository {
	return &additionRepository{store: store}
}

func (r *additionRepository) Add(ctx context.Context, addition *domain.Addition) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO additions (id, name, price, kind) VALUES ($1, $2, $3, $4)
	`, addition.ID().UUID(), addition.Name(), addition.Price().Decimal(), string(addition.Kind()))
	if err != nil {
		return fmt.Errorf("insert addition: %w", err)
	}
	return nil
}

func (r *additionRepository) Update(ctx context.Context, addition *domain.Addition) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `
		UPDATE additions SET name = $1, price = $2, kind = $3 WHERE id = $4
	`, addition.Name(), addition.Price().Decimal(), string(addition.Kind()), addition.ID().UUID())
	if err != nil {
		return fmt.Errorf("update addition: %w", err)
	}
	return requireAffected(res, "addition", addition.ID())
}

func (r *additionRepository) Delete(ctx context.Context, id domain.EntityID) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM additions WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete addition: %w", err)
	}
	return requireAffected(res, "addition", id)
}

func (r *additionRepository) GetByID(ctx context.Context, id domain.EntityID) (*domain.Addition, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, price, kind FROM additions WHERE id = $1
	`, id.UUID())

	addition, err := scanAddition(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("addition", id)
		}
		return nil, fmt.Errorf("select addition: %w", err)
	}
	return addition, nil
}

func (r *additionRepository) GetAll(ctx context.Context) ([]*domain.Addition, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, name, price, kind FROM additions ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list additions: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Addition, 0)
	for rows.Next() {
		addition, err := scanAddition(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan addition row: %w", err)
		}
		result = append(result, addition)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addition rows: %w", err)
	}
	return result, nil
}

func scanAddition(scan func(...any) error) (*domain.Addition, error) {
	var (
		rawID    string
		name     string
		rawPrice string
		rawKind  string
	)
	if err := scan(&rawID, &name, &rawPrice, &rawKind); err != nil {
		return nil, err
	}

	id, err := domain.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewPriceFromString(rawPrice)
	if err != nil {
		return nil, err
	}
	return domain.RestoreAddition(id, name, price, domain.AdditionKind(rawKind)), nil
}

var _ domain.AdditionRepository = (*additionRepository)(nil)
