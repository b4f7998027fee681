package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// userRepository — PostgreSQL-реализация UserRepository.
type userRepository struct {
	store *Store
}

// NewUserRepository создаёт PostgreSQL-репозиторий пользователей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Add(ctx context.Context, user *domain.User) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID().UUID(), user.Email().String(), user.PasswordHash(),
		string(user.Role()), user.CreatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id domain.EntityID) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "user", id)
}

func (r *userRepository) GetByID(ctx context.Context, id domain.EntityID) (*domain.User, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id.UUID())

	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("user", id)
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email.String())

	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundKey("user", email.String())
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return result, nil
}

func scanUser(scan func(...any) error) (*domain.User, error) {
	var (
		rawID    string
		rawEmail string
		hash     []byte
		rawRole  string
		created  time.Time
	)
	if err := scan(&rawID, &rawEmail, &hash, &rawRole, &created); err != nil {
		return nil, err
	}

	id, err := domain.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	return domain.RestoreUser(id, email, hash, domain.Role(rawRole), created), nil
}

// isUniqueViolation распознаёт нарушение уникального ограничения PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.UserRepository = (*userRepository)(nil)
