package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

type txKey struct{}

// txCarrier живёт в контексте запроса и несёт открытую транзакцию.
// Мутируемый носитель нужен, чтобы Commit очищал состояние, а следующий
// Begin на том же контексте открывал новую транзакцию.
type txCarrier struct {
	tx *sql.Tx
}

// txFrom достаёт активную транзакцию из контекста, если она открыта.
func txFrom(ctx context.Context) *sql.Tx {
	if carrier, ok := ctx.Value(txKey{}).(*txCarrier); ok {
		return carrier.tx
	}
	return nil
}

// unitOfWork реализует доменный UnitOfWork поверх sql.Tx. Один экземпляр
// обслуживает один запрос; между конкурентными запросами не разделяется.
type unitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork создаёт координатор транзакций поверх подключения Store.
func NewUnitOfWork(store *Store) domain.UnitOfWork {
	return &unitOfWork{db: store.DB()}
}

// Begin открывает транзакцию и кладёт её в контекст. Контекст с уже
// открытой транзакцией возвращается без изменений.
func (u *unitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if carrier, ok := ctx.Value(txKey{}).(*txCarrier); ok {
		if carrier.tx != nil {
			return ctx, nil
		}
		tx, err := u.db.BeginTx(ctx, nil)
		if err != nil {
			return ctx, fmt.Errorf("begin transaction: %w", err)
		}
		carrier.tx = tx
		return ctx, nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey{}, &txCarrier{tx: tx}), nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	carrier, ok := ctx.Value(txKey{}).(*txCarrier)
	if !ok || carrier.tx == nil {
		return domain.ErrNoActiveTransaction
	}

	err := carrier.tx.Commit()
	carrier.tx = nil
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	carrier, ok := ctx.Value(txKey{}).(*txCarrier)
	if !ok || carrier.tx == nil {
		return domain.ErrNoActiveTransaction
	}

	err := carrier.tx.Rollback()
	carrier.tx = nil
	if err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

var _ domain.UnitOfWork = (*unitOfWork)(nil)
