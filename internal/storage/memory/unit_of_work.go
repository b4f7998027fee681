package memory

import (
	"context"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

type txKey struct{}

// txState живёт в контексте запроса. Повторный Begin на контексте с
// активной транзакцией возвращает тот же контекст; Commit сбрасывает
// состояние, и следующий Begin делает свежий снимок.
type txState struct {
	snap *snapshot
}

// unitOfWork реализует доменный UnitOfWork поверх снимков хранилища:
// Rollback возвращает все таблицы к состоянию на момент Begin.
type unitOfWork struct {
	store *Store
}

// NewUnitOfWork создаёт координатор транзакций для in-memory хранилища.
func NewUnitOfWork(store *Store) domain.UnitOfWork {
	return &unitOfWork{store: store}
}

func (u *unitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		if state.snap != nil {
			return ctx, nil
		}
		state.snap = u.store.takeSnapshot()
		return ctx, nil
	}

	state := &txState{snap: u.store.takeSnapshot()}
	return context.WithValue(ctx, txKey{}, state), nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok || state.snap == nil {
		return domain.ErrNoActiveTransaction
	}
	state.snap = nil
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok || state.snap == nil {
		return domain.ErrNoActiveTransaction
	}
	u.store.restoreSnapshot(state.snap)
	state.snap = nil
	return nil
}

var _ domain.UnitOfWork = (*unitOfWork)(nil)
