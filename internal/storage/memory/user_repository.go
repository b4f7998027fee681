package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// userRepositoryInMemory — in-memory реализация UserRepository.
type userRepositoryInMemory struct {
	store *Store
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepositoryInMemory{store: store}
}

// Add сохраняет пользователя, обеспечивая уникальность почты —
// как уникальный индекс в реляционной схеме.
func (r *userRepositoryInMemory) Add(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, row := range r.store.users {
		if row.email.Equal(user.Email()) {
			return domain.ErrEmailTaken
		}
	}
	r.store.users[user.ID().UUID()] = userRow{
		id:        user.ID().UUID(),
		email:     user.Email(),
		hash:      user.PasswordHash(),
		role:      user.Role(),
		createdAt: user.CreatedAt(),
	}
	return nil
}

func (r *userRepositoryInMemory) Delete(_ context.Context, id domain.EntityID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id.UUID()]; !ok {
		return domain.NewNotFound("user", id)
	}
	delete(r.store.users, id.UUID())
	return nil
}

func (r *userRepositoryInMemory) GetByID(_ context.Context, id domain.EntityID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.users[id.UUID()]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return restoreUser(row), nil
}

func (r *userRepositoryInMemory) GetByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.users {
		if row.email.Equal(email) {
			return restoreUser(row), nil
		}
	}
	return nil, domain.NewNotFoundKey("user", email.String())
}

func (r *userRepositoryInMemory) GetAll(_ context.Context) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.store.users))
	for _, row := range r.store.users {
		result = append(result, restoreUser(row))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Email().String() < result[j].Email().String()
	})
	return result, nil
}

func restoreUser(row userRow) *domain.User {
	id, _ := domain.NewEntityID(row.id)
	return domain.RestoreUser(id, row.email, row.hash, row.role, row.createdAt)
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
