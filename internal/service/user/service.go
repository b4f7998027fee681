package user

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// RegisterInput описывает запрос на регистрацию пользователя.
type RegisterInput struct {
	Email    domain.Email
	Password string
	Role     domain.Role
}

// Service управляет учётными записями и выдаёт сессионные токены.
type Service struct {
	users  domain.UserRepository
	tokens domain.TokenIssuer
	clock  domain.Clock
	logger *log.Entry
}

// NewService конструирует сервис пользователей.
func NewService(
	users domain.UserRepository,
	tokens domain.TokenIssuer,
	clock domain.Clock,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "user-service")
	}
	return &Service{users: users, tokens: tokens, clock: clock, logger: logger}
}

// Register создаёт учётную запись. Занятая почта возвращается как
// ErrEmailTaken из слоя хранения.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	account, err := domain.NewUser(domain.NextEntityID(), in.Email, in.Password, role, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Add(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login сверяет пароль и выдаёт подписанный токен. Несуществующая почта и
// неверный пароль дают один и тот же ответ, чтобы не раскрывать, какая из
// двух проверок не прошла.
func (s *Service) Login(ctx context.Context, email domain.Email, password string) (string, error) {
	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.NewValidation("invalid email or password")
		}
		return "", err
	}
	if !account.CheckPassword(password) {
		return "", domain.NewValidation("invalid email or password")
	}
	return s.tokens.Issue(account.ID(), account.Email(), account.Role())
}

// GetByID возвращает пользователя по идентификатору.
func (s *Service) GetByID(ctx context.Context, id domain.EntityID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetAll возвращает всех пользователей.
func (s *Service) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.GetAll(ctx)
}

// Delete удаляет учётную запись.
func (s *Service) Delete(ctx context.Context, id domain.EntityID) error {
	return s.users.Delete(ctx, id)
}
