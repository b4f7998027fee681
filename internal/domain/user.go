package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User — учётная запись. В ценообразовании не участвует; уникальность
// почты обеспечивает слой хранения, а не сама сущность.
type User struct {
	id           EntityID
	email        Email
	passwordHash []byte
	role         Role
	createdAt    time.Time
}

// NewUser создаёт пользователя, хешируя пароль bcrypt-ом.
func NewUser(id EntityID, email Email, password string, role Role, createdAt time.Time) (*User, error) {
	if id.IsZero() {
		return nil, ErrNilEntityID
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInfrastructure("hash password: " + err.Error())
	}
	return &User{id: id, email: email, passwordHash: hash, role: role, createdAt: createdAt}, nil
}

// RestoreUser восстанавливает пользователя из строки хранилища.
func RestoreUser(id EntityID, email Email, passwordHash []byte, role Role, createdAt time.Time) *User {
	return &User{id: id, email: email, passwordHash: passwordHash, role: role, createdAt: createdAt}
}

func (u *User) ID() EntityID         { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() []byte { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// CheckPassword сверяет пароль с хешем.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) == nil
}

// ChangeRole меняет роль пользователя.
func (u *User) ChangeRole(role Role) error {
	parsed, err := ParseRole(string(role))
	if err != nil {
		return err
	}
	u.role = parsed
	return nil
}
