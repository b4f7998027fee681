package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

func TestNewUser(t *testing.T) {
	now := time.Now().UTC()
	user, err := domain.NewUser(domain.NextEntityID(), makeEmail(t), "s3cret", domain.RoleUser, now)
	if err != nil {
		t.Fatalf("new user: %v", err)
	}

	if !user.CheckPassword("s3cret") {
		t.Fatal("expected password to verify")
	}
	if user.CheckPassword("wrong") {
		t.Fatal("expected wrong password to fail")
	}
	if string(user.PasswordHash()) == "s3cret" {
		t.Fatal("password must not be stored in plain text")
	}
}

func TestNewUser_Validation(t *testing.T) {
	now := time.Now().UTC()

	if _, err := domain.NewUser(domain.NextEntityID(), makeEmail(t), "", domain.RoleUser, now); !errors.Is(err, domain.ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if _, err := domain.NewUser(domain.NextEntityID(), makeEmail(t), "pw", domain.Role("chef"), now); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := domain.NewUser(domain.NextEntityID(), makeEmail(t), "pw", domain.RoleUser, time.Now().UTC())
	if err != nil {
		t.Fatalf("new user: %v", err)
	}

	if err := user.ChangeRole(domain.RoleAdmin); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if user.Role() != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", user.Role())
	}
	if err := user.ChangeRole(domain.Role("root")); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
