package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

func TestNewEntityID_RejectsNil(t *testing.T) {
	if _, err := domain.NewEntityID(uuid.Nil); !errors.Is(err, domain.ErrNilEntityID) {
		t.Fatalf("expected ErrNilEntityID, got %v", err)
	}
}

func TestParseEntityID(t *testing.T) {
	id := domain.NextEntityID()

	parsed, err := domain.ParseEntityID(id.String())
	if err != nil {
		t.Fatalf("parse valid id: %v", err)
	}
	if !parsed.Equal(id) {
		t.Fatalf("expected %s, got %s", id, parsed)
	}

	if _, err := domain.ParseEntityID("not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestNewPrice(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		ok     bool
	}{
		{name: "positive", amount: "12.50", ok: true},
		{name: "zero", amount: "0", ok: true},
		{name: "negative", amount: "-0.01", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewPrice(decimal.RequireFromString(tc.amount))
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, domain.ErrNegativePrice) {
				t.Fatalf("expected ErrNegativePrice, got %v", err)
			}
		})
	}
}

func TestPriceArithmetic(t *testing.T) {
	a := mustPrice(t, "20")
	b := mustPrice(t, "5")

	if got := a.Add(b); got.String() != "25" {
		t.Fatalf("expected 25, got %s", got)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if diff.String() != "15" {
		t.Fatalf("expected 15, got %s", diff)
	}

	if _, err := b.Sub(a); !errors.Is(err, domain.ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice for underflow, got %v", err)
	}
}

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{name: "plain", in: "a@b.com", ok: true},
		{name: "upper is normalized", in: "User@Example.COM", ok: true},
		{name: "no at", in: "example.com", ok: false},
		{name: "no domain dot", in: "a@b", ok: false},
		{name: "spaces", in: "a b@c.com", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email, err := domain.NewEmail(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidEmail) {
				t.Fatalf("expected ErrInvalidEmail, got %v (value %q)", err, email)
			}
		})
	}
}

func TestEmailEquality(t *testing.T) {
	a, _ := domain.NewEmail("A@b.com")
	b, _ := domain.NewEmail("a@B.com")
	if !a.Equal(b) {
		t.Fatal("expected case-insensitive equality")
	}
}

func TestNewOrderNumber(t *testing.T) {
	if _, err := domain.NewOrderNumber("  "); !errors.Is(err, domain.ErrEmptyOrderNumber) {
		t.Fatalf("expected ErrEmptyOrderNumber, got %v", err)
	}

	n, err := domain.NewOrderNumber("ORD-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, _ := domain.NewOrderNumber("ORD-42")
	if !n.Equal(other) {
		t.Fatal("expected value equality")
	}
}

func TestParseKinds(t *testing.T) {
	if _, err := domain.ParseProductKind("sushi"); !errors.Is(err, domain.ErrUnknownProductKind) {
		t.Fatalf("expected ErrUnknownProductKind, got %v", err)
	}
	if _, err := domain.ParseAdditionKind("ketchup?"); !errors.Is(err, domain.ErrUnknownAdditionKind) {
		t.Fatalf("expected ErrUnknownAdditionKind, got %v", err)
	}
	if _, err := domain.ParseProductKind("pizza"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mustPrice(t *testing.T, s string) domain.Price {
	t.Helper()
	p, err := domain.NewPriceFromString(s)
	if err != nil {
		t.Fatalf("price %q: %v", s, err)
	}
	return p
}
