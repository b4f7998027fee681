package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/resto/internal/domain"
	"github.com/vladislavdragonenkov/resto/internal/storage/memory"
)

func newProduct(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	p, err := domain.NewPriceFromString(price)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	product, err := domain.NewProduct(domain.NextEntityID(), name, p, domain.ProductKindPizza)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestUnitOfWork_BeginIsIdempotent(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())

	ctx, err := uow.Begin(context.Background())
	if err != nil {
		t.Fatalf("first Begin failed: %v", err)
	}
	again, err := uow.Begin(ctx)
	if err != nil {
		t.Fatalf("second Begin failed: %v", err)
	}
	if again != ctx {
		t.Fatal("expected second Begin to return the same context")
	}

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func TestUnitOfWork_CommitWithoutBeginFails(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())

	if err := uow.Commit(context.Background()); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("expected ErrNoActiveTransaction, got %v", err)
	}
	if err := uow.Rollback(context.Background()); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("expected ErrNoActiveTransaction, got %v", err)
	}
}

func TestUnitOfWork_CommitClearsState(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())

	ctx, err := uow.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Повторный commit без нового begin должен упасть.
	if err := uow.Commit(ctx); !errors.Is(err, domain.ErrNoActiveTransaction) {
		t.Fatalf("expected ErrNoActiveTransaction after commit, got %v", err)
	}

	// Begin на том же контексте открывает новую транзакцию.
	ctx2, err := uow.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin after commit failed: %v", err)
	}
	if err := uow.Rollback(ctx2); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store)
	products := memory.NewProductRepository(store)

	kept := newProduct(t, "Margherita", "20")
	if err := products.Add(context.Background(), kept); err != nil {
		t.Fatalf("Add before transaction failed: %v", err)
	}

	ctx, err := uow.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	discarded := newProduct(t, "Pepperoni", "25")
	if err := products.Add(ctx, discarded); err != nil {
		t.Fatalf("Add inside transaction failed: %v", err)
	}
	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if _, err := products.GetByID(context.Background(), kept.ID()); err != nil {
		t.Fatalf("pre-transaction write must survive rollback: %v", err)
	}
	if _, err := products.GetByID(context.Background(), discarded.ID()); !domain.IsNotFound(err) {
		t.Fatalf("expected rolled back product to be absent, got %v", err)
	}
}

func TestUnitOfWork_CommitKeepsWrites(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store)
	products := memory.NewProductRepository(store)

	ctx, err := uow.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	product := newProduct(t, "Margherita", "20")
	if err := products.Add(ctx, product); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if _, err := products.GetByID(context.Background(), product.ID()); err != nil {
		t.Fatalf("committed product must be readable: %v", err)
	}
}
