package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// productRepository — PostgreSQL-реализация ProductRepository.
type productRepository struct {
	store *Store
}

// NewProductRepository создаёт PostgreSQL-репозиторий товаров.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Add(ctx context.Context, product *domain.Product) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO products (id, name, price, kind) VALUES ($1, $2, $3, $4)
	`, product.ID().UUID(), product.Name(), product.Price().Decimal(), string(product.Kind()))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `
		UPDATE products SET name = $1, price = $2, kind = $3 WHERE id = $4
	`, product.Name(), product.Price().Decimal(), string(product.Kind()), product.ID().UUID())
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, "product", product.ID())
}

func (r *productRepository) Delete(ctx context.Context, id domain.EntityID) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, "product", id)
}

func (r *productRepository) GetByID(ctx context.Context, id domain.EntityID) (*domain.Product, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, price, kind FROM products WHERE id = $1
	`, id.UUID())

	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, `
		SELECT id, name, price, kind FROM products ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return result, nil
}

func scanProduct(scan func(...any) error) (*domain.Product, error) {
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
	return domain.RestoreProduct(id, name, price, domain.ProductKind(rawKind)), nil
}

// requireAffected переводит "0 строк затронуто" в NotFound-ошибку домена.
func requireAffected(res sql.Result, entity string, id domain.EntityID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFound(entity, id)
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
