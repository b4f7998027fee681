package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// productSaleRepository — PostgreSQL-реализация ProductSaleRepository.
// Чтение гидрирует ссылки на товар и добавку одним join-ом, чтобы
// доменные мутации позиции всегда располагали ценами компонентов.
type productSaleRepository struct {
	store *Store
}

// NewProductSaleRepository создаёт PostgreSQL-репозиторий позиций продаж.
func NewProductSaleRepository(store *Store) domain.ProductSaleRepository {
	return &productSaleRepository{store: store}
}

const saleSelect = `
	SELECT s.id, s.end_price, s.state, s.email, s.order_id,
	       p.id, p.name, p.price, p.kind,
	       a.id, a.name, a.price, a.kind
	FROM product_sales s
	JOIN products p ON p.id = s.product_id
	LEFT JOIN additions a ON a.id = s.addition_id
`

func (r *productSaleRepository) Add(ctx context.Context, sale *domain.ProductSale) error {
	additionID, orderID := saleRefs(sale)
	_, err := r.store.q(ctx).ExecContext(ctx, `
		INSERT INTO product_sales (id, product_id, addition_id, order_id, end_price, state, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sale.ID().UUID(), sale.ProductID().UUID(), additionID, orderID,
		sale.EndPrice().Decimal(), string(sale.State()), sale.Email().String())
	if err != nil {
		return fmt.Errorf("insert product sale: %w", err)
	}
	return nil
}

func (r *productSaleRepository) Update(ctx context.Context, sale *domain.ProductSale) error {
	additionID, orderID := saleRefs(sale)
	res, err := r.store.q(ctx).ExecContext(ctx, `
		UPDATE product_sales
		SET product_id = $1, addition_id = $2, order_id = $3, end_price = $4, state = $5, email = $6
		WHERE id = $7
	`, sale.ProductID().UUID(), additionID, orderID,
		sale.EndPrice().Decimal(), string(sale.State()), sale.Email().String(), sale.ID().UUID())
	if err != nil {
		return fmt.Errorf("update product sale: %w", err)
	}
	return requireAffected(res, "product_sale", sale.ID())
}

func (r *productSaleRepository) Delete(ctx context.Context, id domain.EntityID) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM product_sales WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete product sale: %w", err)
	}
	return requireAffected(res, "product_sale", id)
}

func (r *productSaleRepository) GetByID(ctx context.Context, id domain.EntityID) (*domain.ProductSale, error) {
	row := r.store.q(ctx).QueryRowContext(ctx, saleSelect+` WHERE s.id = $1`, id.UUID())

	sale, err := scanSale(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("product_sale", id)
		}
		return nil, fmt.Errorf("select product sale: %w", err)
	}
	return sale, nil
}

func (r *productSaleRepository) GetAll(ctx context.Context) ([]*domain.ProductSale, error) {
	return r.list(ctx, saleSelect+` ORDER BY s.id`)
}

func (r *productSaleRepository) GetAllByOrderID(ctx context.Context, orderID domain.EntityID) ([]*domain.ProductSale, error) {
	return r.list(ctx, saleSelect+` WHERE s.order_id = $1 ORDER BY s.id`, orderID.UUID())
}

func (r *productSaleRepository) GetAllInCartByEmail(ctx context.Context, email domain.Email) ([]*domain.ProductSale, error) {
	return r.list(ctx, saleSelect+` WHERE s.email = $1 AND s.state = $2 ORDER BY s.id`,
		email.String(), string(domain.ProductSaleStateNew))
}

func (r *productSaleRepository) DeleteByOrder(ctx context.Context, orderID domain.EntityID) error {
	_, err := r.store.q(ctx).ExecContext(ctx, `
		DELETE FROM product_sales WHERE order_id = $1
	`, orderID.UUID())
	if err != nil {
		return fmt.Errorf("delete product sales by order: %w", err)
	}
	return nil
}

func (r *productSaleRepository) AnyOrderedByProduct(ctx context.Context, productID domain.EntityID) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM product_sales WHERE product_id = $1 AND state = $2
		)
	`, productID.UUID(), string(domain.ProductSaleStateOrdered))
}

func (r *productSaleRepository) AnyOrderedByAddition(ctx context.Context, additionID domain.EntityID) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM product_sales WHERE addition_id = $1 AND state = $2
		)
	`, additionID.UUID(), string(domain.ProductSaleStateOrdered))
}

func (r *productSaleRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.store.q(ctx).QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("check product sale reference: %w", err)
	}
	return found, nil
}

func (r *productSaleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ProductSale, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product sales: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.ProductSale, 0)
	for rows.Next() {
		sale, err := scanSale(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product sale row: %w", err)
		}
		result = append(result, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product sale rows: %w", err)
	}
	return result, nil
}

func scanSale(scan func(...any) error) (*domain.ProductSale, error) {
	var (
		rawID       string
		rawEndPrice string
		rawState    string
		rawEmail    string
		rawOrderID  sql.NullString

		rawProductID    string
		productName     string
		rawProductPrice string
		rawProductKind  string

		rawAdditionID    sql.NullString
		additionName     sql.NullString
		rawAdditionPrice sql.NullString
		rawAdditionKind  sql.NullString
	)
	if err := scan(
		&rawID, &rawEndPrice, &rawState, &rawEmail, &rawOrderID,
		&rawProductID, &productName, &rawProductPrice, &rawProductKind,
		&rawAdditionID, &additionName, &rawAdditionPrice, &rawAdditionKind,
	); err != nil {
		return nil, err
	}

	id, err := domain.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	endPrice, err := domain.NewPriceFromString(rawEndPrice)
	if err != nil {
		return nil, err
	}
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	productID, err := domain.ParseEntityID(rawProductID)
	if err != nil {
		return nil, err
	}
	productPrice, err := domain.NewPriceFromString(rawProductPrice)
	if err != nil {
		return nil, err
	}
	product := domain.RestoreProduct(productID, productName, productPrice, domain.ProductKind(rawProductKind))

	var addition *domain.Addition
	if rawAdditionID.Valid {
		additionID, err := domain.ParseEntityID(rawAdditionID.String)
		if err != nil {
			return nil, err
		}
		additionPrice, err := domain.NewPriceFromString(rawAdditionPrice.String)
		if err != nil {
			return nil, err
		}
		addition = domain.RestoreAddition(additionID, additionName.String, additionPrice, domain.AdditionKind(rawAdditionKind.String))
	}

	var orderID *domain.EntityID
	if rawOrderID.Valid {
		value, err := domain.ParseEntityID(rawOrderID.String)
		if err != nil {
			return nil, err
		}
		orderID = &value
	}

	return domain.RestoreProductSale(
		id, product, addition, orderID, endPrice, domain.ProductSaleState(rawState), email,
	), nil
}

// saleRefs готовит nullable-ссылки позиции для записи.
func saleRefs(sale *domain.ProductSale) (additionID, orderID any) {
	if id, ok := sale.AdditionID(); ok {
		additionID = id.UUID()
	}
	if id, ok := sale.OrderID(); ok {
		orderID = id.UUID()
	}
	return additionID, orderID
}

var _ domain.ProductSaleRepository = (*productSaleRepository)(nil)
