package repositories

import (
	"context"

	"waiter/internal/models"

	"github.com/google/uuid"
)

type QuantityRepository interface {
	Create(ctx context.Context, quantity *models.Quantity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quantity, error)
	Update(ctx context.Context, quantity *models.Quantity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Quantity, error)
}

type quantityRepo struct {
	db DBTX
}

func NewQuantityRepo(db DBTX) QuantityRepository {
	return &quantityRepo{db: db}
}

func (r *quantityRepo) Create(ctx context.Context, quantity *models.Quantity) error {
	query := `
		INSERT INTO quantities (id, order_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, quantity.ID, quantity.OrderID, quantity.ProductID, quantity.Quantity)
	return translateError(err)
}

func (r *quantityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quantity, error) {
	quantity := &models.Quantity{}
	query := `
		SELECT id, order_id, product_id, quantity
		FROM quantities
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&quantity.ID, &quantity.OrderID, &quantity.ProductID, &quantity.Quantity)
	if err != nil {
		return nil, translateError(err)
	}
	return quantity, nil
}

func (r *quantityRepo) Update(ctx context.Context, quantity *models.Quantity) error {
	query := `
		UPDATE quantities
		SET order_id = $1, product_id = $2, quantity = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, quantity.OrderID, quantity.ProductID, quantity.Quantity, quantity.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quantityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quantities WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quantityRepo) List(ctx context.Context) ([]*models.Quantity, error) {
	query := `
		SELECT id, order_id, product_id, quantity
		FROM quantities
		ORDER BY order_id, id
	`
	return r.query(ctx, query)
}

func (r *quantityRepo) query(ctx context.Context, query string, args ...any) ([]*models.Quantity, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quantities := make([]*models.Quantity, 0)
	for rows.Next() {
		quantity := &models.Quantity{}
		if err := rows.Scan(&quantity.ID, &quantity.OrderID, &quantity.ProductID, &quantity.Quantity); err != nil {
			return nil, err
		}
		quantities = append(quantities, quantity)
	}
	return quantities, rows.Err()
}
