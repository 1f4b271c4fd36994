package repositories

import (
	"context"
	"fmt"
	"time"

	"waiter/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Order, error)
	FilterByDateRange(ctx context.Context, dateRange models.DateRange) (*models.OrderFilterResult, error)
	DeleteByStateAndDateRange(ctx context.Context, state models.OrderState, dateRange models.DateRange) (int64, error)
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, number, table_id, customer_id, waiter_id, state, total_check, percentage_tip, total_tip, date_created, date_paid`

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, number, table_id, customer_id, waiter_id, state, total_check, percentage_tip, total_tip, date_created, date_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.Number, order.TableID, order.CustomerID, order.WaiterID, order.State,
		order.TotalCheck, order.PercentageTip, order.TotalTip, order.DateCreated.Time, order.DatePaid.TimePtr())
	return translateError(err)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return order, nil
}

// Update overwrites every mutable column. date_created is never rewritten.
func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET number = $1, table_id = $2, customer_id = $3, waiter_id = $4, state = $5, total_check = $6, percentage_tip = $7, total_tip = $8, date_paid = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query, order.Number, order.TableID, order.CustomerID, order.WaiterID, order.State,
		order.TotalCheck, order.PercentageTip, order.TotalTip, order.DatePaid.TimePtr(), order.ID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order together with the quantities it owns.
func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM quantities WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("delete order quantities: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return translateError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *orderRepo) List(ctx context.Context) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY date_created DESC, number DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// FilterByDateRange selects the orders created inside the inclusive range and
// sums total_check and total_tip over the same rows in a single statement.
func (r *orderRepo) FilterByDateRange(ctx context.Context, dateRange models.DateRange) (*models.OrderFilterResult, error) {
	query := `
		SELECT ` + orderColumns + `,
			SUM(total_check) OVER () AS sum_total_check,
			SUM(total_tip) OVER () AS sum_total_tip
		FROM orders
		WHERE date_created BETWEEN $1 AND $2
		ORDER BY date_created DESC, number DESC
	`
	rows, err := r.db.Query(ctx, query, dateRange.Start.Time, dateRange.End.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &models.OrderFilterResult{Orders: make([]*models.Order, 0)}
	var sumCheck, sumTip int64
	for rows.Next() {
		order := &models.Order{}
		var datePaid *time.Time
		if err := rows.Scan(&order.ID, &order.Number, &order.TableID, &order.CustomerID, &order.WaiterID, &order.State,
			&order.TotalCheck, &order.PercentageTip, &order.TotalTip, &order.DateCreated.Time, &datePaid,
			&sumCheck, &sumTip); err != nil {
			return nil, err
		}
		order.DateCreated = models.NewDate(order.DateCreated.Time)
		order.DatePaid = models.DatePtr(datePaid)
		result.Orders = append(result.Orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The sums stay nil when nothing matched.
	if len(result.Orders) > 0 {
		result.TotalCheck = &sumCheck
		result.TotalTip = &sumTip
	}
	return result, nil
}

// DeleteByStateAndDateRange deletes the orders in the given state created
// inside the inclusive range, with their quantities, and returns how many
// orders were removed. All three steps share one statement snapshot.
func (r *orderRepo) DeleteByStateAndDateRange(ctx context.Context, state models.OrderState, dateRange models.DateRange) (int64, error) {
	query := `
		WITH doomed AS (
			SELECT id FROM orders
			WHERE state = $1 AND date_created BETWEEN $2 AND $3
			FOR UPDATE
		), removed_quantities AS (
			DELETE FROM quantities WHERE order_id IN (SELECT id FROM doomed)
		), removed_orders AS (
			DELETE FROM orders WHERE id IN (SELECT id FROM doomed)
			RETURNING id
		)
		SELECT COUNT(*) FROM removed_orders
	`
	var deleted int64
	if err := r.db.QueryRow(ctx, query, state, dateRange.Start.Time, dateRange.End.Time).Scan(&deleted); err != nil {
		return 0, translateError(err)
	}
	return deleted, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var datePaid *time.Time
	if err := row.Scan(&order.ID, &order.Number, &order.TableID, &order.CustomerID, &order.WaiterID, &order.State,
		&order.TotalCheck, &order.PercentageTip, &order.TotalTip, &order.DateCreated.Time, &datePaid); err != nil {
		return nil, err
	}
	order.DateCreated = models.NewDate(order.DateCreated.Time)
	order.DatePaid = models.DatePtr(datePaid)
	return order, nil
}
