package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"waiter/internal/models"
	"waiter/pkg/database"
	"waiter/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties every table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.NewNop()
	pool, err := database.NewPool(ctx, connString, database.PoolConfig{MaxConns: 4}, log)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db := &TestDB{Pool: pool, Cleanup: pool.Close}
	TruncateAll(t, db)
	return db
}

// TruncateAll removes every row the service owns.
func TruncateAll(t *testing.T, db *TestDB) {
	t.Helper()
	if _, err := db.Pool.Exec(context.Background(), `TRUNCATE quantities, orders, products`); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// InsertProduct stores a product straight through SQL.
func InsertProduct(t *testing.T, db *TestDB, name string, price int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Img:         name + ".jpg",
		Description: "Test " + name,
		Category:    models.CategoryMain,
	}
	query := `
		INSERT INTO products (id, name, price, img, description, category)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		product.ID, product.Name, product.Price, product.Img, product.Description, string(product.Category))
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// InsertOrder stores an order with an explicit creation date, which the
// service would otherwise stamp with today.
func InsertOrder(t *testing.T, db *TestDB, order models.Order) *models.Order {
	t.Helper()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.State == "" {
		order.State = models.OrderStateOrdering
	}
	if order.WaiterID == 0 {
		order.WaiterID = models.DefaultWaiterID
	}
	query := `
		INSERT INTO orders (id, number, table_id, customer_id, waiter_id, state, total_check, percentage_tip, total_tip, date_created, date_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		order.ID, order.Number, order.TableID, order.CustomerID, order.WaiterID, string(order.State),
		order.TotalCheck, order.PercentageTip, order.TotalTip, order.DateCreated.Time, order.DatePaid.TimePtr())
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return &order
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()
	var n int
	if err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
