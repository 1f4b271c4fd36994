package repositories

import (
	"context"
	"testing"

	"waiter/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type QuantityRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     QuantityRepository
	quantity *models.Quantity
	context  context.Context
}

func (suite *QuantityRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewQuantityRepo(mock)
	suite.quantity = &models.Quantity{
		ID:        uuid.New(),
		OrderID:   uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
	}
	suite.context = context.Background()
}

func (suite *QuantityRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestQuantityRepoTestSuite(t *testing.T) {
	suite.Run(t, new(QuantityRepoTestSuite))
}

func (suite *QuantityRepoTestSuite) TestCreate_Success() {
	q := suite.quantity
	suite.mock.ExpectExec(`INSERT INTO quantities \(id, order_id, product_id, quantity\)`).
		WithArgs(q.ID, q.OrderID, q.ProductID, q.Quantity).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, q))
}

func (suite *QuantityRepoTestSuite) TestCreate_MissingReference() {
	q := suite.quantity
	suite.mock.ExpectExec(`INSERT INTO quantities`).
		WithArgs(q.ID, q.OrderID, q.ProductID, q.Quantity).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "quantities_product_id_fkey"})

	assert.ErrorIs(suite.T(), suite.repo.Create(suite.context, q), ErrInvalidReference)
}

func (suite *QuantityRepoTestSuite) TestGetByID_Success() {
	q := suite.quantity
	suite.mock.ExpectQuery(`FROM quantities\s+WHERE id = \$1`).
		WithArgs(q.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity"}).
			AddRow(q.ID, q.OrderID, q.ProductID, 5))

	result, err := suite.repo.GetByID(suite.context, q.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), q.OrderID, result.OrderID)
	assert.Equal(suite.T(), q.ProductID, result.ProductID)
	assert.Equal(suite.T(), 5, result.Quantity)
}

func (suite *QuantityRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM quantities\s+WHERE id = \$1`).
		WithArgs(suite.quantity.ID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.quantity.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *QuantityRepoTestSuite) TestUpdate_Success() {
	q := suite.quantity
	suite.mock.ExpectExec(`UPDATE quantities`).
		WithArgs(q.OrderID, q.ProductID, q.Quantity, q.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Update(suite.context, q))
}

func (suite *QuantityRepoTestSuite) TestUpdate_NotFound() {
	q := suite.quantity
	suite.mock.ExpectExec(`UPDATE quantities`).
		WithArgs(q.OrderID, q.ProductID, q.Quantity, q.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Update(suite.context, q), ErrNotFound)
}

func (suite *QuantityRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM quantities WHERE id = \$1`).
		WithArgs(suite.quantity.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.quantity.ID))
}

func (suite *QuantityRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM quantities WHERE id = \$1`).
		WithArgs(suite.quantity.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, suite.quantity.ID), ErrNotFound)
}

func (suite *QuantityRepoTestSuite) TestList_Success() {
	q := suite.quantity
	suite.mock.ExpectQuery(`ORDER BY order_id, id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity"}).
			AddRow(q.ID, q.OrderID, q.ProductID, q.Quantity).
			AddRow(uuid.New(), q.OrderID, uuid.New(), 1))

	quantities, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), quantities, 2)
	assert.Equal(suite.T(), q.ID, quantities[0].ID)
}
