package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"waiter/internal/models"
	"waiter/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_AppliesDefaults(t *testing.T) {
	ts := newTestServer(t, false)
	newID := uuid.New()

	ts.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.Number == 12 && o.TableID == 4 && o.CustomerID == 2 &&
			o.WaiterID == models.DefaultWaiterID && o.State == models.OrderStateOrdering &&
			o.TotalCheck == 0 && o.DatePaid == nil
	})).Run(func(args mock.Arguments) {
		order := args.Get(1).(*models.Order)
		order.ID = newID
		order.DateCreated = models.MustParseDate("2024-03-15")
	}).Return(nil).Once()

	rec := ts.do(http.MethodPost, "/api/orders/",
		`{"number":12,"table_id":4,"customer_id":2,"date_created":"1999-01-01","id":"ignored"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{
		"id":"`+newID.String()+`",
		"number":12,"table_id":4,"customer_id":2,"waiter_id":1,
		"state":"ORDERING","total_check":0,"percentage_tip":0,"total_tip":0,
		"date_created":"2024-03-15","date_paid":null
	}`, rec.Body.String())
}

func TestCreateOrder_MissingCustomer(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/orders", `{"number":1,"table_id":4}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer_id", decodeError(t, rec).Field)
}

func TestCreateOrder_SecondOrderingOrderRejected(t *testing.T) {
	ts := newTestServer(t, false)
	ts.orders.On("Create", mock.Anything, mock.Anything).
		Return(&services.ValidationError{Message: "An order in ORDERING state already exists for this table and customer."}).Once()

	rec := ts.do(http.MethodPost, "/api/orders", `{"number":2,"table_id":4,"customer_id":2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "ORDERING")
}

func TestCreateOrder_InvalidDatePaid(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/orders", `{"number":2,"table_id":4,"customer_id":2,"date_paid":"yesterday"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	paid := models.MustParseDate("2024-03-16")
	ts.orders.On("GetByID", mock.Anything, id).Return(&models.Order{
		ID: id, Number: 3, State: models.OrderStatePaid, TotalCheck: 40, TotalTip: 4,
		DateCreated: models.MustParseDate("2024-03-15"), DatePaid: &paid,
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/orders/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PAID", body["state"])
	assert.Equal(t, "2024-03-15", body["date_created"])
	assert.Equal(t, "2024-03-16", body["date_paid"])
}

func TestListOrders(t *testing.T) {
	ts := newTestServer(t, false)
	ts.orders.On("List", mock.Anything).Return([]*models.Order{
		{ID: uuid.New(), Number: 2, DateCreated: models.MustParseDate("2024-03-16")},
		{ID: uuid.New(), Number: 1, DateCreated: models.MustParseDate("2024-03-15")},
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "2024-03-16", orders[0].DateCreated.String())
}

func TestUpdateOrder_PutMovesToChecking(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	stored := &models.Order{
		ID: id, Number: 1, TableID: 4, CustomerID: 2, WaiterID: 1,
		State: models.OrderStateOrdering, PercentageTip: 10,
		DateCreated: models.MustParseDate("2024-03-15"),
	}
	ts.orders.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	ts.orders.On("Update", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.State == models.OrderStateChecking && o.PercentageTip == 10 &&
			o.DateCreated.String() == "2024-03-15"
	})).Return(nil).Once()

	rec := ts.do(http.MethodPut, "/api/orders/"+id.String()+"/",
		`{"number":1,"table_id":4,"customer_id":2,"state":"CHECKING","date_created":"2000-01-01"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStateChecking, order.State)
	assert.Equal(t, "2024-03-15", order.DateCreated.String())
}

func TestUpdateOrder_PutMissingNumber(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPut, "/api/orders/"+uuid.NewString(), `{"table_id":4,"customer_id":2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "number", decodeError(t, rec).Field)
}

func TestPatchOrder_ClearsDatePaidWithNull(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	paid := models.MustParseDate("2024-03-16")
	stored := &models.Order{ID: id, State: models.OrderStatePaid, DatePaid: &paid}

	ts.orders.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	ts.orders.On("Update", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.State == models.OrderStateChecking && o.DatePaid == nil
	})).Return(nil).Once()

	rec := ts.do(http.MethodPatch, "/api/orders/"+id.String(), `{"state":"CHECKING","date_paid":null}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPatchOrder_AbsentDatePaidIsKept(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	paid := models.MustParseDate("2024-03-16")
	stored := &models.Order{ID: id, State: models.OrderStatePaid, TotalTip: 1, DatePaid: &paid}

	ts.orders.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	ts.orders.On("Update", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.TotalTip == 5 && o.DatePaid != nil && o.DatePaid.String() == "2024-03-16"
	})).Return(nil).Once()

	rec := ts.do(http.MethodPatch, "/api/orders/"+id.String(), `{"total_tip":5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPatchOrder_InvalidState(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	ts.orders.On("GetByID", mock.Anything, id).Return(&models.Order{ID: id}, nil).Once()
	ts.orders.On("Update", mock.Anything, mock.Anything).
		Return(&services.ValidationError{Field: "state", Message: `"COOKING" is not a valid choice.`}).Once()

	rec := ts.do(http.MethodPatch, "/api/orders/"+id.String(), `{"state":"COOKING"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "state", decodeError(t, rec).Field)
}

func TestDeleteOrder(t *testing.T) {
	ts := newTestServer(t, false)
	id := uuid.New()
	ts.orders.On("Delete", mock.Anything, id).Return(nil).Once()

	rec := ts.do(http.MethodDelete, "/api/orders/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteOrder_MalformedID(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodDelete, "/api/orders/not-a-uuid/", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_IntegerOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"table", `{"number":1,"table_id":2147483648,"customer_id":2}`, "table_id"},
		{"check", `{"number":1,"table_id":4,"customer_id":2,"total_check":3000000000}`, "total_check"},
		{"tip", `{"number":1,"table_id":4,"customer_id":2,"total_tip":-3000000000}`, "total_tip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, false)

			rec := ts.do(http.MethodPost, "/api/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.field, decodeError(t, rec).Field)
		})
	}
}

func TestCreateOrder_LargestIntegerAccepted(t *testing.T) {
	ts := newTestServer(t, false)
	ts.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.TotalCheck == 2147483647
	})).Return(nil).Once()

	rec := ts.do(http.MethodPost, "/api/orders", `{"number":1,"table_id":4,"customer_id":2,"total_check":2147483647}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
