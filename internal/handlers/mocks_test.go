package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"waiter/internal/models"
	"waiter/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) List(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) UploadImage(ctx context.Context, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	args := m.Called(ctx, id, filename, reader, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) GetImageURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) List(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) FilterOrders(ctx context.Context, dateRange models.DateRange) (*models.OrderFilterResult, error) {
	args := m.Called(ctx, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderFilterResult), args.Error(1)
}

func (m *MockOrderService) DeletePaidOrders(ctx context.Context, dateRange models.DateRange) (int64, error) {
	args := m.Called(ctx, dateRange)
	return args.Get(0).(int64), args.Error(1)
}

type MockQuantityService struct {
	mock.Mock
}

func (m *MockQuantityService) Create(ctx context.Context, quantity *models.Quantity) error {
	args := m.Called(ctx, quantity)
	return args.Error(0)
}

func (m *MockQuantityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Quantity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quantity), args.Error(1)
}

func (m *MockQuantityService) Update(ctx context.Context, quantity *models.Quantity) error {
	args := m.Called(ctx, quantity)
	return args.Error(0)
}

func (m *MockQuantityService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuantityService) List(ctx context.Context) ([]*models.Quantity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Quantity), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// testServer wires every handler group to mocks behind the real router.
type testServer struct {
	echo       *echo.Echo
	products   *MockProductService
	orders     *MockOrderService
	quantities *MockQuantityService
	db         *MockPinger
	cache      *MockPinger
}

func newTestServer(t *testing.T, imageUploads bool) *testServer {
	t.Helper()
	log := logger.NewNop()
	ts := &testServer{
		products:   new(MockProductService),
		orders:     new(MockOrderService),
		quantities: new(MockQuantityService),
		db:         new(MockPinger),
		cache:      new(MockPinger),
	}
	ts.echo = NewServer(Server{
		Products:     NewProductHandlers(ts.products, log),
		Orders:       NewOrderHandlers(ts.orders, log),
		Quantities:   NewQuantityHandlers(ts.quantities, log),
		Reports:      NewReportHandlers(ts.orders, log),
		Health:       NewHealthHandlers(ts.db, ts.cache, log),
		ImageUploads: imageUploads,
		AppVersion:   "test",
		Log:          log,
	})
	t.Cleanup(func() {
		ts.products.AssertExpectations(t)
		ts.orders.AssertExpectations(t)
		ts.quantities.AssertExpectations(t)
		ts.db.AssertExpectations(t)
		ts.cache.AssertExpectations(t)
	})
	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}
