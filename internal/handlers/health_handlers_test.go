package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLivenessCheck(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestReadinessCheck_Ready(t *testing.T) {
	ts := newTestServer(t, false)
	ts.db.On("Ping", mock.Anything).Return(nil).Once()
	ts.cache.On("Ping", mock.Anything).Return(nil).Once()

	rec := ts.do(http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","services":{"database":"healthy","redis":"healthy"}}`, rec.Body.String())
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	ts := newTestServer(t, false)
	ts.db.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	ts.cache.On("Ping", mock.Anything).Return(nil).Once()

	rec := ts.do(http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready","services":{"database":"unhealthy","redis":"healthy"}}`, rec.Body.String())
}

func TestReadinessCheck_WithoutCache(t *testing.T) {
	db := new(MockPinger)
	db.On("Ping", mock.Anything).Return(nil).Once()
	h := NewHealthHandlers(db, nil, logger.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ReadinessCheck(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","services":{"database":"healthy"}}`, rec.Body.String())
	db.AssertExpectations(t)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodGet, "/api/waiters", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found."}`, rec.Body.String())
}
