package handlers

import (
	"context"
	"net/http"
	"time"

	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

// Pinger is anything whose connectivity can be checked, such as the pgx pool
// or the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles liveness and readiness probes
type HealthHandlers struct {
	db    Pinger
	cache Pinger
	log   *logger.Logger
}

// NewHealthHandlers creates the probe handlers. cache may be nil when Redis
// is not configured.
func NewHealthHandlers(db Pinger, cache Pinger, log *logger.Logger) *HealthHandlers {
	return &HealthHandlers{
		db:    db,
		cache: cache,
		log:   log.WithComponent("health_handlers"),
	}
}

// LivenessCheck handles GET /health
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// ReadinessCheck handles GET /health/ready
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"database": "healthy"}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database not ready", "error", err)
		checks["database"] = "unhealthy"
		ready = false
	}
	if h.cache != nil {
		checks["redis"] = "healthy"
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("redis not ready", "error", err)
			checks["redis"] = "unhealthy"
			ready = false
		}
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "not_ready",
			"services": checks,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ready",
		"services": checks,
	})
}
