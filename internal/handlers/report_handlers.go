package handlers

import (
	"net/http"

	"waiter/internal/models"
	"waiter/internal/services"
	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHandlers serves the date-range filter and the paid-order bulk delete.
type ReportHandlers struct {
	orderService services.OrderService
	log          *logger.Logger
}

func NewReportHandlers(orderService services.OrderService, log *logger.Logger) *ReportHandlers {
	return &ReportHandlers{
		orderService: orderService,
		log:          log.WithComponent("report_handlers"),
	}
}

// DateRangeRequest carries the raw dates. Any JSON type is accepted here so
// the validation can tell "missing" from "malformed".
type DateRangeRequest struct {
	StartDate any `json:"start_date" swaggertype:"string" example:"2023-01-01"`
	EndDate   any `json:"end_date" swaggertype:"string" example:"2023-12-31"`
}

func (h *ReportHandlers) bindDateRange(c echo.Context) (models.DateRange, error) {
	var req DateRangeRequest
	if err := c.Bind(&req); err != nil {
		return models.DateRange{}, &services.ValidationError{Message: services.MsgDatesRequired}
	}
	return services.ParseDateRange(req.StartDate, req.EndDate)
}

// FilterOrders handles POST /api/filter
//
//	@Summary	Orders created in a date range with check and tip totals
//	@Tags		reports
//	@Accept		json
//	@Produce	json
//	@Param		request	body		DateRangeRequest	true	"Inclusive date range"
//	@Success	200		{object}	models.OrderFilterResult
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/filter [post]
func (h *ReportHandlers) FilterOrders(c echo.Context) error {
	dateRange, err := h.bindDateRange(c)
	if err != nil {
		return serviceError(c, h.log, err)
	}

	result, err := h.orderService.FilterOrders(c.Request().Context(), dateRange)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeletePaidOrders handles POST /api/delete
//
//	@Summary	Delete PAID orders created in a date range
//	@Tags		reports
//	@Accept		json
//	@Produce	json
//	@Param		request	body		DateRangeRequest	true	"Inclusive date range"
//	@Success	200		{object}	models.OrderDeleteResult
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/delete [post]
func (h *ReportHandlers) DeletePaidOrders(c echo.Context) error {
	dateRange, err := h.bindDateRange(c)
	if err != nil {
		return serviceError(c, h.log, err)
	}

	deleted, err := h.orderService.DeletePaidOrders(c.Request().Context(), dateRange)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, models.OrderDeleteResult{OrdersDeleted: deleted})
}
