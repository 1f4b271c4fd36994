package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"waiter/internal/models"
	"waiter/internal/services"
	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
	log          *logger.Logger
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService, log *logger.Logger) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		log:          log.WithComponent("order_handlers"),
	}
}

// optionalDate tells an absent date_paid apart from an explicit null.
type optionalDate struct {
	Set   bool
	Value *models.Date
}

func (o *optionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var d models.Date
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	o.Value = &d
	return nil
}

// orderRequest is the writable part of an order. id and date_created are
// not accepted from clients.
type orderRequest struct {
	Number        *int               `json:"number"`
	TableID       *int               `json:"table_id"`
	CustomerID    *int               `json:"customer_id"`
	WaiterID      *int               `json:"waiter_id"`
	State         *models.OrderState `json:"state"`
	TotalCheck    *int               `json:"total_check"`
	PercentageTip *int               `json:"percentage_tip"`
	TotalTip      *int               `json:"total_tip"`
	DatePaid      optionalDate       `json:"date_paid"`
}

func (r *orderRequest) missingField() string {
	switch {
	case r.Number == nil:
		return "number"
	case r.TableID == nil:
		return "table_id"
	case r.CustomerID == nil:
		return "customer_id"
	}
	return ""
}

func (r *orderRequest) invalidField() *services.ValidationError {
	fields := []struct {
		name  string
		value *int
	}{
		{"number", r.Number},
		{"table_id", r.TableID},
		{"customer_id", r.CustomerID},
		{"waiter_id", r.WaiterID},
		{"total_check", r.TotalCheck},
		{"percentage_tip", r.PercentageTip},
		{"total_tip", r.TotalTip},
	}
	for _, f := range fields {
		if verr := checkInt4(f.name, f.value); verr != nil {
			return verr
		}
	}
	return nil
}

func (r *orderRequest) apply(o *models.Order) {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&o.Number, r.Number)
	setInt(&o.TableID, r.TableID)
	setInt(&o.CustomerID, r.CustomerID)
	setInt(&o.WaiterID, r.WaiterID)
	setInt(&o.TotalCheck, r.TotalCheck)
	setInt(&o.PercentageTip, r.PercentageTip)
	setInt(&o.TotalTip, r.TotalTip)
	if r.State != nil {
		o.State = *r.State
	}
	if r.DatePaid.Set {
		o.DatePaid = r.DatePaid.Value
	}
}

// GetOrders handles GET /api/orders
//
//	@Summary	List orders, most recent first
//	@Tags		orders
//	@Produce	json
//	@Success	200	{array}	models.Order
//	@Router		/api/orders [get]
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders
//
//	@Summary	Create an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	models.Order
//	@Failure	400	{object}	ErrorResponse
//	@Router		/api/orders [post]
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidRequest)
	}
	if field := req.missingField(); field != "" {
		return requiredFieldError(c, field)
	}

	if verr := req.invalidField(); verr != nil {
		return serviceError(c, h.log, verr)
	}

	order := &models.Order{
		WaiterID: models.DefaultWaiterID,
		State:    models.OrderStateOrdering,
	}
	req.apply(order)

	if err := h.orderService.Create(c.Request().Context(), order); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id
//
//	@Summary	Retrieve an order
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/orders/{id} [get]
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PUT /api/orders/:id
//
//	@Summary	Replace an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/orders/{id} [put]
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	return h.update(c, false)
}

// PatchOrder handles PATCH /api/orders/:id
//
//	@Summary	Partially update an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/orders/{id} [patch]
func (h *OrderHandlers) PatchOrder(c echo.Context) error {
	return h.update(c, true)
}

func (h *OrderHandlers) update(c echo.Context, partial bool) error {
	ctx := c.Request().Context()

	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidRequest)
	}
	if !partial {
		if field := req.missingField(); field != "" {
			return requiredFieldError(c, field)
		}
	}

	if verr := req.invalidField(); verr != nil {
		return serviceError(c, h.log, verr)
	}

	order, err := h.orderService.GetByID(ctx, id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	req.apply(order)

	if err := h.orderService.Update(ctx, order); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/:id
//
//	@Summary	Delete an order and its quantities
//	@Tags		orders
//	@Param		id	path	string	true	"Order ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/orders/{id} [delete]
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	if err := h.orderService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
