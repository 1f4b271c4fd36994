package handlers

import (
	"net/http"

	"waiter/internal/models"
	"waiter/internal/services"
	"waiter/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// QuantityHandlers handles HTTP requests for order line items
type QuantityHandlers struct {
	quantityService services.QuantityService
	log             *logger.Logger
}

func NewQuantityHandlers(quantityService services.QuantityService, log *logger.Logger) *QuantityHandlers {
	return &QuantityHandlers{
		quantityService: quantityService,
		log:             log.WithComponent("quantity_handlers"),
	}
}

type quantityRequest struct {
	Order    *uuid.UUID `json:"order"`
	Product  *uuid.UUID `json:"product"`
	Quantity *int       `json:"quantity"`
}

func (r *quantityRequest) missingField() string {
	switch {
	case r.Order == nil:
		return "order"
	case r.Product == nil:
		return "product"
	}
	return ""
}

func (r *quantityRequest) invalidField() *services.ValidationError {
	return checkInt4("quantity", r.Quantity)
}

func (r *quantityRequest) apply(q *models.Quantity) {
	if r.Order != nil {
		q.OrderID = *r.Order
	}
	if r.Product != nil {
		q.ProductID = *r.Product
	}
	if r.Quantity != nil {
		q.Quantity = *r.Quantity
	}
}

// ListQuantities handles GET /api/quantity
//
//	@Summary	List quantities
//	@Tags		quantity
//	@Produce	json
//	@Success	200	{array}	models.Quantity
//	@Router		/api/quantity [get]
func (h *QuantityHandlers) ListQuantities(c echo.Context) error {
	quantities, err := h.quantityService.List(c.Request().Context())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, quantities)
}

// CreateQuantity handles POST /api/quantity
//
//	@Summary	Add a product to an order
//	@Tags		quantity
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	models.Quantity
//	@Failure	400	{object}	ErrorResponse
//	@Router		/api/quantity [post]
func (h *QuantityHandlers) CreateQuantity(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidRequest)
	}
	if field := req.missingField(); field != "" {
		return requiredFieldError(c, field)
	}

	if verr := req.invalidField(); verr != nil {
		return serviceError(c, h.log, verr)
	}

	quantity := &models.Quantity{Quantity: models.DefaultQuantity}
	req.apply(quantity)

	if err := h.quantityService.Create(c.Request().Context(), quantity); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, quantity)
}

// GetQuantity handles GET /api/quantity/:id
//
//	@Summary	Retrieve a quantity
//	@Tags		quantity
//	@Produce	json
//	@Param		id	path		string	true	"Quantity ID"
//	@Success	200	{object}	models.Quantity
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/quantity/{id} [get]
func (h *QuantityHandlers) GetQuantity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	quantity, err := h.quantityService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, quantity)
}

// UpdateQuantity handles PUT /api/quantity/:id
//
//	@Summary	Replace a quantity
//	@Tags		quantity
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Quantity ID"
//	@Success	200	{object}	models.Quantity
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/quantity/{id} [put]
func (h *QuantityHandlers) UpdateQuantity(c echo.Context) error {
	return h.update(c, false)
}

// PatchQuantity handles PATCH /api/quantity/:id
//
//	@Summary	Partially update a quantity
//	@Tags		quantity
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Quantity ID"
//	@Success	200	{object}	models.Quantity
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/quantity/{id} [patch]
func (h *QuantityHandlers) PatchQuantity(c echo.Context) error {
	return h.update(c, true)
}

func (h *QuantityHandlers) update(c echo.Context, partial bool) error {
	ctx := c.Request().Context()

	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	var req quantityRequest
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

	quantity, err := h.quantityService.GetByID(ctx, id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	req.apply(quantity)

	if err := h.quantityService.Update(ctx, quantity); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, quantity)
}

// DeleteQuantity handles DELETE /api/quantity/:id
//
//	@Summary	Delete a quantity
//	@Tags		quantity
//	@Param		id	path	string	true	"Quantity ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/quantity/{id} [delete]
func (h *QuantityHandlers) DeleteQuantity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	if err := h.quantityService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
