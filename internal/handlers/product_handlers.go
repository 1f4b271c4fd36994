package handlers

import (
	"net/http"
	"strings"
	"time"

	"waiter/internal/models"
	"waiter/internal/services"
	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// imageURLExpiry is how long a presigned product image URL stays valid.
const imageURLExpiry = 15 * time.Minute

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
	log            *logger.Logger
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService, log *logger.Logger) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		log:            log.WithComponent("product_handlers"),
	}
}

// productRequest is the writable part of a product. Nil fields were not sent.
type productRequest struct {
	Name        *string                 `json:"name"`
	Price       *int                    `json:"price"`
	Img         *string                 `json:"img"`
	Description *string                 `json:"description"`
	Category    *models.ProductCategory `json:"category"`
}

// missingField returns the first required field absent from the request.
func (r *productRequest) missingField() string {
	switch {
	case r.Name == nil:
		return "name"
	case r.Price == nil:
		return "price"
	case r.Img == nil:
		return "img"
	case r.Description == nil:
		return "description"
	}
	return ""
}

// invalidField checks the values that were sent. Text fields may be omitted
// on PATCH but never sent blank.
func (r *productRequest) invalidField() *services.ValidationError {
	text := []struct {
		name  string
		value *string
	}{
		{"name", r.Name},
		{"img", r.Img},
		{"description", r.Description},
	}
	for _, f := range text {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return &services.ValidationError{Field: f.name, Message: msgFieldBlank}
		}
	}
	return checkInt4("price", r.Price)
}

func (r *productRequest) apply(p *models.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Img != nil {
		p.Img = *r.Img
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
}

// ListProducts handles GET /api/products
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	models.Product
//	@Router		/api/products [get]
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	models.Product
//	@Failure	400	{object}	ErrorResponse
//	@Router		/api/products [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidRequest)
	}
	if field := req.missingField(); field != "" {
		return requiredFieldError(c, field)
	}

	if verr := req.invalidField(); verr != nil {
		return serviceError(c, h.log, verr)
	}

	product := &models.Product{Category: models.CategoryMain}
	req.apply(product)

	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /api/products/:id
//
//	@Summary	Retrieve a product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/products/{id} [get]
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/:id
//
//	@Summary	Replace a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/products/{id} [put]
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	return h.update(c, false)
}

// PatchProduct handles PATCH /api/products/:id
//
//	@Summary	Partially update a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/products/{id} [patch]
func (h *ProductHandlers) PatchProduct(c echo.Context) error {
	return h.update(c, true)
}

func (h *ProductHandlers) update(c echo.Context, partial bool) error {
	ctx := c.Request().Context()

	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	var req productRequest
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

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	// Work on a copy so a cached value is never mutated.
	updated := *product
	req.apply(&updated)

	if err := h.productService.Update(ctx, &updated); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, &updated)
}

// DeleteProduct handles DELETE /api/products/:id
//
//	@Summary	Delete a product and its quantities
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/products/{id} [delete]
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadProductImage handles POST /api/products/:id/image
//
//	@Summary	Upload a product image
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Product ID"
//	@Param		image	formData	file	true	"Image file"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/products/{id}/image [post]
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return requiredFieldError(c, "image")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer file.Close()

	product, err := h.productService.UploadImage(c.Request().Context(), id, fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get(echo.HeaderContentType))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetProductImage handles GET /api/products/:id/image by redirecting to a
// presigned object URL.
//
//	@Summary	Redirect to a product image
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	307
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/products/{id}/image [get]
func (h *ProductHandlers) GetProductImage(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	}

	url, err := h.productService.GetImageURL(c.Request().Context(), id, imageURLExpiry)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}
