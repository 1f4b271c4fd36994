package handlers

import (
	_ "waiter/docs"
	"waiter/internal/middleware"
	"waiter/pkg/logger"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const apiVersion = "v1"

// Server bundles the handler groups mounted by NewServer.
type Server struct {
	Products   *ProductHandlers
	Orders     *OrderHandlers
	Quantities *QuantityHandlers
	Reports    *ReportHandlers
	Health     *HealthHandlers

	// ImageUploads mounts the product image routes. Leave it off when no
	// object storage is configured.
	ImageUploads bool
	AppVersion   string
	Log          *logger.Logger
}

// NewServer builds the echo instance with middleware and every route.
// Trailing slashes are stripped before routing, so /api/orders/ and
// /api/orders reach the same handler.
func NewServer(s Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(s.Log)

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(s.Log))
	e.Use(echoMiddleware.Recover())

	e.GET("/health", s.Health.LivenessCheck)
	e.GET("/health/ready", s.Health.ReadinessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	versionMiddleware := middleware.NewVersionMiddleware(s.AppVersion)
	api := e.Group("/api", versionMiddleware.VersionHeader(apiVersion))

	api.GET("/products", s.Products.ListProducts)
	api.POST("/products", s.Products.CreateProduct)
	api.GET("/products/:id", s.Products.GetProduct)
	api.PUT("/products/:id", s.Products.UpdateProduct)
	api.PATCH("/products/:id", s.Products.PatchProduct)
	api.DELETE("/products/:id", s.Products.DeleteProduct)
	if s.ImageUploads {
		api.POST("/products/:id/image", s.Products.UploadProductImage)
		api.GET("/products/:id/image", s.Products.GetProductImage)
	}

	api.GET("/orders", s.Orders.GetOrders)
	api.POST("/orders", s.Orders.CreateOrder)
	api.GET("/orders/:id", s.Orders.GetOrder)
	api.PUT("/orders/:id", s.Orders.UpdateOrder)
	api.PATCH("/orders/:id", s.Orders.PatchOrder)
	api.DELETE("/orders/:id", s.Orders.DeleteOrder)

	api.GET("/quantity", s.Quantities.ListQuantities)
	api.POST("/quantity", s.Quantities.CreateQuantity)
	api.GET("/quantity/:id", s.Quantities.GetQuantity)
	api.PUT("/quantity/:id", s.Quantities.UpdateQuantity)
	api.PATCH("/quantity/:id", s.Quantities.PatchQuantity)
	api.DELETE("/quantity/:id", s.Quantities.DeleteQuantity)

	api.POST("/filter", s.Reports.FilterOrders)
	api.POST("/delete", s.Reports.DeletePaidOrders)

	return e
}
