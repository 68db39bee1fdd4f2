package server

import (
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health     *handler.HealthHandler
	Product    *handler.ProductHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Payment    *handler.PaymentHandler
	AdminOrder *handler.AdminOrderHandler
}

func RegisterRoutes(e *echo.Echo, jwtSecret string, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, jwtSecret)
	h.Order.RegisterRoutes(e, jwtSecret)
	h.Payment.RegisterRoutes(e, jwtSecret)
	h.AdminOrder.RegisterRoutes(e, jwtSecret)
}
