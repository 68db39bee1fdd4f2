package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders *usecase.OrderUsecase
	carts  *usecase.CartUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase, carts *usecase.CartUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

type CreateOrderRequest struct {
	ShippingAddress *model.ShippingAddress `json:"shipping_address"`
	OrderNote       *string                `json:"order_note"`
}

type ConfirmOrderRequest struct {
	PaymentKey string `json:"payment_key"`
}

type createOrderResponse struct {
	OrderID *string `json:"order_id"`
	Error   *string `json:"error"`
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
	Error  *string       `json:"error"`
}

type orderResponse struct {
	Order *usecase.OrderDetail `json:"order"`
	Error *string              `json:"error"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(jwtSecret))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/confirm", h.confirm)
	g.POST("/:id/cancel", h.cancel)
}

// 現在のカートから注文を作る
func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, createOrderResponse{Error: strPtr("invalid body")})
	}

	ctx := c.Request().Context()

	cart, err := h.carts.GetCartItems(ctx)
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, createOrderResponse{Error: &msg})
	}

	orderID, err := h.orders.CreateOrder(ctx, usecase.CreateOrderInput{
		Items:           cart.Items,
		ShippingAddress: req.ShippingAddress,
		OrderNote:       req.OrderNote,
	})
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, createOrderResponse{Error: &msg})
	}

	return c.JSON(http.StatusCreated, createOrderResponse{OrderID: &orderID})
}

func (h *OrderHandler) list(c echo.Context) error {
	orders, err := h.orders.GetOrders(c.Request().Context())
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, ordersResponse{Orders: []model.Order{}, Error: &msg})
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

func (h *OrderHandler) detail(c echo.Context) error {
	o, err := h.orders.GetOrderByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, orderResponse{Error: &msg})
	}
	return c.JSON(http.StatusOK, orderResponse{Order: &o})
}

func (h *OrderHandler) confirm(c echo.Context) error {
	var req ConfirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.orders.ConfirmOrder(c.Request().Context(), c.Param("id"), req.PaymentKey); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}

func (h *OrderHandler) cancel(c echo.Context) error {
	if err := h.orders.CancelOrder(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}
