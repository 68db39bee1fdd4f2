package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentRequestRequest struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	SuccessURL   string `json:"success_url"`
	FailURL      string `json:"fail_url"`
}

type PaymentConfirmRequest struct {
	PaymentKey string `json:"payment_key"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
}

type paymentKeyResponse struct {
	PaymentKey *string `json:"payment_key"`
	Error      *string `json:"error"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(jwtSecret))

	g.POST("/request", h.request)
	g.POST("/confirm", h.confirm)
}

func (h *PaymentHandler) request(c echo.Context) error {
	var req PaymentRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, paymentKeyResponse{Error: strPtr("invalid body")})
	}

	key, err := h.uc.RequestPayment(c.Request().Context(), usecase.RequestPaymentInput{
		OrderID:      req.OrderID,
		CustomerName: req.CustomerName,
		SuccessURL:   req.SuccessURL,
		FailURL:      req.FailURL,
	})
	if err != nil {
		status, msg := errorStatus(err)
		return c.JSON(status, paymentKeyResponse{Error: &msg})
	}
	return c.JSON(http.StatusOK, paymentKeyResponse{PaymentKey: &key})
}

func (h *PaymentHandler) confirm(c echo.Context) error {
	var req PaymentConfirmRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.uc.ConfirmPayment(c.Request().Context(), usecase.ConfirmPaymentInput{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}
