package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/identity"
	"storefront/internal/payment"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

const defaultCustomerName = "Customer"

// 決済確定後に注文を確定する（OrderUsecaseが実装）
type OrderConfirmer interface {
	ConfirmOrder(ctx context.Context, orderID string, paymentKey string) error
}

type PaymentUsecase struct {
	auth       identity.Provider
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	gateway    payment.Gateway
	confirmer  OrderConfirmer
	log        *zap.Logger
}

func NewPaymentUsecase(
	auth identity.Provider,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	gateway payment.Gateway,
	confirmer OrderConfirmer,
	log *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		auth:       auth,
		orders:     orders,
		orderItems: orderItems,
		gateway:    gateway,
		confirmer:  confirmer,
		log:        log,
	}
}

type RequestPaymentInput struct {
	OrderID      string
	CustomerName string
	SuccessURL   string
	FailURL      string
}

type ConfirmPaymentInput struct {
	PaymentKey string
	OrderID    string
	Amount     int64
}

// pending の注文に対して決済キーを発行する
func (u *PaymentUsecase) RequestPayment(ctx context.Context, in RequestPaymentInput) (string, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return "", errUnauthorized()
	}

	o, err := u.findOwned(ctx, in.OrderID, userID)
	if err != nil {
		return "", err
	}
	if o.Status != model.OrderStatusPending {
		return "", NewHTTPError(http.StatusConflict, "order has already been processed")
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return "", errStorage("failed to fetch order items")
	}

	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = defaultCustomerName
	}

	key, err := u.gateway.RequestPayment(ctx, payment.PaymentRequest{
		OrderID:      o.ID,
		Amount:       o.TotalAmount,
		OrderName:    orderName(o, items),
		CustomerName: customer,
		SuccessURL:   in.SuccessURL,
		FailURL:      in.FailURL,
	})
	if err != nil {
		return "", u.gatewayError("payment request failed", o.ID, err)
	}
	return key, nil
}

// 金額を照合してから決済を確定し、注文を confirmed にする
func (u *PaymentUsecase) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}
	if strings.TrimSpace(in.PaymentKey) == "" {
		return NewHTTPError(http.StatusBadRequest, "payment key is required")
	}

	o, err := u.findOwned(ctx, in.OrderID, userID)
	if err != nil {
		return err
	}
	if in.Amount != o.TotalAmount {
		return NewHTTPError(http.StatusBadRequest, "payment amount does not match order total")
	}

	if err := u.gateway.ConfirmPayment(ctx, payment.PaymentConfirmation{
		PaymentKey: in.PaymentKey,
		OrderID:    o.ID,
		Amount:     in.Amount,
	}); err != nil {
		return u.gatewayError("payment confirmation failed", o.ID, err)
	}

	return u.confirmer.ConfirmOrder(ctx, o.ID, in.PaymentKey)
}

func (u *PaymentUsecase) findOwned(ctx context.Context, orderID string, userID string) (model.Order, error) {
	if !validID(orderID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	o, err := u.orders.FindOwned(ctx, orderID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, errStorage("failed to fetch order")
	}
	return o, nil
}

func (u *PaymentUsecase) gatewayError(msg string, orderID string, err error) error {
	u.log.Error(msg, zap.String("order_id", orderID), zap.Error(err))
	if errors.Is(err, payment.ErrNotConfigured) {
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return NewHTTPError(http.StatusBadGateway, msg)
}

// "<先頭の商品名>" または "<先頭の商品名> and N more"
func orderName(o model.Order, items []model.OrderItem) string {
	if len(items) == 0 {
		return "Order " + o.ID
	}
	if len(items) == 1 {
		return items[0].ProductName
	}
	return fmt.Sprintf("%s and %d more", items[0].ProductName, len(items)-1)
}
