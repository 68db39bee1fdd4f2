// Package payment は決済ゲートウェイとの境界。実ゲートウェイが無い間はMockGatewayを使う。
package payment

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("payment service is not configured; enable mock payment mode")

type PaymentRequest struct {
	OrderID      string
	Amount       int64
	OrderName    string
	CustomerName string
	SuccessURL   string
	FailURL      string
}

type PaymentConfirmation struct {
	PaymentKey string
	OrderID    string
	Amount     int64
}

type Gateway interface {
	// 決済キーを返す
	RequestPayment(ctx context.Context, req PaymentRequest) (string, error)
	ConfirmPayment(ctx context.Context, c PaymentConfirmation) error
}
