// Package events は注文のステータス変化を外部へ通知する。
// 通知の失敗でリクエストを失敗させない（呼び出し側でログだけ残す）。
package events

import (
	"context"
	"time"
)

const (
	OrderCreated       = "OrderCreated"
	OrderConfirmed     = "OrderConfirmed"
	OrderCancelled     = "OrderCancelled"
	OrderStatusChanged = "OrderStatusChanged"
)

type OrderEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
}

// RABBITMQ_URL 未設定のとき
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(ctx context.Context, ev OrderEvent) error {
	return nil
}
