package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/events"

	"go.uber.org/zap"
)

// 通知の失敗はログだけ
func publishOrderEvent(ctx context.Context, pub events.Publisher, log *zap.Logger, eventType string, o model.Order, at time.Time) {
	err := pub.PublishOrderEvent(ctx, events.OrderEvent{
		EventType:   eventType,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		OccurredAt:  at.UTC(),
	})
	if err != nil {
		log.Warn("publish order event failed",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
