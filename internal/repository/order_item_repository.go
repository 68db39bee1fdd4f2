package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	// 作成日時の昇順
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
}
