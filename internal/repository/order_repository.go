package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 他人の注文は ErrNotFound
	FindOwned(ctx context.Context, orderID string, userID string) (model.Order, error)
	// 作成日時の降順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	// status が from のときだけ to に変える。更新できたら true
	TransitionStatus(ctx context.Context, orderID string, from model.OrderStatus, to model.OrderStatus) (bool, error)
	// 明細作成に失敗したときの補償削除用
	DeleteByID(ctx context.Context, orderID string) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
