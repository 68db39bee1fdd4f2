package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	// 作成日時の昇順
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	SumQuantityByUserID(ctx context.Context, userID string) (int64, error)
	FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error)
	// 他人の明細は ErrNotFound
	FindOwned(ctx context.Context, cartItemID string, userID string) (model.CartItem, error)

	// (user_id, product_id) が既にあれば ErrConflict
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	// quantity が expected のときだけ更新する。更新できたら true
	CompareAndSetQuantity(ctx context.Context, cartItemID string, expected int64, qty int64) (bool, error)
	UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error
	DeleteByID(ctx context.Context, cartItemID string) error
	// 0件でもエラーにしない
	DeleteByUserID(ctx context.Context, userID string) error
}
