package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ProductSort string

const (
	ProductSortPriceAsc      ProductSort = "price_asc"
	ProductSortPriceDesc     ProductSort = "price_desc"
	ProductSortCreatedAtDesc ProductSort = "created_at_desc"
	ProductSortCreatedAtAsc  ProductSort = "created_at_asc"
)

// 一覧検索（公開中の商品のみ）
type ProductListQuery struct {
	Category *model.ProductCategory
	Sort     ProductSort
	Limit    int
	Offset   int
}

// 商品の取得。更新系は外部の管理プロセスが持つので Create はシード・テスト用。
type ProductRepository interface {
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	// 公開状態に関係なく1件取得
	FindByID(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
