package model

import "time"

// カートの明細。(user_id, product_id) は一意。
// 数量は書き込み時点の在庫で上限チェックするだけで、その後の在庫変動には追従しない。
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_cart_items_user_product" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 現在の商品データと結合した明細
type CartItemWithProduct struct {
	CartItem
	Product Product `json:"product"`
}
