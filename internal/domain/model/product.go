package model

import "time"

type ProductCategory string

const (
	CategoryElectronics ProductCategory = "electronics"
	CategoryClothing    ProductCategory = "clothing"
	CategoryBooks       ProductCategory = "books"
	CategoryFood        ProductCategory = "food"
	CategorySports      ProductCategory = "sports"
	CategoryBeauty      ProductCategory = "beauty"
	CategoryHome        ProductCategory = "home"
)

// 固定の7カテゴリ
var ProductCategories = []ProductCategory{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryFood,
	CategorySports,
	CategoryBeauty,
	CategoryHome,
}

func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// 商品は外部の管理プロセスが更新する。このサービスからは読み取り専用。
type Product struct {
	ID            string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(255);not null" json:"name"`
	Description   string           `gorm:"type:text;not null;default:''" json:"description"`
	Price         int64            `gorm:"not null" json:"price"`
	Category      *ProductCategory `gorm:"type:varchar(20)" json:"category"`
	StockQuantity int64            `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
