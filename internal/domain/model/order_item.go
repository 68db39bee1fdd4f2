package model

import "time"

// 注文明細。商品名と価格は注文時点のスナップショットで、商品側の変更に影響されない。
type OrderItem struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   string    `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// Σ(price × quantity)
func SumOrderItems(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * it.Quantity
	}
	return total
}
