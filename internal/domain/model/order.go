package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// pending → confirmed → shipped → delivered
// cancelled は pending / confirmed からのみ。pending へは戻れない。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// 終端状態（delivered / cancelled）
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// 作成後にユーザーが変更できるのはキャンセルだけ
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}

// 配送先（注文に埋め込み、jsonbで保存）
type ShippingAddress struct {
	Name          string `json:"name" validate:"required,min=2,max=50"`
	Phone         string `json:"phone" validate:"required,phone"`
	Address       string `json:"address" validate:"required"`
	AddressDetail string `json:"address_detail,omitempty"`
	PostalCode    string `json:"postal_code" validate:"required,postalcode5"`
}

// total_amount は作成時に一度だけ計算したスナップショット。再計算しない。
type Order struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string           `gorm:"type:varchar(255);not null;index" json:"user_id"`
	TotalAmount     int64            `gorm:"not null" json:"total_amount"`
	Status          OrderStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress *ShippingAddress `gorm:"type:jsonb;serializer:json" json:"shipping_address"`
	OrderNote       *string          `gorm:"type:text" json:"order_note"`
	CreatedAt       time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
