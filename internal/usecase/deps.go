package usecase

import (
	"time"

	"storefront/internal/domain/model"
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 配送先・注文メモの検証（internal/validator が実装）
type CheckoutValidator interface {
	ValidateCheckout(addr *model.ShippingAddress, note *string) error
}
