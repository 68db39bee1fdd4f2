package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/events"
	"storefront/internal/identity"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

type OrderUsecase struct {
	auth       identity.Provider
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	validator  CheckoutValidator
	publisher  events.Publisher
	ids        IDGenerator
	clock      Clock
	log        *zap.Logger
}

type OrderDeps struct {
	Auth       identity.Provider
	Tx         repo.TransactionManager
	Orders     repo.OrderRepository
	OrderItems repo.OrderItemRepository
	CartItems  repo.CartItemRepository
	Validator  CheckoutValidator
	Publisher  events.Publisher
	IDs        IDGenerator
	Clock      Clock
	Log        *zap.Logger
}

func NewOrderUsecase(d OrderDeps) *OrderUsecase {
	return &OrderUsecase{
		auth:       d.Auth,
		tx:         d.Tx,
		orders:     d.Orders,
		orderItems: d.OrderItems,
		cartItems:  d.CartItems,
		validator:  d.Validator,
		publisher:  d.Publisher,
		ids:        d.IDs,
		clock:      d.Clock,
		log:        d.Log,
	}
}

// Items は取得済みのカート明細（商品情報つき）
type CreateOrderInput struct {
	Items           []model.CartItemWithProduct
	ShippingAddress *model.ShippingAddress
	OrderNote       *string
}

type OrderDetail struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// 注文作成（pending）。注文と明細は1トランザクションで書く。
// 在庫はチェックのみで減らさない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (string, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return "", errUnauthorized()
	}
	if len(in.Items) == 0 {
		return "", NewHTTPError(http.StatusBadRequest, "no items to order")
	}
	if err := u.validator.ValidateCheckout(in.ShippingAddress, in.OrderNote); err != nil {
		return "", NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note := in.OrderNote
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}

	now := u.clock.Now()
	order := model.Order{
		ID:              u.ids.NewID(),
		UserID:          userID,
		Status:          model.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		OrderNote:       note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	//名前と価格は渡された明細からスナップショット
	lines := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return "", NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
		}
		lines = append(lines, model.OrderItem{
			ID:          u.ids.NewID(),
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       it.Product.Price,
			CreatedAt:   now,
		})
	}
	order.TotalAmount = model.SumOrderItems(lines)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート投入後に在庫が減っているかもしれないので読み直す
		for _, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product not found: %s", line.ProductName))
			}
			if err != nil {
				return errStorage("failed to fetch product")
			}
			if p.StockQuantity < line.Quantity {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", line.ProductName))
			}
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return errStorage("failed to create order")
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, lines); err != nil {
			//明示的に注文を消してからロールバック
			if delErr := r.Orders().DeleteByID(ctx, order.ID); delErr != nil {
				u.log.Warn("compensating order delete failed",
					zap.String("order_id", order.ID),
					zap.Error(delErr),
				)
			}
			u.log.Error("create order items failed", zap.String("order_id", order.ID), zap.Error(err))
			return errStorage("failed to save order items")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	publishOrderEvent(ctx, u.publisher, u.log, events.OrderCreated, order, now)
	return order.ID, nil
}

// 決済後の確定。pending のときだけ成功する（二重確定は409）。
// 確定後のカート削除に失敗しても確定は取り消さない。
func (u *OrderUsecase) ConfirmOrder(ctx context.Context, orderID string, paymentKey string) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}
	if strings.TrimSpace(paymentKey) == "" {
		return NewHTTPError(http.StatusBadRequest, "payment key is required")
	}

	o, err := u.findOwned(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if o.Status != model.OrderStatusPending {
		return NewHTTPError(http.StatusConflict, "order has already been processed")
	}

	swapped, err := u.orders.TransitionStatus(ctx, o.ID, model.OrderStatusPending, model.OrderStatusConfirmed)
	if err != nil {
		return errStorage("failed to confirm order")
	}
	if !swapped {
		return NewHTTPError(http.StatusConflict, "order has already been processed")
	}
	o.Status = model.OrderStatusConfirmed

	if err := u.cartItems.DeleteByUserID(ctx, userID); err != nil {
		u.log.Warn("clear cart after confirm failed",
			zap.String("order_id", o.ID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	publishOrderEvent(ctx, u.publisher, u.log, events.OrderConfirmed, o, u.clock.Now())
	return nil
}

// キャンセル（pending / confirmed のみ）。在庫は戻さない。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID string) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}

	o, err := u.findOwned(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if !o.Status.Cancellable() {
		return NewHTTPError(http.StatusConflict, fmt.Sprintf("order cannot be cancelled in %s status", o.Status))
	}

	swapped, err := u.orders.TransitionStatus(ctx, o.ID, o.Status, model.OrderStatusCancelled)
	if err != nil {
		return errStorage("failed to cancel order")
	}
	if !swapped {
		return NewHTTPError(http.StatusConflict, "order status has changed, please reload")
	}
	o.Status = model.OrderStatusCancelled

	publishOrderEvent(ctx, u.publisher, u.log, events.OrderCancelled, o, u.clock.Now())
	return nil
}

// 明細つき（作成日時の昇順）
func (u *OrderUsecase) GetOrderByID(ctx context.Context, orderID string) (OrderDetail, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return OrderDetail{}, errUnauthorized()
	}

	o, err := u.findOwned(ctx, orderID, userID)
	if err != nil {
		return OrderDetail{}, err
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetail{}, errStorage("failed to fetch order items")
	}

	//保存済みの合計が正。ずれていたらログだけ
	if sum := model.SumOrderItems(items); sum != o.TotalAmount {
		u.log.Warn("order total mismatch",
			zap.String("order_id", o.ID),
			zap.Int64("stored", o.TotalAmount),
			zap.Int64("computed", sum),
		)
	}

	return OrderDetail{Order: o, Items: items}, nil
}

// 新しい順
func (u *OrderUsecase) GetOrders(ctx context.Context) ([]model.Order, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return []model.Order{}, errUnauthorized()
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Order{}, errStorage("failed to fetch orders")
	}
	return orders, nil
}

//他人の注文は「存在しない扱い」にする
func (u *OrderUsecase) findOwned(ctx context.Context, orderID string, userID string) (model.Order, error) {
	if !validID(orderID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	o, err := u.orders.FindOwned(ctx, orderID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, errStorage("failed to fetch order")
	}
	return o, nil
}
