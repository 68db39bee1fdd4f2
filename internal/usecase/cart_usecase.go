package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/identity"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// 同時更新で負けたときの再試行回数
const maxCartMergeAttempts = 3

// CartUsecase は /cart の業務ロジック。
// 呼び出し元ユーザーは identity.Provider から取る。
type CartUsecase struct {
	auth         identity.Provider
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	ids          IDGenerator
	log          *zap.Logger
}

func NewCartUsecase(
	auth identity.Provider,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	ids IDGenerator,
	log *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		auth:         auth,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		ids:          ids,
		log:          log,
	}
}

type CartSummary struct {
	TotalItems int64 `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
}

type CartView struct {
	Items   []model.CartItemWithProduct `json:"items"`
	Summary CartSummary                 `json:"summary"`
}

// バッジ用の合計数量。未ログインは 0（エラーにしない）
func (u *CartUsecase) GetCartItemCount(ctx context.Context) (int64, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return 0, nil
	}

	n, err := u.cartItemRepo.SumQuantityByUserID(ctx, userID)
	if err != nil {
		return 0, errStorage("failed to fetch cart count")
	}
	return n, nil
}

// 明細を現在の商品情報と結合して返す（作成日時の昇順）
func (u *CartUsecase) GetCartItems(ctx context.Context) (CartView, error) {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return CartView{}, errUnauthorized()
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartView{}, errStorage("failed to fetch cart")
	}

	view := CartView{Items: make([]model.CartItemWithProduct, 0, len(items))}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//商品行が消えた明細は出さない
			continue
		}
		if err != nil {
			return CartView{}, errStorage("failed to fetch cart")
		}

		view.Items = append(view.Items, model.CartItemWithProduct{CartItem: it, Product: p})
		view.Summary.TotalItems += it.Quantity
		view.Summary.TotalPrice += p.Price * it.Quantity
	}
	return view, nil
}

// カートに追加。同じ商品が既にあれば数量を加算する。
func (u *CartUsecase) AddToCart(ctx context.Context, productID string, quantity int64) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}
	if quantity <= 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}
	if !validID(productID) {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return errStorage("failed to fetch product")
	}
	if !p.IsActive {
		return NewHTTPError(http.StatusBadRequest, "product is not available")
	}
	if p.StockQuantity < quantity {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock (available: %d)", p.StockQuantity))
	}

	for attempt := 0; attempt < maxCartMergeAttempts; attempt++ {
		existing, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, productID)

		if errors.Is(err, repo.ErrNotFound) {
			_, err := u.cartItemRepo.Create(ctx, model.CartItem{
				ID:        u.ids.NewID(),
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
			})
			if errors.Is(err, repo.ErrConflict) {
				//同時に別リクエストが作った。読み直して加算へ
				continue
			}
			if err != nil {
				return errStorage("failed to add to cart")
			}
			return nil
		}
		if err != nil {
			return errStorage("failed to fetch cart")
		}

		newQty := existing.Quantity + quantity
		if p.StockQuantity < newQty {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
				"insufficient stock (available: %d, in cart: %d)", p.StockQuantity, existing.Quantity))
		}

		//読んだ数量のままなら更新
		swapped, err := u.cartItemRepo.CompareAndSetQuantity(ctx, existing.ID, existing.Quantity, newQty)
		if err != nil {
			return errStorage("failed to update cart")
		}
		if swapped {
			return nil
		}
	}

	u.log.Info("add to cart lost concurrent update",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)
	return NewHTTPError(http.StatusConflict, "cart was updated concurrently, please try again")
}

// 数量変更（所有チェック＋在庫チェック）
func (u *CartUsecase) UpdateCartItem(ctx context.Context, cartItemID string, quantity int64) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}
	if quantity <= 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	item, err := u.findOwnedItem(ctx, cartItemID, userID)
	if err != nil {
		return err
	}

	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return errStorage("failed to fetch product")
	}
	if quantity > p.StockQuantity {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock (available: %d)", p.StockQuantity))
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return errStorage("failed to update cart")
	}
	return nil
}

// 明細削除
func (u *CartUsecase) RemoveCartItem(ctx context.Context, cartItemID string) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}

	item, err := u.findOwnedItem(ctx, cartItemID, userID)
	if err != nil {
		return err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, item.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return errStorage("failed to remove cart item")
	}
	return nil
}

// 全削除。空でも成功
func (u *CartUsecase) ClearCart(ctx context.Context) error {
	userID, ok := u.auth.CurrentUserID(ctx)
	if !ok {
		return errUnauthorized()
	}

	if err := u.cartItemRepo.DeleteByUserID(ctx, userID); err != nil {
		return errStorage("failed to clear cart")
	}
	return nil
}

// 他人の明細は存在しない扱い
func (u *CartUsecase) findOwnedItem(ctx context.Context, cartItemID string, userID string) (model.CartItem, error) {
	if !validID(cartItemID) {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	item, err := u.cartItemRepo.FindOwned(ctx, cartItemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return model.CartItem{}, errStorage("failed to fetch cart")
	}
	return item, nil
}
