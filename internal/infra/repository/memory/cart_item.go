package memory

import (
	"context"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CartItemRepository struct {
	s      *Store
	locked bool
}

func (r *CartItemRepository) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	defer r.s.guard(r.locked)()

	out := []model.CartItem{}
	for _, it := range r.s.cartItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.s.less(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
	})
	return out, nil
}

func (r *CartItemRepository) SumQuantityByUserID(ctx context.Context, userID string) (int64, error) {
	defer r.s.guard(r.locked)()

	var total int64
	for _, it := range r.s.cartItems {
		if it.UserID == userID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *CartItemRepository) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error) {
	defer r.s.guard(r.locked)()

	for _, it := range r.s.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *CartItemRepository) FindOwned(ctx context.Context, cartItemID string, userID string) (model.CartItem, error) {
	defer r.s.guard(r.locked)()

	it, ok := r.s.cartItems[cartItemID]
	if !ok || it.UserID != userID {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (r *CartItemRepository) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.cartItems[item.ID]; ok {
		return model.CartItem{}, repo.ErrConflict
	}
	for _, it := range r.s.cartItems {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			return model.CartItem{}, repo.ErrConflict
		}
	}
	now := r.s.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.s.cartItems[item.ID] = item
	r.s.touch(item.ID)
	return item, nil
}

func (r *CartItemRepository) CompareAndSetQuantity(ctx context.Context, cartItemID string, expected int64, qty int64) (bool, error) {
	defer r.s.guard(r.locked)()

	it, ok := r.s.cartItems[cartItemID]
	if !ok || it.Quantity != expected {
		return false, nil
	}
	it.Quantity = qty
	it.UpdatedAt = r.s.now()
	r.s.cartItems[cartItemID] = it
	return true, nil
}

func (r *CartItemRepository) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	defer r.s.guard(r.locked)()

	it, ok := r.s.cartItems[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Quantity = qty
	it.UpdatedAt = r.s.now()
	r.s.cartItems[cartItemID] = it
	return nil
}

func (r *CartItemRepository) DeleteByID(ctx context.Context, cartItemID string) error {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.cartItems[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.cartItems, cartItemID)
	return nil
}

func (r *CartItemRepository) DeleteByUserID(ctx context.Context, userID string) error {
	defer r.s.guard(r.locked)()

	for id, it := range r.s.cartItems {
		if it.UserID == userID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}
