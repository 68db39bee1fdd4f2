package memory

import (
	"context"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderItemRepository struct {
	s      *Store
	locked bool
}

func (r *OrderItemRepository) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	for _, it := range items {
		if _, ok := r.s.orderItems[it.ID]; ok {
			return repo.ErrConflict
		}
	}

	now := r.s.now()
	for _, it := range items {
		it.OrderID = orderID
		if it.CreatedAt.IsZero() {
			it.CreatedAt = now
		}
		r.s.orderItems[it.ID] = it
		r.s.touch(it.ID)
	}
	return nil
}

func (r *OrderItemRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	defer r.s.guard(r.locked)()

	out := []model.OrderItem{}
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.s.less(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
	})
	return out, nil
}
