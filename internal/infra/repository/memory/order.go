package memory

import (
	"context"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderRepository struct {
	s      *Store
	locked bool
}

func (r *OrderRepository) Create(ctx context.Context, order model.Order) error {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.orders[order.ID]; ok {
		return repo.ErrConflict
	}
	now := r.s.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.s.orders[order.ID] = cloneOrder(order)
	r.s.touch(order.ID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	defer r.s.guard(r.locked)()

	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) FindOwned(ctx context.Context, orderID string, userID string) (model.Order, error) {
	defer r.s.guard(r.locked)()

	o, ok := r.s.orders[orderID]
	if !ok || o.UserID != userID {
		return model.Order{}, repo.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	defer r.s.guard(r.locked)()

	out := []model.Order{}
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	r.sortDesc(out)
	return out, nil
}

func (r *OrderRepository) TransitionStatus(ctx context.Context, orderID string, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	defer r.s.guard(r.locked)()

	o, ok := r.s.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = r.s.now()
	r.s.orders[orderID] = o
	return true, nil
}

// 明細も一緒に消す（FKのON DELETE CASCADEと同じ）
func (r *OrderRepository) DeleteByID(ctx context.Context, orderID string) error {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, orderID)
	for id, it := range r.s.orderItems {
		if it.OrderID == orderID {
			delete(r.s.orderItems, id)
		}
	}
	return nil
}

func (r *OrderRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	defer r.s.guard(r.locked)()

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	matched := []model.Order{}
	for _, o := range r.s.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	r.sortDesc(matched)

	total := int64(len(matched))
	offset := (f.Page - 1) * f.Limit
	if offset >= len(matched) {
		return []model.Order{}, total, nil
	}
	end := offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *OrderRepository) sortDesc(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return r.s.less(orders[j].ID, orders[j].CreatedAt, orders[i].ID, orders[i].CreatedAt)
	})
}
