package memory

import (
	"context"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductRepository struct {
	s      *Store
	locked bool
}

func (r *ProductRepository) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	defer r.s.guard(r.locked)()

	out := []model.Product{}
	for _, p := range r.s.products {
		if !p.IsActive {
			continue
		}
		if q.Category != nil && (p.Category == nil || *p.Category != *q.Category) {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case repo.ProductSortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return r.s.less(a.ID, a.CreatedAt, b.ID, b.CreatedAt)
		case repo.ProductSortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return r.s.less(b.ID, b.CreatedAt, a.ID, a.CreatedAt)
		case repo.ProductSortCreatedAtAsc:
			return r.s.less(a.ID, a.CreatedAt, b.ID, b.CreatedAt)
		default:
			return r.s.less(b.ID, b.CreatedAt, a.ID, a.CreatedAt)
		}
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []model.Product{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	defer r.s.guard(r.locked)()

	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	defer r.s.guard(r.locked)()

	if _, ok := r.s.products[p.ID]; ok {
		return model.Product{}, repo.ErrConflict
	}
	now := r.s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p = cloneProduct(p)
	r.s.products[p.ID] = p
	r.s.touch(p.ID)
	return cloneProduct(p), nil
}
